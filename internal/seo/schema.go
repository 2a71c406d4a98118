package seo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrganizationName is the publisher shown in structured data.
const OrganizationName = "Brahmand.co"

// SchemaArticle carries the article fields needed to build structured
// data markup.
type SchemaArticle struct {
	Title      string
	MetaTitle  string
	MetaDesc   string
	VerseCode  string
	VerseTitle string
	Slug       string
	PublishAt  time.Time
	UpdatedAt  time.Time
}

type organization struct {
	Context string `json:"@context,omitempty"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Logo    any    `json:"logo,omitempty"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type webPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

type articleSchema struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	Image            string       `json:"image"`
	DatePublished    string       `json:"datePublished"`
	DateModified     string       `json:"dateModified"`
	Author           organization `json:"author"`
	Publisher        organization `json:"publisher"`
	MainEntityOfPage webPage      `json:"mainEntityOfPage"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbSchema struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []listItem `json:"itemListElement"`
}

// BuildSchemaScripts returns the JSON-LD script tags injected into an
// article page head: Article, BreadcrumbList, and Organization markup.
func BuildSchemaScripts(a SchemaArticle, siteURL string, now time.Time) (string, error) {
	articleURL := fmt.Sprintf("%s/%s/%s.html", siteURL, a.VerseCode, a.Slug)

	publishDate := a.PublishAt
	if publishDate.IsZero() {
		publishDate = now
	}
	updatedDate := a.UpdatedAt
	if updatedDate.IsZero() {
		updatedDate = publishDate
	}

	verseTitle := a.VerseTitle
	if verseTitle == "" {
		verseTitle = a.VerseCode
	}
	headline := a.MetaTitle
	if headline == "" {
		headline = a.Title
	}
	description := a.MetaDesc
	if description == "" {
		description = fmt.Sprintf("%s - explore the %s verse on Brahmand.", a.Title, verseTitle)
	}

	article := articleSchema{
		Context:       "https://schema.org",
		Type:          "Article",
		Headline:      headline,
		Description:   description,
		Image:         siteURL + "/assets/og/home.png",
		DatePublished: publishDate.UTC().Format(time.RFC3339),
		DateModified:  updatedDate.UTC().Format(time.RFC3339),
		Author: organization{
			Type: "Organization",
			Name: OrganizationName,
			URL:  siteURL,
		},
		Publisher: organization{
			Type: "Organization",
			Name: OrganizationName,
			Logo: imageObject{Type: "ImageObject", URL: siteURL + "/assets/og/logo.png"},
		},
		MainEntityOfPage: webPage{Type: "WebPage", ID: articleURL},
	}

	breadcrumbs := breadcrumbSchema{
		Context: "https://schema.org",
		Type:    "BreadcrumbList",
		ItemListElement: []listItem{
			{Type: "ListItem", Position: 1, Name: "Home", Item: siteURL},
			{Type: "ListItem", Position: 2, Name: verseTitle, Item: fmt.Sprintf("%s/%s/", siteURL, a.VerseCode)},
			{Type: "ListItem", Position: 3, Name: a.Title, Item: articleURL},
		},
	}

	org := organization{
		Context: "https://schema.org",
		Type:    "Organization",
		Name:    OrganizationName,
		URL:     siteURL,
		Logo:    siteURL + "/assets/og/logo.png",
	}

	var scripts []string
	for _, schema := range []any{article, breadcrumbs, org} {
		data, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("marshaling schema markup: %w", err)
		}
		scripts = append(scripts, `<script type="application/ld+json">`+string(data)+`</script>`)
	}
	return strings.Join(scripts, "\n"), nil
}
