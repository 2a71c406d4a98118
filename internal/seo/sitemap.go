// Package seo provides sitemap generation, structured data markup, and
// search engine notification for the public site.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapArticle contains data needed to add a published article to the
// sitemap.
type SitemapArticle struct {
	VerseCode string
	Slug      string
	PublishAt time.Time
	UpdatedAt time.Time
}

// SitemapBuilder builds a flat sitemap covering the homepage, the verse
// landing pages, and every published article.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder. siteURL must not
// have a trailing slash.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddVerse adds a verse landing page to the sitemap.
func (b *SitemapBuilder) AddVerse(code string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/" + code + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "0.8",
	})
}

// AddArticle adds a published article page to the sitemap. lastmod is
// taken from the publish time, falling back to the update time, then
// to the time of the build.
func (b *SitemapBuilder) AddArticle(a SitemapArticle) {
	url := SitemapURL{
		Loc:        b.siteURL + "/" + a.VerseCode + "/" + a.Slug + ".html",
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.6",
	}
	switch {
	case !a.PublishAt.IsZero():
		url.LastMod = a.PublishAt.Format(time.RFC3339)
	case !a.UpdatedAt.IsZero():
		url.LastMod = a.UpdatedAt.Format(time.RFC3339)
	default:
		url.LastMod = time.Now().UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddArticles adds multiple articles to the sitemap.
func (b *SitemapBuilder) AddArticles(articles []SitemapArticle) {
	for _, a := range articles {
		b.AddArticle(a)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds the complete site sitemap in one call.
func GenerateSitemap(siteURL string, verseCodes []string, articles []SitemapArticle) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	for _, code := range verseCodes {
		builder.AddVerse(code)
	}
	builder.AddArticles(articles)
	return builder.Build()
}
