package sitegen

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brahmand/brahmand/internal/markdown"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/seo"
)

const fallbackShell = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>%s</title>
    <link rel="stylesheet" href="/assets/css/main.css" />
  </head>
  <body>
    <main>
      <article class="article-content">
        %s
      </article>
    </main>
  </body>
</html>`

// resolveMarkdown returns the article's Markdown source, preferring the
// mirror file under the content directory when one exists.
func (g *Generator) resolveMarkdown(a model.PublishedArticle) []byte {
	mirror := filepath.Join(g.ContentDir, a.VerseCode, a.Slug+".md")
	if data, err := os.ReadFile(mirror); err == nil {
		return data
	}
	return []byte(a.BodyMD)
}

// resolveTemplate renders the page shell. A per-verse template.html
// with {{TITLE}} and {{BODY}} placeholders wins over the built-in shell.
func (g *Generator) resolveTemplate(verseCode, title, body string) string {
	templatePath := filepath.Join(g.SiteDir, verseCode, "template.html")
	if data, err := os.ReadFile(templatePath); err == nil {
		page := strings.Replace(string(data), "{{TITLE}}", title, 1)
		return strings.Replace(page, "{{BODY}}", body, 1)
	}
	return fmt.Sprintf(fallbackShell, title, body)
}

func buildBreadcrumbs(a model.PublishedArticle) string {
	verseTitle := a.VerseTitle
	if verseTitle == "" {
		verseTitle = a.VerseCode
	}
	return fmt.Sprintf(`<nav class="breadcrumbs" aria-label="Breadcrumb">
  <a href="/">Home</a>
  <span>/</span>
  <a href="/%s/">%s</a>
  <span>/</span>
  <span>%s</span>
</nav>`, a.VerseCode, html.EscapeString(verseTitle), html.EscapeString(a.Title))
}

// EmitPage renders one published article to <site>/<verse>/<slug>.html
// and returns the written path.
func (g *Generator) EmitPage(a model.PublishedArticle, now time.Time) (string, error) {
	body, err := markdown.Render(g.resolveMarkdown(a))
	if err != nil {
		return "", fmt.Errorf("rendering article %q: %w", a.Slug, err)
	}
	body = buildBreadcrumbs(a) + body

	title := a.Title
	if a.MetaTitle.Valid && a.MetaTitle.String != "" {
		title = a.MetaTitle.String
	}

	page := g.resolveTemplate(a.VerseCode, title, body)

	scripts, err := seo.BuildSchemaScripts(seo.SchemaArticle{
		Title:      a.Title,
		MetaTitle:  a.MetaTitle.String,
		MetaDesc:   a.MetaDesc.String,
		VerseCode:  a.VerseCode,
		VerseTitle: a.VerseTitle,
		Slug:       a.Slug,
		PublishAt:  a.PublishAt.Time,
		UpdatedAt:  a.UpdatedAt,
	}, g.SiteURL, now)
	if err != nil {
		return "", err
	}
	if strings.Contains(page, "</head>") {
		page = strings.Replace(page, "</head>", scripts+"\n</head>", 1)
	}

	verseDir := filepath.Join(g.SiteDir, a.VerseCode)
	if err := os.MkdirAll(verseDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", verseDir, err)
	}

	outPath := filepath.Join(verseDir, a.Slug+".html")
	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}
