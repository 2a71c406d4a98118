package sitegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/seo"
)

// Summary reports one completed site build.
type Summary struct {
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// BuildSite renders every published article, then regenerates the
// search index, the sitemap, and the exported menus. The build is
// idempotent: running it twice over unchanged content produces the
// same page set.
func (g *Generator) BuildSite(ctx context.Context) (Summary, error) {
	now := time.Now().UTC()

	articles, err := g.queries.ListPublishedArticles(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading published articles: %w", err)
	}

	for _, a := range articles {
		if _, err := g.EmitPage(a, now); err != nil {
			return Summary{}, err
		}
	}

	if err := g.UpdateSearchIndex(articles); err != nil {
		return Summary{}, err
	}
	if err := g.WriteSitemap(ctx, articles); err != nil {
		return Summary{}, err
	}
	if _, err := g.ExportMenus(ctx); err != nil {
		return Summary{}, err
	}
	if err := g.WriteRobots(); err != nil {
		return Summary{}, err
	}

	return Summary{Count: len(articles), GeneratedAt: now}, nil
}

// WriteRobots regenerates <site>/robots.txt.
func (g *Generator) WriteRobots() error {
	if err := os.MkdirAll(g.SiteDir, 0o755); err != nil {
		return fmt.Errorf("creating site dir: %w", err)
	}
	path := filepath.Join(g.SiteDir, "robots.txt")
	if err := os.WriteFile(path, seo.GenerateRobots(g.SiteURL), 0o644); err != nil {
		return fmt.Errorf("writing robots.txt: %w", err)
	}
	return nil
}

// WriteSitemap regenerates <site>/sitemap.xml from scratch, covering
// the homepage, verse landing pages, and every published article.
func (g *Generator) WriteSitemap(ctx context.Context, articles []model.PublishedArticle) error {
	verses, err := g.queries.ListVerses(ctx)
	if err != nil {
		return fmt.Errorf("loading verses: %w", err)
	}
	codes := make([]string, 0, len(verses))
	for _, v := range verses {
		codes = append(codes, v.Code)
	}

	entries := make([]seo.SitemapArticle, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, seo.SitemapArticle{
			VerseCode: a.VerseCode,
			Slug:      a.Slug,
			PublishAt: a.PublishAt.Time,
			UpdatedAt: a.UpdatedAt,
		})
	}

	xml, err := seo.GenerateSitemap(g.SiteURL, codes, entries)
	if err != nil {
		return fmt.Errorf("generating sitemap: %w", err)
	}

	if err := os.MkdirAll(g.SiteDir, 0o755); err != nil {
		return fmt.Errorf("creating site dir: %w", err)
	}
	sitemapPath := filepath.Join(g.SiteDir, "sitemap.xml")
	if err := os.WriteFile(sitemapPath, xml, 0o644); err != nil {
		return fmt.Errorf("writing sitemap: %w", err)
	}
	return nil
}
