package sitegen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brahmand/brahmand/internal/markdown"
	"github.com/brahmand/brahmand/internal/model"
)

const excerptMaxLen = 180

// SearchEntry is one record of the client-side search index.
type SearchEntry struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	URL     string `json:"url"`
	Type    string `json:"type"`
}

func (g *Generator) searchIndexPath() string {
	return filepath.Join(g.SiteDir, "assets", "search-index.json")
}

// UpdateSearchIndex rewrites the article entries of the search index
// while preserving entries of any other type. A corrupt existing index
// is discarded rather than failing the build.
func (g *Generator) UpdateSearchIndex(articles []model.PublishedArticle) error {
	indexPath := g.searchIndexPath()

	var current []SearchEntry
	if data, err := os.ReadFile(indexPath); err == nil {
		if err := json.Unmarshal(data, &current); err != nil {
			current = nil
		}
	}

	merged := make([]SearchEntry, 0, len(current)+len(articles))
	for _, entry := range current {
		if entry.Type != "article" {
			merged = append(merged, entry)
		}
	}
	for _, a := range articles {
		excerpt := a.MetaDesc.String
		if excerpt == "" {
			excerpt = markdown.Excerpt(g.resolveMarkdown(a), excerptMaxLen)
		}
		merged = append(merged, SearchEntry{
			Title:   a.Title,
			Excerpt: excerpt,
			URL:     fmt.Sprintf("/%s/%s.html", a.VerseCode, a.Slug),
			Type:    "article",
		})
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return fmt.Errorf("creating assets dir: %w", err)
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling search index: %w", err)
	}
	if err := os.WriteFile(indexPath, data, 0o644); err != nil {
		return fmt.Errorf("writing search index: %w", err)
	}
	return nil
}
