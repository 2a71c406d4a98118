// Package sitegen renders published articles into the static site tree
// and regenerates the site-wide artifacts that accompany them: the
// search index, the sitemap, and the exported menus.
package sitegen

import (
	"database/sql"

	"github.com/brahmand/brahmand/internal/store"
)

// Generator builds static site files from published content.
type Generator struct {
	queries *store.Queries

	// SiteDir is the static site output root.
	SiteDir string
	// ContentDir holds per-verse Markdown mirrors. When an article has
	// a mirror file it takes precedence over the stored body.
	ContentDir string
	// SiteURL is the canonical site URL without a trailing slash.
	SiteURL string
}

// New creates a Generator over the given database.
func New(db *sql.DB, siteDir, contentDir, siteURL string) *Generator {
	return &Generator{
		queries:    store.New(db),
		SiteDir:    siteDir,
		ContentDir: contentDir,
		SiteURL:    siteURL,
	}
}
