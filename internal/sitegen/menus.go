package sitegen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brahmand/brahmand/internal/model"
)

// MenuLink is one link of the exported navigation data.
type MenuLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// MegaGroup is one column of the mega menu, grouped by verse title.
type MegaGroup struct {
	Title string     `json:"title"`
	Links []MenuLink `json:"links"`
}

// MenusExport is the payload written to assets/data/menus.json.
type MenusExport struct {
	Header      []MenuLink  `json:"header"`
	Mega        []MegaGroup `json:"mega"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// ExportMenus writes the navigation data the static site consumes and
// returns the exported payload.
func (g *Generator) ExportMenus(ctx context.Context) (MenusExport, error) {
	entries, err := g.queries.ListMenuEntries(ctx, "")
	if err != nil {
		return MenusExport{}, err
	}

	export := MenusExport{
		Header:      make([]MenuLink, 0),
		Mega:        make([]MegaGroup, 0),
		GeneratedAt: time.Now().UTC(),
	}

	for _, entry := range entries {
		switch entry.Area {
		case model.MenuAreaHeader:
			export.Header = append(export.Header, MenuLink{Label: entry.Label, URL: entry.URL})
		case model.MenuAreaMega:
			title := "Explore"
			if entry.VerseTitle.Valid && entry.VerseTitle.String != "" {
				title = entry.VerseTitle.String
			}
			link := MenuLink{Label: entry.Label, URL: entry.URL}
			found := false
			for i := range export.Mega {
				if export.Mega[i].Title == title {
					export.Mega[i].Links = append(export.Mega[i].Links, link)
					found = true
					break
				}
			}
			if !found {
				export.Mega = append(export.Mega, MegaGroup{Title: title, Links: []MenuLink{link}})
			}
		}
	}

	dataDir := filepath.Join(g.SiteDir, "assets", "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return MenusExport{}, fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return MenusExport{}, fmt.Errorf("marshaling menus: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "menus.json"), data, 0o644); err != nil {
		return MenusExport{}, fmt.Errorf("writing menus.json: %w", err)
	}
	return export, nil
}
