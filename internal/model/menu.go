package model

import (
	"database/sql"
	"time"
)

// Menu areas
const (
	MenuAreaHeader = "header"
	MenuAreaMega   = "mega"
)

// ValidMenuAreas contains all valid menu area values.
var ValidMenuAreas = []string{MenuAreaHeader, MenuAreaMega}

// MenuEntry represents one navigation link. Entries are exported to a
// derived menus.json artifact consumed by the client-side navigation.
type MenuEntry struct {
	ID         int64         `json:"id"`
	Area       string        `json:"area"`
	Label      string        `json:"label"`
	URL        string        `json:"url"`
	VerseID    sql.NullInt64 `json:"verse_id,omitempty"`
	OrderIndex int           `json:"order_index"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Joined verse columns, populated by list queries.
	VerseCode  sql.NullString `json:"verse_code,omitempty"`
	VerseTitle sql.NullString `json:"verse_title,omitempty"`
}

// IsValidMenuArea checks if an area value is valid.
func IsValidMenuArea(area string) bool {
	for _, a := range ValidMenuAreas {
		if a == area {
			return true
		}
	}
	return false
}
