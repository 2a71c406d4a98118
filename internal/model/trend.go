package model

import (
	"database/sql"
	"time"
)

// Trend is one trending search topic scraped from the Google Trends
// daily RSS feed. Trends are upserted by title, so re-running the fetch
// refreshes link and description rather than duplicating rows.
type Trend struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Link        sql.NullString `json:"link,omitempty"`
	Source      string         `json:"source"`
	Description string         `json:"description"`
	MetaTitle   sql.NullString `json:"meta_title,omitempty"`
	MetaDesc    sql.NullString `json:"meta_description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
