package model

import (
	"database/sql"
	"time"
)

// Media represents an uploaded media asset stored under the site's
// assets/media directory.
type Media struct {
	ID         int64         `json:"id"`
	Path       string        `json:"path"`
	Width      sql.NullInt64 `json:"width,omitempty"`
	Height     sql.NullInt64 `json:"height,omitempty"`
	Mime       string        `json:"mime"`
	Metadata   string        `json:"metadata"` // JSON string (original name, variants)
	UploadedBy sql.NullInt64 `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
