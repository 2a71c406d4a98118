package model

import (
	"database/sql"
	"time"
)

// Article statuses
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusReview    = "review"
	ArticleStatusScheduled = "scheduled"
	ArticleStatusPublished = "published"
)

// Article schema types
const (
	SchemaTypeNone    = "none"
	SchemaTypeHowTo   = "HowTo"
	SchemaTypeFAQ     = "FAQ"
	SchemaTypeArticle = "Article"
)

// ValidStatuses contains all valid article lifecycle statuses.
var ValidStatuses = []string{
	ArticleStatusDraft,
	ArticleStatusReview,
	ArticleStatusScheduled,
	ArticleStatusPublished,
}

// Article represents a single content unit belonging to a verse.
type Article struct {
	ID           int64          `json:"id"`
	VerseID      int64          `json:"verse_id"`
	Slug         string         `json:"slug"`
	Title        string         `json:"title"`
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	MetaTitle    sql.NullString `json:"meta_title,omitempty"`
	MetaDesc     sql.NullString `json:"meta_desc,omitempty"`
	SchemaType   string         `json:"schema_type"`
	CanonicalURL sql.NullString `json:"canonical_url,omitempty"`
	BodyMD       string         `json:"body_md"`
	PublishAt    sql.NullTime   `json:"publish_at,omitempty"`
	CreatedBy    sql.NullInt64  `json:"created_by,omitempty"`
	UpdatedBy    sql.NullInt64  `json:"updated_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsPublished returns true if the article is published.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// IsScheduled returns true if the article is awaiting its publish time.
func (a *Article) IsScheduled() bool {
	return a.Status == ArticleStatusScheduled
}

// IsValidStatus checks whether a status value is a known lifecycle status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// DueArticle is the minimal projection the scheduler works with: a
// scheduled article whose publish time has passed.
type DueArticle struct {
	ID        int64
	Slug      string
	VerseID   int64
	PublishAt sql.NullTime
}

// PublishedArticle carries everything the static generator needs to emit
// one article page, including the joined verse columns.
type PublishedArticle struct {
	ID         int64
	Slug       string
	Title      string
	Status     string
	PublishAt  sql.NullTime
	UpdatedAt  time.Time
	MetaTitle  sql.NullString
	MetaDesc   sql.NullString
	SchemaType string
	BodyMD     string
	VerseCode  string
	VerseTitle string
}
