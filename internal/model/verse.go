package model

import "time"

// Verse codes for the four launch sections.
const (
	VerseTechverse   = "techverse"
	VerseFinverse    = "finverse"
	VerseHealthverse = "healthverse"
	VerseSkillverse  = "skillverse"
)

// Verse is a top-level content section of the site. Verses are immutable
// reference data; articles and menu entries point at them by id.
type Verse struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
