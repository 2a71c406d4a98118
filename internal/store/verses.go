package store

import (
	"context"
	"fmt"

	"github.com/brahmand/brahmand/internal/model"
)

// ListVerses returns all verses ordered by sort order, then title.
func (q *Queries) ListVerses(ctx context.Context) ([]model.Verse, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, code, title, sort_order, created_at
		FROM verses
		ORDER BY sort_order ASC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing verses: %w", err)
	}
	defer rows.Close()

	var verses []model.Verse
	for rows.Next() {
		var v model.Verse
		if err := rows.Scan(&v.ID, &v.Code, &v.Title, &v.SortOrder, &v.CreatedAt); err != nil {
			return nil, err
		}
		verses = append(verses, v)
	}
	return verses, rows.Err()
}

// GetVerseByCode fetches a verse by its unique code.
func (q *Queries) GetVerseByCode(ctx context.Context, code string) (model.Verse, error) {
	var v model.Verse
	err := q.db.QueryRowContext(ctx, `
		SELECT id, code, title, sort_order, created_at
		FROM verses
		WHERE code = ?`, code).Scan(&v.ID, &v.Code, &v.Title, &v.SortOrder, &v.CreatedAt)
	return v, err
}

// CreateVerseParams describe a new verse.
type CreateVerseParams struct {
	Code      string
	Title     string
	SortOrder int
}

// CreateVerse inserts a verse and returns its id.
func (q *Queries) CreateVerse(ctx context.Context, arg CreateVerseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO verses (code, title, sort_order)
		VALUES (?, ?, ?)`, arg.Code, arg.Title, arg.SortOrder)
	if err != nil {
		return 0, fmt.Errorf("inserting verse: %w", err)
	}
	return res.LastInsertId()
}
