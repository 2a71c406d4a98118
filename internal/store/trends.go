package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brahmand/brahmand/internal/model"
)

// UpsertTrendParams describe one scraped trending topic.
type UpsertTrendParams struct {
	Title       string
	Link        sql.NullString
	Source      string
	Description string
	MetaTitle   sql.NullString
	MetaDesc    sql.NullString
	Now         time.Time
}

// UpsertTrend inserts a trend or, when the title already exists,
// refreshes its link and descriptions. Update-then-insert keeps the
// statement portable across SQLite and MySQL.
func (q *Queries) UpsertTrend(ctx context.Context, arg UpsertTrendParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE trends
		SET link = ?, source = ?, description = ?, meta_title = ?, meta_description = ?
		WHERE title = ?`,
		arg.Link, arg.Source, arg.Description, arg.MetaTitle, arg.MetaDesc, arg.Title)
	if err != nil {
		return fmt.Errorf("updating trend: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO trends (title, link, source, description, meta_title, meta_description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Link, arg.Source, arg.Description, arg.MetaTitle, arg.MetaDesc, arg.Now)
	if err != nil {
		return fmt.Errorf("inserting trend: %w", err)
	}
	return nil
}

// ListRecentTrends returns the most recently scraped trends.
func (q *Queries) ListRecentTrends(ctx context.Context, limit int) ([]model.Trend, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, title, link, source, description, meta_title, meta_description, created_at
		FROM trends
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing trends: %w", err)
	}
	defer rows.Close()

	var trends []model.Trend
	for rows.Next() {
		var tr model.Trend
		if err := rows.Scan(&tr.ID, &tr.Title, &tr.Link, &tr.Source, &tr.Description, &tr.MetaTitle, &tr.MetaDesc, &tr.CreatedAt); err != nil {
			return nil, err
		}
		trends = append(trends, tr)
	}
	return trends, rows.Err()
}
