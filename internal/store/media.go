package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brahmand/brahmand/internal/model"
)

// CreateMediaParams describe one uploaded media asset.
type CreateMediaParams struct {
	Path       string
	Width      sql.NullInt64
	Height     sql.NullInt64
	Mime       string
	Metadata   string
	UploadedBy sql.NullInt64
	Now        time.Time
}

// CreateMedia inserts a media row and returns its id.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (int64, error) {
	metadata := arg.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO media (path, width, height, mime, metadata, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Path, arg.Width, arg.Height, arg.Mime, metadata, arg.UploadedBy, arg.Now)
	if err != nil {
		return 0, fmt.Errorf("inserting media: %w", err)
	}
	return res.LastInsertId()
}

// ListMedia returns the most recently uploaded media assets.
func (q *Queries) ListMedia(ctx context.Context, limit int) ([]model.Media, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, path, width, height, mime, metadata, uploaded_by, created_at
		FROM media
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	defer rows.Close()

	var media []model.Media
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Path, &m.Width, &m.Height, &m.Mime, &m.Metadata, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}
