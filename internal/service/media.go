package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"github.com/brahmand/brahmand/internal/imaging"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/util"
)

// MediaService handles image uploads. Files are resized, auto-oriented
// and written into the static site's media directory, then recorded in
// the media table with their final dimensions.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
}

// NewMediaService creates a MediaService storing files under mediaDir.
func NewMediaService(db *sql.DB, mediaDir string) *MediaService {
	return &MediaService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(mediaDir),
	}
}

// Upload processes one uploaded image and records it. The returned
// media row carries the public path under /assets/media.
func (s *MediaService) Upload(ctx context.Context, reader io.Reader, originalName string, userID int64) (model.Media, error) {
	result, err := s.processor.Process(reader, originalName)
	if err != nil {
		return model.Media{}, err
	}

	metadata, _ := json.Marshal(map[string]any{
		"original_name": originalName,
		"size_bytes":    result.Size,
	})

	now := time.Now().UTC()
	publicPath := "/assets/media/" + result.FileName

	id, err := s.queries.CreateMedia(ctx, store.CreateMediaParams{
		Path:       publicPath,
		Width:      sql.NullInt64{Int64: int64(result.Width), Valid: true},
		Height:     sql.NullInt64{Int64: int64(result.Height), Valid: true},
		Mime:       result.MimeType,
		Metadata:   string(metadata),
		UploadedBy: util.NullInt64FromValue(userID),
		Now:        now,
	})
	if err != nil {
		// The row failed, remove the orphaned file.
		_ = s.processor.Delete(result.FileName)
		return model.Media{}, err
	}

	return model.Media{
		ID:         id,
		Path:       publicPath,
		Width:      sql.NullInt64{Int64: int64(result.Width), Valid: true},
		Height:     sql.NullInt64{Int64: int64(result.Height), Valid: true},
		Mime:       result.MimeType,
		Metadata:   string(metadata),
		UploadedBy: util.NullInt64FromValue(userID),
		CreatedAt:  now,
	}, nil
}

// List returns the most recently uploaded media assets.
func (s *MediaService) List(ctx context.Context, limit int) ([]model.Media, error) {
	return s.queries.ListMedia(ctx, limit)
}
