package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/util"
)

// EventService writes and reads the audit event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// Log records one audit event. Failures are logged but never propagate;
// auditing must not break the operation being audited.
func (s *EventService) Log(ctx context.Context, level, category, message string, userID *int64, metadata map[string]any) {
	metadataJSON := "{}"
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(data)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    util.NullInt64FromPtr(userID),
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("writing audit event failed", "category", category, "error", err)
	}
}

// ListRecent returns the most recent audit events.
func (s *EventService) ListRecent(ctx context.Context, limit int) ([]model.Event, error) {
	return s.queries.ListRecentEvents(ctx, limit)
}
