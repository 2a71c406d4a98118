package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/brahmand/brahmand/internal/cache"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
)

const verseCacheKey = "verses:all"

// VerseService serves the verse reference data. Verses change rarely,
// so the full list is cached.
type VerseService struct {
	queries *store.Queries
	cache   *cache.TypedCache[[]model.Verse]
}

// NewVerseService creates a VerseService backed by the given cache.
func NewVerseService(db *sql.DB, c cache.Cache) *VerseService {
	return &VerseService{
		queries: store.New(db),
		cache:   cache.NewTypedCache[[]model.Verse](c, time.Hour),
	}
}

// List returns all verses ordered by sort order.
func (s *VerseService) List(ctx context.Context) ([]model.Verse, error) {
	verses, err := s.cache.GetOrSet(ctx, verseCacheKey, func() (*[]model.Verse, error) {
		list, err := s.queries.ListVerses(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *verses, nil
}

// GetByCode fetches a verse by code, returning ErrVerseNotFound when it
// does not exist.
func (s *VerseService) GetByCode(ctx context.Context, code string) (model.Verse, error) {
	verse, err := s.queries.GetVerseByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Verse{}, ErrVerseNotFound
	}
	return verse, err
}

// Invalidate drops the cached verse list.
func (s *VerseService) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, verseCacheKey)
}
