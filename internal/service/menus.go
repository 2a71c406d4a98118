package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/util"
)

// MenuService manages navigation entries. The derived menus.json
// artifact is rewritten by the static generator on every full build.
type MenuService struct {
	queries *store.Queries
}

// NewMenuService creates a MenuService.
func NewMenuService(db *sql.DB) *MenuService {
	return &MenuService{queries: store.New(db)}
}

// MenuEntryInput are the fields accepted when creating or updating a
// menu entry. VerseCode is optional; mega entries use it to group links
// under their verse.
type MenuEntryInput struct {
	Area       string
	Label      string
	URL        string
	VerseCode  string
	OrderIndex int
}

// List returns menu entries, optionally filtered by area, ordered by
// area then order index.
func (s *MenuService) List(ctx context.Context, area string) ([]model.MenuEntry, error) {
	if area != "" && !model.IsValidMenuArea(area) {
		return nil, ErrInvalidMenuArea
	}
	return s.queries.ListMenuEntries(ctx, area)
}

// Get fetches a single menu entry.
func (s *MenuService) Get(ctx context.Context, id int64) (model.MenuEntry, error) {
	return s.queries.GetMenuEntry(ctx, id)
}

// Create inserts a menu entry and returns it.
func (s *MenuService) Create(ctx context.Context, in MenuEntryInput) (model.MenuEntry, error) {
	verseID, err := s.resolveVerse(ctx, in.VerseCode)
	if err != nil {
		return model.MenuEntry{}, err
	}
	if !model.IsValidMenuArea(in.Area) {
		return model.MenuEntry{}, ErrInvalidMenuArea
	}
	if in.Label == "" || in.URL == "" {
		return model.MenuEntry{}, errors.New("menu entry label and url are required")
	}

	id, err := s.queries.CreateMenuEntry(ctx, store.CreateMenuEntryParams{
		Area:       in.Area,
		Label:      in.Label,
		URL:        in.URL,
		VerseID:    verseID,
		OrderIndex: in.OrderIndex,
		Now:        time.Now().UTC(),
	})
	if err != nil {
		return model.MenuEntry{}, err
	}
	return s.queries.GetMenuEntry(ctx, id)
}

// Update overwrites a menu entry and returns the stored row.
func (s *MenuService) Update(ctx context.Context, id int64, in MenuEntryInput) (model.MenuEntry, error) {
	verseID, err := s.resolveVerse(ctx, in.VerseCode)
	if err != nil {
		return model.MenuEntry{}, err
	}

	err = s.queries.UpdateMenuEntry(ctx, store.UpdateMenuEntryParams{
		ID:         id,
		Label:      in.Label,
		URL:        in.URL,
		VerseID:    verseID,
		OrderIndex: in.OrderIndex,
		Now:        time.Now().UTC(),
	})
	if err != nil {
		return model.MenuEntry{}, err
	}
	return s.queries.GetMenuEntry(ctx, id)
}

// Delete removes a menu entry.
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteMenuEntry(ctx, id)
}

func (s *MenuService) resolveVerse(ctx context.Context, code string) (sql.NullInt64, error) {
	if code == "" {
		return sql.NullInt64{}, nil
	}
	verse, err := s.queries.GetVerseByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.NullInt64{}, fmt.Errorf("%w: %s", ErrVerseNotFound, code)
		}
		return sql.NullInt64{}, err
	}
	return util.NullInt64FromValue(verse.ID), nil
}
