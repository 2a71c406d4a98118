package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
)

func TestMenuServiceCreateAndList(t *testing.T) {
	svc := NewMenuService(testServiceDB(t))
	ctx := context.Background()

	entry, err := svc.Create(ctx, MenuEntryInput{
		Area:       model.MenuAreaHeader,
		Label:      "Home",
		URL:        "/",
		OrderIndex: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Home", entry.Label)
	assert.False(t, entry.VerseID.Valid)

	mega, err := svc.Create(ctx, MenuEntryInput{
		Area:       model.MenuAreaMega,
		Label:      "AI Tools",
		URL:        "/techverse/ai-tools.html",
		VerseCode:  "techverse",
		OrderIndex: 1,
	})
	require.NoError(t, err)
	assert.True(t, mega.VerseID.Valid)
	assert.Equal(t, "techverse", mega.VerseCode.String)

	header, err := svc.List(ctx, model.MenuAreaHeader)
	require.NoError(t, err)
	require.Len(t, header, 1)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMenuServiceValidation(t *testing.T) {
	svc := NewMenuService(testServiceDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, MenuEntryInput{Area: "sidebar", Label: "X", URL: "/x"})
	assert.ErrorIs(t, err, ErrInvalidMenuArea)

	_, err = svc.Create(ctx, MenuEntryInput{Area: model.MenuAreaHeader, Label: "", URL: "/x"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, MenuEntryInput{
		Area: model.MenuAreaHeader, Label: "X", URL: "/x", VerseCode: "novaverse",
	})
	assert.ErrorIs(t, err, ErrVerseNotFound)

	_, err = svc.List(ctx, "sidebar")
	assert.ErrorIs(t, err, ErrInvalidMenuArea)
}

func TestMenuServiceUpdateAndDelete(t *testing.T) {
	svc := NewMenuService(testServiceDB(t))
	ctx := context.Background()

	entry, err := svc.Create(ctx, MenuEntryInput{
		Area: model.MenuAreaHeader, Label: "Old", URL: "/old", OrderIndex: 1,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, entry.ID, MenuEntryInput{
		Label: "New", URL: "/new", OrderIndex: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Label)
	assert.Equal(t, "/new", updated.URL)
	assert.Equal(t, 2, updated.OrderIndex)

	require.NoError(t, svc.Delete(ctx, entry.ID))

	_, err = svc.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Update(ctx, 9999, MenuEntryInput{Label: "X", URL: "/x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
