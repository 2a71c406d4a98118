package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand/brahmand/internal/cache"
)

func TestVerseServiceListCached(t *testing.T) {
	db := testServiceDB(t)
	mem := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { mem.Close() })

	svc := NewVerseService(db, mem)
	ctx := context.Background()

	verses, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, verses, 4)
	assert.Equal(t, "techverse", verses[0].Code)
	assert.Equal(t, "finverse", verses[1].Code)

	// Second call is served from the cache even if the table changes.
	_, err = db.Exec(`DELETE FROM verses`)
	require.NoError(t, err)

	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 4)

	svc.Invalidate(ctx)
	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestVerseServiceGetByCode(t *testing.T) {
	db := testServiceDB(t)
	mem := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { mem.Close() })
	svc := NewVerseService(db, mem)

	verse, err := svc.GetByCode(context.Background(), "healthverse")
	require.NoError(t, err)
	assert.Equal(t, "Healthverse", verse.Title)

	_, err = svc.GetByCode(context.Background(), "novaverse")
	assert.ErrorIs(t, err, ErrVerseNotFound)
}
