package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
)

func testServiceDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, "sqlite"))
	require.NoError(t, store.Seed(context.Background(), db, true))
	return db
}

func testArticleService(t *testing.T) (*ArticleService, string) {
	t.Helper()
	contentDir := t.TempDir()
	return NewArticleService(testServiceDB(t), contentDir, nil), contentDir
}

func TestCreateArticleWritesMirror(t *testing.T) {
	svc, contentDir := testArticleService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateArticleInput{
		Title:    "Budgeting for Beginners!",
		Verse:    "finverse",
		Markdown: "# Budgeting\n\nStart small.",
	}, 1)
	require.NoError(t, err)

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "budgeting-for-beginners", detail.Slug)
	assert.Equal(t, model.ArticleStatusDraft, detail.Status)
	assert.Equal(t, "finverse", detail.VerseCode)
	assert.Equal(t, "# Budgeting\n\nStart small.", detail.Markdown)
	require.True(t, detail.CreatedBy.Valid)
	assert.Equal(t, int64(1), detail.CreatedBy.Int64)

	mirror := filepath.Join(contentDir, "finverse", "budgeting-for-beginners.md")
	data, err := os.ReadFile(mirror)
	require.NoError(t, err)
	assert.Equal(t, "# Budgeting\n\nStart small.", string(data))
}

func TestCreateArticleDisambiguatesSlug(t *testing.T) {
	svc, _ := testArticleService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateArticleInput{Title: "Same Title", Verse: "techverse"}, 1)
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateArticleInput{Title: "Same Title", Verse: "techverse"}, 1)
	require.NoError(t, err)

	a, err := svc.Get(ctx, first)
	require.NoError(t, err)
	b, err := svc.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "same-title", a.Slug)
	assert.Equal(t, "same-title-1", b.Slug)

	// Same slug is fine in another verse.
	third, err := svc.Create(ctx, CreateArticleInput{Title: "Same Title", Verse: "finverse"}, 1)
	require.NoError(t, err)
	c, err := svc.Get(ctx, third)
	require.NoError(t, err)
	assert.Equal(t, "same-title", c.Slug)
}

func TestCreateArticleUnknownVerse(t *testing.T) {
	svc, _ := testArticleService(t)

	_, err := svc.Create(context.Background(), CreateArticleInput{Title: "X", Verse: "novaverse"}, 1)
	assert.ErrorIs(t, err, ErrVerseNotFound)
}

func TestCreateArticleInvalidStatus(t *testing.T) {
	svc, _ := testArticleService(t)

	_, err := svc.Create(context.Background(), CreateArticleInput{
		Title: "X", Verse: "techverse", Status: "live",
	}, 1)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetArticlePrefersMirrorFile(t *testing.T) {
	svc, contentDir := testArticleService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateArticleInput{
		Title:    "Mirror Test",
		Verse:    "techverse",
		Markdown: "db body",
	}, 1)
	require.NoError(t, err)

	mirror := filepath.Join(contentDir, "techverse", "mirror-test.md")
	require.NoError(t, os.WriteFile(mirror, []byte("edited on disk"), 0o644))

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "edited on disk", detail.Markdown)
}

func TestUpdateArticleMergesFields(t *testing.T) {
	svc, contentDir := testArticleService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateArticleInput{
		Title:    "Original",
		Verse:    "healthverse",
		MetaDesc: "keep me",
		Markdown: "old body",
	}, 1)
	require.NoError(t, err)

	newTitle := "Updated"
	newBody := "new body"
	require.NoError(t, svc.Update(ctx, id, UpdateArticleInput{
		Title:    &newTitle,
		Markdown: &newBody,
	}, 1))

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Updated", detail.Title)
	assert.Equal(t, "new body", detail.Markdown)
	assert.Equal(t, "keep me", detail.MetaDesc.String)

	data, err := os.ReadFile(filepath.Join(contentDir, "healthverse", "original.md"))
	require.NoError(t, err)
	assert.Equal(t, "new body", string(data))
}

func TestUpdateArticleNotFound(t *testing.T) {
	svc, _ := testArticleService(t)

	title := "X"
	err := svc.Update(context.Background(), 9999, UpdateArticleInput{Title: &title}, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPublishArticle(t *testing.T) {
	svc, _ := testArticleService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateArticleInput{Title: "Go Live", Verse: "skillverse"}, 1)
	require.NoError(t, err)

	detail, err := svc.Publish(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleStatusPublished, detail.Status)
	assert.True(t, detail.PublishAt.Valid)
	assert.WithinDuration(t, time.Now().UTC(), detail.PublishAt.Time, 5*time.Second)
}

func TestPublishArticleKeepsScheduledTime(t *testing.T) {
	svc, _ := testArticleService(t)
	ctx := context.Background()

	scheduledAt := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	id, err := svc.Create(ctx, CreateArticleInput{
		Title:     "Scheduled",
		Verse:     "techverse",
		Status:    model.ArticleStatusScheduled,
		PublishAt: &scheduledAt,
	}, 1)
	require.NoError(t, err)

	detail, err := svc.Publish(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, scheduledAt, detail.PublishAt.Time.UTC())
}

func TestUpdateSchedule(t *testing.T) {
	svc, _ := testArticleService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateArticleInput{Title: "Later", Verse: "finverse"}, 1)
	require.NoError(t, err)

	at := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	detail, err := svc.UpdateSchedule(ctx, id, &at, model.ArticleStatusScheduled, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleStatusScheduled, detail.Status)
	assert.Equal(t, at, detail.PublishAt.Time.UTC())
}
