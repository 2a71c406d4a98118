package scheduler

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
)

type fakeBuilds struct {
	mu       sync.Mutex
	triggers []map[string]any
}

func (f *fakeBuilds) TriggerBuild(triggeredBy string, payload map[string]any) job.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, payload)
	return job.Job{ID: "fake", Status: job.StatusQueued}
}

func testPublisherDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, "sqlite"))
	require.NoError(t, store.Seed(context.Background(), db, false))
	return db
}

func scheduleArticle(t *testing.T, db *sql.DB, slug string, publishAt time.Time) int64 {
	t.Helper()
	ctx := context.Background()
	q := store.New(db)
	verse, err := q.GetVerseByCode(ctx, model.VerseTechverse)
	require.NoError(t, err)

	id, err := q.CreateArticle(ctx, store.CreateArticleParams{
		VerseID:    verse.ID,
		Slug:       slug,
		Title:      slug,
		Type:       "article",
		Status:     model.ArticleStatusScheduled,
		SchemaType: model.SchemaTypeNone,
		BodyMD:     "body",
		PublishAt:  sql.NullTime{Time: publishAt, Valid: true},
		Now:        time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func TestRunSchedulerPublishesDue(t *testing.T) {
	db := testPublisherDB(t)
	builds := &fakeBuilds{}
	p := NewPublisher(db, builds, nil)
	ctx := context.Background()

	dueID := scheduleArticle(t, db, "due-now", time.Now().UTC().Add(-time.Minute))
	scheduleArticle(t, db, "due-later", time.Now().UTC().Add(time.Hour))

	result, err := p.RunScheduler(ctx, "scheduler", 0)
	require.NoError(t, err)
	require.Len(t, result.Published, 1)
	assert.Equal(t, dueID, result.Published[0].ID)
	assert.False(t, result.RunAt.IsZero())

	q := store.New(db)
	got, err := q.GetArticleByID(ctx, dueID)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleStatusPublished, got.Status)

	// The publish triggered exactly one build with the article ids.
	require.Len(t, builds.triggers, 1)
	assert.Equal(t, "scheduler_publish", builds.triggers[0]["reason"])
	assert.Equal(t, []int64{dueID}, builds.triggers[0]["article_ids"])

	// A publish event was recorded.
	events, err := q.ListRecentEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventCategoryScheduler, events[0].Category)
}

func TestRunSchedulerNothingDue(t *testing.T) {
	db := testPublisherDB(t)
	builds := &fakeBuilds{}
	p := NewPublisher(db, builds, nil)

	result, err := p.RunScheduler(context.Background(), "scheduler", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Published)
	assert.Empty(t, builds.triggers)
}

func TestRunSchedulerIdempotent(t *testing.T) {
	db := testPublisherDB(t)
	p := NewPublisher(db, nil, nil)
	ctx := context.Background()

	scheduleArticle(t, db, "once", time.Now().UTC().Add(-time.Minute))

	first, err := p.RunScheduler(ctx, "scheduler", 0)
	require.NoError(t, err)
	require.Len(t, first.Published, 1)

	// A second run finds nothing: the article is no longer scheduled.
	second, err := p.RunScheduler(ctx, "scheduler", 0)
	require.NoError(t, err)
	assert.Empty(t, second.Published)
}

func TestRunSchedulerAuditsActor(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, "sqlite"))
	require.NoError(t, store.Seed(context.Background(), db, true))

	p := NewPublisher(db, &fakeBuilds{}, nil)
	ctx := context.Background()

	id := scheduleArticle(t, db, "audited", time.Now().UTC().Add(-time.Minute))

	_, err = p.RunScheduler(ctx, store.DefaultAdminEmail, 1)
	require.NoError(t, err)

	q := store.New(db)
	got, err := q.GetArticleByID(ctx, id)
	require.NoError(t, err)
	require.True(t, got.UpdatedBy.Valid)
	assert.Equal(t, int64(1), got.UpdatedBy.Int64)

	events, err := q.ListRecentEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].UserID.Valid)
	assert.Equal(t, int64(1), events[0].UserID.Int64)
	assert.Contains(t, events[0].Metadata, store.DefaultAdminEmail)
}
