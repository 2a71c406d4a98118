package job

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndGet(t *testing.T) {
	r := NewRegistry(10)

	j := r.Record(TypeStaticBuild, map[string]any{"triggered_by": "admin"})
	assert.NotEmpty(t, j.ID)
	assert.Equal(t, StatusQueued, j.Status)
	assert.Equal(t, "admin", j.Meta["triggered_by"])
	assert.Nil(t, j.StartedAt)

	got, ok := r.Get(j.ID)
	require.True(t, ok)
	assert.Equal(t, j.ID, got.ID)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestJobLifecycle(t *testing.T) {
	r := NewRegistry(10)
	j := r.Record(TypeStaticBuild, nil)

	require.True(t, r.MarkRunning(j.ID))
	got, _ := r.Get(j.ID)
	assert.Equal(t, StatusRunning, got.Status)
	assert.NotNil(t, got.StartedAt)

	require.True(t, r.MarkSuccess(j.ID, map[string]any{"count": 3}))
	got, _ = r.Get(j.ID)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.NotNil(t, got.FinishedAt)

	require.True(t, r.MarkWarning(j.ID, "sitemap ping failed"))
	got, _ = r.Get(j.ID)
	assert.Equal(t, StatusSuccessWithWarning, got.Status)
	assert.Equal(t, "sitemap ping failed", got.Warning)
}

func TestMarkFailed(t *testing.T) {
	r := NewRegistry(10)
	j := r.Record(TypeStaticBuild, nil)

	require.True(t, r.MarkFailed(j.ID, errors.New("boom")))
	got, _ := r.Get(j.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
	assert.NotNil(t, got.FinishedAt)
}

func TestListNewestFirst(t *testing.T) {
	r := NewRegistry(10)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, r.Record(TypeStaticBuild, map[string]any{"n": i}).ID)
	}

	jobs := r.List(3)
	require.Len(t, jobs, 3)
	assert.Equal(t, ids[4], jobs[0].ID)
	assert.Equal(t, ids[3], jobs[1].ID)
	assert.Equal(t, ids[2], jobs[2].ID)
}

func TestHistoryBounded(t *testing.T) {
	r := NewRegistry(3)
	first := r.Record(TypeStaticBuild, nil)
	for i := 0; i < 5; i++ {
		r.Record(TypeStaticBuild, nil)
	}

	jobs := r.List(100)
	assert.Len(t, jobs, 3)

	// Evicted jobs can no longer be updated.
	assert.False(t, r.MarkRunning(first.ID))
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry(50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			j := r.Record(TypeStaticBuild, map[string]any{"n": fmt.Sprint(n)})
			r.MarkRunning(j.ID)
			r.MarkSuccess(j.ID, nil)
		}(i)
	}
	wg.Wait()

	jobs := r.List(50)
	require.Len(t, jobs, 20)
	for _, j := range jobs {
		assert.Equal(t, StatusSuccess, j.Status)
	}
}
