package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationTryRun(t *testing.T) {
	a := NewAutomation(func(ctx context.Context) ([]string, error) {
		return []string{"fetch_trends", "generate_articles"}, nil
	}, nil)

	result, err := a.TryRun(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, []string{"fetch_trends", "generate_articles"}, result.Steps)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestAutomationSkipsOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	a := NewAutomation(func(ctx context.Context) ([]string, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return []string{"slow"}, nil
	}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := a.TryRun(context.Background())
		assert.NoError(t, err)
	}()

	<-started
	assert.True(t, a.Running())

	// A cycle fired mid-run is skipped, not queued.
	result, err := a.TryRun(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	close(release)
	wg.Wait()
	assert.False(t, a.Running())

	// The slot is free again afterwards.
	result, err = a.TryRun(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Skipped)
}

func TestAutomationPipelineError(t *testing.T) {
	a := NewAutomation(func(ctx context.Context) ([]string, error) {
		return nil, errors.New("rss unreachable")
	}, nil)

	_, err := a.TryRun(context.Background())
	require.Error(t, err)

	// A failed run releases the slot.
	assert.False(t, a.Running())
}

func TestSchedulerStartStop(t *testing.T) {
	db := testPublisherDB(t)
	p := NewPublisher(db, nil, nil)
	a := NewAutomation(func(ctx context.Context) ([]string, error) {
		return []string{"noop"}, nil
	}, nil)

	s := New(p, a, time.Hour, nil)
	require.NoError(t, s.Start())

	// Give the immediate automation cycle a moment to run.
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
