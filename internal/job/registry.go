// Package job tracks in-memory background job records. History is
// intentionally ephemeral and resets on process restart.
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	StatusQueued             = "queued"
	StatusRunning            = "running"
	StatusSuccess            = "success"
	StatusSuccessWithWarning = "success_with_warning"
	StatusFailed             = "failed"
)

// Job types.
const (
	TypeStaticBuild = "static_build"
)

// Job is one tracked background job.
type Job struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	Meta       map[string]any `json:"meta,omitempty"`
	Result     any            `json:"result,omitempty"`
	Warning    string         `json:"warning,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// DefaultMaxHistory caps how many finished jobs the registry retains.
const DefaultMaxHistory = 100

// Registry is a bounded, concurrency-safe job history.
type Registry struct {
	mu         sync.Mutex
	jobs       []*Job
	maxHistory int
}

// NewRegistry creates a registry retaining at most maxHistory jobs.
// Non-positive values fall back to DefaultMaxHistory.
func NewRegistry(maxHistory int) *Registry {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Registry{maxHistory: maxHistory}
}

// Record creates a queued job and returns a snapshot of it.
func (r *Registry) Record(jobType string, meta map[string]any) Job {
	j := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusQueued,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs = append(r.jobs, j)
	if len(r.jobs) > r.maxHistory {
		r.jobs = r.jobs[len(r.jobs)-r.maxHistory:]
	}
	return *j
}

// Update applies updates to a job via fn. Returns false if the job has
// been evicted from history.
func (r *Registry) Update(id string, fn func(*Job)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.jobs {
		if j.ID == id {
			fn(j)
			return true
		}
	}
	return false
}

// MarkRunning transitions a job to running.
func (r *Registry) MarkRunning(id string) bool {
	now := time.Now().UTC()
	return r.Update(id, func(j *Job) {
		j.Status = StatusRunning
		j.StartedAt = &now
	})
}

// MarkSuccess transitions a job to success with its result payload.
func (r *Registry) MarkSuccess(id string, result any) bool {
	now := time.Now().UTC()
	return r.Update(id, func(j *Job) {
		j.Status = StatusSuccess
		j.Result = result
		j.FinishedAt = &now
	})
}

// MarkWarning downgrades a finished job to success_with_warning.
func (r *Registry) MarkWarning(id, warning string) bool {
	return r.Update(id, func(j *Job) {
		j.Status = StatusSuccessWithWarning
		j.Warning = warning
	})
}

// MarkFailed transitions a job to failed.
func (r *Registry) MarkFailed(id string, jobErr error) bool {
	now := time.Now().UTC()
	return r.Update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = jobErr.Error()
		j.FinishedAt = &now
	})
}

// Get returns a snapshot of one job.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.jobs {
		if j.ID == id {
			return *j, true
		}
	}
	return Job{}, false
}

// List returns up to limit job snapshots, newest first.
func (r *Registry) List(limit int) []Job {
	if limit <= 0 {
		limit = 25
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.jobs)
	if limit > n {
		limit = n
	}
	out := make([]Job, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, *r.jobs[i])
	}
	return out
}
