// Package jobs tracks asynchronous page fetches issued by a picker.
package jobs

import (
	"fmt"
	"sync"
	"time"
)

// Kind distinguishes the two fetch shapes
type Kind string

const (
	// KindFirstPage requests the first server page of a new filter pass
	KindFirstPage Kind = "first-page"
	// KindCatchUp re-requests the already loaded prefix with a server search
	KindCatchUp Kind = "catch-up"
	// KindNextPage requests the page after the loaded prefix
	KindNextPage Kind = "next-page"
)

// Status of a fetch
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusStale   Status = "stale"
)

// Job is one issued fetch
type Job struct {
	ID        string
	Pass      uint64
	Kind      Kind
	Search    string
	Offset    int
	Count     int
	Status    Status
	Err       error
	CreatedAt time.Time
	DoneAt    time.Time
}

// Queue records fetches in issue order
type Queue struct {
	mu   sync.Mutex
	jobs []*Job
	seq  int
}

// NewQueue creates a new fetch ledger
func NewQueue() *Queue {
	return &Queue{
		jobs: make([]*Job, 0),
	}
}

// Enqueue records a pending fetch
func (q *Queue) Enqueue(pass uint64, kind Kind, search string, offset, count int) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	job := &Job{
		ID:        fmt.Sprintf("fetch-%d", q.seq),
		Pass:      pass,
		Kind:      kind,
		Search:    search,
		Offset:    offset,
		Count:     count,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	q.jobs = append(q.jobs, job)
	return job
}

// Finish settles a pending job. Finishing a settled job is a no-op.
func (q *Queue) Finish(job *Job, status Status, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job.Status != StatusPending {
		return
	}
	job.Status = status
	job.Err = err
	job.DoneAt = time.Now()
}

// Pending reports whether any fetch of the given pass is still in flight
func (q *Queue) Pending(pass uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, job := range q.jobs {
		if job.Pass == pass && job.Status == StatusPending {
			return true
		}
	}
	return false
}

// All returns copies of every job in issue order
func (q *Queue) All() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Job, len(q.jobs))
	for i, job := range q.jobs {
		out[i] = *job
	}
	return out
}

// Trim drops the oldest settled jobs so at most keep settled jobs remain
func (q *Queue) Trim(keep int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	settled := 0
	for _, job := range q.jobs {
		if job.Status != StatusPending {
			settled++
		}
	}
	drop := settled - keep
	if drop <= 0 {
		return
	}

	kept := q.jobs[:0]
	for _, job := range q.jobs {
		if drop > 0 && job.Status != StatusPending {
			drop--
			continue
		}
		kept = append(kept, job)
	}
	for i := len(kept); i < len(q.jobs); i++ {
		q.jobs[i] = nil
	}
	q.jobs = kept
}
