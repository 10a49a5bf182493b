package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/model"
)

// JobStatus is the lifecycle state of an async batch.
type JobStatus string

// Job states.
const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is a snapshot of an async batch.
type Job struct {
	ID        string             `json:"id"`
	Status    JobStatus          `json:"status"`
	Total     int                `json:"total"`
	Processed int                `json:"processed"`
	Result    *model.BatchResult `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Jobs runs batches in the background and keeps their state in memory.
// Finished jobs are dropped once older than the TTL.
type Jobs struct {
	p   *Pipeline
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
}

// NewJobs creates a tracker backed by p.
func NewJobs(p *Pipeline, ttl time.Duration) *Jobs {
	return &Jobs{p: p, ttl: ttl, now: time.Now, jobs: make(map[string]*Job)}
}

// Submit starts a batch over paths and returns its pending snapshot. cleanup,
// when set, runs after the batch finishes (for example to remove uploads).
// The batch is bound to ctx, not to the request that submitted it.
func (j *Jobs) Submit(ctx context.Context, paths []string, opts Options, cleanup func()) Job {
	j.prune()

	now := j.now()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobPending,
		Total:     len(paths),
		CreatedAt: now,
		UpdatedAt: now,
	}
	j.mu.Lock()
	j.jobs[job.ID] = job
	snap := *job
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run(ctx, job.ID, paths, opts, cleanup)
	return snap
}

func (j *Jobs) run(ctx context.Context, id string, paths []string, opts Options, cleanup func()) {
	defer j.wg.Done()
	if cleanup != nil {
		defer cleanup()
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: batch job panicked", zap.String("job", id), zap.Any("panic", r))
			j.update(id, func(job *Job) {
				job.Status = JobFailed
				job.Error = "internal error"
			})
		}
	}()

	j.update(id, func(job *Job) { job.Status = JobProcessing })

	br := j.p.processBatch(ctx, id, paths, opts, func(model.Result) {
		j.update(id, func(job *Job) { job.Processed++ })
	})

	j.update(id, func(job *Job) {
		job.Result = &br
		job.Processed = br.Total
		if ctx.Err() != nil {
			job.Status = JobFailed
			job.Error = ctx.Err().Error()
			return
		}
		job.Status = JobCompleted
	})
}

func (j *Jobs) update(id string, fn func(*Job)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if job, ok := j.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = j.now()
	}
}

// Get returns a snapshot of the job with id.
func (j *Jobs) Get(id string) (Job, bool) {
	j.prune()
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Wait blocks until every submitted job has finished.
func (j *Jobs) Wait() {
	j.wg.Wait()
}

// prune drops finished jobs older than the TTL.
func (j *Jobs) prune() {
	if j.ttl <= 0 {
		return
	}
	cutoff := j.now().Add(-j.ttl)
	j.mu.Lock()
	defer j.mu.Unlock()
	for id, job := range j.jobs {
		done := job.Status == JobCompleted || job.Status == JobFailed
		if done && job.UpdatedAt.Before(cutoff) {
			delete(j.jobs, id)
		}
	}
}
