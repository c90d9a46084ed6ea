package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UploadStatus represents the status of an upload job
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
	UploadStatusCancelled UploadStatus = "cancelled"
)

// UploadJob tracks one asynchronous upload through the orchestrator.
type UploadJob struct {
	ID        string
	LocalPath string
	Status    UploadStatus
	Phase     Phase
	Progress  float64
	StartTime time.Time
	EndTime   *time.Time
	Error     string
	Result    *UploadResult

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
}

// snapshot returns a copy safe to hand to callers.
func (j *UploadJob) snapshot() *UploadJob {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return &UploadJob{
		ID:        j.ID,
		LocalPath: j.LocalPath,
		Status:    j.Status,
		Phase:     j.Phase,
		Progress:  j.Progress,
		StartTime: j.StartTime,
		EndTime:   j.EndTime,
		Error:     j.Error,
		Result:    j.Result,
	}
}

// TrackerStats summarizes the tracker's activity.
type TrackerStats struct {
	TotalUploads     int64 `json:"total_uploads"`
	CompletedUploads int64 `json:"completed_uploads"`
	FailedUploads    int64 `json:"failed_uploads"`
	ActiveUploads    int   `json:"active_uploads"`
	MaxConcurrent    int   `json:"max_concurrent"`
	TotalBytes       int64 `json:"total_bytes"`
}

// UploadTracker runs uploads in the background and tracks their progress.
// Finished jobs are kept for a day so callers can fetch results, then
// garbage-collected.
type UploadTracker struct {
	uploader      *Uploader
	jobs          map[string]*UploadJob
	maxConcurrent int
	active        int
	stats         TrackerStats
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewUploadTracker creates a tracker running at most maxConcurrent uploads
// at once.
func NewUploadTracker(uploader *Uploader, maxConcurrent int) *UploadTracker {
	if maxConcurrent <= 0 {
		maxConcurrent = 3 // Default
	}

	tracker := &UploadTracker{
		uploader:      uploader,
		jobs:          make(map[string]*UploadJob),
		maxConcurrent: maxConcurrent,
		stopCleanup:   make(chan struct{}),
	}

	tracker.startCleanupRoutine()

	return tracker
}

// Start begins an upload in the background and returns a snapshot of the
// new job. The job's context is detached from ctx so the HTTP request
// finishing does not cancel the transfer; Cancel is the only way to stop it.
func (t *UploadTracker) Start(ctx context.Context, req UploadRequest) (*UploadJob, error) {
	t.mu.Lock()
	if t.active >= t.maxConcurrent {
		t.mu.Unlock()
		return nil, fmt.Errorf("maximum concurrent uploads reached (%d)", t.maxConcurrent)
	}
	t.active++
	t.stats.TotalUploads++
	t.mu.Unlock()

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	job := &UploadJob{
		ID:        uuid.NewString(),
		LocalPath: req.LocalPath,
		Status:    UploadStatusPending,
		Phase:     PhaseValidating,
		StartTime: time.Now(),
		ctx:       jobCtx,
		cancel:    cancel,
	}

	t.mu.Lock()
	t.jobs[job.ID] = job
	t.mu.Unlock()

	go t.run(job, req)

	return job.snapshot(), nil
}

// Status returns a snapshot of one job.
func (t *UploadTracker) Status(id string) (*UploadJob, error) {
	t.mu.RLock()
	job, exists := t.jobs[id]
	t.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("upload not found: %s", id)
	}
	return job.snapshot(), nil
}

// Cancel stops an in-flight job. The orchestrator aborts any open multipart
// session before the job settles.
func (t *UploadTracker) Cancel(id string) error {
	t.mu.RLock()
	job, exists := t.jobs[id]
	t.mu.RUnlock()

	if !exists {
		return fmt.Errorf("upload not found: %s", id)
	}

	job.mu.Lock()
	defer job.mu.Unlock()

	if job.Status == UploadStatusCompleted || job.Status == UploadStatusFailed {
		return fmt.Errorf("cannot cancel upload in status: %s", job.Status)
	}

	job.cancel()
	job.Status = UploadStatusCancelled
	now := time.Now()
	job.EndTime = &now

	return nil
}

// List returns snapshots of all jobs, optionally filtered by status.
func (t *UploadTracker) List(status ...UploadStatus) []*UploadJob {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []*UploadJob
	for _, job := range t.jobs {
		snap := job.snapshot()

		if len(status) > 0 {
			matched := false
			for _, s := range status {
				if snap.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}

		result = append(result, snap)
	}

	return result
}

// Stats returns tracker statistics.
func (t *UploadTracker) Stats() TrackerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := t.stats
	stats.ActiveUploads = t.active
	stats.MaxConcurrent = t.maxConcurrent
	return stats
}

// run drives one job to completion.
func (t *UploadTracker) run(job *UploadJob, req UploadRequest) {
	defer func() {
		t.mu.Lock()
		t.active--
		t.mu.Unlock()
	}()

	job.mu.Lock()
	// Cancel may have won the race before this goroutine was scheduled.
	if job.Status == UploadStatusPending {
		job.Status = UploadStatusUploading
	}
	job.mu.Unlock()

	reporter := ReporterFunc(func(event ProgressEvent) {
		job.mu.Lock()
		job.Phase = event.Phase
		job.Progress = event.Percent
		job.mu.Unlock()
	})

	result, err := t.uploader.Upload(job.ctx, req, reporter)

	job.mu.Lock()
	now := time.Now()
	job.EndTime = &now

	if err != nil {
		// A cancelled job keeps its status; the transfer error is recorded
		// for inspection either way.
		if job.Status != UploadStatusCancelled {
			job.Status = UploadStatusFailed
		}
		job.Error = err.Error()
		job.mu.Unlock()

		t.mu.Lock()
		t.stats.FailedUploads++
		t.mu.Unlock()
		return
	}

	job.Status = UploadStatusCompleted
	job.Result = result
	job.Progress = 100.0
	job.mu.Unlock()

	t.mu.Lock()
	t.stats.CompletedUploads++
	t.stats.TotalBytes += result.Size
	t.mu.Unlock()
}

// startCleanupRoutine starts a routine to clean up old finished jobs
func (t *UploadTracker) startCleanupRoutine() {
	t.cleanupTicker = time.NewTicker(time.Hour)

	go func() {
		for {
			select {
			case <-t.cleanupTicker.C:
				t.cleanupOldJobs()
			case <-t.stopCleanup:
				t.cleanupTicker.Stop()
				return
			}
		}
	}()
}

// cleanupOldJobs removes job records that finished more than 24 hours ago
func (t *UploadTracker) cleanupOldJobs() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour)
	for id, job := range t.jobs {
		job.mu.RLock()
		expired := job.EndTime != nil && job.EndTime.Before(cutoff)
		job.mu.RUnlock()

		if expired {
			delete(t.jobs, id)
		}
	}
}

// Stop stops the tracker and cancels all in-flight jobs.
func (t *UploadTracker) Stop() {
	close(t.stopCleanup)

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, job := range t.jobs {
		job.mu.RLock()
		running := job.Status == UploadStatusUploading || job.Status == UploadStatusPending
		job.mu.RUnlock()

		if running {
			job.cancel()
		}
	}
}
