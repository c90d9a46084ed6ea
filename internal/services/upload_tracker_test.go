package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateStore blocks PutObject until released, so tests can observe jobs
// mid-flight.
type gateStore struct {
	fakeStore
	release chan struct{}
}

func (g *gateStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return g.fakeStore.PutObject(ctx, key, body, size, contentType)
}

func waitForStatus(t *testing.T, tracker *UploadTracker, id string, want UploadStatus) *UploadJob {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := tracker.Status(id)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("job %s never reached status %s", id, want)
	return nil
}

func TestTracker_CompletesJob(t *testing.T) {
	store := &fakeStore{}
	uploader, root := newTestUploader(t, store)
	writeTestFile(t, root, "a.bin", 128)

	tracker := NewUploadTracker(uploader, 2)
	defer tracker.Stop()

	job, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "a.bin"})
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)

	done := waitForStatus(t, tracker, job.ID, UploadStatusCompleted)
	assert.Equal(t, 100.0, done.Progress)
	assert.NotNil(t, done.EndTime)
	require.NotNil(t, done.Result)
	assert.Equal(t, int64(128), done.Result.Size)
	assert.Contains(t, done.Result.URL, done.Result.Key)
}

func TestTracker_FailedJob(t *testing.T) {
	store := &fakeStore{}
	uploader, _ := newTestUploader(t, store)

	tracker := NewUploadTracker(uploader, 2)
	defer tracker.Stop()

	job, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "missing.bin"})
	require.NoError(t, err)

	failed := waitForStatus(t, tracker, job.ID, UploadStatusFailed)
	assert.NotEmpty(t, failed.Error)
	assert.Nil(t, failed.Result)
}

func TestTracker_UnknownJob(t *testing.T) {
	store := &fakeStore{}
	uploader, _ := newTestUploader(t, store)

	tracker := NewUploadTracker(uploader, 2)
	defer tracker.Stop()

	_, err := tracker.Status("no-such-id")
	assert.Error(t, err)

	assert.Error(t, tracker.Cancel("no-such-id"))
}

func TestTracker_CancelInFlight(t *testing.T) {
	store := &gateStore{release: make(chan struct{})}
	uploader, root := newTestUploader(t, store)
	writeTestFile(t, root, "a.bin", 128)

	tracker := NewUploadTracker(uploader, 2)
	defer tracker.Stop()

	job, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "a.bin"})
	require.NoError(t, err)

	require.NoError(t, tracker.Cancel(job.ID))

	cancelled := waitForStatus(t, tracker, job.ID, UploadStatusCancelled)
	assert.Nil(t, cancelled.Result)
}

func TestTracker_CannotCancelFinishedJob(t *testing.T) {
	store := &fakeStore{}
	uploader, root := newTestUploader(t, store)
	writeTestFile(t, root, "a.bin", 128)

	tracker := NewUploadTracker(uploader, 2)
	defer tracker.Stop()

	job, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "a.bin"})
	require.NoError(t, err)
	waitForStatus(t, tracker, job.ID, UploadStatusCompleted)

	assert.Error(t, tracker.Cancel(job.ID))
}

func TestTracker_ConcurrencyLimit(t *testing.T) {
	store := &gateStore{release: make(chan struct{})}
	uploader, root := newTestUploader(t, store)
	writeTestFile(t, root, "a.bin", 128)

	tracker := NewUploadTracker(uploader, 1)
	defer tracker.Stop()

	_, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "a.bin"})
	require.NoError(t, err)

	_, err = tracker.Start(context.Background(), UploadRequest{LocalPath: "a.bin"})
	assert.Error(t, err, "second job must be rejected while the first holds the slot")

	close(store.release)
}

func TestTracker_ListAndStats(t *testing.T) {
	store := &fakeStore{}
	uploader, root := newTestUploader(t, store)
	writeTestFile(t, root, "a.bin", 128)

	tracker := NewUploadTracker(uploader, 3)
	defer tracker.Stop()

	okJob, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "a.bin"})
	require.NoError(t, err)
	badJob, err := tracker.Start(context.Background(), UploadRequest{LocalPath: "missing.bin"})
	require.NoError(t, err)

	waitForStatus(t, tracker, okJob.ID, UploadStatusCompleted)
	waitForStatus(t, tracker, badJob.ID, UploadStatusFailed)

	assert.Len(t, tracker.List(), 2)
	assert.Len(t, tracker.List(UploadStatusCompleted), 1)
	assert.Len(t, tracker.List(UploadStatusFailed), 1)
	assert.Empty(t, tracker.List(UploadStatusUploading))

	stats := tracker.Stats()
	assert.Equal(t, int64(2), stats.TotalUploads)
	assert.Equal(t, int64(1), stats.CompletedUploads)
	assert.Equal(t, int64(1), stats.FailedUploads)
	assert.Equal(t, int64(128), stats.TotalBytes)
	assert.Equal(t, 3, stats.MaxConcurrent)
}
