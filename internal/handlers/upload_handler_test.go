package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-share-api/internal/models"
	"file-share-api/internal/providers"
	"file-share-api/internal/services"
)

// -------- test fakes --------

type stubStore struct {
	putErr    error
	healthErr error
}

func (s *stubStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	_, err := io.Copy(io.Discard, body)
	return err
}

func (s *stubStore) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	return "upload-1", nil
}

func (s *stubStore) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (providers.PartToken, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return providers.PartToken{}, err
	}
	return providers.PartToken{PartNumber: partNumber, ETag: "etag"}, nil
}

func (s *stubStore) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []providers.PartToken) error {
	return nil
}

func (s *stubStore) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	return nil
}

func (s *stubStore) PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://example.com/" + key, nil
}

func (s *stubStore) HealthCheck(ctx context.Context) error {
	return s.healthErr
}

// -------- helpers --------

func newTestApp(t *testing.T, store providers.ObjectStore) (*fiber.App, string) {
	t.Helper()

	root := t.TempDir()
	resolver, err := services.NewPathResolver(root)
	require.NoError(t, err)

	planner := services.NewPlanner(0, 0, 0)
	uploader := services.NewUploader(store, resolver, planner, time.Hour, false)
	tracker := services.NewUploadTracker(uploader, 3)
	t.Cleanup(tracker.Stop)

	handler := NewUploadHandler(uploader, tracker, store)

	app := fiber.New(fiber.Config{StrictRouting: true})
	handler.RegisterUploadRoutes(app)

	return app, root
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

// -------- tests --------

func TestUpload_Success(t *testing.T) {
	app, root := newTestApp(t, &stubStore{})
	require.NoError(t, os.WriteFile(filepath.Join(root, "note.txt"), []byte("hello"), 0o644))

	resp := postJSON(t, app, "/upload", models.UploadRequest{LocalPath: "note.txt", ExpiresIn: 600})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[models.UploadResponse](t, resp)
	assert.True(t, body.Success)
	require.NotNil(t, body.Result)
	assert.Equal(t, int64(5), body.Result.Size)
	assert.Contains(t, body.Result.URL, body.Result.S3Key)
	assert.NotContains(t, body.Result.S3Key, "note")
}

func TestUpload_MissingLocalPath(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{})

	resp := postJSON(t, app, "/upload", models.UploadRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_TraversalRejectedWithFixedMessage(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{})

	resp := postJSON(t, app, "/upload", models.UploadRequest{LocalPath: "../../etc/passwd"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[models.UploadResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, services.ErrPathTraversal.Error(), body.Error)
	assert.NotContains(t, body.Error, "passwd", "response must not echo the path")
}

func TestUpload_FileNotFound(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{})

	resp := postJSON(t, app, "/upload", models.UploadRequest{LocalPath: "ghost.bin"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpload_NegativeExpiry(t *testing.T) {
	app, root := newTestApp(t, &stubStore{})
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	resp := postJSON(t, app, "/upload", models.UploadRequest{LocalPath: "a.txt", ExpiresIn: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_StorageFailureIsBadGateway(t *testing.T) {
	app, root := newTestApp(t, &stubStore{putErr: errors.New("bucket offline")})
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	resp := postJSON(t, app, "/upload", models.UploadRequest{LocalPath: "a.txt"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestUploadAsync_Lifecycle(t *testing.T) {
	app, root := newTestApp(t, &stubStore{})
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("async"), 0o644))

	resp := postJSON(t, app, "/upload/async", models.UploadRequest{LocalPath: "a.txt"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	job := decode[models.UploadJobResponse](t, resp)
	require.True(t, job.Success)
	require.NotEmpty(t, job.UploadID)

	// Poll until the background job settles.
	deadline := time.Now().Add(5 * time.Second)
	var status models.UploadStatusResponse
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/upload/status/"+job.UploadID, nil)
		statusResp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, statusResp.StatusCode)

		status = decode[models.UploadStatusResponse](t, statusResp)
		if status.Status == "completed" || status.Status == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, "completed", status.Status)
	assert.Equal(t, 100.0, status.Progress)
	require.NotNil(t, status.Result)
	assert.Equal(t, int64(5), status.Result.Size)
}

func TestUploadStatus_UnknownID(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/upload/status/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadList_Empty(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/upload/list", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[models.UploadListResponse](t, resp)
	assert.Zero(t, body.Count)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[models.HealthResponse](t, resp)
	assert.True(t, body.Healthy)
}

func TestHealth_Unhealthy(t *testing.T) {
	app, _ := newTestApp(t, &stubStore{healthErr: errors.New("bucket missing")})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
