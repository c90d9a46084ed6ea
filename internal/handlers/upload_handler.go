package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"file-share-api/internal/models"
	"file-share-api/internal/services"
)

// UploadHandler exposes the upload orchestrator over HTTP.
type UploadHandler struct {
	uploader *services.Uploader
	tracker  *services.UploadTracker
	store    healthChecker
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploader *services.Uploader, tracker *services.UploadTracker, store healthChecker) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		tracker:  tracker,
		store:    store,
	}
}

// Upload godoc
// @Summary Upload a local file and return a presigned download URL
// @Description Resolves local_path inside the configured root, uploads it to object storage and returns a time-limited download URL. Blocks until the transfer finishes.
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body models.UploadRequest true "Upload request"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.UploadResponse
// @Failure 404 {object} models.UploadResponse
// @Failure 502 {object} models.UploadResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	var req models.UploadRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.UploadResponse{
			Success: false,
			Error:   "Invalid JSON payload: " + err.Error(),
		})
	}

	if req.LocalPath == "" {
		return c.Status(http.StatusBadRequest).JSON(models.UploadResponse{
			Success: false,
			Error:   "Missing required field: local_path",
		})
	}

	result, err := h.uploader.Upload(context.TODO(), services.UploadRequest{
		LocalPath: req.LocalPath,
		ExpiresIn: req.ExpiresIn,
	}, nil)
	if err != nil {
		return h.uploadError(c, err)
	}

	return c.JSON(models.UploadResponse{
		Success: true,
		Result:  toUploadResult(result),
	})
}

// UploadAsync godoc
// @Summary Start an asynchronous upload job
// @Description Dispatches the upload in the background and returns a job identifier for polling.
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body models.UploadRequest true "Upload request"
// @Success 202 {object} models.UploadJobResponse
// @Failure 400 {object} models.UploadJobResponse
// @Failure 503 {object} models.UploadJobResponse
// @Router /upload/async [post]
func (h *UploadHandler) UploadAsync(c fiber.Ctx) error {
	var req models.UploadRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.UploadJobResponse{
			Success: false,
			Error:   "Invalid JSON payload: " + err.Error(),
		})
	}

	if req.LocalPath == "" {
		return c.Status(http.StatusBadRequest).JSON(models.UploadJobResponse{
			Success: false,
			Error:   "Missing required field: local_path",
		})
	}

	job, err := h.tracker.Start(context.TODO(), services.UploadRequest{
		LocalPath: req.LocalPath,
		ExpiresIn: req.ExpiresIn,
	})
	if err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(models.UploadJobResponse{
			Success: false,
			Error:   "Failed to start upload: " + err.Error(),
		})
	}

	return c.Status(http.StatusAccepted).JSON(models.UploadJobResponse{
		Success:  true,
		UploadID: job.ID,
		Message:  "Upload started successfully",
	})
}

// GetUploadStatus godoc
// @Summary Retrieve asynchronous upload status
// @Tags Upload
// @Produce json
// @Param id path string true "Upload identifier"
// @Success 200 {object} models.UploadStatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /upload/status/{id} [get]
func (h *UploadHandler) GetUploadStatus(c fiber.Ctx) error {
	uploadID := c.Params("id")
	if uploadID == "" {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Upload ID is required",
		})
	}

	job, err := h.tracker.Status(uploadID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Upload not found",
		})
	}

	return c.JSON(toStatusResponse(job))
}

// CancelUpload godoc
// @Summary Cancel an in-flight upload job
// @Tags Upload
// @Produce json
// @Param id path string true "Upload identifier"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /upload/status/{id} [delete]
func (h *UploadHandler) CancelUpload(c fiber.Ctx) error {
	uploadID := c.Params("id")
	if uploadID == "" {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Upload ID is required",
		})
	}

	if err := h.tracker.Cancel(uploadID); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(models.MessageResponse{
		Success: true,
		Message: "Upload cancelled successfully",
	})
}

// ListUploads godoc
// @Summary List recent upload jobs
// @Tags Upload
// @Produce json
// @Param status query string false "Filter by upload status (pending|uploading|completed|failed|cancelled)"
// @Param limit query int false "Maximum number of results" default(50)
// @Success 200 {object} models.UploadListResponse
// @Router /upload/list [get]
func (h *UploadHandler) ListUploads(c fiber.Ctx) error {
	statusFilter := c.Query("status")
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	var jobs []*services.UploadJob
	if statusFilter != "" {
		jobs = h.tracker.List(services.UploadStatus(statusFilter))
	} else {
		jobs = h.tracker.List()
	}

	if len(jobs) > limit {
		jobs = jobs[:limit]
	}

	response := make([]models.UploadStatusResponse, 0, len(jobs))
	for _, job := range jobs {
		response = append(response, toStatusResponse(job))
	}

	return c.JSON(models.UploadListResponse{
		Uploads: response,
		Count:   len(response),
	})
}

// GetUploadStats godoc
// @Summary Upload tracker metrics
// @Tags Upload
// @Produce json
// @Success 200 {object} models.UploadStatsResponse
// @Router /upload/stats [get]
func (h *UploadHandler) GetUploadStats(c fiber.Ctx) error {
	stats := h.tracker.Stats()

	return c.JSON(models.UploadStatsResponse{
		TotalUploads:     stats.TotalUploads,
		CompletedUploads: stats.CompletedUploads,
		FailedUploads:    stats.FailedUploads,
		ActiveUploads:    stats.ActiveUploads,
		MaxConcurrent:    stats.MaxConcurrent,
		TotalBytes:       stats.TotalBytes,
	})
}

// GetHealth godoc
// @Summary Storage backend health
// @Tags Upload
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *UploadHandler) GetHealth(c fiber.Ctx) error {
	if err := h.store.HealthCheck(context.TODO()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(models.HealthResponse{
			Status:    "unhealthy",
			Healthy:   false,
			Timestamp: time.Now().Unix(),
			Error:     err.Error(),
		})
	}

	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Healthy:   true,
		Timestamp: time.Now().Unix(),
		Message:   "storage backend is operational",
	})
}

// RegisterUploadRoutes registers all upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(app *fiber.App) {
	upload := app.Group("/upload")

	// Register both variants to support strict routing
	upload.Post("/", h.Upload)
	upload.Post("", h.Upload)
	upload.Post("/async", h.UploadAsync)

	// Status and management endpoints
	upload.Get("/status/:id", h.GetUploadStatus)
	upload.Delete("/status/:id", h.CancelUpload)
	upload.Get("/list", h.ListUploads)
	upload.Get("/stats", h.GetUploadStats)

	app.Get("/health", h.GetHealth)
}

// uploadError maps orchestrator errors to HTTP statuses. Path traversal
// reports a fixed message so responses never leak the resolved path.
func (h *UploadHandler) uploadError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPathTraversal):
		return c.Status(http.StatusBadRequest).JSON(models.UploadResponse{
			Success: false,
			Error:   services.ErrPathTraversal.Error(),
		})
	case errors.Is(err, services.ErrInvalidExpiry):
		return c.Status(http.StatusBadRequest).JSON(models.UploadResponse{
			Success: false,
			Error:   "expires_in must be a positive number of seconds",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(models.UploadResponse{
			Success: false,
			Error:   "file not found",
		})
	case errors.Is(err, services.ErrTransfer), errors.Is(err, services.ErrSigning):
		return c.Status(http.StatusBadGateway).JSON(models.UploadResponse{
			Success: false,
			Error:   err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(models.UploadResponse{
			Success: false,
			Error:   err.Error(),
		})
	}
}

func toUploadResult(res *services.UploadResult) *models.UploadResult {
	if res == nil {
		return nil
	}

	return &models.UploadResult{
		URL:      res.URL,
		Size:     res.Size,
		MimeType: res.MimeType,
		S3Key:    res.Key,
	}
}

func toStatusResponse(job *services.UploadJob) models.UploadStatusResponse {
	return models.UploadStatusResponse{
		UploadID:  job.ID,
		LocalPath: job.LocalPath,
		Status:    string(job.Status),
		Phase:     string(job.Phase),
		Progress:  job.Progress,
		StartTime: job.StartTime,
		EndTime:   job.EndTime,
		Error:     job.Error,
		Result:    toUploadResult(job.Result),
	}
}
