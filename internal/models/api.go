package models

import "time"

// UploadRequest is the payload accepted by the upload endpoints. LocalPath is
// resolved relative to the configured upload root; ExpiresIn is the presigned
// URL lifetime in seconds (omitted or 0 means the server default).
type UploadRequest struct {
	LocalPath string `json:"local_path" example:"reports/q3/summary.pdf"`
	ExpiresIn int64  `json:"expires_in,omitempty" example:"7200"`
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	URL      string `json:"url" example:"https://bucket.s3.amazonaws.com/8d3f...pdf?X-Amz-Expires=7200"`
	Size     int64  `json:"size" example:"7340032"`
	MimeType string `json:"mime_type" example:"application/pdf"`
	S3Key    string `json:"s3_key" example:"8d3f0a7e-1f2c-4f6e-9a3d-5b4c2e1d0f9a.pdf"`
}

// UploadResponse wraps a synchronous upload outcome.
type UploadResponse struct {
	Success bool          `json:"success" example:"true"`
	Result  *UploadResult `json:"result,omitempty"`
	Error   string        `json:"error,omitempty" example:"file not found"`
}

// UploadJobResponse acknowledges an asynchronous upload job.
type UploadJobResponse struct {
	Success  bool   `json:"success" example:"true"`
	UploadID string `json:"upload_id,omitempty" example:"3f99d60f-bd8d-49e6-9ecf-2fbc9e4adffe"`
	Message  string `json:"message,omitempty" example:"Upload started successfully"`
	Error    string `json:"error,omitempty" example:"Failed to start upload"`
}

// UploadStatusResponse captures the state of an asynchronous upload job.
type UploadStatusResponse struct {
	UploadID  string        `json:"upload_id" example:"3f99d60f-bd8d-49e6-9ecf-2fbc9e4adffe"`
	LocalPath string        `json:"local_path" example:"reports/q3/summary.pdf"`
	Status    string        `json:"status" example:"uploading"`
	Phase     string        `json:"phase" example:"uploading"`
	Progress  float64       `json:"progress" example:"42.5"`
	StartTime time.Time     `json:"start_time" example:"2026-08-24T12:00:00Z"`
	EndTime   *time.Time    `json:"end_time,omitempty" example:"2026-08-24T12:00:10Z"`
	Error     string        `json:"error,omitempty" example:"connection reset by peer"`
	Result    *UploadResult `json:"result,omitempty"`
}

// UploadListResponse wraps upload job summaries.
type UploadListResponse struct {
	Uploads []UploadStatusResponse `json:"uploads"`
	Count   int                    `json:"count" example:"1"`
}

// UploadStatsResponse reports tracker counters.
type UploadStatsResponse struct {
	TotalUploads     int64 `json:"total_uploads" example:"240"`
	CompletedUploads int64 `json:"completed_uploads" example:"236"`
	FailedUploads    int64 `json:"failed_uploads" example:"4"`
	ActiveUploads    int   `json:"active_uploads" example:"1"`
	MaxConcurrent    int   `json:"max_concurrent" example:"3"`
	TotalBytes       int64 `json:"total_bytes" example:"73400320"`
}

// ErrorResponse represents a generic error payload used across endpoints.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request"`
	Details string `json:"details,omitempty" example:"Missing 'local_path' field"`
}

// MessageResponse represents a simple success payload with contextual message.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Operation completed successfully"`
}

// HealthResponse captures the payload returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Healthy   bool   `json:"healthy" example:"true"`
	Timestamp int64  `json:"timestamp" example:"1700000000"`
	Message   string `json:"message,omitempty" example:"storage backend is operational"`
	Error     string `json:"error,omitempty" example:"failed to connect to bucket"`
}

// APIInfoResponse describes the metadata returned by GET /api.
type APIInfoResponse struct {
	Name      string            `json:"name" example:"File Share API"`
	Version   string            `json:"version" example:"1.0.0"`
	Endpoints map[string]string `json:"endpoints"`
}
