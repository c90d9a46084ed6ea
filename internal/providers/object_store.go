package providers

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the storage gateway consumed by the upload orchestrator.
// Implementations wrap a single bucket; keys are opaque to the store.
type ObjectStore interface {
	// PutObject streams a whole object to the bucket in one call.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// CreateMultipartUpload opens a multipart session and returns its identifier.
	CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error)

	// UploadPart uploads one part of an open session and returns its completion token.
	UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (PartToken, error)

	// CompleteMultipartUpload finalizes a session. Parts must be ordered by part number.
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []PartToken) error

	// AbortMultipartUpload discards a session and any parts already uploaded.
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error

	// PresignGetObject returns a time-limited GET URL for an object.
	PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error)

	// HealthCheck verifies the provider connection and bucket access.
	HealthCheck(ctx context.Context) error
}

// PartToken is the completion receipt for one uploaded part.
type PartToken struct {
	PartNumber int32  `json:"part_number"`
	ETag       string `json:"etag"`
}

// ProviderType represents the supported storage provider types
type ProviderType string

const (
	ProviderAWS          ProviderType = "aws"
	ProviderMinIO        ProviderType = "minio"
	ProviderDigitalOcean ProviderType = "digitalocean"
	ProviderCloudflare   ProviderType = "cloudflare"
	ProviderWasabi       ProviderType = "wasabi"
)

// StoreConfig contains configuration for storage providers
type StoreConfig struct {
	// Provider type (aws, minio, digitalocean, cloudflare, wasabi)
	Provider ProviderType `json:"provider"`

	// Endpoint URL (e.g. https://s3.amazonaws.com); empty means provider default
	Endpoint string `json:"endpoint"`

	// Region for AWS and compatible services
	Region string `json:"region"`

	// Bucket name
	Bucket string `json:"bucket"`

	// AccessKey for authentication; empty falls back to the SDK credential chain
	AccessKey string `json:"access_key"`

	// SecretKey for authentication
	SecretKey string `json:"secret_key"`

	// UseSSL determines if HTTPS should be used
	UseSSL bool `json:"use_ssl"`

	// PathStyle forces path-style URLs (for MinIO compatibility)
	PathStyle bool `json:"path_style"`
}

// Validate checks if the StoreConfig is valid
func (c *StoreConfig) Validate() error {
	if c.Provider == "" {
		return ErrInvalidProvider
	}
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}
