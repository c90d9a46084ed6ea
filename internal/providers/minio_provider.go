package providers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore implements the ObjectStore interface for MinIO.
// The low-level Core API is used so that multipart sessions stay under the
// orchestrator's control (explicit create/part/complete/abort calls).
type MinIOStore struct {
	core   *minio.Core
	config *StoreConfig
}

// NewMinIOStore creates a new MinIO store
func NewMinIOStore(cfg *StoreConfig) (*MinIOStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MinIO config: %w", err)
	}
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	// Extract endpoint without protocol for the MinIO client
	endpoint := cfg.Endpoint
	if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		cfg.UseSSL = false
	} else if strings.HasPrefix(endpoint, "https://") {
		endpoint = strings.TrimPrefix(endpoint, "https://")
		cfg.UseSSL = true
	}

	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, NewStoreError("minio", "configure", "", err)
	}

	return &MinIOStore{
		core:   core,
		config: cfg,
	}, nil
}

// PutObject streams a whole object to the bucket in one call
func (p *MinIOStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := p.core.Client.PutObject(ctx, p.config.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
		// The orchestrator decides the transfer strategy; keep the client
		// from splitting the stream on its own.
		DisableMultipart: true,
	})
	if err != nil {
		return NewStoreError("minio", "put_object", key, err)
	}
	return nil
}

// CreateMultipartUpload opens a multipart session
func (p *MinIOStore) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	uploadID, err := p.core.NewMultipartUpload(ctx, p.config.Bucket, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", NewStoreError("minio", "create_multipart", key, err)
	}
	return uploadID, nil
}

// UploadPart uploads one part of an open multipart session
func (p *MinIOStore) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (PartToken, error) {
	part, err := p.core.PutObjectPart(ctx, p.config.Bucket, key, uploadID, int(partNumber), body, size, minio.PutObjectPartOptions{})
	if err != nil {
		return PartToken{}, NewStoreError("minio", "upload_part", key, err)
	}
	return PartToken{PartNumber: partNumber, ETag: part.ETag}, nil
}

// CompleteMultipartUpload finalizes a multipart session
func (p *MinIOStore) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []PartToken) error {
	completed := make([]minio.CompletePart, len(parts))
	for i, part := range parts {
		completed[i] = minio.CompletePart{
			PartNumber: int(part.PartNumber),
			ETag:       part.ETag,
		}
	}

	_, err := p.core.CompleteMultipartUpload(ctx, p.config.Bucket, key, uploadID, completed, minio.PutObjectOptions{})
	if err != nil {
		return NewStoreError("minio", "complete_multipart", key, err)
	}
	return nil
}

// AbortMultipartUpload discards a multipart session
func (p *MinIOStore) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if err := p.core.AbortMultipartUpload(ctx, p.config.Bucket, key, uploadID); err != nil {
		return NewStoreError("minio", "abort_multipart", key, err)
	}
	return nil
}

// PresignGetObject returns a time-limited GET URL for an object
func (p *MinIOStore) PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := p.core.Client.PresignedGetObject(ctx, p.config.Bucket, key, expiry, url.Values{})
	if err != nil {
		return "", NewStoreError("minio", "presign", key, err)
	}
	return u.String(), nil
}

// HealthCheck verifies the provider connection and bucket access
func (p *MinIOStore) HealthCheck(ctx context.Context) error {
	exists, err := p.core.Client.BucketExists(ctx, p.config.Bucket)
	if err != nil {
		return NewStoreError("minio", "health_check", "", err)
	}
	if !exists {
		return NewStoreError("minio", "health_check", "", ErrBucketNotFound)
	}
	return nil
}
