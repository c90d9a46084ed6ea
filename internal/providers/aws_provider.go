package providers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// AWSStore implements the ObjectStore interface for AWS S3
type AWSStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	config        *StoreConfig
}

// NewAWSStore creates a new AWS S3 store
func NewAWSStore(cfg *StoreConfig) (*AWSStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AWS S3 config: %w", err)
	}
	if cfg.Region == "" {
		return nil, ErrMissingRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	// Static credentials when configured, otherwise the SDK default chain
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, NewStoreError("aws", "configure", "", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" && cfg.Endpoint != "https://s3.amazonaws.com" {
			// Custom endpoint (for S3-compatible services)
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &AWSStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		config:        cfg,
	}, nil
}

// PutObject streams a whole object to the bucket in one call
func (p *AWSStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return NewStoreError("aws", "put_object", key, err)
	}
	return nil
}

// CreateMultipartUpload opens a multipart session
func (p *AWSStore) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	out, err := p.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(p.config.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", NewStoreError("aws", "create_multipart", key, err)
	}
	return aws.ToString(out.UploadId), nil
}

// UploadPart uploads one part of an open multipart session
func (p *AWSStore) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (PartToken, error) {
	out, err := p.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		UploadId:      aws.String(uploadID),
		PartNumber:    aws.Int32(partNumber),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return PartToken{}, NewStoreError("aws", "upload_part", key, err)
	}
	return PartToken{PartNumber: partNumber, ETag: aws.ToString(out.ETag)}, nil
}

// CompleteMultipartUpload finalizes a multipart session
func (p *AWSStore) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []PartToken) error {
	completed := make([]types.CompletedPart, len(parts))
	for i, part := range parts {
		completed[i] = types.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(part.PartNumber),
		}
	}

	_, err := p.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(p.config.Bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return NewStoreError("aws", "complete_multipart", key, err)
	}
	return nil
}

// AbortMultipartUpload discards a multipart session
func (p *AWSStore) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := p.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(p.config.Bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return NewStoreError("aws", "abort_multipart", key, err)
	}
	return nil
}

// PresignGetObject returns a time-limited GET URL for an object
func (p *AWSStore) PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := p.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.config.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", NewStoreError("aws", "presign", key, err)
	}
	return req.URL, nil
}

// HealthCheck verifies the provider connection and bucket access
func (p *AWSStore) HealthCheck(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.config.Bucket),
	})
	if err != nil {
		return NewStoreError("aws", "health_check", "", err)
	}
	return nil
}
