package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"file-share-api/internal/providers"
)

// DefaultExpiry is applied when a request leaves expires_in unset.
const DefaultExpiry = 24 * time.Hour

// UploadRequest identifies one file to upload. LocalPath is interpreted
// relative to the configured root; ExpiresIn is the presigned URL lifetime
// in seconds (0 means DefaultExpiry).
type UploadRequest struct {
	LocalPath string
	ExpiresIn int64
}

// UploadResult is returned once, and only on success.
type UploadResult struct {
	URL      string
	Size     int64
	MimeType string
	Key      string
}

// Uploader orchestrates one upload end to end: resolve the path, classify
// by size, drive the transfer while surfacing progress, and produce a
// presigned download URL. It holds no per-request state; a single Uploader
// is safe for concurrent use as long as the ObjectStore is.
type Uploader struct {
	store         providers.ObjectStore
	resolver      *PathResolver
	planner       *Planner
	defaultExpiry time.Duration
	logUploads    bool
}

// NewUploader creates an upload orchestrator.
func NewUploader(store providers.ObjectStore, resolver *PathResolver, planner *Planner, defaultExpiry time.Duration, logUploads bool) *Uploader {
	if defaultExpiry <= 0 {
		defaultExpiry = DefaultExpiry
	}
	return &Uploader{
		store:         store,
		resolver:      resolver,
		planner:       planner,
		defaultExpiry: defaultExpiry,
		logUploads:    logUploads,
	}
}

// Simple transfers report these milestones as bytes cross them.
var simpleMilestones = []float64{25, 90}

// Upload runs the full pipeline for one request. Progress events are pushed
// synchronously to the reporter; percentages never decrease. Every failure
// path of an open multipart session ends in exactly one abort call,
// including cancellation of ctx.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest, reporter ProgressReporter) (*UploadResult, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	progress := newMonotonicReporter(reporter)

	expiry := u.defaultExpiry
	switch {
	case req.ExpiresIn > 0:
		expiry = time.Duration(req.ExpiresIn) * time.Second
	case req.ExpiresIn < 0:
		return nil, ErrInvalidExpiry
	}

	progress.Report(ProgressEvent{Phase: PhaseValidating, Percent: 0})

	resolved, err := u.resolver.Resolve(req.LocalPath)
	if err != nil {
		return nil, err
	}

	mimeType := DetectContentType(resolved.Path)
	key := GenerateObjectKey(resolved.Path)
	plan := u.planner.Plan(resolved.Size)

	file, err := os.Open(resolved.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %q: %w", req.LocalPath, err)
	}
	defer file.Close()

	if u.logUploads {
		log.Printf("📤 Uploading %s (%d bytes, %s) as %s [%s]",
			req.LocalPath, resolved.Size, mimeType, key, plan.Kind)
	}

	switch plan.Kind {
	case TransferMultipart:
		err = u.uploadMultipart(ctx, file, resolved.Size, key, mimeType, plan, progress)
	default:
		err = u.uploadSimple(ctx, file, resolved.Size, key, mimeType, progress)
	}
	if err != nil {
		if u.logUploads {
			log.Printf("❌ Upload failed for %s: %v", req.LocalPath, err)
		}
		return nil, err
	}

	progress.Report(ProgressEvent{Phase: PhaseSigning, Percent: 100})

	url, err := u.store.PresignGetObject(ctx, key, expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	progress.Report(ProgressEvent{Phase: PhaseDone, Percent: 100})

	if u.logUploads {
		log.Printf("✅ Upload successful: %s (expires in %s)", key, expiry)
	}

	return &UploadResult{
		URL:      url,
		Size:     resolved.Size,
		MimeType: mimeType,
		Key:      key,
	}, nil
}

// uploadSimple streams the whole file in one PutObject call. Events fire at
// start, as bytes cross the 25% and 90% milestones, and at completion.
func (u *Uploader) uploadSimple(ctx context.Context, file *os.File, size int64, key, contentType string, progress ProgressReporter) error {
	progress.Report(ProgressEvent{Phase: PhaseUploading, Percent: 0})

	body := newMilestoneReader(file, size, simpleMilestones, func(percent float64) {
		progress.Report(ProgressEvent{Phase: PhaseUploading, Percent: percent})
	})

	if err := u.store.PutObject(ctx, key, body, size, contentType); err != nil {
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	progress.Report(ProgressEvent{Phase: PhaseUploading, Percent: 100})
	progress.Report(ProgressEvent{Phase: PhaseFinalizing, Percent: 100})
	return nil
}

// uploadMultipart drives a multipart session: parts are uploaded
// sequentially in part-number order and their tokens passed to complete in
// that same order. A session that does not complete is aborted before the
// error surfaces, on a non-cancelable context so that request cancellation
// cannot leave an orphaned session behind.
func (u *Uploader) uploadMultipart(ctx context.Context, file *os.File, size int64, key, contentType string, plan TransferPlan, progress ProgressReporter) error {
	uploadID, err := u.store.CreateMultipartUpload(ctx, key, contentType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	completed := false
	defer func() {
		if !completed {
			abortCtx := context.WithoutCancel(ctx)
			if abortErr := u.store.AbortMultipartUpload(abortCtx, key, uploadID); abortErr != nil {
				log.Printf("⚠️ Failed to abort multipart session %s for %s: %v", uploadID, key, abortErr)
			}
		}
	}()

	progress.Report(ProgressEvent{Phase: PhaseUploading, Percent: 0})

	tokens := make([]providers.PartToken, 0, plan.PartCount)
	for i := 0; i < plan.PartCount; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrTransfer, err)
		}

		offset := int64(i) * plan.PartSize
		length := plan.PartSize
		if offset+length > size {
			length = size - offset
		}

		part := io.NewSectionReader(file, offset, length)
		token, err := u.store.UploadPart(ctx, key, uploadID, int32(i+1), part, length)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTransfer, err)
		}
		tokens = append(tokens, token)

		progress.Report(ProgressEvent{
			Phase:   PhaseUploading,
			Percent: float64(i+1) / float64(plan.PartCount) * 100,
		})
	}

	if err := u.store.CompleteMultipartUpload(ctx, key, uploadID, tokens); err != nil {
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	completed = true

	progress.Report(ProgressEvent{Phase: PhaseFinalizing, Percent: 100})
	return nil
}
