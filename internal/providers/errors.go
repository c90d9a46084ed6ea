package providers

import "errors"

// Provider errors
var (
	// Configuration errors
	ErrInvalidProvider  = errors.New("invalid or unsupported storage provider")
	ErrMissingEndpoint  = errors.New("storage endpoint is required")
	ErrMissingBucket    = errors.New("storage bucket name is required")
	ErrMissingRegion    = errors.New("storage region is required for this provider")
	ErrMissingAccessKey = errors.New("storage access key is required")
	ErrMissingSecretKey = errors.New("storage secret key is required")

	// Operation errors
	ErrBucketNotFound = errors.New("storage bucket not found")
	ErrObjectNotFound = errors.New("object not found")

	ErrProviderNotSupported = errors.New("storage provider not supported")
)

// StoreError wraps provider-specific errors with operation context
type StoreError struct {
	Provider  string
	Operation string
	Key       string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return "storage " + e.Provider + " " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
	}
	return "storage " + e.Provider + " " + e.Operation + " failed: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with context
func NewStoreError(provider, operation, key string, err error) *StoreError {
	return &StoreError{
		Provider:  provider,
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}
