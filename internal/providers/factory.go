package providers

import (
	"fmt"
	"strings"
)

// ProviderFactory creates ObjectStore instances based on configuration
type ProviderFactory struct{}

// NewProviderFactory creates a new provider factory
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// CreateStore creates an ObjectStore based on the configuration
func (f *ProviderFactory) CreateStore(config *StoreConfig) (ObjectStore, error) {
	if config == nil {
		return nil, fmt.Errorf("store config cannot be nil")
	}

	// Normalize provider name
	providerType := ProviderType(strings.ToLower(string(config.Provider)))

	switch providerType {
	case ProviderAWS:
		return NewAWSStore(config)
	case ProviderMinIO:
		return NewMinIOStore(config)
	case ProviderDigitalOcean:
		// DigitalOcean Spaces is S3-compatible, use the AWS store with a custom endpoint
		if config.Region == "" {
			config.Region = "nyc3"
		}
		config.PathStyle = false
		return NewAWSStore(config)
	case ProviderCloudflare:
		// Cloudflare R2 is S3-compatible, use the AWS store with a custom endpoint
		if config.Region == "" {
			config.Region = "auto"
		}
		config.PathStyle = false
		return NewAWSStore(config)
	case ProviderWasabi:
		// Wasabi is S3-compatible, use the AWS store with a custom endpoint
		if config.Region == "" {
			config.Region = "us-east-1"
		}
		config.PathStyle = false
		return NewAWSStore(config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrProviderNotSupported, config.Provider)
	}
}

// GetSupportedProviders returns a list of supported provider types
func (f *ProviderFactory) GetSupportedProviders() []ProviderType {
	return []ProviderType{
		ProviderAWS,
		ProviderMinIO,
		ProviderDigitalOcean,
		ProviderCloudflare,
		ProviderWasabi,
	}
}

// IsProviderSupported checks if a provider type is supported
func (f *ProviderFactory) IsProviderSupported(providerType ProviderType) bool {
	for _, p := range f.GetSupportedProviders() {
		if p == providerType {
			return true
		}
	}
	return false
}

// ValidateStoreConfig validates the configuration for a specific provider
func (f *ProviderFactory) ValidateStoreConfig(config *StoreConfig) error {
	if config == nil {
		return fmt.Errorf("store config cannot be nil")
	}

	providerType := ProviderType(strings.ToLower(string(config.Provider)))

	switch providerType {
	case ProviderAWS, ProviderDigitalOcean, ProviderWasabi:
		if config.Region == "" {
			return ErrMissingRegion
		}
	case ProviderMinIO:
		// MinIO requires an explicit endpoint
		if config.Endpoint == "" {
			return ErrMissingEndpoint
		}
		if config.AccessKey == "" {
			return ErrMissingAccessKey
		}
		if config.SecretKey == "" {
			return ErrMissingSecretKey
		}
	case ProviderCloudflare:
		if config.Endpoint == "" {
			return ErrMissingEndpoint
		}
	default:
		return fmt.Errorf("%w: %s", ErrProviderNotSupported, config.Provider)
	}

	return config.Validate()
}
