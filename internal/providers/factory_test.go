package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStore_NilConfig(t *testing.T) {
	factory := NewProviderFactory()

	_, err := factory.CreateStore(nil)
	assert.Error(t, err)
}

func TestCreateStore_UnsupportedProvider(t *testing.T) {
	factory := NewProviderFactory()

	_, err := factory.CreateStore(&StoreConfig{
		Provider: "ftp",
		Bucket:   "media",
	})
	assert.ErrorIs(t, err, ErrProviderNotSupported)
}

func TestCreateStore_NormalizesProviderCase(t *testing.T) {
	factory := NewProviderFactory()

	store, err := factory.CreateStore(&StoreConfig{
		Provider:  "MinIO",
		Endpoint:  "localhost:9000",
		Region:    "us-east-1",
		Bucket:    "media",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	assert.IsType(t, &MinIOStore{}, store)
}

func TestCreateStore_S3CompatibleVendorsUseAWSStore(t *testing.T) {
	factory := NewProviderFactory()

	for _, provider := range []ProviderType{ProviderDigitalOcean, ProviderCloudflare, ProviderWasabi} {
		store, err := factory.CreateStore(&StoreConfig{
			Provider:  provider,
			Endpoint:  "https://example.compat.endpoint",
			Bucket:    "media",
			AccessKey: "key",
			SecretKey: "secret",
		})
		require.NoError(t, err, "provider: %s", provider)
		assert.IsType(t, &AWSStore{}, store, "provider: %s", provider)
	}
}

func TestValidateStoreConfig(t *testing.T) {
	factory := NewProviderFactory()

	tests := []struct {
		name    string
		config  *StoreConfig
		wantErr error
	}{
		{
			name:    "aws missing region",
			config:  &StoreConfig{Provider: ProviderAWS, Bucket: "media"},
			wantErr: ErrMissingRegion,
		},
		{
			name:    "minio missing endpoint",
			config:  &StoreConfig{Provider: ProviderMinIO, Bucket: "media", AccessKey: "a", SecretKey: "b"},
			wantErr: ErrMissingEndpoint,
		},
		{
			name:    "minio missing credentials",
			config:  &StoreConfig{Provider: ProviderMinIO, Endpoint: "localhost:9000", Bucket: "media"},
			wantErr: ErrMissingAccessKey,
		},
		{
			name:    "cloudflare missing endpoint",
			config:  &StoreConfig{Provider: ProviderCloudflare, Bucket: "media"},
			wantErr: ErrMissingEndpoint,
		},
		{
			name:    "missing bucket",
			config:  &StoreConfig{Provider: ProviderAWS, Region: "us-east-1"},
			wantErr: ErrMissingBucket,
		},
		{
			name:   "valid aws",
			config: &StoreConfig{Provider: ProviderAWS, Region: "us-east-1", Bucket: "media"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := factory.ValidateStoreConfig(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsProviderSupported(t *testing.T) {
	factory := NewProviderFactory()

	assert.True(t, factory.IsProviderSupported(ProviderAWS))
	assert.True(t, factory.IsProviderSupported(ProviderMinIO))
	assert.False(t, factory.IsProviderSupported("gcs"))
}
