package config

import (
	"fmt"
	"log"

	"file-share-api/internal/providers"
)

// S3Configuration holds all object storage settings
type S3Configuration struct {
	Provider  providers.ProviderType `json:"provider"`
	Endpoint  string                 `json:"endpoint"`
	Region    string                 `json:"region"`
	Bucket    string                 `json:"bucket"`
	AccessKey string                 `json:"access_key"`
	SecretKey string                 `json:"secret_key"`

	// Connection settings
	UseSSL    bool `json:"use_ssl"`
	PathStyle bool `json:"path_style"`
}

// LoadS3Config loads object storage configuration from environment variables
func LoadS3Config() *S3Configuration {
	config := &S3Configuration{
		Provider:  providers.ProviderType(getEnv("S3_PROVIDER", "aws")),
		Endpoint:  getEnv("S3_ENDPOINT", ""),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Bucket:    getEnv("S3_BUCKET_NAME", ""),
		AccessKey: getEnv("S3_ACCESS_KEY", getEnv("AWS_ACCESS_KEY_ID", "")),
		SecretKey: getEnv("S3_SECRET_KEY", getEnv("AWS_SECRET_ACCESS_KEY", "")),
		UseSSL:    getBool("S3_USE_SSL", true),
		PathStyle: getBool("S3_PATH_STYLE", false),
	}

	config.applyProviderDefaults()

	return config
}

// applyProviderDefaults sets provider-specific default values
func (c *S3Configuration) applyProviderDefaults() {
	switch c.Provider {
	case providers.ProviderAWS:
		c.PathStyle = false // AWS S3 prefers virtual-hosted style

	case providers.ProviderMinIO:
		c.PathStyle = true // MinIO typically uses path-style

	case providers.ProviderDigitalOcean:
		c.PathStyle = false
		if c.Region == "" {
			c.Region = "nyc3"
		}

	case providers.ProviderCloudflare:
		c.PathStyle = false
		if c.Region == "" {
			c.Region = "auto"
		}

	case providers.ProviderWasabi:
		c.PathStyle = false
		if c.Region == "" {
			c.Region = "us-east-1"
		}
	}
}

// ToStoreConfig converts S3Configuration to providers.StoreConfig
func (c *S3Configuration) ToStoreConfig() *providers.StoreConfig {
	return &providers.StoreConfig{
		Provider:  c.Provider,
		Endpoint:  c.Endpoint,
		Region:    c.Region,
		Bucket:    c.Bucket,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		UseSSL:    c.UseSSL,
		PathStyle: c.PathStyle,
	}
}

// Validate checks if the object storage configuration is valid
func (c *S3Configuration) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("S3_PROVIDER is required")
	}

	if !providers.NewProviderFactory().IsProviderSupported(c.Provider) {
		return fmt.Errorf("unsupported S3_PROVIDER: %s", c.Provider)
	}

	if c.Bucket == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required")
	}

	// MinIO talks to a self-hosted endpoint; the AWS-compatible providers can
	// fall back to the SDK's own endpoint resolution.
	if c.Provider == providers.ProviderMinIO && c.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required for %s provider", c.Provider)
	}

	if c.Region == "" {
		return fmt.Errorf("S3_REGION is required for %s provider", c.Provider)
	}

	return nil
}

// PrintS3Config logs the current object storage configuration (without sensitive data)
func (c *S3Configuration) PrintS3Config() {
	log.Println("===========================================")
	log.Println("📦 Object Storage Configuration")
	log.Println("===========================================")
	log.Printf("🔧 Provider:         %s", c.Provider)
	if c.Endpoint != "" {
		log.Printf("🌐 Endpoint:         %s", c.Endpoint)
	}
	log.Printf("🌍 Region:           %s", c.Region)
	log.Printf("🪣 Bucket:           %s", c.Bucket)
	log.Printf("🔍 Path Style:       %t", c.PathStyle)
	log.Println("===========================================")
}
