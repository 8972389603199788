// Package config builds the immutable configuration snapshot shared by every
// component. No component reads the environment directly; the snapshot is
// constructed once at startup and passed explicitly.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultRegion        = "us-east-2"
	DefaultVideosTable   = "videos"
	DefaultPartnersTable = "partners"
	DefaultUploadBucket  = "consent360-dev"
	DefaultMediaBucket   = "consent360-videos-bucket"
)

// Config is the read-only process configuration. It is safe for unlimited
// concurrent readers.
type Config struct {
	Region        string
	VideosTable   string
	PartnersTable string

	// UploadBucket receives new uploads; MediaBucket holds published media
	// that streaming grants are signed against.
	UploadBucket string
	MediaBucket  string

	// StandardAPIKeys and AdminAPIKeys are the environment-configured
	// credential lists, already split and trimmed.
	StandardAPIKeys []string
	AdminAPIKeys    []string

	// RealDataEnabled gates every live-store access. When false the gateway
	// serves the deterministic placeholder datasets without probing.
	RealDataEnabled bool

	// Optional static credentials overriding the default AWS provider chain.
	AccessKeyID     string
	SecretAccessKey string
}

// FromEnv reads the configuration snapshot from the process environment.
func FromEnv() Config {
	return Config{
		Region:          envOr("AWS_REGION", DefaultRegion),
		VideosTable:     envOr("VIDEOS_TABLE_NAME", DefaultVideosTable),
		PartnersTable:   envOr("PARTNERS_TABLE_NAME", DefaultPartnersTable),
		UploadBucket:    envOr("S3_BUCKET_NAME", DefaultUploadBucket),
		MediaBucket:     envOr("AWS_S3_BUCKET_NAME", DefaultMediaBucket),
		StandardAPIKeys: SplitKeyList(os.Getenv("VALID_API_KEYS")),
		AdminAPIKeys:    SplitKeyList(os.Getenv("ADMIN_API_KEYS")),
		RealDataEnabled: envBool("ENABLE_REAL_DATA"),
		AccessKeyID:     strings.TrimSpace(os.Getenv("CONSENT360_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("CONSENT360_SECRET_ACCESS_KEY")),
	}
}

// HasStaticCredentials reports whether the snapshot carries an explicit AWS
// credential pair instead of relying on the default provider chain.
func (c Config) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// SplitKeyList parses a comma-separated credential list, trimming whitespace
// and dropping empty entries.
func SplitKeyList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return keys
}

func envOr(name, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envBool(name string) bool {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}
