package media

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SignerConfig configures the S3-backed signer.
type SignerConfig struct {
	Region string

	// Optional static credentials. When empty the default provider chain is
	// used.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Signer issues presigned URLs. The target bucket is supplied per call; the
// broker decides which bucket an operation addresses.
type S3Signer struct {
	presign *s3.PresignClient
}

var _ Signer = (*S3Signer)(nil)

// NewS3Signer constructs the signer. No network call is made; signature
// generation itself is the first remote interaction.
func NewS3Signer(ctx context.Context, cfg SignerConfig) (*S3Signer, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Signer{
		presign: s3.NewPresignClient(client),
	}, nil
}

// PresignPut signs a write-scoped URL for the given bucket, key, and content
// type.
func (s *S3Signer) PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error) {
	result, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"uploaded-by": "consentgate-api",
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", key, err)
	}
	return result.URL, nil
}

// PresignGet signs a read-scoped URL for the given bucket and key.
func (s *S3Signer) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	result, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w", key, err)
	}
	return result.URL, nil
}
