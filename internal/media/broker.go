// Package media issues scoped, time-limited access grants for media objects:
// write grants for uploads and read grants for streaming. Grants are
// request-scoped; nothing is retained after issuance.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"consentgate/internal/models"
	"consentgate/internal/observability/metrics"
)

// Grant lifetimes are fixed per operation and not configurable per grant.
const (
	UploadGrantTTL = 15 * time.Minute
	StreamGrantTTL = time.Hour
)

// uploadKeyPrefix namespaces uploaded objects inside the bucket.
const uploadKeyPrefix = "videos"

// AllowedUploadTypes is the accepted content-type allow-list for uploads.
var AllowedUploadTypes = []string{"video/mp4", "video/webm", "video/ogg"}

// ValidationError reports a rejected grant request and names the offending
// field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Signer produces operation-scoped signed URLs against the object store.
type Signer interface {
	PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error)
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// Broker validates grant requests and delegates signing. Uploads land in the
// upload bucket; stream grants are signed against the bucket holding
// published media. It holds no mutable state and is safe for concurrent use.
type Broker struct {
	signer       Signer
	uploadBucket string
	streamBucket string
	region       string
	logger       *slog.Logger
	metrics      *metrics.Recorder
	now          func() time.Time
}

// BrokerOption mutates broker configuration.
type BrokerOption func(*Broker)

// WithLogger attaches a logger for signing failures.
func WithLogger(logger *slog.Logger) BrokerOption {
	return func(b *Broker) { b.logger = logger }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(recorder *metrics.Recorder) BrokerOption {
	return func(b *Broker) { b.metrics = recorder }
}

// WithClock overrides the clock used for upload key uniqueness tokens.
func WithClock(now func() time.Time) BrokerOption {
	return func(b *Broker) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBroker builds a grant broker over the upload and streaming buckets in
// the given region. A nil signer is valid: upload issuance then errors and
// stream issuance returns absent grants.
func NewBroker(signer Signer, uploadBucket, streamBucket, region string, opts ...BrokerOption) *Broker {
	b := &Broker{
		signer:       signer,
		uploadBucket: uploadBucket,
		streamBucket: streamBucket,
		region:       region,
		metrics:      metrics.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IssueUploadGrant validates the request and returns a write-scoped grant
// valid for exactly UploadGrantTTL. The object key namespaces the filename
// under a fixed prefix plus a timestamp token to avoid collisions. The grant
// also carries the canonical object URL that becomes valid once the upload
// completes.
func (b *Broker) IssueUploadGrant(ctx context.Context, fileName, contentType string) (*models.AccessGrant, error) {
	if strings.TrimSpace(fileName) == "" {
		b.observeGrant(models.GrantUpload, "rejected")
		return nil, &ValidationError{Field: "fileName", Reason: "is required"}
	}
	if !uploadTypeAllowed(contentType) {
		b.observeGrant(models.GrantUpload, "rejected")
		return nil, &ValidationError{Field: "fileType", Reason: "unsupported file type, allowed: mp4, webm, ogg"}
	}
	if b.signer == nil {
		b.observeGrant(models.GrantUpload, "failed")
		return nil, fmt.Errorf("object store signer is not configured")
	}

	key := fmt.Sprintf("%s/%d-%s", uploadKeyPrefix, b.now().UnixMilli(), fileName)
	uploadURL, err := b.signer.PresignPut(ctx, b.uploadBucket, key, contentType, UploadGrantTTL)
	if err != nil {
		b.observeGrant(models.GrantUpload, "failed")
		return nil, fmt.Errorf("sign upload grant: %w", err)
	}

	b.observeGrant(models.GrantUpload, "issued")
	return &models.AccessGrant{
		TargetKey: key,
		Operation: models.GrantUpload,
		URL:       uploadURL,
		ObjectURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.uploadBucket, b.region, key),
		ExpiresIn: int(UploadGrantTTL / time.Second),
	}, nil
}

// IssueStreamGrant returns a read-scoped grant valid for exactly
// StreamGrantTTL, or nil when signing is unavailable or fails. Callers treat
// an absent grant as "fall back to the stored unsigned URL if present".
func (b *Broker) IssueStreamGrant(ctx context.Context, objectKey string) *models.AccessGrant {
	if b.signer == nil || strings.TrimSpace(objectKey) == "" {
		return nil
	}
	streamURL, err := b.signer.PresignGet(ctx, b.streamBucket, objectKey, StreamGrantTTL)
	if err != nil {
		if b.logger != nil {
			b.logger.Debug("stream grant signing failed", "key", objectKey, "error", err)
		}
		b.observeGrant(models.GrantStream, "failed")
		return nil
	}
	b.observeGrant(models.GrantStream, "issued")
	return &models.AccessGrant{
		TargetKey: objectKey,
		Operation: models.GrantStream,
		URL:       streamURL,
		ExpiresIn: int(StreamGrantTTL / time.Second),
	}
}

func (b *Broker) observeGrant(op models.GrantOperation, outcome string) {
	if b.metrics != nil {
		b.metrics.ObserveGrant(string(op), outcome)
	}
}

func uploadTypeAllowed(contentType string) bool {
	for _, allowed := range AllowedUploadTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}
