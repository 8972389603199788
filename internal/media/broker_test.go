package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"consentgate/internal/models"
)

type signerStub struct {
	putURL     string
	getURL     string
	err        error
	lastBucket string
	lastKey    string
	lastTTL    time.Duration
}

func (s *signerStub) PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error) {
	s.lastBucket = bucket
	s.lastKey = key
	s.lastTTL = expires
	return s.putURL, s.err
}

func (s *signerStub) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	s.lastBucket = bucket
	s.lastKey = key
	s.lastTTL = expires
	return s.getURL, s.err
}

func TestIssueUploadGrant(t *testing.T) {
	signer := &signerStub{putURL: "https://signed.example.com/put"}
	fixed := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	broker := NewBroker(signer, "consent360-dev", "consent360-videos-bucket", "us-east-2",
		WithClock(func() time.Time { return fixed }))

	grant, err := broker.IssueUploadGrant(context.Background(), "consult.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("IssueUploadGrant error: %v", err)
	}

	wantKey := "videos/1749816000000-consult.mp4"
	if grant.TargetKey != wantKey {
		t.Fatalf("TargetKey = %q, want %q", grant.TargetKey, wantKey)
	}
	if grant.Operation != models.GrantUpload {
		t.Fatalf("Operation = %q, want %q", grant.Operation, models.GrantUpload)
	}
	if grant.URL != "https://signed.example.com/put" {
		t.Fatalf("URL = %q", grant.URL)
	}
	wantObjectURL := "https://consent360-dev.s3.us-east-2.amazonaws.com/" + wantKey
	if grant.ObjectURL != wantObjectURL {
		t.Fatalf("ObjectURL = %q, want %q", grant.ObjectURL, wantObjectURL)
	}
	if grant.ExpiresIn != 900 {
		t.Fatalf("ExpiresIn = %d, want 900", grant.ExpiresIn)
	}
	if signer.lastTTL != UploadGrantTTL {
		t.Fatalf("signer TTL = %v, want %v", signer.lastTTL, UploadGrantTTL)
	}
}

func TestGrantsTargetPerOperationBuckets(t *testing.T) {
	signer := &signerStub{putURL: "https://signed.example.com/put", getURL: "https://signed.example.com/get"}
	broker := NewBroker(signer, "upload-bucket", "stream-bucket", "us-east-2")

	if _, err := broker.IssueUploadGrant(context.Background(), "consult.mp4", "video/mp4"); err != nil {
		t.Fatalf("IssueUploadGrant error: %v", err)
	}
	if signer.lastBucket != "upload-bucket" {
		t.Fatalf("upload signed against %q, want %q", signer.lastBucket, "upload-bucket")
	}

	if grant := broker.IssueStreamGrant(context.Background(), "videos/abc.mp4"); grant == nil {
		t.Fatal("expected a stream grant")
	}
	if signer.lastBucket != "stream-bucket" {
		t.Fatalf("stream signed against %q, want %q", signer.lastBucket, "stream-bucket")
	}
}

func TestIssueUploadGrantRejectsMissingFileName(t *testing.T) {
	broker := NewBroker(&signerStub{}, "uploads", "media", "us-east-2")

	_, err := broker.IssueUploadGrant(context.Background(), "  ", "video/mp4")

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "fileName" {
		t.Fatalf("Field = %q, want %q", validationErr.Field, "fileName")
	}
}

func TestIssueUploadGrantRejectsDisallowedType(t *testing.T) {
	signer := &signerStub{}
	broker := NewBroker(signer, "uploads", "media", "us-east-2")

	for _, contentType := range []string{"application/pdf", "video/quicktime", "image/png", ""} {
		_, err := broker.IssueUploadGrant(context.Background(), "file.bin", contentType)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("contentType %q: expected ValidationError, got %v", contentType, err)
		}
		if validationErr.Field != "fileType" {
			t.Fatalf("contentType %q: Field = %q, want fileType", contentType, validationErr.Field)
		}
		if !strings.Contains(validationErr.Reason, "mp4") {
			t.Fatalf("expected reason to name allowed types, got %q", validationErr.Reason)
		}
	}
	if signer.lastKey != "" {
		t.Fatal("expected no signing attempt for rejected requests")
	}
}

func TestIssueUploadGrantAcceptsAllowedTypes(t *testing.T) {
	broker := NewBroker(&signerStub{putURL: "https://signed.example.com/put"}, "uploads", "media", "us-east-2")

	for _, contentType := range AllowedUploadTypes {
		if _, err := broker.IssueUploadGrant(context.Background(), "file.bin", contentType); err != nil {
			t.Fatalf("contentType %q: unexpected error %v", contentType, err)
		}
	}
}

func TestIssueUploadGrantWithoutSigner(t *testing.T) {
	broker := NewBroker(nil, "uploads", "media", "us-east-2")

	_, err := broker.IssueUploadGrant(context.Background(), "file.mp4", "video/mp4")
	if err == nil {
		t.Fatal("expected error without a signer")
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		t.Fatal("missing signer is not a validation failure")
	}
}

func TestIssueUploadGrantSigningFailure(t *testing.T) {
	broker := NewBroker(&signerStub{err: errors.New("denied")}, "uploads", "media", "us-east-2")

	if _, err := broker.IssueUploadGrant(context.Background(), "file.mp4", "video/mp4"); err == nil {
		t.Fatal("expected signing failure to surface")
	}
}

func TestIssueStreamGrant(t *testing.T) {
	signer := &signerStub{getURL: "https://signed.example.com/get"}
	broker := NewBroker(signer, "uploads", "media", "us-east-2")

	grant := broker.IssueStreamGrant(context.Background(), "videos/abc.mp4")
	if grant == nil {
		t.Fatal("expected a stream grant")
	}
	if grant.Operation != models.GrantStream {
		t.Fatalf("Operation = %q, want %q", grant.Operation, models.GrantStream)
	}
	if grant.URL != "https://signed.example.com/get" {
		t.Fatalf("URL = %q", grant.URL)
	}
	if grant.ExpiresIn != 3600 {
		t.Fatalf("ExpiresIn = %d, want 3600", grant.ExpiresIn)
	}
	if signer.lastTTL != StreamGrantTTL {
		t.Fatalf("signer TTL = %v, want %v", signer.lastTTL, StreamGrantTTL)
	}
}

func TestIssueStreamGrantAbsentCases(t *testing.T) {
	if grant := NewBroker(nil, "uploads", "media", "us-east-2").IssueStreamGrant(context.Background(), "videos/a.mp4"); grant != nil {
		t.Fatal("expected absent grant without signer")
	}
	if grant := NewBroker(&signerStub{}, "uploads", "media", "us-east-2").IssueStreamGrant(context.Background(), ""); grant != nil {
		t.Fatal("expected absent grant for empty key")
	}
	failing := &signerStub{err: errors.New("denied")}
	if grant := NewBroker(failing, "uploads", "media", "us-east-2").IssueStreamGrant(context.Background(), "videos/a.mp4"); grant != nil {
		t.Fatal("expected absent grant when signing fails")
	}
}
