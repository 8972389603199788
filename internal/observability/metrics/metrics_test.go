package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveRequestAccumulates(t *testing.T) {
	rec := New()
	rec.ObserveRequest("get", "/api/videos/published", 200, 50*time.Millisecond)
	rec.ObserveRequest("GET", "/api/videos/published", 200, 30*time.Millisecond)
	rec.ObserveRequest("GET", "/api/videos/published", 401, 5*time.Millisecond)

	if got := rec.RequestCount("GET", "/api/videos/published", 200); got != 2 {
		t.Fatalf("RequestCount(200) = %d, want 2", got)
	}
	if got := rec.RequestCount("GET", "/api/videos/published", 401); got != 1 {
		t.Fatalf("RequestCount(401) = %d, want 1", got)
	}
}

func TestObserveProbeAndFallback(t *testing.T) {
	rec := New()
	rec.ObserveProbe("live")
	rec.ObserveProbe("degraded")
	rec.ObserveProbe("degraded")
	rec.ObserveFallback("videos")
	rec.ObserveFallback("  Partners ")

	probes := rec.ProbeCounts()
	if probes["live"] != 1 || probes["degraded"] != 2 {
		t.Fatalf("unexpected probe counts: %v", probes)
	}
	fallbacks := rec.FallbackCounts()
	if fallbacks["videos"] != 1 {
		t.Fatalf("unexpected fallback counts: %v", fallbacks)
	}
	if fallbacks["partners"] != 1 {
		t.Fatalf("expected entity name to be normalized, got %v", fallbacks)
	}
}

func TestObserveGrant(t *testing.T) {
	rec := New()
	rec.ObserveGrant("upload", "issued")
	rec.ObserveGrant("upload", "rejected")
	rec.ObserveGrant("stream", "issued")
	rec.ObserveGrant("stream", "issued")

	if got := rec.GrantCount("upload", "issued"); got != 1 {
		t.Fatalf("GrantCount(upload, issued) = %d, want 1", got)
	}
	if got := rec.GrantCount("stream", "issued"); got != 2 {
		t.Fatalf("GrantCount(stream, issued) = %d, want 2", got)
	}
	if got := rec.GrantCount("stream", "failed"); got != 0 {
		t.Fatalf("GrantCount(stream, failed) = %d, want 0", got)
	}
}

func TestHandlerRendersExposition(t *testing.T) {
	rec := New()
	rec.ObserveRequest("GET", "/api/partners", 200, 12*time.Millisecond)
	rec.ObserveProbe("live")
	rec.ObserveFallback("videos")
	rec.ObserveGrant("upload", "issued")

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q, want text/plain exposition", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read exposition body: %v", err)
	}
	body := string(raw)

	for _, want := range []string{
		`consentgate_http_requests_total{method="GET",path="/api/partners",status="200"} 1`,
		`consentgate_store_probes_total{outcome="live"} 1`,
		`consentgate_catalog_fallbacks_total{entity="videos"} 1`,
		`consentgate_access_grants_total{operation="upload",outcome="issued"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q\n%s", want, body)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "/"},
		{input: "/", want: "/"},
		{input: "/api/videos/published", want: "/api/videos/published"},
		{input: "/api/videos/1749816000000", want: "/api/videos/:id"},
		{input: "/api/videos/published/", want: "/api/videos/published"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestResetClearsCounters(t *testing.T) {
	rec := New()
	rec.ObserveRequest("GET", "/healthz", 200, time.Millisecond)
	rec.ObserveGrant("upload", "issued")

	rec.Reset()

	if got := rec.RequestCount("GET", "/healthz", 200); got != 0 {
		t.Fatalf("RequestCount after reset = %d, want 0", got)
	}
	if got := rec.GrantCount("upload", "issued"); got != 0 {
		t.Fatalf("GrantCount after reset = %d, want 0", got)
	}
}
