// Package metrics aggregates in-memory counters for HTTP traffic, store
// probe outcomes, catalog fallbacks, and access-grant issuance, and renders
// them in Prometheus text exposition format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

type requestLabel struct {
	method string
	path   string
	status string
}

type grantLabel struct {
	operation string
	outcome   string
}

// Recorder aggregates gateway metrics. Writers coordinate via a RWMutex; it
// is safe for concurrent use from request handlers.
type Recorder struct {
	mu              sync.RWMutex
	requestCount    map[requestLabel]uint64
	requestDuration map[requestLabel]time.Duration
	probeOutcomes   map[string]uint64
	fallbacks       map[string]uint64
	grants          map[grantLabel]uint64
}

var defaultRecorder = New()

// New constructs an empty Recorder with initialized backing maps so callers
// can record immediately.
func New() *Recorder {
	return &Recorder{
		requestCount:    make(map[requestLabel]uint64),
		requestDuration: make(map[requestLabel]time.Duration),
		probeOutcomes:   make(map[string]uint64),
		fallbacks:       make(map[string]uint64),
		grants:          make(map[grantLabel]uint64),
	}
}

// Default returns the singleton Recorder shared by packages that do not carry
// their own instrumentation pipeline.
func Default() *Recorder {
	return defaultRecorder
}

// ObserveRequest accumulates request count and cumulative duration by HTTP
// method, normalized path, and status code.
func (r *Recorder) ObserveRequest(method, path string, status int, duration time.Duration) {
	label := requestLabel{
		method: strings.ToUpper(method),
		path:   normalizePath(path),
		status: fmt.Sprintf("%d", status),
	}
	r.mu.Lock()
	r.requestCount[label]++
	r.requestDuration[label] += duration
	r.mu.Unlock()
}

// ObserveProbe records one store probe outcome ("live" or "degraded").
func (r *Recorder) ObserveProbe(outcome string) {
	name := normalizeName(outcome)
	r.mu.Lock()
	r.probeOutcomes[name]++
	r.mu.Unlock()
}

// ObserveFallback records one placeholder-dataset response by entity type.
func (r *Recorder) ObserveFallback(entity string) {
	name := normalizeName(entity)
	r.mu.Lock()
	r.fallbacks[name]++
	r.mu.Unlock()
}

// ObserveGrant records one access-grant issuance attempt by operation
// ("upload"/"stream") and outcome ("issued"/"rejected"/"failed").
func (r *Recorder) ObserveGrant(operation, outcome string) {
	label := grantLabel{operation: normalizeName(operation), outcome: normalizeName(outcome)}
	r.mu.Lock()
	r.grants[label]++
	r.mu.Unlock()
}

// RequestCount returns the accumulated count for a method/path/status tuple,
// for tests and reporting.
func (r *Recorder) RequestCount(method, path string, status int) uint64 {
	label := requestLabel{
		method: strings.ToUpper(method),
		path:   normalizePath(path),
		status: fmt.Sprintf("%d", status),
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.requestCount[label]
}

// ProbeCounts returns a copy of the probe outcome counters.
func (r *Recorder) ProbeCounts() map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]uint64, len(r.probeOutcomes))
	for k, v := range r.probeOutcomes {
		out[k] = v
	}
	return out
}

// FallbackCounts returns a copy of the fallback counters by entity.
func (r *Recorder) FallbackCounts() map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]uint64, len(r.fallbacks))
	for k, v := range r.fallbacks {
		out[k] = v
	}
	return out
}

// GrantCount returns the accumulated count for an operation/outcome pair.
func (r *Recorder) GrantCount(operation, outcome string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[grantLabel{operation: normalizeName(operation), outcome: normalizeName(outcome)}]
}

// Reset clears all counters. Intended for test setups.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requestCount = make(map[requestLabel]uint64)
	r.requestDuration = make(map[requestLabel]time.Duration)
	r.probeOutcomes = make(map[string]uint64)
	r.fallbacks = make(map[string]uint64)
	r.grants = make(map[grantLabel]uint64)
}

// Handler exposes the Recorder as an http.Handler writing Prometheus text
// exposition data.
func (r *Recorder) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		r.Write(w)
	})
}

// Write renders the metrics in Prometheus text format with label sets sorted
// for stable scrapes.
func (r *Recorder) Write(w io.Writer) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requestLabels := r.sortedRequestLabels()

	fmt.Fprintln(w, "# HELP consentgate_http_requests_total Total number of HTTP requests processed by the gateway")
	fmt.Fprintln(w, "# TYPE consentgate_http_requests_total counter")
	for _, label := range requestLabels {
		fmt.Fprintf(w, "consentgate_http_requests_total{method=%q,path=%q,status=%q} %d\n",
			label.method, label.path, label.status, r.requestCount[label])
	}

	fmt.Fprintln(w, "# HELP consentgate_http_request_duration_seconds_sum Cumulative duration of HTTP requests in seconds")
	fmt.Fprintln(w, "# TYPE consentgate_http_request_duration_seconds_sum counter")
	for _, label := range requestLabels {
		fmt.Fprintf(w, "consentgate_http_request_duration_seconds_sum{method=%q,path=%q,status=%q} %f\n",
			label.method, label.path, label.status, r.requestDuration[label].Seconds())
	}

	fmt.Fprintln(w, "# HELP consentgate_store_probes_total Store capability probes by outcome")
	fmt.Fprintln(w, "# TYPE consentgate_store_probes_total counter")
	for _, outcome := range sortedKeys(r.probeOutcomes) {
		fmt.Fprintf(w, "consentgate_store_probes_total{outcome=%q} %d\n", outcome, r.probeOutcomes[outcome])
	}

	fmt.Fprintln(w, "# HELP consentgate_catalog_fallbacks_total Placeholder-dataset responses by entity type")
	fmt.Fprintln(w, "# TYPE consentgate_catalog_fallbacks_total counter")
	for _, entity := range sortedKeys(r.fallbacks) {
		fmt.Fprintf(w, "consentgate_catalog_fallbacks_total{entity=%q} %d\n", entity, r.fallbacks[entity])
	}

	fmt.Fprintln(w, "# HELP consentgate_access_grants_total Access-grant issuance attempts by operation and outcome")
	fmt.Fprintln(w, "# TYPE consentgate_access_grants_total counter")
	for _, label := range r.sortedGrantLabels() {
		fmt.Fprintf(w, "consentgate_access_grants_total{operation=%q,outcome=%q} %d\n",
			label.operation, label.outcome, r.grants[label])
	}
}

func (r *Recorder) sortedRequestLabels() []requestLabel {
	labels := make([]requestLabel, 0, len(r.requestCount))
	for label := range r.requestCount {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].path != labels[j].path {
			return labels[i].path < labels[j].path
		}
		if labels[i].method != labels[j].method {
			return labels[i].method < labels[j].method
		}
		return labels[i].status < labels[j].status
	})
	return labels
}

func (r *Recorder) sortedGrantLabels() []grantLabel {
	labels := make([]grantLabel, 0, len(r.grants))
	for label := range r.grants {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].operation != labels[j].operation {
			return labels[i].operation < labels[j].operation
		}
		return labels[i].outcome < labels[j].outcome
	})
	return labels
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizePath collapses identifier-looking path segments so metric
// cardinality stays bounded.
func normalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if looksLikeIdentifier(part) {
			parts[i] = ":id"
		}
	}
	normalized := strings.Join(parts, "/")
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if strings.HasSuffix(normalized, "/") && len(normalized) > 1 {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized
}

func looksLikeIdentifier(segment string) bool {
	if len(segment) < 8 {
		return false
	}
	digits := 0
	for _, r := range segment {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == '_':
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
		default:
			return false
		}
	}
	return digits > 0
}

func normalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
