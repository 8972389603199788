// Package server hosts the consent-video partner API behind a single HTTP
// server.
//
// The server builds a consistent middleware chain of logging, request IDs,
// CORS, security headers, metrics, and rate limiting so handlers all share
// common protections and instrumentation. Grant-issuance requests carry an
// extra per-client throttle that can be backed by Redis for cluster-wide
// enforcement.
package server
