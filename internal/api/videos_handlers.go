package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"consentgate/internal/catalog"
	"consentgate/internal/models"
)

// Object-key prefixes used when rewriting stored media URLs into stream
// grants.
const (
	videoKeyPrefix     = "videos"
	thumbnailKeyPrefix = "thumbnails"
)

// PublishedVideos serves the published video catalog. Requires a standard
// credential; never fails on store trouble, only degrades to the placeholder
// dataset.
func (h *Handler) PublishedVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	if !h.requireStandardKey(w, r) {
		return
	}

	mostRecentFirst := strings.EqualFold(r.URL.Query().Get("sort"), "recent")
	videos, source := h.Catalog.FetchPublishedVideos(r.Context(), mostRecentFirst)

	if source == catalog.SourceLive && h.Media != nil {
		for i := range videos {
			videos[i] = h.withStreamGrants(r.Context(), videos[i])
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    videos,
		"meta": map[string]any{
			"count":                len(videos),
			"usingMockData":        source == catalog.SourceFallback,
			"usingRealData":        source == catalog.SourceLive,
			"credentialsAvailable": h.Store != nil,
		},
	})
}

// withStreamGrants swaps object-store URLs for short-lived stream grants.
// An absent grant leaves the stored URL untouched.
func (h *Handler) withStreamGrants(ctx context.Context, video models.Video) models.Video {
	if key, ok := objectKeyFromURL(video.VideoURL, videoKeyPrefix); ok {
		if grant := h.Media.IssueStreamGrant(ctx, key); grant != nil {
			video.VideoURL = grant.URL
		}
	}
	if key, ok := objectKeyFromURL(video.ThumbnailURL, thumbnailKeyPrefix); ok {
		if grant := h.Media.IssueStreamGrant(ctx, key); grant != nil {
			video.ThumbnailURL = grant.URL
		}
	}
	return video
}

// objectKeyFromURL extracts the object-store key for URLs that point at the
// object store; other URLs are served as stored.
func objectKeyFromURL(rawURL, prefix string) (string, bool) {
	if rawURL == "" || !strings.Contains(rawURL, "s3") {
		return "", false
	}
	trimmed := strings.TrimSuffix(rawURL, "/")
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if segment == "" {
		return "", false
	}
	return prefix + "/" + segment, true
}
