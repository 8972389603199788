// Package catalog retrieves video and partner records, degrading to a fixed
// placeholder dataset whenever the document store is disabled, unreachable,
// or failing. Fetch operations never fail their caller; they only degrade.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"consentgate/internal/models"
	"consentgate/internal/observability/metrics"
	"consentgate/internal/store"
)

// Source reports where a fetch result came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Service is the catalog data-access layer. All state is read-only after
// construction; concurrent fetches are fully independent, each performing its
// own probe and query.
type Service struct {
	store    store.Store
	realData bool
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
}

// ServiceOption mutates service configuration.
type ServiceOption func(*Service)

// WithLogger attaches a logger for degradation events.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(recorder *metrics.Recorder) ServiceOption {
	return func(s *Service) { s.metrics = recorder }
}

// WithClock overrides the clock used for generated record IDs and timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the catalog service. A nil store is valid and pins every
// fetch to the placeholder tier. realData gates all live access.
func NewService(st store.Store, realData bool, opts ...ServiceOption) *Service {
	s := &Service{
		store:    st,
		realData: realData,
		metrics:  metrics.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPublishedVideos returns published videos, live when possible. The
// resolution chain is: feature flag, probe, query; the first unavailable tier
// resolves to the placeholder dataset. mostRecentFirst orders live results by
// descending creation timestamp.
func (s *Service) FetchPublishedVideos(ctx context.Context, mostRecentFirst bool) ([]models.Video, Source) {
	if !s.liveTierAvailable(ctx) {
		s.observeFallback("videos")
		return PlaceholderVideos(), SourceFallback
	}

	items, err := s.store.VideosByStatus(ctx, models.VideoStatusPublished, mostRecentFirst)
	if err != nil {
		s.logDegraded("video query failed, serving placeholder data", err)
		s.observeFallback("videos")
		return PlaceholderVideos(), SourceFallback
	}

	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		videos = append(videos, NormalizeVideo(item))
	}
	return videos, SourceLive
}

// FetchPartners returns all partner records, live when possible.
func (s *Service) FetchPartners(ctx context.Context) ([]models.Partner, Source) {
	if !s.liveTierAvailable(ctx) {
		s.observeFallback("partners")
		return PlaceholderPartners(), SourceFallback
	}

	items, err := s.store.Partners(ctx)
	if err != nil {
		s.logDegraded("partner scan failed, serving placeholder data", err)
		s.observeFallback("partners")
		return PlaceholderPartners(), SourceFallback
	}

	partners := make([]models.Partner, 0, len(items))
	for _, item := range items {
		partners = append(partners, NormalizePartner(item))
	}
	return partners, SourceLive
}

// VideoDraft carries the caller-supplied fields for a new video record.
type VideoDraft struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     int
	Specialty    string
	Tags         []string
	Format       string
	Resolution   string
	FileSize     int64
}

// CreateVideo persists a new draft video record and returns its canonical
// shape. When live access is disabled the record is returned without being
// persisted, matching placeholder-mode demoability.
func (s *Service) CreateVideo(ctx context.Context, draft VideoDraft) (models.Video, error) {
	now := s.now().UTC()
	video := models.Video{
		ID:           fmt.Sprintf("video-%d", now.UnixMilli()),
		Title:        draft.Title,
		Description:  draft.Description,
		VideoURL:     draft.VideoURL,
		ThumbnailURL: draft.ThumbnailURL,
		Duration:     draft.Duration,
		CreatedAt:    now.Format(time.RFC3339),
		Status:       models.VideoStatusDraft,
		Specialty:    draft.Specialty,
		Tags:         draft.Tags,
		Format:       draft.Format,
		Resolution:   draft.Resolution,
		FileSize:     draft.FileSize,
		Language:     defaultLanguage,
	}
	if video.Specialty == "" {
		video.Specialty = defaultSpecialty
	}
	if video.Format == "" {
		video.Format = defaultFormat
	}
	if video.Tags == nil {
		video.Tags = []string{}
	}

	if !s.realData || s.store == nil {
		return video, nil
	}

	item := store.Item{
		"id":           video.ID,
		"title":        video.Title,
		"description":  video.Description,
		"videoUrl":     video.VideoURL,
		"thumbnailUrl": video.ThumbnailURL,
		"duration":     video.Duration,
		"createdAt":    video.CreatedAt,
		"status":       video.Status,
		"specialty":    video.Specialty,
		"tags":         video.Tags,
		"format":       video.Format,
		"resolution":   video.Resolution,
		"fileSize":     video.FileSize,
		"language":     video.Language,
	}
	if err := s.store.PutVideo(ctx, item); err != nil {
		return models.Video{}, fmt.Errorf("create video record: %w", err)
	}
	return video, nil
}

// liveTierAvailable runs the per-request probe. It is never cached; every
// request pays the probe to keep the degradation status current.
func (s *Service) liveTierAvailable(ctx context.Context) bool {
	if !s.realData || s.store == nil {
		return false
	}
	if err := s.store.Probe(ctx); err != nil {
		s.logDegraded("store probe failed, serving placeholder data", err)
		s.observeProbe("degraded")
		return false
	}
	s.observeProbe("live")
	return true
}

func (s *Service) logDegraded(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "error", err)
	}
}

func (s *Service) observeProbe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveProbe(outcome)
	}
}

func (s *Service) observeFallback(entity string) {
	if s.metrics != nil {
		s.metrics.ObserveFallback(entity)
	}
}
