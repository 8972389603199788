// Package testsupport provides scriptable fakes for the gateway's external
// collaborators.
package testsupport

import (
	"context"
	"errors"
	"sync/atomic"

	"consentgate/internal/store"
)

// ErrStoreUnavailable is returned by StoreStub methods that have not been
// scripted when FailAll is set.
var ErrStoreUnavailable = errors.New("store unavailable")

// StoreStub implements store.Store with per-method hooks. Unscripted methods
// return empty results, or ErrStoreUnavailable when FailAll is set. Call
// counters are atomic so tests can assert on concurrent access.
type StoreStub struct {
	FailAll bool

	ProbeFunc           func(ctx context.Context) error
	VideosByStatusFunc  func(ctx context.Context, status string, mostRecentFirst bool) ([]store.Item, error)
	PartnersFunc        func(ctx context.Context) ([]store.Item, error)
	PartnerByAPIKeyFunc func(ctx context.Context, apiKey string) (store.Item, bool, error)
	PutVideoFunc        func(ctx context.Context, item store.Item) error
	SampleFunc          func(ctx context.Context, table string, limit int32) ([]store.Item, error)

	ProbeCalls  atomic.Int64
	QueryCalls  atomic.Int64
	LookupCalls atomic.Int64
	WriteCalls  atomic.Int64
}

var _ store.Store = (*StoreStub)(nil)

func (s *StoreStub) Probe(ctx context.Context) error {
	s.ProbeCalls.Add(1)
	if s.ProbeFunc != nil {
		return s.ProbeFunc(ctx)
	}
	if s.FailAll {
		return ErrStoreUnavailable
	}
	return nil
}

func (s *StoreStub) VideosByStatus(ctx context.Context, status string, mostRecentFirst bool) ([]store.Item, error) {
	s.QueryCalls.Add(1)
	if s.VideosByStatusFunc != nil {
		return s.VideosByStatusFunc(ctx, status, mostRecentFirst)
	}
	if s.FailAll {
		return nil, ErrStoreUnavailable
	}
	return nil, nil
}

func (s *StoreStub) Partners(ctx context.Context) ([]store.Item, error) {
	s.QueryCalls.Add(1)
	if s.PartnersFunc != nil {
		return s.PartnersFunc(ctx)
	}
	if s.FailAll {
		return nil, ErrStoreUnavailable
	}
	return nil, nil
}

func (s *StoreStub) PartnerByAPIKey(ctx context.Context, apiKey string) (store.Item, bool, error) {
	s.LookupCalls.Add(1)
	if s.PartnerByAPIKeyFunc != nil {
		return s.PartnerByAPIKeyFunc(ctx, apiKey)
	}
	if s.FailAll {
		return nil, false, ErrStoreUnavailable
	}
	return nil, false, nil
}

func (s *StoreStub) PutVideo(ctx context.Context, item store.Item) error {
	s.WriteCalls.Add(1)
	if s.PutVideoFunc != nil {
		return s.PutVideoFunc(ctx, item)
	}
	if s.FailAll {
		return ErrStoreUnavailable
	}
	return nil
}

func (s *StoreStub) Sample(ctx context.Context, table string, limit int32) ([]store.Item, error) {
	s.QueryCalls.Add(1)
	if s.SampleFunc != nil {
		return s.SampleFunc(ctx, table, limit)
	}
	if s.FailAll {
		return nil, ErrStoreUnavailable
	}
	return nil, nil
}
