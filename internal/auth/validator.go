// Package auth validates caller-supplied API keys against a prioritized
// source chain: environment-configured lists first, then (for the standard
// tier only) the document store.
package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"consentgate/internal/store"
)

// Scope is the privilege tier a credential is validated for.
type Scope string

const (
	ScopeStandard Scope = "standard"
	ScopeAdmin    Scope = "admin"
)

// PartnerLookup resolves a partner record by API key. Only the standard tier
// consults it.
type PartnerLookup interface {
	PartnerByAPIKey(ctx context.Context, apiKey string) (store.Item, bool, error)
}

// Validator checks credentials against the configured key lists and, for the
// standard tier, falls back to an active partner record in the document
// store. It holds no mutable state and is safe for concurrent use.
type Validator struct {
	standardKeys []string
	adminKeys    []string
	lookup       PartnerLookup
	storeEnabled bool
	logger       *slog.Logger
}

// Option mutates validator configuration.
type Option func(*Validator)

// WithPartnerLookup installs the store-backed fallback for the standard tier.
// The fallback is only consulted when storeEnabled is also set.
func WithPartnerLookup(lookup PartnerLookup, storeEnabled bool) Option {
	return func(v *Validator) {
		v.lookup = lookup
		v.storeEnabled = storeEnabled
	}
}

// WithLogger attaches a logger for fail-closed store errors.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator builds a validator over the environment-configured key lists.
func NewValidator(standardKeys, adminKeys []string, opts ...Option) *Validator {
	v := &Validator{
		standardKeys: append([]string(nil), standardKeys...),
		adminKeys:    append([]string(nil), adminKeys...),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate reports whether the credential is accepted for the requested
// scope. Admin validation never consults the store; standard validation
// checks the configured list first and falls back to an active partner
// record. Store errors fail closed.
func (v *Validator) Validate(ctx context.Context, credential string, scope Scope) bool {
	if credential == "" {
		return false
	}

	if scope == ScopeAdmin {
		return matchKey(v.adminKeys, credential)
	}

	if matchKey(v.standardKeys, credential) {
		return true
	}
	if !v.storeEnabled || v.lookup == nil {
		return false
	}

	item, found, err := v.lookup.PartnerByAPIKey(ctx, credential)
	if err != nil {
		if v.logger != nil {
			v.logger.Warn("partner key lookup failed, rejecting credential", "error", err)
		}
		return false
	}
	if !found {
		return false
	}
	status, _ := item["status"].(string)
	return status == "active"
}

func matchKey(keys []string, credential string) bool {
	matched := false
	for _, key := range keys {
		if len(key) == len(credential) &&
			subtle.ConstantTimeCompare([]byte(key), []byte(credential)) == 1 {
			matched = true
		}
	}
	return matched
}
