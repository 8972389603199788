package api

import (
	"fmt"
	"net/http"
	"strings"

	"consentgate/internal/auth"
)

// apiKeyHeader is the header carrying the caller credential.
const apiKeyHeader = "X-Api-Key"

// ExtractAPIKey returns the credential supplied on the request, if any.
func ExtractAPIKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(apiKeyHeader))
}

// requireStandardKey enforces the standard credential tier. The 401 message
// never reveals which validation source rejected the key.
func (h *Handler) requireStandardKey(w http.ResponseWriter, r *http.Request) bool {
	key := ExtractAPIKey(r)
	if key == "" {
		writeError(w, http.StatusUnauthorized, fmt.Errorf("API key is required"))
		return false
	}
	if !h.Keys.Validate(r.Context(), key, auth.ScopeStandard) {
		writeError(w, http.StatusUnauthorized, fmt.Errorf("Invalid API key"))
		return false
	}
	return true
}

// requireAdminKey enforces the admin tier: environment-configured admin keys
// only, no store fallback.
func (h *Handler) requireAdminKey(w http.ResponseWriter, r *http.Request) bool {
	key := ExtractAPIKey(r)
	if key == "" {
		writeError(w, http.StatusUnauthorized, fmt.Errorf("Admin API key is required"))
		return false
	}
	if !h.Keys.Validate(r.Context(), key, auth.ScopeAdmin) {
		writeError(w, http.StatusUnauthorized, fmt.Errorf("Invalid admin API key"))
		return false
	}
	return true
}
