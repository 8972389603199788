package api

import (
	"fmt"
	"net/http"

	"consentgate/internal/catalog"
)

// Partners serves the partner listing. Admin-scoped: only the
// environment-configured admin keys are honoured.
func (h *Handler) Partners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	if !h.requireAdminKey(w, r) {
		return
	}

	partners, source := h.Catalog.FetchPartners(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    partners,
		"meta": map[string]any{
			"count":                len(partners),
			"usingMockData":        source == catalog.SourceFallback,
			"credentialsAvailable": h.Store != nil,
		},
	})
}
