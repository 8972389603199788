package api

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"consentgate/internal/store"
)

const sampleLimit = 3

// Status is an unauthenticated connectivity self-test: it runs one store
// probe and reports the outcome alongside an environment summary.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	storeState := map[string]any{
		"configured": h.Store != nil,
		"reachable":  false,
	}
	success := false
	message := "document store is not configured"
	if h.Store != nil {
		if err := h.Store.Probe(r.Context()); err != nil {
			message = "document store is unreachable"
			storeState["error"] = err.Error()
		} else {
			success = true
			message = "document store connectivity test successful"
			storeState["reachable"] = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": success,
		"message": message,
		"environment": map[string]any{
			"region":          h.Config.Region,
			"videosTable":     h.Config.VideosTable,
			"partnersTable":   h.Config.PartnersTable,
			"realDataEnabled": h.Config.RealDataEnabled,
		},
		"store":     storeState,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DebugEnv reports which settings are configured without exposing values.
func (h *Handler) DebugEnv(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"environment": map[string]any{
			"AWS_REGION":          h.Config.Region,
			"VIDEOS_TABLE_NAME":   h.Config.VideosTable,
			"PARTNERS_TABLE_NAME": h.Config.PartnersTable,
			"VALID_API_KEYS":      setOrNot(len(h.Config.StandardAPIKeys) > 0),
			"ADMIN_API_KEYS":      setOrNot(len(h.Config.AdminAPIKeys) > 0),
			"ENABLE_REAL_DATA":    h.Config.RealDataEnabled,
			"STATIC_CREDENTIALS":  setOrNot(h.Config.HasStaticCredentials()),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DebugTables samples both catalog tables concurrently for inspection.
// Admin-scoped.
func (h *Handler) DebugTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	if !h.requireAdminKey(w, r) {
		return
	}
	if h.Store == nil {
		writeInternalError(w, "Failed to inspect tables", fmt.Errorf("document store is not configured"))
		return
	}

	var videoItems, partnerItems []store.Item
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		videoItems, err = h.Store.Sample(ctx, h.Config.VideosTable, sampleLimit)
		return err
	})
	g.Go(func() error {
		var err error
		partnerItems, err = h.Store.Sample(ctx, h.Config.PartnersTable, sampleLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		writeInternalError(w, "Failed to inspect tables", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tables": map[string]any{
			"videos":   tableSummary(h.Config.VideosTable, videoItems),
			"partners": tableSummary(h.Config.PartnersTable, partnerItems),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func tableSummary(tableName string, items []store.Item) map[string]any {
	structure := []string{}
	if len(items) > 0 {
		for key := range items[0] {
			structure = append(structure, key)
		}
		sort.Strings(structure)
	}
	return map[string]any{
		"tableName":   tableName,
		"count":       len(items),
		"sampleItems": items,
		"structure":   structure,
	}
}

func setOrNot(set bool) string {
	if set {
		return "SET"
	}
	return "NOT SET"
}
