// Package api contains the HTTP request handlers. Handlers are thin
// orchestration: validate the credential first, then delegate to the catalog
// service or grant broker, then shape the response envelope.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"consentgate/internal/auth"
	"consentgate/internal/catalog"
	"consentgate/internal/config"
	"consentgate/internal/media"
	"consentgate/internal/store"
)

// Handler carries the request-handling dependencies. All fields are read-only
// after construction.
type Handler struct {
	Keys    *auth.Validator
	Catalog *catalog.Service
	Media   *media.Broker
	Store   store.Store
	Config  config.Config
	Logger  *slog.Logger
}

// NewHandler wires the handler. Media and Store may be nil; the affected
// endpoints then degrade per their contracts.
func NewHandler(keys *auth.Validator, cat *catalog.Service, broker *media.Broker, st store.Store, cfg config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		Keys:    keys,
		Catalog: cat,
		Media:   broker,
		Store:   st,
		Config:  cfg,
		Logger:  logger,
	}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError emits the standard error envelope. Exported so middleware can
// produce responses with the same shape as handlers.
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeError(w http.ResponseWriter, status int, err error) {
	WriteError(w, status, err)
}

// writeInternalError emits the 500 envelope: a generic message plus a
// best-effort diagnostic detail.
func writeInternalError(w http.ResponseWriter, message string, err error) {
	details := "unknown error"
	if err != nil {
		details = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   message,
		"details": details,
	})
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(dest)
}
