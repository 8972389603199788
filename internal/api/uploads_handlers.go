package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"consentgate/internal/catalog"
	"consentgate/internal/media"
)

type createVideoRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Duration     int      `json:"duration"`
	Specialty    string   `json:"specialty"`
	Tags         []string `json:"tags"`
	Format       string   `json:"format"`
	Resolution   string   `json:"resolution"`
	FileSize     int64    `json:"fileSize"`
}

// VideoUpload dispatches the upload endpoint: GET issues a write-scoped
// upload grant, POST records the uploaded video's metadata. Both require an
// admin credential.
func (h *Handler) VideoUpload(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.issueUploadURL(w, r)
	case http.MethodPost:
		h.createVideoRecord(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}
}

func (h *Handler) issueUploadURL(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdminKey(w, r) {
		return
	}

	fileName := strings.TrimSpace(r.URL.Query().Get("fileName"))
	fileType := strings.TrimSpace(r.URL.Query().Get("fileType"))
	if fileName == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("fileName parameter is required"))
		return
	}
	if fileType == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("fileType parameter is required"))
		return
	}
	if h.Media == nil {
		writeInternalError(w, "Failed to generate upload URL", fmt.Errorf("object store is not configured"))
		return
	}

	grant, err := h.Media.IssueUploadGrant(r.Context(), fileName, fileType)
	if err != nil {
		var validationErr *media.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr)
			return
		}
		writeInternalError(w, "Failed to generate upload URL", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"uploadUrl": grant.URL,
		"videoUrl":  grant.ObjectURL,
		"expiresIn": grant.ExpiresIn,
		"instructions": map[string]any{
			"method": http.MethodPut,
			"headers": map[string]string{
				"Content-Type": fileType,
			},
		},
	})
}

func (h *Handler) createVideoRecord(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdminKey(w, r) {
		return
	}

	var payload createVideoRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %v", err))
		return
	}
	if field, ok := firstMissingField(payload); !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%s is required", field))
		return
	}

	video, err := h.Catalog.CreateVideo(r.Context(), catalog.VideoDraft{
		Title:        payload.Title,
		Description:  payload.Description,
		VideoURL:     payload.VideoURL,
		ThumbnailURL: payload.ThumbnailURL,
		Duration:     payload.Duration,
		Specialty:    payload.Specialty,
		Tags:         payload.Tags,
		Format:       payload.Format,
		Resolution:   payload.Resolution,
		FileSize:     payload.FileSize,
	})
	if err != nil {
		writeInternalError(w, "Failed to create video record", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"video":   video,
		"message": "Video record created successfully",
	})
}

// firstMissingField names the first absent required field, in documented
// order.
func firstMissingField(payload createVideoRequest) (string, bool) {
	required := []struct {
		name  string
		value string
	}{
		{"title", payload.Title},
		{"description", payload.Description},
		{"videoUrl", payload.VideoURL},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return field.name, false
		}
	}
	return "", true
}
