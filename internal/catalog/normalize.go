package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"consentgate/internal/models"
	"consentgate/internal/store"
)

// Field alias tables. Raw items were written by several generations of
// clients; each canonical field lists the accepted keys in priority order.
// Adding an alias is a data change here, not a code change elsewhere.
var (
	videoIDAliases          = []string{"id", "videoId", "video_id"}
	videoTitleAliases       = []string{"title", "name"}
	videoDescriptionAliases = []string{"description", "summary"}
	videoURLAliases         = []string{"videoUrl", "video_url", "url", "s3Url"}
	thumbnailURLAliases     = []string{"thumbnailUrl", "thumbnail_url", "thumbnail"}
	createdAtAliases        = []string{"createdAt", "created_at", "uploadedAt"}
	fileSizeAliases         = []string{"fileSize", "file_size", "sizeBytes"}
	videoTypeAliases        = []string{"videoType", "video_type", "type"}

	partnerIDAliases    = []string{"id", "partnerId", "partner_id"}
	partnerNameAliases  = []string{"name", "partnerName", "companyName"}
	partnerKeyAliases   = []string{"apiKey", "api_key"}
	partnerEmailAliases = []string{"contactEmail", "contact_email", "email"}
)

// Documented defaults for fields with no matched alias.
const (
	defaultSpecialty = "general"
	defaultFormat    = "mp4"
	defaultLanguage  = "en"
)

// NormalizeVideo maps a raw store item onto the canonical video shape. It is
// total: every accepted raw shape yields a record with all fields populated,
// missing fields receive their documented defaults.
func NormalizeVideo(raw store.Item) models.Video {
	v := models.Video{
		ID:           firstString(raw, videoIDAliases...),
		Title:        firstString(raw, videoTitleAliases...),
		Description:  firstString(raw, videoDescriptionAliases...),
		VideoURL:     firstString(raw, videoURLAliases...),
		ThumbnailURL: firstString(raw, thumbnailURLAliases...),
		Duration:     int(firstNumber(raw, "duration")),
		CreatedAt:    firstString(raw, createdAtAliases...),
		Status:       firstString(raw, "status"),
		Specialty:    firstString(raw, "specialty"),
		Tags:         firstStrings(raw, "tags"),
		Format:       firstString(raw, "format"),
		Resolution:   firstString(raw, "resolution"),
		FileSize:     int64(firstNumber(raw, fileSizeAliases...)),
		Language:     canonicalLanguage(firstString(raw, "language")),
		Presenter:    firstString(raw, "presenter"),
		VideoType:    firstString(raw, videoTypeAliases...),
	}
	if v.Specialty == "" {
		v.Specialty = defaultSpecialty
	}
	if v.Format == "" {
		v.Format = defaultFormat
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}

// NormalizePartner maps a raw store item onto the canonical partner shape.
// Total in the same sense as NormalizeVideo.
func NormalizePartner(raw store.Item) models.Partner {
	return models.Partner{
		ID:           firstString(raw, partnerIDAliases...),
		Name:         firstString(raw, partnerNameAliases...),
		APIKey:       firstString(raw, partnerKeyAliases...),
		Status:       firstString(raw, "status"),
		CreatedAt:    firstString(raw, createdAtAliases...),
		ContactEmail: firstString(raw, partnerEmailAliases...),
		Type:         firstString(raw, "type", "partnerType"),
	}
}

func firstString(item store.Item, aliases ...string) string {
	for _, alias := range aliases {
		if value, ok := unwrapString(item[alias]); ok && value != "" {
			return value
		}
	}
	return ""
}

func firstNumber(item store.Item, aliases ...string) float64 {
	for _, alias := range aliases {
		if value, ok := unwrapNumber(item[alias]); ok {
			return value
		}
	}
	return 0
}

func firstStrings(item store.Item, aliases ...string) []string {
	for _, alias := range aliases {
		if value, ok := unwrapStrings(item[alias]); ok {
			return value
		}
	}
	return nil
}

// unwrapString accepts a plain string or a legacy wrapped scalar {"S": "x"}.
func unwrapString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case map[string]any:
		if s, ok := v["S"].(string); ok {
			return s, true
		}
	}
	return "", false
}

// unwrapNumber accepts plain numeric types, numeric strings inside a wrapped
// scalar {"N": "120"}, and json.Number from decoded request bodies.
func unwrapNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case map[string]any:
		wrapped, ok := v["N"]
		if !ok {
			return 0, false
		}
		switch n := wrapped.(type) {
		case string:
			parsed, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return 0, false
			}
			return parsed, true
		case float64:
			return n, true
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return 0, false
			}
			return parsed, true
		}
	}
	return 0, false
}

// unwrapStrings accepts a plain string slice, a decoded []any of strings, or
// a legacy wrapped string set {"SS": [...]}.
func unwrapStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		return anySliceToStrings(v)
	case map[string]any:
		switch wrapped := v["SS"].(type) {
		case []string:
			return append([]string(nil), wrapped...), true
		case []any:
			return anySliceToStrings(wrapped)
		}
	}
	return nil, false
}

func anySliceToStrings(values []any) ([]string, bool) {
	out := make([]string, 0, len(values))
	for _, entry := range values {
		s, ok := entry.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// canonicalLanguage reduces a stored language value to its base language
// code. Unparseable or missing values default to "en".
func canonicalLanguage(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultLanguage
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return defaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}
