// Package models defines the canonical catalog record shapes served by the
// gateway. All values are request-scoped; nothing in this package holds
// references across requests.
package models

// Video is the canonical shape of a catalog video record. Raw store items
// arrive in several legacy shapes; the catalog normalizer maps every accepted
// shape onto this struct with all fields populated.
type Video struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Duration     int      `json:"duration"`
	CreatedAt    string   `json:"createdAt"`
	Status       string   `json:"status"`
	Specialty    string   `json:"specialty"`
	Tags         []string `json:"tags"`
	Format       string   `json:"format"`
	Resolution   string   `json:"resolution"`
	FileSize     int64    `json:"fileSize"`
	Language     string   `json:"language"`
	Presenter    string   `json:"presenter"`
	VideoType    string   `json:"videoType"`
}

// Partner is the canonical shape of a catalog partner record. Partner records
// also carry the API keys honoured by the standard credential tier.
type Partner struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	APIKey       string `json:"apiKey"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	ContactEmail string `json:"contactEmail"`
	Type         string `json:"type"`
}

// Partner status values honoured by the credential validator.
const (
	PartnerStatusActive   = "active"
	PartnerStatusInactive = "inactive"
)

// Video status values used by the catalog.
const (
	VideoStatusPublished = "published"
	VideoStatusDraft     = "draft"
)

// GrantOperation identifies the scope of a signed access grant.
type GrantOperation string

const (
	GrantUpload GrantOperation = "upload"
	GrantStream GrantOperation = "stream"
)

// AccessGrant is a time-limited, operation-scoped signed URL for a single
// object-store key. Grants are issued on demand and never persisted; expiry
// is enforced by the object store's signature validation.
type AccessGrant struct {
	TargetKey string         `json:"targetKey"`
	Operation GrantOperation `json:"operation"`
	URL       string         `json:"url"`
	ObjectURL string         `json:"objectUrl,omitempty"`
	ExpiresIn int            `json:"expiresIn"`
}
