package catalog

import "consentgate/internal/models"

// PlaceholderVideos returns the fixed demo dataset served whenever live
// access is disabled or unavailable. Callers receive a fresh copy each call.
func PlaceholderVideos() []models.Video {
	return []models.Video{
		{
			ID:           "video-1",
			Title:        "Sample Consent Video",
			Description:  "Mock video for testing - document store not available",
			VideoURL:     "https://sample-videos.vercel.app/mp4/SampleVideo_720x480_1mb.mp4",
			ThumbnailURL: "https://via.placeholder.com/480x360/4F46E5/FFFFFF?text=Sample+Video",
			Duration:     120,
			CreatedAt:    "2025-06-13T00:00:00Z",
			Status:       models.VideoStatusPublished,
			Specialty:    "general",
			Tags:         []string{"consent", "general"},
			Format:       "mp4",
			Resolution:   "720x480",
			FileSize:     1048576,
			Language:     "en",
			Presenter:    "Dr. Smith",
			VideoType:    "consent",
		},
		{
			ID:           "video-2",
			Title:        "Surgical Consent Process",
			Description:  "Mock surgical consent video - document store not available",
			VideoURL:     "https://sample-videos.vercel.app/mp4/SampleVideo_640x360_1mb.mp4",
			ThumbnailURL: "https://via.placeholder.com/640x360/7C3AED/FFFFFF?text=Surgery+Video",
			Duration:     180,
			CreatedAt:    "2025-06-13T01:00:00Z",
			Status:       models.VideoStatusPublished,
			Specialty:    "surgery",
			Tags:         []string{"consent", "surgery"},
			Format:       "mp4",
			Resolution:   "640x360",
			FileSize:     1048576,
			Language:     "en",
			Presenter:    "Dr. Johnson",
			VideoType:    "procedure",
		},
	}
}

// PlaceholderPartners returns the fixed demo partner dataset.
func PlaceholderPartners() []models.Partner {
	return []models.Partner{
		{
			ID:           "partner-1",
			Name:         "Healthcare Partner A",
			APIKey:       "sk_test_123456",
			Status:       models.PartnerStatusActive,
			CreatedAt:    "2025-06-13T00:00:00Z",
			ContactEmail: "admin@healthcarea.com",
			Type:         "healthcare_provider",
		},
		{
			ID:           "partner-2",
			Name:         "Medical Group B",
			APIKey:       "partner-key-xyz",
			Status:       models.PartnerStatusActive,
			CreatedAt:    "2025-06-13T01:00:00Z",
			ContactEmail: "contact@medicalgroupb.com",
			Type:         "medical_group",
		},
	}
}
