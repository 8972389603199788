package config

import (
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"AWS_REGION", "VIDEOS_TABLE_NAME", "PARTNERS_TABLE_NAME",
		"S3_BUCKET_NAME", "AWS_S3_BUCKET_NAME", "VALID_API_KEYS",
		"ADMIN_API_KEYS", "ENABLE_REAL_DATA",
		"CONSENT360_ACCESS_KEY_ID", "CONSENT360_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.Region != DefaultRegion {
		t.Fatalf("Region = %q, want %q", cfg.Region, DefaultRegion)
	}
	if cfg.VideosTable != DefaultVideosTable {
		t.Fatalf("VideosTable = %q, want %q", cfg.VideosTable, DefaultVideosTable)
	}
	if cfg.PartnersTable != DefaultPartnersTable {
		t.Fatalf("PartnersTable = %q, want %q", cfg.PartnersTable, DefaultPartnersTable)
	}
	if cfg.UploadBucket != DefaultUploadBucket {
		t.Fatalf("UploadBucket = %q, want %q", cfg.UploadBucket, DefaultUploadBucket)
	}
	if cfg.MediaBucket != DefaultMediaBucket {
		t.Fatalf("MediaBucket = %q, want %q", cfg.MediaBucket, DefaultMediaBucket)
	}
	if cfg.StandardAPIKeys != nil {
		t.Fatalf("StandardAPIKeys = %v, want nil", cfg.StandardAPIKeys)
	}
	if cfg.RealDataEnabled {
		t.Fatal("RealDataEnabled = true, want false")
	}
	if cfg.HasStaticCredentials() {
		t.Fatal("HasStaticCredentials() = true, want false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("VIDEOS_TABLE_NAME", "pipeline-videos")
	t.Setenv("PARTNERS_TABLE_NAME", "pipeline-partners")
	t.Setenv("VALID_API_KEYS", "pk_1, pk_2")
	t.Setenv("ADMIN_API_KEYS", "ak_1")
	t.Setenv("ENABLE_REAL_DATA", "true")
	t.Setenv("CONSENT360_ACCESS_KEY_ID", "AKIA123")
	t.Setenv("CONSENT360_SECRET_ACCESS_KEY", "secret")

	cfg := FromEnv()

	if cfg.Region != "eu-west-1" {
		t.Fatalf("Region = %q, want %q", cfg.Region, "eu-west-1")
	}
	if cfg.VideosTable != "pipeline-videos" {
		t.Fatalf("VideosTable = %q, want %q", cfg.VideosTable, "pipeline-videos")
	}
	if !reflect.DeepEqual(cfg.StandardAPIKeys, []string{"pk_1", "pk_2"}) {
		t.Fatalf("StandardAPIKeys = %v, want [pk_1 pk_2]", cfg.StandardAPIKeys)
	}
	if !reflect.DeepEqual(cfg.AdminAPIKeys, []string{"ak_1"}) {
		t.Fatalf("AdminAPIKeys = %v, want [ak_1]", cfg.AdminAPIKeys)
	}
	if !cfg.RealDataEnabled {
		t.Fatal("RealDataEnabled = false, want true")
	}
	if !cfg.HasStaticCredentials() {
		t.Fatal("HasStaticCredentials() = false, want true")
	}
}

func TestFromEnvInvalidBool(t *testing.T) {
	t.Setenv("ENABLE_REAL_DATA", "yes please")

	if cfg := FromEnv(); cfg.RealDataEnabled {
		t.Fatal("expected invalid boolean to disable real data")
	}
}

func TestSplitKeyList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace only", input: "  ,  , ", want: nil},
		{name: "single", input: "pk_abc", want: []string{"pk_abc"}},
		{name: "trims entries", input: " pk_a , pk_b ,, pk_c", want: []string{"pk_a", "pk_b", "pk_c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitKeyList(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitKeyList(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
