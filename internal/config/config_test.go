package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/craftsync/internal/config"
	"github.com/JaimeStill/craftsync/internal/images"
	"github.com/JaimeStill/craftsync/internal/metadata"
	"github.com/JaimeStill/craftsync/internal/posts"
)

const baseTOML = `
[craft]
base_url = "https://craft.example.com/api"
token = "craft-token"

[sanity]
project_id = "abc123"
token = "sanity-token"

[markers]
seo_title = "Meta Title:"

[schema.post.fields]
seoTitle = "seo.metaTitle"
tags = "-"

[journal]
enabled = true

[journal.database]
name = "craftsync"
user = "sync"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func minimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvCraftBaseURL, "https://craft.example.com")
	t.Setenv(config.EnvSanityProjectID, "abc123")
	t.Setenv(config.EnvSanityToken, "token")
}

func TestLoad_MissingBaseFile(t *testing.T) {
	minimalEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.toml"), "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Sanity.Dataset != "production" || cfg.Sanity.APIVersion != "2021-06-07" {
		t.Errorf("sanity defaults = %+v", cfg.Sanity)
	}
	if cfg.Craft.TimeoutDuration() != 30*time.Second {
		t.Errorf("craft timeout = %v, want 30s", cfg.Craft.TimeoutDuration())
	}
	if cfg.Images.MaxSizeBytes() != 20_000_000 {
		t.Errorf("images max size = %d, want 20MB", cfg.Images.MaxSizeBytes())
	}
	if cfg.Images.Uploader().MaxPixels != images.DefaultMaxPixels {
		t.Errorf("images max pixels = %d, want %d", cfg.Images.Uploader().MaxPixels, images.DefaultMaxPixels)
	}
	if cfg.Matching.ThresholdValue() != 2 {
		t.Errorf("threshold = %d, want 2", cfg.Matching.ThresholdValue())
	}
	if cfg.Defaults.Slug != "untitled-post" || cfg.Defaults.Author != "Unknown Author" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if len(cfg.Defaults.Categories) != 1 || cfg.Defaults.Categories[0] != "Uncategorized" {
		t.Errorf("default categories = %v", cfg.Defaults.Categories)
	}
	if cfg.Journal.Enabled || cfg.Snapshots.Enabled {
		t.Error("optional features enabled by default")
	}
	if cfg.Snapshots.Storage.BasePath == "" {
		t.Error("snapshots base path not defaulted")
	}

	markers := cfg.Markers.Markers()
	for k, v := range metadata.DefaultMarkers() {
		if markers[k] != v {
			t.Errorf("marker %s = %q, want %q", k, markers[k], v)
		}
	}
}

func TestLoad_FileAndOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", baseTOML)
	writeFile(t, dir, "config.staging.toml", `
[sanity]
dataset = "staging"

[matching]
threshold = -1

[journal]
enabled = true

[journal.database]
host = "db.internal"
`)

	cfg, err := config.Load(path, "staging")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Sanity.Dataset != "staging" || cfg.Sanity.ProjectID != "abc123" {
		t.Errorf("sanity = %+v", cfg.Sanity)
	}
	if cfg.Matching.ThresholdValue() != -1 {
		t.Errorf("threshold = %d, want -1", cfg.Matching.ThresholdValue())
	}
	if cfg.Markers["seo_title"] != "Meta Title:" || cfg.Markers["title"] != "Title:" {
		t.Errorf("markers = %v", cfg.Markers)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Database.Host != "db.internal" || cfg.Journal.Database.Name != "craftsync" {
		t.Errorf("journal = %+v", cfg.Journal)
	}

	schema := cfg.Schema.Post.Upsert()
	if p, _ := schema.Path(posts.FieldSEOTitle); p != "seo.metaTitle" {
		t.Errorf("seoTitle path = %q", p)
	}
	if _, ok := schema.Path(posts.FieldTags); ok {
		t.Error("tags should be omitted")
	}
	if p, _ := schema.Path(posts.FieldBody); p != "body" {
		t.Errorf("body path = %q, want default", p)
	}
}

func TestLoad_OverlayFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", baseTOML)
	writeFile(t, dir, "config.dev.toml", "[sanity]\ndataset = \"dev\"\n")
	t.Setenv(config.EnvCraftsyncEnv, "dev")

	cfg, err := config.Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Sanity.Dataset != "dev" {
		t.Errorf("dataset = %q, want dev", cfg.Sanity.Dataset)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[craft\nbase_url =")
	if _, err := config.Load(path, ""); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	minimalEnv(t)
	t.Setenv(config.EnvSanityDataset, "blog")
	t.Setenv(config.EnvImagesMaxSize, "5MB")
	t.Setenv(config.EnvImagesMaxWidth, "1200")
	t.Setenv(config.EnvImagesMaxPixels, "1000000")
	t.Setenv(config.EnvMatchingThreshold, "3")
	t.Setenv(config.EnvSnapshotsEnabled, "true")
	t.Setenv("SNAPSHOTS_BASE_PATH", "/tmp/snaps")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Sanity.Dataset != "blog" {
		t.Errorf("dataset = %q", cfg.Sanity.Dataset)
	}
	if cfg.Images.MaxSizeBytes() != 5_000_000 || cfg.Images.MaxWidth != 1200 || cfg.Images.MaxPixels != 1_000_000 {
		t.Errorf("images = %+v", cfg.Images)
	}
	if cfg.Matching.ThresholdValue() != 3 {
		t.Errorf("threshold = %d", cfg.Matching.ThresholdValue())
	}
	if !cfg.Snapshots.Enabled || cfg.Snapshots.Storage.BasePath != "/tmp/snaps" {
		t.Errorf("snapshots = %+v", cfg.Snapshots)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestFinalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"bad timeout", "[craft]\ntimeout = \"soon\"", "craft: invalid timeout"},
		{"bad size", "[images]\nmax_size = \"lots\"", "images: invalid max_size"},
		{"negative pixel limit", "[images]\nmax_pixels = -1", "images: max_pixels must be positive"},
		{"unknown marker", "[markers]\nsubtitle = \"Sub:\"", `markers: unknown metadata key "subtitle"`},
		{"unknown post field", "[schema.post.fields]\nbyline = \"byline\"", `schema: post: unknown field "byline"`},
		{"bad post path", "[schema.post.fields]\nexcerpt = \"seo..x\"", "schema: post.fields.excerpt: invalid path"},
		{"omitted slug", "[schema.post.fields]\nslug = \"-\"", "schema: post: slug field cannot be omitted"},
		{"bad author type", "[schema.author]\ntype = \"a b\"", "schema: author: invalid type"},
		{"bad default slug", "[defaults]\nslug = \"Not A Slug\"", "defaults: slug"},
		{"journal without database", "[journal]\nenabled = true", "journal: name required"},
		{"bad log level", "[logging]\nlevel = \"loud\"", "logging:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minimalEnv(t)
			path := writeFile(t, t.TempDir(), "config.toml", tt.toml)

			cfg, err := config.Load(path, "")
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			err = cfg.Finalize()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Finalize() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFinalize_RequiresCredentials(t *testing.T) {
	t.Setenv(config.EnvCraftBaseURL, "https://craft.example.com")

	cfg := &config.Config{}
	err := cfg.Finalize()
	if err == nil || !strings.Contains(err.Error(), "sanity: project_id required") {
		t.Errorf("Finalize() error = %v", err)
	}
}
