package mods

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		ServerRoot:       root,
		DataDir:          filepath.Join(root, "data"),
		ServerType:       "FABRIC",
		MinecraftVersion: "1.21.1",
		APIUserAgent:     "modnorris-test",
	}
}

func TestLoadMissingManifest(t *testing.T) {
	cfg := testConfig(t)

	_, err := Load(cfg)
	if !models.IsKind(err, models.KindNotFound) {
		t.Fatalf("Load() error = %v, want kind %s", err, models.KindNotFound)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testConfig(t)

	manifest := models.NewManifest("fabric", "1.21.1")
	manifest.Add(models.ModEntry{
		ID:       "sodium",
		Name:     "Sodium",
		Filename: "sodium.jar",
		Enabled:  true,
		Source:   models.ModSource{Type: models.SourceModrinth, Slug: "sodium"},
		Hashes:   &models.ModHashes{SHA256: "abc"},
	})

	if err := Save(cfg, manifest); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SchemaVersion != models.SupportedSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", loaded.SchemaVersion, models.SupportedSchemaVersion)
	}
	if loaded.Loader != "fabric" || loaded.MinecraftVersion != "1.21.1" {
		t.Errorf("loader/mc = %s/%s, want fabric/1.21.1", loaded.Loader, loaded.MinecraftVersion)
	}
	if len(loaded.Mods) != 1 {
		t.Fatalf("Mods length = %d, want 1", len(loaded.Mods))
	}
	entry := loaded.Mods[0]
	if entry.ID != "sodium" || entry.Filename != "sodium.jar" || !entry.Enabled {
		t.Errorf("entry = %+v, round trip mismatch", entry)
	}
	if entry.Hashes == nil || entry.Hashes.SHA256 != "abc" {
		t.Errorf("Hashes = %+v, want sha256 abc", entry.Hashes)
	}

	// No temporary file may survive a completed save.
	if _, err := os.Stat(ManifestPath(cfg) + ".tmp"); err == nil {
		t.Error("temporary manifest file should not remain after Save")
	}
}

func TestLoadUnsupportedSchema(t *testing.T) {
	cfg := testConfig(t)
	path := ManifestPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"schemaVersion": 2, "mods": []}`), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	_, err := Load(cfg)
	if !models.IsKind(err, models.KindUnsupported) {
		t.Fatalf("Load() error = %v, want kind %s", err, models.KindUnsupported)
	}
}

func TestLoadCorruptManifest(t *testing.T) {
	cfg := testConfig(t)
	path := ManifestPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	_, err := Load(cfg)
	if !models.IsKind(err, models.KindUnsupported) {
		t.Fatalf("Load() error = %v, want kind %s", err, models.KindUnsupported)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	cfg := testConfig(t)
	path := ManifestPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"schemaVersion": 1}`), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	manifest, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if manifest.ModsDir != models.DefaultModsDir {
		t.Errorf("ModsDir = %s, want %s", manifest.ModsDir, models.DefaultModsDir)
	}
	if manifest.Mods == nil {
		t.Error("Mods should be initialized when absent from the document")
	}
}

func TestManifestPathIsFixed(t *testing.T) {
	cfg := testConfig(t)
	want := filepath.Join(cfg.DataDir, "mods", ManifestFilename)
	if got := ManifestPath(cfg); got != want {
		t.Errorf("ManifestPath() = %s, want %s", got, want)
	}
}
