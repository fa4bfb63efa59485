package mods

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/modnorris/pkg/models"
	"github.com/sdejongh/modnorris/pkg/resolver"
)

func TestInit(t *testing.T) {
	cfg := testConfig(t)

	manifest, adopted, err := Init(context.Background(), cfg, InitOptions{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if adopted != 0 {
		t.Errorf("adopted = %d, want 0", adopted)
	}
	if manifest.Loader != "fabric" {
		t.Errorf("Loader = %s, want fabric (from server type FABRIC)", manifest.Loader)
	}
	if manifest.MinecraftVersion != "1.21.1" {
		t.Errorf("MinecraftVersion = %s, want 1.21.1", manifest.MinecraftVersion)
	}

	if _, err := os.Stat(ManifestPath(cfg)); err != nil {
		t.Errorf("manifest file missing: %v", err)
	}
	if _, err := os.Stat(Dir(cfg, manifest)); err != nil {
		t.Errorf("mods directory missing: %v", err)
	}
	if _, err := os.Stat(DisabledDir(cfg, manifest)); err != nil {
		t.Errorf("disabled directory missing: %v", err)
	}

	// A second init without force must refuse.
	_, _, err = Init(context.Background(), cfg, InitOptions{})
	if !models.IsKind(err, models.KindAlreadyExists) {
		t.Errorf("second Init() error = %v, want kind %s", err, models.KindAlreadyExists)
	}

	// With force it overwrites.
	if _, _, err := Init(context.Background(), cfg, InitOptions{Force: true}); err != nil {
		t.Errorf("forced Init() error = %v", err)
	}
}

func TestInitAdoptExisting(t *testing.T) {
	cfg := testConfig(t)
	modsDir := filepath.Join(cfg.DataDir, "mods")
	writeMod(t, modsDir, "sodium.jar", "sodium bytes")
	writeMod(t, modsDir, "lithium.jar", "lithium bytes")
	writeMod(t, modsDir, "notes.txt", "ignored")

	manifest, adopted, err := Init(context.Background(), cfg, InitOptions{AdoptExisting: true})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if adopted != 2 {
		t.Errorf("adopted = %d, want 2", adopted)
	}
	for _, id := range []string{"sodium", "lithium"} {
		entry, err := manifest.Find(id)
		if err != nil {
			t.Errorf("adopted entry %s missing: %v", id, err)
			continue
		}
		if !entry.Enabled {
			t.Errorf("adopted entry %s should be enabled", id)
		}
		if entry.Hashes == nil || entry.Hashes.SHA256 == "" {
			t.Errorf("adopted entry %s should record a sha256", id)
		}
		if entry.Source.Type != models.SourceLocal {
			t.Errorf("adopted entry %s source type = %s, want %s", id, entry.Source.Type, models.SourceLocal)
		}
	}

	// Adoption result must be on disk, not just in memory.
	loaded, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Mods) != 2 {
		t.Errorf("persisted Mods length = %d, want 2", len(loaded.Mods))
	}
}

func TestAddManifestOnly(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	entry, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{
		Source:           "some-mod",
		SourceType:       models.SourceCustom,
		ManifestOnly:     true,
		FilenameOverride: "some-mod.jar",
		Enabled:          true,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if entry.ID != "some-mod" {
		t.Errorf("ID = %s, want some-mod", entry.ID)
	}
	if entry.Name != "Some Mod" {
		t.Errorf("Name = %s, want Some Mod", entry.Name)
	}
	if entry.Hashes != nil {
		t.Errorf("Hashes = %+v, want nil for a manifest-only entry", entry.Hashes)
	}
	if entry.Source.Notes == "" {
		t.Error("manifest-only entries should carry a provenance note")
	}

	// No file may have been created.
	if _, err := os.Stat(filepath.Join(Dir(cfg, manifest), "some-mod.jar")); err == nil {
		t.Error("manifest-only add should not create a file")
	}
}

func TestAddManifestOnlyRequiresFilename(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	_, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{
		Source:       "some-mod",
		SourceType:   models.SourceCustom,
		ManifestOnly: true,
	})
	if !models.IsKind(err, models.KindInvalidInput) {
		t.Errorf("Add() error = %v, want kind %s", err, models.KindInvalidInput)
	}
}

func TestAddLocalFile(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcPath := writeMod(t, t.TempDir(), "Sodium-Extra.jar", "extra bytes")

	entry, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{
		Source:  srcPath,
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if entry.ID != "sodium-extra" {
		t.Errorf("ID = %s, want sodium-extra", entry.ID)
	}
	if entry.Side != "server" {
		t.Errorf("Side = %s, want server", entry.Side)
	}
	if entry.Loader != "fabric" {
		t.Errorf("Loader = %s, want fabric", entry.Loader)
	}
	if entry.MCVersion != "1.21.1" {
		t.Errorf("MCVersion = %s, want 1.21.1", entry.MCVersion)
	}
	if entry.InstalledAt == "" {
		t.Error("InstalledAt should be set")
	}
	if _, err := os.Stat(filepath.Join(Dir(cfg, manifest), "Sodium-Extra.jar")); err != nil {
		t.Errorf("copied mod file missing: %v", err)
	}

	// The entry must equal what a fresh load sees.
	loaded, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	persisted, err := loaded.Find("sodium-extra")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if persisted.Filename != entry.Filename || persisted.Enabled != entry.Enabled {
		t.Errorf("persisted entry = %+v, want %+v", persisted, entry)
	}
}

func TestAddDuplicateID(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcDir := t.TempDir()

	first := writeMod(t, srcDir, "dup.jar", "first")
	if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: first, Enabled: true}); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	second := writeMod(t, srcDir, "other.jar", "second")
	_, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{
		Source:  second,
		ModID:   "dup",
		Enabled: true,
	})
	if !models.IsKind(err, models.KindAlreadyExists) {
		t.Errorf("Add() error = %v, want kind %s", err, models.KindAlreadyExists)
	}
}

func TestAddSeedsManifestDefaults(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("", "")
	srcPath := writeMod(t, t.TempDir(), "seed.jar", "seed")

	if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: srcPath, Enabled: true}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if manifest.Loader != "fabric" {
		t.Errorf("manifest.Loader = %s, want fabric seeded from config", manifest.Loader)
	}
	if manifest.MinecraftVersion != "1.21.1" {
		t.Errorf("manifest.MinecraftVersion = %s, want 1.21.1 seeded from config", manifest.MinecraftVersion)
	}
}

func TestAddUnknownSourceType(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	_, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{
		Source:     "mod",
		SourceType: "bazaar",
	})
	if !models.IsKind(err, models.KindUnsupported) {
		t.Errorf("Add() error = %v, want kind %s", err, models.KindUnsupported)
	}
}

func TestSetEnabled(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcPath := writeMod(t, t.TempDir(), "toggle.jar", "toggle")

	if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: srcPath, Enabled: true}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	enabledPath := filepath.Join(Dir(cfg, manifest), "toggle.jar")
	disabledPath := filepath.Join(DisabledDir(cfg, manifest), "toggle.jar")

	entry, err := SetEnabled(cfg, manifest, "toggle", false, true)
	if err != nil {
		t.Fatalf("SetEnabled(false) error = %v", err)
	}
	if entry.Enabled {
		t.Error("entry should be disabled")
	}
	if _, err := os.Stat(disabledPath); err != nil {
		t.Errorf("file should be in the disabled directory: %v", err)
	}
	if _, err := os.Stat(enabledPath); err == nil {
		t.Error("file should no longer be in the mods directory")
	}

	// Disabling again is a no-op, not an error.
	if _, err := SetEnabled(cfg, manifest, "toggle", false, true); err != nil {
		t.Errorf("repeated SetEnabled(false) error = %v", err)
	}

	if _, err := SetEnabled(cfg, manifest, "toggle", true, true); err != nil {
		t.Fatalf("SetEnabled(true) error = %v", err)
	}
	if _, err := os.Stat(enabledPath); err != nil {
		t.Errorf("file should be back in the mods directory: %v", err)
	}

	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}
	if state := inv.Entries[0].State(); state != models.StateOK {
		t.Errorf("state after round trip = %s, want %s", state, models.StateOK)
	}

	if _, err := SetEnabled(cfg, manifest, "absent", true, true); !models.IsKind(err, models.KindNotFound) {
		t.Errorf("SetEnabled(absent) error = %v, want kind %s", err, models.KindNotFound)
	}
}

func TestSetEnabledNoMove(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcPath := writeMod(t, t.TempDir(), "flagonly.jar", "flag")

	if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: srcPath, Enabled: true}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if _, err := SetEnabled(cfg, manifest, "flagonly", false, false); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	// The flag flipped but the file stayed; inventory reports drift.
	if _, err := os.Stat(filepath.Join(Dir(cfg, manifest), "flagonly.jar")); err != nil {
		t.Errorf("file should remain in the mods directory: %v", err)
	}
	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}
	if state := inv.Entries[0].State(); state != models.StateMoved {
		t.Errorf("state = %s, want %s", state, models.StateMoved)
	}
}

func TestSetEnabledMissingFile(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	manifest.Add(models.ModEntry{ID: "ghost", Filename: "ghost.jar", Enabled: true})

	// Missing backing file is tolerated; only the flag changes.
	entry, err := SetEnabled(cfg, manifest, "ghost", false, true)
	if err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	if entry.Enabled {
		t.Error("entry should be disabled despite the missing file")
	}
}

func TestRemove(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcPath := writeMod(t, t.TempDir(), "gone.jar", "bye")

	if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: srcPath, Enabled: true}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	removed, deleted, err := Remove(cfg, manifest, "gone", true)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed.ID != "gone" {
		t.Errorf("removed.ID = %s, want gone", removed.ID)
	}
	if len(deleted) != 1 {
		t.Errorf("deleted = %v, want one path", deleted)
	}
	if manifest.Contains("gone") {
		t.Error("entry should be gone from the manifest")
	}
	if _, err := os.Stat(filepath.Join(Dir(cfg, manifest), "gone.jar")); err == nil {
		t.Error("mod file should be deleted")
	}

	if _, _, err := Remove(cfg, manifest, "gone", true); !models.IsKind(err, models.KindNotFound) {
		t.Errorf("second Remove() error = %v, want kind %s", err, models.KindNotFound)
	}
}

func TestRemoveKeepFiles(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcPath := writeMod(t, t.TempDir(), "keep.jar", "keep")

	if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: srcPath, Enabled: true}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	_, deleted, err := Remove(cfg, manifest, "keep", false)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("deleted = %v, want none", deleted)
	}
	if _, err := os.Stat(filepath.Join(Dir(cfg, manifest), "keep.jar")); err != nil {
		t.Errorf("mod file should remain: %v", err)
	}
}

func TestPurge(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")
	srcDir := t.TempDir()

	for _, name := range []string{"one.jar", "two.jar", "three.jar"} {
		path := writeMod(t, srcDir, name, name)
		if _, err := Add(context.Background(), cfg, manifest, resolver.NewRegistry(), AddOptions{Source: path, Enabled: true}); err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}
	// One of them disabled, to prove both directories are covered.
	if _, err := SetEnabled(cfg, manifest, "two", false, true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	count, deleted, err := Purge(cfg, manifest, true)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if len(deleted) != 3 {
		t.Errorf("deleted = %v, want 3 paths", deleted)
	}
	if len(manifest.Mods) != 0 {
		t.Errorf("Mods length = %d, want 0", len(manifest.Mods))
	}

	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}
	if len(inv.Extras) != 0 {
		t.Errorf("Extras = %+v, want none after purge", inv.Extras)
	}
}

func TestLoaderFromServerType(t *testing.T) {
	tests := []struct {
		serverType string
		want       string
	}{
		{"FABRIC", "fabric"},
		{"fabric", "fabric"},
		{"QUILT", "quilt"},
		{"FORGE", "forge"},
		{"NEOFORGE", "neoforge"},
		{"VANILLA", "vanilla"},
		{"PAPER", "paper"},
		{"PURPUR", "paper"},
		{"SPIGOT", "paper"},
		{"  fabric  ", "fabric"},
		{"custom-thing", "custom-thing"},
	}
	for _, tt := range tests {
		if got := LoaderFromServerType(tt.serverType); got != tt.want {
			t.Errorf("LoaderFromServerType(%q) = %q, want %q", tt.serverType, got, tt.want)
		}
	}
}
