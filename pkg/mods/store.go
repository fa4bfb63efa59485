// Package mods manages the declarative mod manifest and reconciles it
// against the enabled and disabled mod directories on disk.
package mods

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/models"
)

// ManifestFilename is the fixed manifest file name inside the mods directory
const ManifestFilename = ".mscmods.json"

// ManifestPath returns the manifest file location for the server
func ManifestPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, models.DefaultModsDir, ManifestFilename)
}

// Load reads and validates the manifest. A missing file and an unsupported
// schema version are both hard errors; external corruption surfaces as a
// parse error, never as a silently empty manifest.
func Load(cfg *config.Config) (*models.ModManifest, error) {
	path := ManifestPath(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewManifestError(models.KindNotFound,
				"mods manifest not found; run 'modnorris mods init' first")
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest := &models.ModManifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, models.WrapManifestError(models.KindUnsupported,
			fmt.Sprintf("failed to parse manifest %s", path), err)
	}

	if manifest.SchemaVersion != models.SupportedSchemaVersion {
		return nil, models.NewManifestError(models.KindUnsupported,
			fmt.Sprintf("unsupported manifest schema version %d", manifest.SchemaVersion))
	}

	if manifest.ModsDir == "" {
		manifest.ModsDir = models.DefaultModsDir
	}
	if manifest.Mods == nil {
		manifest.Mods = []models.ModEntry{}
	}

	return manifest, nil
}

// Save persists the manifest. The document is written to a temporary
// sibling and renamed into place so a partial write never replaces a
// previously valid manifest.
func Save(cfg *config.Config, manifest *models.ModManifest) error {
	path := ManifestPath(cfg)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize manifest: %w", err)
	}

	return nil
}
