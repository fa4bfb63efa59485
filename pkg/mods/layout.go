package mods

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/modnorris/internal/platform"
	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/models"
)

// DisabledDirSuffix is appended to the mods directory name to form the
// disabled-files directory.
const DisabledDirSuffix = "-disabled"

// Dir returns the enabled-files directory for the manifest
func Dir(cfg *config.Config, manifest *models.ModManifest) string {
	return filepath.Join(cfg.DataDir, modsDirName(manifest))
}

// DisabledDir returns the disabled-files directory for the manifest
func DisabledDir(cfg *config.Config, manifest *models.ModManifest) string {
	return filepath.Join(cfg.DataDir, modsDirName(manifest)+DisabledDirSuffix)
}

func modsDirName(manifest *models.ModManifest) string {
	if manifest != nil && manifest.ModsDir != "" {
		return manifest.ModsDir
	}
	return models.DefaultModsDir
}

// EnsureDirectories creates both managed directories if missing
func EnsureDirectories(cfg *config.Config, manifest *models.ModManifest) error {
	for _, dir := range []string{Dir(cfg, manifest), DisabledDir(cfg, manifest)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// listModFiles returns the mod files in dir in lexical order. Only regular
// files with a .jar or .zip extension qualify; the scan is flat.
func listModFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !platform.IsModFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
