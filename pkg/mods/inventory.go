package mods

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
)

// Inventory diffs the manifest against the observed contents of both
// managed directories. It is read-only: neither the manifest nor the
// filesystem is mutated.
func Inventory(ctx context.Context, cfg *config.Config, manifest *models.ModManifest) (*models.Inventory, error) {
	if err := EnsureDirectories(cfg, manifest); err != nil {
		return nil, err
	}

	files, order, err := scanFiles(ctx, cfg, manifest)
	if err != nil {
		return nil, err
	}

	remaining := make(map[string]models.ModFile, len(files))
	for name, file := range files {
		remaining[name] = file
	}

	statuses := make([]models.EntryStatus, 0, len(manifest.Mods))
	for _, entry := range manifest.Mods {
		file, present := remaining[entry.Filename]
		if present {
			delete(remaining, entry.Filename)
		}

		status := models.EntryStatus{
			Entry:   entry,
			Present: present,
		}
		if present {
			status.Location = file.Location
			if entry.Hashes != nil && entry.Hashes.SHA256 != "" {
				match := file.SHA256 == entry.Hashes.SHA256
				status.HashOK = &match
			}
		}
		statuses = append(statuses, status)
	}

	// Extras keep scan order so reports are stable across runs.
	extras := make([]models.ModFile, 0, len(remaining))
	for _, name := range order {
		if file, ok := remaining[name]; ok {
			extras = append(extras, file)
			delete(remaining, name)
		}
	}

	return &models.Inventory{Entries: statuses, Extras: extras}, nil
}

// scanFiles maps filename to observed file for both directories. The
// enabled directory is scanned first and the disabled directory second, so
// a filename present in both reports as disabled. Swapping this order
// changes drift classification for duplicate filenames; keep it.
func scanFiles(ctx context.Context, cfg *config.Config, manifest *models.ModManifest) (map[string]models.ModFile, []string, error) {
	files := make(map[string]models.ModFile)
	var order []string

	scan := func(dir string, location models.FileLocation) error {
		names, err := listModFiles(dir)
		if err != nil {
			return err
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			sha, err := hashutil.SHA256File(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", path, err)
			}
			if _, seen := files[name]; !seen {
				order = append(order, name)
			}
			files[name] = models.ModFile{
				Filename: name,
				Path:     path,
				Location: location,
				SHA256:   sha,
			}
		}
		return nil
	}

	if err := scan(Dir(cfg, manifest), models.LocationMods); err != nil {
		return nil, nil, err
	}
	if err := scan(DisabledDir(cfg, manifest), models.LocationDisabled); err != nil {
		return nil, nil, err
	}

	return files, order, nil
}
