package mods

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
	"github.com/sdejongh/modnorris/pkg/resolver"
)

// InitOptions controls manifest creation
type InitOptions struct {
	// Force overwrites an existing manifest
	Force bool
	// AdoptExisting records every mod file already in the enabled directory
	AdoptExisting bool
}

// Init creates a new manifest seeded from the server configuration and
// returns it together with the number of adopted entries.
func Init(ctx context.Context, cfg *config.Config, opts InitOptions) (*models.ModManifest, int, error) {
	path := ManifestPath(cfg)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return nil, 0, models.NewManifestError(models.KindAlreadyExists,
			"mods manifest already exists; use --force to overwrite")
	}

	manifest := models.NewManifest(LoaderFromServerType(cfg.ServerType), cfg.MinecraftVersion)

	if err := EnsureDirectories(cfg, manifest); err != nil {
		return nil, 0, err
	}

	adopted := 0
	if opts.AdoptExisting {
		count, err := adoptExisting(ctx, cfg, manifest)
		if err != nil {
			return nil, 0, err
		}
		adopted = count
	}

	if err := Save(cfg, manifest); err != nil {
		return nil, 0, err
	}
	return manifest, adopted, nil
}

func adoptExisting(ctx context.Context, cfg *config.Config, manifest *models.ModManifest) (int, error) {
	dir := Dir(cfg, manifest)
	names, err := listModFiles(dir)
	if err != nil {
		return 0, err
	}

	adopted := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		sha, err := hashutil.SHA256File(ctx, path)
		if err != nil {
			return adopted, fmt.Errorf("failed to hash %s: %w", path, err)
		}
		entry := models.ModEntry{
			ID:          resolver.DeriveModID(name),
			Name:        stem(name),
			Side:        "server",
			Filename:    name,
			Enabled:     true,
			Loader:      manifest.Loader,
			MCVersion:   manifest.MinecraftVersion,
			InstalledAt: nowISO(),
			Source:      models.ModSource{Type: models.SourceLocal, Path: path},
			Hashes:      &models.ModHashes{SHA256: sha},
		}
		if err := manifest.Add(entry); err != nil {
			// Duplicate slug from an earlier file; skip it.
			continue
		}
		adopted++
	}
	return adopted, nil
}

// AddOptions controls how a mod is added to the manifest
type AddOptions struct {
	// Source is the raw user-supplied source string
	Source string
	// ModID overrides the derived manifest id
	ModID string
	// Name overrides the resolved human label
	Name string
	// Enabled marks the entry enabled or disabled at creation
	Enabled bool
	// SourceType forces the source type instead of inferring it
	SourceType models.SourceType
	// ManifestOnly records the entry without acquiring any file;
	// it requires FilenameOverride.
	ManifestOnly bool
	// FilenameOverride forces the destination filename
	FilenameOverride string

	LoaderHint    string
	MCVersionHint string
	VersionHint   string
	ProjectID     string
}

// Add resolves a source, verifies compatibility, records the entry and
// persists the manifest. When the manifest's loader or Minecraft version
// were unset, the first resolved mod populates them.
func Add(ctx context.Context, cfg *config.Config, manifest *models.ModManifest, registry *resolver.Registry, opts AddOptions) (*models.ModEntry, error) {
	if err := EnsureDirectories(cfg, manifest); err != nil {
		return nil, err
	}

	if opts.ManifestOnly && opts.FilenameOverride == "" {
		return nil, models.NewManifestError(models.KindInvalidInput,
			"--manifest-only requires --filename to be provided")
	}

	sourceType := opts.SourceType
	if sourceType == "" {
		sourceType = resolver.InferSourceType(opts.Source)
	}
	if !models.IsKnownSourceType(sourceType) {
		return nil, models.NewManifestError(models.KindUnsupported,
			fmt.Sprintf("unsupported source type '%s'", sourceType))
	}

	normalizedSource, inlineVersion := resolver.NormalizeSource(opts.Source, sourceType)
	versionHint := opts.VersionHint
	if versionHint == "" {
		versionHint = inlineVersion
	}

	// Lazily seed the manifest-wide loader and Minecraft version. This is
	// an observable mutation of the document, persisted with the entry.
	defaultLoader := manifest.Loader
	if defaultLoader == "" {
		defaultLoader = LoaderFromServerType(cfg.ServerType)
		manifest.Loader = defaultLoader
	}
	defaultMCVersion := manifest.MinecraftVersion
	if defaultMCVersion == "" {
		defaultMCVersion = cfg.MinecraftVersion
		manifest.MinecraftVersion = cfg.MinecraftVersion
	}

	preferredLoader := opts.LoaderHint
	if preferredLoader == "" {
		preferredLoader = defaultLoader
	}
	preferredMCVersion := opts.MCVersionHint
	if preferredMCVersion == "" {
		preferredMCVersion = defaultMCVersion
	}

	var (
		targetFilename string
		hashes         *models.ModHashes
		modSource      models.ModSource

		resolvedModID     string
		resolvedName      string
		resolvedVersion   string
		resolvedLoader    string
		resolvedMCVersion string
	)

	if opts.ManifestOnly {
		targetFilename = opts.FilenameOverride
		modSource = models.ModSource{Type: sourceType, Notes: "Manifest entry only"}
	} else {
		res, err := registry.Get(sourceType)
		if err != nil {
			return nil, err
		}

		resolved, err := res.Resolve(ctx, resolver.Request{
			UserAgent:          cfg.APIUserAgent,
			CurseForgeAPIKey:   cfg.CurseForgeAPIKey,
			RateLimit:          cfg.DownloadRateLimit,
			Source:             normalizedSource,
			ModsDirectory:      Dir(cfg, manifest),
			FilenameOverride:   opts.FilenameOverride,
			SuggestedModID:     opts.ModID,
			SuggestedName:      opts.Name,
			PreferredLoader:    preferredLoader,
			PreferredMCVersion: preferredMCVersion,
			VersionHint:        versionHint,
			ProjectID:          opts.ProjectID,
		})
		if err != nil {
			return nil, err
		}

		identifier := opts.ModID
		if identifier == "" {
			identifier = resolved.ModID
		}
		if identifier == "" {
			identifier = normalizedSource
		}
		resolvedVersions := resolved.MCVersions
		if len(resolvedVersions) == 0 && resolved.MCVersion != "" {
			resolvedVersions = []string{resolved.MCVersion}
		}
		if err := resolver.CheckCompatibility(identifier, resolved.Loader, resolvedVersions, preferredLoader, preferredMCVersion); err != nil {
			return nil, err
		}

		targetFilename = resolved.Filename
		hashes = resolved.Hashes
		modSource = resolved.Source
		resolvedModID = resolved.ModID
		resolvedName = resolved.Name
		resolvedVersion = resolved.Version
		resolvedLoader = resolved.Loader
		resolvedMCVersion = resolved.MCVersion
	}

	if targetFilename == "" {
		return nil, models.NewManifestError(models.KindInvalidInput,
			"unable to determine target filename for mod")
	}

	modID := opts.ModID
	if modID == "" {
		modID = resolvedModID
	}
	if modID == "" {
		modID = resolver.DeriveModID(targetFilename)
	}
	if manifest.Contains(modID) {
		return nil, models.NewManifestError(models.KindAlreadyExists,
			fmt.Sprintf("mod '%s' already exists in manifest", modID))
	}

	name := opts.Name
	if name == "" {
		name = resolvedName
	}
	if name == "" {
		name = resolver.HumanizeName(modID)
	}
	entryLoader := resolvedLoader
	if entryLoader == "" {
		entryLoader = preferredLoader
	}
	entryMCVersion := resolvedMCVersion
	if entryMCVersion == "" {
		entryMCVersion = preferredMCVersion
	}

	entry := models.ModEntry{
		ID:          modID,
		Name:        name,
		Side:        "server",
		Filename:    targetFilename,
		Enabled:     opts.Enabled,
		Loader:      entryLoader,
		MCVersion:   entryMCVersion,
		Version:     resolvedVersion,
		InstalledAt: nowISO(),
		Source:      modSource,
		Hashes:      hashes,
	}

	if err := manifest.Add(entry); err != nil {
		return nil, err
	}
	if err := Save(cfg, manifest); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetEnabled flips an entry's enabled flag, moving the backing file
// between the two directories unless moveFiles is false. A missing file is
// not an error; the next inventory will report it missing.
func SetEnabled(cfg *config.Config, manifest *models.ModManifest, modID string, enabled, moveFiles bool) (*models.ModEntry, error) {
	if err := EnsureDirectories(cfg, manifest); err != nil {
		return nil, err
	}

	entry, err := manifest.Find(modID)
	if err != nil {
		return nil, err
	}
	if entry.Enabled == enabled {
		return entry, nil
	}

	srcDir := Dir(cfg, manifest)
	dstDir := DisabledDir(cfg, manifest)
	if enabled {
		srcDir, dstDir = dstDir, srcDir
	}
	srcPath := filepath.Join(srcDir, entry.Filename)
	dstPath := filepath.Join(dstDir, entry.Filename)

	if moveFiles {
		if _, err := os.Stat(srcPath); err == nil {
			if err := os.MkdirAll(dstDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dstDir, err)
			}
			if err := os.Rename(srcPath, dstPath); err != nil {
				return nil, fmt.Errorf("failed to move %s: %w", srcPath, err)
			}
		}
	}

	entry.Enabled = enabled
	if err := Save(cfg, manifest); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes the entry from the manifest and, when removeFiles is set,
// deletes the backing file from whichever directories contain it.
func Remove(cfg *config.Config, manifest *models.ModManifest, modID string, removeFiles bool) (models.ModEntry, []string, error) {
	if err := EnsureDirectories(cfg, manifest); err != nil {
		return models.ModEntry{}, nil, err
	}

	entry, err := manifest.Find(modID)
	if err != nil {
		return models.ModEntry{}, nil, err
	}
	removed := *entry

	var deleted []string
	if removeFiles {
		candidates := []string{
			filepath.Join(Dir(cfg, manifest), removed.Filename),
			filepath.Join(DisabledDir(cfg, manifest), removed.Filename),
		}
		for _, path := range candidates {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := os.Remove(path); err != nil {
				return models.ModEntry{}, deleted, fmt.Errorf("failed to delete %s: %w", path, err)
			}
			deleted = append(deleted, path)
		}
	}

	if err := manifest.Remove(modID); err != nil {
		return models.ModEntry{}, deleted, err
	}
	if err := Save(cfg, manifest); err != nil {
		return models.ModEntry{}, deleted, err
	}
	return removed, deleted, nil
}

// Purge removes every entry via Remove, accumulating counts and deleted
// paths. The first failing removal aborts the purge; counts reflect what
// completed before the failure.
func Purge(cfg *config.Config, manifest *models.ModManifest, removeFiles bool) (int, []string, error) {
	if err := EnsureDirectories(cfg, manifest); err != nil {
		return 0, nil, err
	}

	ids := make([]string, 0, len(manifest.Mods))
	for _, entry := range manifest.Mods {
		ids = append(ids, entry.ID)
	}

	removedCount := 0
	var deleted []string
	for _, id := range ids {
		_, paths, err := Remove(cfg, manifest, id, removeFiles)
		deleted = append(deleted, paths...)
		if err != nil {
			return removedCount, deleted, err
		}
		removedCount++
	}
	return removedCount, deleted, nil
}

// LoaderFromServerType maps the configured server type onto a loader
// identifier. Paper-family servers all report the paper loader.
func LoaderFromServerType(serverType string) string {
	key := strings.ToLower(strings.TrimSpace(serverType))
	switch key {
	case "fabric", "quilt", "forge", "neoforge", "vanilla":
		return key
	case "paper", "purpur", "spigot":
		return "paper"
	}
	return key
}

func stem(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
