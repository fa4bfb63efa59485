package models

// SupportedSchemaVersion is the only manifest schema version this build
// can read or write. Forward and backward migration is out of scope.
const SupportedSchemaVersion = 1

// DefaultModsDir is the enabled-files directory name relative to the
// server data directory.
const DefaultModsDir = "mods"

// SourceType identifies where a mod artifact came from
type SourceType string

const (
	// SourceLocal is a file copied from the local filesystem
	SourceLocal SourceType = "local"
	// SourceURL is a file downloaded from a bare URL
	SourceURL SourceType = "url"
	// SourceModrinth is a file resolved through the Modrinth registry
	SourceModrinth SourceType = "modrinth"
	// SourceCurseForge is a file resolved through the CurseForge registry
	SourceCurseForge SourceType = "curseforge"
	// SourceCustom is a source with no built-in resolver
	SourceCustom SourceType = "custom"
)

// KnownSourceTypes lists every source type the manifest accepts
func KnownSourceTypes() []SourceType {
	return []SourceType{SourceLocal, SourceURL, SourceModrinth, SourceCurseForge, SourceCustom}
}

// IsKnownSourceType reports whether t is a source type the manifest accepts
func IsKnownSourceType(t SourceType) bool {
	for _, known := range KnownSourceTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ModHashes holds named content digests captured at install time
type ModHashes struct {
	SHA256 string `json:"sha256,omitempty"`
	SHA512 string `json:"sha512,omitempty"`
	SHA1   string `json:"sha1,omitempty"`
	MD5    string `json:"md5,omitempty"`
}

// ModSource is the provenance record of a mod entry.
// Immutable once written; never used to re-resolve automatically.
type ModSource struct {
	Type        SourceType `json:"type"`
	Path        string     `json:"path,omitempty"`
	URL         string     `json:"url,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"`
	VersionID   string     `json:"versionId,omitempty"`
	Slug        string     `json:"slug,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// ModEntry is one tracked mod package.
// ID is the unique key within the manifest and is immutable after creation.
type ModEntry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Side        string     `json:"side,omitempty"`
	Enabled     bool       `json:"enabled"`
	Filename    string     `json:"filename"`
	Source      ModSource  `json:"source"`
	Version     string     `json:"version,omitempty"`
	MCVersion   string     `json:"mcVersion,omitempty"`
	Loader      string     `json:"loader,omitempty"`
	InstalledAt string     `json:"installedAt,omitempty"`
	Hashes      *ModHashes `json:"hashes,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// ModManifest is the persisted root document describing desired mod state.
// The manifest file is the single source of truth; the filesystem is
// observed state.
type ModManifest struct {
	SchemaVersion    int        `json:"schemaVersion"`
	Loader           string     `json:"loader,omitempty"`
	MinecraftVersion string     `json:"minecraftVersion,omitempty"`
	ModsDir          string     `json:"modsDir"`
	Mods             []ModEntry `json:"mods"`
}

// NewManifest creates an empty manifest at the supported schema version
func NewManifest(loader, minecraftVersion string) *ModManifest {
	return &ModManifest{
		SchemaVersion:    SupportedSchemaVersion,
		Loader:           loader,
		MinecraftVersion: minecraftVersion,
		ModsDir:          DefaultModsDir,
		Mods:             []ModEntry{},
	}
}

// Find returns the entry with the given id
func (m *ModManifest) Find(modID string) (*ModEntry, error) {
	for i := range m.Mods {
		if m.Mods[i].ID == modID {
			return &m.Mods[i], nil
		}
	}
	return nil, NewManifestError(KindNotFound, "mod '"+modID+"' not found in manifest")
}

// Contains reports whether an entry with the given id exists
func (m *ModManifest) Contains(modID string) bool {
	for i := range m.Mods {
		if m.Mods[i].ID == modID {
			return true
		}
	}
	return false
}

// Add appends a new entry, enforcing id uniqueness
func (m *ModManifest) Add(entry ModEntry) error {
	if m.Contains(entry.ID) {
		return NewManifestError(KindAlreadyExists, "mod '"+entry.ID+"' already exists in manifest")
	}
	m.Mods = append(m.Mods, entry)
	return nil
}

// Remove deletes the entry with the given id
func (m *ModManifest) Remove(modID string) error {
	for i := range m.Mods {
		if m.Mods[i].ID == modID {
			m.Mods = append(m.Mods[:i], m.Mods[i+1:]...)
			return nil
		}
	}
	return NewManifestError(KindNotFound, "mod '"+modID+"' not found in manifest")
}
