// Package resolver turns user-supplied source strings into mod artifacts
// on disk plus resolved metadata. Each source type (local copy, bare URL,
// Modrinth, CurseForge) is served by its own Resolver implementation
// registered under a source-type key.
package resolver

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sdejongh/modnorris/internal/platform"
	"github.com/sdejongh/modnorris/pkg/models"
)

// Request bundles everything a resolver needs for one acquisition
type Request struct {
	// UserAgent is sent on every HTTP request
	UserAgent string
	// CurseForgeAPIKey authenticates against the CurseForge API
	CurseForgeAPIKey string
	// RateLimit caps download throughput in bytes per second; zero disables it
	RateLimit int64

	// Source is the normalized source string (prefix and inline version stripped)
	Source string
	// ModsDirectory is where the resolved artifact must land
	ModsDirectory string

	FilenameOverride string
	SuggestedModID   string
	SuggestedName    string

	PreferredLoader    string
	PreferredMCVersion string
	VersionHint        string
	ProjectID          string
}

// Resolved is the outcome of a successful resolution
type Resolved struct {
	Filename string
	Source   models.ModSource
	Hashes   *models.ModHashes

	ModID     string
	Name      string
	Version   string
	Loader    string
	MCVersion string
	// MCVersions is the full list of game versions the artifact supports,
	// when the registry exposes one.
	MCVersions []string
}

// Resolver acquires an artifact for one source type
type Resolver interface {
	Resolve(ctx context.Context, req Request) (*Resolved, error)
}

// Registry is an open mapping from source type to resolver instance,
// populated at process start.
type Registry struct {
	resolvers map[models.SourceType]Resolver
}

// NewRegistry creates a registry with the four built-in resolvers
func NewRegistry() *Registry {
	r := &Registry{resolvers: make(map[models.SourceType]Resolver)}
	r.Register(models.SourceLocal, &LocalResolver{})
	r.Register(models.SourceURL, &URLResolver{})
	r.Register(models.SourceModrinth, NewModrinthResolver())
	r.Register(models.SourceCurseForge, NewCurseForgeResolver())
	return r
}

// Register binds a resolver to a source type, replacing any previous binding
func (r *Registry) Register(sourceType models.SourceType, resolver Resolver) {
	r.resolvers[sourceType] = resolver
}

// Get returns the resolver registered for the given source type
func (r *Registry) Get(sourceType models.SourceType) (Resolver, error) {
	resolver, ok := r.resolvers[sourceType]
	if !ok {
		return nil, models.NewManifestError(models.KindUnsupported,
			fmt.Sprintf("source type '%s' is not yet supported", sourceType))
	}
	return resolver, nil
}

// InferSourceType guesses the source type from the raw source string.
// Registry prefixes win, then URL schemes, then an existing local path;
// everything else is custom.
func InferSourceType(source string) models.SourceType {
	lowered := strings.ToLower(source)
	if strings.HasPrefix(lowered, "modrinth:") || strings.HasPrefix(lowered, "mr:") {
		return models.SourceModrinth
	}
	if strings.HasPrefix(lowered, "curseforge:") || strings.HasPrefix(lowered, "cf:") {
		return models.SourceCurseForge
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return models.SourceURL
	}
	if _, err := os.Stat(platform.ExpandUser(source)); err == nil {
		return models.SourceLocal
	}
	return models.SourceCustom
}

// NormalizeSource strips the registry prefix from source and splits an
// inline @version suffix into a version hint.
func NormalizeSource(source string, sourceType models.SourceType) (normalized, inlineVersion string) {
	var prefixes []string
	switch sourceType {
	case models.SourceModrinth:
		prefixes = []string{"modrinth:", "mr:"}
	case models.SourceCurseForge:
		prefixes = []string{"curseforge:", "cf:"}
	}

	normalized = source
	lowered := strings.ToLower(source)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lowered, prefix) {
			normalized = source[strings.Index(source, ":")+1:]
			break
		}
	}

	if sourceType == models.SourceModrinth || sourceType == models.SourceCurseForge {
		if at := strings.Index(normalized, "@"); at >= 0 {
			inlineVersion = normalized[at+1:]
			normalized = normalized[:at]
		}
	}

	return normalized, inlineVersion
}

// CheckCompatibility fails when the resolved metadata actively contradicts
// the server's loader or Minecraft version. Absent metadata is never an
// error; only a mismatch is.
func CheckCompatibility(identifier, resolvedLoader string, resolvedMCVersions []string, preferredLoader, preferredMCVersion string) error {
	if preferredLoader != "" && resolvedLoader != "" {
		if !strings.EqualFold(preferredLoader, resolvedLoader) {
			return models.NewManifestError(models.KindIncompatible,
				fmt.Sprintf("%s targets loader '%s' which does not match the server loader '%s'",
					identifier, resolvedLoader, preferredLoader))
		}
	}

	if preferredMCVersion != "" && len(resolvedMCVersions) > 0 {
		target := strings.ToLower(preferredMCVersion)
		for _, version := range resolvedMCVersions {
			if strings.ToLower(version) == target {
				return nil
			}
		}
		return models.NewManifestError(models.KindIncompatible,
			fmt.Sprintf("%s is tagged for Minecraft %s but the server is %s",
				identifier, strings.Join(resolvedMCVersions, ", "), preferredMCVersion))
	}

	return nil
}

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// DeriveModID slugs a filename into a manifest id: non-alphanumeric runs
// collapse to a single hyphen, lower-cased, with "mod" as the fallback.
func DeriveModID(filename string) string {
	stem := filename
	if dot := strings.LastIndex(stem, "."); dot > 0 {
		stem = stem[:dot]
	}
	slug := slugPattern.ReplaceAllString(stem, "-")
	slug = strings.ToLower(strings.Trim(slug, "-"))
	if slug == "" {
		return "mod"
	}
	return slug
}

// HumanizeName turns a slug into a readable default name
func HumanizeName(modID string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ").Replace(modID)
	words := strings.Fields(replaced)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
