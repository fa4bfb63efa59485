package resolver

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
)

// DefaultModrinthBaseURL is the public Modrinth REST v2 endpoint
const DefaultModrinthBaseURL = "https://api.modrinth.com/v2"

// ModrinthResolver resolves mods through the Modrinth registry
type ModrinthResolver struct {
	// BaseURL allows pointing the resolver at a different endpoint in tests
	BaseURL string
}

// NewModrinthResolver creates a resolver against the public Modrinth API
func NewModrinthResolver() *ModrinthResolver {
	return &ModrinthResolver{BaseURL: DefaultModrinthBaseURL}
}

type modrinthProject struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	ProjectURL string `json:"project_url"`
	WikiURL    string `json:"wiki_url"`
}

type modrinthVersion struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	VersionNumber string         `json:"version_number"`
	VersionType   string         `json:"version_type"`
	Loaders       []string       `json:"loaders"`
	GameVersions  []string       `json:"game_versions"`
	Files         []modrinthFile `json:"files"`
}

type modrinthFile struct {
	URL      string            `json:"url"`
	Filename string            `json:"filename"`
	Primary  bool              `json:"primary"`
	Hashes   map[string]string `json:"hashes"`
}

func (r *ModrinthResolver) Resolve(ctx context.Context, req Request) (*Resolved, error) {
	identifier := req.ProjectID
	if identifier == "" {
		identifier = req.Source
	}
	headers := r.headers(req)

	project, err := r.fetchProject(ctx, identifier, headers)
	if err != nil {
		return nil, err
	}
	slug := project.Slug
	if slug == "" {
		slug = identifier
	}

	version, err := r.resolveVersion(ctx, project, req, headers)
	if err != nil {
		return nil, err
	}
	file, err := selectModrinthFile(version)
	if err != nil {
		return nil, err
	}

	filename := req.FilenameOverride
	if filename == "" {
		filename = file.Filename
	}
	if filename == "" {
		return nil, models.NewManifestError(models.KindUpstreamFailure,
			"Modrinth file is missing a filename")
	}
	if file.URL == "" {
		return nil, models.NewManifestError(models.KindUpstreamFailure,
			"Modrinth version does not expose a download URL")
	}

	destPath := filepath.Join(req.ModsDirectory, filename)
	if err := downloadFile(ctx, file.URL, destPath, headers, req.RateLimit); err != nil {
		return nil, err
	}

	sha, err := hashutil.SHA256File(ctx, destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", destPath, err)
	}
	hashes := &models.ModHashes{
		SHA256: sha,
		SHA512: file.Hashes["sha512"],
		SHA1:   file.Hashes["sha1"],
	}

	modID := req.SuggestedModID
	if modID == "" {
		modID = slug
	}
	name := req.SuggestedName
	if name == "" {
		name = project.Title
	}
	if name == "" {
		name = slug
	}

	loader := firstString(version.Loaders)
	if loader == "" {
		loader = req.PreferredLoader
	}
	mcVersion := req.PreferredMCVersion
	if mcVersion == "" {
		mcVersion = firstString(version.GameVersions)
	}

	sourceURL := project.ProjectURL
	if sourceURL == "" {
		sourceURL = project.WikiURL
	}

	return &Resolved{
		Filename: filename,
		Source: models.ModSource{
			Type:        models.SourceModrinth,
			URL:         sourceURL,
			ProjectID:   project.ID,
			VersionID:   version.ID,
			Slug:        slug,
			DownloadURL: file.URL,
		},
		Hashes:     hashes,
		ModID:      modID,
		Name:       name,
		Version:    version.VersionNumber,
		Loader:     loader,
		MCVersion:  mcVersion,
		MCVersions: version.GameVersions,
	}, nil
}

func (r *ModrinthResolver) headers(req Request) map[string]string {
	return map[string]string{
		"User-Agent": req.UserAgent,
		"Accept":     "application/json",
	}
}

func (r *ModrinthResolver) fetchProject(ctx context.Context, identifier string, headers map[string]string) (*modrinthProject, error) {
	var project modrinthProject
	if err := getJSON(ctx, r.BaseURL+"/project/"+url.PathEscape(identifier), headers, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// resolveVersion picks a version by, in priority order: an explicit
// version-id hint belonging to this project; an exact version-number match
// within the filtered candidates; the first release, then beta, then alpha
// candidate; the first candidate returned.
func (r *ModrinthResolver) resolveVersion(ctx context.Context, project *modrinthProject, req Request, headers map[string]string) (*modrinthVersion, error) {
	if req.VersionHint != "" {
		if version := r.fetchVersionByHint(ctx, req.VersionHint, headers); version != nil {
			if version.ProjectID == project.ID {
				return version, nil
			}
		}
	}

	params := url.Values{}
	if req.PreferredLoader != "" {
		params.Set("loaders", req.PreferredLoader)
	}
	if req.PreferredMCVersion != "" {
		params.Set("game_versions", req.PreferredMCVersion)
	}
	query := ""
	if len(params) > 0 {
		query = "?" + params.Encode()
	}

	var versions []modrinthVersion
	if err := getJSON(ctx, r.BaseURL+"/project/"+url.PathEscape(project.ID)+"/version"+query, headers, &versions); err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, models.NewManifestError(models.KindNotFound,
			"no Modrinth versions matched the requested filters")
	}

	if req.VersionHint != "" {
		for i := range versions {
			if versions[i].VersionNumber == req.VersionHint {
				return &versions[i], nil
			}
		}
	}

	for _, releaseType := range []string{"release", "beta", "alpha"} {
		for i := range versions {
			if versions[i].VersionType == releaseType {
				return &versions[i], nil
			}
		}
	}

	return &versions[0], nil
}

func (r *ModrinthResolver) fetchVersionByHint(ctx context.Context, hint string, headers map[string]string) *modrinthVersion {
	var version modrinthVersion
	if err := getJSON(ctx, r.BaseURL+"/version/"+url.PathEscape(hint), headers, &version); err != nil {
		// The hint may be a version number rather than a version id;
		// fall back to the filtered version list.
		return nil
	}
	return &version
}

func selectModrinthFile(version *modrinthVersion) (*modrinthFile, error) {
	if len(version.Files) == 0 {
		return nil, models.NewManifestError(models.KindNotFound,
			"Modrinth version does not contain downloadable files")
	}
	for i := range version.Files {
		if version.Files[i].Primary {
			return &version.Files[i], nil
		}
	}
	return &version.Files[0], nil
}

func firstString(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
