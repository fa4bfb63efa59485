package resolver

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
)

// DefaultCurseForgeBaseURL is the public CurseForge REST v1 endpoint
const DefaultCurseForgeBaseURL = "https://api.curseforge.com/v1"

const (
	// curseForgeGameID identifies Minecraft in the CurseForge catalogue
	curseForgeGameID = 432
	// curseForgeModClassID restricts searches to the mods class
	curseForgeModClassID = 6

	searchPageSize = 50
)

// CurseForgeResolver resolves mods through the CurseForge registry.
// It requires an API key.
type CurseForgeResolver struct {
	// BaseURL allows pointing the resolver at a different endpoint in tests
	BaseURL string
}

// NewCurseForgeResolver creates a resolver against the public CurseForge API
func NewCurseForgeResolver() *CurseForgeResolver {
	return &CurseForgeResolver{BaseURL: DefaultCurseForgeBaseURL}
}

type curseForgeProject struct {
	ID    int    `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Links struct {
		WebsiteURL string `json:"websiteUrl"`
	} `json:"links"`
}

type curseForgeFile struct {
	ID           int              `json:"id"`
	FileName     string           `json:"fileName"`
	DisplayName  string           `json:"displayName"`
	DownloadURL  string           `json:"downloadUrl"`
	ReleaseType  int              `json:"releaseType"`
	GameVersions []string         `json:"gameVersions"`
	Hashes       []curseForgeHash `json:"hashes"`
}

type curseForgeHash struct {
	Value string `json:"value"`
	Algo  int    `json:"algo"`
}

// CurseForge hash algorithm codes
const (
	curseForgeAlgoSHA1 = 1
	curseForgeAlgoMD5  = 2
)

// CurseForge release type codes
const (
	curseForgeRelease = 1
	curseForgeBeta    = 2
	curseForgeAlpha   = 3
)

func (r *CurseForgeResolver) Resolve(ctx context.Context, req Request) (*Resolved, error) {
	if req.CurseForgeAPIKey == "" {
		return nil, models.NewManifestError(models.KindInvalidInput,
			"CurseForge API key missing; set MODNORRIS_CURSEFORGE_API_KEY or add curseforge_api_key to the config file")
	}

	headers := r.headers(req)
	project, err := r.resolveProject(ctx, req, headers)
	if err != nil {
		return nil, err
	}

	files, err := r.listFiles(ctx, project.ID, req, headers)
	if err != nil {
		return nil, err
	}
	file := selectCurseForgeFile(files, req.VersionHint)

	filename := req.FilenameOverride
	if filename == "" {
		filename = file.FileName
	}
	if filename == "" {
		return nil, models.NewManifestError(models.KindUpstreamFailure,
			"CurseForge file is missing a filename")
	}
	if file.DownloadURL == "" {
		return nil, models.NewManifestError(models.KindUpstreamFailure,
			"CurseForge file lacks a download URL")
	}

	destPath := filepath.Join(req.ModsDirectory, filename)
	if err := downloadFile(ctx, file.DownloadURL, destPath, headers, req.RateLimit); err != nil {
		return nil, err
	}

	sha, err := hashutil.SHA256File(ctx, destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", destPath, err)
	}
	hashes := &models.ModHashes{
		SHA256: sha,
		MD5:    extractCurseForgeHash(file, curseForgeAlgoMD5),
		SHA1:   extractCurseForgeHash(file, curseForgeAlgoSHA1),
	}

	modID := req.SuggestedModID
	if modID == "" {
		modID = project.Slug
	}
	if modID == "" {
		modID = strconv.Itoa(project.ID)
	}
	name := req.SuggestedName
	if name == "" {
		name = project.Name
	}
	version := file.DisplayName
	if version == "" {
		version = file.FileName
	}
	mcVersion := req.PreferredMCVersion
	if mcVersion == "" {
		mcVersion = firstString(file.GameVersions)
	}

	return &Resolved{
		Filename: filename,
		Source: models.ModSource{
			Type:        models.SourceCurseForge,
			ProjectID:   strconv.Itoa(project.ID),
			VersionID:   strconv.Itoa(file.ID),
			Slug:        project.Slug,
			URL:         project.Links.WebsiteURL,
			DownloadURL: file.DownloadURL,
		},
		Hashes:     hashes,
		ModID:      modID,
		Name:       name,
		Version:    version,
		Loader:     req.PreferredLoader,
		MCVersion:  mcVersion,
		MCVersions: file.GameVersions,
	}, nil
}

func (r *CurseForgeResolver) headers(req Request) map[string]string {
	return map[string]string{
		"x-api-key":  req.CurseForgeAPIKey,
		"User-Agent": req.UserAgent,
		"Accept":     "application/json",
	}
}

// resolveProject fetches the project by explicit id, or searches the mods
// class by text and picks an exact slug match, else the first result.
func (r *CurseForgeResolver) resolveProject(ctx context.Context, req Request, headers map[string]string) (*curseForgeProject, error) {
	if req.ProjectID != "" {
		var payload struct {
			Data curseForgeProject `json:"data"`
		}
		if err := getJSON(ctx, r.BaseURL+"/mods/"+url.PathEscape(req.ProjectID), headers, &payload); err != nil {
			return nil, err
		}
		return &payload.Data, nil
	}

	params := url.Values{}
	params.Set("gameId", strconv.Itoa(curseForgeGameID))
	params.Set("classId", strconv.Itoa(curseForgeModClassID))
	params.Set("searchFilter", req.Source)
	params.Set("pageSize", strconv.Itoa(searchPageSize))
	if loaderType := curseForgeLoaderType(req.PreferredLoader); loaderType != 0 {
		params.Set("modLoaderType", strconv.Itoa(loaderType))
	}
	if req.PreferredMCVersion != "" {
		params.Set("gameVersion", req.PreferredMCVersion)
	}

	var payload struct {
		Data []curseForgeProject `json:"data"`
	}
	if err := getJSON(ctx, r.BaseURL+"/mods/search?"+params.Encode(), headers, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, models.NewManifestError(models.KindNotFound,
			"no CurseForge projects matched the given search filter")
	}

	for i := range payload.Data {
		if payload.Data[i].Slug == req.Source {
			return &payload.Data[i], nil
		}
	}
	return &payload.Data[0], nil
}

func (r *CurseForgeResolver) listFiles(ctx context.Context, projectID int, req Request, headers map[string]string) ([]curseForgeFile, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(searchPageSize))
	if loaderType := curseForgeLoaderType(req.PreferredLoader); loaderType != 0 {
		params.Set("modLoaderType", strconv.Itoa(loaderType))
	}
	if req.PreferredMCVersion != "" {
		params.Set("gameVersion", req.PreferredMCVersion)
	}

	var payload struct {
		Data []curseForgeFile `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/mods/%d/files?%s", r.BaseURL, projectID, params.Encode())
	if err := getJSON(ctx, endpoint, headers, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, models.NewManifestError(models.KindNotFound,
			"no CurseForge files matched the requested filters")
	}
	return payload.Data, nil
}

// selectCurseForgeFile picks a file by explicit hint (file id, file name or
// display name), else the first release, then beta, then alpha, else the
// first file returned.
func selectCurseForgeFile(files []curseForgeFile, versionHint string) *curseForgeFile {
	if versionHint != "" {
		for i := range files {
			if strconv.Itoa(files[i].ID) == versionHint ||
				files[i].FileName == versionHint ||
				files[i].DisplayName == versionHint {
				return &files[i]
			}
		}
	}

	for _, releaseType := range []int{curseForgeRelease, curseForgeBeta, curseForgeAlpha} {
		for i := range files {
			if files[i].ReleaseType == releaseType {
				return &files[i]
			}
		}
	}

	return &files[0]
}

func curseForgeLoaderType(loader string) int {
	switch strings.ToLower(loader) {
	case "forge":
		return 1
	case "cauldron":
		return 2
	case "liteloader":
		return 3
	case "fabric":
		return 4
	case "quilt":
		return 5
	case "neoforge":
		return 6
	}
	return 0
}

func extractCurseForgeHash(file *curseForgeFile, algo int) string {
	for _, h := range file.Hashes {
		if h.Algo == algo {
			return h.Value
		}
	}
	return ""
}
