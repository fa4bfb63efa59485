package resolver

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
)

// URLResolver downloads a mod file from a bare URL. No registry metadata
// is available, so compatibility fields stay empty.
type URLResolver struct{}

func (r *URLResolver) Resolve(ctx context.Context, req Request) (*Resolved, error) {
	parsed, err := url.Parse(req.Source)
	if err != nil {
		return nil, models.WrapManifestError(models.KindInvalidInput,
			fmt.Sprintf("invalid URL '%s'", req.Source), err)
	}

	remoteName := path.Base(parsed.Path)
	if remoteName == "." || remoteName == "/" {
		remoteName = ""
	}

	inferredID := req.SuggestedModID
	if inferredID == "" {
		name := remoteName
		if name == "" {
			name = "mod"
		}
		inferredID = DeriveModID(name)
	}

	filename := req.FilenameOverride
	if filename == "" {
		filename = remoteName
	}
	if filename == "" {
		filename = inferredID + ".jar"
	}

	destPath := filepath.Join(req.ModsDirectory, filename)
	headers := map[string]string{"User-Agent": req.UserAgent}
	if err := downloadFile(ctx, req.Source, destPath, headers, req.RateLimit); err != nil {
		return nil, err
	}

	sha, err := hashutil.SHA256File(ctx, destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", destPath, err)
	}

	return &Resolved{
		Filename: filename,
		Source:   models.ModSource{Type: models.SourceURL, URL: req.Source},
		Hashes:   &models.ModHashes{SHA256: sha},
		ModID:    inferredID,
		Name:     req.SuggestedName,
	}, nil
}
