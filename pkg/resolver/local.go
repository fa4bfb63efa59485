package resolver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sdejongh/modnorris/internal/platform"
	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
)

// LocalResolver copies a mod file from the local filesystem into the mods
// directory.
type LocalResolver struct{}

func (r *LocalResolver) Resolve(ctx context.Context, req Request) (*Resolved, error) {
	srcPath, err := filepath.Abs(platform.ExpandUser(req.Source))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(srcPath); err != nil {
		return nil, models.NewManifestError(models.KindNotFound,
			fmt.Sprintf("source file '%s' does not exist", req.Source))
	}

	filename := req.FilenameOverride
	if filename == "" {
		filename = filepath.Base(srcPath)
	}
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, models.NewManifestError(models.KindInvalidInput,
			"local mod filename could not be determined")
	}

	destPath := filepath.Join(req.ModsDirectory, filename)
	if srcPath != destPath {
		if err := copyFile(srcPath, destPath); err != nil {
			return nil, err
		}
	}

	sha, err := hashutil.SHA256File(ctx, destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", destPath, err)
	}

	modID := req.SuggestedModID
	if modID == "" {
		modID = DeriveModID(filename)
	}

	return &Resolved{
		Filename: filename,
		Source:   models.ModSource{Type: models.SourceLocal, Path: srcPath},
		Hashes:   &models.ModHashes{SHA256: sha},
		ModID:    modID,
		Name:     req.SuggestedName,
	}, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to copy file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to copy file: %w", closeErr)
	}
	return nil
}
