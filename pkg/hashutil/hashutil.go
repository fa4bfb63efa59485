// Package hashutil produces content fingerprints for mod files.
package hashutil

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

const bufferSize = 1024 * 1024

// SHA256File streams the file at path through SHA-256 and returns the
// lower-case hex digest.
func SHA256File(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
