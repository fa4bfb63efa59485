package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/modnorris/pkg/models"
	"github.com/sdejongh/modnorris/pkg/ratelimit"
)

// Bounded timeouts so a stalled registry or mirror cannot block a command
// forever. Downloads get a longer deadline for large artifacts.
var (
	apiClient      = &http.Client{Timeout: 30 * time.Second}
	downloadClient = &http.Client{Timeout: 10 * time.Minute}
)

func newRequest(ctx context.Context, url string, headers map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.WrapManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("invalid request URL %s", url), err)
	}
	for key, value := range headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}
	return req, nil
}

// getJSON fetches url and decodes the JSON payload into out
func getJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	req, err := newRequest(ctx, url, headers)
	if err != nil {
		return err
	}

	resp, err := apiClient.Do(req)
	if err != nil {
		return models.WrapManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("network error fetching %s: %v", url, err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		message := string(detail)
		if message == "" {
			message = resp.Status
		}
		return models.NewManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("HTTP %d error fetching %s: %s", resp.StatusCode, url, message))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.WrapManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("invalid JSON payload from %s", url), err)
	}
	return nil
}

// downloadFile streams url into dest. The payload lands in a temporary
// sibling first so a failed download never leaves a partial file behind as
// the destination. rateLimit caps throughput in bytes per second; zero
// means unlimited.
func downloadFile(ctx context.Context, url, dest string, headers map[string]string, rateLimit int64) error {
	req, err := newRequest(ctx, url, headers)
	if err != nil {
		return err
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return models.WrapManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("failed to download %s: %v", url, err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.NewManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("HTTP %d error fetching %s: %s", resp.StatusCode, url, resp.Status))
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := dest + ".part"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	var body io.Reader = ratelimit.NewReader(ctx, resp.Body, ratelimit.NewLimiter(rateLimit))
	var bar *pb.ProgressBar
	if resp.ContentLength > 0 && term.IsTerminal(int(os.Stderr.Fd())) {
		bar = pb.Full.Start64(resp.ContentLength)
		bar.Set(pb.Bytes, true)
		body = bar.NewProxyReader(body)
	}

	_, copyErr := io.Copy(file, body)
	closeErr := file.Close()
	if bar != nil {
		bar.Finish()
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(tmpPath)
		return models.WrapManifestError(models.KindUpstreamFailure,
			fmt.Sprintf("failed to download %s: %v", url, copyErr), copyErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize download: %w", err)
	}
	return nil
}
