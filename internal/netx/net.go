package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DownloadToFile GETs url and streams the body into dest. The body is written
// to a temporary file next to dest and renamed on success, so dest never holds
// a partial download.
//
// The response status is always returned. A non-200 status is not an error:
// nothing is written and the caller decides what the status means.
func DownloadToFile(ctx context.Context, client *http.Client, url, dest string) (int, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	tmp := filepath.Join(filepath.Dir(dest), ".part-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return resp.StatusCode, err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return resp.StatusCode, fmt.Errorf("download body: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return resp.StatusCode, err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}
