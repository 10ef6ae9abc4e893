package usgs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/banshee-data/terrain.report/internal/monitoring"
)

// Download streams a tile to destPath and returns the number of bytes
// written. A partial file left by a failed transfer is removed.
func (c *Client) Download(ctx context.Context, downloadURL, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", downloadURL, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: unexpected status %s", downloadURL, resp.Status)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("download to %s: %w", destPath, err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil {
			monitoring.Logf("usgs: could not remove partial download %s: %v", destPath, rmErr)
		}
		return 0, fmt.Errorf("download to %s: %w", destPath, err)
	}
	monitoring.Logf("usgs: downloaded %d bytes to %s", n, destPath)
	return n, nil
}
