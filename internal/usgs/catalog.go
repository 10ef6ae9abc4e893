// Package usgs locates and downloads USGS 3DEP lidar point cloud tiles
// through The National Map access API.
//
// Failures here are recoverable one layer up: callers fall back to a
// synthetic cloud when no tile can be found or fetched. There is no
// retry or resume logic.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/banshee-data/terrain.report/internal/httputil"
	"github.com/banshee-data/terrain.report/internal/monitoring"
)

// DefaultBaseURL is The National Map products endpoint.
const DefaultBaseURL = "https://tnmaccess.nationalmap.gov/api/v1/products"

// lidarDataset is the TNM dataset name for lidar point cloud products.
const lidarDataset = "Lidar Point Cloud (LPC)"

// bboxHalfWidth is the half-width, in degrees, of the search box
// around the query coordinate (roughly one kilometre).
const bboxHalfWidth = 0.01

// Tile describes one downloadable point cloud product.
type Tile struct {
	Title       string `json:"title"`
	DownloadURL string `json:"downloadURL"`
	Format      string `json:"format"`
	SizeBytes   int64  `json:"sizeInBytes"`
}

// Client queries the TNM catalog. The zero value is not usable; use
// NewClient.
type Client struct {
	HTTP    httputil.HTTPClient
	BaseURL string

	// MaxResults caps the number of tiles requested per query.
	MaxResults int
}

// NewClient creates a catalog client. A nil http client defaults to
// the standard one.
func NewClient(h httputil.HTTPClient) *Client {
	if h == nil {
		h = httputil.NewStandardClient(nil)
	}
	return &Client{HTTP: h, BaseURL: DefaultBaseURL, MaxResults: 10}
}

// catalogResponse is the subset of the TNM reply the pipeline reads.
type catalogResponse struct {
	Total int    `json:"total"`
	Items []Tile `json:"items"`
}

// FindTiles returns the lidar tiles available around (lat, lon),
// possibly none. The search box spans +-0.01 degrees on each axis.
func (c *Client) FindTiles(ctx context.Context, lat, lon float64) ([]Tile, error) {
	bbox := fmt.Sprintf("%g,%g,%g,%g",
		lon-bboxHalfWidth, lat-bboxHalfWidth, lon+bboxHalfWidth, lat+bboxHalfWidth)

	params := url.Values{}
	params.Set("datasets", lidarDataset)
	params.Set("bbox", bbox)
	params.Set("outputFormat", "JSON")
	params.Set("max", strconv.Itoa(c.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog query: unexpected status %s", resp.Status)
	}

	var parsed catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("catalog query: decode response: %w", err)
	}
	monitoring.Logf("usgs: found %d lidar datasets near (%.4f, %.4f)", parsed.Total, lat, lon)
	return parsed.Items, nil
}
