package export

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// MetadataBounds is the spatial extent recorded alongside a grid. The
// x/y range comes from the source cloud; the z range is recomputed
// from the exported grid so the record always describes the artifact
// it accompanies.
type MetadataBounds struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
	ZMin float64 `json:"z_min"`
	ZMax float64 `json:"z_max"`
}

// Metadata is the fixed-schema record describing one exported grid.
// Field names match the established artifact format.
type Metadata struct {
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Resolution   float64        `json:"resolution"`
	Bounds       MetadataBounds `json:"bounds"`
	SourcePoints int            `json:"source_points"`
	SourceFile   string         `json:"source_file"`
}

// BuildMetadata assembles the metadata record for a finished grid.
// The z range is taken from the grid itself, never from the cloud
// bounds; a grid with no defined cell cannot be described.
func BuildMetadata(g *dem.Grid, b pointcloud.Bounds, resolution float64, sourcePoints int, sourceFile string) (*Metadata, error) {
	zmin, zmax, ok := g.ZRange()
	if !ok {
		return nil, fmt.Errorf("metadata for %dx%d grid: every cell is undefined", g.Width, g.Height)
	}
	return &Metadata{
		Width:      g.Width,
		Height:     g.Height,
		Resolution: resolution,
		Bounds: MetadataBounds{
			XMin: b.XMin, XMax: b.XMax,
			YMin: b.YMin, YMax: b.YMax,
			ZMin: float64(zmin), ZMax: float64(zmax),
		},
		SourcePoints: sourcePoints,
		SourceFile:   sourceFile,
	}, nil
}

// MarshalMetadata renders the record as indented JSON.
func MarshalMetadata(m *Metadata) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseMetadata decodes a metadata record.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &m, nil
}
