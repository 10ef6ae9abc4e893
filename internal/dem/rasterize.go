package dem

import (
	"fmt"

	"github.com/banshee-data/terrain.report/internal/monitoring"
	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// Options configures a rasterization run.
type Options struct {
	// Resolution is the grid spacing in source units per cell. Ignored
	// when Shape is set.
	Resolution float64

	// Shape, when non-nil, fixes the output dimensions directly.
	Shape *Shape

	// Mode selects the interpolation scheme; empty means ModeNearest.
	Mode Mode
}

// Result is the outcome of one rasterization run. The grid is final
// (gap-filled) and immutable by convention; Bounds are those of the
// source cloud.
type Result struct {
	Grid   *Grid
	Bounds pointcloud.Bounds
	Shape  Shape
}

// Rasterize runs the full point-cloud-to-grid pipeline: bounds,
// sizing, interpolation, gap filling. Each stage consumes the complete
// output of the previous one; the cloud is not referenced by the
// result and may be discarded afterwards.
func Rasterize(c *pointcloud.Cloud, opts Options) (*Result, error) {
	bounds, err := pointcloud.ComputeBounds(c)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}

	sizing := Sizing{Resolution: opts.Resolution, Override: opts.Shape}
	shape, err := sizing.Derive(bounds)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	monitoring.Logf("rasterize: %d samples onto %dx%d grid (x[%.2f,%.2f] y[%.2f,%.2f])",
		c.Len(), shape.Width, shape.Height, bounds.XMin, bounds.XMax, bounds.YMin, bounds.YMax)

	grid, err := Interpolate(c, bounds, shape, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}

	if gaps := grid.UndefinedCount(); gaps > 0 {
		monitoring.Logf("rasterize: filling %d undefined cells", gaps)
	}
	if err := FillGaps(grid); err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}

	return &Result{Grid: grid, Bounds: bounds, Shape: shape}, nil
}
