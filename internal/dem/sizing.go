package dem

import (
	"fmt"
	"math"

	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// MaxGridDim caps each derived grid dimension. Very fine resolutions
// over large extents would otherwise allocate unbounded memory.
const MaxGridDim = 2000

// Shape is the target raster size in cells.
type Shape struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (s Shape) Valid() bool { return s.Width >= 1 && s.Height >= 1 }

// Sizing derives the raster shape for a run. When Override is set it
// wins verbatim and Resolution plays no part; otherwise each dimension
// is floor(extent/Resolution) clamped into [1, MaxGridDim].
type Sizing struct {
	// Resolution is the grid spacing in source units per cell. Must be
	// positive unless Override is set.
	Resolution float64

	// Override, when non-nil, is used as the shape directly.
	Override *Shape
}

// Derive computes the grid shape for the given cloud bounds.
func (s Sizing) Derive(b pointcloud.Bounds) (Shape, error) {
	if s.Override != nil {
		if !s.Override.Valid() {
			return Shape{}, fmt.Errorf("grid sizing: override %dx%d is not positive",
				s.Override.Width, s.Override.Height)
		}
		return *s.Override, nil
	}
	if s.Resolution <= 0 {
		return Shape{}, fmt.Errorf("grid sizing: resolution must be positive, got %g", s.Resolution)
	}
	return Shape{
		Width:  clampDim(int(math.Floor(b.SpanX() / s.Resolution))),
		Height: clampDim(int(math.Floor(b.SpanY() / s.Resolution))),
	}, nil
}

// clampDim forces a derived dimension into [1, MaxGridDim].
func clampDim(d int) int {
	if d < 1 {
		return 1
	}
	if d > MaxGridDim {
		return MaxGridDim
	}
	return d
}
