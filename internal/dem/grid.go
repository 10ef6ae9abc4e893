package dem

import (
	"fmt"
	"math"
)

// Grid is a dense, row-major elevation raster. Values holds
// Height*Width cells; cell (col, row) lives at Values[row*Width+col].
// Row 0 sits at the south edge (YMin) of the covered bounds.
//
// Cells are float32 so the in-memory grid, the raw dump, and the
// raster artifact carry bit-identical values. NaN marks a cell the
// interpolator left undefined; after FillGaps no NaN remains.
type Grid struct {
	Width  int
	Height int
	Values []float32
}

// NewGrid allocates a zero-filled grid of the given shape.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("grid shape must be positive, got %dx%d", width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Values: make([]float32, width*height),
	}, nil
}

// At returns the elevation at (col, row).
func (g *Grid) At(col, row int) float32 {
	return g.Values[row*g.Width+col]
}

// Set assigns the elevation at (col, row).
func (g *Grid) Set(col, row int, v float32) {
	g.Values[row*g.Width+col] = v
}

// ZRange returns the minimum and maximum defined elevation. NaN cells
// are skipped; ok is false when every cell is undefined.
func (g *Grid) ZRange() (zmin, zmax float32, ok bool) {
	zmin = float32(math.Inf(1))
	zmax = float32(math.Inf(-1))
	for _, v := range g.Values {
		if isNaN32(v) {
			continue
		}
		ok = true
		if v < zmin {
			zmin = v
		}
		if v > zmax {
			zmax = v
		}
	}
	if !ok {
		return 0, 0, false
	}
	return zmin, zmax, true
}

// UndefinedCount returns the number of NaN cells.
func (g *Grid) UndefinedCount() int {
	n := 0
	for _, v := range g.Values {
		if isNaN32(v) {
			n++
		}
	}
	return n
}

func isNaN32(v float32) bool { return v != v }
