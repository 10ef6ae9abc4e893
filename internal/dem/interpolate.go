package dem

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// Mode selects the scattered-to-grid interpolation scheme.
type Mode string

const (
	// ModeNearest assigns each mesh node the elevation of the closest
	// sample by (x, y) Euclidean distance. Defined everywhere inside
	// the bounds, bounded cost, tolerant of clustered survey density.
	// This is the default.
	ModeNearest Mode = "nearest"

	// ModeLinear blends bucket-averaged elevations bilinearly. Nodes
	// outside the convex hull of the samples, or whose neighbourhood
	// holds no samples, are left undefined (NaN) rather than
	// extrapolated; FillGaps resolves them afterwards.
	ModeLinear Mode = "linear"
)

// Interpolate maps the cloud onto a regular width x height mesh
// spanning the bounds inclusively on both axes. Row 0 of the result
// lies at YMin. Under ModeNearest every cell is defined; under
// ModeLinear some cells may be NaN.
//
// Cells are independent of one another, so rows are computed on a
// small worker pool. No ordering is guaranteed across cells.
func Interpolate(c *pointcloud.Cloud, b pointcloud.Bounds, shape Shape, mode Mode) (*Grid, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("interpolate: %w", err)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("interpolate: %w", pointcloud.ErrEmptyCloud)
	}
	grid, err := NewGrid(shape.Width, shape.Height)
	if err != nil {
		return nil, fmt.Errorf("interpolate: %w", err)
	}

	switch mode {
	case "", ModeNearest:
		interpolateNearest(c, b, grid)
	case ModeLinear:
		interpolateLinear(c, b, grid)
	default:
		return nil, fmt.Errorf("interpolate: unknown mode %q", mode)
	}
	return grid, nil
}

// nodeCoord returns the i-th of n evenly spaced values covering
// [lo, hi] inclusive. A single-node axis sits at lo.
func nodeCoord(lo, hi float64, i, n int) float64 {
	if n <= 1 {
		return lo
	}
	return lo + (hi-lo)*float64(i)/float64(n-1)
}

// NodeSpacing returns the mesh node spacing along one axis, falling
// back to the full span for single-node axes.
func NodeSpacing(lo, hi float64, n int) float64 {
	if n <= 1 {
		return hi - lo
	}
	return (hi - lo) / float64(n-1)
}

func interpolateNearest(c *pointcloud.Cloud, b pointcloud.Bounds, grid *Grid) {
	idx := newBucketIndex(c, b)

	workers := runtime.GOMAXPROCS(0)
	if workers > grid.Height {
		workers = grid.Height
	}
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				y := nodeCoord(b.YMin, b.YMax, row, grid.Height)
				for col := 0; col < grid.Width; col++ {
					x := nodeCoord(b.XMin, b.XMax, col, grid.Width)
					grid.Set(col, row, float32(c.Z[idx.nearest(x, y)]))
				}
			}
		}()
	}
	for row := 0; row < grid.Height; row++ {
		rows <- row
	}
	close(rows)
	wg.Wait()
}

// binMeans averages sample elevations into a coarse kx x ky lattice
// over the bounds. Empty bins are NaN.
type binMeans struct {
	minX, minY   float64
	cellX, cellY float64
	kx, ky       int
	mean         []float64
}

func newBinMeans(c *pointcloud.Cloud, b pointcloud.Bounds) *binMeans {
	// Aim for a handful of samples per bin; clamp the lattice so tiny
	// clouds still get at least one bin per axis.
	k := int(math.Sqrt(float64(c.Len()) / 4))
	if k < 1 {
		k = 1
	}
	if k > 512 {
		k = 512
	}
	m := &binMeans{
		minX: b.XMin, minY: b.YMin,
		kx: k, ky: k,
	}
	m.cellX = b.SpanX() / float64(m.kx)
	m.cellY = b.SpanY() / float64(m.ky)
	if m.cellX <= 0 {
		m.cellX = 1
	}
	if m.cellY <= 0 {
		m.cellY = 1
	}

	sum := make([]float64, m.kx*m.ky)
	count := make([]int, m.kx*m.ky)
	for i := 0; i < c.Len(); i++ {
		bx := clampBin(int((c.X[i]-m.minX)/m.cellX), m.kx)
		by := clampBin(int((c.Y[i]-m.minY)/m.cellY), m.ky)
		sum[by*m.kx+bx] += c.Z[i]
		count[by*m.kx+bx]++
	}
	m.mean = make([]float64, len(sum))
	for i := range sum {
		if count[i] == 0 {
			m.mean[i] = math.NaN()
		} else {
			m.mean[i] = sum[i] / float64(count[i])
		}
	}
	return m
}

func clampBin(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// at bilinearly blends the four bin means surrounding (x, y), treating
// bin centres as lattice nodes. Any NaN contributor makes the result
// NaN.
func (m *binMeans) at(x, y float64) float64 {
	gx := (x-m.minX)/m.cellX - 0.5
	gy := (y-m.minY)/m.cellY - 0.5
	i0 := clampBin(int(math.Floor(gx)), m.kx)
	j0 := clampBin(int(math.Floor(gy)), m.ky)
	i1 := clampBin(i0+1, m.kx)
	j1 := clampBin(j0+1, m.ky)

	fx := gx - float64(i0)
	fy := gy - float64(j0)
	fx = math.Min(math.Max(fx, 0), 1)
	fy = math.Min(math.Max(fy, 0), 1)

	v00 := m.mean[j0*m.kx+i0]
	v10 := m.mean[j0*m.kx+i1]
	v01 := m.mean[j1*m.kx+i0]
	v11 := m.mean[j1*m.kx+i1]
	return v00*(1-fx)*(1-fy) + v10*fx*(1-fy) + v01*(1-fx)*fy + v11*fx*fy
}

func interpolateLinear(c *pointcloud.Cloud, b pointcloud.Bounds, grid *Grid) {
	hull := convexHull(c)
	means := newBinMeans(c, b)
	nan := float32(math.NaN())

	workers := runtime.GOMAXPROCS(0)
	if workers > grid.Height {
		workers = grid.Height
	}
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				y := nodeCoord(b.YMin, b.YMax, row, grid.Height)
				for col := 0; col < grid.Width; col++ {
					x := nodeCoord(b.XMin, b.XMax, col, grid.Width)
					if !inHull(hull, hullPoint{x, y}) {
						grid.Set(col, row, nan)
						continue
					}
					grid.Set(col, row, float32(means.at(x, y)))
				}
			}
		}()
	}
	for row := 0; row < grid.Height; row++ {
		rows <- row
	}
	close(rows)
	wg.Wait()
}
