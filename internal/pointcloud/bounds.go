package pointcloud

import "fmt"

// Bounds is the axis-aligned 3D extent of a point cloud. Min <= Max on
// every axis; the two are equal when all samples share a coordinate.
// Bounds are never mutated after ComputeBounds returns them.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// SpanX returns XMax - XMin.
func (b Bounds) SpanX() float64 { return b.XMax - b.XMin }

// SpanY returns YMax - YMin.
func (b Bounds) SpanY() float64 { return b.YMax - b.YMin }

// ComputeBounds returns the componentwise min/max over all samples.
// An empty cloud has no defined extent and yields ErrEmptyCloud.
func ComputeBounds(c *Cloud) (Bounds, error) {
	if err := c.Validate(); err != nil {
		return Bounds{}, fmt.Errorf("bounds: %w", err)
	}
	if c.Len() == 0 {
		return Bounds{}, fmt.Errorf("bounds: %w", ErrEmptyCloud)
	}

	b := Bounds{
		XMin: c.X[0], XMax: c.X[0],
		YMin: c.Y[0], YMax: c.Y[0],
		ZMin: c.Z[0], ZMax: c.Z[0],
	}
	for i := 1; i < c.Len(); i++ {
		if c.X[i] < b.XMin {
			b.XMin = c.X[i]
		}
		if c.X[i] > b.XMax {
			b.XMax = c.X[i]
		}
		if c.Y[i] < b.YMin {
			b.YMin = c.Y[i]
		}
		if c.Y[i] > b.YMax {
			b.YMax = c.Y[i]
		}
		if c.Z[i] < b.ZMin {
			b.ZMin = c.Z[i]
		}
		if c.Z[i] > b.ZMax {
			b.ZMax = c.Z[i]
		}
	}
	return b, nil
}
