package pointcloud

import (
	"errors"
	"fmt"
)

// ErrEmptyCloud is returned when an operation requires at least one
// sample and the cloud has none.
var ErrEmptyCloud = errors.New("point cloud has no samples")

// Cloud is an unordered set of 3D survey samples stored as three
// parallel coordinate slices. All three slices always have equal
// length; one (X[i], Y[i], Z[i]) triple per sample.
type Cloud struct {
	X []float64
	Y []float64
	Z []float64
}

// Len returns the number of samples.
func (c *Cloud) Len() int { return len(c.X) }

// Validate checks the parallel-slice invariant.
func (c *Cloud) Validate() error {
	if len(c.Y) != len(c.X) || len(c.Z) != len(c.X) {
		return fmt.Errorf("point cloud coordinate slices differ in length: x=%d y=%d z=%d",
			len(c.X), len(c.Y), len(c.Z))
	}
	return nil
}

// Append adds one sample to the cloud.
func (c *Cloud) Append(x, y, z float64) {
	c.X = append(c.X, x)
	c.Y = append(c.Y, y)
	c.Z = append(c.Z, z)
}
