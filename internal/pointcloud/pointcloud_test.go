package pointcloud

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBounds_Basic(t *testing.T) {
	t.Parallel()

	c := &Cloud{
		X: []float64{0, 1, -2, 3},
		Y: []float64{5, -1, 2, 0},
		Z: []float64{10, 40, 20, 30},
	}
	b, err := ComputeBounds(c)
	require.NoError(t, err)

	assert.Equal(t, -2.0, b.XMin)
	assert.Equal(t, 3.0, b.XMax)
	assert.Equal(t, -1.0, b.YMin)
	assert.Equal(t, 5.0, b.YMax)
	assert.Equal(t, 10.0, b.ZMin)
	assert.Equal(t, 40.0, b.ZMax)
	assert.Equal(t, 5.0, b.SpanX())
	assert.Equal(t, 6.0, b.SpanY())
}

func TestComputeBounds_SingleSample(t *testing.T) {
	t.Parallel()

	c := &Cloud{X: []float64{5}, Y: []float64{5}, Z: []float64{42}}
	b, err := ComputeBounds(c)
	require.NoError(t, err)

	// Degenerate extent: min == max on every axis.
	assert.Equal(t, b.XMin, b.XMax)
	assert.Equal(t, b.YMin, b.YMax)
	assert.Equal(t, 42.0, b.ZMin)
	assert.Equal(t, 42.0, b.ZMax)
}

func TestComputeBounds_EmptyCloud(t *testing.T) {
	t.Parallel()

	_, err := ComputeBounds(&Cloud{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCloud))
}

func TestValidate_MismatchedSlices(t *testing.T) {
	t.Parallel()

	c := &Cloud{X: []float64{1, 2}, Y: []float64{1}, Z: []float64{1, 2}}
	assert.Error(t, c.Validate())

	_, err := ComputeBounds(c)
	assert.Error(t, err)
}

func TestSynthesize_Deterministic(t *testing.T) {
	t.Parallel()

	p := SyntheticParams{Points: 500, HalfExtent: 50, NoiseSigma: 0.5, Seed: 7}
	a := Synthesize(p)
	b := Synthesize(p)

	require.Equal(t, 500, a.Len())
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, a.Z, b.Z)
}

func TestSynthesize_BoundsWithinExtent(t *testing.T) {
	t.Parallel()

	c := Synthesize(SyntheticParams{Points: 2000, HalfExtent: 50, NoiseSigma: 0.5, Seed: 1})
	b, err := ComputeBounds(c)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, b.XMin, -50.0)
	assert.LessOrEqual(t, b.XMax, 50.0)
	assert.GreaterOrEqual(t, b.YMin, -50.0)
	assert.LessOrEqual(t, b.YMax, 50.0)
	// Peaks push terrain well above the sinusoidal base.
	assert.Greater(t, b.ZMax, 10.0)
}
