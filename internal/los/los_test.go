package los

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.report/internal/dem"
)

// flatGrid builds a width x height grid at constant elevation.
func flatGrid(t *testing.T, width, height int, elevation float32) *dem.Grid {
	t.Helper()
	g, err := dem.NewGrid(width, height)
	require.NoError(t, err)
	for i := range g.Values {
		g.Values[i] = elevation
	}
	return g
}

func TestVisible_FlatTerrain(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 1000, 1000, 0)
	assert.True(t, Visible(g, 100, 100, 10, 900, 900, 10))
	assert.Equal(t, 1.0, ClearFraction(g, 100, 100, 10, 900, 900, 10))
}

func TestVisible_BlockingHill(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 1000, 1000, 0)
	g.Set(500, 500, 50)

	assert.False(t, Visible(g, 100, 100, 10, 900, 900, 10))

	frac := ClearFraction(g, 100, 100, 10, 900, 900, 10)
	assert.Greater(t, frac, 0.0)
	assert.Less(t, frac, 1.0)
}

func TestVisible_ObserversAboveHill(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 1000, 1000, 0)
	g.Set(500, 500, 50)

	assert.True(t, Visible(g, 100, 100, 100, 900, 900, 100))
}

func TestVisible_RayLeavesGrid(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 10, 10, 0)
	assert.False(t, Visible(g, 5, 5, 10, 50, 5, 10), "endpoint outside the grid")
	assert.False(t, Visible(g, -5, 5, 10, 5, 5, 10), "start outside the grid")
}

func TestVisible_AxisAlignedRay(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 100, 3, 0)
	g.Set(50, 1, 20)

	assert.False(t, Visible(g, 0, 1.5, 10, 99, 1.5, 10))
	assert.True(t, Visible(g, 0, 1.5, 30, 99, 1.5, 30))
}

func TestVisible_SameCell(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 10, 10, 5)

	// Both endpoints above the terrain in one cell.
	assert.True(t, Visible(g, 3.2, 3.2, 10, 3.8, 3.8, 12))
	// Lower endpoint below the terrain.
	assert.False(t, Visible(g, 3.2, 3.2, 2, 3.8, 3.8, 12))
}

func TestClearFraction_BlockedImmediately(t *testing.T) {
	t.Parallel()

	g := flatGrid(t, 10, 10, 100)
	assert.Equal(t, 0.0, ClearFraction(g, 1, 1, 0, 8, 8, 0))
}

func TestVisible_GrazingRayOverRisingTerrain(t *testing.T) {
	t.Parallel()

	// Terrain ramps upward along x; a ray that climbs faster stays
	// clear, one that climbs slower hits the ramp.
	g, err := dem.NewGrid(100, 1)
	require.NoError(t, err)
	for col := 0; col < 100; col++ {
		g.Set(col, 0, float32(col))
	}

	assert.True(t, Visible(g, 0, 0.5, 1, 99, 0.5, 110))
	assert.False(t, Visible(g, 0, 0.5, 1, 99, 0.5, 20))
}
