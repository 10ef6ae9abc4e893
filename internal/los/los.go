// Package los evaluates line-of-sight over an elevation grid.
//
// It is a read-only consumer of the rasterization pipeline's output
// contract: a contiguous row-major elevation array with declared width
// and height. Endpoints are given in grid coordinates, where one unit
// equals one cell and (x, y) indexes column/row space directly.
package los

import (
	"math"

	"github.com/banshee-data/terrain.report/internal/dem"
)

// marchResult summarises one grid traversal.
type marchResult struct {
	visited int
	clear   int
	visible bool
}

// march walks the cells between the two endpoints with an
// Amanatides-Woo traversal. A cell blocks the ray when its terrain
// elevation exceeds the ray height over that cell; leaving the grid
// counts as blocked.
func march(g *dem.Grid, x0, y0, z0, x1, y1, z1 float64) marchResult {
	dx := x1 - x0
	dy := y1 - y0
	dz := z1 - z0

	x := int(math.Floor(x0))
	y := int(math.Floor(y0))
	endX := int(math.Floor(x1))
	endY := int(math.Floor(y1))

	stepX, stepY := -1, -1
	if dx > 0 {
		stepX = 1
	}
	if dy > 0 {
		stepY = 1
	}

	tMaxX, tDeltaX := math.Inf(1), math.Inf(1)
	if dx != 0 {
		nextX := float64(x)
		if stepX > 0 {
			nextX = float64(x) + 1
		}
		tMaxX = (nextX - x0) / dx
		tDeltaX = 1 / math.Abs(dx)
	}
	tMaxY, tDeltaY := math.Inf(1), math.Inf(1)
	if dy != 0 {
		nextY := float64(y)
		if stepY > 0 {
			nextY = float64(y) + 1
		}
		tMaxY = (nextY - y0) / dy
		tDeltaY = 1 / math.Abs(dy)
	}

	var res marchResult
	for {
		if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
			return res
		}
		res.visited++

		// Parametric position along the ray over this cell, taken on
		// the dominant axis for stability.
		var t float64
		switch {
		case dx == 0 && dy == 0:
			t = 0
		case math.Abs(dx) > math.Abs(dy):
			t = (float64(x) - x0) / dx
		default:
			t = (float64(y) - y0) / dy
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		rayHeight := z0 + t*dz
		if dx == 0 && dy == 0 {
			// Both endpoints share this cell; the ray's lowest point
			// over it is the lower endpoint.
			rayHeight = math.Min(z0, z1)
		}

		if float64(g.At(x, y)) > rayHeight {
			return res
		}
		res.clear++

		if x == endX && y == endY {
			res.visible = true
			return res
		}
		if tMaxX < tMaxY {
			tMaxX += tDeltaX
			x += stepX
		} else {
			tMaxY += tDeltaY
			y += stepY
		}
	}
}

// Visible reports whether the straight segment between the two points
// clears the terrain. Endpoints outside the grid, or rays that exit
// it, are not visible.
func Visible(g *dem.Grid, x0, y0, z0, x1, y1, z1 float64) bool {
	return march(g, x0, y0, z0, x1, y1, z1).visible
}

// ClearFraction returns the fraction of traversed cells the ray
// clears, in [0, 1]. A fully visible path returns 1; a ray blocked
// immediately returns 0. Useful as a soft visibility score when the
// boolean answer is too coarse.
func ClearFraction(g *dem.Grid, x0, y0, z0, x1, y1, z1 float64) float64 {
	res := march(g, x0, y0, z0, x1, y1, z1)
	if res.visited == 0 {
		return 0
	}
	if res.visible {
		return 1
	}
	return float64(res.clear) / float64(res.visited)
}
