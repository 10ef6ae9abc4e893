package dem

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNoDefinedCells is returned when gap filling finds no defined cell
// to average. Such a grid cannot be given a fill value without
// inventing data, so the condition is surfaced instead of guessed at.
var ErrNoDefinedCells = errors.New("no defined cells to average")

// FillGaps replaces every undefined (NaN) cell with the arithmetic
// mean of the defined cells. The fill is stationary: no spatial
// propagation, no distance weighting. That is acceptable because the
// default interpolation mode never leaves gaps; only the linear
// variant can.
func FillGaps(g *Grid) error {
	gaps := g.UndefinedCount()
	if gaps == 0 {
		return nil
	}
	if gaps == len(g.Values) {
		return fmt.Errorf("gap fill on %dx%d grid: %w", g.Width, g.Height, ErrNoDefinedCells)
	}

	defined := make([]float64, 0, len(g.Values)-gaps)
	for _, v := range g.Values {
		if !isNaN32(v) {
			defined = append(defined, float64(v))
		}
	}
	fill := float32(stat.Mean(defined, nil))
	for i, v := range g.Values {
		if isNaN32(v) {
			g.Values[i] = fill
		}
	}
	return nil
}
