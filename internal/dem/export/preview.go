package export

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// gridXYZ adapts a grid to plotter.GridXYZ, placing each cell at its
// mesh node coordinate within the covered bounds.
type gridXYZ struct {
	g *dem.Grid
	b pointcloud.Bounds
}

func (d gridXYZ) Dims() (int, int) { return d.g.Width, d.g.Height }

func (d gridXYZ) Z(c, r int) float64 { return float64(d.g.At(c, r)) }

func (d gridXYZ) X(c int) float64 {
	return d.b.XMin + dem.NodeSpacing(d.b.XMin, d.b.XMax, d.g.Width)*float64(c)
}

func (d gridXYZ) Y(r int) float64 {
	return d.b.YMin + dem.NodeSpacing(d.b.YMin, d.b.YMax, d.g.Height)*float64(r)
}

// RenderPreviewPNG draws the grid as a heatmap and returns the encoded
// PNG. Purely cosmetic output; not part of the consistency contract
// between the core artifacts.
func RenderPreviewPNG(g *dem.Grid, b pointcloud.Bounds) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "elevation"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	h := plotter.NewHeatMap(gridXYZ{g: g, b: b}, palette.Heat(16, 1))
	p.Add(h)

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}
