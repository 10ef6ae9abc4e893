// Command los-check answers line-of-sight queries against an exported
// DEM. It loads the NPY elevation dump plus its metadata sidecar,
// converts the world coordinates of two observers into grid space, and
// reports whether they can see each other.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/dem/export"
	"github.com/banshee-data/terrain.report/internal/los"
)

var (
	demPath  = flag.String("dem", "", "path to the _dem.npy elevation dump (required)")
	metaPath = flag.String("meta", "", "path to the _dem_meta.json sidecar (required)")
	x0       = flag.Float64("x0", 0, "observer A x in world coordinates")
	y0       = flag.Float64("y0", 0, "observer A y in world coordinates")
	h0       = flag.Float64("h0", 2, "observer A height above the surface")
	x1       = flag.Float64("x1", 0, "observer B x in world coordinates")
	y1       = flag.Float64("y1", 0, "observer B y in world coordinates")
	h1       = flag.Float64("h1", 2, "observer B height above the surface")
)

func main() {
	flag.Parse()
	if *demPath == "" || *metaPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	grid, meta, err := loadDEM(*demPath, *metaPath)
	if err != nil {
		log.Fatalf("load DEM: %v", err)
	}

	ax, ay, err := worldToGrid(meta, *x0, *y0)
	if err != nil {
		log.Fatalf("observer A: %v", err)
	}
	bx, by, err := worldToGrid(meta, *x1, *y1)
	if err != nil {
		log.Fatalf("observer B: %v", err)
	}

	za := surfaceHeight(grid, ax, ay) + *h0
	zb := surfaceHeight(grid, bx, by) + *h1

	visible := los.Visible(grid, ax, ay, za, bx, by, zb)
	frac := los.ClearFraction(grid, ax, ay, za, bx, by, zb)

	fmt.Printf("A (%.2f, %.2f) eye %.2f -> B (%.2f, %.2f) eye %.2f\n", *x0, *y0, za, *x1, *y1, zb)
	if visible {
		fmt.Println("visible: yes")
	} else {
		fmt.Println("visible: no")
	}
	fmt.Printf("clear fraction: %.3f\n", frac)
}

func loadDEM(demPath, metaPath string) (*dem.Grid, *export.Metadata, error) {
	raw, err := os.ReadFile(demPath)
	if err != nil {
		return nil, nil, err
	}
	grid, err := export.DecodeNPY(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", demPath, err)
	}
	rawMeta, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, nil, err
	}
	meta, err := export.ParseMetadata(rawMeta)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", metaPath, err)
	}
	if meta.Width != grid.Width || meta.Height != grid.Height {
		return nil, nil, fmt.Errorf("metadata shape %dx%d does not match dump shape %dx%d",
			meta.Width, meta.Height, grid.Width, grid.Height)
	}
	return grid, meta, nil
}

// worldToGrid maps world coordinates onto fractional grid coordinates
// using the node lattice recorded in the metadata. Row 0 sits on the
// south edge of the extent.
func worldToGrid(meta *export.Metadata, x, y float64) (gx, gy float64, err error) {
	sx := dem.NodeSpacing(meta.Bounds.XMin, meta.Bounds.XMax, meta.Width)
	sy := dem.NodeSpacing(meta.Bounds.YMin, meta.Bounds.YMax, meta.Height)
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	gx = (x - meta.Bounds.XMin) / sx
	gy = (y - meta.Bounds.YMin) / sy
	if gx < 0 || gy < 0 || gx > float64(meta.Width-1) || gy > float64(meta.Height-1) {
		return 0, 0, fmt.Errorf("point (%g, %g) is outside the DEM extent", x, y)
	}
	return gx, gy, nil
}

// surfaceHeight samples the nearest defined cell under a fractional
// grid coordinate, treating undefined cells as ground level zero.
func surfaceHeight(grid *dem.Grid, gx, gy float64) float64 {
	col := int(math.Round(gx))
	row := int(math.Round(gy))
	z := float64(grid.At(col, row))
	if math.IsNaN(z) {
		return 0
	}
	return z
}
