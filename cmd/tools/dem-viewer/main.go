// Command dem-viewer serves an interactive heatmap of an exported DEM.
// It loads the NPY elevation dump plus its metadata sidecar once at
// startup and renders a go-echarts scatter heatmap on each request,
// downsampling by stride so large grids stay browsable.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/dem/export"
	"github.com/banshee-data/terrain.report/internal/monitoring"
)

var (
	demPath  = flag.String("dem", "", "path to the _dem.npy elevation dump (required)")
	metaPath = flag.String("meta", "", "path to the _dem_meta.json sidecar (required)")
	listen   = flag.String("listen", ":8080", "HTTP listen address")
)

// viridis, low elevation to high.
var elevationPalette = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

type viewer struct {
	grid *dem.Grid
	meta *export.Metadata
}

func main() {
	flag.Parse()
	if *demPath == "" || *metaPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	v, err := loadViewer(*demPath, *metaPath)
	if err != nil {
		log.Fatalf("load DEM: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", v.handleHeatmap)
	mux.HandleFunc("/meta", v.handleMetadata)

	monitoring.Logf("dem-viewer: serving %s (%dx%d) on %s", v.meta.SourceFile, v.meta.Width, v.meta.Height, *listen)
	if err := http.ListenAndServe(*listen, mux); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func loadViewer(demPath, metaPath string) (*viewer, error) {
	raw, err := os.ReadFile(demPath)
	if err != nil {
		return nil, err
	}
	grid, err := export.DecodeNPY(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", demPath, err)
	}
	rawMeta, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	meta, err := export.ParseMetadata(rawMeta)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", metaPath, err)
	}
	if meta.Width != grid.Width || meta.Height != grid.Height {
		return nil, fmt.Errorf("metadata shape %dx%d does not match dump shape %dx%d",
			meta.Width, meta.Height, grid.Width, grid.Height)
	}
	return &viewer{grid: grid, meta: meta}, nil
}

// handleHeatmap renders the elevation grid as an HTML scatter heatmap.
// Query params:
//   - max_points (optional; default 8000) to reduce payload size
func (v *viewer) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	maxPoints := 8000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if n, err := strconv.Atoi(mp); err == nil && n > 100 && n <= 50000 {
			maxPoints = n
		}
	}

	// Downsample by stride in both axes to stay within maxPoints.
	cells := v.grid.Width * v.grid.Height
	stride := 1
	if cells > maxPoints {
		stride = int(math.Ceil(math.Sqrt(float64(cells) / float64(maxPoints))))
	}

	sx := dem.NodeSpacing(v.meta.Bounds.XMin, v.meta.Bounds.XMax, v.grid.Width)
	sy := dem.NodeSpacing(v.meta.Bounds.YMin, v.meta.Bounds.YMax, v.grid.Height)

	data := make([]opts.ScatterData, 0, cells/(stride*stride)+1)
	for row := 0; row < v.grid.Height; row += stride {
		for col := 0; col < v.grid.Width; col += stride {
			z := v.grid.At(col, row)
			if z != z { // skip NaN
				continue
			}
			x := v.meta.Bounds.XMin + float64(col)*sx
			y := v.meta.Bounds.YMin + float64(row)*sy
			data = append(data, opts.ScatterData{Value: []interface{}{x, y, z}})
		}
	}

	zMin, zMax, ok := v.grid.ZRange()
	if !ok {
		http.Error(w, "DEM has no defined cells", http.StatusUnprocessableEntity)
		return
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "DEM Viewer", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Digital Elevation Model",
			Subtitle: fmt.Sprintf("source=%s grid=%dx%d points=%d stride=%d", v.meta.SourceFile, v.grid.Width, v.grid.Height, len(data), stride),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: v.meta.Bounds.XMin, Max: v.meta.Bounds.XMax, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: v.meta.Bounds.YMin, Max: v.meta.Bounds.YMax, Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        zMin,
			Max:        zMax,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: elevationPalette},
		}),
	)

	scatter.AddSeries("elevation", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (v *viewer) handleMetadata(w http.ResponseWriter, r *http.Request) {
	out, err := export.MarshalMetadata(v.meta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}
