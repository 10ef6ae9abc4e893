// Command demgen turns survey point clouds into DEM raster artifacts.
//
// It locates lidar tiles for a coordinate through the USGS catalog (or
// reads a local ASC file, or synthesizes terrain), rasterizes the
// cloud onto a regular grid, exports the GeoTIFF/NPY/metadata artifact
// set, and records the run in a local history database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/dem/export"
	"github.com/banshee-data/terrain.report/internal/demdb"
	"github.com/banshee-data/terrain.report/internal/pointcloud"
	"github.com/banshee-data/terrain.report/internal/usgs"
)

var (
	lat        = flag.Float64("lat", 39.7392, "latitude of the area of interest")
	lon        = flag.Float64("lon", -104.9903, "longitude of the area of interest")
	outputDir  = flag.String("output-dir", "lidar_data", "directory for exported artifacts")
	resolution = flag.Float64("resolution", 1.0, "grid resolution in source units per cell")
	gridWidth  = flag.Int("grid-width", 0, "explicit grid width (0 = derive from bounds)")
	gridHeight = flag.Int("grid-height", 0, "explicit grid height (0 = derive from bounds)")
	mode       = flag.String("mode", "nearest", "interpolation mode: nearest or linear")
	input      = flag.String("input", "", "local ASC point file to rasterize instead of fetching")
	sample     = flag.Bool("sample", false, "synthesize terrain instead of querying the catalog")
	seed       = flag.Uint64("seed", 1, "seed for synthetic terrain")
	preview    = flag.Bool("preview", false, "also render a preview PNG heatmap")
	dbPath     = flag.String("db", "dem_runs.db", "run history database path (empty = don't record)")
)

func main() {
	flag.Parse()

	exporter := export.NewExporter(*outputDir)
	exporter.Preview = *preview

	// Preflight: fail before any computation if the output location or
	// run database is unusable.
	if err := exporter.EnsureDir(); err != nil {
		log.Fatalf("preflight: %v", err)
	}
	var db *demdb.DB
	if *dbPath != "" {
		var err error
		db, err = demdb.Open(*dbPath)
		if err != nil {
			log.Fatalf("preflight: %v", err)
		}
		defer db.Close()
	}

	cloud, sourceName, err := acquireCloud(context.Background())
	if err != nil {
		log.Fatalf("acquire point cloud: %v", err)
	}
	log.Printf("rasterizing %d points from %s", cloud.Len(), sourceName)

	opts := dem.Options{Resolution: *resolution, Mode: dem.Mode(*mode)}
	if *gridWidth > 0 || *gridHeight > 0 {
		opts.Shape = &dem.Shape{Width: *gridWidth, Height: *gridHeight}
	}
	result, err := dem.Rasterize(cloud, opts)
	if err != nil {
		log.Fatalf("rasterize: %v", err)
	}

	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	artifacts, meta, err := exporter.Export(base, result, *resolution, cloud.Len(), filepath.Base(sourceName))
	if err != nil {
		log.Fatalf("export: %v", err)
	}

	if db != nil {
		run := &demdb.Run{
			SourceFile:   meta.SourceFile,
			SourcePoints: meta.SourcePoints,
			Width:        meta.Width,
			Height:       meta.Height,
			Resolution:   meta.Resolution,
			XMin:         meta.Bounds.XMin, XMax: meta.Bounds.XMax,
			YMin: meta.Bounds.YMin, YMax: meta.Bounds.YMax,
			ZMin: meta.Bounds.ZMin, ZMax: meta.Bounds.ZMax,
			RasterPath:   artifacts.RasterPath,
			DumpPath:     artifacts.DumpPath,
			MetadataPath: artifacts.MetadataPath,
		}
		if err := db.InsertRun(run); err != nil {
			log.Fatalf("record run: %v", err)
		}
		log.Printf("recorded run %s", run.RunID)
	}

	log.Printf("DEM ready: %dx%d cells, elevation %.2f..%.2f", meta.Width, meta.Height, meta.Bounds.ZMin, meta.Bounds.ZMax)
	log.Printf("  raster:   %s", artifacts.RasterPath)
	log.Printf("  raw dump: %s", artifacts.DumpPath)
	log.Printf("  metadata: %s", artifacts.MetadataPath)
	if artifacts.PreviewPath != "" {
		log.Printf("  preview:  %s", artifacts.PreviewPath)
	}
}

// acquireCloud picks the point cloud source for this run: a local ASC
// file, synthetic terrain, or the USGS catalog with a synthetic
// fallback when nothing usable is available.
func acquireCloud(ctx context.Context) (*pointcloud.Cloud, string, error) {
	if *input != "" {
		cloud, err := pointcloud.ReadASCFile(*input)
		if err != nil {
			return nil, "", err
		}
		return cloud, *input, nil
	}

	if !*sample {
		tiles, err := usgs.NewClient(nil).FindTiles(ctx, *lat, *lon)
		if err != nil {
			log.Printf("catalog unavailable (%v); falling back to synthetic terrain", err)
		} else if len(tiles) == 0 {
			log.Printf("no lidar data found near (%.4f, %.4f); falling back to synthetic terrain", *lat, *lon)
		} else {
			for i, tile := range tiles {
				log.Printf("%d. %s (%s)", i+1, tile.Title, tile.Format)
			}
			if cloud, name, ok := fetchASCTile(ctx, tiles); ok {
				return cloud, name, nil
			}
			log.Printf("no tile in a directly readable format; falling back to synthetic terrain")
		}
	}

	cloud := pointcloud.Synthesize(pointcloud.DefaultSyntheticParams(*seed))
	name := fmt.Sprintf("synthetic_%g_%g.asc", *lat, *lon)
	return cloud, name, nil
}

// fetchASCTile downloads and parses the first catalog tile offered in
// a plain-text point format. Compressed container formats (LAZ/LAS)
// need an external conversion step and are skipped.
func fetchASCTile(ctx context.Context, tiles []usgs.Tile) (*pointcloud.Cloud, string, bool) {
	client := usgs.NewClient(nil)
	for _, tile := range tiles {
		format := strings.ToUpper(tile.Format)
		if format != "ASC" && format != "XYZ" && format != "TXT" {
			continue
		}
		dest := filepath.Join(*outputDir, filepath.Base(tile.DownloadURL))
		if _, err := client.Download(ctx, tile.DownloadURL, dest); err != nil {
			log.Printf("download %s failed: %v", tile.Title, err)
			continue
		}
		cloud, err := pointcloud.ReadASCFile(dest)
		if err != nil {
			log.Printf("parse %s failed: %v", dest, err)
			if rmErr := os.Remove(dest); rmErr != nil {
				log.Printf("could not remove unusable download %s: %v", dest, rmErr)
			}
			continue
		}
		return cloud, dest, true
	}
	return nil, "", false
}
