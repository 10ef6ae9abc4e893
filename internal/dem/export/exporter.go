package export

import (
	"fmt"
	"path/filepath"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/fsutil"
	"github.com/banshee-data/terrain.report/internal/monitoring"
)

// ExportError reports a failed export and names the artifact whose
// write failed. By the time the caller sees it, any artifacts written
// earlier in the same export have been removed: an export either
// produces the full consistent set or nothing.
type ExportError struct {
	Artifact string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Artifact, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Artifacts holds the paths of one export's outputs. PreviewPath is
// empty when no preview was requested.
type Artifacts struct {
	RasterPath   string
	DumpPath     string
	MetadataPath string
	PreviewPath  string
}

// Exporter writes grid artifacts beneath a single output directory.
// All filesystem access goes through FS so exports are testable
// in memory.
type Exporter struct {
	FS  fsutil.FileSystem
	Dir string

	// Preview additionally renders a PNG heatmap next to the core
	// artifacts.
	Preview bool
}

// NewExporter creates an exporter rooted at dir on the real
// filesystem.
func NewExporter(dir string) *Exporter {
	return &Exporter{FS: fsutil.OSFileSystem{}, Dir: dir}
}

// EnsureDir idempotently creates the output directory. Kept separate
// from construction so building an Exporter has no side effects.
func (e *Exporter) EnsureDir() error {
	if err := e.FS.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("ensure output dir %s: %w", e.Dir, err)
	}
	return nil
}

// Export writes the raster, raw dump and metadata record for a
// finished rasterization, named <base>_dem.tif / _dem.npy /
// _dem_meta.json. Any write failure removes the artifacts already
// written and returns an *ExportError.
func (e *Exporter) Export(base string, res *dem.Result, resolution float64, sourcePoints int, sourceFile string) (*Artifacts, *Metadata, error) {
	meta, err := BuildMetadata(res.Grid, res.Bounds, resolution, sourcePoints, sourceFile)
	if err != nil {
		return nil, nil, &ExportError{Artifact: "metadata", Err: err}
	}

	art := &Artifacts{
		RasterPath:   filepath.Join(e.Dir, base+"_dem.tif"),
		DumpPath:     filepath.Join(e.Dir, base+"_dem.npy"),
		MetadataPath: filepath.Join(e.Dir, base+"_dem_meta.json"),
	}

	var written []string
	cleanup := func() {
		for _, path := range written {
			if err := e.FS.Remove(path); err != nil {
				monitoring.Logf("export: could not remove partial artifact %s: %v", path, err)
			}
		}
	}
	write := func(name, path string, encode func() ([]byte, error)) error {
		data, err := encode()
		if err != nil {
			cleanup()
			return &ExportError{Artifact: name, Err: err}
		}
		if err := e.FS.WriteFile(path, data, 0644); err != nil {
			cleanup()
			return &ExportError{Artifact: name, Err: err}
		}
		written = append(written, path)
		return nil
	}

	if err := write("raster", art.RasterPath, func() ([]byte, error) {
		return EncodeGeoTIFF(res.Grid, res.Bounds)
	}); err != nil {
		return nil, nil, err
	}
	if err := write("raw dump", art.DumpPath, func() ([]byte, error) {
		return EncodeNPY(res.Grid)
	}); err != nil {
		return nil, nil, err
	}
	if err := write("metadata", art.MetadataPath, func() ([]byte, error) {
		return MarshalMetadata(meta)
	}); err != nil {
		return nil, nil, err
	}

	if e.Preview {
		art.PreviewPath = filepath.Join(e.Dir, base+"_dem.png")
		if err := write("preview", art.PreviewPath, func() ([]byte, error) {
			return RenderPreviewPNG(res.Grid, res.Bounds)
		}); err != nil {
			return nil, nil, err
		}
	}

	monitoring.Logf("export: wrote %dx%d grid artifacts under %s", res.Grid.Width, res.Grid.Height, e.Dir)
	return art, meta, nil
}
