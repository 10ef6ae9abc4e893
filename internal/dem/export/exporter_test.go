package export

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/fsutil"
	"github.com/banshee-data/terrain.report/internal/monitoring"
	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

func init() {
	monitoring.SetLogger(nil)
}

func testResult(t *testing.T) *dem.Result {
	t.Helper()
	c := &pointcloud.Cloud{
		X: []float64{0, 10, 0, 10},
		Y: []float64{0, 0, 10, 10},
		Z: []float64{1, 2, 3, 4},
	}
	res, err := dem.Rasterize(c, dem.Options{Resolution: 2.5})
	require.NoError(t, err)
	return res
}


func TestExport_WritesConsistentArtifacts(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	e := &Exporter{FS: fs, Dir: "out"}
	require.NoError(t, e.EnsureDir())

	res := testResult(t)
	art, meta, err := e.Export("tile42", res, 2.5, 4, "tile42.laz")
	require.NoError(t, err)

	assert.Equal(t, "out/tile42_dem.tif", art.RasterPath)
	assert.Equal(t, "out/tile42_dem.npy", art.DumpPath)
	assert.Equal(t, "out/tile42_dem_meta.json", art.MetadataPath)
	assert.Empty(t, art.PreviewPath)

	// Reload all three and cross-check: same shape, same values.
	rasterData, err := fs.ReadFile(art.RasterPath)
	require.NoError(t, err)
	rasterGrid, _, err := DecodeGeoTIFF(rasterData)
	require.NoError(t, err)

	dumpData, err := fs.ReadFile(art.DumpPath)
	require.NoError(t, err)
	dumpGrid, err := DecodeNPY(dumpData)
	require.NoError(t, err)

	metaData, err := fs.ReadFile(art.MetadataPath)
	require.NoError(t, err)
	gotMeta, err := ParseMetadata(metaData)
	require.NoError(t, err)

	assert.Equal(t, res.Grid.Values, rasterGrid.Values)
	assert.Equal(t, res.Grid.Values, dumpGrid.Values)
	assert.Equal(t, res.Grid.Width, gotMeta.Width)
	assert.Equal(t, res.Grid.Height, gotMeta.Height)
	if diff := cmp.Diff(meta, gotMeta); diff != "" {
		t.Errorf("metadata round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_MetadataZRangeFromGrid(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	e := &Exporter{FS: fs, Dir: "out"}
	require.NoError(t, e.EnsureDir())

	res := testResult(t)
	_, meta, err := e.Export("t", res, 2.5, 4, "t.laz")
	require.NoError(t, err)

	zmin, zmax, ok := res.Grid.ZRange()
	require.True(t, ok)
	assert.Equal(t, float64(zmin), meta.Bounds.ZMin)
	assert.Equal(t, float64(zmax), meta.Bounds.ZMax)
	// Source cloud x/y extent is carried through unchanged.
	assert.Equal(t, 0.0, meta.Bounds.XMin)
	assert.Equal(t, 10.0, meta.Bounds.XMax)
	assert.Equal(t, 4, meta.SourcePoints)
	assert.Equal(t, "t.laz", meta.SourceFile)
}

func TestExport_FailureRemovesPartialArtifacts(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	fs.FailWrites = map[string]bool{"t_dem.npy": true}
	e := &Exporter{FS: fs, Dir: "out"}
	require.NoError(t, e.EnsureDir())

	res := testResult(t)
	_, _, err := e.Export("t", res, 2.5, 4, "t.laz")
	require.Error(t, err)

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "raw dump", exportErr.Artifact)

	// The raster written before the failure must be gone.
	assert.False(t, fs.Exists("out/t_dem.tif"))
	assert.False(t, fs.Exists("out/t_dem.npy"))
	assert.False(t, fs.Exists("out/t_dem_meta.json"))
}

func TestExport_WithPreview(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	e := &Exporter{FS: fs, Dir: "out", Preview: true}
	require.NoError(t, e.EnsureDir())

	res := testResult(t)
	art, _, err := e.Export("t", res, 2.5, 4, "t.laz")
	require.NoError(t, err)
	require.NotEmpty(t, art.PreviewPath)

	png, err := fs.ReadFile(art.PreviewPath)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestBuildMetadata_AllUndefinedGrid(t *testing.T) {
	t.Parallel()

	g, err := dem.NewGrid(2, 2)
	require.NoError(t, err)
	for i := range g.Values {
		g.Values[i] = float32(math.NaN())
	}
	_, err = BuildMetadata(g, pointcloud.Bounds{}, 1, 0, "x")
	assert.Error(t, err)
}
