package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

func TestGeoTIFF_RoundTrip(t *testing.T) {
	t.Parallel()

	g := randomGrid(t, 20, 12, 9)
	b := pointcloud.Bounds{XMin: -50, XMax: 50, YMin: 10, YMax: 32}

	data, err := EncodeGeoTIFF(g, b)
	require.NoError(t, err)

	got, tr, err := DecodeGeoTIFF(data)
	require.NoError(t, err)
	assert.Equal(t, g.Width, got.Width)
	assert.Equal(t, g.Height, got.Height)
	assert.Equal(t, g.Values, got.Values)

	// Affine transform anchors pixel (0,0) at the bounds origin and
	// steps by the mesh node spacing.
	assert.Equal(t, -50.0, tr.OriginX)
	assert.Equal(t, 10.0, tr.OriginY)
	assert.InDelta(t, 100.0/19.0, tr.ScaleX, 1e-12)
	assert.InDelta(t, 22.0/11.0, tr.ScaleY, 1e-12)

	// The last pixel must land on the far bounds corner.
	lastX := tr.OriginX + tr.ScaleX*float64(g.Width-1)
	lastY := tr.OriginY + tr.ScaleY*float64(g.Height-1)
	assert.InDelta(t, b.XMax, lastX, 1e-9)
	assert.InDelta(t, b.YMax, lastY, 1e-9)
}

func TestGeoTIFF_SingleCell(t *testing.T) {
	t.Parallel()

	g := randomGrid(t, 1, 1, 2)
	b := pointcloud.Bounds{XMin: 5, XMax: 5, YMin: 5, YMax: 5}

	data, err := EncodeGeoTIFF(g, b)
	require.NoError(t, err)

	got, tr, err := DecodeGeoTIFF(data)
	require.NoError(t, err)
	assert.Equal(t, g.Values, got.Values)
	assert.Equal(t, 5.0, tr.OriginX)
	// Degenerate axes fall back to unit scale.
	assert.Equal(t, 1.0, tr.ScaleX)
	assert.Equal(t, 1.0, tr.ScaleY)
}

func TestDecodeGeoTIFF_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"wrong magic", []byte("MM\x00\x2a\x00\x00\x00\x08")},
		{"truncated", []byte("II\x2a\x00\x08\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := DecodeGeoTIFF(tt.data)
			assert.Error(t, err)
		})
	}
}
