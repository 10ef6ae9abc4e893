package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/banshee-data/terrain.report/internal/dem"
	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// GeoTransform is the affine mapping from pixel (col, row) to model
// coordinates: x = OriginX + col*ScaleX, y = OriginY + row*ScaleY.
// Row 0 sits at the south edge (YMin), matching the grid layout, so
// the raster carries the same row order as the raw dump.
type GeoTransform struct {
	OriginX float64
	OriginY float64
	ScaleX  float64
	ScaleY  float64
}

// TIFF field types and the tags the codec uses.
const (
	tiffShort  = 3
	tiffLong   = 4
	tiffDouble = 12

	tagImageWidth       = 256
	tagImageLength      = 257
	tagBitsPerSample    = 258
	tagCompression      = 259
	tagPhotometric      = 262
	tagStripOffsets     = 273
	tagSamplesPerPixel  = 277
	tagRowsPerStrip     = 278
	tagStripByteCounts  = 279
	tagSampleFormat     = 339
	tagModelPixelScale  = 33550
	tagModelTiepoint    = 33922
	tagGeoKeyDirectory  = 34735
	sampleFormatIEEEFP  = 3
	geoModelUserDefined = 32767
)

// transformFor derives the affine transform from the covered bounds
// and grid shape. Degenerate single-node axes get unit scale.
func transformFor(g *dem.Grid, b pointcloud.Bounds) GeoTransform {
	sx := dem.NodeSpacing(b.XMin, b.XMax, g.Width)
	sy := dem.NodeSpacing(b.YMin, b.YMax, g.Height)
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return GeoTransform{OriginX: b.XMin, OriginY: b.YMin, ScaleX: sx, ScaleY: sy}
}

// EncodeGeoTIFF serializes the grid as a little-endian single-strip
// GeoTIFF: one 32-bit IEEE float band, ModelTiepoint/ModelPixelScale
// anchoring pixel (0,0) at (XMin, YMin), and a user-defined
// (placeholder) model type in the GeoKey directory.
func EncodeGeoTIFF(g *dem.Grid, b pointcloud.Bounds) ([]byte, error) {
	tr := transformFor(g, b)

	type entry struct {
		tag, typ uint16
		count    uint32
		value    uint32 // inline value or external offset
	}

	const (
		headerSize = 8
		entrySize  = 12
		numEntries = 13
		ifdSize    = 2 + numEntries*entrySize + 4
	)
	extStart := uint32(headerSize + ifdSize)

	pixelScale := []float64{tr.ScaleX, tr.ScaleY, 0}
	tiepoint := []float64{0, 0, 0, tr.OriginX, tr.OriginY, 0}
	// GeoKey directory: version 1.1, one key: GTModelTypeGeoKey set to
	// user-defined. The grid carries no real projection.
	geoKeys := []uint16{1, 1, 0, 1, 1024, 0, 1, geoModelUserDefined}

	scaleOff := extStart
	tieOff := scaleOff + uint32(8*len(pixelScale))
	keysOff := tieOff + uint32(8*len(tiepoint))
	dataOff := keysOff + uint32(2*len(geoKeys))
	dataLen := uint32(4 * len(g.Values))

	entries := []entry{
		{tagImageWidth, tiffLong, 1, uint32(g.Width)},
		{tagImageLength, tiffLong, 1, uint32(g.Height)},
		{tagBitsPerSample, tiffShort, 1, 32},
		{tagCompression, tiffShort, 1, 1},
		{tagPhotometric, tiffShort, 1, 1},
		{tagStripOffsets, tiffLong, 1, dataOff},
		{tagSamplesPerPixel, tiffShort, 1, 1},
		{tagRowsPerStrip, tiffLong, 1, uint32(g.Height)},
		{tagStripByteCounts, tiffLong, 1, dataLen},
		{tagSampleFormat, tiffShort, 1, sampleFormatIEEEFP},
		{tagModelPixelScale, tiffDouble, uint32(len(pixelScale)), scaleOff},
		{tagModelTiepoint, tiffDouble, uint32(len(tiepoint)), tieOff},
		{tagGeoKeyDirectory, tiffShort, uint32(len(geoKeys)), keysOff},
	}

	var buf bytes.Buffer
	buf.Grow(int(dataOff + dataLen))
	le := binary.LittleEndian

	// Header: little-endian marker, magic 42, IFD immediately after.
	buf.WriteString("II")
	writeU16 := func(v uint16) {
		var b2 [2]byte
		le.PutUint16(b2[:], v)
		buf.Write(b2[:])
	}
	writeU32 := func(v uint32) {
		var b4 [4]byte
		le.PutUint32(b4[:], v)
		buf.Write(b4[:])
	}
	writeU16(42)
	writeU32(headerSize)

	writeU16(numEntries)
	for _, e := range entries {
		writeU16(e.tag)
		writeU16(e.typ)
		writeU32(e.count)
		if e.typ == tiffShort && e.count == 1 {
			writeU16(uint16(e.value))
			writeU16(0)
		} else {
			writeU32(e.value)
		}
	}
	writeU32(0) // no next IFD

	for _, v := range pixelScale {
		var b8 [8]byte
		le.PutUint64(b8[:], math.Float64bits(v))
		buf.Write(b8[:])
	}
	for _, v := range tiepoint {
		var b8 [8]byte
		le.PutUint64(b8[:], math.Float64bits(v))
		buf.Write(b8[:])
	}
	for _, v := range geoKeys {
		writeU16(v)
	}

	for _, v := range g.Values {
		writeU32(math.Float32bits(v))
	}

	if uint32(buf.Len()) != dataOff+dataLen {
		return nil, fmt.Errorf("geotiff encode: layout mismatch, wrote %d bytes, expected %d",
			buf.Len(), dataOff+dataLen)
	}
	return buf.Bytes(), nil
}

// DecodeGeoTIFF parses a GeoTIFF produced by EncodeGeoTIFF (or any
// little-endian, uncompressed, single-strip float32 single-band TIFF)
// back into a grid and its affine transform.
func DecodeGeoTIFF(data []byte) (*dem.Grid, GeoTransform, error) {
	le := binary.LittleEndian
	var tr GeoTransform
	if len(data) < 8 || string(data[:2]) != "II" || le.Uint16(data[2:]) != 42 {
		return nil, tr, fmt.Errorf("geotiff decode: not a little-endian TIFF")
	}
	ifdOff := le.Uint32(data[4:])
	if int(ifdOff)+2 > len(data) {
		return nil, tr, fmt.Errorf("geotiff decode: truncated IFD")
	}
	n := int(le.Uint16(data[ifdOff:]))
	if int(ifdOff)+2+n*12 > len(data) {
		return nil, tr, fmt.Errorf("geotiff decode: truncated IFD entries")
	}

	var width, height, stripOff, stripLen uint32
	bits, format := uint32(0), uint32(0)
	readDoubles := func(off, count uint32) ([]float64, error) {
		if int(off)+int(count)*8 > len(data) {
			return nil, fmt.Errorf("geotiff decode: value out of range")
		}
		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(data[off+uint32(i)*8:]))
		}
		return out, nil
	}

	for i := 0; i < n; i++ {
		e := data[int(ifdOff)+2+i*12:]
		tag := le.Uint16(e)
		typ := le.Uint16(e[2:])
		count := le.Uint32(e[4:])
		var val uint32
		if typ == tiffShort && count == 1 {
			val = uint32(le.Uint16(e[8:]))
		} else {
			val = le.Uint32(e[8:])
		}

		switch tag {
		case tagImageWidth:
			width = val
		case tagImageLength:
			height = val
		case tagBitsPerSample:
			bits = val
		case tagCompression:
			if val != 1 {
				return nil, tr, fmt.Errorf("geotiff decode: compression %d not supported", val)
			}
		case tagStripOffsets:
			if count != 1 {
				return nil, tr, fmt.Errorf("geotiff decode: multi-strip images not supported")
			}
			stripOff = val
		case tagStripByteCounts:
			stripLen = val
		case tagSampleFormat:
			format = val
		case tagModelPixelScale:
			scale, err := readDoubles(val, count)
			if err != nil || len(scale) < 2 {
				return nil, tr, fmt.Errorf("geotiff decode: bad pixel scale")
			}
			tr.ScaleX, tr.ScaleY = scale[0], scale[1]
		case tagModelTiepoint:
			tie, err := readDoubles(val, count)
			if err != nil || len(tie) < 5 {
				return nil, tr, fmt.Errorf("geotiff decode: bad tiepoint")
			}
			tr.OriginX, tr.OriginY = tie[3], tie[4]
		}
	}

	if bits != 32 || format != sampleFormatIEEEFP {
		return nil, tr, fmt.Errorf("geotiff decode: expected float32 samples, got %d-bit format %d", bits, format)
	}
	grid, err := dem.NewGrid(int(width), int(height))
	if err != nil {
		return nil, tr, fmt.Errorf("geotiff decode: %w", err)
	}
	if stripLen != uint32(4*len(grid.Values)) || int(stripOff)+int(stripLen) > len(data) {
		return nil, tr, fmt.Errorf("geotiff decode: strip size %d inconsistent with %dx%d grid",
			stripLen, width, height)
	}
	for i := range grid.Values {
		grid.Values[i] = math.Float32frombits(le.Uint32(data[stripOff+uint32(4*i):]))
	}
	return grid, tr, nil
}
