package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/banshee-data/terrain.report/internal/dem"
)

// npyMagic is the NPY format signature followed by version 1.0.
var npyMagic = []byte("\x93NUMPY\x01\x00")

// EncodeNPY serializes the grid as an NPY v1.0 array: little-endian
// float32, C order, shape (height, width). The cell bytes are written
// verbatim, so a reload reproduces the grid exactly.
func EncodeNPY(g *dem.Grid) ([]byte, error) {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", g.Height, g.Width)
	// Magic (8) + header length field (2) + header, padded with spaces
	// so the data section starts 64-byte aligned, newline terminated.
	pad := 64 - (len(npyMagic)+2+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += string(bytes.Repeat([]byte{' '}, pad)) + "\n"

	var buf bytes.Buffer
	buf.Grow(len(npyMagic) + 2 + len(header) + 4*len(g.Values))
	buf.Write(npyMagic)
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(header))); err != nil {
		return nil, fmt.Errorf("npy encode: %w", err)
	}
	buf.WriteString(header)
	for _, v := range g.Values {
		var cell [4]byte
		binary.LittleEndian.PutUint32(cell[:], math.Float32bits(v))
		buf.Write(cell[:])
	}
	return buf.Bytes(), nil
}

// npyHeaderRe extracts the fields the decoder cares about. Only the
// exact layout EncodeNPY produces is supported.
var npyHeaderRe = regexp.MustCompile(`'descr':\s*'<f4',\s*'fortran_order':\s*False,\s*'shape':\s*\((\d+),\s*(\d+)\)`)

// DecodeNPY parses an NPY v1.0 little-endian float32 array of shape
// (height, width) back into a grid.
func DecodeNPY(data []byte) (*dem.Grid, error) {
	if len(data) < len(npyMagic)+2 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return nil, fmt.Errorf("npy decode: not an NPY v1.0 file")
	}
	headerLen := int(binary.LittleEndian.Uint16(data[len(npyMagic):]))
	headerStart := len(npyMagic) + 2
	if len(data) < headerStart+headerLen {
		return nil, fmt.Errorf("npy decode: truncated header")
	}
	header := string(data[headerStart : headerStart+headerLen])

	m := npyHeaderRe.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("npy decode: unsupported header %q", header)
	}
	height, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("npy decode: bad height: %w", err)
	}
	width, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("npy decode: bad width: %w", err)
	}

	grid, err := dem.NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("npy decode: %w", err)
	}
	payload := data[headerStart+headerLen:]
	if len(payload) != 4*len(grid.Values) {
		return nil, fmt.Errorf("npy decode: expected %d data bytes for %dx%d, got %d",
			4*len(grid.Values), width, height, len(payload))
	}
	for i := range grid.Values {
		grid.Values[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:]))
	}
	return grid, nil
}
