package pointcloud

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadASC_SkipsCommentsAndExtraColumns(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"# Exported points",
		"# Format: X Y Z Intensity",
		"",
		"1.0 2.0 3.0 120",
		"-4.5 0.25 9.75",
	}, "\n")

	c, err := ReadASC(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []float64{1.0, -4.5}, c.X)
	assert.Equal(t, []float64{2.0, 0.25}, c.Y)
	assert.Equal(t, []float64{3.0, 9.75}, c.Z)
}

func TestReadASC_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"too few columns", "1.0 2.0"},
		{"non-numeric", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadASC(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadASC_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := ReadASC(strings.NewReader("# header only\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCloud))
}

func TestWriteASC_RoundTrip(t *testing.T) {
	t.Parallel()

	c := &Cloud{
		X: []float64{0, 1, 0.5},
		Y: []float64{0, 1, -0.5},
		Z: []float64{10, 20, 15.25},
	}
	path := filepath.Join(t.TempDir(), "cloud.asc")
	require.NoError(t, WriteASC(c, path))

	got, err := ReadASCFile(path)
	require.NoError(t, err)
	require.Equal(t, c.Len(), got.Len())
	for i := 0; i < c.Len(); i++ {
		assert.InDelta(t, c.X[i], got.X[i], 1e-6)
		assert.InDelta(t, c.Y[i], got.Y[i], 1e-6)
		assert.InDelta(t, c.Z[i], got.Z[i], 1e-6)
	}
}

func TestWriteASC_EmptyCloud(t *testing.T) {
	t.Parallel()

	err := WriteASC(&Cloud{}, filepath.Join(t.TempDir(), "empty.asc"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCloud))
}
