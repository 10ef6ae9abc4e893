package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_WriteReadRemove(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	err := m.WriteFile("out/dem.npy", []byte{1, 2, 3}, 0644)
	require.NoError(t, err)

	data, err := m.ReadFile("out/dem.npy")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.True(t, m.Exists("out/dem.npy"))

	require.NoError(t, m.Remove("out/dem.npy"))
	assert.False(t, m.Exists("out/dem.npy"))

	_, err = m.ReadFile("out/dem.npy")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_WriteIsolation(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	buf := []byte{9, 9}
	require.NoError(t, m.WriteFile("a", buf, 0644))
	buf[0] = 0

	data, err := m.ReadFile("a")
	require.NoError(t, err)
	assert.Equal(t, byte(9), data[0], "stored data must not alias caller buffer")
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("a/b/c", 0755))
	assert.True(t, m.Exists("a/b/c"))
	assert.True(t, m.Exists("a/b"))
	assert.True(t, m.Exists("a"))
}

func TestMemoryFileSystem_FailWrites(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	m.FailWrites = map[string]bool{"dem.tif": true}

	err := m.WriteFile("out/dem.tif", []byte{1}, 0644)
	assert.Error(t, err)
	assert.False(t, m.Exists("out/dem.tif"))

	assert.NoError(t, m.WriteFile("out/dem.npy", []byte{1}, 0644))
}

func TestOSFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()

	var o OSFileSystem
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "meta.json")

	require.NoError(t, o.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, o.WriteFile(path, []byte(`{}`), 0644))
	assert.True(t, o.Exists(path))

	data, err := o.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), data)

	require.NoError(t, o.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
