package rgbtext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0o755))

	images := []string{"a.png", "b.PNG", filepath.Join("sub", "c.png")}
	for _, file := range images {
		writePNG(t, filepath.Join(dir, file), gradient(3, 2))
	}
	writePNG(t, filepath.Join(dir, ".hidden", "d.png"), gradient(3, 2))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	require.NoError(t, New(nil).EncodeDir(context.Background(), dir, 2))

	for _, file := range images {
		b, err := os.ReadFile(filepath.Join(dir, strings.TrimSuffix(file, filepath.Ext(file))+Extension))
		require.NoError(t, err, file)
		assert.Equal(t, 6, strings.Count(string(b), "\n"))
	}

	_, err := os.Stat(filepath.Join(dir, ".hidden", "d"+Extension))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "notes"+Extension))
	assert.True(t, os.IsNotExist(err))
}

func TestEncodeDirError(t *testing.T) {
	dir := t.TempDir()
	for _, file := range []string{"a.png", "b.png", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte("garbage"), 0o644))
	}

	assert.Error(t, New(nil).EncodeDir(context.Background(), dir, 2))
}

func TestEncodeDirMissing(t *testing.T) {
	assert.Error(t, New(nil).EncodeDir(context.Background(), filepath.Join(t.TempDir(), "missing"), 1))
}

func TestEncodeDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), gradient(2, 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(nil).EncodeDir(ctx, dir, 1)
	assert.True(t, errors.Is(err, context.Canceled), err)
}
