package rgbtext

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/rgbtext/raw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigMissing(t *testing.T) {
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), ConfigFilename))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestReadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), ConfigFilename)
	require.NoError(t, os.WriteFile(file, []byte("width: 64\nheight: 40\nbackground: \"255, 255, 255\"\npalette: 16\n"), 0o644))

	cfg, err := ReadConfig(file)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Width = 64
	want.Height = 40
	want.Background = "255, 255, 255"
	want.Palette = 16
	assert.Equal(t, want, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	tables := map[string]string{
		"syntax":     "width: [",
		"size":       "width: 0\n",
		"weight":     "weight: 2\n",
		"points":     "points: 2\n",
		"polygons":   "polygons: -1\n",
		"palette":    "palette: -1\n",
		"background": "background: red\n",
	}

	for name, content := range tables {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), ConfigFilename)
			require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

			_, err := ReadConfig(file)
			assert.Error(t, err)
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, ConfigFilename, filepath.Base(path))
}

func TestParseColor(t *testing.T) {
	tables := []struct {
		input string
		want  color.RGBA
		err   error
	}{
		{"0, 0, 0", color.RGBA{0, 0, 0, 0xff}, nil},
		{"255,128, 1", color.RGBA{255, 128, 1, 0xff}, nil},
		{"256, 0, 0", color.RGBA{}, raw.ErrRange},
		{"1, 2", color.RGBA{}, raw.ErrSyntax},
		{"a, b, c", color.RGBA{}, raw.ErrSyntax},
		{"+5, 0, 0", color.RGBA{}, raw.ErrSyntax},
		{"-0, 0, 0", color.RGBA{}, raw.ErrSyntax},
	}

	for _, table := range tables {
		c, err := ParseColor(table.input)
		if table.err == nil {
			require.NoError(t, err, table.input)
			assert.Equal(t, table.want, c)
		} else {
			assert.True(t, errors.Is(err, table.err), table.input)
		}

		// Records and colors share one grammar
		rc, rerr := raw.ParseRecord([]byte(table.input))
		assert.Equal(t, rc, c, table.input)
		assert.Equal(t, table.err, rerr, table.input)
	}
}
