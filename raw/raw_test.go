package raw

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func markerImage(width, height int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := Offset(x, y, width)
			m.SetRGBA(x, y, color.RGBA{uint8(i), uint8(x), uint8(y), 0xff})
		}
	}
	return m
}

func TestIndex(t *testing.T) {
	const width, height = 3, 2

	for i := 0; i < width*height; i++ {
		x, y := Index(i, width)
		assert.Equal(t, i%width, x)
		assert.Equal(t, i/width, y)
		assert.Equal(t, i, Offset(x, y, width))
	}
}

func TestEncode(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.SetRGBA(0, 0, color.RGBA{255, 0, 0, 0xff})
	m.SetRGBA(1, 0, color.RGBA{0, 255, 0, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, "255, 0, 0\n0, 255, 0\n", b.String())
}

func TestEncodeLineCount(t *testing.T) {
	tables := []struct {
		width, height int
	}{
		{1, 1},
		{3, 2},
		{7, 5},
		{200, 200},
	}

	for _, table := range tables {
		b := new(bytes.Buffer)
		require.NoError(t, Encode(b, markerImage(table.width, table.height)))
		assert.Equal(t, table.width*table.height, strings.Count(b.String(), "\n"))
	}
}

func TestEncodeOffsetBounds(t *testing.T) {
	m := markerImage(4, 4).SubImage(image.Rect(1, 1, 3, 2))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, "5, 1, 1\n6, 2, 1\n", b.String())
}

func TestEncodeNonRGBA(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 1, 1))
	m.SetGray(0, 0, color.Gray{Y: 128})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, "128, 128, 128\n", b.String())
}

func TestEncodeWriteError(t *testing.T) {
	assert.EqualError(t, Encode(failWriter{}, markerImage(2, 2)), "disk full")
}

func TestDecodeRowMajor(t *testing.T) {
	const width, height = 3, 2

	var s strings.Builder
	for i := 0; i < width*height; i++ {
		fmt.Fprintf(&s, "%d, %d, %d\n", 100+i, i%width, i/width)
	}

	m, err := Decode(strings.NewReader(s.String()), width, height)
	require.NoError(t, err)

	for i := 0; i < width*height; i++ {
		x, y := Index(i, width)
		assert.Equal(t, color.RGBA{uint8(100 + i), uint8(x), uint8(y), 0xff}, m.RGBAAt(x, y), "record %d", i)
	}
}

func TestRoundTrip(t *testing.T) {
	tables := []struct {
		width, height int
	}{
		{1, 1},
		{3, 2},
		{16, 9},
	}

	for _, table := range tables {
		src := markerImage(table.width, table.height)

		b := new(bytes.Buffer)
		require.NoError(t, Encode(b, src))

		dst, err := Decode(b, table.width, table.height)
		require.NoError(t, err)
		assert.Equal(t, src.Pix, dst.Pix)
	}
}

func TestDecodeShortStream(t *testing.T) {
	m, err := Decode(strings.NewReader("10, 20, 30\n40, 50, 60\n"), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{10, 20, 30, 0xff}, m.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{40, 50, 60, 0xff}, m.RGBAAt(1, 0))
	assert.Equal(t, DefaultBackground, m.RGBAAt(0, 1))
	assert.Equal(t, DefaultBackground, m.RGBAAt(1, 1))
}

func TestDecodeInto(t *testing.T) {
	bg := color.RGBA{1, 2, 3, 0xff}
	m := NewImage(2, 2, bg)

	n, err := DecodeInto(strings.NewReader("9, 9, 9\r\n8,8,8"), m)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, color.RGBA{9, 9, 9, 0xff}, m.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{8, 8, 8, 0xff}, m.RGBAAt(1, 0))
	assert.Equal(t, bg, m.RGBAAt(1, 1))
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name  string
		input string
		line  int
		err   error
	}{
		{"two fields", "1, 2, 3\n4, 5\n", 1, ErrSyntax},
		{"four fields", "1, 2, 3, 4\n", 0, ErrSyntax},
		{"not a number", "1, 2, 3\n1, 2, 3\n1, x, 3\n", 2, ErrSyntax},
		{"empty line", "1, 2, 3\n\n", 1, ErrSyntax},
		{"negative", "-1, 0, 0\n", 0, ErrSyntax},
		{"signed", "1, 2, 3\n+5, 0, 0\n", 1, ErrSyntax},
		{"too big", "0, 0, 256\n", 0, ErrRange},
		{"overflow", "99999999999999999999, 0, 0\n", 0, ErrRange},
		{"long line", "1, 2, 3\n" + strings.Repeat(" ", 70000) + "4, 5, 6\n", 1, ErrSyntax},
		{"too many", "1, 1, 1\n2, 2, 2\n3, 3, 3\n4, 4, 4\n5, 5, 5\n", 4, ErrTooMuch},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(table.input), 2, 2)
			assert.Nil(t, m)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, table.line, fe.Line)
			assert.True(t, errors.Is(err, table.err))
		})
	}
}

func TestDecodeBadSize(t *testing.T) {
	_, err := Decode(strings.NewReader(""), 0, 1)
	assert.Equal(t, errBadSize, err)

	_, err = DecodeInto(strings.NewReader(""), &image.RGBA{})
	assert.Equal(t, errBadSize, err)
}

func TestFormatError(t *testing.T) {
	err := &FormatError{Line: 7, Err: ErrSyntax}
	assert.EqualError(t, err, "raw: malformed record at line 7")
}
