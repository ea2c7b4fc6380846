package raw

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"strconv"
)

type decoder struct {
	s *bufio.Scanner
	m *image.RGBA

	width, pixels int
}

// Longer lines are a syntax error; a record with padding fits comfortably.
const maxRecord = 1 << 10

// ParseRecord parses a single record, "R, G, B", without its line ending. Each
// value is an unsigned decimal, optionally surrounded by spaces. The error is
// ErrSyntax or ErrRange.
func ParseRecord(b []byte) (color.RGBA, error) {
	var v [channels]uint8

	fields := bytes.Split(bytes.TrimSuffix(b, []byte{'\r'}), []byte{','})
	if len(fields) != channels {
		return color.RGBA{}, ErrSyntax
	}

	for i, f := range fields {
		n, err := strconv.ParseUint(string(bytes.TrimSpace(f)), 10, 8)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return color.RGBA{}, ErrRange
			}
			return color.RGBA{}, ErrSyntax
		}
		v[i] = uint8(n)
	}

	return color.RGBA{v[0], v[1], v[2], 0xff}, nil
}

func (d *decoder) decode() (int, error) {
	b := d.m.Bounds()

	var i int
	for ; d.s.Scan(); i++ {
		if i >= d.pixels {
			return i, &FormatError{Line: i, Err: ErrTooMuch}
		}

		c, err := ParseRecord(d.s.Bytes())
		if err != nil {
			return i, &FormatError{Line: i, Err: err}
		}

		x, y := Index(i, d.width)
		d.m.SetRGBA(b.Min.X+x, b.Min.Y+y, c)
	}

	if err := d.s.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return i, &FormatError{Line: i, Err: ErrSyntax}
		}
		return i, err
	}

	return i, nil
}

// DecodeInto reads records from r into m in row-major order, starting at the
// top-left corner of its bounds. It returns the number of records read. Pixels
// without a record are left untouched. If a record is malformed the error is
// a *FormatError and m may be partially written.
func DecodeInto(r io.Reader, m *image.RGBA) (int, error) {
	b := m.Bounds()
	if b.Empty() {
		return 0, errBadSize
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64), maxRecord)

	d := decoder{
		s:      s,
		m:      m,
		width:  b.Dx(),
		pixels: b.Dx() * b.Dy(),
	}

	return d.decode()
}

// Decode reads a record stream from r and returns it as a width by height
// image. Pixels beyond the end of the stream are set to DefaultBackground.
func Decode(r io.Reader, width, height int) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, errBadSize
	}

	m := NewImage(width, height, DefaultBackground)
	if _, err := DecodeInto(r, m); err != nil {
		return nil, err
	}

	return m, nil
}
