/*
Package raw implements a decoder and encoder for the raw pixel record stream.

The stream is plain text with one record per pixel, each written as the decimal
red, green and blue channel values separated by a comma and a single space and
terminated by a newline:

	255, 0, 0
	0, 255, 0

Records are in row-major order; all pixels of row 0 from left to right, then
row 1, and so on. There is no header so the width and height of the image must
be supplied to the decoder out of band. Record i maps to the pixel at
(i mod width, i div width).
*/
package raw

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

const (
	channels  = 3
	separator = ", "
)

var (
	// ErrSyntax is returned when a record is not three comma separated
	// integers.
	ErrSyntax = errors.New("raw: malformed record")
	// ErrRange is returned when a channel value is outside [0, 255].
	ErrRange = errors.New("raw: channel value out of range")
	// ErrTooMuch is returned when the stream holds more records than the
	// image has pixels.
	ErrTooMuch = errors.New("raw: too much image data")

	errBadSize = errors.New("raw: invalid image size")
)

// DefaultBackground is the value of any pixel that has no record in the stream.
var DefaultBackground = color.RGBA{0, 0, 0, 0xff}

// A FormatError reports the record at which decoding failed.
type FormatError struct {
	Line int // 0-indexed record
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v at line %d", e.Err, e.Line)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Index returns the pixel coordinates of record i in an image of the given
// width.
func Index(i, width int) (x, y int) {
	return i % width, i / width
}

// Offset returns the record index of the pixel at (x, y) in an image of the
// given width. It is the inverse of Index.
func Offset(x, y, width int) int {
	return y*width + x
}

// NewImage returns a width by height image with every pixel set to bg.
func NewImage(width, height int, bg color.Color) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(m, m.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return m
}
