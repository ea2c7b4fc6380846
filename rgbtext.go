/*
Package rgbtext converts between raster images and the raw pixel record stream
implemented by package raw, and keeps a journal of polygon evolution runs.
*/
package rgbtext

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	"github.com/bodgit/rgbtext/raw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Converter converts images between files.
type Converter struct {
	logger *log.Logger
}

// New returns a Converter logging to logger, which may be nil.
func New(logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		logger: logger,
	}
}

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return m, nil
}

// WriteFile writes m to dst as a record stream.
func (c *Converter) WriteFile(dst string, m image.Image) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if xerr := f.Close(); err == nil {
			err = xerr
		}
	}()

	return raw.Encode(f, m)
}

// EncodeFile decodes the image in src and writes it to dst as a record stream.
func (c *Converter) EncodeFile(src, dst string) error {
	m, err := decodeImage(src)
	if err != nil {
		return err
	}

	if err := c.WriteFile(dst, m); err != nil {
		return err
	}

	b := m.Bounds()
	c.logger.Printf("Encoded \"%s\" (%dx%d) to \"%s\"\n", src, b.Dx(), b.Dy(), dst)

	return nil
}

// DecodeFile reads the record stream in src into a width by height image.
// Pixels without a record are set to bg.
func (c *Converter) DecodeFile(src string, width, height int, bg color.Color) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, errors.New("width and height must be positive")
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := raw.NewImage(width, height, bg)

	n, err := raw.DecodeInto(f, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	if n < width*height {
		c.logger.Printf("Only %d of %d pixels in \"%s\"\n", n, width*height, src)
	}
	c.logger.Printf("Decoded \"%s\" (%dx%d)\n", src, width, height)

	return m, nil
}
