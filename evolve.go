package rgbtext

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/bodgit/rgbtext/evolve"
	"github.com/bodgit/rgbtext/raw"
)

// EvolveOptions controls Converter.Evolve.
type EvolveOptions struct {
	Width, Height int

	// Dir, if set, receives every generation as img_<n>.dat
	Dir string
	// History, if set, records the run
	History *History
	// Palette, if positive, limits polygon colors to a palette of this
	// many colors taken from the target
	Palette int

	Options []evolve.Option
}

func frameFilename(index int) string {
	return fmt.Sprintf("img_%d%s", index, Extension)
}

func (c *Converter) readTarget(src string, width, height int) (*image.RGBA, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := raw.NewImage(width, height, raw.DefaultBackground)

	n, err := raw.DecodeInto(f, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if n < width*height {
		return nil, fmt.Errorf("%s: %w: %d of %d pixels", src, evolve.ErrIncomplete, n, width*height)
	}

	return m, nil
}

// Evolve approximates the image in the record stream src with polygons. The
// stream must have a record for every pixel. The last canvas is returned even
// if an error occurs.
func (c *Converter) Evolve(ctx context.Context, src string, o EvolveOptions) (*image.RGBA, error) {
	if o.Width < 1 || o.Height < 1 {
		return nil, fmt.Errorf("invalid size %dx%d", o.Width, o.Height)
	}

	target, err := c.readTarget(src, o.Width, o.Height)
	if err != nil {
		return nil, err
	}

	if o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return nil, err
		}
	}

	var run int64
	if o.History != nil {
		if run, err = o.History.Begin(target); err != nil {
			return nil, err
		}
		c.logger.Printf("Started run %d\n", run)
	}

	opts := []evolve.Option{evolve.WithLogger(c.logger)}
	if o.Palette > 0 {
		opts = append(opts, evolve.WithPalette(evolve.Palette(target, o.Palette)))
	}
	opts = append(opts, o.Options...)

	return evolve.New(target, opts...).Run(ctx, func(g evolve.Generation) error {
		if o.Dir != "" {
			if err := c.WriteFile(filepath.Join(o.Dir, frameFilename(g.Index)), g.Canvas); err != nil {
				return err
			}
		}
		if o.History != nil {
			if err := o.History.Record(run, g); err != nil {
				return err
			}
		}
		return nil
	})
}
