/*
Package evolve approximates an image by stacking random translucent polygons.

Starting from a black canvas, each try draws one random polygon onto a copy of
the canvas. If the copy is closer to the target than the canvas, measured as
the sum of the absolute channel differences over every pixel, it replaces the
canvas and becomes a new generation. This continues until the requested number
of polygons has been kept.
*/
package evolve

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
)

const (
	defaultPolygons = 300
	defaultPoints   = 6
	defaultWeight   = 0.5
)

// ErrIncomplete is returned when the target does not provide a value for
// every pixel.
var ErrIncomplete = errors.New("evolve: incomplete target image")

// Generation describes an accepted improvement of the canvas.
type Generation struct {
	Index       int    // 1-based count of kept polygons
	Tried       int    // Polygons tried so far
	Diff        uint64 // Distance between the canvas and the target
	Improvement uint64 // Distance removed by this generation
	Canvas      *image.RGBA
}

// Option configures an Evolver.
type Option func(*Evolver)

// WithPolygons sets the number of polygons to keep.
func WithPolygons(n int) Option {
	return func(e *Evolver) {
		e.polygons = n
	}
}

// WithPoints sets the number of vertices of each polygon.
func WithPoints(n int) Option {
	return func(e *Evolver) {
		e.points = n
	}
}

// WithWeight sets the opacity of each polygon, between 0 and 1.
func WithWeight(w float64) Option {
	return func(e *Evolver) {
		e.weight = w
	}
}

// WithMaxTries stops the run after n tries even if not enough polygons have
// been kept. Zero means no limit.
func WithMaxTries(n int) Option {
	return func(e *Evolver) {
		e.maxTries = n
	}
}

// WithPalette restricts polygon colors to the given palette.
func WithPalette(p color.Palette) Option {
	return func(e *Evolver) {
		e.palette = p
	}
}

// WithRand sets the source of randomness.
func WithRand(r *rand.Rand) Option {
	return func(e *Evolver) {
		e.rand = r
	}
}

// WithLogger sets the logger used to report progress.
func WithLogger(l *log.Logger) Option {
	return func(e *Evolver) {
		e.logger = l
	}
}

// Palette returns a palette of at most n colors representing m.
func Palette(m image.Image, n int) color.Palette {
	q := quantize.MedianCutQuantizer{}
	return q.Quantize(make(color.Palette, 0, n), m)
}

// Evolver runs the approximation against a single target image.
type Evolver struct {
	target *image.RGBA

	polygons int
	points   int
	weight   float64
	maxTries int
	palette  color.Palette

	rand   *rand.Rand
	logger *log.Logger
}

// New returns an Evolver for the target image.
func New(target *image.RGBA, opts ...Option) *Evolver {
	e := &Evolver{
		target:   target,
		polygons: defaultPolygons,
		points:   defaultPoints,
		weight:   defaultWeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rand == nil {
		e.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	return e
}

// randRange returns a value in [low, high].
func (e *Evolver) randRange(low, high int) int {
	return low + e.rand.Intn(high-low+1)
}

func (e *Evolver) randomColor() color.RGBA {
	if len(e.palette) > 0 {
		r, g, b, _ := e.palette[e.rand.Intn(len(e.palette))].RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
	}
	return color.RGBA{
		uint8(e.randRange(0, 0xff)),
		uint8(e.randRange(0, 0xff)),
		uint8(e.randRange(0, 0xff)),
		0xff,
	}
}

// Vertices may land one pixel past the right and bottom edges.
func (e *Evolver) randomPolygon() Polygon {
	b := e.target.Bounds()
	p := make(Polygon, e.points)
	for i := range p {
		p[i] = image.Pt(e.randRange(b.Min.X, b.Max.X), e.randRange(b.Min.Y, b.Max.Y))
	}
	return p
}

func (e *Evolver) validate() error {
	switch {
	case e.target == nil || e.target.Bounds().Empty():
		return ErrIncomplete
	case e.polygons < 1:
		return errors.New("evolve: polygons must be positive")
	case e.points < 3:
		return errors.New("evolve: a polygon needs at least three points")
	case e.weight < 0 || e.weight > 1:
		return errors.New("evolve: weight must be between 0 and 1")
	}
	return nil
}

// Run evolves the canvas, calling fn for every accepted generation. The
// Canvas passed to fn is a snapshot and may be retained. It returns the final
// canvas, which is also returned alongside any error to allow saving the
// progress made so far.
func (e *Evolver) Run(ctx context.Context, fn func(Generation) error) (*image.RGBA, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	b := e.target.Bounds()
	canvas := image.NewRGBA(b)
	fill(canvas, color.RGBA{0, 0, 0, 0xff})
	tmp := image.NewRGBA(b)

	var oldDiff uint64
	var used, tried int
	first := true

	for used < e.polygons {
		if err := ctx.Err(); err != nil {
			return canvas, err
		}
		if e.maxTries > 0 && tried >= e.maxTries {
			break
		}
		tried++

		c := e.randomColor()
		p := e.randomPolygon()

		copy(tmp.Pix, canvas.Pix)
		DrawPolygon(tmp, p, c, e.weight)

		newDiff := Diff(e.target, tmp)
		if !first && newDiff >= oldDiff {
			continue
		}

		var improvement uint64
		if !first {
			improvement = oldDiff - newDiff
		}
		first = false
		used++

		e.logger.Printf("Improved by %d! %d / %d\n", improvement, used, tried)

		canvas, tmp = tmp, canvas
		oldDiff = newDiff

		if fn == nil {
			continue
		}

		snapshot := image.NewRGBA(b)
		copy(snapshot.Pix, canvas.Pix)

		if err := fn(Generation{
			Index:       used,
			Tried:       tried,
			Diff:        newDiff,
			Improvement: improvement,
			Canvas:      snapshot,
		}); err != nil {
			return canvas, err
		}
	}

	return canvas, nil
}
