package evolve

import (
	"image"
	"image/color"
	"sort"
)

// Polygon is a closed shape described by its vertices.
type Polygon []image.Point

func fill(m *image.RGBA, c color.RGBA) {
	for i := 0; i < len(m.Pix); i += 4 {
		m.Pix[i+0] = c.R
		m.Pix[i+1] = c.G
		m.Pix[i+2] = c.B
		m.Pix[i+3] = c.A
	}
}

func weightedAverage(a, b uint8, w float64) uint8 {
	return uint8((1-w)*float64(a) + w*float64(b))
}

func blend(m *image.RGBA, x, y int, c color.RGBA, w float64) {
	i := m.PixOffset(x, y)
	s := m.Pix[i : i+3 : i+3]
	s[0] = weightedAverage(s[0], c.R, w)
	s[1] = weightedAverage(s[1], c.G, w)
	s[2] = weightedAverage(s[2], c.B, w)
}

// DrawPolygon fills p on dst using the even-odd rule, blending c with the
// existing pixels so that a weight of 1 paints c and 0 leaves dst untouched.
// Anything outside the bounds of dst is clipped.
func DrawPolygon(dst *image.RGBA, p Polygon, c color.RGBA, w float64) {
	b := dst.Bounds()
	nodes := make([]int, 0, len(p))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		// Find where each edge crosses this row
		nodes = nodes[:0]
		j := len(p) - 1
		for i := range p {
			pi, pj := p[i], p[j]
			if pi.Y < y && pj.Y >= y || pj.Y < y && pi.Y >= y {
				x := float64(pi.X) + float64(y-pi.Y)/float64(pj.Y-pi.Y)*float64(pj.X-pi.X)
				nodes = append(nodes, int(x))
			}
			j = i
		}
		sort.Ints(nodes)

		// Fill between each pair of crossings
		for i := 0; i+1 < len(nodes); i += 2 {
			x0, x1 := nodes[i], nodes[i+1]
			if x0 >= b.Max.X {
				break
			}
			if x1 <= b.Min.X {
				continue
			}
			if x0 < b.Min.X {
				x0 = b.Min.X
			}
			if x1 > b.Max.X {
				x1 = b.Max.X
			}
			for x := x0; x < x1; x++ {
				blend(dst, x, y, c, w)
			}
		}
	}
}

func absDiff(a, b uint8) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}

// Diff returns the sum of the absolute red, green and blue differences of
// every pixel in the intersection of a and b.
func Diff(a, b *image.RGBA) uint64 {
	r := a.Bounds().Intersect(b.Bounds())

	var d uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i, j := a.PixOffset(x, y), b.PixOffset(x, y)
			d += absDiff(a.Pix[i+0], b.Pix[j+0])
			d += absDiff(a.Pix[i+1], b.Pix[j+1])
			d += absDiff(a.Pix[i+2], b.Pix[j+2])
		}
	}
	return d
}
