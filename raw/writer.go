package raw

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"strconv"
)

type encoder struct {
	w   *bufio.Writer
	tmp []byte
}

func (e *encoder) writeRecord(c color.NRGBA) error {
	b := e.tmp[:0]
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, separator...)
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, separator...)
	b = strconv.AppendUint(b, uint64(c.B), 10)
	b = append(b, '\n')
	e.tmp = b

	_, err := e.w.Write(b)
	return err
}

func (e *encoder) encode(m image.Image) error {
	b := m.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if err := e.writeRecord(c); err != nil {
				return err
			}
		}
	}

	return e.w.Flush()
}

// Encode writes the Image m to w as a record stream, one record per pixel in
// row-major order. Any alpha channel is discarded.
func Encode(w io.Writer, m image.Image) error {
	e := encoder{
		w:   bufio.NewWriter(w),
		tmp: make([]byte, 0, len("255, 255, 255\n")),
	}

	return e.encode(m)
}
