package pngdec

import (
	"image"
	"image/color"
)

// Image is a decoded pixel grid. Pix holds non-premultiplied R, G, B, A
// bytes in row-major order, row 0 first.
type Image struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle

	// Header is the IHDR metadata the image was decoded from.
	Header Header
	// Diagnostics lists the rows that could not be fully reconstructed.
	Diagnostics []Diagnostic
}

func newImage(width, height int) *Image {
	return &Image{
		Pix:    make([]uint8, 4*width*height),
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func (p *Image) Width() int  { return p.Rect.Dx() }
func (p *Image) Height() int { return p.Rect.Dy() }

func (p *Image) Bounds() image.Rectangle { return p.Rect }

func (p *Image) ColorModel() color.Model { return color.NRGBAModel }

func (p *Image) At(x, y int) color.Color {
	return p.NRGBAAt(x, y)
}

// NRGBAAt returns the zero color outside the image, like the standard
// library image types.
func (p *Image) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.NRGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	return color.NRGBA{s[0], s[1], s[2], s[3]}
}

func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// Pixel returns the sample at (x, y), failing with OutOfRange outside the
// image.
func (p *Image) Pixel(x, y int) (color.NRGBA, error) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.NRGBA{}, newError(OutOfRange, nil, "(%d, %d) outside %dx%d image", x, y, p.Width(), p.Height())
	}
	return p.NRGBAAt(x, y), nil
}

// SetPixel stores c at (x, y), failing with OutOfRange outside the image.
func (p *Image) SetPixel(x, y int, c color.NRGBA) error {
	if !(image.Point{x, y}.In(p.Rect)) {
		return newError(OutOfRange, nil, "(%d, %d) outside %dx%d image", x, y, p.Width(), p.Height())
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
	return nil
}

// Row returns the samples of row y as a slice of Pix.
func (p *Image) Row(y int) []uint8 {
	i := p.PixOffset(p.Rect.Min.X, y)
	return p.Pix[i : i+p.Stride : i+p.Stride]
}

// NRGBA returns an *image.NRGBA sharing p's pixels.
func (p *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: p.Pix, Stride: p.Stride, Rect: p.Rect}
}
