// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pngdec

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Predictor is the per-row filter type tag.
type Predictor uint8

const (
	PredictNone Predictor = iota
	PredictSub
	PredictUp
	PredictAverage
	PredictPaeth
	nPredictor
)

var predictorNames = [nPredictor]string{"none", "sub", "up", "average", "paeth"}

func (p Predictor) String() string {
	if p < nPredictor {
		return predictorNames[p]
	}
	return fmt.Sprintf("predictor %d", uint8(p))
}

// A Diagnostic reports a row whose predictor tag was not recognized. The row
// holds the raw, unfiltered bytes.
type Diagnostic struct {
	Row int
	Tag Predictor
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d: unknown %v, left unfiltered", d.Row, d.Tag)
}

// reconstruct reverses the scanline predictors of data into a pixel grid.
// Rows are reconstructed top to bottom; each row reads only itself and the
// row directly above it.
func reconstruct(h Header, data []byte, log *zerolog.Logger) (*Image, error) {
	expected, err := h.checkDecodable()
	if err != nil {
		return nil, err
	}
	if len(data) != expected {
		return nil, newError(SizeMismatch, nil, "got %d bytes of scanline data, want %d", len(data), expected)
	}

	width, height := int(h.Width), int(h.Height)
	bpp := h.Channels()
	stride := h.Stride()

	img := newImage(width, height)
	img.Header = h

	// The row above row 0 is all zeros.
	prev := make([]uint8, img.Stride)
	for y := 0; y < height; y++ {
		line := data[y*stride : (y+1)*stride]
		cur := img.Row(y)
		tag := Predictor(line[0])

		spread(cur, line[1:], bpp)
		if !unfilter(tag, cur, prev, bpp) {
			d := Diagnostic{Row: y, Tag: tag}
			log.Warn().Int("row", y).Uint8("predictor", uint8(tag)).Msg("unknown scanline predictor, row left unfiltered")
			img.Diagnostics = append(img.Diagnostics, d)
		}

		// The current row for y is the previous row for y+1.
		prev = cur
	}
	return img, nil
}

// spread copies bpp-byte pixels from raw into the 4-byte samples of cur. A
// mode without alpha is fully opaque.
func spread(cur, raw []uint8, bpp int) {
	if bpp == 4 {
		copy(cur, raw)
		return
	}
	for i, j := 0, 0; i < len(cur); i, j = i+4, j+3 {
		cur[i+0] = raw[j+0]
		cur[i+1] = raw[j+1]
		cur[i+2] = raw[j+2]
		cur[i+3] = 0xff
	}
}

// unfilter reverses predictor p in place over cur, a row of 4-byte samples,
// using prev as the row above. Only the first bpp bytes of each sample were
// filtered. All arithmetic wraps modulo 256. It returns false for an unknown
// predictor, leaving cur untouched.
func unfilter(p Predictor, cur, prev []uint8, bpp int) bool {
	switch p {
	case PredictNone:
		// No-op.
	case PredictSub:
		for i := 4; i < len(cur); i++ {
			if i&3 < bpp {
				cur[i] += cur[i-4]
			}
		}
	case PredictUp:
		for i, up := range prev {
			if i&3 < bpp {
				cur[i] += up
			}
		}
	case PredictAverage:
		// The first pixel has no left neighbor, which counts as zero.
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += prev[i] / 2
		}
		for i := 4; i < len(cur); i++ {
			if i&3 < bpp {
				cur[i] += uint8((int(cur[i-4]) + int(prev[i])) / 2)
			}
		}
	case PredictPaeth:
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += paeth(0, prev[i], 0)
		}
		for i := 4; i < len(cur); i++ {
			if i&3 < bpp {
				cur[i] += paeth(cur[i-4], prev[i], prev[i-4])
			}
		}
	default:
		return false
	}
	return true
}

// paeth implements the Paeth predictor function: of the left (a), up (b) and
// upper-left (c) neighbors it picks the one closest to a+b-c, preferring a,
// then b, then c on ties.
func paeth(a, b, c uint8) uint8 {
	pc := int(c)
	pa := int(b) - pc
	pb := int(a) - pc
	pc = abs(pa + pb)
	pa = abs(pa)
	pb = abs(pb)
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
