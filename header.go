// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pngdec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ColorMode is the IHDR color type.
type ColorMode uint8

const (
	Grayscale      ColorMode = 0
	RGB            ColorMode = 2
	Indexed        ColorMode = 3
	GrayscaleAlpha ColorMode = 4
	RGBA           ColorMode = 6
)

func (m ColorMode) String() string {
	switch m {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("color type %d", uint8(m))
}

// CompressionMethod identifies the payload compression. Only deflate exists.
type CompressionMethod uint8

const Deflate CompressionMethod = 0

func (m CompressionMethod) String() string {
	if m == Deflate {
		return "deflate"
	}
	return fmt.Sprintf("compression method %d", uint8(m))
}

// FilterMethod identifies the scanline filtering scheme. Only the five
// predictor scheme exists.
type FilterMethod uint8

const Prediction FilterMethod = 0

func (m FilterMethod) String() string {
	if m == Prediction {
		return "prediction"
	}
	return fmt.Sprintf("filter method %d", uint8(m))
}

// InterlaceMethod is the scan order of the image data.
type InterlaceMethod uint8

const (
	NoInterlace InterlaceMethod = 0
	Adam7       InterlaceMethod = 1
)

func (m InterlaceMethod) String() string {
	switch m {
	case NoInterlace:
		return "none"
	case Adam7:
		return "adam7"
	}
	return fmt.Sprintf("interlace method %d", uint8(m))
}

// Header is the structural metadata carried by the IHDR chunk.
type Header struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorMode   ColorMode
	Compression CompressionMethod
	Filter      FilterMethod
	Interlace   InterlaceMethod
}

func (h Header) String() string {
	return fmt.Sprintf("%dx%d %d-bit %v, %v, %v filter, interlace %v",
		h.Width, h.Height, h.BitDepth, h.ColorMode, h.Compression, h.Filter, h.Interlace)
}

// Channels is the number of bytes per pixel for the modes this package
// reconstructs, or 0 for any other mode.
func (h Header) Channels() int {
	switch h.ColorMode {
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// Stride is the length of one scanline in the decompressed payload,
// including the leading predictor byte. It is 0 when Channels is 0.
func (h Header) Stride() int {
	c := h.Channels()
	if c == 0 {
		return 0
	}
	return int(h.Width)*c + 1
}

// parseHeader interprets the first chunk of the stream. It only rejects
// structural problems; color modes and bit depths are left to
// checkDecodable so that metadata stays inspectable.
func parseHeader(c Chunk) (Header, error) {
	if c.Type != typeIHDR {
		return Header{}, newError(MalformedHeader, nil, "first chunk is %s, not IHDR", c.Type)
	}
	if len(c.Data) != 13 {
		return Header{}, newError(MalformedHeader, nil, "bad IHDR length %d", len(c.Data))
	}
	b := c.Data
	h := Header{
		Width:       binary.BigEndian.Uint32(b[0:4]),
		Height:      binary.BigEndian.Uint32(b[4:8]),
		BitDepth:    b[8],
		ColorMode:   ColorMode(b[9]),
		Compression: CompressionMethod(b[10]),
		Filter:      FilterMethod(b[11]),
		Interlace:   InterlaceMethod(b[12]),
	}
	if h.Compression != Deflate {
		return Header{}, newError(UnsupportedMethod, nil, "%v", h.Compression)
	}
	if h.Filter != Prediction {
		return Header{}, newError(UnsupportedMethod, nil, "%v", h.Filter)
	}
	if h.Interlace != NoInterlace && h.Interlace != Adam7 {
		return Header{}, newError(UnsupportedMethod, nil, "%v", h.Interlace)
	}
	return h, nil
}

// checkDecodable reports whether the reconstructor can produce pixels for h,
// and returns the expected decompressed payload length.
func (h Header) checkDecodable() (int, error) {
	if h.Channels() == 0 || h.BitDepth != 8 {
		return 0, newError(UnsupportedColorMode, nil, "bit depth %d, %v", h.BitDepth, h.ColorMode)
	}
	if h.Filter != Prediction {
		return 0, newError(UnsupportedMethod, nil, "%v", h.Filter)
	}
	if h.Interlace != NoInterlace {
		return 0, newError(UnsupportedMethod, nil, "%v", h.Interlace)
	}
	stride := uint64(h.Width)*uint64(h.Channels()) + 1
	// The pixel grid always holds 4 bytes per sample.
	if h.Height != 0 && (stride > uint64(math.MaxInt)/uint64(h.Height) ||
		uint64(h.Width)*4 > uint64(math.MaxInt)/uint64(h.Height)) {
		return 0, newError(SizeMismatch, nil, "%dx%d image does not fit in memory", h.Width, h.Height)
	}
	return int(stride * uint64(h.Height)), nil
}
