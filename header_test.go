package pngdec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	h, err := parseHeader(rawIHDR(0x01020304, 7, 8, 6, 0, 0, 1).chunk())
	require.NoError(t, err)
	assert.Equal(t, Header{
		Width:     0x01020304,
		Height:    7,
		BitDepth:  8,
		ColorMode: RGBA,
		Interlace: Adam7,
	}, h)
	assert.Equal(t, "16909060x7 8-bit rgba, deflate, prediction filter, interlace adam7", h.String())
}

func TestParseHeaderKeepsUnsupportedModes(t *testing.T) {
	for _, mode := range []uint8{0, 3, 4, 5, 200} {
		h, err := parseHeader(rawIHDR(1, 1, 4, mode, 0, 0, 0).chunk())
		require.NoError(t, err, "color type %d", mode)
		assert.Equal(t, ColorMode(mode), h.ColorMode)
		assert.Equal(t, 0, h.Channels())
		assert.Equal(t, 0, h.Stride())
	}
}

func TestParseHeaderRejects(t *testing.T) {
	_, err := parseHeader(testChunk{typ: "IDAT", data: make([]byte, 13)}.chunk())
	assert.ErrorIs(t, err, MalformedHeader)

	_, err = parseHeader(testChunk{typ: "IHDR", data: make([]byte, 14)}.chunk())
	assert.ErrorIs(t, err, MalformedHeader)

	_, err = parseHeader(rawIHDR(1, 1, 8, 2, 1, 0, 0).chunk())
	assert.ErrorIs(t, err, UnsupportedMethod)
	assert.Contains(t, err.Error(), "compression method 1")

	_, err = parseHeader(rawIHDR(1, 1, 8, 2, 0, 4, 0).chunk())
	assert.ErrorIs(t, err, UnsupportedMethod)

	_, err = parseHeader(rawIHDR(1, 1, 8, 2, 0, 0, 9).chunk())
	assert.ErrorIs(t, err, UnsupportedMethod)
	assert.Contains(t, err.Error(), "interlace method 9")
}

func TestHeaderStride(t *testing.T) {
	assert.Equal(t, 3*10+1, Header{Width: 10, ColorMode: RGB}.Stride())
	assert.Equal(t, 4*10+1, Header{Width: 10, ColorMode: RGBA}.Stride())
	assert.Equal(t, 1, Header{Width: 0, ColorMode: RGBA}.Stride())
}

func TestCheckDecodableOverflow(t *testing.T) {
	h := Header{Width: 0xffffffff, Height: 0xffffffff, BitDepth: 8, ColorMode: RGBA}
	_, err := h.checkDecodable()
	assert.ErrorIs(t, err, SizeMismatch)

	h = Header{Width: 3, Height: 2, BitDepth: 8, ColorMode: RGB}
	n, err := h.checkDecodable()
	require.NoError(t, err)
	assert.Equal(t, 2*(3*3+1), n)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "grayscale+alpha", GrayscaleAlpha.String())
	assert.Equal(t, "color type 1", ColorMode(1).String())
	assert.Equal(t, "paeth", PredictPaeth.String())
	assert.Equal(t, "none", NoInterlace.String())
}
