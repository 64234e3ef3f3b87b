package pngdec

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// A testChunk is written with a correct CRC unless badCRC is set.
type testChunk struct {
	typ    string
	data   []byte
	badCRC bool
}

func buildPNG(chunks ...testChunk) []byte {
	var b bytes.Buffer
	b.WriteString(pngHeader)
	for _, c := range chunks {
		writeChunk(&b, c)
	}
	return b.Bytes()
}

func writeChunk(b *bytes.Buffer, c testChunk) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(c.data)))
	b.Write(tmp[:])
	b.WriteString(c.typ)
	b.Write(c.data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(c.typ))
	crc.Write(c.data)
	sum := crc.Sum32()
	if c.badCRC {
		sum ^= 0xdeadbeef
	}
	binary.BigEndian.PutUint32(tmp[:], sum)
	b.Write(tmp[:])
}

// chunk converts c to the decoder's representation, CRC included.
func (c testChunk) chunk() Chunk {
	var b bytes.Buffer
	writeChunk(&b, c)
	got, err := readChunk(&b)
	if err != nil {
		panic(err)
	}
	return got
}

func ihdrChunk(w, h uint32, depth uint8, mode ColorMode) testChunk {
	return rawIHDR(w, h, depth, uint8(mode), 0, 0, 0)
}

func rawIHDR(w, h uint32, depth, mode, compression, filter, interlace uint8) testChunk {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], w)
	binary.BigEndian.PutUint32(data[4:8], h)
	data[8] = depth
	data[9] = mode
	data[10] = compression
	data[11] = filter
	data[12] = interlace
	return testChunk{typ: "IHDR", data: data}
}

func idatChunk(data []byte) testChunk { return testChunk{typ: "IDAT", data: data} }

func iendChunk() testChunk { return testChunk{typ: "IEND"} }

func zlibCompress(t testing.TB, raw []byte) []byte {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

// scanlines joins already-filtered rows, each starting with its predictor.
func scanlines(rows ...[]byte) []byte {
	return bytes.Join(rows, nil)
}

// simplePNG builds a complete 8-bit stream from filtered scanline data.
func simplePNG(t testing.TB, w, h uint32, mode ColorMode, data []byte) []byte {
	return buildPNG(
		ihdrChunk(w, h, 8, mode),
		idatChunk(zlibCompress(t, data)),
		iendChunk(),
	)
}

// refPaeth is the textbook Paeth predictor, independent of the decoder's
// version.
func refPaeth(left, up, upperLeft int) int {
	p := left + up - upperLeft
	pa, pb, pc := p-left, p-up, p-upperLeft
	if pa < 0 {
		pa = -pa
	}
	if pb < 0 {
		pb = -pb
	}
	if pc < 0 {
		pc = -pc
	}
	switch {
	case pa <= pb && pa <= pc:
		return left
	case pb <= pc:
		return up
	}
	return upperLeft
}

// filterRow applies predictor p to cur, a row of bpp-byte pixels, with prev
// as the row above (nil for the first row), and returns the tagged scanline.
func filterRow(p Predictor, cur, prev []byte, bpp int) []byte {
	out := make([]byte, 1+len(cur))
	out[0] = byte(p)
	for i := range cur {
		var left, up, upperLeft int
		if i >= bpp {
			left = int(cur[i-bpp])
		}
		if prev != nil {
			up = int(prev[i])
			if i >= bpp {
				upperLeft = int(prev[i-bpp])
			}
		}
		var pred int
		switch p {
		case PredictSub:
			pred = left
		case PredictUp:
			pred = up
		case PredictAverage:
			pred = (left + up) / 2
		case PredictPaeth:
			pred = refPaeth(left, up, upperLeft)
		}
		out[1+i] = cur[i] - byte(pred)
	}
	return out
}

// encodeRows filters every row of pix (height rows of width*bpp bytes) with
// the predictor chosen by pick.
func encodeRows(pix [][]byte, bpp int, pick func(y int) Predictor) []byte {
	var rows [][]byte
	for y, cur := range pix {
		var prev []byte
		if y > 0 {
			prev = pix[y-1]
		}
		rows = append(rows, filterRow(pick(y), cur, prev, bpp))
	}
	return scanlines(rows...)
}
