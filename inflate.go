package pngdec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// An Inflater turns the assembled IDAT payload back into scanline bytes.
type Inflater interface {
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// ZlibInflater decodes zlib-wrapped deflate streams, which is what PNG
// writers produce. A stream that does not start with a valid zlib header is
// decoded as raw deflate.
type ZlibInflater struct{}

func (ZlibInflater) NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	hdr, err := br.Peek(2)
	if err == nil && isZlibHeader(hdr[0], hdr[1]) {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

// isZlibHeader checks the CMF/FLG pair: deflate method with a window of at
// most 32K and a valid FCHECK.
func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// inflate decompresses at most limit bytes of compressed. Any failure of the
// inflater is reported as DecompressionFailed.
func inflate(inf Inflater, compressed []byte, limit int64) ([]byte, error) {
	rc, err := inf.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, newError(DecompressionFailed, err, "%d compressed bytes", len(compressed))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return nil, newError(DecompressionFailed, err, "%d compressed bytes", len(compressed))
	}
	return data, nil
}
