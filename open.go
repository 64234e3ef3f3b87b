package pngdec

import (
	"bufio"
	"io"
	"os"
)

// ValidateHeader reads 8 bytes from r and reports whether they are the PNG
// signature. A short or failing read yields false. On success r is
// positioned at the first chunk; use Decoder.DecodeAfterSignature to go on.
func ValidateHeader(r io.Reader) bool {
	return checkSignature(r) == nil
}

// ValidateHeaderFile is ValidateHeader for the file at path.
func ValidateHeaderFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return ValidateHeader(f)
}

// DecodeAfterSignature decodes a stream whose signature was already consumed,
// typically by ValidateHeader.
func (d *Decoder) DecodeAfterSignature(r io.Reader) (*Image, error) {
	return d.decodeChunks(r)
}

// Open decodes the PNG file at path.
func Open(path string, opts ...Option) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewDecoder(opts...).Decode(bufio.NewReader(f))
}
