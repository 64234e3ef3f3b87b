package pngdec

import (
	"image"
	"image/color"
	"io"

	"github.com/rs/zerolog"
)

// A Decoder holds the collaborators of a decode. The zero value decodes with
// ZlibInflater, skips checksum verification and does not log. A configured
// Decoder may be used from several goroutines at once.
type Decoder struct {
	Inflater        Inflater
	VerifyChecksums bool
	Logger          *zerolog.Logger
}

// An Option configures the Decoder used by DecodeImage and Open.
type Option func(*Decoder)

func WithInflater(inf Inflater) Option {
	return func(d *Decoder) { d.Inflater = inf }
}

// WithChecksums makes every chunk's CRC load-bearing: a mismatch fails the
// decode with ChecksumMismatch.
func WithChecksums(verify bool) Option {
	return func(d *Decoder) { d.VerifyChecksums = verify }
}

func WithLogger(log *zerolog.Logger) Option {
	return func(d *Decoder) { d.Logger = log }
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var nopLogger = zerolog.Nop()

func (d *Decoder) logger() *zerolog.Logger {
	if d.Logger == nil {
		return &nopLogger
	}
	return d.Logger
}

func (d *Decoder) inflater() Inflater {
	if d.Inflater == nil {
		return ZlibInflater{}
	}
	return d.Inflater
}

// Decode reads a PNG stream from r, signature first, and reconstructs its
// pixels. Rows with an unknown predictor do not fail the decode; they are
// listed in the returned image's Diagnostics.
func (d *Decoder) Decode(r io.Reader) (*Image, error) {
	if err := checkSignature(r); err != nil {
		return nil, err
	}
	return d.decodeChunks(r)
}

// decodeChunks decodes a stream positioned just after the signature.
func (d *Decoder) decodeChunks(r io.Reader) (*Image, error) {
	log := d.logger()

	h, err := d.readHeader(r)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("header", h.String()).Msg("read IHDR")

	compressed, err := assemblePayload(r, d.VerifyChecksums, log)
	if err != nil {
		return nil, err
	}

	expected, err := h.checkDecodable()
	if err != nil {
		return nil, err
	}
	// One byte past the expected size is enough to tell an oversized payload
	// apart without inflating all of it. An image without rows may carry no
	// IDAT at all.
	var data []byte
	if expected > 0 || len(compressed) > 0 {
		data, err = inflate(d.inflater(), compressed, int64(expected)+1)
		if err != nil {
			return nil, err
		}
	}
	log.Debug().
		Int("compressed", len(compressed)).
		Int("inflated", len(data)).
		Msg("inflated image data")

	return reconstruct(h, data, log)
}

func (d *Decoder) readHeader(r io.Reader) (Header, error) {
	c, err := readChunk(r)
	if err != nil {
		return Header{}, err
	}
	if d.VerifyChecksums {
		if err := c.Verify(); err != nil {
			return Header{}, err
		}
	}
	return parseHeader(c)
}

// DecodeImage decodes a PNG stream with a Decoder configured by opts.
func DecodeImage(r io.Reader, opts ...Option) (*Image, error) {
	return NewDecoder(opts...).Decode(r)
}

// DecodeHeader reads the signature and the IHDR chunk only. It succeeds for
// color modes and bit depths that Decode rejects.
func DecodeHeader(r io.Reader) (Header, error) {
	if err := checkSignature(r); err != nil {
		return Header{}, err
	}
	var d Decoder
	return d.readHeader(r)
}

// Inspect reads the header and then lists every chunk up to IEND, including
// the header chunk itself. On a truncated stream the chunks read so far are
// returned along with the error.
func Inspect(r io.Reader) (Header, []ChunkInfo, error) {
	if err := checkSignature(r); err != nil {
		return Header{}, nil, err
	}
	c, err := readChunk(r)
	if err != nil {
		return Header{}, nil, err
	}
	h, err := parseHeader(c)
	if err != nil {
		return Header{}, nil, err
	}
	infos, err := inspectChunks(r, []ChunkInfo{infoOf(c)})
	return h, infos, err
}

func checkSignature(r io.Reader) error {
	var sig [len(pngHeader)]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return truncated(err, "signature")
	}
	if string(sig[:]) != pngHeader {
		return newError(UnknownFormat, nil, "not a PNG file")
	}
	return nil
}

// Decode reads a PNG image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	img, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeConfig returns the color model and dimensions of a PNG image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}
