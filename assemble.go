package pngdec

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"
)

// assemblePayload reads the chunks following the header up to and including
// IEND, and returns the concatenated IDAT data in stream order. Chunks of any
// other type are skipped.
func assemblePayload(r io.Reader, verify bool, log *zerolog.Logger) ([]byte, error) {
	var payload bytes.Buffer
	for {
		c, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		if verify {
			if err := c.Verify(); err != nil {
				return nil, err
			}
		}

		switch c.Type {
		case typeIHDR:
			return nil, newError(DuplicateHeader, nil, "second IHDR chunk")
		case typeIDAT:
			payload.Write(c.Data)
		case typeIEND:
			return payload.Bytes(), nil
		default:
			log.Debug().
				Str("chunk", c.Type.String()).
				Int("length", len(c.Data)).
				Bool("critical", c.Type.IsCritical()).
				Msg("skipping chunk")
		}
	}
}

// ChunkInfo describes one chunk seen by Inspect.
type ChunkInfo struct {
	Type     ChunkType
	Length   int
	CRC      uint32
	CRCValid bool
}

func infoOf(c Chunk) ChunkInfo {
	return ChunkInfo{
		Type:     c.Type,
		Length:   len(c.Data),
		CRC:      c.CRC,
		CRCValid: c.Checksum() == c.CRC,
	}
}

// inspectChunks appends every chunk up to and including IEND to infos
// without interpreting any of them.
func inspectChunks(r io.Reader, infos []ChunkInfo) ([]ChunkInfo, error) {
	for {
		c, err := readChunk(r)
		if err != nil {
			return infos, err
		}
		infos = append(infos, infoOf(c))
		if c.Type == typeIEND {
			return infos, nil
		}
	}
}
