// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pngdec implements a decoder for 8-bit truecolor PNG images.
//
// The PNG specification is at https://www.w3.org/TR/PNG/.
package pngdec

import (
	"encoding/binary"
	"hash/crc32"
	"io"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

// maxChunkSize bounds a single allocation while reading chunk data whose
// length comes from untrusted input.
const maxChunkSize = 10 << 20 // 10M

// ChunkType is the four character code of a chunk.
type ChunkType [4]byte

var (
	typeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	typeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	typeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

func (t ChunkType) String() string { return string(t[:]) }

// IsCritical reports whether the ancillary bit (bit 5 of the first byte) is
// clear.
func (t ChunkType) IsCritical() bool { return t[0]&0x20 == 0 }

// A Chunk is one length-prefixed record of the stream. len(Data) always equals
// the length prefix it was read with.
type Chunk struct {
	Type ChunkType
	Data []byte
	CRC  uint32
}

// Checksum computes the CRC-32 over the chunk type and data.
func (c *Chunk) Checksum() uint32 {
	crc := crc32.NewIEEE()
	crc.Write(c.Type[:])
	crc.Write(c.Data)
	return crc.Sum32()
}

// Verify fails with ChecksumMismatch if the stored CRC does not match.
func (c *Chunk) Verify() error {
	if sum := c.Checksum(); sum != c.CRC {
		return newError(ChecksumMismatch, nil, "%s chunk: stored %08x, computed %08x", c.Type, c.CRC, sum)
	}
	return nil
}

// readChunk reads exactly one chunk: a big-endian length, the type, length
// bytes of data and the CRC. It consumes 12+length bytes of r.
func readChunk(r io.Reader) (Chunk, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:8]); err != nil {
		return Chunk{}, truncated(err, "chunk header")
	}
	length := binary.BigEndian.Uint32(tmp[:4])
	c := Chunk{Type: ChunkType{tmp[4], tmp[5], tmp[6], tmp[7]}}

	data, err := readData(r, length)
	if err != nil {
		return Chunk{}, truncated(err, "%s chunk data", c.Type)
	}
	c.Data = data

	if _, err := io.ReadFull(r, tmp[:4]); err != nil {
		return Chunk{}, truncated(err, "%s chunk checksum", c.Type)
	}
	c.CRC = binary.BigEndian.Uint32(tmp[:4])
	return c, nil
}

// readData reads n bytes from r without allocating the entire slice ahead of
// time if it is large (>maxChunkSize), so a bogus length on a short stream
// fails before committing to a giant buffer.
func readData(r io.Reader, n uint32) ([]byte, error) {
	if n < maxChunkSize {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	var buf []byte
	buf1 := make([]byte, maxChunkSize)
	for n > 0 {
		next := n
		if next > maxChunkSize {
			next = maxChunkSize
		}
		if _, err := io.ReadFull(r, buf1[:next]); err != nil {
			return nil, err
		}
		buf = append(buf, buf1[:next]...)
		n -= next
	}
	return buf, nil
}

func truncated(err error, format string, args ...interface{}) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != io.ErrUnexpectedEOF {
		// A genuine I/O failure of the underlying reader, not a short stream.
		return err
	}
	return newError(TruncatedInput, err, format, args...)
}
