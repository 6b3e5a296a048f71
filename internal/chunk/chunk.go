// Package chunk frames the top-level chunks of a Standard MIDI File.
package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

const (
	HeaderType = "MThd"
	TrackType  = "MTrk"

	headerSize = 6
	// maxSize rejects absurd declared lengths before allocating.
	maxSize = 256 << 20
)

// Chunk is one named, length-prefixed block. Data has exactly Size bytes.
type Chunk struct {
	Name string
	Size uint32
	Data []byte
}

// Read reads the next chunk. It returns io.EOF only when r is exhausted before the first
// byte of the chunk.
func Read(r io.Reader) (Chunk, error) {
	var prefix [8]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Chunk{}, io.EOF
		}
		return Chunk{}, fmt.Errorf("reading chunk prefix: %w", err)
	}
	c := Chunk{
		Name: string(prefix[:4]),
		Size: binary.BigEndian.Uint32(prefix[4:]),
	}
	if c.Size > maxSize {
		return Chunk{}, fmt.Errorf("chunk %q declares %d bytes, limit is %d", c.Name, c.Size, maxSize)
	}
	// The buffer grows with the bytes actually read, never to the declared size up front.
	data, err := io.ReadAll(io.LimitReader(r, int64(c.Size)))
	if err != nil {
		return Chunk{}, fmt.Errorf("reading %d byte %q chunk: %w", c.Size, c.Name, err)
	}
	if uint32(len(data)) != c.Size {
		return Chunk{}, fmt.Errorf("reading %d byte %q chunk: got %d: %w", c.Size, c.Name, len(data), io.ErrUnexpectedEOF)
	}
	c.Data = data
	return c, nil
}

// ParseHeader decodes an MThd chunk. Extra header bytes beyond the six defined ones are
// ignored.
func ParseHeader(c Chunk) (contracts.HeaderInfo, error) {
	if c.Name != HeaderType {
		return contracts.HeaderInfo{}, fmt.Errorf("%w: chunk type %q", contracts.ErrInvalidHeader, c.Name)
	}
	if len(c.Data) < headerSize {
		return contracts.HeaderInfo{}, fmt.Errorf("%w: %d byte header", contracts.ErrInvalidHeader, len(c.Data))
	}
	h := contracts.HeaderInfo{
		Format:     binary.BigEndian.Uint16(c.Data[0:2]),
		TrackCount: binary.BigEndian.Uint16(c.Data[2:4]),
		Division:   contracts.TimeDivision(binary.BigEndian.Uint16(c.Data[4:6])),
	}
	if h.Format > 2 {
		return contracts.HeaderInfo{}, fmt.Errorf("%w: format %d", contracts.ErrInvalidHeader, h.Format)
	}
	return h, nil
}

// ReadHeader reads and decodes the MThd chunk at the start of r.
func ReadHeader(r io.Reader) (contracts.HeaderInfo, error) {
	c, err := Read(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return contracts.HeaderInfo{}, fmt.Errorf("%w: empty input", contracts.ErrInvalidHeader)
		}
		return contracts.HeaderInfo{}, err
	}
	return ParseHeader(c)
}
