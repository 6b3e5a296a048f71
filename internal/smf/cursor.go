// Package smf decodes the event stream inside Standard MIDI File track chunks into notes.
package smf

import (
	"fmt"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

// maxVLQBytes bounds a variable-length quantity to 28 significant bits.
const maxVLQBytes = 4

// Cursor is a bounds-checked read head over one chunk's bytes.
type Cursor struct {
	data   []byte
	offset int
}

// NewCursor returns a cursor positioned at the first byte of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining reports whether unread bytes are left.
func (c *Cursor) Remaining() bool {
	return c.offset < len(c.data)
}

// Offset returns the index of the next byte to be read.
func (c *Cursor) Offset() int {
	return c.offset
}

// ReadByte consumes one byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.offset >= len(c.data) {
		return 0, c.outOfBounds(1)
	}
	b := c.data[c.offset]
	c.offset++
	return b, nil
}

// ReadVLQ consumes a big-endian variable-length quantity: seven bits per byte,
// bit 7 set on every byte but the last.
func (c *Cursor) ReadVLQ() (uint32, error) {
	start := c.offset
	var value uint32
	for i := 0; i < maxVLQBytes; i++ {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, fmt.Errorf("%w: at offset %d", contracts.ErrInvalidVLQ, start)
}

// ReadBytes consumes exactly n bytes. The returned slice aliases the cursor's buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(c.data)-c.offset {
		return nil, c.outOfBounds(n)
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

// Rewind moves the read head back n bytes, stopping at the start of the buffer.
func (c *Cursor) Rewind(n int) {
	c.offset -= n
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c *Cursor) outOfBounds(n int) error {
	return fmt.Errorf("%w: need %d byte(s) at offset %d, chunk has %d",
		contracts.ErrOutOfBounds, n, c.offset, len(c.data))
}
