// Package binio reads the big-endian scalars used by the edge containers.
package binio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
	"golang.org/x/text/encoding/charmap"
)

// TruncatedInputError reports a fixed-size read that would run past the
// end of the buffer.
type TruncatedInputError struct {
	Offset int // where the read started
	Want   int // bytes requested
	Have   int // bytes left at Offset
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("binio: truncated input: need %d bytes at offset %d, have %d", e.Want, e.Offset, e.Have)
}

// Cursor is a forward-only reader over an immutable byte buffer.
// A failed read leaves the offset untouched.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor returns a cursor positioned at off.
func NewCursor(data []byte, off int) *Cursor {
	return &Cursor{data: data, off: off}
}

func (c *Cursor) Offset() int    { return c.off }
func (c *Cursor) Len() int       { return len(c.data) }
func (c *Cursor) Remaining() int { return max(len(c.data)-c.off, 0) }

// Seek moves the cursor to an absolute offset. Seeking to the end is allowed.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return &TruncatedInputError{Offset: off, Want: 0, Have: max(len(c.data)-off, 0)}
	}
	c.off = off
	return nil
}

// next returns the following n bytes and advances past them.
func (c *Cursor) next(n int) ([]byte, error) {
	if n < 0 || c.off < 0 || c.off+n > len(c.data) {
		return nil, &TruncatedInputError{Offset: c.off, Want: n, Have: c.Remaining()}
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Bytes returns the next n bytes without copying.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.next(n)
}

func (c *Cursor) U8() (uint8, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	b, err := c.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) U32() (uint32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F16 reads an IEEE-754 binary16 value and widens it to float32.
func (c *Cursor) F16() (float32, error) {
	v, err := c.U16()
	if err != nil {
		return 0, err
	}
	return HalfToFloat(v), nil
}

// NormU8 reads one byte as a fraction of 255.
func (c *Cursor) NormU8() (float32, error) {
	v, err := c.U8()
	if err != nil {
		return 0, err
	}
	return NormByte(v), nil
}

// FixedString reads an n-byte NUL-padded Windows-1252 field. The cursor
// always advances n bytes; the final byte is treated as a terminator.
func (c *Cursor) FixedString(n int) (string, error) {
	b, err := c.next(n)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return DecodeString(b[:n-1]), nil
}

// Slice returns data[addr:addr+n] of the underlying buffer, independent of
// the cursor position.
func Slice(data []byte, addr, n int) ([]byte, error) {
	if addr < 0 || n < 0 || addr > len(data) || n > len(data)-addr {
		return nil, &TruncatedInputError{Offset: addr, Want: n, Have: max(len(data)-addr, 0)}
	}
	return data[addr : addr+n], nil
}

// HalfToFloat expands a binary16 bit pattern.
func HalfToFloat(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

func NormByte(b uint8) float32 {
	return float32(b) / 255.0
}

// DecodeString trims a fixed field at its first NUL and converts it from
// Windows-1252 to UTF-8.
func DecodeString(b []byte) string {
	idx := 0
	for idx < len(b) && b[idx] != 0 {
		idx++
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b[:idx])
	if err != nil {
		return string(b[:idx])
	}
	return string(decoded)
}
