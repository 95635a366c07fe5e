// Package cursor provides bounds-checked little-endian reading and writing of
// the primitive values that make up an operation envelope.
//
// Every read on a Reader either consumes exactly the bytes it needs or fails
// without advancing. Callers treat any failure as a failure of the whole
// enclosing structure; there is no partial interpretation.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultMaxData is the length ceiling applied by GetData when the caller
// passes a non-positive limit.
const DefaultMaxData = 1 << 20

var (
	// ErrUnderrun is returned when fewer bytes remain than a read requires.
	ErrUnderrun = errors.New("cursor: underrun")

	// ErrMalformed is returned when the bytes are present but structurally
	// invalid (bad boolean, length above the ceiling).
	ErrMalformed = errors.New("cursor: malformed")
)

// Reader consumes values from an immutable byte slice.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of b. The Reader never
// writes to b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Offset reports how many bytes have been consumed.
func (r *Reader) Offset() int { return r.off }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnderrun, n, r.off, r.Remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) GetUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) GetUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) GetUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) GetUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// GetBool reads one byte and accepts only 0 and 1.
func (r *Reader) GetBool() (bool, error) {
	if r.Remaining() < 1 {
		_, err := r.take(1)
		return false, err
	}
	switch r.buf[r.off] {
	case 0:
		r.off++
		return false, nil
	case 1:
		r.off++
		return true, nil
	default:
		return false, fmt.Errorf("%w: boolean byte 0x%02x at offset %d", ErrMalformed, r.buf[r.off], r.off)
	}
}

// GetData reads a uint32 length prefix followed by that many bytes.
//
// A declared length above maxLen fails with ErrMalformed; a declared length
// above the remaining input fails with ErrUnderrun. On failure the position is
// left where it was before the call. The returned slice is a copy.
func (r *Reader) GetData(maxLen int) ([]byte, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxData
	}
	start := r.off
	n, err := r.GetUint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(maxLen) {
		r.off = start
		return nil, fmt.Errorf("%w: length %d exceeds limit %d", ErrMalformed, n, maxLen)
	}
	b, err := r.take(int(n))
	if err != nil {
		r.off = start
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// GetString is GetData interpreted as a string.
func (r *Reader) GetString(maxLen int) (string, error) {
	b, err := r.GetData(maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Writer accumulates an encoding. Writes never fail.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) PutUint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) PutUint16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) PutUint32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) PutUint64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

func (w *Writer) PutBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

// PutData writes a uint32 length prefix followed by b.
func (w *Writer) PutData(b []byte) {
	w.PutUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) PutString(s string) {
	w.PutUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Out transfers the accumulated bytes to the caller and resets the Writer.
func (w *Writer) Out() []byte {
	out := w.buf
	w.buf = nil
	return out
}
