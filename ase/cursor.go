package ase

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Reader is a bounds-checked little-endian cursor over a byte slice.
// Every read past the end fails with ErrOutOfBounds.
type Reader struct {
	data []byte
	pos  int
	base int // absolute offset of data[0], for error messages
}

func NewReader(b []byte) *Reader { return &Reader{data: b} }

func (r *Reader) Pos() int       { return r.pos }
func (r *Reader) Len() int       { return len(r.data) }
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) need(n int) error {
	if n < 0 || n > len(r.data)-r.pos {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrOutOfBounds, n, r.base+r.pos, len(r.data)-r.pos)
	}
	return nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadBytes returns the next n bytes. The slice aliases the underlying buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadString reads a u16 length followed by that many UTF-8 bytes.
// Invalid sequences are replaced with U+FFFD.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "\uFFFD"), nil
}

func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("%w: seek to offset %d, length %d", ErrOutOfBounds, r.base+pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// Sub returns a reader bounded to the next n bytes and advances past them.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Reader{data: b, base: r.base + r.pos - n}, nil
}

// Writer is the little-endian mirror of Reader. A fixed writer refuses to
// grow past the size it was created with; a growing writer extends its
// buffer as needed. The first failure is sticky and reported by Err.
type Writer struct {
	buf   []byte
	pos   int
	fixed bool
	err   error
}

// NewWriter returns a writer over a zeroed buffer of exactly size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, size), fixed: true}
}

func newGrowingWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

func (w *Writer) Pos() int   { return w.pos }
func (w *Writer) Err() error { return w.err }

// Bytes returns everything written so far (up to the furthest position).
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	end := w.pos + n
	if end > len(w.buf) {
		if w.fixed {
			w.err = fmt.Errorf("%w: write of %d bytes at offset %d, capacity %d", ErrOutOfBounds, n, w.pos, len(w.buf))
			return nil
		}
		if end > cap(w.buf) {
			nb := make([]byte, end, max(2*cap(w.buf), end))
			copy(nb, w.buf)
			w.buf = nb
		} else {
			w.buf = w.buf[:end]
		}
	}
	p := w.buf[w.pos:end]
	w.pos = end
	return p
}

func (w *Writer) WriteU8(v uint8) {
	if p := w.reserve(1); p != nil {
		p[0] = v
	}
}

func (w *Writer) WriteU16(v uint16) {
	if p := w.reserve(2); p != nil {
		binary.LittleEndian.PutUint16(p, v)
	}
}

func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

func (w *Writer) WriteU32(v uint32) {
	if p := w.reserve(4); p != nil {
		binary.LittleEndian.PutUint32(p, v)
	}
}

func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

func (w *Writer) WriteBytes(b []byte) {
	if p := w.reserve(len(b)); p != nil {
		copy(p, b)
	}
}

func (w *Writer) WriteString(s string) {
	if len(s) > 0xFFFF {
		if w.err == nil {
			w.err = fmt.Errorf("%w: string of %d bytes does not fit a u16 length", ErrInvalidProject, len(s))
		}
		return
	}
	w.WriteU16(uint16(len(s)))
	w.WriteBytes([]byte(s))
}

// Skip writes n zero bytes.
func (w *Writer) Skip(n int) {
	if p := w.reserve(n); p != nil {
		clear(p)
	}
}

func (w *Writer) Seek(pos int) {
	if w.err != nil {
		return
	}
	if pos < 0 || pos > len(w.buf) {
		w.err = fmt.Errorf("%w: seek to offset %d, length %d", ErrOutOfBounds, pos, len(w.buf))
		return
	}
	w.pos = pos
}

// PatchU32 overwrites a previously written u32 without moving the cursor.
func (w *Writer) PatchU32(at int, v uint32) {
	if w.err != nil {
		return
	}
	if at < 0 || at+4 > len(w.buf) {
		w.err = fmt.Errorf("%w: patch at offset %d, length %d", ErrOutOfBounds, at, len(w.buf))
		return
	}
	binary.LittleEndian.PutUint32(w.buf[at:], v)
}
