package ase

import "fmt"

const (
	frameHeaderSize = 16
	frameMagic      = 0xF1FA
)

// frameChunks is one frame as laid out in the file.
type frameChunks struct {
	duration uint16
	chunks   []Chunk
	unknown  int
}

// readFrame reads a frame header and exactly as many chunks as it declares.
// The frame size field is not used for navigation: chunks delimit themselves.
func readFrame(r *Reader, depth ColorDepth) (frameChunks, error) {
	var f frameChunks
	start := r.Pos()
	if _, err := r.ReadU32(); err != nil {
		return f, err
	}
	magic, err := r.ReadU16()
	if err != nil {
		return f, err
	}
	if magic != frameMagic {
		return f, fmt.Errorf("%w: 0x%04X at offset %d", ErrBadFrameMagic, magic, start)
	}
	legacy, err := r.ReadU16()
	if err != nil {
		return f, err
	}
	if f.duration, err = r.ReadU16(); err != nil {
		return f, err
	}
	if err = r.Skip(2); err != nil {
		return f, err
	}
	ext, err := r.ReadU32()
	if err != nil {
		return f, err
	}
	count := uint32(legacy)
	if ext != 0 {
		count = ext
	}
	for i := uint32(0); i < count; i++ {
		_, c, err := readChunk(r, depth)
		if err != nil {
			return f, err
		}
		if c == nil {
			f.unknown++
			continue
		}
		f.chunks = append(f.chunks, c)
	}
	return f, nil
}

// frameSize is the number of bytes writeFrame produces for these chunks.
func frameSize(chunks [][]byte) int {
	n := frameHeaderSize
	for _, c := range chunks {
		n += len(c)
	}
	return n
}

// writeFrame writes a frame header followed by already-serialized chunks.
// Both chunk count fields are always present; the extended one is used only
// when the count does not fit in 16 bits.
func writeFrame(w *Writer, duration uint16, chunks [][]byte) {
	start := w.Pos()
	w.WriteU32(0)
	w.WriteU16(frameMagic)
	if n := len(chunks); n > 0xFFFF {
		w.WriteU16(0xFFFF)
		w.WriteU16(duration)
		w.Skip(2)
		w.WriteU32(uint32(n))
	} else {
		w.WriteU16(uint16(n))
		w.WriteU16(duration)
		w.Skip(2)
		w.WriteU32(0)
	}
	for _, c := range chunks {
		w.WriteBytes(c)
	}
	w.PatchU32(start, uint32(w.Pos()-start))
}
