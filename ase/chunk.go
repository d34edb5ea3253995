package ase

import "fmt"

// ChunkType identifies a chunk payload. Only the four types below are
// interpreted; everything else is skipped using the chunk's size field.
type ChunkType uint16

const (
	ChunkLayer   ChunkType = 0x2004
	ChunkCel     ChunkType = 0x2005
	ChunkTags    ChunkType = 0x2018
	ChunkPalette ChunkType = 0x2019
)

const chunkHeaderSize = 6 // size u32 + type u16

func (t ChunkType) String() string {
	switch t {
	case ChunkLayer:
		return "layer"
	case ChunkCel:
		return "cel"
	case ChunkTags:
		return "tags"
	case ChunkPalette:
		return "palette"
	}
	return fmt.Sprintf("chunk(0x%04X)", uint16(t))
}

// Chunk is one decoded chunk. The set of implementations is closed:
// *Layer, *CelChunk, *PaletteChunk and *TagsChunk.
type Chunk interface {
	Type() ChunkType
	encode(w *Writer)
}

// readChunk reads one framed chunk. It returns a nil Chunk for types it does
// not interpret. The cursor always ends at chunkStart+size.
func readChunk(r *Reader, depth ColorDepth) (ChunkType, Chunk, error) {
	start := r.Pos()
	size, err := r.ReadU32()
	if err != nil {
		return 0, nil, err
	}
	t, err := r.ReadU16()
	if err != nil {
		return 0, nil, err
	}
	typ := ChunkType(t)
	if size < chunkHeaderSize {
		return typ, nil, fmt.Errorf("%w: %s chunk at offset %d declares size %d", ErrMalformedChunk, typ, start, size)
	}
	payload, err := r.Sub(int(size) - chunkHeaderSize)
	if err != nil {
		return typ, nil, fmt.Errorf("%s chunk at offset %d: %w", typ, start, err)
	}

	var c Chunk
	switch typ {
	case ChunkLayer:
		c, err = decodeLayer(payload)
	case ChunkCel:
		c, err = decodeCelChunk(payload, depth)
	case ChunkTags:
		c, err = decodeTagsChunk(payload)
	case ChunkPalette:
		c, err = decodePaletteChunk(payload)
	}
	if err != nil {
		return typ, nil, fmt.Errorf("%s chunk at offset %d: %w", typ, start, err)
	}
	if err := r.Seek(start + int(size)); err != nil {
		return typ, nil, err
	}
	return typ, c, nil
}

// marshalChunk serializes c with its size/type envelope. The size field is
// back-patched once the payload length is known.
func marshalChunk(c Chunk) ([]byte, error) {
	w := newGrowingWriter()
	start := w.Pos()
	w.WriteU32(0)
	w.WriteU16(uint16(c.Type()))
	c.encode(w)
	w.PatchU32(start, uint32(w.Pos()-start))
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("%s chunk: %w", c.Type(), err)
	}
	return w.Bytes(), nil
}
