package ase

import (
	"testing"
)

type rawFrame struct {
	duration uint16
	chunks   [][]byte
}

func chunkBytes(t *testing.T, c Chunk) []byte {
	t.Helper()
	b, err := marshalChunk(c)
	if err != nil {
		t.Fatalf("marshal %s chunk: %v", c.Type(), err)
	}
	return b
}

// rawChunk frames an arbitrary payload, for chunk types the codec ignores.
func rawChunk(typ ChunkType, payload []byte) []byte {
	w := newGrowingWriter()
	w.WriteU32(uint32(chunkHeaderSize + len(payload)))
	w.WriteU16(uint16(typ))
	w.WriteBytes(payload)
	return w.Bytes()
}

func testHeader(w, h uint16, depth ColorDepth) Header {
	return Header{
		Width:       w,
		Height:      h,
		ColorDepth:  depth,
		Flags:       FlagLayerOpacityValid,
		Speed:       100,
		PixelWidth:  1,
		PixelHeight: 1,
	}
}

// buildSprite lays out a file from pre-serialized chunks, filling in the
// header's size and frame count.
func buildSprite(t *testing.T, h Header, frames ...rawFrame) []byte {
	t.Helper()
	total := HeaderSize
	for _, f := range frames {
		total += frameSize(f.chunks)
	}
	h.FileSize = uint32(total)
	h.Frames = uint16(len(frames))
	w := NewWriter(total)
	encodeHeader(w, h)
	for _, f := range frames {
		writeFrame(w, f.duration, f.chunks)
	}
	if err := w.Err(); err != nil {
		t.Fatalf("build sprite: %v", err)
	}
	return w.Bytes()
}

func visibleLayer(name string) *Layer {
	return &Layer{Flags: LayerVisible | LayerEditable, Kind: LayerImage, Opacity: 0xFF, Name: name}
}

func rawCel(layer uint16, w, h uint16, data []byte) *CelChunk {
	return &CelChunk{Layer: layer, Opacity: 0xFF, CelType: CelRaw, Width: w, Height: h, Data: data}
}

func solid(w, h int, r, g, b, a byte) []byte {
	px := make([]byte, w*h*4)
	for i := 0; i < len(px); i += 4 {
		px[i], px[i+1], px[i+2], px[i+3] = r, g, b, a
	}
	return px
}

func mustDecode(t *testing.T, data []byte) *File {
	t.Helper()
	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return f
}

func mustEncode(t *testing.T, p *Project) []byte {
	t.Helper()
	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return data
}
