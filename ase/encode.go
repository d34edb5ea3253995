package ase

import (
	"fmt"

	"github.com/klauspost/compress/zlib"
)

const defaultFrameDuration = 100

// EncodeOptions tunes the writer.
type EncodeOptions struct {
	CompressionLevel int // zlib level for cel payloads
}

func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{CompressionLevel: zlib.DefaultCompression}
}

// Encode serializes a project snapshot with the default options.
func Encode(p *Project) ([]byte, error) {
	return EncodeWithOptions(p, DefaultEncodeOptions())
}

// EncodeWithOptions serializes a project snapshot as a 32-bit sprite.
//
// Every chunk is built first, because frame sizes and chunk counts are only
// known once the (compressed) payloads exist; the output buffer is then
// allocated once and filled. Cels are always compressed, placed at (0,0),
// canvas sized and fully opaque at the cel level. Fully transparent
// (layer, frame) pairs produce no cel at all.
func EncodeWithOptions(p *Project, opts EncodeOptions) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	comp := newCelCompressor(opts.CompressionLevel)
	frames := make([][][]byte, len(p.Frames))

	for fi := range p.Frames {
		var chunks []Chunk
		if fi == 0 {
			chunks = append(chunks, p.metadataChunks()...)
		}
		for li := range p.Layers {
			c, err := p.celChunk(comp, li, fi)
			if err != nil {
				return nil, err
			}
			if c != nil {
				chunks = append(chunks, c)
			}
		}
		for _, c := range chunks {
			b, err := marshalChunk(c)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", fi, err)
			}
			frames[fi] = append(frames[fi], b)
		}
	}

	total := HeaderSize
	for _, chunks := range frames {
		total += frameSize(chunks)
	}
	if uint64(total) > 0xFFFFFFFF {
		return nil, fmt.Errorf("%w: encoded size %d exceeds 4 GiB", ErrInvalidProject, total)
	}

	w := NewWriter(total)
	encodeHeader(w, p.header(total))
	for fi, chunks := range frames {
		writeFrame(w, p.Frames[fi].Duration, chunks)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	if w.Pos() != total {
		return nil, fmt.Errorf("encoded %d bytes, expected %d", w.Pos(), total)
	}
	return w.Bytes(), nil
}

func (p *Project) validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0 || p.Width > 0xFFFF || p.Height > 0xFFFF:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidProject, p.Width, p.Height)
	case len(p.Frames) == 0 || len(p.Frames) > 0xFFFF:
		return fmt.Errorf("%w: %d frames", ErrInvalidProject, len(p.Frames))
	case len(p.Layers) > 0xFFFF:
		return fmt.Errorf("%w: %d layers", ErrInvalidProject, len(p.Layers))
	case len(p.Tags) > 0xFFFF:
		return fmt.Errorf("%w: %d tags", ErrInvalidProject, len(p.Tags))
	case len(p.Palette) > 0xFFFF:
		return fmt.Errorf("%w: %d palette entries", ErrInvalidProject, len(p.Palette))
	}
	return nil
}

func (p *Project) header(fileSize int) Header {
	speed := p.Frames[0].Duration
	if speed == 0 {
		speed = defaultFrameDuration
	}
	return Header{
		FileSize:    uint32(fileSize),
		Frames:      uint16(len(p.Frames)),
		Width:       uint16(p.Width),
		Height:      uint16(p.Height),
		ColorDepth:  DepthRGBA,
		Flags:       FlagLayerOpacityValid,
		Speed:       speed,
		NumColors:   uint16(len(p.Palette)),
		PixelWidth:  1,
		PixelHeight: 1,
	}
}

// metadataChunks are the frame-0 chunks: palette, layers, tags.
func (p *Project) metadataChunks() []Chunk {
	var chunks []Chunk
	if n := len(p.Palette); n > 0 {
		chunks = append(chunks, &PaletteChunk{
			NewSize: uint32(n),
			First:   0,
			Last:    uint32(n - 1),
			Entries: p.Palette,
		})
	}
	for _, l := range p.Layers {
		var flags uint16 = LayerEditable
		if l.Visible {
			flags |= LayerVisible
		}
		chunks = append(chunks, &Layer{
			Flags:     flags,
			Kind:      LayerImage,
			BlendMode: l.BlendMode,
			Opacity:   l.Opacity,
			Name:      l.Name,
		})
	}
	if len(p.Tags) > 0 {
		chunks = append(chunks, &TagsChunk{Tags: p.Tags})
	}
	return chunks
}

// celChunk builds the compressed cel for (layer, frame), or nil when the
// pair is absent or fully transparent.
func (p *Project) celChunk(comp *celCompressor, layer, frame int) (*CelChunk, error) {
	if p.Cels == nil {
		return nil, nil
	}
	px, ok := p.Cels.Pixels(layer, frame)
	if !ok || !HasOpaquePixel(px) {
		return nil, nil
	}
	if want := p.Width * p.Height * 4; len(px) != want {
		return nil, fmt.Errorf("%w: layer %d frame %d has %d bytes, want %d", ErrInvalidProject, layer, frame, len(px), want)
	}
	data, err := FromRGBA(px, DepthRGBA)
	if err != nil {
		return nil, err
	}
	z, err := comp.deflate(data)
	if err != nil {
		return nil, fmt.Errorf("compress layer %d frame %d: %w", layer, frame, err)
	}
	return &CelChunk{
		Layer:    uint16(layer),
		Opacity:  0xFF,
		CelType:  CelCompressed,
		Width:    uint16(p.Width),
		Height:   uint16(p.Height),
		Deflated: z,
	}, nil
}
