package ase

import "fmt"

// Cel is the resolved pixel content of one layer at one frame.
type Cel struct {
	Layer   int
	X, Y    int
	Opacity uint8
	Width   int
	Height  int
	Pixels  []byte // RGBA, Width*Height*4; nil for an empty cel

	Linked      bool
	LinkedFrame int
}

// Empty reports whether the cel carries no pixels, as happens with an
// unresolvable linked cel.
func (c *Cel) Empty() bool { return len(c.Pixels) == 0 }

type Frame struct {
	Duration uint16 // ms
	Cels     []Cel  // at most one per layer
}

// Cel returns the cel for layer, if the frame has one.
func (f *Frame) Cel(layer int) (*Cel, bool) {
	for i := range f.Cels {
		if f.Cels[i].Layer == layer {
			return &f.Cels[i], true
		}
	}
	return nil, false
}

// File is a fully decoded sprite.
type File struct {
	Header  Header
	Layers  []Layer
	Frames  []Frame
	Palette Palette
	Tags    []Tag

	// Skipped lists cels that were dropped or emptied. UnknownChunks counts
	// chunks whose type is not interpreted.
	Skipped       []Skip
	UnknownChunks int
}

// DecodeHeader parses only the fixed header at the start of data.
func DecodeHeader(data []byte) (Header, error) {
	return decodeHeader(NewReader(data))
}

// Decode parses a complete sprite file. Layers, palette and tags are taken
// from frame 0 only. Damaged cels are reported in File.Skipped; any other
// problem aborts the decode and no partial result is returned.
func Decode(data []byte) (*File, error) {
	r := NewReader(data)
	hdr, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}
	f := &File{Header: hdr, Frames: make([]Frame, hdr.Frames)}
	cels := make([][]*CelChunk, hdr.Frames)

	for i := range f.Frames {
		fc, err := readFrame(r, hdr.ColorDepth)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		f.Frames[i].Duration = fc.duration
		if fc.duration == 0 {
			f.Frames[i].Duration = hdr.Speed
		}
		f.UnknownChunks += fc.unknown
		for _, c := range fc.chunks {
			switch c := c.(type) {
			case *Layer:
				if i == 0 {
					f.Layers = append(f.Layers, *c)
				}
			case *PaletteChunk:
				if i == 0 {
					f.Palette = c.apply(f.Palette)
				}
			case *TagsChunk:
				if i == 0 {
					f.Tags = append(f.Tags, c.Tags...)
				}
			case *CelChunk:
				cels[i] = append(cels[i], c)
			}
		}
	}

	f.resolveCels(cels)
	return f, nil
}

// resolveCels converts payloads to RGBA and follows linked cels, in frame
// order so that a link always sees its target already resolved.
func (f *File) resolveCels(cels [][]*CelChunk) {
	for fi, chunks := range cels {
		frame := &f.Frames[fi]
		for _, c := range chunks {
			layer := int(c.Layer)
			if layer >= len(f.Layers) {
				f.skip(fi, layer, SkipUnknownLayer, fmt.Errorf("layer index %d, %d layers declared", layer, len(f.Layers)))
				continue
			}
			if c.skipReason != 0 {
				f.skip(fi, layer, c.skipReason, c.skipErr)
				continue
			}

			cel := Cel{Layer: layer, X: int(c.X), Y: int(c.Y), Opacity: c.Opacity}
			if c.CelType == CelLinked {
				cel.Linked = true
				cel.LinkedFrame = int(c.LinkedFrame)
				target, ok := f.linkTarget(cel.LinkedFrame, fi, layer)
				if !ok {
					f.skip(fi, layer, SkipUnresolvedLink, fmt.Errorf("frame %d has no cel for layer %d", cel.LinkedFrame, layer))
				} else {
					cel.X, cel.Y = target.X, target.Y
					cel.Width, cel.Height = target.Width, target.Height
					cel.Pixels = append([]byte(nil), target.Pixels...)
				}
			} else {
				px, err := ToRGBA(c.Data, f.Header.ColorDepth, f.Palette, f.Header.TransparentIndex)
				if err != nil {
					f.skip(fi, layer, SkipPayloadSize, err)
					continue
				}
				cel.Width, cel.Height = int(c.Width), int(c.Height)
				cel.Pixels = px
			}

			if prev, ok := frame.Cel(layer); ok {
				*prev = cel
			} else {
				frame.Cels = append(frame.Cels, cel)
			}
		}
	}
}

func (f *File) linkTarget(target, current, layer int) (*Cel, bool) {
	if target < 0 || target >= current {
		return nil, false
	}
	return f.Frames[target].Cel(layer)
}

func (f *File) skip(frame, layer int, reason SkipReason, err error) {
	f.Skipped = append(f.Skipped, Skip{Frame: frame, Layer: layer, Reason: reason, Err: err})
}
