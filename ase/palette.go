package ase

import (
	"fmt"
	"image/color"
)

const maxPaletteEntries = 1 << 16

const paletteEntryHasName uint16 = 1 << 0

// PaletteEntry is one palette color with its optional display name.
type PaletteEntry struct {
	Color color.NRGBA
	Name  string
}

// Palette is an index-addressed color table.
type Palette []PaletteEntry

// Lookup returns the color at index i, or opaque black when i is out of range.
func (p Palette) Lookup(i int) color.NRGBA {
	if i < 0 || i >= len(p) {
		return color.NRGBA{A: 0xFF}
	}
	return p[i].Color
}

// PaletteChunk updates the palette entries in [First, Last].
type PaletteChunk struct {
	NewSize uint32
	First   uint32
	Last    uint32
	Entries []PaletteEntry
}

func (p *PaletteChunk) Type() ChunkType { return ChunkPalette }

func decodePaletteChunk(r *Reader) (*PaletteChunk, error) {
	p := &PaletteChunk{}
	var err error
	if p.NewSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if p.First, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if p.Last, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if p.First > p.Last || p.Last >= maxPaletteEntries || p.NewSize > maxPaletteEntries {
		return nil, fmt.Errorf("%w: palette range [%d,%d] size %d", ErrMalformedChunk, p.First, p.Last, p.NewSize)
	}
	if err = r.Skip(8); err != nil {
		return nil, err
	}
	p.Entries = make([]PaletteEntry, 0, p.Last-p.First+1)
	for i := p.First; i <= p.Last; i++ {
		flags, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		rgba, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		e := PaletteEntry{Color: color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}}
		if flags&paletteEntryHasName != 0 {
			if e.Name, err = r.ReadString(); err != nil {
				return nil, err
			}
		}
		p.Entries = append(p.Entries, e)
	}
	return p, nil
}

func (p *PaletteChunk) encode(w *Writer) {
	w.WriteU32(p.NewSize)
	w.WriteU32(p.First)
	w.WriteU32(p.Last)
	w.Skip(8)
	for _, e := range p.Entries {
		var flags uint16
		if e.Name != "" {
			flags |= paletteEntryHasName
		}
		w.WriteU16(flags)
		w.WriteBytes([]byte{e.Color.R, e.Color.G, e.Color.B, e.Color.A})
		if e.Name != "" {
			w.WriteString(e.Name)
		}
	}
}

// apply writes the chunk's entries into pal at their absolute indices,
// growing it as needed. New slots default to opaque black.
func (p *PaletteChunk) apply(pal Palette) Palette {
	size := max(int(p.NewSize), int(p.Last)+1)
	for len(pal) < size {
		pal = append(pal, PaletteEntry{Color: color.NRGBA{A: 0xFF}})
	}
	for i, e := range p.Entries {
		pal[int(p.First)+i] = e
	}
	return pal
}
