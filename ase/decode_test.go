package ase

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	red := solid(1, 1, 0xFF, 0, 0, 0xFF)
	data := buildSprite(t, testHeader(1, 1, DepthRGBA), rawFrame{100, [][]byte{
		rawChunk(0x0004, []byte{1, 2, 3}), // old palette
		chunkBytes(t, visibleLayer("bg")),
		rawChunk(0x2007, bytes.Repeat([]byte{0xAB}, 17)), // color profile
		chunkBytes(t, rawCel(0, 1, 1, red)),
		rawChunk(0x2020, nil), // user data
	}})
	f := mustDecode(t, data)
	if f.UnknownChunks != 3 {
		t.Errorf("UnknownChunks = %d, want 3", f.UnknownChunks)
	}
	c, ok := f.Frames[0].Cel(0)
	if !ok || !bytes.Equal(c.Pixels, red) {
		t.Fatalf("cel after unknown chunks not decoded: %+v", c)
	}
	if len(f.Skipped) != 0 {
		t.Fatalf("unexpected skips: %v", f.Skipped)
	}
}

func TestDecodeIndexed(t *testing.T) {
	h := testHeader(3, 1, DepthIndexed)
	h.TransparentIndex = 0
	pal := &PaletteChunk{NewSize: 2, First: 0, Last: 1, Entries: []PaletteEntry{
		{Color: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}},
		{Color: color.NRGBA{R: 0xFF, G: 0x80, B: 0x00, A: 0xC0}, Name: "orange"},
	}}
	data := buildSprite(t, h, rawFrame{100, [][]byte{
		chunkBytes(t, pal),
		chunkBytes(t, visibleLayer("ink")),
		chunkBytes(t, rawCel(0, 3, 1, []byte{0, 1, 7})),
	}})
	f := mustDecode(t, data)
	if len(f.Palette) != 2 || f.Palette[1].Name != "orange" {
		t.Fatalf("palette = %+v", f.Palette)
	}
	c, _ := f.Frames[0].Cel(0)
	want := []byte{
		0, 0, 0, 0, // transparent index
		0xFF, 0x80, 0x00, 0xC0,
		0, 0, 0, 0xFF, // out of palette range
	}
	if !bytes.Equal(c.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", c.Pixels, want)
	}
}

func TestDecodeGrayscale(t *testing.T) {
	data := buildSprite(t, testHeader(2, 1, DepthGrayscale), rawFrame{100, [][]byte{
		chunkBytes(t, visibleLayer("g")),
		chunkBytes(t, rawCel(0, 2, 1, []byte{0x80, 0xFF, 0x20, 0x00})),
	}})
	f := mustDecode(t, data)
	c, _ := f.Frames[0].Cel(0)
	want := []byte{0x80, 0x80, 0x80, 0xFF, 0x20, 0x20, 0x20, 0x00}
	if !bytes.Equal(c.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", c.Pixels, want)
	}
}

func TestDecodePaletteLaterChunkOverrides(t *testing.T) {
	first := &PaletteChunk{NewSize: 4, First: 0, Last: 1, Entries: []PaletteEntry{
		{Color: color.NRGBA{R: 1, A: 0xFF}},
		{Color: color.NRGBA{R: 2, A: 0xFF}},
	}}
	second := &PaletteChunk{NewSize: 0, First: 1, Last: 1, Entries: []PaletteEntry{
		{Color: color.NRGBA{G: 9, A: 0xFF}},
	}}
	data := buildSprite(t, testHeader(1, 1, DepthIndexed), rawFrame{100, [][]byte{
		chunkBytes(t, first),
		chunkBytes(t, second),
	}})
	f := mustDecode(t, data)
	if len(f.Palette) != 4 {
		t.Fatalf("palette size = %d, want 4", len(f.Palette))
	}
	if f.Palette[0].Color.R != 1 || f.Palette[1].Color.G != 9 || f.Palette[3].Color != (color.NRGBA{A: 0xFF}) {
		t.Fatalf("palette = %+v", f.Palette)
	}
}

func TestDecodeMalformedPalette(t *testing.T) {
	bad := rawChunk(ChunkPalette, func() []byte {
		w := newGrowingWriter()
		w.WriteU32(4)
		w.WriteU32(3) // first > last
		w.WriteU32(1)
		w.Skip(8)
		return w.Bytes()
	}())
	data := buildSprite(t, testHeader(1, 1, DepthIndexed), rawFrame{100, [][]byte{bad}})
	if _, err := Decode(data); !errors.Is(err, ErrMalformedChunk) {
		t.Fatalf("expected ErrMalformedChunk, got %v", err)
	}
}

func TestDecodeLinkedCel(t *testing.T) {
	red := solid(1, 1, 0xFF, 0, 0, 0xFF)
	data := buildSprite(t, testHeader(1, 1, DepthRGBA),
		rawFrame{100, [][]byte{
			chunkBytes(t, visibleLayer("a")),
			chunkBytes(t, rawCel(0, 1, 1, red)),
		}},
		rawFrame{100, [][]byte{
			chunkBytes(t, &CelChunk{Layer: 0, Opacity: 0xFF, CelType: CelLinked, LinkedFrame: 0}),
		}},
	)
	f := mustDecode(t, data)
	c, ok := f.Frames[1].Cel(0)
	if !ok {
		t.Fatalf("frame 1 has no cel")
	}
	if !c.Linked || c.LinkedFrame != 0 {
		t.Errorf("cel not marked linked: %+v", c)
	}
	if c.Width != 1 || c.Height != 1 || !bytes.Equal(c.Pixels, red) {
		t.Fatalf("linked cel = %+v", c)
	}
	p := f.Project()
	px, ok := p.Cels.Pixels(0, 1)
	if !ok || !bytes.Equal(px, red) {
		t.Fatalf("project frame 1 pixels = %v", px)
	}
}

func TestDecodeRecoverableCelProblems(t *testing.T) {
	red := solid(1, 1, 0xFF, 0, 0, 0xFF)
	tests := []struct {
		name   string
		frames []rawFrame
		reason SkipReason
		// whether the skipped slot still holds an (empty) cel
		emptyCel bool
	}{
		{
			name: "unknown layer",
			frames: []rawFrame{{100, [][]byte{
				chunkBytes(t, visibleLayer("a")),
				chunkBytes(t, rawCel(5, 1, 1, red)),
			}}},
			reason: SkipUnknownLayer,
		},
		{
			name: "bad deflate stream",
			frames: []rawFrame{{100, [][]byte{
				chunkBytes(t, visibleLayer("a")),
				chunkBytes(t, &CelChunk{Layer: 0, Opacity: 0xFF, CelType: CelCompressed, Width: 1, Height: 1, Deflated: []byte{1, 2, 3}}),
			}}},
			reason: SkipInflate,
		},
		{
			name: "short raw payload",
			frames: []rawFrame{{100, [][]byte{
				chunkBytes(t, visibleLayer("a")),
				chunkBytes(t, rawCel(0, 2, 2, red)),
			}}},
			reason: SkipPayloadSize,
		},
		{
			name: "tilemap cel",
			frames: []rawFrame{{100, [][]byte{
				chunkBytes(t, visibleLayer("a")),
				rawChunk(ChunkCel, func() []byte {
					w := newGrowingWriter()
					w.WriteU16(0)
					w.Skip(5)
					w.WriteU16(uint16(CelCompressedTilemap))
					w.Skip(7)
					return w.Bytes()
				}()),
			}}},
			reason: SkipUnsupportedCel,
		},
		{
			name: "link to a later frame",
			frames: []rawFrame{
				{100, [][]byte{
					chunkBytes(t, visibleLayer("a")),
					chunkBytes(t, &CelChunk{Layer: 0, CelType: CelLinked, LinkedFrame: 1}),
				}},
				{100, [][]byte{chunkBytes(t, rawCel(0, 1, 1, red))}},
			},
			reason:   SkipUnresolvedLink,
			emptyCel: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustDecode(t, buildSprite(t, testHeader(1, 1, DepthRGBA), tt.frames...))
			if len(f.Skipped) != 1 {
				t.Fatalf("Skipped = %v, want one entry", f.Skipped)
			}
			s := f.Skipped[0]
			if s.Reason != tt.reason || s.Frame != 0 {
				t.Fatalf("skip = %v, want reason %s in frame 0", s, tt.reason)
			}
			c, ok := f.Frames[0].Cel(0)
			if tt.emptyCel {
				if !ok || !c.Empty() {
					t.Fatalf("expected empty cel, got %+v", c)
				}
			} else if ok {
				t.Fatalf("expected no cel, got %+v", c)
			}
			if _, ok := f.Project().Cels.Pixels(0, 0); ok {
				t.Fatalf("skipped cel leaked into the project")
			}
		})
	}
}

func TestDecodeDuplicateCelLastWins(t *testing.T) {
	red := solid(1, 1, 0xFF, 0, 0, 0xFF)
	blue := solid(1, 1, 0, 0, 0xFF, 0xFF)
	data := buildSprite(t, testHeader(1, 1, DepthRGBA), rawFrame{100, [][]byte{
		chunkBytes(t, visibleLayer("a")),
		chunkBytes(t, rawCel(0, 1, 1, red)),
		chunkBytes(t, rawCel(0, 1, 1, blue)),
	}})
	f := mustDecode(t, data)
	if len(f.Frames[0].Cels) != 1 {
		t.Fatalf("cels = %d, want 1", len(f.Frames[0].Cels))
	}
	if !bytes.Equal(f.Frames[0].Cels[0].Pixels, blue) {
		t.Fatalf("expected the later cel to win")
	}
}

func TestDecodeFatalErrors(t *testing.T) {
	good := buildSprite(t, testHeader(1, 1, DepthRGBA), rawFrame{100, [][]byte{chunkBytes(t, visibleLayer("a"))}})

	badMagic := bytes.Clone(good)
	badMagic[HeaderSize+4] = 0
	if _, err := Decode(badMagic); !errors.Is(err, ErrBadFrameMagic) {
		t.Errorf("frame magic: expected ErrBadFrameMagic, got %v", err)
	}

	if _, err := Decode(good[:len(good)-3]); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("truncated chunk: expected ErrOutOfBounds, got %v", err)
	}

	tiny := buildSprite(t, testHeader(1, 1, DepthRGBA), rawFrame{100, [][]byte{{2, 0, 0, 0, 0x04, 0x20}}})
	if _, err := Decode(tiny); !errors.Is(err, ErrMalformedChunk) {
		t.Errorf("chunk size 2: expected ErrMalformedChunk, got %v", err)
	}

	missingFrame := bytes.Clone(good)
	missingFrame[6] = 2 // header claims two frames
	if _, err := Decode(missingFrame); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("missing frame: expected ErrOutOfBounds, got %v", err)
	}
}

func TestDecodeFrameDurationFallsBackToSpeed(t *testing.T) {
	h := testHeader(1, 1, DepthRGBA)
	h.Speed = 250
	f := mustDecode(t, buildSprite(t, h, rawFrame{0, nil}, rawFrame{40, nil}))
	if f.Frames[0].Duration != 250 || f.Frames[1].Duration != 40 {
		t.Fatalf("durations = %d, %d", f.Frames[0].Duration, f.Frames[1].Duration)
	}
}

func TestDecodeExtendedChunkCount(t *testing.T) {
	const n = 0x10000 + 3
	chunks := make([][]byte, n)
	empty := rawChunk(0x2022, nil)
	for i := range chunks {
		chunks[i] = empty
	}
	chunks[0] = chunkBytes(t, visibleLayer("a"))
	data := buildSprite(t, testHeader(1, 1, DepthRGBA), rawFrame{100, chunks})

	r := NewReader(data[HeaderSize:])
	r.Skip(6)
	legacy, _ := r.ReadU16()
	r.Skip(4)
	ext, _ := r.ReadU32()
	if legacy != 0xFFFF || ext != n {
		t.Fatalf("frame header counts = %d/%d", legacy, ext)
	}

	f := mustDecode(t, data)
	if f.UnknownChunks != n-1 || len(f.Layers) != 1 {
		t.Fatalf("UnknownChunks = %d, layers = %d", f.UnknownChunks, len(f.Layers))
	}
}

func TestDecodeExtendedCountTakesPrecedence(t *testing.T) {
	data := buildSprite(t, testHeader(1, 1, DepthRGBA), rawFrame{100, [][]byte{
		chunkBytes(t, visibleLayer("a")),
		chunkBytes(t, visibleLayer("b")),
	}})
	// legacy count 1, extended count 2
	data[HeaderSize+6] = 1
	data[HeaderSize+12] = 2
	f := mustDecode(t, data)
	if len(f.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(f.Layers))
	}
}

func TestDecodeLayerMetadataFromFirstFrameOnly(t *testing.T) {
	data := buildSprite(t, testHeader(1, 1, DepthRGBA),
		rawFrame{100, [][]byte{chunkBytes(t, visibleLayer("a"))}},
		rawFrame{100, [][]byte{
			chunkBytes(t, visibleLayer("late")),
			chunkBytes(t, &TagsChunk{Tags: []Tag{{Name: "late"}}}),
		}},
	)
	f := mustDecode(t, data)
	if len(f.Layers) != 1 || len(f.Tags) != 0 {
		t.Fatalf("layers = %d tags = %d", len(f.Layers), len(f.Tags))
	}
}

func TestProjectClipsOffsetCels(t *testing.T) {
	data := buildSprite(t, testHeader(2, 2, DepthRGBA), rawFrame{100, [][]byte{
		chunkBytes(t, visibleLayer("a")),
		chunkBytes(t, &CelChunk{Layer: 0, X: 1, Y: -1, Opacity: 0xFF, CelType: CelRaw, Width: 2, Height: 2,
			Data: []byte{
				1, 1, 1, 1, 2, 2, 2, 2,
				3, 3, 3, 3, 4, 4, 4, 4,
			}}),
	}})
	p := mustDecode(t, data).Project()
	px, ok := p.Cels.Pixels(0, 0)
	if !ok {
		t.Fatalf("no pixels")
	}
	want := []byte{
		0, 0, 0, 0, 3, 3, 3, 3,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(px, want) {
		t.Fatalf("pixels = %v, want %v", px, want)
	}
}

func TestProjectIgnoresLayerOpacityWithoutFlag(t *testing.T) {
	h := testHeader(1, 1, DepthRGBA)
	h.Flags = 0
	l := visibleLayer("a")
	l.Opacity = 10
	p := mustDecode(t, buildSprite(t, h, rawFrame{100, [][]byte{chunkBytes(t, l)}})).Project()
	if p.Layers[0].Opacity != 0xFF {
		t.Fatalf("opacity = %d, want 255", p.Layers[0].Opacity)
	}
}
