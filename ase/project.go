package ase

// LayerInfo describes one layer of a project snapshot.
type LayerInfo struct {
	Name      string
	Visible   bool
	Opacity   uint8
	BlendMode BlendMode
}

// FrameInfo describes one frame of a project snapshot.
type FrameInfo struct {
	Duration uint16 // ms
}

// PixelSource looks up the canvas-sized RGBA buffer of a (layer, frame)
// pair. A missing pair has no content.
type PixelSource interface {
	Pixels(layer, frame int) ([]byte, bool)
}

// CelKey addresses one (layer, frame) pair.
type CelKey struct {
	Layer, Frame int
}

// CelMap is a map-backed PixelSource.
type CelMap map[CelKey][]byte

func (m CelMap) Pixels(layer, frame int) ([]byte, bool) {
	px, ok := m[CelKey{Layer: layer, Frame: frame}]
	return px, ok
}

func (m CelMap) Set(layer, frame int, px []byte) {
	m[CelKey{Layer: layer, Frame: frame}] = px
}

// Project is the neutral snapshot exchanged with the editing application.
// Every pixel buffer is Width*Height*4 bytes of non-premultiplied RGBA.
type Project struct {
	Width, Height int
	Layers        []LayerInfo
	Frames        []FrameInfo
	Cels          PixelSource
	Palette       Palette
	Tags          []Tag
}

// Project converts a decoded file into a snapshot. Cels are placed on a
// canvas-sized buffer at their offset and clipped; empty cels are absent.
// Group and tilemap layers are listed so indices line up, with no pixels.
func (f *File) Project() *Project {
	w, h := int(f.Header.Width), int(f.Header.Height)
	cels := make(CelMap)
	p := &Project{
		Width:   w,
		Height:  h,
		Layers:  make([]LayerInfo, len(f.Layers)),
		Frames:  make([]FrameInfo, len(f.Frames)),
		Cels:    cels,
		Palette: append(Palette(nil), f.Palette...),
		Tags:    append([]Tag(nil), f.Tags...),
	}
	for i, l := range f.Layers {
		opacity := l.Opacity
		if !f.Header.LayerOpacityValid() {
			opacity = 0xFF
		}
		p.Layers[i] = LayerInfo{Name: l.Name, Visible: l.Visible(), Opacity: opacity, BlendMode: l.BlendMode}
	}
	for fi, fr := range f.Frames {
		p.Frames[fi] = FrameInfo{Duration: fr.Duration}
		for _, c := range fr.Cels {
			if c.Empty() || f.Layers[c.Layer].Kind != LayerImage {
				continue
			}
			cels.Set(c.Layer, fi, placeCel(&c, w, h))
		}
	}
	return p
}

// placeCel copies a cel onto a transparent w×h canvas at its offset.
func placeCel(c *Cel, w, h int) []byte {
	canvas := make([]byte, w*h*4)
	if c.X == 0 && c.Y == 0 && c.Width == w && c.Height == h {
		copy(canvas, c.Pixels)
		return canvas
	}
	for y := 0; y < c.Height; y++ {
		cy := c.Y + y
		if cy < 0 || cy >= h {
			continue
		}
		x0, x1 := max(c.X, 0), min(c.X+c.Width, w)
		if x0 >= x1 {
			continue
		}
		src := (y*c.Width + (x0 - c.X)) * 4
		dst := (cy*w + x0) * 4
		copy(canvas[dst:dst+(x1-x0)*4], c.Pixels[src:])
	}
	return canvas
}
