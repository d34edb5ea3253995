package ase

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// Composite flattens the visible image layers of one frame onto a
// transparent canvas. Every blend mode is drawn as normal source-over.
func (f *File) Composite(frame int) (*image.NRGBA, error) {
	if frame < 0 || frame >= len(f.Frames) {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", frame, len(f.Frames))
	}
	w, h := int(f.Header.Width), int(f.Header.Height)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	visible := f.visibleLayers()
	fr := &f.Frames[frame]
	for li := range f.Layers {
		if !visible[li] {
			continue
		}
		c, ok := fr.Cel(li)
		if !ok || c.Empty() {
			continue
		}
		opacity := uint32(c.Opacity)
		if f.Header.LayerOpacityValid() {
			opacity = opacity * uint32(f.Layers[li].Opacity) / 0xFF
		}
		drawCel(img, c, opacity)
	}
	return img, nil
}

// visibleLayers resolves visibility through the group hierarchy: a layer is
// drawn only if it and every enclosing group are visible.
func (f *File) visibleLayers() []bool {
	out := make([]bool, len(f.Layers))
	var groups []bool // visibility of the open group at each child level
	for i, l := range f.Layers {
		level := int(l.ChildLevel)
		parent := true
		if level > 0 && level-1 < len(groups) {
			parent = groups[level-1]
		}
		vis := parent && l.Visible()
		if l.Kind == LayerGroup {
			groups = append(groups[:min(level, len(groups))], vis)
		}
		out[i] = vis && l.Kind == LayerImage
	}
	return out
}

func drawCel(dst *image.NRGBA, c *Cel, opacity uint32) {
	if opacity == 0 {
		return
	}
	b := dst.Bounds()
	for y := 0; y < c.Height; y++ {
		dy := c.Y + y
		if dy < b.Min.Y || dy >= b.Max.Y {
			continue
		}
		for x := 0; x < c.Width; x++ {
			dx := c.X + x
			if dx < b.Min.X || dx >= b.Max.X {
				continue
			}
			s := c.Pixels[(y*c.Width+x)*4:]
			sa := uint32(s[3]) * opacity / 0xFF
			if sa == 0 {
				continue
			}
			d := dst.Pix[dst.PixOffset(dx, dy):]
			da := uint32(d[3])
			// non-premultiplied source-over
			oa := sa + da*(0xFF-sa)/0xFF
			for k := 0; k < 3; k++ {
				d[k] = uint8(min((uint32(s[k])*sa+uint32(d[k])*da*(0xFF-sa)/0xFF)/oa, 0xFF))
			}
			d[3] = uint8(oa)
		}
	}
}

func decodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(f.Frames) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, int(f.Header.Width), int(f.Header.Height))), nil
	}
	return f.Composite(0)
}

func decodeConfig(r io.Reader) (image.Config, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, err
	}
	h, err := decodeHeader(NewReader(buf[:]))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

func init() {
	image.RegisterFormat("aseprite", "????\xE0\xA5", decodeImage, decodeConfig)
}
