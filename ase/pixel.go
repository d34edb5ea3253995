package ase

import "fmt"

// ToRGBA converts a cel payload at the given depth into non-premultiplied
// RGBA bytes. Indexed payloads resolve through pal; the transparent index
// maps to (0,0,0,0) and unknown indices to opaque black.
func ToRGBA(payload []byte, depth ColorDepth, pal Palette, transparent uint8) ([]byte, error) {
	stride := depth.Stride()
	if stride == 0 {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedColorDepth, uint16(depth))
	}
	if len(payload)%stride != 0 {
		return nil, fmt.Errorf("%s payload of %d bytes is not a multiple of %d", depth, len(payload), stride)
	}
	n := len(payload) / stride
	out := make([]byte, n*4)
	switch depth {
	case DepthRGBA:
		copy(out, payload)
	case DepthGrayscale:
		for i := 0; i < n; i++ {
			g, a := payload[i*2], payload[i*2+1]
			out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = g, g, g, a
		}
	case DepthIndexed:
		for i, idx := range payload {
			if idx == transparent {
				continue
			}
			c := pal.Lookup(int(idx))
			out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return out, nil
}

// FromRGBA is the inverse of ToRGBA. Only 32-bit output is produced.
func FromRGBA(rgba []byte, depth ColorDepth) ([]byte, error) {
	if depth != DepthRGBA {
		return nil, fmt.Errorf("%w %d: only 32-bit cels are written", ErrUnsupportedColorDepth, uint16(depth))
	}
	if len(rgba)%4 != 0 {
		return nil, fmt.Errorf("RGBA buffer of %d bytes is not a multiple of 4", len(rgba))
	}
	return append([]byte(nil), rgba...), nil
}

// HasOpaquePixel reports whether any pixel has a non-zero alpha byte.
func HasOpaquePixel(rgba []byte) bool {
	for i := 3; i < len(rgba); i += 4 {
		if rgba[i] != 0 {
			return true
		}
	}
	return false
}
