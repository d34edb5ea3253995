package ase

import "fmt"

const (
	HeaderSize  = 128
	headerMagic = 0xA5E0
)

// ColorDepth is the header's bits-per-pixel field.
type ColorDepth uint16

const (
	DepthIndexed   ColorDepth = 8
	DepthGrayscale ColorDepth = 16
	DepthRGBA      ColorDepth = 32
)

// Stride is the number of payload bytes per pixel at this depth.
func (d ColorDepth) Stride() int {
	switch d {
	case DepthRGBA:
		return 4
	case DepthGrayscale:
		return 2
	case DepthIndexed:
		return 1
	}
	return 0
}

func (d ColorDepth) Valid() bool { return d.Stride() != 0 }

func (d ColorDepth) String() string {
	switch d {
	case DepthRGBA:
		return "RGBA"
	case DepthGrayscale:
		return "Grayscale"
	case DepthIndexed:
		return "Indexed"
	}
	return fmt.Sprintf("ColorDepth(%d)", uint16(d))
}

// Header flag bits.
const (
	FlagLayerOpacityValid uint32 = 1 << 0
)

// Header holds the fixed 128-byte record at the start of a sprite file.
type Header struct {
	FileSize         uint32
	Frames           uint16
	Width            uint16
	Height           uint16
	ColorDepth       ColorDepth
	Flags            uint32
	Speed            uint16 // deprecated per-file frame duration, ms
	TransparentIndex uint8  // indexed sprites only
	NumColors        uint16 // 0 on disk means 256
	PixelWidth       uint8
	PixelHeight      uint8
	GridX, GridY     int16
	GridWidth        uint16
	GridHeight       uint16
}

func (h Header) LayerOpacityValid() bool { return h.Flags&FlagLayerOpacityValid != 0 }

// PixelRatio returns the pixel aspect ratio as width/height.
func (h Header) PixelRatio() float64 {
	if h.PixelHeight == 0 {
		return 1
	}
	return float64(h.PixelWidth) / float64(h.PixelHeight)
}

func decodeHeader(r *Reader) (Header, error) {
	var h Header
	start := r.Pos()
	if r.Remaining() < 6 {
		return h, fmt.Errorf("%w: %d bytes", ErrNotSprite, r.Remaining())
	}
	var err error
	if h.FileSize, err = r.ReadU32(); err != nil {
		return h, err
	}
	magic, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	if magic != headerMagic {
		return h, fmt.Errorf("%w: magic 0x%04X", ErrNotSprite, magic)
	}
	if err := r.need(HeaderSize - 6); err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	if h.Frames, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.Width, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.Height, err = r.ReadU16(); err != nil {
		return h, err
	}
	depth, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	h.ColorDepth = ColorDepth(depth)
	if !h.ColorDepth.Valid() {
		return h, fmt.Errorf("%w %d", ErrUnsupportedColorDepth, depth)
	}
	if h.Flags, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.Speed, err = r.ReadU16(); err != nil {
		return h, err
	}
	if err = r.Skip(8); err != nil {
		return h, err
	}
	if h.TransparentIndex, err = r.ReadU8(); err != nil {
		return h, err
	}
	if err = r.Skip(3); err != nil {
		return h, err
	}
	if h.NumColors, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.NumColors == 0 {
		h.NumColors = 256
	}
	if h.PixelWidth, err = r.ReadU8(); err != nil {
		return h, err
	}
	if h.PixelHeight, err = r.ReadU8(); err != nil {
		return h, err
	}
	if h.PixelWidth == 0 || h.PixelHeight == 0 {
		h.PixelWidth, h.PixelHeight = 1, 1
	}
	if h.GridX, err = r.ReadI16(); err != nil {
		return h, err
	}
	if h.GridY, err = r.ReadI16(); err != nil {
		return h, err
	}
	if h.GridWidth, err = r.ReadU16(); err != nil {
		return h, err
	}
	if h.GridHeight, err = r.ReadU16(); err != nil {
		return h, err
	}
	return h, r.Seek(start + HeaderSize)
}

func encodeHeader(w *Writer, h Header) {
	start := w.Pos()
	w.WriteU32(h.FileSize)
	w.WriteU16(headerMagic)
	w.WriteU16(h.Frames)
	w.WriteU16(h.Width)
	w.WriteU16(h.Height)
	w.WriteU16(uint16(h.ColorDepth))
	w.WriteU32(h.Flags)
	w.WriteU16(h.Speed)
	w.Skip(8)
	w.WriteU8(h.TransparentIndex)
	w.Skip(3)
	w.WriteU16(h.NumColors)
	w.WriteU8(h.PixelWidth)
	w.WriteU8(h.PixelHeight)
	w.WriteI16(h.GridX)
	w.WriteI16(h.GridY)
	w.WriteU16(h.GridWidth)
	w.WriteU16(h.GridHeight)
	w.Skip(start + HeaderSize - w.Pos())
}
