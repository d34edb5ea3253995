package ase

import "fmt"

// CelType is the storage variant of a cel payload.
type CelType uint16

const (
	CelRaw               CelType = 0
	CelLinked            CelType = 1
	CelCompressed        CelType = 2
	CelCompressedTilemap CelType = 3
)

func (t CelType) String() string {
	switch t {
	case CelRaw:
		return "raw"
	case CelLinked:
		return "linked"
	case CelCompressed:
		return "compressed"
	case CelCompressedTilemap:
		return "compressed tilemap"
	}
	return fmt.Sprintf("CelType(%d)", uint16(t))
}

// CelChunk is a cel as stored in one frame, before linked references are
// resolved and before pixels are converted to RGBA.
type CelChunk struct {
	Layer       uint16
	X, Y        int16
	Opacity     uint8
	CelType     CelType
	LinkedFrame uint16 // CelLinked only
	Width       uint16
	Height      uint16
	Data        []byte // uncompressed payload at the file's color depth
	Deflated    []byte // zlib payload written for CelCompressed

	// set when the payload could not be used; the cel is then dropped
	skipReason SkipReason
	skipErr    error
}

func (c *CelChunk) Type() ChunkType { return ChunkCel }

func decodeCelChunk(r *Reader, depth ColorDepth) (*CelChunk, error) {
	c := &CelChunk{}
	var err error
	if c.Layer, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if c.X, err = r.ReadI16(); err != nil {
		return nil, err
	}
	if c.Y, err = r.ReadI16(); err != nil {
		return nil, err
	}
	if c.Opacity, err = r.ReadU8(); err != nil {
		return nil, err
	}
	t, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	c.CelType = CelType(t)
	// z-index (2) + reserved (5); stacking follows layer order
	if err = r.Skip(7); err != nil {
		return nil, err
	}

	switch c.CelType {
	case CelLinked:
		if c.LinkedFrame, err = r.ReadU16(); err != nil {
			return nil, err
		}
		return c, nil
	case CelRaw, CelCompressed:
	default:
		c.skipReason = SkipUnsupportedCel
		c.skipErr = fmt.Errorf("cel type %s", c.CelType)
		return c, nil
	}

	if c.Width, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if c.Height, err = r.ReadU16(); err != nil {
		return nil, err
	}
	payload, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return nil, err
	}
	want := int(c.Width) * int(c.Height) * depth.Stride()
	if c.CelType == CelCompressed {
		data, err := inflate(payload, want)
		if err != nil {
			c.skipReason = SkipInflate
			c.skipErr = err
			return c, nil
		}
		payload = data
	}
	if len(payload) < want {
		c.skipReason = SkipPayloadSize
		c.skipErr = fmt.Errorf("%dx%d cel needs %d bytes, got %d", c.Width, c.Height, want, len(payload))
		return c, nil
	}
	c.Data = append([]byte(nil), payload[:want]...)
	return c, nil
}

func (c *CelChunk) encode(w *Writer) {
	w.WriteU16(c.Layer)
	w.WriteI16(c.X)
	w.WriteI16(c.Y)
	w.WriteU8(c.Opacity)
	w.WriteU16(uint16(c.CelType))
	w.WriteI16(0) // z-index
	w.Skip(5)
	switch c.CelType {
	case CelLinked:
		w.WriteU16(c.LinkedFrame)
	case CelRaw:
		w.WriteU16(c.Width)
		w.WriteU16(c.Height)
		w.WriteBytes(c.Data)
	case CelCompressed:
		w.WriteU16(c.Width)
		w.WriteU16(c.Height)
		w.WriteBytes(c.Deflated)
	}
}
