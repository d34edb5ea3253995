package ase

// LayerKind is the layer type code.
type LayerKind uint16

const (
	LayerImage   LayerKind = 0
	LayerGroup   LayerKind = 1
	LayerTilemap LayerKind = 2
)

// Layer flag bits.
const (
	LayerVisible      uint16 = 1 << 0
	LayerEditable     uint16 = 1 << 1
	LayerLockMovement uint16 = 1 << 2
	LayerBackground   uint16 = 1 << 3
)

// BlendMode is the layer blend-mode code as stored in the file.
type BlendMode uint16

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendAddition
	BlendSubtract
	BlendDivide
)

// Layer is a decoded layer chunk. Group and tilemap layers are kept so that
// cel layer indices stay stable, but only image layers are rendered.
type Layer struct {
	Flags        uint16
	Kind         LayerKind
	ChildLevel   uint16
	BlendMode    BlendMode
	Opacity      uint8
	Name         string
	TilesetIndex uint32 // tilemap layers only
}

func (l *Layer) Type() ChunkType { return ChunkLayer }

func (l *Layer) Visible() bool { return l.Flags&LayerVisible != 0 }

func decodeLayer(r *Reader) (*Layer, error) {
	l := &Layer{}
	var err error
	if l.Flags, err = r.ReadU16(); err != nil {
		return nil, err
	}
	kind, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	l.Kind = LayerKind(kind)
	if l.ChildLevel, err = r.ReadU16(); err != nil {
		return nil, err
	}
	// default width/height, ignored
	if err = r.Skip(4); err != nil {
		return nil, err
	}
	mode, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	l.BlendMode = BlendMode(mode)
	if l.Opacity, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if err = r.Skip(3); err != nil {
		return nil, err
	}
	if l.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if l.Kind == LayerTilemap && r.Remaining() >= 4 {
		if l.TilesetIndex, err = r.ReadU32(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// encode always writes an image layer; the writer produces nothing else.
func (l *Layer) encode(w *Writer) {
	w.WriteU16(l.Flags)
	w.WriteU16(uint16(LayerImage))
	w.WriteU16(l.ChildLevel)
	w.WriteU16(0)
	w.WriteU16(0)
	w.WriteU16(uint16(l.BlendMode))
	w.WriteU8(l.Opacity)
	w.Skip(3)
	w.WriteString(l.Name)
}
