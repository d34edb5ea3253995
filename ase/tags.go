package ase

import (
	"fmt"
	"image/color"
)

// LoopDirection is how a tagged frame range plays back.
type LoopDirection uint8

const (
	LoopForward LoopDirection = iota
	LoopReverse
	LoopPingPong
	LoopPingPongReverse
)

func (d LoopDirection) String() string {
	switch d {
	case LoopForward:
		return "forward"
	case LoopReverse:
		return "reverse"
	case LoopPingPong:
		return "ping-pong"
	case LoopPingPongReverse:
		return "ping-pong-reverse"
	}
	return fmt.Sprintf("LoopDirection(%d)", uint8(d))
}

// Tag names an inclusive frame range. Overlapping tags are allowed.
type Tag struct {
	From, To  uint16
	Direction LoopDirection
	Repeat    uint16 // 0 = unspecified (loop forever)
	Color     color.RGBA
	Name      string
}

type TagsChunk struct {
	Tags []Tag
}

func (t *TagsChunk) Type() ChunkType { return ChunkTags }

func decodeTagsChunk(r *Reader) (*TagsChunk, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if err = r.Skip(8); err != nil {
		return nil, err
	}
	t := &TagsChunk{Tags: make([]Tag, 0, n)}
	for i := 0; i < int(n); i++ {
		var tag Tag
		if tag.From, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if tag.To, err = r.ReadU16(); err != nil {
			return nil, err
		}
		dir, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		tag.Direction = LoopDirection(dir)
		if tag.Repeat, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if err = r.Skip(6); err != nil {
			return nil, err
		}
		rgb, err := r.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		tag.Color = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}
		if err = r.Skip(1); err != nil {
			return nil, err
		}
		if tag.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		t.Tags = append(t.Tags, tag)
	}
	return t, nil
}

func (t *TagsChunk) encode(w *Writer) {
	w.WriteU16(uint16(len(t.Tags)))
	w.Skip(8)
	for _, tag := range t.Tags {
		w.WriteU16(tag.From)
		w.WriteU16(tag.To)
		w.WriteU8(uint8(tag.Direction))
		w.WriteU16(tag.Repeat)
		w.Skip(6)
		w.WriteBytes([]byte{tag.Color.R, tag.Color.G, tag.Color.B})
		w.Skip(1)
		w.WriteString(tag.Name)
	}
}
