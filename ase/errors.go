package ase

import (
	"errors"
	"fmt"
)

// Fatal errors. Decode and Encode wrap these with context; match with errors.Is.
var (
	ErrNotSprite             = errors.New("not a recognized sprite file")
	ErrBadFrameMagic         = errors.New("bad frame magic number")
	ErrUnsupportedColorDepth = errors.New("unsupported color depth")
	ErrOutOfBounds           = errors.New("read past end of buffer")
	ErrMalformedChunk        = errors.New("malformed chunk")
	ErrInvalidProject        = errors.New("invalid project snapshot")
)

// SkipReason says why a cel was dropped or emptied while decoding.
type SkipReason uint8

const (
	SkipUnknownLayer SkipReason = iota + 1
	SkipInflate
	SkipPayloadSize
	SkipUnresolvedLink
	SkipUnsupportedCel
)

func (r SkipReason) String() string {
	switch r {
	case SkipUnknownLayer:
		return "unknown layer"
	case SkipInflate:
		return "inflate failed"
	case SkipPayloadSize:
		return "payload size mismatch"
	case SkipUnresolvedLink:
		return "unresolved linked cel"
	case SkipUnsupportedCel:
		return "unsupported cel type"
	default:
		return fmt.Sprintf("skip(%d)", uint8(r))
	}
}

// Skip records a recoverable problem: the cel was dropped (or left empty for
// unresolved links) and decoding carried on.
type Skip struct {
	Frame  int
	Layer  int
	Reason SkipReason
	Err    error
}

func (s Skip) Error() string {
	if s.Err != nil {
		return fmt.Sprintf("frame %d layer %d: %s: %v", s.Frame, s.Layer, s.Reason, s.Err)
	}
	return fmt.Sprintf("frame %d layer %d: %s", s.Frame, s.Layer, s.Reason)
}

func (s Skip) Unwrap() error { return s.Err }
