package ase

import (
	"bytes"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// PackCompression indicates the compression used for the pack content section.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZlib PackCompression = 1
	PackCompZstd PackCompression = 2
)

func (c PackCompression) String() string {
	switch c {
	case PackCompNone:
		return "none"
	case PackCompZlib:
		return "zlib"
	case PackCompZstd:
		return "zstd"
	}
	return fmt.Sprintf("PackCompression(%d)", uint8(c))
}

// ParsePackCompression maps a name ("none", "zlib", "zstd") to its code.
func ParsePackCompression(s string) (PackCompression, error) {
	switch s {
	case "none", "":
		return PackCompNone, nil
	case "zlib":
		return PackCompZlib, nil
	case "zstd":
		return PackCompZstd, nil
	}
	return 0, fmt.Errorf("unknown pack compression %q", s)
}

const (
	packMagicStr = "ASEPACK\x00"
	packVersion  = 1
)

// PackEntry is one named sprite file inside a pack.
type PackEntry struct {
	Name string
	Data []byte
}

// Pack bundles several sprite files. Entries with identical bytes share
// one stored blob.
type Pack struct {
	Entries []PackEntry
}

// Marshal encodes the pack with the given content compression.
func (p *Pack) Marshal(comp PackCompression) ([]byte, error) {
	blobs, refs, err := p.dedupe()
	if err != nil {
		return nil, err
	}
	content := newGrowingWriter()
	content.WriteU32(uint32(len(blobs)))
	for _, b := range blobs {
		content.WriteU32(uint32(len(b)))
		content.WriteBytes(b)
	}
	content.WriteU32(uint32(len(p.Entries)))
	for i, e := range p.Entries {
		content.WriteString(e.Name)
		content.WriteU32(uint32(refs[i]))
	}
	if err := content.Err(); err != nil {
		return nil, err
	}

	var final []byte
	switch comp {
	case PackCompNone:
		final = content.Bytes()
	case PackCompZlib:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(content.Bytes()); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		final = buf.Bytes()
	case PackCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		final = enc.EncodeAll(content.Bytes(), nil)
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported pack compression: %d", comp)
	}

	out := make([]byte, 0, len(packMagicStr)+2+len(final))
	out = append(out, packMagicStr...)
	out = append(out, packVersion, uint8(comp))
	return append(out, final...), nil
}

// dedupe returns the distinct blobs and, per entry, the blob it uses.
func (p *Pack) dedupe() ([][]byte, []int, error) {
	var blobs [][]byte
	index := make(map[uint64][]int, len(p.Entries))
	refs := make([]int, len(p.Entries))
	for i, e := range p.Entries {
		if _, err := DecodeHeader(e.Data); err != nil {
			return nil, nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		h := xxhash.Sum64(e.Data)
		ref := -1
		for _, idx := range index[h] {
			if bytes.Equal(blobs[idx], e.Data) {
				ref = idx
				break
			}
		}
		if ref < 0 {
			ref = len(blobs)
			blobs = append(blobs, e.Data)
			index[h] = append(index[h], ref)
		}
		refs[i] = ref
	}
	return blobs, refs, nil
}

// UnmarshalPack parses a pack and returns it with the compression it used.
func UnmarshalPack(data []byte) (*Pack, PackCompression, error) {
	if len(data) < len(packMagicStr)+2 || string(data[:len(packMagicStr)]) != packMagicStr {
		return nil, 0, fmt.Errorf("not a sprite pack")
	}
	version := data[len(packMagicStr)]
	if version != packVersion {
		return nil, 0, fmt.Errorf("unsupported pack version: %d", version)
	}
	comp := PackCompression(data[len(packMagicStr)+1])
	content := data[len(packMagicStr)+2:]
	switch comp {
	case PackCompNone:
	case PackCompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, 0, err
		}
		defer zr.Close()
		if content, err = io.ReadAll(zr); err != nil {
			return nil, 0, err
		}
	case PackCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		if content, err = dec.DecodeAll(content, nil); err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, fmt.Errorf("unsupported pack compression: %d", comp)
	}

	r := NewReader(content)
	nBlobs, err := r.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	var blobs [][]byte
	for i := uint32(0); i < nBlobs; i++ {
		n, err := r.ReadU32()
		if err != nil {
			return nil, 0, err
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, 0, err
		}
		if _, err := DecodeHeader(b); err != nil {
			return nil, 0, fmt.Errorf("blob %d: %w", i, err)
		}
		blobs = append(blobs, b)
	}
	nEntries, err := r.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	pack := &Pack{}
	for i := uint32(0); i < nEntries; i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, 0, err
		}
		ref, err := r.ReadU32()
		if err != nil {
			return nil, 0, err
		}
		if ref >= uint32(len(blobs)) {
			return nil, 0, fmt.Errorf("entry %q: invalid blob index %d", name, ref)
		}
		pack.Entries = append(pack.Entries, PackEntry{Name: name, Data: bytes.Clone(blobs[ref])})
	}
	return pack, comp, nil
}
