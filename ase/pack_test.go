package ase

import (
	"bytes"
	"errors"
	"testing"
)

func testPack(t *testing.T) *Pack {
	t.Helper()
	a := mustEncode(t, testProject())
	b := mustEncode(t, &Project{Width: 1, Height: 1, Frames: []FrameInfo{{Duration: 50}}})
	return &Pack{Entries: []PackEntry{
		{Name: "hero.aseprite", Data: a},
		{Name: "blank.aseprite", Data: b},
		{Name: "hero-copy.aseprite", Data: bytes.Clone(a)},
	}}
}

func TestPackRoundtrip(t *testing.T) {
	for _, comp := range []PackCompression{PackCompNone, PackCompZlib, PackCompZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			p := testPack(t)
			data, err := p.Marshal(comp)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, gotComp, err := UnmarshalPack(data)
			if err != nil {
				t.Fatalf("UnmarshalPack: %v", err)
			}
			if gotComp != comp {
				t.Fatalf("compression = %s, want %s", gotComp, comp)
			}
			if len(got.Entries) != len(p.Entries) {
				t.Fatalf("entries = %d, want %d", len(got.Entries), len(p.Entries))
			}
			for i := range p.Entries {
				if got.Entries[i].Name != p.Entries[i].Name || !bytes.Equal(got.Entries[i].Data, p.Entries[i].Data) {
					t.Errorf("entry %d mismatch", i)
				}
			}
		})
	}
}

func TestPackDedupesIdenticalFiles(t *testing.T) {
	p := testPack(t)
	blobs, refs, err := p.dedupe()
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if len(blobs) != 2 {
		t.Fatalf("blobs = %d, want 2", len(blobs))
	}
	if refs[0] != refs[2] || refs[0] == refs[1] {
		t.Fatalf("refs = %v", refs)
	}

	single := &Pack{Entries: p.Entries[:2]}
	withCopy, _ := p.Marshal(PackCompNone)
	without, _ := single.Marshal(PackCompNone)
	// the duplicate costs only its name and blob index
	if extra := len(withCopy) - len(without); extra != 2+len("hero-copy.aseprite")+4 {
		t.Fatalf("duplicate entry added %d bytes", extra)
	}
}

func TestPackRejectsNonSprites(t *testing.T) {
	p := &Pack{Entries: []PackEntry{{Name: "notes.txt", Data: []byte("hello world")}}}
	if _, err := p.Marshal(PackCompNone); !errors.Is(err, ErrNotSprite) {
		t.Fatalf("expected ErrNotSprite, got %v", err)
	}
}

func TestUnmarshalPackErrors(t *testing.T) {
	good, err := testPack(t).Marshal(PackCompNone)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// entry table sits at the end: last 4 bytes are the final entry's blob index
	badIndex := bytes.Clone(good)
	badIndex[len(badIndex)-4] = 9

	badBlob := bytes.Clone(good)
	// content starts after magic, version, compression; then blob count, first blob length
	badBlob[len(packMagicStr)+2+4+4+4] = 0 // first blob's header magic

	badVersion := bytes.Clone(good)
	badVersion[len(packMagicStr)] = 2

	badComp := bytes.Clone(good)
	badComp[len(packMagicStr)+1] = 7

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("NOTAPACK\x01\x00")},
		{"bad version", badVersion},
		{"bad compression", badComp},
		{"truncated", good[:len(good)-2]},
		{"blob index", badIndex},
		{"blob header", badBlob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := UnmarshalPack(tt.data); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParsePackCompression(t *testing.T) {
	for _, c := range []PackCompression{PackCompNone, PackCompZlib, PackCompZstd} {
		got, err := ParsePackCompression(c.String())
		if err != nil || got != c {
			t.Errorf("ParsePackCompression(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParsePackCompression("lz4"); err == nil {
		t.Errorf("expected error for lz4")
	}
}
