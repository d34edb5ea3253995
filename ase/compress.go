package ase

import (
	"bytes"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zlib"
)

// inflate decompresses a zlib cel payload, reading at most want bytes.
func inflate(b []byte, want int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, int64(want)))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Digest is the content hash used to recognise identical pixel buffers.
func Digest(pixels []byte) uint64 { return xxhash.Sum64(pixels) }

// celCompressor deflates cel pixels for one Encode call. Identical buffers
// (common for held frames) are compressed once.
type celCompressor struct {
	level int
	zw    *zlib.Writer
	buf   bytes.Buffer
	cache map[uint64][]deflatedCel
}

type deflatedCel struct {
	pixels   []byte
	deflated []byte
}

func newCelCompressor(level int) *celCompressor {
	return &celCompressor{level: level, cache: make(map[uint64][]deflatedCel)}
}

func (c *celCompressor) deflate(pixels []byte) ([]byte, error) {
	h := xxhash.Sum64(pixels)
	for _, e := range c.cache[h] {
		if bytes.Equal(e.pixels, pixels) {
			return e.deflated, nil
		}
	}
	c.buf.Reset()
	if c.zw == nil {
		zw, err := zlib.NewWriterLevel(&c.buf, c.level)
		if err != nil {
			return nil, fmt.Errorf("zlib level %d: %w", c.level, err)
		}
		c.zw = zw
	} else {
		c.zw.Reset(&c.buf)
	}
	if _, err := c.zw.Write(pixels); err != nil {
		return nil, err
	}
	if err := c.zw.Close(); err != nil {
		return nil, err
	}
	out := bytes.Clone(c.buf.Bytes())
	c.cache[h] = append(c.cache[h], deflatedCel{pixels: pixels, deflated: out})
	return out, nil
}
