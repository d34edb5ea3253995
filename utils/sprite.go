package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/voxelsplace/aseio/api"
	"github.com/voxelsplace/aseio/ase"
	"github.com/voxelsplace/aseio/internal/logger"
)

// loadSprite decodes a sprite file and reports every dropped cel.
func loadSprite(path string) (*ase.File, error) {
	f, err := ase.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	for _, s := range f.Skipped {
		logger.Log("%s: skipped cel: %v", path, s)
	}
	if f.UnknownChunks > 0 {
		logger.Log("%s: ignored %d unknown chunks", path, f.UnknownChunks)
	}
	return f, nil
}

// RunInfo writes a JSON summary of a sprite file to w.
func RunInfo(inPath string, w io.Writer) error {
	f, err := loadSprite(inPath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.InfoFromFile(f))
}

// RunRoundtrip decodes a sprite, converts it to a project snapshot and writes
// it back as a 32-bit sprite.
func RunRoundtrip(inPath, outPath string, opts ase.EncodeOptions) error {
	f, err := loadSprite(inPath)
	if err != nil {
		return err
	}
	start := time.Now()
	data, err := ase.EncodeWithOptions(f.Project(), opts)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", outPath, err)
	}
	logger.Log("encoding %s took %d ms (%d bytes)", outPath, time.Since(start).Milliseconds(), len(data))
	return os.WriteFile(outPath, data, 0o644)
}

// RunSprite2GLB converts a sprite into a .glb with one node per frame.
func RunSprite2GLB(inPath, outPath string) error {
	f, err := loadSprite(inPath)
	if err != nil {
		return err
	}
	glb, err := api.FileToGLB(f)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, glb, 0o644)
}
