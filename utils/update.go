package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/voxelsplace/aseio/ase"
	"github.com/voxelsplace/aseio/internal/logger"
)

type layerUpdate struct {
	Name    *string `json:"name"`
	Visible *bool   `json:"visible"`
	Opacity *int    `json:"opacity"`
}

type frameUpdate struct {
	Duration *int `json:"duration"`
}

// updatesJSON is { "layers": { "<index>": {...} }, "frames": { "<index>": {...} } }
type updatesJSON struct {
	Layers map[string]layerUpdate `json:"layers"`
	Frames map[string]frameUpdate `json:"frames"`
}

// RunUpdateSprite applies a JSON updates blob to an existing sprite file and
// writes the result as a new sprite.
func RunUpdateSprite(jsonUpdates []byte, inputPath, outputPath string) error {
	f, err := loadSprite(inputPath)
	if err != nil {
		return err
	}
	p := f.Project()
	if err := applyJSONToProject(p, jsonUpdates); err != nil {
		return err
	}
	if err := ase.SaveProject(p, outputPath); err != nil {
		return fmt.Errorf("failed to save sprite: %w", err)
	}
	if fi, err := os.Stat(outputPath); err == nil {
		logger.Log("sprite updated (%d bytes)", fi.Size())
	}
	return nil
}

func parseIndex(s string, n int) (int, bool, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid index '%s': %w", s, err)
	}
	return idx, idx >= 0 && idx < n, nil
}

func clampByte(v int) uint8 {
	return uint8(min(max(v, 0), 0xFF))
}

func applyJSONToProject(p *ase.Project, jsonBlob []byte) error {
	var up updatesJSON
	if err := json.Unmarshal(jsonBlob, &up); err != nil {
		return fmt.Errorf("invalid updates JSON: %w", err)
	}
	for key, u := range up.Layers {
		idx, ok, err := parseIndex(key, len(p.Layers))
		if err != nil {
			return err
		}
		if !ok {
			logger.Log("ignoring update for layer %d: out of range", idx)
			continue
		}
		l := &p.Layers[idx]
		if u.Name != nil {
			l.Name = *u.Name
		}
		if u.Visible != nil {
			l.Visible = *u.Visible
		}
		if u.Opacity != nil {
			l.Opacity = clampByte(*u.Opacity)
		}
	}
	for key, u := range up.Frames {
		idx, ok, err := parseIndex(key, len(p.Frames))
		if err != nil {
			return err
		}
		if !ok {
			logger.Log("ignoring update for frame %d: out of range", idx)
			continue
		}
		if u.Duration != nil {
			p.Frames[idx].Duration = uint16(min(max(*u.Duration, 0), 0xFFFF))
		}
	}
	return nil
}
