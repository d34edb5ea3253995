package utils

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/voxelsplace/aseio/ase"
)

const noisePaletteSize = 63

// noisePalette returns a random palette; every noise pixel uses one of its colors.
func noisePalette(r *rand.Rand) ase.Palette {
	pal := make(ase.Palette, noisePaletteSize)
	for i := range pal {
		pal[i] = ase.PaletteEntry{Color: color.NRGBA{
			R: uint8(r.Intn(256)),
			G: uint8(r.Intn(256)),
			B: uint8(r.Intn(256)),
			A: 0xFF,
		}}
	}
	return pal
}

// generateNoiseCel returns a size×size RGBA buffer with the given percentage
// of pixels filled with random palette colors. Remaining pixels are transparent.
func generateNoiseCel(percentage float64, size int, pal ase.Palette, r *rand.Rand) []byte {
	percentage = min(max(percentage, 0), 100)
	total := size * size
	want := min(max(int(float64(total)*(percentage/100.0)+0.5), 0), total)

	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates: only the first want positions are needed
	for i := 0; i < want; i++ {
		j := i + r.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	px := make([]byte, total*4)
	for k := 0; k < want; k++ {
		c := pal[r.Intn(len(pal))].Color
		o := idx[k] * 4
		px[o], px[o+1], px[o+2], px[o+3] = c.R, c.G, c.B, c.A
	}
	return px
}

// GenerateNoiseProject builds a frames×layers project of size×size random
// noise using the given seed.
func GenerateNoiseProject(percentage float64, frames, layers, size int, seed int64) (*ase.Project, error) {
	if frames <= 0 || layers < 0 || size <= 0 {
		return nil, fmt.Errorf("invalid noise parameters: %d frames, %d layers, size %d", frames, layers, size)
	}
	r := rand.New(rand.NewSource(seed))
	cels := ase.CelMap{}
	p := &ase.Project{
		Width:   size,
		Height:  size,
		Cels:    cels,
		Palette: noisePalette(r),
	}
	for li := 0; li < layers; li++ {
		p.Layers = append(p.Layers, ase.LayerInfo{Name: fmt.Sprintf("Layer %d", li+1), Visible: true, Opacity: 0xFF})
	}
	for fi := 0; fi < frames; fi++ {
		p.Frames = append(p.Frames, ase.FrameInfo{Duration: 100})
		for li := 0; li < layers; li++ {
			cels.Set(li, fi, generateNoiseCel(percentage, size, p.Palette, r))
		}
	}
	if frames > 1 {
		p.Tags = []ase.Tag{{From: 0, To: uint16(frames - 1), Direction: ase.LoopForward, Name: "noise"}}
	}
	return p, nil
}

// RunGenerateNoiseSprite writes a random noise sprite to output.
func RunGenerateNoiseSprite(percentage float64, frames, layers, size int, output string) error {
	p, err := GenerateNoiseProject(percentage, frames, layers, size, time.Now().UnixNano())
	if err != nil {
		return err
	}
	if err := ase.SaveProject(p, output); err != nil {
		return fmt.Errorf("failed to save %s: %w", output, err)
	}
	return nil
}
