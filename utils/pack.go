package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/voxelsplace/aseio/api"
	"github.com/voxelsplace/aseio/ase"
	"github.com/voxelsplace/aseio/internal/logger"
)

// CreatePack reads sprite files and writes a sprite pack to outputFile.
// Files with identical contents are stored once.
func CreatePack(inputFiles []string, outputFile string, comp ase.PackCompression) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no sprite files provided")
	}
	type item struct {
		name string
		data []byte
		err  error
	}
	items := make([]item, len(inputFiles))

	var wg sync.WaitGroup
	for i := range inputFiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := inputFiles[i]
			b, err := os.ReadFile(path)
			if err != nil {
				items[i].err = err
				return
			}
			if _, err := ase.DecodeHeader(b); err != nil {
				items[i].err = fmt.Errorf("%s: %w", path, err)
				return
			}
			items[i] = item{name: filepath.Base(path), data: b}
		}(i)
	}
	wg.Wait()

	pack := &ase.Pack{Entries: make([]ase.PackEntry, len(items))}
	for i, it := range items {
		if it.err != nil {
			return it.err
		}
		pack.Entries[i] = ase.PackEntry{Name: it.name, Data: it.data}
	}
	start := time.Now()
	data, err := pack.Marshal(comp)
	if err != nil {
		return err
	}
	logger.Log("packing %d sprites (%s) took %d ms", len(items), comp, time.Since(start).Milliseconds())
	return os.WriteFile(outputFile, data, 0o644)
}

// UnpackToDir writes every entry of a sprite pack into outputDir.
func UnpackToDir(packFile, outputDir string) error {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return err
	}
	pack, _, err := ase.UnmarshalPack(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	var wg sync.WaitGroup
	errCh := make(chan error, len(pack.Entries))
	for _, e := range pack.Entries {
		wg.Add(1)
		go func(e ase.PackEntry) {
			defer wg.Done()
			// names are flattened so entries stay inside outputDir
			if err := os.WriteFile(filepath.Join(outputDir, filepath.Base(e.Name)), e.Data, 0o644); err != nil {
				errCh <- err
			}
		}(e)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// UnpackToMemory returns names and sprite bytes without writing to disk.
func UnpackToMemory(packFile string) ([]string, [][]byte, error) {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return nil, nil, err
	}
	pack, _, err := ase.UnmarshalPack(data)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(pack.Entries))
	blobs := make([][]byte, len(pack.Entries))
	for i, e := range pack.Entries {
		names[i] = e.Name
		blobs[i] = e.Data
	}
	return names, blobs, nil
}

// RunPack2GLB converts a sprite pack into a .glb, one node per entry.
func RunPack2GLB(inPackPath, outGlbPath string) error {
	data, err := os.ReadFile(inPackPath)
	if err != nil {
		return err
	}
	glb, err := api.PackToGLB(data)
	if err != nil {
		return err
	}
	return os.WriteFile(outGlbPath, glb, 0o644)
}
