package api

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/voxelsplace/aseio/ase"
)

// LayerSummary is the per-layer part of Info.
type LayerSummary struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Visible   bool   `json:"visible"`
	Opacity   uint8  `json:"opacity"`
	BlendMode uint16 `json:"blend_mode"`
}

// Info summarizes a decoded sprite.
type Info struct {
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	ColorDepth    string         `json:"color_depth"`
	Frames        int            `json:"frames"`
	Durations     []uint16       `json:"durations"`
	Layers        []LayerSummary `json:"layers"`
	Tags          []string       `json:"tags"`
	PaletteSize   int            `json:"palette_size"`
	Cels          int            `json:"cels"`
	UniqueCels    int            `json:"unique_cels"`
	UnknownChunks int            `json:"unknown_chunks"`
	Skipped       []string       `json:"skipped,omitempty"`
}

func layerKind(k ase.LayerKind) string {
	switch k {
	case ase.LayerImage:
		return "image"
	case ase.LayerGroup:
		return "group"
	case ase.LayerTilemap:
		return "tilemap"
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// InfoFromFile builds the summary of an already decoded sprite.
func InfoFromFile(f *ase.File) *Info {
	info := &Info{
		Width:         int(f.Header.Width),
		Height:        int(f.Header.Height),
		ColorDepth:    f.Header.ColorDepth.String(),
		Frames:        len(f.Frames),
		PaletteSize:   len(f.Palette),
		UnknownChunks: f.UnknownChunks,
	}
	seen := make(map[uint64]struct{})
	for _, fr := range f.Frames {
		info.Durations = append(info.Durations, fr.Duration)
		for _, c := range fr.Cels {
			if c.Empty() {
				continue
			}
			info.Cels++
			seen[ase.Digest(c.Pixels)] = struct{}{}
		}
	}
	info.UniqueCels = len(seen)
	for _, l := range f.Layers {
		info.Layers = append(info.Layers, LayerSummary{
			Name:      l.Name,
			Kind:      layerKind(l.Kind),
			Visible:   l.Visible(),
			Opacity:   l.Opacity,
			BlendMode: uint16(l.BlendMode),
		})
	}
	for _, t := range f.Tags {
		info.Tags = append(info.Tags, fmt.Sprintf("%s [%d-%d] %s", t.Name, t.From, t.To, t.Direction))
	}
	for _, s := range f.Skipped {
		info.Skipped = append(info.Skipped, s.Error())
	}
	return info
}

// SpriteInfo decodes sprite bytes and summarizes them.
func SpriteInfo(data []byte) (*Info, error) {
	f, err := ase.Decode(data)
	if err != nil {
		return nil, err
	}
	return InfoFromFile(f), nil
}

// RoundtripBytes decodes a sprite into a project snapshot and encodes it
// again as a 32-bit sprite.
func RoundtripBytes(data []byte, opts ase.EncodeOptions) ([]byte, error) {
	f, err := ase.Decode(data)
	if err != nil {
		return nil, err
	}
	return ase.EncodeWithOptions(f.Project(), opts)
}

// glbBuilder accumulates one mesh+node per image into a single scene.
type glbBuilder struct {
	doc      *gltf.Document
	hasAlpha bool
}

func newGLBBuilder(generator string) *glbBuilder {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator
	// colors come from the per-vertex COLOR_0 attribute
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}
	return &glbBuilder{doc: doc}
}

// add meshes img and places it at (tx, ty). Fully transparent images
// produce no node.
func (b *glbBuilder) add(name string, img *image.NRGBA, tx, ty float32) {
	mesh := ase.GenerateMesh(img)
	if len(mesh.Vertices) == 0 {
		return
	}
	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		// every quad lies on z=0 facing +z
		normals[i] = [3]float32{0, 0, 1}
		colors[i] = [4]float32{
			float32(v.Color.R) / 255,
			float32(v.Color.G) / 255,
			float32(v.Color.B) / 255,
			float32(v.Color.A) / 255,
		}
		if v.Color.A < 0xFF {
			b.hasAlpha = true
		}
	}
	indices := make([]uint32, len(mesh.Indices))
	copy(indices, mesh.Indices)

	doc := b.doc
	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
			gltf.COLOR_0:  uint32(colorAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	node := &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))}
	node.Translation = [3]float32{tx, ty, 0}
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
}

func (b *glbBuilder) bytes() ([]byte, error) {
	if b.hasAlpha {
		b.doc.Materials[0].AlphaMode = gltf.AlphaBlend
	}
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(b.doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// SpriteToGLB composites every frame of a sprite and writes one greedy-meshed
// node per frame, laid side by side along +x.
func SpriteToGLB(data []byte) ([]byte, error) {
	f, err := ase.Decode(data)
	if err != nil {
		return nil, err
	}
	return FileToGLB(f)
}

// FileToGLB is SpriteToGLB for an already decoded sprite.
func FileToGLB(f *ase.File) ([]byte, error) {
	b := newGLBBuilder("Sprite -> GLB")
	step := float32(f.Header.Width)
	for fi := range f.Frames {
		img, err := f.Composite(fi)
		if err != nil {
			return nil, err
		}
		b.add(fmt.Sprintf("frame%d", fi), img, float32(fi)*step, 0)
	}
	return b.bytes()
}

// PackToGLB meshes frame 0 of every entry in a sprite pack and arranges the
// entries on a square grid, one node each.
func PackToGLB(packBytes []byte) ([]byte, error) {
	pack, _, err := ase.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	n := len(pack.Entries)
	if n == 0 {
		return nil, fmt.Errorf("empty pack: no entries")
	}
	files := make([]*ase.File, n)
	var cellW, cellH int
	for i, e := range pack.Entries {
		f, err := ase.Decode(e.Data)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Name, err)
		}
		files[i] = f
		cellW = max(cellW, int(f.Header.Width))
		cellH = max(cellH, int(f.Header.Height))
	}

	b := newGLBBuilder("Sprite pack -> GLB")
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i, f := range files {
		if len(f.Frames) == 0 {
			continue
		}
		img, err := f.Composite(0)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, pack.Entries[i].Name, err)
		}
		r, c := i/cols, i%cols
		// rows go downwards so the grid reads like the entry order
		b.add(pack.Entries[i].Name, img, float32(c*cellW), -float32(r*cellH))
	}
	return b.bytes()
}

// PackSprites builds a sprite pack from named file blobs. Entries are stored
// in name order so the output does not depend on map iteration.
func PackSprites(files map[string][]byte, comp ase.PackCompression) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	pack := &ase.Pack{Entries: make([]ase.PackEntry, len(names))}
	for i, name := range names {
		pack.Entries[i] = ase.PackEntry{Name: name, Data: files[name]}
	}
	return pack.Marshal(comp)
}

// UnpackSpritePackToMemory returns a map of file name -> sprite bytes.
func UnpackSpritePackToMemory(packBytes []byte) (map[string][]byte, error) {
	pack, _, err := ase.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(pack.Entries))
	for _, e := range pack.Entries {
		out[e.Name] = e.Data
	}
	return out, nil
}
