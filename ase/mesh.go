package ase

import (
	"image"
	"image/color"
)

type Vertex struct {
	Position [3]float32
	Color    color.NRGBA
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// GenerateMesh merges runs of identical non-transparent pixels into as few
// rectangles as it greedily can and emits one quad per rectangle on the z=0
// plane, one unit per pixel, y pointing up, facing +z.
func GenerateMesh(img *image.NRGBA) *Mesh {
	mesh := &Mesh{}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	at := func(x, y int) color.NRGBA {
		return img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			c := at(x, y)
			if c.A == 0 || visited[y*w+x] {
				x++
				continue
			}
			width := 1
			for x+width < w && !visited[y*w+x+width] && at(x+width, y) == c {
				width++
			}
			height := 1
		grow:
			for y+height < h {
				for k := x; k < x+width; k++ {
					if visited[(y+height)*w+k] || at(k, y+height) != c {
						break grow
					}
				}
				height++
			}
			for yy := y; yy < y+height; yy++ {
				for xx := x; xx < x+width; xx++ {
					visited[yy*w+xx] = true
				}
			}
			addQuad(mesh, x, h-y-height, width, height, c)
			x += width
		}
	}
	return mesh
}

// addQuad appends a counter-clockwise quad with its bottom-left corner at (x, y).
func addQuad(mesh *Mesh, x, y, w, h int, c color.NRGBA) {
	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+w), float32(y+h)
	base := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices,
		Vertex{Position: [3]float32{x0, y0, 0}, Color: c},
		Vertex{Position: [3]float32{x1, y0, 0}, Color: c},
		Vertex{Position: [3]float32{x1, y1, 0}, Color: c},
		Vertex{Position: [3]float32{x0, y1, 0}, Color: c},
	)
	mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
}
