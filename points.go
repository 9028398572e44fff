package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"gravfield/internal/sim"
)

// pointsPerBatch keeps four vertices per point under the 16-bit index
// limit.
const pointsPerBatch = (1<<16 - 1) / 4

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// pointRenderer draws each particle as a small square.
type pointRenderer struct {
	vertices []ebiten.Vertex
	indices  []uint16
	opts     ebiten.DrawTrianglesOptions
}

func newPointRenderer() *pointRenderer {
	r := &pointRenderer{
		vertices: make([]ebiten.Vertex, 0, 4*pointsPerBatch),
		indices:  make([]uint16, 0, 6*pointsPerBatch),
	}
	for i := 0; i < pointsPerBatch; i++ {
		base := uint16(4 * i)
		r.indices = append(r.indices, base, base+1, base+2, base+1, base+3, base+2)
	}
	return r
}

// draw maps world positions through uScale to pixels and submits them in
// batches.
func (r *pointRenderer) draw(dst *ebiten.Image, snap *sim.Snapshot, positions []float32) {
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	ox, oy := float32(b.Min.X), float32(b.Min.Y)
	sx, sy := snap.Uniforms.Scale[0], snap.Uniforms.Scale[1]
	if sx == 0 || sy == 0 {
		return
	}
	const half = pointSize / 2

	n := len(positions) / 2
	for start := 0; start < n; start += pointsPerBatch {
		end := min(start+pointsPerBatch, n)
		r.vertices = r.vertices[:0]
		for i := start; i < end; i++ {
			px := ox + (positions[2*i]/sx+1)/2*w
			py := oy + (1-positions[2*i+1]/sy)/2*h
			r.vertices = append(r.vertices,
				pointVertex(px-half, py-half),
				pointVertex(px+half, py-half),
				pointVertex(px-half, py+half),
				pointVertex(px+half, py+half),
			)
		}
		dst.DrawTriangles(r.vertices, r.indices[:6*(end-start)], whiteSubImage, &r.opts)
	}
}

func pointVertex(x, y float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: x, DstY: y,
		SrcX: 1, SrcY: 1,
		ColorR: 0.75, ColorG: 0.9, ColorB: 1, ColorA: pointAlpha,
	}
}
