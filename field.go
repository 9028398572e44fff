package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"gravfield/internal/kernel"
	"gravfield/internal/planets"
	"gravfield/internal/sim"
)

// fieldShaderSource colors the acceleration field: hue follows direction,
// brightness follows magnitude. Planet discs and the spawn origin are
// marked on top.
const fieldShaderSource = `//kage:unit pixels

package main

var UScale vec2
var UDeltaTime float
var UTvmin float
var UTvmax float
var UAlpha float
var UBeta float
var UVmin float
var UVmax float
var UOrigin vec2
var UPosition [%[1]d]vec2
var URadius [%[1]d]float

func hsv(h, s, v float) vec3 {
	k := vec4(1.0, 2.0/3.0, 1.0/3.0, 3.0)
	p := abs(fract(vec3(h)+k.xyz)*6.0 - k.www)
	return v * mix(k.xxx, clamp(p-k.xxx, 0.0, 1.0), s)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := (dstPos.xy - imageDstOrigin()) / imageDstSize()
	p := vec2((uv.x*2.0-1.0)*UScale.x, (1.0-uv.y*2.0)*UScale.y)

	acc := vec2(0.0)
	for i := 0; i < %[1]d; i++ {
		r := URadius[i]
		if r <= 0.0 {
			continue
		}
		d := UPosition[i] - p
		dist := length(d)
		if dist < r {
			edge := smoothstep(r*0.85, r, dist)
			return vec4(mix(vec3(0.55, 0.6, 0.7), vec3(0.9), edge), 1.0)
		}
		acc += d * (%[2]g * r * r * r / (dist * dist * dist))
	}

	mag := length(acc)
	hue := atan2(acc.y, acc.x)/6.28318530718 + 0.5
	rgb := hsv(hue, 0.8, 0.45*mag/(mag+1.0))

	if length(p-UOrigin) < 0.015*UScale.x {
		rgb = vec3(1.0, 0.85, 0.3)
	}
	return vec4(rgb, 1.0)
}
`

// fieldRenderer draws a full screen quad with the field shader.
type fieldRenderer struct {
	shader   *ebiten.Shader
	quad     [6]ebiten.Vertex
	vertices [6]ebiten.Vertex
	indices  []uint16
	opts     ebiten.DrawTrianglesShaderOptions
}

// quadCorners is the static two-triangle quad in normalized device
// coordinates.
var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {-1, 1},
	{-1, 1}, {1, -1}, {1, 1},
}

func newFieldRenderer() (*fieldRenderer, error) {
	src := fmt.Sprintf(fieldShaderSource, planets.MaxPlanets, kernel.SurfaceGravity)
	shader, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("compiling field shader: %w", err)
	}
	r := &fieldRenderer{
		shader:  shader,
		indices: []uint16{0, 1, 2, 3, 4, 5},
	}
	for i, c := range quadCorners {
		r.quad[i] = ebiten.Vertex{
			DstX: c[0], DstY: c[1],
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
	r.opts.Uniforms = make(map[string]any, 16)
	return r, nil
}

// draw maps the quad onto dst and runs the shader with the frame's
// uniforms and planet slots.
func (r *fieldRenderer) draw(dst *ebiten.Image, snap *sim.Snapshot) {
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	ox, oy := float32(b.Min.X), float32(b.Min.Y)
	for i, v := range r.quad {
		v.DstX = ox + (v.DstX+1)/2*w
		v.DstY = oy + (1-v.DstY)/2*h
		r.vertices[i] = v
	}
	snap.Uniforms.ShaderUniforms(r.opts.Uniforms)
	snap.Planets.ShaderUniforms(r.opts.Uniforms)
	dst.DrawTrianglesShader(r.vertices[:], r.indices, r.shader, &r.opts)
}
