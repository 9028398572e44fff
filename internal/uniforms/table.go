package uniforms

import (
	"fmt"
	"strings"
)

// Param names one entry of the uniform table.
type Param int

const (
	Scale Param = iota
	DeltaTime
	Tvmin
	Tvmax
	Alpha
	Beta
	Vmin
	Vmax
	Origin

	NumParams
)

type entry struct {
	name  string
	arity int
	put   func(s *Set, dst []float32)
}

// table maps every parameter to its device name, its arity and the
// accessor that writes its components.
var table = [NumParams]entry{
	Scale:     {"uScale", 2, func(s *Set, d []float32) { d[0], d[1] = s.Scale[0], s.Scale[1] }},
	DeltaTime: {"uDeltaTime", 1, func(s *Set, d []float32) { d[0] = s.DeltaTime }},
	Tvmin:     {"uTvmin", 1, func(s *Set, d []float32) { d[0] = s.Tvmin }},
	Tvmax:     {"uTvmax", 1, func(s *Set, d []float32) { d[0] = s.Tvmax }},
	Alpha:     {"uAlpha", 1, func(s *Set, d []float32) { d[0] = s.Alpha }},
	Beta:      {"uBeta", 1, func(s *Set, d []float32) { d[0] = s.Beta }},
	Vmin:      {"uVmin", 1, func(s *Set, d []float32) { d[0] = s.Vmin }},
	Vmax:      {"uVmax", 1, func(s *Set, d []float32) { d[0] = s.Vmax }},
	Origin:    {"uOrigin", 2, func(s *Set, d []float32) { d[0], d[1] = s.Origin[0], s.Origin[1] }},
}

var offsets [NumParams]int

// BlockSize is the number of floats in a packed uniform block.
var BlockSize int

func init() {
	for p := range table {
		offsets[p] = BlockSize
		BlockSize += table[p].arity
	}
}

// Name returns the device side name of p, e.g. "uScale".
func (p Param) Name() string { return table[p].name }

// Arity returns the number of float components of p.
func (p Param) Arity() int { return table[p].arity }

// Offset returns the index of p's first component in a packed block.
func (p Param) Offset() int { return offsets[p] }

// ShaderName returns the exported Kage uniform name, e.g. "UScale".
func (p Param) ShaderName() string { return "U" + table[p].name[1:] }

// DefineName returns the preprocessor name of p's offset, e.g. "U_SCALE".
func (p Param) DefineName() string { return "U_" + strings.ToUpper(table[p].name[1:]) }

// Value writes the components of p into dst and returns the filled slice.
func (s *Set) Value(p Param, dst []float32) []float32 {
	dst = dst[:table[p].arity]
	table[p].put(s, dst)
	return dst
}

// Pack writes every parameter in table order into dst, which must hold at
// least BlockSize floats, and returns dst[:BlockSize].
func (s *Set) Pack(dst []float32) []float32 {
	dst = dst[:BlockSize]
	for p := range table {
		o := offsets[p]
		table[p].put(s, dst[o:o+table[p].arity])
	}
	return dst
}

// ShaderUniforms stores every parameter in m under its Kage name. Scalars
// are stored as float32, vectors as []float32.
func (s *Set) ShaderUniforms(m map[string]any) {
	var buf [2]float32
	for p := Param(0); p < NumParams; p++ {
		v := s.Value(p, buf[:])
		if len(v) == 1 {
			m[p.ShaderName()] = v[0]
			continue
		}
		m[p.ShaderName()] = append([]float32(nil), v...)
	}
}

// Defines renders the packed block offsets as preprocessor definitions.
func Defines() string {
	var b strings.Builder
	for p := Param(0); p < NumParams; p++ {
		fmt.Fprintf(&b, "#define %s %d\n", p.DefineName(), p.Offset())
	}
	fmt.Fprintf(&b, "#define U_BLOCK_SIZE %d\n", BlockSize)
	return b.String()
}
