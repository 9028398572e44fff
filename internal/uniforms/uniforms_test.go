package uniforms

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIsComplete(t *testing.T) {
	total := 0
	for p := Param(0); p < NumParams; p++ {
		require.NotEmpty(t, p.Name(), "param %d has no table entry", p)
		require.NotNil(t, table[p].put, p.Name())
		assert.Contains(t, []int{1, 2}, p.Arity(), p.Name())
		assert.Equal(t, total, p.Offset(), p.Name())
		total += p.Arity()
	}
	assert.Equal(t, total, BlockSize)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "uScale", Scale.Name())
	assert.Equal(t, "UScale", Scale.ShaderName())
	assert.Equal(t, "U_DELTATIME", DeltaTime.DefineName())
	assert.Equal(t, "UOrigin", Origin.ShaderName())
}

func TestPackFollowsTable(t *testing.T) {
	s := Defaults()
	s.Origin[0], s.Origin[1] = 0.25, -0.5
	s.DeltaTime = 0.016

	block := s.Pack(make([]float32, BlockSize))
	require.Len(t, block, BlockSize)
	assert.Equal(t, s.Scale[0], block[Scale.Offset()])
	assert.Equal(t, s.Scale[1], block[Scale.Offset()+1])
	assert.Equal(t, float32(0.016), block[DeltaTime.Offset()])
	assert.Equal(t, float32(0.25), block[Origin.Offset()])
	assert.Equal(t, float32(-0.5), block[Origin.Offset()+1])
	assert.Equal(t, s.Vmax, block[Vmax.Offset()])
}

func TestShaderUniforms(t *testing.T) {
	s := Defaults()
	m := map[string]any{}
	s.ShaderUniforms(m)

	assert.Len(t, m, int(NumParams))
	assert.Equal(t, float32(10), m["UTvmax"])
	assert.Equal(t, []float32{1.5, 1.5}, m["UScale"])
}

func TestDefines(t *testing.T) {
	d := Defines()
	assert.True(t, strings.HasPrefix(d, "#define U_SCALE 0\n"))
	assert.Contains(t, d, "#define U_DELTATIME 2\n")
	assert.Contains(t, d, "#define U_BLOCK_SIZE 11\n")
}

func TestResize(t *testing.T) {
	s := Defaults()
	s.Resize(800, 400)
	assert.Equal(t, float32(1.5), s.Scale[0])
	assert.Equal(t, float32(0.75), s.Scale[1])

	s.Resize(0, 400)
	assert.Equal(t, float32(0.75), s.Scale[1])
}

func TestLifetimeClamps(t *testing.T) {
	s := Defaults()
	for i := 0; i < 50; i++ {
		s.Apply(TvmaxUp)
		s.Apply(TvminUp)
		require.LessOrEqual(t, s.Tvmax, float32(MaxTvmax))
		require.LessOrEqual(t, s.Tvmin, float32(MaxTvmin))
	}
	assert.Equal(t, float32(MaxTvmax), s.Tvmax)
	assert.Equal(t, float32(MaxTvmin), s.Tvmin)

	for i := 0; i < 50; i++ {
		s.Apply(TvmaxDown)
		s.Apply(TvminDown)
	}
	assert.Equal(t, float32(MinTvmax), s.Tvmax)
	assert.Equal(t, float32(MinTvmin), s.Tvmin)
}

func TestBetaStaysInRange(t *testing.T) {
	s := Defaults()
	for i := 0; i < 500; i++ {
		s.Apply(BetaUp)
		require.GreaterOrEqual(t, s.Beta, float32(-math32.Pi))
		require.LessOrEqual(t, s.Beta, float32(math32.Pi))
	}
	for i := 0; i < 1000; i++ {
		s.Apply(BetaDown)
		require.GreaterOrEqual(t, s.Beta, float32(-math32.Pi))
		require.LessOrEqual(t, s.Beta, float32(math32.Pi))
	}
}

func TestBetaWrapsPastPi(t *testing.T) {
	s := Defaults()
	s.Apply(BetaUp)
	assert.InDelta(t, -math32.Pi+0.1, s.Beta, 1e-5)

	s.Beta = 0
	s.Apply(BetaDown)
	assert.InDelta(t, -0.1, s.Beta, 1e-5)
}

func TestSetAnglesKeepsInRangeBeta(t *testing.T) {
	s := Defaults()
	s.SetAngles(0, math32.Pi)
	assert.Equal(t, float32(math32.Pi), s.Beta)

	s.SetAngles(0, -math32.Pi)
	assert.Equal(t, float32(-math32.Pi), s.Beta)

	s.SetAngles(0, 1)
	assert.Equal(t, float32(1), s.Beta)

	d := Defaults()
	want := d.Beta
	d.SetAngles(d.Alpha, d.Beta)
	assert.Equal(t, want, d.Beta)
}

func TestAlphaUnbounded(t *testing.T) {
	s := Defaults()
	for i := 0; i < 100; i++ {
		s.Apply(AlphaUp)
	}
	assert.InDelta(t, 10, s.Alpha, 1e-3)
	s.Apply(AlphaDown)
	assert.InDelta(t, 9.9, s.Alpha, 1e-3)
}

func TestSpeedBounds(t *testing.T) {
	s := Defaults()
	for i := 0; i < 10; i++ {
		s.Apply(VminDown)
	}
	assert.Equal(t, float32(0), s.Vmin)

	for i := 0; i < 20; i++ {
		s.Apply(VmaxDown)
	}
	assert.Equal(t, s.Vmin, s.Vmax)

	s.Apply(VmaxUp)
	s.Apply(VminUp)
	s.Apply(VminUp)
	assert.LessOrEqual(t, s.Vmin, s.Vmax)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "tvmax+", TvmaxUp.String())
	assert.Equal(t, "unknown", Action(99).String())
}
