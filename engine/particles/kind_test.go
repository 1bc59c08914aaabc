package particles

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"float":     Float,
		"1f":        Float,
		"int":       Int,
		"1i":        Int,
		"vec2":      Vec2,
		"2f":        Vec2,
		" VEC3 ":    Vec3,
		"4f":        Vec4,
		"mat2":      Mat2,
		"matrix3fv": Mat3,
		"Mat4":      Mat4,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("dvec2")
	assert.ErrorContains(t, err, "unknown uniform kind")
}

func TestKindText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("3f")))
	assert.Equal(t, Vec3, k)

	b, err := Mat4.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mat4", string(b))

	assert.Error(t, k.UnmarshalText([]byte("sampler2D")))
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestKindAccepts(t *testing.T) {
	assert.True(t, Float.Accepts(float32(1)))
	assert.True(t, Float.Accepts([]float32{1}))
	assert.False(t, Float.Accepts(1.0), "float64 is not a float uniform")
	assert.True(t, Int.Accepts(int32(2)))
	assert.False(t, Int.Accepts([]float32{2}), "int uniforms have no slice form")
	assert.False(t, Int.Accepts(2))
	assert.True(t, Vec2.Accepts(mgl32.Vec2{1, 2}))
	assert.True(t, Vec2.Accepts([]float32{1, 2}))
	assert.False(t, Vec2.Accepts([]float32{1, 2, 3}))
	assert.False(t, Vec2.Accepts(mgl32.Vec3{}))
	assert.True(t, Mat3.Accepts(make([]float32, 9)))
	assert.True(t, Mat4.Accepts(mgl32.Ident4()))
	assert.False(t, Mat4.Accepts(mgl32.Ident3()))
	assert.False(t, Vec4.Accepts(nil))
}

func TestKindFromFloats(t *testing.T) {
	v, err := Float.FromFloats([]float32{20})
	require.NoError(t, err)
	assert.Equal(t, float32(20), v)

	v, err = Int.FromFloats([]float32{2.6})
	require.NoError(t, err)
	assert.Equal(t, int32(3), v)

	v, err = Vec3.FromFloats([]float32{1, 0.5, 0.25})
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, v)

	v, err = Mat2.FromFloats([]float32{1, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, mgl32.Ident2(), v)

	v, err = Vec4.FromFloats(nil)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{}, v)

	_, err = Vec2.FromFloats([]float32{1, 2, 3})
	assert.ErrorContains(t, err, "vec2 takes 2 values, got 3")

	_, err = Kind(-1).FromFloats([]float32{1})
	assert.Error(t, err)
}

func TestKindComponents(t *testing.T) {
	want := []int{1, 1, 2, 3, 4, 4, 9, 16}
	for k := Float; k <= Mat4; k++ {
		assert.Equal(t, want[k], k.Components(), k.String())
		assert.True(t, k.Accepts(k.Zero()), k.String())
	}
}
