package particles

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/photon/engine/gfx"
)

// Kind is the GLSL type of a uniform. It fixes the Go shape of its value:
//
//	Float  float32          Vec2  mgl32.Vec2    Mat2  mgl32.Mat2
//	Int    int32            Vec3  mgl32.Vec3    Mat3  mgl32.Mat3
//	                        Vec4  mgl32.Vec4    Mat4  mgl32.Mat4
//
// Every kind except Int also accepts a []float32 of exactly Components() elements.
type Kind int

const (
	Float Kind = iota
	Int
	Vec2
	Vec3
	Vec4
	Mat2
	Mat3
	Mat4
)

var kindNames = [...]string{"float", "int", "vec2", "vec3", "vec4", "mat2", "mat3", "mat4"}

// Aliases using the GL call suffixes ("1f", "2f", ...).
var kindAliases = map[string]Kind{
	"1f": Float, "1i": Int, "2f": Vec2, "3f": Vec3, "4f": Vec4,
	"matrix2fv": Mat2, "matrix3fv": Mat3, "matrix4fv": Mat4,
}

func (k Kind) valid() bool { return k >= Float && k <= Mat4 }

func (k Kind) String() string {
	if k.valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts GLSL names ("vec2") and GL suffixes ("2f").
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("particles: unknown uniform kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Components is the number of scalars in a value of this kind.
func (k Kind) Components() int {
	switch k {
	case Float, Int:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	}
	return 0
}

// Zero returns the zero value in this kind's canonical Go type.
func (k Kind) Zero() any {
	switch k {
	case Float:
		return float32(0)
	case Int:
		return int32(0)
	case Vec2:
		return mgl32.Vec2{}
	case Vec3:
		return mgl32.Vec3{}
	case Vec4:
		return mgl32.Vec4{}
	case Mat2:
		return mgl32.Mat2{}
	case Mat3:
		return mgl32.Mat3{}
	case Mat4:
		return mgl32.Mat4{}
	}
	return nil
}

// Accepts reports whether v has the shape of this kind.
func (k Kind) Accepts(v any) bool {
	if k == Int {
		_, ok := v.(int32)
		return ok
	}
	if s, ok := v.([]float32); ok {
		return len(s) == k.Components()
	}
	switch v.(type) {
	case float32:
		return k == Float
	case mgl32.Vec2:
		return k == Vec2
	case mgl32.Vec3:
		return k == Vec3
	case mgl32.Vec4:
		return k == Vec4
	case mgl32.Mat2:
		return k == Mat2
	case mgl32.Mat3:
		return k == Mat3
	case mgl32.Mat4:
		return k == Mat4
	}
	return false
}

// FromFloats builds a canonical value from plain numbers, as read from
// configuration. An empty slice yields Zero().
func (k Kind) FromFloats(vals []float32) (any, error) {
	if !k.valid() {
		return nil, fmt.Errorf("particles: invalid kind %v", k)
	}
	if len(vals) == 0 {
		return k.Zero(), nil
	}
	if len(vals) != k.Components() {
		return nil, fmt.Errorf("particles: %s takes %d values, got %d", k, k.Components(), len(vals))
	}
	switch k {
	case Float:
		return vals[0], nil
	case Int:
		return int32(math32.Round(vals[0])), nil
	case Vec2:
		return mgl32.Vec2{vals[0], vals[1]}, nil
	case Vec3:
		return mgl32.Vec3{vals[0], vals[1], vals[2]}, nil
	case Vec4:
		return mgl32.Vec4{vals[0], vals[1], vals[2], vals[3]}, nil
	case Mat2:
		var m mgl32.Mat2
		copy(m[:], vals)
		return m, nil
	case Mat3:
		var m mgl32.Mat3
		copy(m[:], vals)
		return m, nil
	default:
		var m mgl32.Mat4
		copy(m[:], vals)
		return m, nil
	}
}

func shapeOf(v any) string {
	if s, ok := v.([]float32); ok {
		return fmt.Sprintf("[]float32 of %d", len(s))
	}
	return fmt.Sprintf("%T", v)
}

func scalars(v any) []float32 {
	switch x := v.(type) {
	case float32:
		return []float32{x}
	case mgl32.Vec2:
		return x[:]
	case mgl32.Vec3:
		return x[:]
	case mgl32.Vec4:
		return x[:]
	case mgl32.Mat2:
		return x[:]
	case mgl32.Mat3:
		return x[:]
	case mgl32.Mat4:
		return x[:]
	case []float32:
		return x
	}
	return nil
}

// push issues the single GPU call for k. v must satisfy k.Accepts.
func push(dev gfx.Device, loc int32, k Kind, v any) {
	if k == Int {
		dev.Uniform1i(loc, v.(int32))
		return
	}
	s := scalars(v)
	switch k {
	case Float:
		dev.Uniform1f(loc, s[0])
	case Vec2:
		dev.Uniform2f(loc, s[0], s[1])
	case Vec3:
		dev.Uniform3f(loc, s[0], s[1], s[2])
	case Vec4:
		dev.Uniform4f(loc, s[0], s[1], s[2], s[3])
	case Mat2:
		var m mgl32.Mat2
		copy(m[:], s)
		dev.UniformMatrix2(loc, m)
	case Mat3:
		var m mgl32.Mat3
		copy(m[:], s)
		dev.UniformMatrix3(loc, m)
	case Mat4:
		var m mgl32.Mat4
		copy(m[:], s)
		dev.UniformMatrix4(loc, m)
	}
}
