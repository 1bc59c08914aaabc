package gfx

import (
	"fmt"
	"strings"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Usage is the buffer data store usage hint.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmapLinear
)

// BlendFactor is a source or destination blend factor.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	SrcAlpha
	OneMinusSrcAlpha
	DstAlpha
	OneMinusDstAlpha
	DstColor
	OneMinusDstColor
)

var blendFactorNames = [...]string{
	Zero:             "ZERO",
	One:              "ONE",
	SrcColor:         "SRC_COLOR",
	OneMinusSrcColor: "ONE_MINUS_SRC_COLOR",
	SrcAlpha:         "SRC_ALPHA",
	OneMinusSrcAlpha: "ONE_MINUS_SRC_ALPHA",
	DstAlpha:         "DST_ALPHA",
	OneMinusDstAlpha: "ONE_MINUS_DST_ALPHA",
	DstColor:         "DST_COLOR",
	OneMinusDstColor: "ONE_MINUS_DST_COLOR",
}

func (f BlendFactor) String() string {
	if f >= 0 && int(f) < len(blendFactorNames) {
		return blendFactorNames[f]
	}
	return fmt.Sprintf("BlendFactor(%d)", int(f))
}

// ParseBlendFactor accepts GL-style names, case-insensitive ("SRC_ALPHA", "one").
func ParseBlendFactor(s string) (BlendFactor, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range blendFactorNames {
		if n == name {
			return BlendFactor(i), nil
		}
	}
	return 0, fmt.Errorf("gfx: unknown blend factor %q", s)
}

func (f BlendFactor) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *BlendFactor) UnmarshalText(b []byte) error {
	v, err := ParseBlendFactor(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// BlendMode is the blend function applied to every draw.
type BlendMode struct {
	Src BlendFactor `toml:"src"`
	Dst BlendFactor `toml:"dst"`
}

// AdditiveBlend accumulates sprite color weighted by its alpha.
var AdditiveBlend = BlendMode{Src: SrcAlpha, Dst: One}
