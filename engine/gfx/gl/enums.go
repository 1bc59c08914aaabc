package glbackend

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/photon/engine/gfx"
)

func glUsage(u gfx.Usage) uint32 {
	switch u {
	case gfx.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case gfx.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func glFilter(f gfx.Filter) int32 {
	switch f {
	case gfx.FilterLinear:
		return gl.LINEAR
	case gfx.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.NEAREST
	}
}

var blendFactors = [...]uint32{
	gfx.Zero:             gl.ZERO,
	gfx.One:              gl.ONE,
	gfx.SrcColor:         gl.SRC_COLOR,
	gfx.OneMinusSrcColor: gl.ONE_MINUS_SRC_COLOR,
	gfx.SrcAlpha:         gl.SRC_ALPHA,
	gfx.OneMinusSrcAlpha: gl.ONE_MINUS_SRC_ALPHA,
	gfx.DstAlpha:         gl.DST_ALPHA,
	gfx.OneMinusDstAlpha: gl.ONE_MINUS_DST_ALPHA,
	gfx.DstColor:         gl.DST_COLOR,
	gfx.OneMinusDstColor: gl.ONE_MINUS_DST_COLOR,
}

func glBlendFactor(f gfx.BlendFactor) uint32 {
	if f < 0 || int(f) >= len(blendFactors) {
		return gl.ONE
	}
	return blendFactors[f]
}
