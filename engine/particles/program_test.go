package particles

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/hubastard/photon/engine/gfx"
	"github.com/hubastard/photon/engine/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestCompileAndLinkActivatesProgram(t *testing.T) {
	dev := gfxtest.New()
	var logs bytes.Buffer

	prog, err := CompileAndLink(dev, DefaultVertexSource, DefaultFragmentSource, bufferLogger(&logs))
	require.NoError(t, err)
	require.NotNil(t, prog)

	assert.Equal(t, prog.Handle, dev.Program)
	assert.Equal(t, 2, dev.Count("CompileShader"))
	assert.Equal(t, 2, dev.Count("DeleteShader"), "stages are released after linking")
	assert.Contains(t, logs.String(), "program linked")

	prog.Delete()
	assert.Equal(t, gfx.Program(0), dev.Program)
	prog.Delete() // no-op
	assert.Equal(t, 1, dev.Count("DeleteProgram"))
}

func TestCompileFailureSkipsLink(t *testing.T) {
	dev := gfxtest.New()
	dev.CompileErrors[gfx.StageVertex] = "ERROR: 0:3: 'a_positon' : undeclared identifier"
	var logs bytes.Buffer

	prog, err := CompileAndLink(dev, "bad", DefaultFragmentSource, bufferLogger(&logs))
	assert.Nil(t, prog)

	var ce *ShaderCompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, gfx.StageVertex, ce.Stage)
	assert.Contains(t, ce.Log, "undeclared identifier")

	assert.Equal(t, 2, dev.Count("CompileShader"), "both stages are compiled for diagnostics")
	assert.Zero(t, dev.Count("LinkProgram"))
	assert.Zero(t, dev.Count("UseProgram"))
	assert.Equal(t, 1, dev.Count("DeleteShader"), "the good stage is released")
	assert.Contains(t, logs.String(), "undeclared identifier")
}

func TestCompileFailureBothStages(t *testing.T) {
	dev := gfxtest.New()
	_, err := CompileAndLink(dev, "", "  ", bufferLogger(&bytes.Buffer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex shader compile error")
	assert.Contains(t, err.Error(), "fragment shader compile error")
	assert.Zero(t, dev.Count("DeleteShader"))
}

func TestLinkFailure(t *testing.T) {
	dev := gfxtest.New()
	dev.LinkError = "error: varying v_color not written by vertex shader"
	var logs bytes.Buffer

	prog, err := CompileAndLink(dev, DefaultVertexSource, DefaultFragmentSource, bufferLogger(&logs))
	assert.Nil(t, prog)

	var le *ProgramLinkError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, dev.LinkError, le.Log)
	assert.Zero(t, dev.Count("UseProgram"))
	assert.Equal(t, 2, dev.Count("DeleteShader"))
	assert.Contains(t, logs.String(), "program link failed")
}
