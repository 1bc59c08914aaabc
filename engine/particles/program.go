package particles

import (
	"errors"
	"log/slog"

	"github.com/hubastard/photon/engine/gfx"
)

// Program is a linked vertex+fragment program.
type Program struct {
	dev    gfx.Device
	Handle gfx.Program
}

// CompileAndLink builds a program from two stages. Both stages are compiled
// even if the first fails, so every diagnostic is logged; linking is skipped
// when either stage failed. Failures are returned as *ShaderCompileError
// (joined) or *ProgramLinkError. On success the program is made current.
func CompileAndLink(dev gfx.Device, vertexSource, fragmentSource string, log *slog.Logger) (*Program, error) {
	vs, verr := compileStage(dev, gfx.StageVertex, vertexSource, log)
	fs, ferr := compileStage(dev, gfx.StageFragment, fragmentSource, log)
	if verr != nil || ferr != nil {
		if verr == nil {
			dev.DeleteShader(vs)
		}
		if ferr == nil {
			dev.DeleteShader(fs)
		}
		return nil, errors.Join(verr, ferr)
	}

	prog, infoLog, ok := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if !ok {
		log.Error("program link failed", "log", infoLog)
		return nil, &ProgramLinkError{Log: infoLog}
	}

	dev.UseProgram(prog)
	log.Info("program linked", "program", prog)
	return &Program{dev: dev, Handle: prog}, nil
}

func compileStage(dev gfx.Device, stage gfx.Stage, source string, log *slog.Logger) (gfx.Shader, error) {
	sh, infoLog, ok := dev.CompileShader(stage, source)
	if !ok {
		log.Error("shader compile failed", "stage", stage, "log", infoLog)
		return 0, &ShaderCompileError{Stage: stage, Log: infoLog}
	}
	return sh, nil
}

// Delete releases the GPU program.
func (p *Program) Delete() {
	if p == nil || p.Handle == 0 {
		return
	}
	p.dev.DeleteProgram(p.Handle)
	p.Handle = 0
}
