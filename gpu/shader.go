package gpu

import (
	"fmt"
	"strings"

	"mol-render/refcache"
)

// ShaderStage is the pipeline stage of a shader object.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vert"
	}
	return "frag"
}

func (s ShaderStage) glType() uint32 {
	if s == StageVertex {
		return VertexShader
	}
	return FragmentShader
}

// ShaderProps identifies a shader object: stage plus final source text.
type ShaderProps struct {
	Stage  ShaderStage
	Source string
}

// Shader is a compiled shader object.
type Shader struct {
	gl    GL
	id    uint32
	stage ShaderStage
}

// ShaderCache shares compiled shader objects between programs using the same
// stage and source.
type ShaderCache = refcache.Cache[*Shader, ShaderProps, *Context]

// ShaderRef is a reference to a cached shader.
type ShaderRef = refcache.Handle[*Shader, ShaderProps, *Context]

// NewShaderCache creates an empty shader cache.
func NewShaderCache() *ShaderCache {
	return refcache.New(
		func(p ShaderProps) string { return p.Stage.String() + "\x00" + p.Source },
		createShader,
		func(s *Shader) { s.Destroy() },
	)
}

func (s *Shader) Attach(program uint32) { s.gl.AttachShader(program, s.id) }

func (s *Shader) Destroy() { s.gl.DeleteShader(s.id) }

func createShader(ctx *Context, props ShaderProps) (*Shader, error) {
	gl := ctx.GL
	id := gl.CreateShader(props.Stage.glType())
	if id == 0 {
		return nil, &ConfigError{Resource: fmt.Sprintf("could not create %s shader", props.Stage)}
	}
	gl.ShaderSource(id, props.Source)
	gl.CompileShader(id)
	if !gl.ShaderCompiled(id) {
		log := gl.ShaderInfoLog(id)
		gl.DeleteShader(id)
		Logger().Warn("shader compile failed",
			"stage", props.Stage.String(),
			"log", log,
			"source", addLineNumbers(props.Source))
		return nil, &CompileError{Stage: props.Stage, Log: log}
	}
	Logger().Debug("shader compiled", "stage", props.Stage.String(), "id", id)
	return &Shader{gl: gl, id: id, stage: props.Stage}, nil
}

func addLineNumbers(source string) string {
	lines := strings.Split(source, "\n")
	for i, l := range lines {
		lines[i] = fmt.Sprintf("%d: %s", i+1, l)
	}
	return strings.Join(lines, "\n")
}
