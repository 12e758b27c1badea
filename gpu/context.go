package gpu

import "sync/atomic"

// DefaultGLSLVersion is prepended to every shader source.
const DefaultGLSLVersion = "#version 410 core"

// Context is the GPU capability passed through every GPU-facing call. It owns
// the driver, the shader and program caches and the current-program state.
//
// The current program is deliberately shared state: Program.Use overwrites
// it and anything that needs to know whether a program is bound (render items
// deciding whether to re-send global uniforms, debug checks) reads it here
// rather than tracking it locally. There is one Context per GL context, and
// the GL context is owned by a single goroutine.
type Context struct {
	GL GL

	glslVersion  string
	shaderCache  *ShaderCache
	programCache *ProgramCache

	currentProgramID atomic.Int64
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithGLSLVersion overrides the version directive prepended to shaders.
// An empty string disables the prefix.
func WithGLSLVersion(directive string) ContextOption {
	return func(c *Context) { c.glslVersion = directive }
}

// NewContext wraps a driver.
func NewContext(gl GL, opts ...ContextOption) *Context {
	c := &Context{
		GL:           gl,
		glslVersion:  DefaultGLSLVersion,
		shaderCache:  NewShaderCache(),
		programCache: NewProgramCache(),
	}
	for _, o := range opts {
		o(c)
	}
	c.currentProgramID.Store(-1)
	return c
}

func (c *Context) ShaderCache() *ShaderCache   { return c.shaderCache }
func (c *Context) ProgramCache() *ProgramCache { return c.programCache }

// CurrentProgramID returns the ID of the program last bound with Use, or -1.
func (c *Context) CurrentProgramID() int {
	return int(c.currentProgramID.Load())
}

// ResetCurrentProgram forgets the bound program so the next Use is treated
// as a switch. Renderers call it at the start of a frame.
func (c *Context) ResetCurrentProgram() {
	c.setCurrentProgram(-1)
}

func (c *Context) setCurrentProgram(id int) {
	c.currentProgramID.Store(int64(id))
}

// Destroy releases every cached program and shader.
func (c *Context) Destroy() {
	c.programCache.Dispose()
	c.shaderCache.Dispose()
	c.setCurrentProgram(-1)
}
