package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a mismatch between a declared schema and the
	// compiled program, or a GPU object that could not be created.
	ErrConfiguration = errors.New("gpu configuration error")
	// ErrCompile marks a shader that failed to compile.
	ErrCompile = errors.New("shader compilation failed")
	// ErrLink marks a program that failed to link.
	ErrLink = errors.New("program link failed")
)

// ConfigError names the offending resource and what was expected of it.
type ConfigError struct {
	Resource string
	Expected string
	Actual   string
}

func (e *ConfigError) Error() string {
	if e.Expected == "" && e.Actual == "" {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Resource)
	}
	return fmt.Sprintf("%v: '%s' expected %s but is %s", ErrConfiguration, e.Resource, e.Expected, e.Actual)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// CompileError carries the driver's compile log verbatim.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: %v\n%s", e.Stage, ErrCompile, e.Log)
}

func (e *CompileError) Unwrap() error { return ErrCompile }

// LinkError carries the driver's link log verbatim.
type LinkError struct {
	ProgramID int
	Log       string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program %d: %v\n\n%s", e.ProgramID, ErrLink, e.Log)
}

func (e *LinkError) Unwrap() error { return ErrLink }
