package shadergraph

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// ShaderHandle is a compiled GPU program owned by a backend.
type ShaderHandle interface {
	Deallocate()
}

// ShaderBackend compiles shader source into a GPU program. Compilation is a
// blocking call and is attempted at most once per graph state.
type ShaderBackend interface {
	CompileShader(src []byte) (ShaderHandle, error)
}

// EbitenBackend compiles Kage source with ebiten.NewShader.
type EbitenBackend struct{}

// CompileShader implements ShaderBackend. The handle is an *ebiten.Shader.
func (EbitenBackend) CompileShader(src []byte) (ShaderHandle, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Program is a compiled GPU program built from a graph. It is reference
// counted: the graph's cache holds one reference and every AcquireProgram
// call adds one. The handle is deallocated when the last reference is
// released, so a program stays usable by its holders after the graph is
// edited.
type Program struct {
	mu     sync.Mutex
	handle ShaderHandle
	source string
	refs   int
}

// Source returns the full shader source the program was built from.
func (p *Program) Source() string { return p.source }

// Handle returns the backend handle, or nil once the program is deallocated.
func (p *Program) Handle() ShaderHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// Shader returns the handle as an *ebiten.Shader when the program was built
// by EbitenBackend, or nil.
func (p *Program) Shader() *ebiten.Shader {
	s, _ := p.Handle().(*ebiten.Shader)
	return s
}

func (p *Program) retain() {
	p.mu.Lock()
	p.refs++
	p.mu.Unlock()
}

// Release drops one reference to the program.
func (p *Program) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refs == 0 {
		return
	}
	p.refs--
	if p.refs == 0 && p.handle != nil {
		p.handle.Deallocate()
		p.handle = nil
	}
}

// programCache is the per-graph cache of the compiled program. A failed
// build is cached too (program nil, err set) so it is not retried every
// frame.
type programCache struct {
	valid   bool
	program *Program
	err     error
}

func (g *Graph) invalidateLocked() {
	if g.program.program != nil {
		g.program.program.Release()
	}
	g.program = programCache{}
}

// AcquireProgram returns the graph's compiled program, building it on first
// use with c and backend. The caller owns one reference and must Release it.
// After a failure the same error is returned until the graph is edited or
// reloaded.
func (g *Graph) AcquireProgram(c *Compiler, backend ShaderBackend) (*Program, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.program.valid {
		g.program = c.buildProgramLocked(g, backend)
	}
	if g.program.err != nil {
		return nil, g.program.err
	}
	g.program.program.retain()
	return g.program.program, nil
}

// ProgramError returns the cached build error, if the last build failed.
func (g *Graph) ProgramError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.program.err
}

func (c *Compiler) buildProgramLocked(g *Graph, backend ShaderBackend) programCache {
	src, err := c.buildShaderLocked(g)
	if err != nil {
		programBuildTotal.WithLabelValues("compile_error").Inc()
		return programCache{valid: true, err: err}
	}
	handle, err := backend.CompileShader([]byte(src))
	if err != nil {
		c.opts.logger.Error("shadergraph: GPU program build failed", "error", err)
		programBuildTotal.WithLabelValues("gpu_error").Inc()
		return programCache{valid: true, err: &ProgramError{Source: src, Err: err}}
	}
	programBuildTotal.WithLabelValues("ok").Inc()
	return programCache{valid: true, program: &Program{handle: handle, source: src, refs: 1}}
}

// ProgramError wraps a backend failure together with the source it rejected.
type ProgramError struct {
	Source string
	Err    error
}

func (e *ProgramError) Error() string { return "shadergraph: GPU program build: " + e.Err.Error() }

func (e *ProgramError) Unwrap() error { return e.Err }
