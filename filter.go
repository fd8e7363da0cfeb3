package shadergraph

import "github.com/hajimehoshi/ebiten/v2"

// Filter is a visual effect applied to rendered output.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to accommodate
	// the effect. Zero means no padding.
	Padding() int
}

// --- ShaderFilter ---

// ShaderFilter draws through the compiled program of a graph. The ambient
// uniforms of DefaultShaderTemplate (Time, Resolution, Camera) are set on
// every Apply; Resolution is the size of the source image. Without a usable
// program the source is copied unchanged.
type ShaderFilter struct {
	Time   float64
	Camera Vec2

	program    *Program
	uniforms   map[string]any
	resolution [2]float32
	camera     [2]float32
	shaderOp   ebiten.DrawRectShaderOptions
	imgOp      ebiten.DrawImageOptions
}

// NewShaderFilter returns a filter drawing with p. The filter takes over the
// caller's reference to p; p may be nil.
func NewShaderFilter(p *Program) *ShaderFilter {
	f := &ShaderFilter{
		program:  p,
		uniforms: make(map[string]any, 3),
	}
	f.uniforms["Resolution"] = f.resolution[:]
	f.uniforms["Camera"] = f.camera[:]
	return f
}

// SetProgram replaces the program, releasing the previous one. The filter
// takes over the caller's reference to p.
func (f *ShaderFilter) SetProgram(p *Program) {
	if f.program == p {
		if p != nil {
			p.Release()
		}
		return
	}
	if f.program != nil {
		f.program.Release()
	}
	f.program = p
}

// Program returns the current program, or nil.
func (f *ShaderFilter) Program() *Program { return f.program }

// Apply renders src into dst through the program.
func (f *ShaderFilter) Apply(src, dst *ebiten.Image) {
	var shader *ebiten.Shader
	if f.program != nil {
		shader = f.program.Shader()
	}
	if shader == nil {
		f.imgOp.GeoM.Reset()
		f.imgOp.ColorScale.Reset()
		dst.DrawImage(src, &f.imgOp)
		return
	}
	bounds := src.Bounds()
	f.resolution[0], f.resolution[1] = float32(bounds.Dx()), float32(bounds.Dy())
	f.camera = [2]float32(f.Camera)
	f.uniforms["Time"] = float32(f.Time)
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; materials do not expand the image bounds.
func (f *ShaderFilter) Padding() int { return 0 }

// Release drops the filter's program reference.
func (f *ShaderFilter) Release() {
	f.SetProgram(nil)
}

// --- Filter chains ---

// FilterChainPadding returns the cumulative padding required by filters.
func FilterChainPadding(filters []Filter) int {
	pad := 0
	for _, f := range filters {
		pad += f.Padding()
	}
	return pad
}

// ApplyFilters runs a filter chain on src, ping-ponging between src and
// scratch, which must be the size of src. It returns the image holding the
// final result.
func ApplyFilters(filters []Filter, src, scratch *ebiten.Image) *ebiten.Image {
	current := src
	for _, f := range filters {
		scratch.Clear()
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}
	return current
}
