package shadergraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

// eval runs the evaluator of a builtin template on one pixel.
func eval(t *testing.T, reg *Registry, id string, in ...Value) []Value {
	t.Helper()
	nt, ok := reg.Lookup(id)
	require.True(t, ok, id)
	require.Len(t, in, len(nt.Inputs), id)
	return nt.Eval(&Pixel{Width: 1, Height: 1, UV: Vec2{0.5, 0.5}}, in)
}

func TestBuiltinEvaluators(t *testing.T) {
	reg := NewBuiltinRegistry()
	tests := []struct {
		id     string
		in     []Value
		expect Value
	}{
		{"float_add", []Value{Float(1), Float(2)}, Float(3)},
		{"float_sub", []Value{Float(1), Float(2)}, Float(-1)},
		{"float_mul", []Value{Float(3), Float(2)}, Float(6)},
		{"float_div", []Value{Float(3), Float(2)}, Float(1.5)},
		{"float_min", []Value{Float(3), Float(2)}, Float(2)},
		{"float_max", []Value{Float(3), Float(2)}, Float(3)},
		{"float_pow", []Value{Float(2), Float(3)}, Float(8)},
		{"float_mod", []Value{Float(-1), Float(3)}, Float(2)},
		{"float_step", []Value{Float(0.5), Float(0.4)}, Float(0)},
		{"float_step", []Value{Float(0.5), Float(0.5)}, Float(1)},
		{"float_abs", []Value{Float(-2)}, Float(2)},
		{"float_floor", []Value{Float(-1.5)}, Float(-2)},
		{"float_fract", []Value{Float(1.25)}, Float(0.25)},
		{"float_sqrt", []Value{Float(9)}, Float(3)},
		{"float_negate", []Value{Float(2)}, Float(-2)},
		{"float_one_minus", []Value{Float(0.25)}, Float(0.75)},
		{"float_clamp", []Value{Float(2), Float(0), Float(1)}, Float(1)},
		{"float_lerp", []Value{Float(0), Float(10), Float(0.25)}, Float(2.5)},
		{"float_smoothstep", []Value{Float(0), Float(1), Float(0.5)}, Float(0.5)},
		{"int_add", []Value{Int(2), Int(-5)}, Int(-3)},
		{"int_mul", []Value{Int(2), Int(-5)}, Int(-10)},
		{"float_sin", []Value{Float(0)}, Float(0)},
		{"float_cos", []Value{Float(0)}, Float(1)},
		{"vec3_add", []Value{Vec3{1, 2, 3}, Vec3{1, 1, 1}}, Vec3{2, 3, 4}},
		{"vec3_sub", []Value{Vec3{1, 2, 3}, Vec3{1, 1, 1}}, Vec3{0, 1, 2}},
		{"vec3_mul", []Value{Vec3{1, 2, 3}, Vec3{2, 2, 2}}, Vec3{2, 4, 6}},
		{"vec3_cross", []Value{Vec3{1, 0, 0}, Vec3{0, 1, 0}}, Vec3{0, 0, 1}},
		{"vec3_scale", []Value{Vec3{1, 2, 3}, Float(2)}, Vec3{2, 4, 6}},
		{"vec3_dot", []Value{Vec3{1, 2, 3}, Vec3{4, 5, 6}}, Float(32)},
		{"vec3_length", []Value{Vec3{3, 4, 0}}, Float(5)},
		{"vec3_normalize", []Value{Vec3{0, 0, 5}}, Vec3{0, 0, 1}},
		{"vec3_normalize", []Value{Vec3{}}, Vec3{}},
		{"vec3_lerp", []Value{Vec3{}, Vec3{2, 4, 6}, Float(0.5)}, Vec3{1, 2, 3}},
		{"combine_vec3", []Value{Float(1), Float(2), Float(3)}, Vec3{1, 2, 3}},
		{"combine_vec4", []Value{Float(1), Float(2), Float(3), Float(4)}, Vec4{1, 2, 3, 4}},
		{"compare_greater", []Value{Float(2), Float(1)}, Bool(true)},
		{"compare_less", []Value{Float(2), Float(1)}, Bool(false)},
		{"bool_and", []Value{Bool(true), Bool(false)}, Bool(false)},
		{"bool_or", []Value{Bool(true), Bool(false)}, Bool(true)},
		{"bool_not", []Value{Bool(true)}, Bool(false)},
		{"select_float", []Value{Bool(true), Float(5), Float(6)}, Float(5)},
		{"select_float", []Value{Bool(false), Float(5), Float(6)}, Float(6)},
		{"const_color", []Value{Vec4{1, 0, 0, 1}}, Vec4{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		got := eval(t, reg, tt.id, tt.in...)
		require.NotEmpty(t, got, tt.id)
		if f, ok := tt.expect.(Float); ok {
			require.IsType(t, Float(0), got[0], tt.id)
			assert.InDelta(t, float32(f), float32(got[0].(Float)), 1e-5, "%s%v", tt.id, tt.in)
			continue
		}
		assert.Equal(t, tt.expect, got[0], "%s%v", tt.id, tt.in)
	}
}

func TestBuiltinSplit(t *testing.T) {
	reg := NewBuiltinRegistry()
	assert.Equal(t, []Value{Float(1), Float(2), Float(3)}, eval(t, reg, "split_vec3", Vec3{1, 2, 3}))
	assert.Equal(t, []Value{Float(1), Float(2), Float(3), Float(4)}, eval(t, reg, "split_vec4", Vec4{1, 2, 3, 4}))
}

func TestBuiltinEasingMatchesGween(t *testing.T) {
	reg := NewBuiltinRegistry()
	curves := map[string]ease.TweenFunc{
		"ease_in_quad":     ease.InQuad,
		"ease_out_quad":    ease.OutQuad,
		"ease_in_out_quad": ease.InOutQuad,
	}
	for id, fn := range curves {
		for _, x := range []float32{0, 0.2, 0.5, 0.8, 1} {
			got := eval(t, reg, id, Float(x))[0].(Float)
			assert.InDelta(t, fn(x, 0, 1, 1), float32(got), 1e-6, "%s(%v)", id, x)
		}
		// T is clamped before easing.
		assert.Equal(t, Float(1), eval(t, reg, id, Float(3))[0], id)
		assert.Equal(t, Float(0), eval(t, reg, id, Float(-2))[0], id)
	}
}

func TestBuiltinAmbientWithoutContext(t *testing.T) {
	reg := NewBuiltinRegistry()
	assert.Equal(t, Float(0), eval(t, reg, "time")[0])
	assert.Equal(t, Vec2{}, eval(t, reg, "uv")[0])
}

// Every builtin must compile and simulate when its first output drives the
// material output.
func TestBuiltinsCompileAndSimulate(t *testing.T) {
	reg := NewBuiltinRegistry()
	for _, nt := range reg.Templates() {
		if nt.ID == SinkTemplateID {
			continue
		}
		t.Run(nt.ID, func(t *testing.T) {
			tg := &testGraph{t: t, reg: reg, g: NewGraph()}
			n := tg.add(nt.ID)
			sink := tg.sink()
			tg.link(n, 0, sink, "Albedo")

			src, err := tg.compiler().BuildShader(tg.g)
			require.NoError(t, err)
			assert.Contains(t, src, "var "+OutputName(n.Outputs[0].ID)+" ")
			assert.NotContains(t, src, "$")
			for _, out := range n.Outputs[1:] {
				assert.Contains(t, src, "_ = "+OutputName(out.ID))
			}
			assert.Equal(t, 1, strings.Count(src, "albedo = "))

			m, err := tg.simulator().Simulate(tg.g, sink.ID, 0, NewSimContext(2, 2))
			require.NoError(t, err)
			assert.Equal(t, TypeVec3, m.Type)
		})
	}
}
