package shadergraph

import (
	"github.com/chewxy/math32"
	"github.com/tanema/gween/ease"
)

// NewBuiltinRegistry returns a registry holding the built-in node catalog.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins adds the built-in node catalog to r. It panics if any of
// the built-in ids is already taken.
func RegisterBuiltins(r *Registry) {
	registerInputs(r)
	registerScalarMath(r)
	registerIntMath(r)
	registerTrig(r)
	registerVectorMath(r)
	registerLogic(r)
	registerEasing(r)
	registerMaterialOutput(r)
}

// --- Port and value helpers ---

func port(name string, t ValueType) PortSpec {
	return PortSpec{Name: name, Type: t}
}

func portDefault(name string, v Value) PortSpec {
	return PortSpec{Name: name, Type: v.Type(), Default: v}
}

func asFloat(v Value) float32 { return float32(Coerce(v, TypeFloat).(Float)) }
func asInt(v Value) int32     { return int32(Coerce(v, TypeInt).(Int)) }
func asBool(v Value) bool     { return bool(Coerce(v, TypeBool).(Bool)) }
func asVec3(v Value) Vec3     { return Coerce(v, TypeVec3).(Vec3) }
func asVec4(v Value) Vec4     { return Coerce(v, TypeVec4).(Vec4) }

func one(v Value) []Value { return []Value{v} }

func clamp32(x, lo, hi float32) float32 {
	return math32.Min(math32.Max(x, lo), hi)
}

// --- Input ---

func constant(id, name string, def Value) NodeTemplate {
	return NodeTemplate{
		ID:          id,
		Name:        name,
		Category:    "Input/Constant",
		Description: "A constant " + def.Type().String() + " value.",
		Inputs:      []PortSpec{portDefault("Value", def)},
		Outputs:     []PortSpec{port("Value", def.Type())},
		Code:        "$OUTPUT@0$ = $INPUT@0$",
		Deletable:   true,
		Eval:        func(_ *Pixel, in []Value) []Value { return one(in[0]) },
	}
}

// ambient reads a value the shader template or the simulation context
// supplies under a fixed name.
func ambient(id, name, slot, expr string, t ValueType) NodeTemplate {
	return NodeTemplate{
		ID:          id,
		Name:        name,
		Category:    "Input/Scene",
		Description: "The ambient " + slot + " value.",
		Outputs:     []PortSpec{port(name, t)},
		Code:        "$OUTPUT@0$ = " + expr,
		Deletable:   true,
		Eval: func(px *Pixel, _ []Value) []Value {
			if px.Env == nil {
				return one(Zero(t))
			}
			return one(Coerce(px.Env.Ambient(slot, px), t))
		},
	}
}

func registerInputs(r *Registry) {
	r.MustRegister(constant("const_float", "Float", Float(0)))
	r.MustRegister(constant("const_int", "Int", Int(0)))
	r.MustRegister(constant("const_uint", "UInt", UInt(0)))
	r.MustRegister(constant("const_bool", "Bool", Bool(false)))
	r.MustRegister(constant("const_vec2", "Vector 2", Vec2{}))
	r.MustRegister(constant("const_vec3", "Vector 3", Vec3{}))
	r.MustRegister(constant("const_color", "Color", Vec4{1, 1, 1, 1}))

	r.MustRegister(ambient("uv", "UV", SlotUV, "uv", TypeVec2))
	r.MustRegister(ambient("time", "Time", SlotTime, "Time", TypeFloat))
	r.MustRegister(ambient("resolution", "Resolution", SlotResolution, "Resolution", TypeVec2))
	r.MustRegister(ambient("camera", "Camera", SlotCamera, "Camera", TypeVec2))
	r.MustRegister(ambient("texture_color", "Texture Color", SlotBase, "base", TypeVec4))
	r.MustRegister(ambient("vertex_color", "Vertex Color", SlotColor, "color", TypeVec4))
}

// --- Math ---

func unaryFloat(id, name, category, fn string, eval func(float32) float32) NodeTemplate {
	return NodeTemplate{
		ID:        id,
		Name:      name,
		Category:  category,
		Inputs:    []PortSpec{portDefault("Value", Float(0))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$OUTPUT@0$ = " + fn + "($INPUT@0$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Float(eval(asFloat(in[0]))))
		},
	}
}

func binaryFloat(id, name, code string, a, b float32, eval func(a, b float32) float32) NodeTemplate {
	return NodeTemplate{
		ID:        id,
		Name:      name,
		Category:  "Math/Scalar",
		Inputs:    []PortSpec{portDefault("A", Float(a)), portDefault("B", Float(b))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      code,
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Float(eval(asFloat(in[0]), asFloat(in[1]))))
		},
	}
}

func registerScalarMath(r *Registry) {
	r.MustRegister(binaryFloat("float_add", "Float + Float", "$OUTPUT@0$ = $INPUT@0$ + $INPUT@1$", 0, 0,
		func(a, b float32) float32 { return a + b }))
	r.MustRegister(binaryFloat("float_sub", "Float - Float", "$OUTPUT@0$ = $INPUT@0$ - $INPUT@1$", 0, 0,
		func(a, b float32) float32 { return a - b }))
	r.MustRegister(binaryFloat("float_mul", "Float * Float", "$OUTPUT@0$ = $INPUT@0$ * $INPUT@1$", 1, 1,
		func(a, b float32) float32 { return a * b }))
	r.MustRegister(binaryFloat("float_div", "Float / Float", "$OUTPUT@0$ = $INPUT@0$ / $INPUT@1$", 1, 1,
		func(a, b float32) float32 { return a / b }))
	r.MustRegister(binaryFloat("float_min", "Min", "$OUTPUT@0$ = min($INPUT@0$, $INPUT@1$)", 0, 0, math32.Min))
	r.MustRegister(binaryFloat("float_max", "Max", "$OUTPUT@0$ = max($INPUT@0$, $INPUT@1$)", 0, 0, math32.Max))
	r.MustRegister(binaryFloat("float_pow", "Power", "$OUTPUT@0$ = pow($INPUT@0$, $INPUT@1$)", 1, 1, math32.Pow))
	r.MustRegister(binaryFloat("float_mod", "Modulo", "$OUTPUT@0$ = mod($INPUT@0$, $INPUT@1$)", 0, 1,
		func(a, b float32) float32 { return a - b*math32.Floor(a/b) }))
	r.MustRegister(binaryFloat("float_step", "Step", "$OUTPUT@0$ = step($INPUT@0$, $INPUT@1$)", 0.5, 0,
		func(edge, x float32) float32 {
			if x < edge {
				return 0
			}
			return 1
		}))

	r.MustRegister(unaryFloat("float_abs", "Absolute", "Math/Scalar", "abs", math32.Abs))
	r.MustRegister(unaryFloat("float_floor", "Floor", "Math/Scalar", "floor", math32.Floor))
	r.MustRegister(unaryFloat("float_fract", "Fraction", "Math/Scalar", "fract",
		func(x float32) float32 { return x - math32.Floor(x) }))
	r.MustRegister(unaryFloat("float_sqrt", "Square Root", "Math/Scalar", "sqrt", math32.Sqrt))
	r.MustRegister(unaryFloat("float_negate", "Negate", "Math/Scalar", "-",
		func(x float32) float32 { return -x }))
	r.MustRegister(NodeTemplate{
		ID:        "float_one_minus",
		Name:      "One Minus",
		Category:  "Math/Scalar",
		Inputs:    []PortSpec{portDefault("Value", Float(0))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$OUTPUT@0$ = 1.0 - $INPUT@0$",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Float(1 - asFloat(in[0]))) },
	})

	r.MustRegister(NodeTemplate{
		ID:        "float_clamp",
		Name:      "Clamp",
		Category:  "Math/Scalar",
		Inputs:    []PortSpec{portDefault("Value", Float(0)), portDefault("Min", Float(0)), portDefault("Max", Float(1))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$OUTPUT@0$ = clamp($INPUT@0$, $INPUT@1$, $INPUT@2$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Float(clamp32(asFloat(in[0]), asFloat(in[1]), asFloat(in[2]))))
		},
	})
	r.MustRegister(NodeTemplate{
		ID:        "float_lerp",
		Name:      "Lerp",
		Category:  "Math/Scalar",
		Inputs:    []PortSpec{portDefault("A", Float(0)), portDefault("B", Float(1)), portDefault("T", Float(0.5))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$OUTPUT@0$ = mix($INPUT@0$, $INPUT@1$, $INPUT@2$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			a, b, t := asFloat(in[0]), asFloat(in[1]), asFloat(in[2])
			return one(Float(a + (b-a)*t))
		},
	})
	r.MustRegister(NodeTemplate{
		ID:        "float_smoothstep",
		Name:      "Smoothstep",
		Category:  "Math/Scalar",
		Inputs:    []PortSpec{portDefault("Edge0", Float(0)), portDefault("Edge1", Float(1)), portDefault("X", Float(0.5))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$OUTPUT@0$ = smoothstep($INPUT@0$, $INPUT@1$, $INPUT@2$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			e0, e1, x := asFloat(in[0]), asFloat(in[1]), asFloat(in[2])
			t := clamp32((x-e0)/(e1-e0), 0, 1)
			return one(Float(t * t * (3 - 2*t)))
		},
	})
}

func registerIntMath(r *Registry) {
	r.MustRegister(NodeTemplate{
		ID:        "int_add",
		Name:      "Int + Int",
		Category:  "Math/Integer",
		Inputs:    []PortSpec{portDefault("A", Int(0)), portDefault("B", Int(0))},
		Outputs:   []PortSpec{port("Result", TypeInt)},
		Code:      "$OUTPUT@0$ = $INPUT@0$ + $INPUT@1$",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Int(asInt(in[0]) + asInt(in[1]))) },
	})
	r.MustRegister(NodeTemplate{
		ID:        "int_mul",
		Name:      "Int * Int",
		Category:  "Math/Integer",
		Inputs:    []PortSpec{portDefault("A", Int(1)), portDefault("B", Int(1))},
		Outputs:   []PortSpec{port("Result", TypeInt)},
		Code:      "$OUTPUT@0$ = $INPUT@0$ * $INPUT@1$",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Int(asInt(in[0]) * asInt(in[1]))) },
	})
}

func registerTrig(r *Registry) {
	r.MustRegister(unaryFloat("float_sin", "Sine", "Math/Trigonometry", "sin", math32.Sin))
	r.MustRegister(unaryFloat("float_cos", "Cosine", "Math/Trigonometry", "cos", math32.Cos))
}

// --- Vector ---

func binaryVec3(id, name, code string, eval func(a, b Vec3) Vec3) NodeTemplate {
	return NodeTemplate{
		ID:        id,
		Name:      name,
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("A", Vec3{}), portDefault("B", Vec3{})},
		Outputs:   []PortSpec{port("Result", TypeVec3)},
		Code:      code,
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(eval(asVec3(in[0]), asVec3(in[1])))
		},
	}
}

func dot3(a, b Vec3) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func registerVectorMath(r *Registry) {
	r.MustRegister(binaryVec3("vec3_add", "Vector + Vector", "$OUTPUT@0$ = $INPUT@0$ + $INPUT@1$",
		func(a, b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }))
	r.MustRegister(binaryVec3("vec3_sub", "Vector - Vector", "$OUTPUT@0$ = $INPUT@0$ - $INPUT@1$",
		func(a, b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }))
	r.MustRegister(binaryVec3("vec3_mul", "Vector * Vector", "$OUTPUT@0$ = $INPUT@0$ * $INPUT@1$",
		func(a, b Vec3) Vec3 { return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]} }))
	r.MustRegister(binaryVec3("vec3_cross", "Cross Product", "$OUTPUT@0$ = cross($INPUT@0$, $INPUT@1$)",
		func(a, b Vec3) Vec3 {
			return Vec3{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
		}))

	r.MustRegister(NodeTemplate{
		ID:        "vec3_scale",
		Name:      "Scale Vector",
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("Vector", Vec3{}), portDefault("Scale", Float(1))},
		Outputs:   []PortSpec{port("Result", TypeVec3)},
		Code:      "$OUTPUT@0$ = $INPUT@0$ * $INPUT@1$",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			v, s := asVec3(in[0]), asFloat(in[1])
			return one(Vec3{v[0] * s, v[1] * s, v[2] * s})
		},
	})
	r.MustRegister(NodeTemplate{
		ID:        "vec3_dot",
		Name:      "Dot Product",
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("A", Vec3{}), portDefault("B", Vec3{})},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$OUTPUT@0$ = dot($INPUT@0$, $INPUT@1$)",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Float(dot3(asVec3(in[0]), asVec3(in[1])))) },
	})
	r.MustRegister(NodeTemplate{
		ID:        "vec3_length",
		Name:      "Length",
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("Vector", Vec3{})},
		Outputs:   []PortSpec{port("Length", TypeFloat)},
		Code:      "$OUTPUT@0$ = length($INPUT@0$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			v := asVec3(in[0])
			return one(Float(math32.Sqrt(dot3(v, v))))
		},
	})
	r.MustRegister(NodeTemplate{
		ID:        "vec3_normalize",
		Name:      "Normalize",
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("Vector", Vec3{0, 0, 1})},
		Outputs:   []PortSpec{port("Result", TypeVec3)},
		Code:      "$OUTPUT@0$ = normalize($INPUT@0$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			v := asVec3(in[0])
			l := math32.Sqrt(dot3(v, v))
			if l == 0 {
				return one(Vec3{})
			}
			return one(Vec3{v[0] / l, v[1] / l, v[2] / l})
		},
	})
	r.MustRegister(NodeTemplate{
		ID:        "vec3_lerp",
		Name:      "Vector Lerp",
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("A", Vec3{}), portDefault("B", Vec3{1, 1, 1}), portDefault("T", Float(0.5))},
		Outputs:   []PortSpec{port("Result", TypeVec3)},
		Code:      "$OUTPUT@0$ = mix($INPUT@0$, $INPUT@1$, $INPUT@2$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			a, b, t := asVec3(in[0]), asVec3(in[1]), asFloat(in[2])
			return one(Vec3{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t, a[2] + (b[2]-a[2])*t})
		},
	})

	r.MustRegister(NodeTemplate{
		ID:       "split_vec3",
		Name:     "Split Vector 3",
		Category: "Math/Vector",
		Inputs:   []PortSpec{portDefault("Vector", Vec3{})},
		Outputs:  []PortSpec{port("X", TypeFloat), port("Y", TypeFloat), port("Z", TypeFloat)},
		Code: "$TEMP@0$ := $INPUT@0$\n" +
			"$OUTPUT@0$ = $TEMP@0$.x\n" +
			"$OUTPUT@1$ = $TEMP@0$.y\n" +
			"$OUTPUT@2$ = $TEMP@0$.z",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			v := asVec3(in[0])
			return []Value{Float(v[0]), Float(v[1]), Float(v[2])}
		},
	})
	r.MustRegister(NodeTemplate{
		ID:       "split_vec4",
		Name:     "Split Vector 4",
		Category: "Math/Vector",
		Inputs:   []PortSpec{portDefault("Vector", Vec4{})},
		Outputs:  []PortSpec{port("X", TypeFloat), port("Y", TypeFloat), port("Z", TypeFloat), port("W", TypeFloat)},
		Code: "$TEMP@0$ := $INPUT@0$\n" +
			"$OUTPUT@0$ = $TEMP@0$.x\n" +
			"$OUTPUT@1$ = $TEMP@0$.y\n" +
			"$OUTPUT@2$ = $TEMP@0$.z\n" +
			"$OUTPUT@3$ = $TEMP@0$.w",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			v := asVec4(in[0])
			return []Value{Float(v[0]), Float(v[1]), Float(v[2]), Float(v[3])}
		},
	})
	r.MustRegister(NodeTemplate{
		ID:        "combine_vec3",
		Name:      "Combine Vector 3",
		Category:  "Math/Vector",
		Inputs:    []PortSpec{portDefault("X", Float(0)), portDefault("Y", Float(0)), portDefault("Z", Float(0))},
		Outputs:   []PortSpec{port("Vector", TypeVec3)},
		Code:      "$OUTPUT@0$ = vec3($INPUT@0$, $INPUT@1$, $INPUT@2$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Vec3{asFloat(in[0]), asFloat(in[1]), asFloat(in[2])})
		},
	})
	r.MustRegister(NodeTemplate{
		ID:       "combine_vec4",
		Name:     "Combine Vector 4",
		Category: "Math/Vector",
		Inputs: []PortSpec{
			portDefault("X", Float(0)), portDefault("Y", Float(0)),
			portDefault("Z", Float(0)), portDefault("W", Float(1)),
		},
		Outputs:   []PortSpec{port("Vector", TypeVec4)},
		Code:      "$OUTPUT@0$ = vec4($INPUT@0$, $INPUT@1$, $INPUT@2$, $INPUT@3$)",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Vec4{asFloat(in[0]), asFloat(in[1]), asFloat(in[2]), asFloat(in[3])})
		},
	})
}

// --- Logic ---

func compare(id, name, op string, eval func(a, b float32) bool) NodeTemplate {
	return NodeTemplate{
		ID:        id,
		Name:      name,
		Category:  "Logic",
		Inputs:    []PortSpec{portDefault("A", Float(0)), portDefault("B", Float(0))},
		Outputs:   []PortSpec{port("Result", TypeBool)},
		Code:      "$OUTPUT@0$ = $INPUT@0$ " + op + " $INPUT@1$",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Bool(eval(asFloat(in[0]), asFloat(in[1]))))
		},
	}
}

func registerLogic(r *Registry) {
	r.MustRegister(compare("compare_greater", "A > B", ">", func(a, b float32) bool { return a > b }))
	r.MustRegister(compare("compare_less", "A < B", "<", func(a, b float32) bool { return a < b }))

	r.MustRegister(NodeTemplate{
		ID:        "bool_and",
		Name:      "And",
		Category:  "Logic",
		Inputs:    []PortSpec{portDefault("A", Bool(false)), portDefault("B", Bool(false))},
		Outputs:   []PortSpec{port("Result", TypeBool)},
		Code:      "$OUTPUT@0$ = $INPUT@0$ && $INPUT@1$",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Bool(asBool(in[0]) && asBool(in[1]))) },
	})
	r.MustRegister(NodeTemplate{
		ID:        "bool_or",
		Name:      "Or",
		Category:  "Logic",
		Inputs:    []PortSpec{portDefault("A", Bool(false)), portDefault("B", Bool(false))},
		Outputs:   []PortSpec{port("Result", TypeBool)},
		Code:      "$OUTPUT@0$ = $INPUT@0$ || $INPUT@1$",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Bool(asBool(in[0]) || asBool(in[1]))) },
	})
	r.MustRegister(NodeTemplate{
		ID:        "bool_not",
		Name:      "Not",
		Category:  "Logic",
		Inputs:    []PortSpec{portDefault("Value", Bool(false))},
		Outputs:   []PortSpec{port("Result", TypeBool)},
		Code:      "$OUTPUT@0$ = !($INPUT@0$)",
		Deletable: true,
		Eval:      func(_ *Pixel, in []Value) []Value { return one(Bool(!asBool(in[0]))) },
	})
	r.MustRegister(NodeTemplate{
		ID:       "select_float",
		Name:     "Select",
		Category: "Logic",
		Inputs: []PortSpec{
			portDefault("Condition", Bool(false)),
			portDefault("True", Float(1)),
			portDefault("False", Float(0)),
		},
		Outputs: []PortSpec{port("Result", TypeFloat)},
		Code: "$TEMP@0$ := $INPUT@2$\n" +
			"if $INPUT@0$ {\n" +
			"\t$TEMP@0$ = $INPUT@1$\n" +
			"}\n" +
			"$OUTPUT@0$ = $TEMP@0$",
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			if asBool(in[0]) {
				return one(Float(asFloat(in[1])))
			}
			return one(Float(asFloat(in[2])))
		},
	})
}

// --- Easing ---

// easing builds a curve node whose evaluator is the gween easing function
// and whose Kage code computes the same polynomial. T is clamped to [0, 1].
func easing(id, name, code string, fn ease.TweenFunc) NodeTemplate {
	return NodeTemplate{
		ID:        id,
		Name:      name,
		Category:  "Math/Easing",
		Inputs:    []PortSpec{portDefault("T", Float(0))},
		Outputs:   []PortSpec{port("Result", TypeFloat)},
		Code:      "$TEMP@0$ := clamp($INPUT@0$, 0.0, 1.0)\n" + code,
		Deletable: true,
		Eval: func(_ *Pixel, in []Value) []Value {
			return one(Float(fn(clamp32(asFloat(in[0]), 0, 1), 0, 1, 1)))
		},
	}
}

func registerEasing(r *Registry) {
	r.MustRegister(easing("ease_in_quad", "Ease In (Quad)",
		"$OUTPUT@0$ = $TEMP@0$ * $TEMP@0$", ease.InQuad))
	r.MustRegister(easing("ease_out_quad", "Ease Out (Quad)",
		"$OUTPUT@0$ = $TEMP@0$ * (2.0 - $TEMP@0$)", ease.OutQuad))
	r.MustRegister(easing("ease_in_out_quad", "Ease In Out (Quad)",
		"$TEMP@1$ := $TEMP@0$ * 2.0\n"+
			"$TEMP@2$ := 0.5 * $TEMP@1$ * $TEMP@1$\n"+
			"if $TEMP@1$ >= 1.0 {\n"+
			"\t$TEMP@2$ = -0.5 * (($TEMP@1$-1.0)*($TEMP@1$-3.0) - 1.0)\n"+
			"}\n"+
			"$OUTPUT@0$ = $TEMP@2$", ease.InOutQuad))
}

// --- Material output ---

func registerMaterialOutput(r *Registry) {
	r.MustRegister(NodeTemplate{
		ID:          SinkTemplateID,
		Name:        "Material Output",
		Category:    "Output",
		Description: "The final material. Compilation starts here.",
		Inputs: []PortSpec{
			portDefault("Albedo", Vec3{1, 1, 1}),
			portDefault("Alpha", Float(1)),
			portDefault("Emission", Vec3{}),
			portDefault("Normal", Vec3{0, 0, 1}),
		},
		Code: "albedo = $INPUT@0$\n" +
			"alpha = $INPUT@1$\n" +
			"emission = $INPUT@2$\n" +
			"normal = $INPUT@3$",
	})
}
