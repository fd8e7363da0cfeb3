package shadergraph

import (
	"math"
	"testing"
)

// sampleValues has one non-trivial value of every type.
var sampleValues = []Value{
	Bool(true),
	Int(-3),
	UInt(7),
	Float(2.5),
	Vec2{0.25, 0.5},
	Vec3{1, 2, 3},
	Vec4{0.1, 0.2, 0.3, 0.4},
}

// --- ValueType ---

func TestValueTypeNames(t *testing.T) {
	for _, typ := range ValueTypes {
		got, err := ParseValueType(typ.String())
		if err != nil {
			t.Fatalf("ParseValueType(%q): %v", typ.String(), err)
		}
		if got != typ {
			t.Errorf("ParseValueType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if _, err := ParseValueType("mat4"); err == nil {
		t.Error("ParseValueType(mat4) should fail")
	}
	if ValueType(42).Valid() {
		t.Error("ValueType(42) should not be valid")
	}
}

func TestKageName(t *testing.T) {
	if got := TypeUInt.KageName(); got != "int" {
		t.Errorf("TypeUInt.KageName() = %q, want int", got)
	}
	if got := TypeVec3.KageName(); got != "vec3" {
		t.Errorf("TypeVec3.KageName() = %q, want vec3", got)
	}
}

func TestNormalizeValue(t *testing.T) {
	if got := NormalizeValue(Float(1), TypeFloat); got != Float(1) {
		t.Errorf("matching type changed: %v", got)
	}
	if got := NormalizeValue(Int(5), TypeFloat); got != Float(0) {
		t.Errorf("wrong type = %v, want Float(0)", got)
	}
	if got := NormalizeValue(nil, TypeVec2); got != (Vec2{}) {
		t.Errorf("nil = %v, want zero Vec2", got)
	}
}

// --- Literals ---

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		v      Value
		expect string
	}{
		{Bool(true), "true"},
		{Int(-4), "-4"},
		{UInt(9), "9"},
		{Float(0), "0.0"},
		{Float(1), "1.0"},
		{Float(0.5), "0.5"},
		{Float(float32(math.NaN())), "0.0"},
		{Float(float32(math.Inf(1))), "0.0"},
		{Vec2{1, 0.25}, "vec2(1.0, 0.25)"},
		{Vec3{1, 0, 0}, "vec3(1.0, 0.0, 0.0)"},
		{Vec4{0, 0, 0, 1}, "vec4(0.0, 0.0, 0.0, 1.0)"},
	}
	for _, tt := range tests {
		if got := FormatLiteral(tt.v); got != tt.expect {
			t.Errorf("FormatLiteral(%#v) = %q, want %q", tt.v, got, tt.expect)
		}
	}
}

// --- Coerce ---

func TestCoerceTotality(t *testing.T) {
	for _, v := range sampleValues {
		for _, to := range ValueTypes {
			got := Coerce(v, to)
			if got == nil {
				t.Fatalf("Coerce(%v, %v) = nil", v, to)
			}
			if got.Type() != to {
				t.Errorf("Coerce(%v, %v) has type %v", v, to, got.Type())
			}
		}
	}
}

func TestCoerceIdentity(t *testing.T) {
	for _, v := range sampleValues {
		if got := Coerce(v, v.Type()); got != v {
			t.Errorf("Coerce(%v, %v) = %v, want unchanged", v, v.Type(), got)
		}
	}
}

func TestCoerceVectorToBoolIsFalse(t *testing.T) {
	for _, v := range []Value{Vec2{1, 1}, Vec3{5, 0, 0}, Vec4{1, 1, 1, 1}, Vec3{}} {
		if got := Coerce(v, TypeBool); got != Bool(false) {
			t.Errorf("Coerce(%v, bool) = %v, want false", v, got)
		}
	}
}

func TestCoerceRules(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		to     ValueType
		expect Value
	}{
		{"bool to float", Bool(true), TypeFloat, Float(1)},
		{"bool to int", Bool(false), TypeInt, Int(0)},
		{"float to bool", Float(0.1), TypeBool, Bool(true)},
		{"zero to bool", Int(0), TypeBool, Bool(false)},
		{"float truncates to int", Float(-2.7), TypeInt, Int(-2)},
		{"int to float", Int(-3), TypeFloat, Float(-3)},
		{"uint to int", UInt(8), TypeInt, Int(8)},
		{"float broadcasts", Float(0.5), TypeVec3, Vec3{0.5, 0.5, 0.5}},
		{"bool broadcasts", Bool(true), TypeVec2, Vec2{1, 1}},
		{"vector to float takes x", Vec3{4, 5, 6}, TypeFloat, Float(4)},
		{"vector to int takes x", Vec2{2.9, 1}, TypeInt, Int(2)},
		{"truncate", Vec4{1, 2, 3, 4}, TypeVec2, Vec2{1, 2}},
		{"zero pad", Vec2{1, 2}, TypeVec4, Vec4{1, 2, 0, 0}},
		{"vec3 to vec4", Vec3{1, 2, 3}, TypeVec4, Vec4{1, 2, 3, 0}},
		{"nil is zero", nil, TypeFloat, Float(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.v, tt.to); got != tt.expect {
				t.Errorf("Coerce(%v, %v) = %#v, want %#v", tt.v, tt.to, got, tt.expect)
			}
		})
	}
}

// --- CoerceExpr ---

func TestCoerceExpr(t *testing.T) {
	tests := []struct {
		from, to ValueType
		expect   string
	}{
		{TypeFloat, TypeFloat, "x"},
		{TypeFloat, TypeBool, "(x != 0)"},
		{TypeInt, TypeBool, "(x != 0)"},
		{TypeVec3, TypeBool, "false"},
		{TypeBool, TypeFloat, "sgBoolToFloat(x)"},
		{TypeBool, TypeInt, "sgBoolToInt(x)"},
		{TypeInt, TypeFloat, "float(x)"},
		{TypeFloat, TypeInt, "int(x)"},
		{TypeFloat, TypeVec3, "vec3(x)"},
		{TypeInt, TypeVec2, "vec2(float(x))"},
		{TypeVec3, TypeFloat, "x.x"},
		{TypeVec3, TypeInt, "int(x.x)"},
		{TypeVec4, TypeVec2, "x.xy"},
		{TypeVec4, TypeVec3, "x.xyz"},
		{TypeVec2, TypeVec4, "vec4(x, 0, 0)"},
		{TypeVec3, TypeVec4, "vec4(x, 0)"},
	}
	for _, tt := range tests {
		if got := CoerceExpr("x", tt.from, tt.to); got != tt.expect {
			t.Errorf("CoerceExpr(x, %v, %v) = %q, want %q", tt.from, tt.to, got, tt.expect)
		}
	}
}

func TestCoerceExprTotality(t *testing.T) {
	for _, from := range ValueTypes {
		for _, to := range ValueTypes {
			if CoerceExpr("x", from, to) == "" {
				t.Errorf("CoerceExpr(x, %v, %v) is empty", from, to)
			}
		}
	}
}
