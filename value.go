package shadergraph

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType identifies the kind of value carried by a port or a simulated pixel.
type ValueType uint8

const (
	TypeBool  ValueType = iota // boolean
	TypeInt                    // signed 32-bit integer
	TypeUInt                   // unsigned 32-bit integer (emitted as int in Kage)
	TypeFloat                  // 32-bit float
	TypeVec2                   // two float components
	TypeVec3                   // three float components
	TypeVec4                   // four float components
)

// ValueTypes lists every value type in declaration order.
var ValueTypes = []ValueType{TypeBool, TypeInt, TypeUInt, TypeFloat, TypeVec2, TypeVec3, TypeVec4}

var valueTypeNames = [...]string{
	TypeBool:  "bool",
	TypeInt:   "int",
	TypeUInt:  "uint",
	TypeFloat: "float",
	TypeVec2:  "vec2",
	TypeVec3:  "vec3",
	TypeVec4:  "vec4",
}

func (t ValueType) String() string {
	if t.Valid() {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// Valid reports whether t is one of the seven known types.
func (t ValueType) Valid() bool {
	return t <= TypeVec4
}

// ParseValueType returns the type named s (as produced by String).
func ParseValueType(s string) (ValueType, error) {
	for i, name := range valueTypeNames {
		if name == s {
			return ValueType(i), nil
		}
	}
	return 0, fmt.Errorf("shadergraph: unknown value type %q", s)
}

// Components returns the number of float components of a vector type, or 1
// for scalar types.
func (t ValueType) Components() int {
	switch t {
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	default:
		return 1
	}
}

// IsVector reports whether t is vec2, vec3 or vec4.
func (t ValueType) IsVector() bool {
	return t == TypeVec2 || t == TypeVec3 || t == TypeVec4
}

// KageName returns the Kage type used to declare a variable of type t.
// Kage has no unsigned integers, so uint maps to int.
func (t ValueType) KageName() string {
	if t == TypeUInt {
		return "int"
	}
	return t.String()
}

// Value is a single typed value. The set of implementations is closed:
// Bool, Int, UInt, Float, Vec2, Vec3 and Vec4.
type Value interface {
	Type() ValueType
	String() string
	value() // marker method restricting implementations to this package
}

// Bool is a boolean value.
type Bool bool

// Int is a signed integer value.
type Int int32

// UInt is an unsigned integer value.
type UInt uint32

// Float is a scalar float value.
type Float float32

// Vec2 is a two-component vector.
type Vec2 [2]float32

// Vec3 is a three-component vector.
type Vec3 [3]float32

// Vec4 is a four-component vector.
type Vec4 [4]float32

func (Bool) Type() ValueType  { return TypeBool }
func (Int) Type() ValueType   { return TypeInt }
func (UInt) Type() ValueType  { return TypeUInt }
func (Float) Type() ValueType { return TypeFloat }
func (Vec2) Type() ValueType  { return TypeVec2 }
func (Vec3) Type() ValueType  { return TypeVec3 }
func (Vec4) Type() ValueType  { return TypeVec4 }

func (Bool) value()  {}
func (Int) value()   {}
func (UInt) value()  {}
func (Float) value() {}
func (Vec2) value()  {}
func (Vec3) value()  {}
func (Vec4) value()  {}

func (v Bool) String() string  { return strconv.FormatBool(bool(v)) }
func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v UInt) String() string  { return strconv.FormatUint(uint64(v), 10) }
func (v Float) String() string { return formatFloat(float32(v)) }
func (v Vec2) String() string  { return formatVector("vec2", v[:]) }
func (v Vec3) String() string  { return formatVector("vec3", v[:]) }
func (v Vec4) String() string  { return formatVector("vec4", v[:]) }

// Zero returns the zero value of t. Unknown types yield Float(0).
func Zero(t ValueType) Value {
	switch t {
	case TypeBool:
		return Bool(false)
	case TypeInt:
		return Int(0)
	case TypeUInt:
		return UInt(0)
	case TypeVec2:
		return Vec2{}
	case TypeVec3:
		return Vec3{}
	case TypeVec4:
		return Vec4{}
	default:
		return Float(0)
	}
}

// NormalizeValue returns v if it already has type t, otherwise the zero value
// of t. Port values must always hold their declared type.
func NormalizeValue(v Value, t ValueType) Value {
	if v == nil || v.Type() != t {
		return Zero(t)
	}
	return v
}

// vectorComponents returns the components of a vector value and their count.
// Scalars report zero components.
func vectorComponents(v Value) (c [4]float32, n int) {
	switch x := v.(type) {
	case Vec2:
		copy(c[:], x[:])
		return c, 2
	case Vec3:
		copy(c[:], x[:])
		return c, 3
	case Vec4:
		return [4]float32(x), 4
	}
	return c, 0
}

// makeVector builds a vector of type t from up to four components.
func makeVector(t ValueType, c [4]float32) Value {
	switch t {
	case TypeVec2:
		return Vec2{c[0], c[1]}
	case TypeVec3:
		return Vec3{c[0], c[1], c[2]}
	default:
		return Vec4(c)
	}
}

// FormatLiteral renders v as a Kage literal of its own type.
func FormatLiteral(v Value) string {
	if v == nil {
		return "0.0"
	}
	return v.String()
}

func formatFloat(f float32) string {
	if f != f || f > 3.4028235e38 || f < -3.4028235e38 {
		return "0.0"
	}
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatVector(name string, c []float32) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, f := range c {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(f))
	}
	b.WriteByte(')')
	return b.String()
}
