package shadergraph

// Coercion rules shared by the compiler and the simulator:
//   - scalar to scalar is a numeric cast; bool uses v != 0 and b ? 1 : 0
//   - scalar to vector broadcasts the scalar into every component
//   - vector to scalar takes the first component, except vector to bool,
//     which is always false
//   - vector to a smaller vector truncates, to a larger vector zero-pads
//
// Coerce and CoerceExpr must stay in step: the simulator relies on Coerce to
// compute what the emitted Kage expression computes on the GPU.

// Coerce converts v to type to. Every pair of types has a defined result and
// Coerce(v, v.Type()) returns v unchanged.
func Coerce(v Value, to ValueType) Value {
	if v == nil {
		return Zero(to)
	}
	from := v.Type()
	if from == to {
		return v
	}
	if from.IsVector() {
		c, n := vectorComponents(v)
		switch to {
		case TypeBool:
			// Vector to bool is false regardless of contents.
			return Bool(false)
		case TypeInt:
			return Int(int32(int64(c[0])))
		case TypeUInt:
			return UInt(uint32(int64(c[0])))
		case TypeFloat:
			return Float(c[0])
		case TypeVec2, TypeVec3, TypeVec4:
			var out [4]float32
			copy(out[:min(n, to.Components())], c[:])
			return makeVector(to, out)
		}
		return v
	}

	var (
		asBool  bool
		asInt   int64
		asFloat float32
	)
	switch x := v.(type) {
	case Bool:
		asBool = bool(x)
		if asBool {
			asInt, asFloat = 1, 1
		}
	case Int:
		asBool, asInt, asFloat = x != 0, int64(x), float32(x)
	case UInt:
		asBool, asInt, asFloat = x != 0, int64(x), float32(x)
	case Float:
		asBool, asInt, asFloat = x != 0, int64(x), float32(x)
	default:
		return v
	}

	switch to {
	case TypeBool:
		return Bool(asBool)
	case TypeInt:
		return Int(int32(asInt))
	case TypeUInt:
		return UInt(uint32(asInt))
	case TypeFloat:
		return Float(asFloat)
	case TypeVec2, TypeVec3, TypeVec4:
		return makeVector(to, [4]float32{asFloat, asFloat, asFloat, asFloat})
	}
	return v
}

var swizzles = [...]string{2: ".xy", 3: ".xyz"}

// CoerceExpr wraps the Kage expression expr, of type from, so that it yields
// a value of type to. expr is expected to be an identifier or another
// expression that binds tighter than any operator.
func CoerceExpr(expr string, from, to ValueType) string {
	if from == to {
		return expr
	}
	switch {
	case to == TypeBool:
		if from.IsVector() {
			return "false"
		}
		return "(" + expr + " != 0)"

	case !from.IsVector() && !to.IsVector():
		switch from {
		case TypeBool:
			if to == TypeFloat {
				return "sgBoolToFloat(" + expr + ")"
			}
			return "sgBoolToInt(" + expr + ")"
		case TypeInt, TypeUInt:
			if to == TypeFloat {
				return "float(" + expr + ")"
			}
			// int and uint share the Kage int type.
			return expr
		default:
			return "int(" + expr + ")"
		}

	case !from.IsVector():
		return to.String() + "(" + scalarFloatExpr(expr, from) + ")"

	case !to.IsVector():
		if to == TypeFloat {
			return expr + ".x"
		}
		return "int(" + expr + ".x)"

	default:
		fn, tn := from.Components(), to.Components()
		if tn < fn {
			return expr + swizzles[tn]
		}
		out := to.String() + "(" + expr
		for i := fn; i < tn; i++ {
			out += ", 0"
		}
		return out + ")"
	}
}

func scalarFloatExpr(expr string, from ValueType) string {
	switch from {
	case TypeBool:
		return "sgBoolToFloat(" + expr + ")"
	case TypeInt, TypeUInt:
		return "float(" + expr + ")"
	default:
		return expr
	}
}
