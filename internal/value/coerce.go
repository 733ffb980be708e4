package value

import "strconv"

// Coerce converts the value to the target type. Coercion never fails: when
// no rule applies, the target type's default is returned instead. The engine
// never aborts evaluation on a type mismatch.
func (v Value) Coerce(target Type) Value {
	if out, ok := v.CoerceStrict(target); ok {
		return out
	}
	return target.Default()
}

// CoerceStrict converts the value to the target type, reporting whether a
// coercion rule applied.
func (v Value) CoerceStrict(target Type) (Value, bool) {
	if v.t == target {
		return v, true
	}

	// Scalar wrap: any non-list value that can reach the element type
	// becomes a single-element list.
	if target.IsList() && !v.t.IsList() {
		if e, ok := v.CoerceStrict(target.Elem()); ok {
			out := target.Default().ListAppend(e)
			return out, true
		}
		return Value{}, false
	}

	switch v.t {
	case TypeFloat:
		return coerceScalar(v.f, target)
	case TypeInt:
		switch target {
		case TypeBool:
			return Bool(v.i != 0), true
		case TypeString:
			return String(strconv.FormatInt(int64(v.i), 10)), true
		}
		return coerceScalar(float32(v.i), target)
	case TypeBool:
		n := float32(0)
		if v.b {
			n = 1
		}
		if target == TypeString {
			return String(strconv.FormatBool(v.b)), true
		}
		return coerceScalar(n, target)
	case TypeVec2:
		return Value{}, false
	case TypeVec3:
		switch target {
		case TypeVec4:
			return Vec4(v.vec[0], v.vec[1], v.vec[2], 1), true
		case TypeColor:
			return ColorValue(RGBA(v.vec[0], v.vec[1], v.vec[2], 1)), true
		}
	case TypeVec4:
		switch target {
		case TypeVec3:
			return Vec3(v.vec[0], v.vec[1], v.vec[2]), true
		case TypeColor:
			return ColorValue(colorFromArray(v.vec)), true
		}
	case TypeColor:
		switch target {
		case TypeVec4:
			return Vec4(v.vec[0], v.vec[1], v.vec[2], v.vec[3]), true
		case TypeVec3:
			return Vec3(v.vec[0], v.vec[1], v.vec[2]), true
		}
	case TypeFloatList:
		return v.coerceFloatList(target)
	case TypeIntList:
		if target == TypeFloatList {
			src, _ := v.Ints()
			out := make([]float32, len(src))
			for i, n := range src {
				out[i] = float32(n)
			}
			return FloatList(out), true
		}
	case TypeVec2List:
		if target == TypeFloatList {
			src, _ := v.Vec2s()
			out := make([]float32, 0, len(src)*2)
			for _, e := range src {
				out = append(out, e[0], e[1])
			}
			return FloatList(out), true
		}
	case TypeVec3List:
		if target == TypeFloatList {
			src, _ := v.Vec3s()
			out := make([]float32, 0, len(src)*3)
			for _, e := range src {
				out = append(out, e[0], e[1], e[2])
			}
			return FloatList(out), true
		}
	case TypeVec4List:
		if target == TypeFloatList {
			src, _ := v.Vec4s()
			out := make([]float32, 0, len(src)*4)
			for _, e := range src {
				out = append(out, e[0], e[1], e[2], e[3])
			}
			return FloatList(out), true
		}
	}
	// Gradient, Matrix4 and String stay what they are.
	return Value{}, false
}

// coerceScalar widens a numeric scalar to the target type.
func coerceScalar(f float32, target Type) (Value, bool) {
	switch target {
	case TypeFloat:
		return Float(f), true
	case TypeInt:
		return Int(truncToInt(f)), true
	case TypeBool:
		return Bool(f != 0), true
	case TypeVec2:
		return Vec2(f, f), true
	case TypeVec3:
		return Vec3(f, f, f), true
	case TypeVec4:
		return Vec4(f, f, f, f), true
	case TypeColor:
		return ColorValue(RGBA(f, f, f, 1)), true
	case TypeString:
		return String(strconv.FormatFloat(float64(f), 'g', -1, 32)), true
	}
	return Value{}, false
}

// coerceFloatList converts a FloatList to other list shapes: elementwise to
// IntList, grouped by component count to the vector lists (remainder
// truncated).
func (v Value) coerceFloatList(target Type) (Value, bool) {
	src, _ := v.Floats()
	switch target {
	case TypeIntList:
		out := make([]int32, len(src))
		for i, f := range src {
			out[i] = truncToInt(f)
		}
		return IntList(out), true
	case TypeVec2List:
		out := make([][2]float32, 0, len(src)/2)
		for i := 0; i+1 < len(src); i += 2 {
			out = append(out, [2]float32{src[i], src[i+1]})
		}
		return Vec2List(out), true
	case TypeVec3List:
		out := make([][3]float32, 0, len(src)/3)
		for i := 0; i+2 < len(src); i += 3 {
			out = append(out, [3]float32{src[i], src[i+1], src[i+2]})
		}
		return Vec3List(out), true
	case TypeVec4List:
		out := make([][4]float32, 0, len(src)/4)
		for i := 0; i+3 < len(src); i += 4 {
			out = append(out, [4]float32{src[i], src[i+1], src[i+2], src[i+3]})
		}
		return Vec4List(out), true
	}
	return Value{}, false
}

// CanCoerce reports whether a coercion rule exists from one type to another.
// It is used by Connect for the permissive compatibility check; a false
// result still allows the connection, which then coerces to the target's
// default at evaluation time.
func CanCoerce(from, to Type) bool {
	if from == to {
		return true
	}
	_, ok := from.Default().CoerceStrict(to)
	if ok {
		return true
	}
	// Probe with a one-element list so list-to-list rules with empty
	// defaults are still reported.
	if from.IsList() && to.IsList() {
		probe := from.Default().ListAppend(from.Elem().Default())
		_, ok = probe.CoerceStrict(to)
	}
	return ok
}
