package value

import "math"

// Binary arithmetic follows width promotion: the narrower operand is
// promoted to the wider one before the elementwise operation. Bool operands
// count as Int and list operands take the list rules; any other operand
// outside the Arithmetic category is interpreted as Float and therefore
// falls back to Float's default, never to an error.

type binOp uint8

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

// Add returns a + b under broadcasting rules.
func Add(a, b Value) Value { return binary(a, b, opAdd) }

// Sub returns a - b under broadcasting rules.
func Sub(a, b Value) Value { return binary(a, b, opSub) }

// Mul returns a * b under broadcasting rules.
func Mul(a, b Value) Value { return binary(a, b, opMul) }

// Div returns a / b under broadcasting rules. Integer division by zero
// yields 0; float division by zero yields IEEE infinity; list division by
// zero yields 0.0 per element.
func Div(a, b Value) Value { return binary(a, b, opDiv) }

// width orders arithmetic types for promotion. Zero means non-arithmetic.
func width(t Type) int {
	switch t {
	case TypeInt:
		return 1
	case TypeFloat:
		return 2
	case TypeVec2:
		return 3
	case TypeVec3, TypeColor:
		return 4
	case TypeVec4:
		return 5
	}
	return 0
}

// normalizeArith maps an operand into the arithmetic domain: Bool counts as
// Int, lists pass through, everything else non-arithmetic collapses to
// Float's default.
func normalizeArith(v Value) Value {
	if v.t.IsList() || v.t.In(CategoryArithmetic) {
		return v
	}
	if v.t == TypeBool {
		return v.Coerce(TypeInt)
	}
	return TypeFloat.Default()
}

func binary(a, b Value, op binOp) Value {
	a = normalizeArith(a)
	b = normalizeArith(b)

	if a.t.IsList() || b.t.IsList() {
		return listBinary(a, b, op)
	}

	if a.t == TypeInt && b.t == TypeInt {
		return Int(intOp(a.i, b.i, op))
	}

	target := promoteTarget(a.t, b.t)
	if target == TypeColor {
		return colorBinary(a, b, op)
	}

	pa := a.Coerce(target)
	pb := b.Coerce(target)
	switch target {
	case TypeFloat:
		return Float(floatOp(pa.f, pb.f, op))
	case TypeVec2, TypeVec3, TypeVec4:
		var out [4]float32
		for i := 0; i < vecLen(target); i++ {
			out[i] = floatOp(pa.vec[i], pb.vec[i], op)
		}
		return Value{t: target, vec: out}
	}
	return target.Default()
}

// promoteTarget picks the result type for a scalar/vector/color pair.
func promoteTarget(a, b Type) Type {
	wa, wb := width(a), width(b)
	switch {
	case wa > wb:
		return a
	case wb > wa:
		return b
	case a == b:
		return a
	case a == TypeColor || b == TypeColor:
		// Vec3 and Color tie at the same width.
		return TypeColor
	}
	return a
}

func vecLen(t Type) int {
	switch t {
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	}
	return 0
}

// colorBinary applies the Color special cases. A scalar combined additively
// with a color touches RGB only and preserves the color's alpha; a scalar
// combined multiplicatively scales all four components. Two wide operands
// work componentwise on all four channels.
func colorBinary(a, b Value, op binOp) Value {
	additive := op == opAdd || op == opSub

	if s, ok := a.AsFloat(); ok {
		c := b.Coerce(TypeColor).vec
		out := [4]float32{
			floatOp(s, c[0], op),
			floatOp(s, c[1], op),
			floatOp(s, c[2], op),
			floatOp(s, c[3], op),
		}
		if additive {
			out[3] = c[3]
		}
		return Value{t: TypeColor, vec: out}
	}
	if s, ok := b.AsFloat(); ok {
		c := a.Coerce(TypeColor).vec
		out := [4]float32{
			floatOp(c[0], s, op),
			floatOp(c[1], s, op),
			floatOp(c[2], s, op),
			floatOp(c[3], s, op),
		}
		if additive {
			out[3] = c[3]
		}
		return Value{t: TypeColor, vec: out}
	}

	ca := a.Coerce(TypeColor).vec
	cb := b.Coerce(TypeColor).vec
	var out [4]float32
	for i := 0; i < 4; i++ {
		out[i] = floatOp(ca[i], cb[i], op)
	}
	return Value{t: TypeColor, vec: out}
}

func floatOp(a, b float32, op binOp) float32 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	}
	return 0
}

func intOp(a, b int32, op binOp) int32 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		if b == 0 {
			return 0
		}
		return a / b
	}
	return 0
}

// listBinary zips two lists (or a list and a broadcast scalar) to the
// shorter operand. Mixed Int/Float lists promote to FloatList; division by a
// zero element yields 0.0 for that element.
func listBinary(a, b Value, op binOp) Value {
	// Scalar against list: broadcast the scalar.
	if !a.t.IsList() {
		return listScalar(b, a, op, true)
	}
	if !b.t.IsList() {
		return listScalar(a, b, op, false)
	}

	if a.t == TypeIntList && b.t == TypeIntList {
		as, _ := a.Ints()
		bs, _ := b.Ints()
		n := min(len(as), len(bs))
		out := make([]int32, n)
		for i := 0; i < n; i++ {
			out[i] = intOp(as[i], bs[i], op)
		}
		return IntList(out)
	}

	af, aok := a.CoerceStrict(TypeFloatList)
	bf, bok := b.CoerceStrict(TypeFloatList)
	if !aok || !bok {
		return a.t.Default()
	}
	as, _ := af.Floats()
	bs, _ := bf.Floats()
	n := min(len(as), len(bs))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = listFloatOp(as[i], bs[i], op)
	}
	return FloatList(out)
}

// listScalar applies a scalar to every list element. swapped reports that
// the scalar was the left operand.
func listScalar(list, scalar Value, op binOp, swapped bool) Value {
	s, ok := scalar.AsFloat()
	if !ok {
		s = 0
	}
	if list.t == TypeIntList && scalar.t == TypeInt {
		si, _ := scalar.AsInt()
		src, _ := list.Ints()
		out := make([]int32, len(src))
		for i, e := range src {
			if swapped {
				out[i] = intOp(si, e, op)
			} else {
				out[i] = intOp(e, si, op)
			}
		}
		return IntList(out)
	}
	lf, ok := list.CoerceStrict(TypeFloatList)
	if !ok {
		return list.t.Default()
	}
	src, _ := lf.Floats()
	out := make([]float32, len(src))
	for i, e := range src {
		if swapped {
			out[i] = listFloatOp(s, e, op)
		} else {
			out[i] = listFloatOp(e, s, op)
		}
	}
	return FloatList(out)
}

// listFloatOp is floatOp with the list division rule: zero divisors produce
// 0.0 instead of infinity.
func listFloatOp(a, b float32, op binOp) float32 {
	if op == opDiv && b == 0 {
		return 0
	}
	return floatOp(a, b, op)
}

// Neg negates a value componentwise. Color negation preserves alpha.
func Neg(v Value) Value {
	v = normalizeArith(v)
	switch v.t {
	case TypeFloat:
		return Float(-v.f)
	case TypeInt:
		return Int(-v.i)
	case TypeVec2, TypeVec3, TypeVec4:
		out := v.vec
		for i := 0; i < vecLen(v.t); i++ {
			out[i] = -out[i]
		}
		return Value{t: v.t, vec: out}
	case TypeColor:
		return ColorValue(RGBA(-v.vec[0], -v.vec[1], -v.vec[2], v.vec[3]))
	}
	return v.t.Default()
}

// Abs returns the componentwise absolute value.
func Abs(v Value) Value {
	v = normalizeArith(v)
	switch v.t {
	case TypeFloat:
		return Float(float32(math.Abs(float64(v.f))))
	case TypeInt:
		if v.i < 0 {
			return Int(-v.i)
		}
		return v
	case TypeVec2, TypeVec3, TypeVec4:
		out := v.vec
		for i := 0; i < vecLen(v.t); i++ {
			out[i] = float32(math.Abs(float64(out[i])))
		}
		return Value{t: v.t, vec: out}
	case TypeColor:
		out := v.vec
		for i := range out {
			out[i] = float32(math.Abs(float64(out[i])))
		}
		return Value{t: TypeColor, vec: out}
	}
	return v.t.Default()
}

// Min returns the componentwise minimum under the usual promotion.
func Min(a, b Value) Value { return minMax(a, b, true) }

// Max returns the componentwise maximum under the usual promotion.
func Max(a, b Value) Value { return minMax(a, b, false) }

func minMax(a, b Value, wantMin bool) Value {
	a = normalizeArith(a)
	b = normalizeArith(b)
	if a.t == TypeInt && b.t == TypeInt {
		if (a.i < b.i) == wantMin {
			return a
		}
		return b
	}
	target := promoteTarget(a.t, b.t)
	if width(target) == 0 {
		return target.Default()
	}
	pa := a.Coerce(target)
	pb := b.Coerce(target)
	if target == TypeFloat {
		if (pa.f < pb.f) == wantMin {
			return pa
		}
		return pb
	}
	out := pa.vec
	for i := 0; i < 4; i++ {
		if (pb.vec[i] < out[i]) == wantMin {
			out[i] = pb.vec[i]
		}
	}
	return Value{t: target, vec: out}
}

// Clamp limits v to [lo, hi] componentwise.
func Clamp(v, lo, hi Value) Value {
	return Min(Max(v, lo), hi)
}

// Pow raises a to the power b. Int^Int stays Int (truncated).
func Pow(a, b Value) Value {
	a = normalizeArith(a)
	b = normalizeArith(b)
	if a.t == TypeInt && b.t == TypeInt {
		return Int(truncToInt(float32(math.Pow(float64(a.i), float64(b.i)))))
	}
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	if aok && bok {
		return Float(float32(math.Pow(float64(af), float64(bf))))
	}
	if a.t.In(CategoryVector) {
		e, ok := b.AsFloat()
		if !ok {
			e = 0
		}
		out := a.vec
		for i := 0; i < vecLen(a.t); i++ {
			out[i] = float32(math.Pow(float64(out[i]), float64(e)))
		}
		return Value{t: a.t, vec: out}
	}
	return a.t.Default()
}

// ApproxEqual compares two values with a float tolerance; non-float
// variants fall back to exact equality.
func ApproxEqual(a, b Value, eps float64) bool {
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	if aok && bok {
		return math.Abs(float64(af)-float64(bf)) <= eps
	}
	return a.Equal(b)
}
