package value

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	testCases := []struct {
		typ      Type
		expected Value
	}{
		{TypeFloat, Float(0)},
		{TypeInt, Int(0)},
		{TypeBool, Bool(false)},
		{TypeVec3, Vec3(0, 0, 0)},
		{TypeString, String("")},
		{TypeColor, ColorValue(RGBA(1, 1, 1, 1))},
		{TypeFloatList, FloatList(nil)},
		{TypeStringList, StringList(nil)},
	}
	for _, tc := range testCases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			assert.True(t, tc.typ.Default().Equal(tc.expected))
		})
	}
}

func TestDefaultGradientAndMatrix(t *testing.T) {
	g, ok := TypeGradient.Default().AsGradient()
	require.True(t, ok)
	require.Len(t, g.Stops, 2)
	assert.Equal(t, Color{R: 0, G: 0, B: 0, A: 1}, g.Stops[0].Color)
	assert.Equal(t, Color{R: 1, G: 1, B: 1, A: 1}, g.Stops[1].Color)

	m, ok := TypeMatrix4.Default().AsMatrix4()
	require.True(t, ok)
	assert.Equal(t, Identity4(), m)
}

func TestCategories(t *testing.T) {
	assert.True(t, TypeFloat.In(CategoryNumeric))
	assert.True(t, TypeInt.In(CategoryNumeric))
	assert.False(t, TypeBool.In(CategoryNumeric))

	assert.True(t, TypeVec4.In(CategoryVector))
	assert.True(t, TypeVec4.In(CategoryColorLike))
	assert.True(t, TypeColor.In(CategoryColorLike))
	assert.False(t, TypeVec2.In(CategoryColorLike))

	assert.True(t, TypeFloatList.In(CategoryList))
	assert.True(t, TypeStringList.In(CategoryList))

	assert.True(t, TypeColor.In(CategoryArithmetic))
	assert.False(t, TypeString.In(CategoryArithmetic))

	assert.True(t, TypeGradient.In(CategoryAny))
}

func TestCoerceScalars(t *testing.T) {
	testCases := []struct {
		name     string
		in       Value
		target   Type
		expected Value
	}{
		{"int to float", Int(42), TypeFloat, Float(42)},
		{"float to int truncates", Float(1.9), TypeInt, Int(1)},
		{"negative float truncates toward zero", Float(-0.9), TypeInt, Int(0)},
		{"bool to int", Bool(true), TypeInt, Int(1)},
		{"bool to float", Bool(false), TypeFloat, Float(0)},
		{"int to bool", Int(3), TypeBool, Bool(true)},
		{"float to bool", Float(0), TypeBool, Bool(false)},
		{"float broadcast to vec3", Float(1.5), TypeVec3, Vec3(1.5, 1.5, 1.5)},
		{"float broadcast to color keeps alpha 1", Float(0.5), TypeColor, ColorValue(RGBA(0.5, 0.5, 0.5, 1))},
		{"vec3 to vec4 gains w 1", Vec3(1, 2, 3), TypeVec4, Vec4(1, 2, 3, 1)},
		{"vec4 to color", Vec4(1, 0.5, 0.25, 0.8), TypeColor, ColorValue(RGBA(1, 0.5, 0.25, 0.8))},
		{"color to vec4", ColorValue(RGBA(1, 0.5, 0.25, 0.8)), TypeVec4, Vec4(1, 0.5, 0.25, 0.8)},
		{"vec3 to color gains alpha 1", Vec3(0.1, 0.2, 0.3), TypeColor, ColorValue(RGBA(0.1, 0.2, 0.3, 1))},
		{"color to vec3 drops alpha", ColorValue(RGBA(0.1, 0.2, 0.3, 0.5)), TypeVec3, Vec3(0.1, 0.2, 0.3)},
		{"int to string", Int(7), TypeString, String("7")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := tc.in.CoerceStrict(tc.target)
			require.True(t, ok)
			assert.True(t, out.Equal(tc.expected), "got %s, want %s", out, tc.expected)
		})
	}
}

func TestCoerceFailureYieldsTargetDefault(t *testing.T) {
	// String never coerces to numeric shapes; the defined-but-dull default
	// comes back instead of an error.
	out := String("hello").Coerce(TypeVec3)
	assert.True(t, out.Equal(Vec3(0, 0, 0)))

	out = GradientValue(NewGradient()).Coerce(TypeFloat)
	assert.True(t, out.Equal(Float(0)))

	_, ok := String("x").CoerceStrict(TypeInt)
	assert.False(t, ok)
}

func TestCoerceListWrap(t *testing.T) {
	out, ok := Float(2.5).CoerceStrict(TypeFloatList)
	require.True(t, ok)
	fs, _ := out.Floats()
	assert.Equal(t, []float32{2.5}, fs)

	out, ok = Int(3).CoerceStrict(TypeIntList)
	require.True(t, ok)
	is, _ := out.Ints()
	assert.Equal(t, []int32{3}, is)
}

func TestCoerceListToList(t *testing.T) {
	intList := IntList([]int32{1, 2, 3})
	out, ok := intList.CoerceStrict(TypeFloatList)
	require.True(t, ok)
	fs, _ := out.Floats()
	assert.Equal(t, []float32{1, 2, 3}, fs)

	floatList := FloatList([]float32{1.9, -0.9})
	out, ok = floatList.CoerceStrict(TypeIntList)
	require.True(t, ok)
	is, _ := out.Ints()
	assert.Equal(t, []int32{1, 0}, is)
}

func TestCoerceVecListFlatten(t *testing.T) {
	v := Vec3List([][3]float32{{1, 2, 3}, {4, 5, 6}})
	out, ok := v.CoerceStrict(TypeFloatList)
	require.True(t, ok)
	fs, _ := out.Floats()
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, fs)
}

func TestCoerceFloatListGrouping(t *testing.T) {
	// Seven floats grouped by three: the remainder is truncated.
	v := FloatList([]float32{1, 2, 3, 4, 5, 6, 7})
	out, ok := v.CoerceStrict(TypeVec3List)
	require.True(t, ok)
	vs, _ := out.Vec3s()
	if diff := cmp.Diff([][3]float32{{1, 2, 3}, {4, 5, 6}}, vs); diff != "" {
		t.Fatalf("grouping mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmeticPromotion(t *testing.T) {
	testCases := []struct {
		name     string
		got      Value
		expected Value
	}{
		{"int+int stays int", Add(Int(2), Int(3)), Int(5)},
		{"int+float widens", Add(Int(2), Float(0.5)), Float(2.5)},
		{"float+vec3 broadcasts", Add(Float(1), Vec3(1, 2, 3)), Vec3(2, 3, 4)},
		{"vec3*vec3 elementwise", Mul(Vec3(1, 2, 3), Vec3(2, 2, 2)), Vec3(2, 4, 6)},
		{"int/int truncates", Div(Int(7), Int(2)), Int(3)},
		{"int div by zero is zero", Div(Int(7), Int(0)), Int(0)},
		{"bool counts as int", Add(Bool(true), Int(1)), Int(2)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.got.Equal(tc.expected), "got %s, want %s", tc.got, tc.expected)
		})
	}
}

func TestFloatDivisionByZeroIsInfinite(t *testing.T) {
	out := Div(Float(1), Float(0))
	f, ok := out.AsFloat()
	require.True(t, ok)
	assert.True(t, math.IsInf(float64(f), 1))
}

func TestStringOperandCollapsesToFloatDefault(t *testing.T) {
	// The S5 shape: a String fed into arithmetic behaves as Float(0),
	// broadcasting against the vector operand.
	out := Add(String("hello"), Vec3(1, 2, 3))
	assert.True(t, out.Equal(Vec3(1, 2, 3)), "got %s", out)
}

func TestScalarColorRules(t *testing.T) {
	c := ColorValue(RGBA(0.2, 0.4, 0.6, 0.5))

	// Additive: RGB only, alpha preserved.
	sum := Add(Float(0.1), c)
	col, ok := sum.AsColor()
	require.True(t, ok)
	assert.InDelta(t, 0.3, float64(col.R), 1e-6)
	assert.InDelta(t, 0.5, float64(col.G), 1e-6)
	assert.InDelta(t, 0.7, float64(col.B), 1e-6)
	assert.InDelta(t, 0.5, float64(col.A), 1e-6)

	// Multiplicative: all four components scale.
	scaled := Mul(Float(2), c)
	col, ok = scaled.AsColor()
	require.True(t, ok)
	assert.InDelta(t, 0.4, float64(col.R), 1e-6)
	assert.InDelta(t, 1.0, float64(col.A), 1e-6)
}

func TestListZipToShorter(t *testing.T) {
	a := FloatList([]float32{1, 2, 3, 4})
	b := FloatList([]float32{10, 20})
	out := Add(a, b)
	fs, ok := out.Floats()
	require.True(t, ok)
	assert.Equal(t, []float32{11, 22}, fs)
}

func TestListDivisionByZero(t *testing.T) {
	a := FloatList([]float32{1, 2, 3})
	out := Div(a, Float(0))
	fs, ok := out.Floats()
	require.True(t, ok)
	assert.Equal(t, []float32{0, 0, 0}, fs)
}

func TestIntListArithmetic(t *testing.T) {
	a := IntList([]int32{10, 20, 30})
	b := IntList([]int32{3, 0, 7})
	out := Div(a, b)
	is, ok := out.Ints()
	require.True(t, ok)
	assert.Equal(t, []int32{3, 0, 4}, is)
}

func TestListGet(t *testing.T) {
	l := FloatList([]float32{1.5, 2.5, 3.5})
	assert.True(t, l.ListGet(0).Equal(Float(1.5)))
	assert.True(t, l.ListGet(-1).Equal(Float(3.5)), "index -1 addresses the last element")
	assert.True(t, l.ListGet(99).Equal(Float(0)), "out of range yields the element default")
	assert.True(t, l.ListGet(-2).Equal(Float(0)))

	sl := StringList([]string{"a", "b"})
	assert.True(t, sl.ListGet(5).Equal(String("")))
}

func TestCopyOnWrite(t *testing.T) {
	orig := FloatList([]float32{1, 2, 3})
	shared := orig
	require.True(t, orig.SharesStorage(shared), "plain copies share backing storage")

	edited := shared.ListSet(1, Float(99))
	assert.False(t, edited.SharesStorage(orig), "mutation forces a structural copy")

	fs, _ := orig.Floats()
	assert.Equal(t, []float32{1, 2, 3}, fs, "the original is untouched")
	fs, _ = edited.Floats()
	assert.Equal(t, []float32{1, 99, 3}, fs)
}

func TestListAppendCoercesElement(t *testing.T) {
	l := IntList([]int32{1})
	out := l.ListAppend(Float(2.9))
	is, _ := out.Ints()
	assert.Equal(t, []int32{1, 2}, is)
}

func TestMinMaxClamp(t *testing.T) {
	assert.True(t, Min(Float(1), Float(2)).Equal(Float(1)))
	assert.True(t, Max(Int(1), Int(2)).Equal(Int(2)))
	assert.True(t, Clamp(Float(5), Float(0), Float(2)).Equal(Float(2)))
	assert.True(t, Clamp(Vec3(-1, 0.5, 9), Float(0), Float(1)).Equal(Vec3(0, 0.5, 1)))
}

func TestNegPreservesColorAlpha(t *testing.T) {
	out := Neg(ColorValue(RGBA(0.5, 0.5, 0.5, 0.7)))
	c, ok := out.AsColor()
	require.True(t, ok)
	assert.InDelta(t, -0.5, float64(c.R), 1e-6)
	assert.InDelta(t, 0.7, float64(c.A), 1e-6)
}

func TestGradientSample(t *testing.T) {
	g := NewGradient()
	mid := g.Sample(0.5)
	assert.InDelta(t, 0.5, float64(mid.R), 1e-6)
	assert.InDelta(t, 1.0, float64(mid.A), 1e-6)

	assert.Equal(t, g.Stops[0].Color, g.Sample(-1))
	assert.Equal(t, g.Stops[1].Color, g.Sample(2))
}

func TestCanCoerce(t *testing.T) {
	assert.True(t, CanCoerce(TypeInt, TypeFloat))
	assert.True(t, CanCoerce(TypeFloat, TypeVec3))
	assert.True(t, CanCoerce(TypeIntList, TypeFloatList))
	assert.True(t, CanCoerce(TypeFloat, TypeFloatList))
	assert.False(t, CanCoerce(TypeString, TypeFloat))
	assert.False(t, CanCoerce(TypeGradient, TypeMatrix4))
}
