package value

// Type identifies a Value variant without carrying data. It is used to
// describe port constraints and to request coercions.
type Type uint8

const (
	TypeFloat Type = iota
	TypeInt
	TypeBool
	TypeVec2
	TypeVec3
	TypeVec4
	TypeString
	TypeColor
	TypeGradient
	TypeMatrix4
	TypeFloatList
	TypeIntList
	TypeBoolList
	TypeVec2List
	TypeVec3List
	TypeVec4List
	TypeColorList
	TypeStringList
)

// Category is a named set of Types. A type may belong to several categories.
type Category uint8

const (
	// CategoryNumeric covers Float and Int.
	CategoryNumeric Category = iota
	// CategoryVector covers Vec2, Vec3 and Vec4.
	CategoryVector
	// CategoryColorLike covers Color, Vec3 and Vec4.
	CategoryColorLike
	// CategoryList covers every list variant.
	CategoryList
	// CategoryArithmetic covers the types broadcasting arithmetic accepts.
	CategoryArithmetic
	// CategoryAny matches every type.
	CategoryAny
)

// Default returns the defined default value for the type.
func (t Type) Default() Value {
	switch t {
	case TypeFloat:
		return Float(0)
	case TypeInt:
		return Int(0)
	case TypeBool:
		return Bool(false)
	case TypeVec2:
		return Vec2(0, 0)
	case TypeVec3:
		return Vec3(0, 0, 0)
	case TypeVec4:
		return Vec4(0, 0, 0, 0)
	case TypeString:
		return String("")
	case TypeColor:
		return ColorValue(Color{R: 1, G: 1, B: 1, A: 1})
	case TypeGradient:
		return GradientValue(NewGradient())
	case TypeMatrix4:
		return Matrix4Value(Identity4())
	case TypeFloatList:
		return FloatList(nil)
	case TypeIntList:
		return IntList(nil)
	case TypeBoolList:
		return BoolList(nil)
	case TypeVec2List:
		return Vec2List(nil)
	case TypeVec3List:
		return Vec3List(nil)
	case TypeVec4List:
		return Vec4List(nil)
	case TypeColorList:
		return ColorList(nil)
	case TypeStringList:
		return StringList(nil)
	}
	return Float(0)
}

// In reports whether the type belongs to the category.
func (t Type) In(c Category) bool {
	switch c {
	case CategoryNumeric:
		return t == TypeFloat || t == TypeInt
	case CategoryVector:
		return t == TypeVec2 || t == TypeVec3 || t == TypeVec4
	case CategoryColorLike:
		return t == TypeColor || t == TypeVec3 || t == TypeVec4
	case CategoryList:
		return t >= TypeFloatList && t <= TypeStringList
	case CategoryArithmetic:
		switch t {
		case TypeFloat, TypeInt, TypeVec2, TypeVec3, TypeVec4, TypeColor:
			return true
		}
		return false
	case CategoryAny:
		return true
	}
	return false
}

// IsList reports whether the type is one of the list variants.
func (t Type) IsList() bool {
	return t.In(CategoryList)
}

// Elem returns the element type of a list variant. For non-list types it
// returns the type itself.
func (t Type) Elem() Type {
	switch t {
	case TypeFloatList:
		return TypeFloat
	case TypeIntList:
		return TypeInt
	case TypeBoolList:
		return TypeBool
	case TypeVec2List:
		return TypeVec2
	case TypeVec3List:
		return TypeVec3
	case TypeVec4List:
		return TypeVec4
	case TypeColorList:
		return TypeColor
	case TypeStringList:
		return TypeString
	}
	return t
}

// ListOf returns the list variant whose element type is t, and whether one
// exists.
func ListOf(t Type) (Type, bool) {
	switch t {
	case TypeFloat:
		return TypeFloatList, true
	case TypeInt:
		return TypeIntList, true
	case TypeBool:
		return TypeBoolList, true
	case TypeVec2:
		return TypeVec2List, true
	case TypeVec3:
		return TypeVec3List, true
	case TypeVec4:
		return TypeVec4List, true
	case TypeColor:
		return TypeColorList, true
	case TypeString:
		return TypeStringList, true
	}
	return t, false
}

func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "Float"
	case TypeInt:
		return "Int"
	case TypeBool:
		return "Bool"
	case TypeVec2:
		return "Vec2"
	case TypeVec3:
		return "Vec3"
	case TypeVec4:
		return "Vec4"
	case TypeString:
		return "String"
	case TypeColor:
		return "Color"
	case TypeGradient:
		return "Gradient"
	case TypeMatrix4:
		return "Matrix4"
	case TypeFloatList:
		return "FloatList"
	case TypeIntList:
		return "IntList"
	case TypeBoolList:
		return "BoolList"
	case TypeVec2List:
		return "Vec2List"
	case TypeVec3List:
		return "Vec3List"
	case TypeVec4List:
		return "Vec4List"
	case TypeColorList:
		return "ColorList"
	case TypeStringList:
		return "StringList"
	}
	return "Unknown"
}
