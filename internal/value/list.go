package value

// listData is the shared backing store for list variants. A Value copy
// shares the same listData; mutating helpers replace it with a fresh copy
// (copy-on-write), so structural copies only happen when a list is edited.
type listData struct {
	floats  []float32
	ints    []int32
	bools   []bool
	vec2s   [][2]float32
	vec3s   [][3]float32
	vec4s   [][4]float32
	colors  []Color
	strings []string
}

// FloatList constructs a FloatList value. The slice is owned by the value
// afterwards and must not be mutated by the caller.
func FloatList(elems []float32) Value {
	return Value{t: TypeFloatList, list: &listData{floats: elems}}
}

// IntList constructs an IntList value.
func IntList(elems []int32) Value {
	return Value{t: TypeIntList, list: &listData{ints: elems}}
}

// BoolList constructs a BoolList value.
func BoolList(elems []bool) Value {
	return Value{t: TypeBoolList, list: &listData{bools: elems}}
}

// Vec2List constructs a Vec2List value.
func Vec2List(elems [][2]float32) Value {
	return Value{t: TypeVec2List, list: &listData{vec2s: elems}}
}

// Vec3List constructs a Vec3List value.
func Vec3List(elems [][3]float32) Value {
	return Value{t: TypeVec3List, list: &listData{vec3s: elems}}
}

// Vec4List constructs a Vec4List value.
func Vec4List(elems [][4]float32) Value {
	return Value{t: TypeVec4List, list: &listData{vec4s: elems}}
}

// ColorList constructs a ColorList value.
func ColorList(elems []Color) Value {
	return Value{t: TypeColorList, list: &listData{colors: elems}}
}

// StringList constructs a StringList value.
func StringList(elems []string) Value {
	return Value{t: TypeStringList, list: &listData{strings: elems}}
}

// Floats returns the backing slice of a FloatList. Callers must treat it as
// read-only; edits go through ListAppend/ListSet.
func (v Value) Floats() ([]float32, bool) {
	if v.t == TypeFloatList && v.list != nil {
		return v.list.floats, true
	}
	return nil, false
}

// Ints returns the backing slice of an IntList.
func (v Value) Ints() ([]int32, bool) {
	if v.t == TypeIntList && v.list != nil {
		return v.list.ints, true
	}
	return nil, false
}

// Bools returns the backing slice of a BoolList.
func (v Value) Bools() ([]bool, bool) {
	if v.t == TypeBoolList && v.list != nil {
		return v.list.bools, true
	}
	return nil, false
}

// Vec2s returns the backing slice of a Vec2List.
func (v Value) Vec2s() ([][2]float32, bool) {
	if v.t == TypeVec2List && v.list != nil {
		return v.list.vec2s, true
	}
	return nil, false
}

// Vec3s returns the backing slice of a Vec3List.
func (v Value) Vec3s() ([][3]float32, bool) {
	if v.t == TypeVec3List && v.list != nil {
		return v.list.vec3s, true
	}
	return nil, false
}

// Vec4s returns the backing slice of a Vec4List.
func (v Value) Vec4s() ([][4]float32, bool) {
	if v.t == TypeVec4List && v.list != nil {
		return v.list.vec4s, true
	}
	return nil, false
}

// Colors returns the backing slice of a ColorList.
func (v Value) Colors() ([]Color, bool) {
	if v.t == TypeColorList && v.list != nil {
		return v.list.colors, true
	}
	return nil, false
}

// Strings returns the backing slice of a StringList.
func (v Value) Strings() ([]string, bool) {
	if v.t == TypeStringList && v.list != nil {
		return v.list.strings, true
	}
	return nil, false
}

// Len returns the element count of a list value, or 0 for non-lists.
func (v Value) Len() int {
	if v.list == nil {
		return 0
	}
	switch v.t {
	case TypeFloatList:
		return len(v.list.floats)
	case TypeIntList:
		return len(v.list.ints)
	case TypeBoolList:
		return len(v.list.bools)
	case TypeVec2List:
		return len(v.list.vec2s)
	case TypeVec3List:
		return len(v.list.vec3s)
	case TypeVec4List:
		return len(v.list.vec4s)
	case TypeColorList:
		return len(v.list.colors)
	case TypeStringList:
		return len(v.list.strings)
	}
	return 0
}

// ListGet returns element i of a list value. Index -1 addresses the last
// element; out-of-range indices return the element type's default. Non-list
// values return Float(0).
func (v Value) ListGet(i int) Value {
	if !v.t.IsList() {
		return TypeFloat.Default()
	}
	n := v.Len()
	if i == -1 {
		i = n - 1
	}
	if i < 0 || i >= n {
		return v.t.Elem().Default()
	}
	switch v.t {
	case TypeFloatList:
		return Float(v.list.floats[i])
	case TypeIntList:
		return Int(v.list.ints[i])
	case TypeBoolList:
		return Bool(v.list.bools[i])
	case TypeVec2List:
		e := v.list.vec2s[i]
		return Vec2(e[0], e[1])
	case TypeVec3List:
		e := v.list.vec3s[i]
		return Vec3(e[0], e[1], e[2])
	case TypeVec4List:
		e := v.list.vec4s[i]
		return Vec4(e[0], e[1], e[2], e[3])
	case TypeColorList:
		return ColorValue(v.list.colors[i])
	case TypeStringList:
		return String(v.list.strings[i])
	}
	return v.t.Elem().Default()
}

// ListAppend returns a new list with elem appended. The element is coerced
// to the list's element type; the original value is left untouched
// (copy-on-write). Non-list receivers return themselves unchanged.
func (v Value) ListAppend(elem Value) Value {
	if !v.t.IsList() {
		return v
	}
	out := v.cloneList()
	out.setElem(out.Len(), elem, true)
	return out
}

// ListSet returns a new list with element i replaced. Index -1 addresses the
// last element. Out-of-range indices return the list unchanged.
func (v Value) ListSet(i int, elem Value) Value {
	if !v.t.IsList() {
		return v
	}
	n := v.Len()
	if i == -1 {
		i = n - 1
	}
	if i < 0 || i >= n {
		return v
	}
	out := v.cloneList()
	out.setElem(i, elem, false)
	return out
}

// cloneList deep-copies the backing storage of a list value.
func (v Value) cloneList() Value {
	out := v
	d := &listData{}
	if v.list != nil {
		switch v.t {
		case TypeFloatList:
			d.floats = append([]float32(nil), v.list.floats...)
		case TypeIntList:
			d.ints = append([]int32(nil), v.list.ints...)
		case TypeBoolList:
			d.bools = append([]bool(nil), v.list.bools...)
		case TypeVec2List:
			d.vec2s = append([][2]float32(nil), v.list.vec2s...)
		case TypeVec3List:
			d.vec3s = append([][3]float32(nil), v.list.vec3s...)
		case TypeVec4List:
			d.vec4s = append([][4]float32(nil), v.list.vec4s...)
		case TypeColorList:
			d.colors = append([]Color(nil), v.list.colors...)
		case TypeStringList:
			d.strings = append([]string(nil), v.list.strings...)
		}
	}
	out.list = d
	return out
}

// setElem writes an element at i (appending when grow is true), coercing to
// the element type. Only call on values returned by cloneList.
func (v Value) setElem(i int, elem Value, grow bool) {
	e := elem.Coerce(v.t.Elem())
	d := v.list
	switch v.t {
	case TypeFloatList:
		f, _ := e.AsFloat()
		if grow {
			d.floats = append(d.floats, f)
		} else {
			d.floats[i] = f
		}
	case TypeIntList:
		n, _ := e.AsInt()
		if grow {
			d.ints = append(d.ints, n)
		} else {
			d.ints[i] = n
		}
	case TypeBoolList:
		b, _ := e.AsBool()
		if grow {
			d.bools = append(d.bools, b)
		} else {
			d.bools[i] = b
		}
	case TypeVec2List:
		x, _ := e.AsVec2()
		if grow {
			d.vec2s = append(d.vec2s, x)
		} else {
			d.vec2s[i] = x
		}
	case TypeVec3List:
		x, _ := e.AsVec3()
		if grow {
			d.vec3s = append(d.vec3s, x)
		} else {
			d.vec3s[i] = x
		}
	case TypeVec4List:
		x, _ := e.AsVec4()
		if grow {
			d.vec4s = append(d.vec4s, x)
		} else {
			d.vec4s[i] = x
		}
	case TypeColorList:
		c, _ := e.AsColor()
		if grow {
			d.colors = append(d.colors, c)
		} else {
			d.colors[i] = c
		}
	case TypeStringList:
		s, _ := e.AsString()
		if grow {
			d.strings = append(d.strings, s)
		} else {
			d.strings[i] = s
		}
	}
}

// SharesStorage reports whether two list values share backing storage. It
// exists so tests can verify copy-on-write behavior.
func (v Value) SharesStorage(o Value) bool {
	return v.list != nil && v.list == o.list
}

func (v Value) listEqual(o Value) bool {
	n := v.Len()
	if n != o.Len() {
		return false
	}
	if v.list == o.list {
		return true
	}
	for i := 0; i < n; i++ {
		if !v.ListGet(i).Equal(o.ListGet(i)) {
			return false
		}
	}
	return true
}
