// Package ctyconv bridges cty values from the configuration layer into
// engine values and back.
package ctyconv

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/flux/internal/value"
)

// ToValue converts a cty value into an engine value. Whole numbers in the
// int32 range become Int; other numbers become Float. Homogeneous
// collections map onto the matching list variant.
func ToValue(v cty.Value) (value.Value, error) {
	if v.IsNull() {
		return value.Value{}, fmt.Errorf("cannot convert a null value")
	}

	ty := v.Type()
	switch {
	case ty == cty.Number:
		return numberToValue(v), nil
	case ty == cty.String:
		return value.String(v.AsString()), nil
	case ty == cty.Bool:
		return value.Bool(v.True()), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		return collectionToValue(v)
	}
	return value.Value{}, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
}

func numberToValue(v cty.Value) value.Value {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == 0 && i >= -2147483648 && i <= 2147483647 {
			return value.Int(int32(i))
		}
	}
	f, _ := bf.Float32()
	return value.Float(f)
}

func collectionToValue(v cty.Value) (value.Value, error) {
	if v.LengthInt() == 0 {
		return value.FloatList(nil), nil
	}

	var floats []float32
	var strings []string
	var bools []bool
	elemType := cty.NilType

	it := v.ElementIterator()
	for it.Next() {
		_, ev := it.Element()
		if ev.IsNull() {
			return value.Value{}, fmt.Errorf("collection contains a null element")
		}
		if elemType == cty.NilType {
			elemType = ev.Type()
		}
		conv, err := convert.Convert(ev, elemType)
		if err != nil {
			return value.Value{}, fmt.Errorf("mixed element types in collection: %w", err)
		}
		switch elemType {
		case cty.Number:
			f, _ := conv.AsBigFloat().Float32()
			floats = append(floats, f)
		case cty.String:
			strings = append(strings, conv.AsString())
		case cty.Bool:
			bools = append(bools, conv.True())
		default:
			return value.Value{}, fmt.Errorf("unsupported element type %s", elemType.FriendlyName())
		}
	}

	switch elemType {
	case cty.Number:
		return value.FloatList(floats), nil
	case cty.String:
		return value.StringList(strings), nil
	case cty.Bool:
		return value.BoolList(bools), nil
	}
	return value.Value{}, fmt.Errorf("unsupported collection type")
}

// FromValue converts an engine value into a cty value, for logging and
// diagnostics. Not every variant has a cty shape; unsupported ones report
// an error.
func FromValue(v value.Value) (cty.Value, error) {
	switch v.Type() {
	case value.TypeFloat:
		f, _ := v.AsFloat()
		return cty.NumberFloatVal(float64(f)), nil
	case value.TypeInt:
		i, _ := v.AsInt()
		return cty.NumberIntVal(int64(i)), nil
	case value.TypeBool:
		b, _ := v.AsBool()
		return cty.BoolVal(b), nil
	case value.TypeString:
		s, _ := v.AsString()
		return cty.StringVal(s), nil
	case value.TypeVec2:
		a, _ := v.AsVec2()
		return floatTuple(a[:]), nil
	case value.TypeVec3:
		a, _ := v.AsVec3()
		return floatTuple(a[:]), nil
	case value.TypeVec4:
		a, _ := v.AsVec4()
		return floatTuple(a[:]), nil
	case value.TypeFloatList:
		fs, _ := v.Floats()
		return floatTuple(fs), nil
	case value.TypeIntList:
		is, _ := v.Ints()
		elems := make([]cty.Value, len(is))
		for i, n := range is {
			elems[i] = cty.NumberIntVal(int64(n))
		}
		if len(elems) == 0 {
			return cty.ListValEmpty(cty.Number), nil
		}
		return cty.ListVal(elems), nil
	case value.TypeStringList:
		ss, _ := v.Strings()
		elems := make([]cty.Value, len(ss))
		for i, s := range ss {
			elems[i] = cty.StringVal(s)
		}
		if len(elems) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		return cty.ListVal(elems), nil
	}
	return cty.NilVal, fmt.Errorf("no cty shape for %s", v.Type())
}

func floatTuple(fs []float32) cty.Value {
	if len(fs) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	elems := make([]cty.Value, len(fs))
	for i, f := range fs {
		elems[i] = cty.NumberFloatVal(float64(f))
	}
	return cty.ListVal(elems)
}
