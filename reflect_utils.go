package treecheck

import (
	"reflect"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's external name used by record schemas and tree navigation.
// Priority: treecheck:"name=..." > json tag name > field name; "-" disables
// the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("treecheck"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// InstanceOf reports whether v is an instance of rt: the dynamic type is rt
// itself, is assignable to it, or implements it when rt is an interface.
// Interface satisfaction is what stands in for subclass transitivity.
func InstanceOf(v any, rt reflect.Type) bool {
	if rt == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if vt == nil {
		// Untyped nil only satisfies interface targets.
		return rt.Kind() == reflect.Interface
	}
	if vt == rt {
		return true
	}
	if rt.Kind() == reflect.Interface {
		return vt.Implements(rt)
	}
	return vt.AssignableTo(rt)
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// IsNilValue reports whether v is nil or a nil-valued pointer, map, slice,
// func, chan or interface. A typed nil inside an interface compares unequal
// to untyped nil; this looks through that.
func IsNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

var emptyStructType = reflect.TypeOf(struct{}{})

// isSetShaped reports whether t is a map with empty-struct values, the
// conventional Go encoding of a set.
func isSetShaped(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Map && t.Elem() == emptyStructType
}
