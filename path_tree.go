package treecheck

import (
	"fmt"
	"reflect"
)

// The Tree* interfaces form the capability set of a navigable document node.
// Maps, slices, arrays and structs are handled built-in; any other type can
// opt into navigation by implementing the relevant capability.

// TreeAttrGetter resolves a named attribute of a node.
type TreeAttrGetter interface {
	TreeGetAttribute(name string) (any, bool)
}

// TreeKeyGetter resolves an index or key of a node.
type TreeKeyGetter interface {
	TreeGetIndexOrKey(key any) (any, bool)
}

// TreeAttrSetter stores a value under a named attribute of a node.
type TreeAttrSetter interface {
	TreeSetAttribute(name string, value any) error
}

// TreeKeySetter stores a value under an index or key of a node.
type TreeKeySetter interface {
	TreeSetIndexOrKey(key any, value any) error
}

func pathAccessError(partial Path, msg string, cause error) *PathError {
	return &PathError{Path: partial, Code: CodePathAccess, Message: msg, Cause: cause}
}

// GetInTree dynamically walks root following each segment: attribute segments
// use named-field access, index/key segments use keyed lookup. An attribute
// segment literally named "keys()" against a mapping node switches traversal
// to the ordered list of the mapping's keys, so paths can index into that key
// list. Failures carry the partial path consumed so far.
func (p Path) GetInTree(root any) (any, error) {
	cur := root
	for i, seg := range p.segs {
		switch seg.kind {
		case segAttribute:
			if seg.name == "keys()" {
				if rv := reflect.ValueOf(cur); rv.IsValid() && rv.Kind() == reflect.Map {
					keys := sortedMapKeys(rv)
					list := make([]any, len(keys))
					for j, k := range keys {
						list[j] = k.Interface()
					}
					cur = list
					continue
				}
			}
			v, err := getAttribute(cur, seg.name)
			if err != nil {
				partial := p.Slice(0, i)
				return nil, pathAccessError(partial, fmt.Sprintf(
					"failed to get attribute %q of object at path %s: %v", seg.name, partial.Render(), err), err)
			}
			cur = v
		case segIndexOrKey:
			v, err := getIndexOrKey(cur, seg.key)
			if err != nil {
				partial := p.Slice(0, i)
				return nil, pathAccessError(partial, fmt.Sprintf(
					"failed to get index or key %s of object at path %s: %v", renderKey(seg.key), partial.Render(), err), err)
			}
			cur = v
		}
	}
	return cur, nil
}

// GetInTreeDefault is GetInTree with a fallback value returned on any
// navigation failure.
func (p Path) GetInTreeDefault(root, def any) any {
	v, err := p.GetInTree(root)
	if err != nil {
		return def
	}
	return v
}

// ExistsInTree reports whether the path is accessible in root.
func (p Path) ExistsInTree(root any) bool {
	_, err := p.GetInTree(root)
	return err == nil
}

// SetInTree navigates to the parent of the final segment, then stores value
// at that segment. The parent must be a map, slice, pointer to struct, or a
// node implementing the setter capabilities.
func (p Path) SetInTree(root, value any) error {
	if len(p.segs) == 0 {
		return pathAccessError(p, "cannot set the tree root itself", nil)
	}
	parent, err := p.GoUp(1).GetInTree(root)
	if err != nil {
		return err
	}
	last := p.segs[len(p.segs)-1]
	switch last.kind {
	case segAttribute:
		if err := setAttribute(parent, last.name, value); err != nil {
			return pathAccessError(p, fmt.Sprintf(
				"failed to set attribute %q of object at path %s: %v", last.name, p.Render(), err), err)
		}
	case segIndexOrKey:
		if err := setIndexOrKey(parent, last.key, value); err != nil {
			return pathAccessError(p, fmt.Sprintf(
				"failed to set index or key %s of object at path %s: %v", renderKey(last.key), p.Render(), err), err)
		}
	}
	return nil
}

func getAttribute(node any, name string) (any, error) {
	if g, ok := node.(TreeAttrGetter); ok {
		if v, found := g.TreeGetAttribute(name); found {
			return v, nil
		}
		return nil, fmt.Errorf("node has no attribute %q", name)
	}
	rv := reflect.ValueOf(node)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.IsValid() && rv.Kind() == reflect.Map {
		// Attribute syntax doubles as string-key lookup on mappings, so
		// parsed paths like ".user.name" work against decoded JSON.
		return getIndexOrKey(rv.Interface(), name)
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s has no attributes", typeName(node, true))
	}
	fv, ok := structFieldByKey(rv, name)
	if !ok {
		return nil, fmt.Errorf("%s has no attribute %q", rv.Type(), name)
	}
	return fv.Interface(), nil
}

// structFieldByKey finds the exported field whose resolved external name
// matches key.
func structFieldByKey(rv reflect.Value, key string) (reflect.Value, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		if name == key {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func getIndexOrKey(node any, key any) (any, error) {
	if g, ok := node.(TreeKeyGetter); ok {
		if v, found := g.TreeGetIndexOrKey(key); found {
			return v, nil
		}
		return nil, fmt.Errorf("key %s not found", renderKey(key))
	}
	rv := reflect.ValueOf(node)
	if !rv.IsValid() {
		return nil, fmt.Errorf("cannot index into nil")
	}
	switch rv.Kind() {
	case reflect.Map:
		kv, err := convertKey(key, rv.Type().Key())
		if err != nil {
			return nil, err
		}
		out := rv.MapIndex(kv)
		if !out.IsValid() {
			return nil, fmt.Errorf("key %s not found", renderKey(key))
		}
		return out.Interface(), nil
	case reflect.Slice, reflect.Array:
		i, ok := asInt(key)
		if !ok {
			return nil, fmt.Errorf("index %s is not an integer", renderKey(key))
		}
		if i < 0 || i >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range [0, %d)", i, rv.Len())
		}
		return rv.Index(i).Interface(), nil
	case reflect.String:
		i, ok := asInt(key)
		if !ok {
			return nil, fmt.Errorf("index %s is not an integer", renderKey(key))
		}
		s := rv.String()
		if i < 0 || i >= len(s) {
			return nil, fmt.Errorf("index %d out of range [0, %d)", i, len(s))
		}
		return string(s[i]), nil
	}
	return nil, fmt.Errorf("%s does not support index or key access", typeName(node, true))
}

func setAttribute(node any, name string, value any) error {
	if s, ok := node.(TreeAttrSetter); ok {
		return s.TreeSetAttribute(name, value)
	}
	rv := reflect.ValueOf(node)
	if rv.IsValid() && rv.Kind() == reflect.Map {
		return setIndexOrKey(node, name, value)
	}
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%s is not settable; need a pointer to struct or a TreeAttrSetter", typeName(node, true))
	}
	fv, ok := structFieldByKey(rv.Elem(), name)
	if !ok {
		return fmt.Errorf("%s has no attribute %q", rv.Elem().Type(), name)
	}
	if !fv.CanSet() {
		return fmt.Errorf("attribute %q is not settable", name)
	}
	av, err := convertAssignable(value, fv.Type())
	if err != nil {
		return err
	}
	fv.Set(av)
	return nil
}

func setIndexOrKey(node any, key any, value any) error {
	if s, ok := node.(TreeKeySetter); ok {
		return s.TreeSetIndexOrKey(key, value)
	}
	rv := reflect.ValueOf(node)
	if !rv.IsValid() {
		return fmt.Errorf("cannot index into nil")
	}
	switch rv.Kind() {
	case reflect.Map:
		kv, err := convertKey(key, rv.Type().Key())
		if err != nil {
			return err
		}
		vv, err := convertAssignable(value, rv.Type().Elem())
		if err != nil {
			return err
		}
		rv.SetMapIndex(kv, vv)
		return nil
	case reflect.Slice:
		i, ok := asInt(key)
		if !ok {
			return fmt.Errorf("index %s is not an integer", renderKey(key))
		}
		if i < 0 || i >= rv.Len() {
			return fmt.Errorf("index %d out of range [0, %d)", i, rv.Len())
		}
		vv, err := convertAssignable(value, rv.Type().Elem())
		if err != nil {
			return err
		}
		rv.Index(i).Set(vv)
		return nil
	}
	return fmt.Errorf("%s does not support index or key assignment", typeName(node, true))
}

func asInt(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int8:
		return int(k), true
	case int16:
		return int(k), true
	case int32:
		return int(k), true
	case int64:
		return int(k), true
	case uint:
		return int(k), true
	case uint8:
		return int(k), true
	case uint16:
		return int(k), true
	case uint32:
		return int(k), true
	case uint64:
		return int(k), true
	}
	return 0, false
}

func convertKey(key any, want reflect.Type) (reflect.Value, error) {
	kv := reflect.ValueOf(key)
	if !kv.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil is not a valid key")
	}
	if kv.Type().AssignableTo(want) {
		return kv, nil
	}
	if kv.Type().ConvertibleTo(want) {
		return kv.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("key %s is not usable as %s", renderKey(key), want)
}

func convertAssignable(value any, want reflect.Type) (reflect.Value, error) {
	vv := reflect.ValueOf(value)
	if !vv.IsValid() {
		// Assigning nil: only valid for nilable destinations.
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", want)
	}
	if vv.Type().AssignableTo(want) {
		return vv, nil
	}
	if vv.Type().ConvertibleTo(want) {
		return vv.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", vv.Type(), want)
}
