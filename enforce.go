package treecheck

import (
	"fmt"
	"reflect"
	"sort"
)

// EnforceOpt bundles options for EnforceWith.
type EnforceOpt struct {
	// Path is the location of value inside the enclosing tree; errors extend
	// it while descending.
	Path Path
	// Condition optionally names why the type is required, e.g. "because it
	// is a member of Foo".
	Condition string
	// PlainNotSet disables the "<not set>" labeling of the missing-value
	// sentinel in error messages.
	PlainNotSet bool
}

// Enforce recursively checks that value matches the expected descriptor and
// returns a *TypeValidationError on the first mismatch. The check fails fast:
// nothing past the first offending leaf is visited.
func Enforce(value any, expected Type) error {
	return EnforceWith(value, expected, EnforceOpt{})
}

// EnforceAt is Enforce with an explicit starting path.
func EnforceAt(value any, expected Type, path Path) error {
	return EnforceWith(value, expected, EnforceOpt{Path: path})
}

// EnforceWith is the fully-parameterized form of Enforce.
func EnforceWith(value any, expected Type, opt EnforceOpt) error {
	return enforce(value, expected, opt.Path, opt.Condition, !opt.PlainNotSet)
}

// typeName formats the dynamic type of v for error messages.
func typeName(v any, notSetSpecial bool) string {
	if v == nil {
		return "nil"
	}
	if IsNotSet(v) {
		if notSetSpecial {
			return "<not set>"
		}
		return "treecheck.NotSetType"
	}
	return reflect.TypeOf(v).String()
}

func enforce(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	switch expected.kind {
	case KindAny:
		return nil

	case KindTypeVar:
		if expected.bound != nil {
			return enforce(value, *expected.bound, path, condition, notSetSpecial)
		}
		return nil

	case KindUnion:
		for _, arm := range expected.args {
			if enforce(value, arm, path, condition, notSetSpecial) == nil {
				return nil
			}
		}
		return NewTypeError(path, fmt.Sprintf(
			"must be one of types %s not %s", expected, typeName(value, notSetSpecial)), condition)

	case KindNil:
		if IsNilValue(value) {
			return nil
		}
		return NewTypeError(path, fmt.Sprintf(
			"must be nil not %s", typeName(value, notSetSpecial)), condition)

	case KindTypeOf:
		return enforceTypeOf(value, expected, path, condition, notSetSpecial)

	case KindMap, KindMapping:
		return enforceMap(value, expected, path, condition, notSetSpecial)

	case KindTuple:
		return enforceTuple(value, expected, path, condition, notSetSpecial)

	case KindList:
		return enforceList(value, expected, path, condition, notSetSpecial)

	case KindSet:
		return enforceSet(value, expected, path, condition, notSetSpecial)

	case KindCallable:
		if rv := reflect.ValueOf(value); rv.IsValid() && rv.Kind() == reflect.Func {
			// Argument and return shapes are not verified; that would require
			// invoking the callable.
			return nil
		}
		return NewTypeError(path, fmt.Sprintf(
			"must be callable not non-callable %s", typeName(value, notSetSpecial)), condition)

	case KindSequence:
		return enforceSequence(value, expected, path, condition, notSetSpecial)

	case KindIterable:
		return enforceIterable(value, expected, path, condition, notSetSpecial)

	case KindLiteral:
		for _, want := range expected.lits {
			if literalEqual(value, want) {
				return nil
			}
		}
		return NewTypeError(path, fmt.Sprintf(
			"must be one of %s not %#v", expected, value), condition)

	case KindClass:
		if expected.rt == nil {
			// The descriptor cannot be applied; report a mismatch rather
			// than panicking.
			return NewTypeError(path, fmt.Sprintf(
				"must be of type %s not %s", expected, typeName(value, notSetSpecial)), condition)
		}
		if InstanceOf(value, expected.rt) {
			return nil
		}
		return NewTypeError(path, fmt.Sprintf(
			"must be of type %s not %s", expected, typeName(value, notSetSpecial)), condition)
	}

	// Unrecognized descriptor: treated as a mismatch, never a crash.
	return NewTypeError(path, fmt.Sprintf(
		"must be of type %s not %s", expected, typeName(value, notSetSpecial)), condition)
}

func enforceTypeOf(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	var rt reflect.Type
	switch v := value.(type) {
	case reflect.Type:
		rt = v
	case Type:
		if v.kind == KindClass && v.rt != nil {
			rt = v.rt
		}
	}
	if rt == nil {
		return NewTypeError(path, fmt.Sprintf(
			"must be a type not %s", typeName(value, notSetSpecial)), condition)
	}
	if len(expected.args) == 0 {
		return nil
	}
	for _, target := range expected.args {
		tt := target.rt
		if target.kind == KindTypeVar && target.bound != nil {
			tt = target.bound.rt
		}
		if tt == nil {
			continue
		}
		if rt == tt || rt.AssignableTo(tt) || (tt.Kind() == reflect.Interface && rt.Implements(tt)) {
			return nil
		}
	}
	return NewTypeError(path, fmt.Sprintf(
		"must be a subtype of %s not %s", joinTypes(expected.args, " | "), rt), condition)
}

// sortedMapKeys returns the map's keys in a deterministic order (sorted by
// rendered form); Go maps have no iteration order to preserve.
func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return renderKey(keys[i].Interface()) < renderKey(keys[j].Interface())
	})
	return keys
}

func enforceMap(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	kindName := "map"
	if expected.kind == KindMapping {
		kindName = "mapping"
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return NewTypeError(path, fmt.Sprintf(
			"must be a %s not %s", kindName, typeName(value, notSetSpecial)), condition)
	}
	keyT, valT := expected.args[0], expected.args[1]
	keysPath := path.AddAttribute("keys()")
	for i, k := range sortedMapKeys(rv) {
		ki := k.Interface()
		if err := enforce(ki, keyT, keysPath.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
			return err
		}
		if err := enforce(rv.MapIndex(k).Interface(), valT, path.AddIndexOrKey(ki), condition, notSetSpecial); err != nil {
			return err
		}
	}
	return nil
}

// sequenceValues extracts the elements of a slice or array; ok is false for
// any other shape.
func sequenceValues(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

func enforceTuple(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	elems, ok := sequenceValues(value)
	if !ok {
		return NewTypeError(path, fmt.Sprintf(
			"must be a tuple not %s", typeName(value, notSetSpecial)), condition)
	}
	if expected.variadic {
		for i, item := range elems {
			if err := enforce(item, expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
				return err
			}
		}
		return nil
	}
	if len(elems) != len(expected.args) {
		return NewTypeError(path, fmt.Sprintf(
			"must be a tuple of length %d not length %d", len(expected.args), len(elems)), condition)
	}
	for i, item := range elems {
		if err := enforce(item, expected.args[i], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
			return err
		}
	}
	return nil
}

func enforceList(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	elems, ok := sequenceValues(value)
	if !ok {
		return NewTypeError(path, fmt.Sprintf(
			"must be a list not %s", typeName(value, notSetSpecial)), condition)
	}
	for i, item := range elems {
		if err := enforce(item, expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
			return err
		}
	}
	return nil
}

func enforceSet(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || !isSetShaped(rv.Type()) {
		return NewTypeError(path, fmt.Sprintf(
			"must be a set not %s", typeName(value, notSetSpecial)), condition)
	}
	for i, k := range sortedMapKeys(rv) {
		if err := enforce(k.Interface(), expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
			return err
		}
	}
	return nil
}

func enforceSequence(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	if s, ok := value.(string); ok {
		// A string is an ordered sequence of one-character strings.
		for i, r := range []rune(s) {
			if err := enforce(string(r), expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
				return err
			}
		}
		return nil
	}
	elems, ok := sequenceValues(value)
	if !ok {
		return NewTypeError(path, fmt.Sprintf(
			"must be a sequence not %s", typeName(value, notSetSpecial)), condition)
	}
	for i, item := range elems {
		if err := enforce(item, expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
			return err
		}
	}
	return nil
}

func enforceIterable(value any, expected Type, path Path, condition string, notSetSpecial bool) error {
	switch value.(type) {
	case string, []byte:
		// Iterable, but globally treated as opaque leaves: element-wise
		// checking of characters is never what callers mean.
		return nil
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return NewTypeError(path, fmt.Sprintf(
			"must be an iterable not %s", typeName(value, notSetSpecial)), condition)
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := enforce(rv.Index(i).Interface(), expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		// Iterating a mapping yields its keys.
		for i, k := range sortedMapKeys(rv) {
			if err := enforce(k.Interface(), expected.args[0], path.AddIndexOrKey(i), condition, notSetSpecial); err != nil {
				return err
			}
		}
		return nil
	case reflect.Chan:
		// Traversal would consume the channel; the kind check is all we do.
		return nil
	}
	return NewTypeError(path, fmt.Sprintf(
		"must be an iterable not %s", typeName(value, notSetSpecial)), condition)
}

// literalEqual compares identity-or-equality without panicking on
// non-comparable constants.
func literalEqual(a, b any) bool {
	if isComparable(a) && isComparable(b) {
		if a == b {
			return true
		}
	}
	return reflect.DeepEqual(a, b)
}
