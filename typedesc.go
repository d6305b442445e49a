package treecheck

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeKind tags the variants of a Type descriptor.
type TypeKind uint8

const (
	// KindInvalid is the zero descriptor; Enforce reports it as a mismatch
	// rather than panicking.
	KindInvalid TypeKind = iota
	KindAny
	KindNil
	KindTypeVar
	KindUnion
	KindTypeOf
	KindMap
	KindTuple
	KindList
	KindSet
	KindCallable
	KindMapping
	KindSequence
	KindIterable
	KindLiteral
	KindClass
)

// Type is an explicit, immutable type descriptor: a tagged variant the
// checker pattern-matches on instead of relying on language reflection over
// generic parameters. Build descriptors with the constructor functions; the
// zero value is invalid.
type Type struct {
	kind     TypeKind
	args     []Type       // element / arm / target types
	rt       reflect.Type // Class target
	lits     []any        // Literal constants
	name     string       // TypeVar name
	bound    *Type        // TypeVar bound, nil when unbound
	variadic bool         // Tuple repeat marker (tuple[T, ...])
}

// Kind returns the variant tag of the descriptor.
func (t Type) Kind() TypeKind { return t.kind }

// Args returns a copy of the descriptor's type arguments.
func (t Type) Args() []Type { return append([]Type(nil), t.args...) }

// GoType returns the reflect.Type of a Class descriptor, nil otherwise.
func (t Type) GoType() reflect.Type { return t.rt }

// Any matches every value.
func Any() Type { return Type{kind: KindAny} }

// Nil matches nil and nil-valued pointers, maps, slices, funcs and chans.
func Nil() Type { return Type{kind: KindNil} }

// Class matches values whose dynamic type is rt, is assignable to it, or
// implements it when rt is an interface.
func Class(rt reflect.Type) Type { return Type{kind: KindClass, rt: rt} }

// Of is shorthand for Class over the Go type parameter.
func Of[T any]() Type { return Class(reflect.TypeOf((*T)(nil)).Elem()) }

// List matches slices and arrays, checking each element against elem.
func List(elem Type) Type { return Type{kind: KindList, args: []Type{elem}} }

// Set matches set-shaped maps (empty-struct values), checking each member
// against elem.
func Set(elem Type) Type { return Type{kind: KindSet, args: []Type{elem}} }

// Map matches map values, checking keys against key and values against val.
func Map(key, val Type) Type { return Type{kind: KindMap, args: []Type{key, val}} }

// Tuple matches fixed-arity sequences; each position is checked against its
// own declared type and a length mismatch is its own failure.
func Tuple(elems ...Type) Type { return Type{kind: KindTuple, args: append([]Type(nil), elems...)} }

// TupleOf is the repeat form tuple[T, ...]: any arity, every element checked
// against elem.
func TupleOf(elem Type) Type { return Type{kind: KindTuple, args: []Type{elem}, variadic: true} }

// Union matches a value accepted by any arm, tried left to right.
func Union(arms ...Type) Type { return Type{kind: KindUnion, args: append([]Type(nil), arms...)} }

// Optional is shorthand for Union(t, Nil()).
func Optional(t Type) Type { return Union(t, Nil()) }

// Callable matches any invocable value; signatures are not verified.
func Callable() Type { return Type{kind: KindCallable} }

// MappingOf is the protocol form of Map: any mapping-shaped value.
func MappingOf(key, val Type) Type { return Type{kind: KindMapping, args: []Type{key, val}} }

// SequenceOf matches ordered sequences (slices, arrays, strings), checking
// elements against elem.
func SequenceOf(elem Type) Type { return Type{kind: KindSequence, args: []Type{elem}} }

// IterableOf matches anything traversable. Strings and byte slices pass the
// kind check but are treated as opaque leaves, never element-checked.
func IterableOf(elem Type) Type { return Type{kind: KindIterable, args: []Type{elem}} }

// Literal matches a value equal to one of the listed constants.
func Literal(values ...any) Type { return Type{kind: KindLiteral, lits: append([]any(nil), values...)} }

// TypeOf matches a value that is itself a type (a reflect.Type or a Class
// descriptor), optionally constrained to be a subtype of one of the targets.
func TypeOf(targets ...Type) Type { return Type{kind: KindTypeOf, args: append([]Type(nil), targets...)} }

// TypeVar is an unbound type variable; it accepts anything.
func TypeVar(name string) Type { return Type{kind: KindTypeVar, name: name} }

// TypeVarBound is a type variable with a bound; values are checked against
// the bound.
func TypeVarBound(name string, bound Type) Type {
	return Type{kind: KindTypeVar, name: name, bound: &bound}
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// String renders the descriptor for error messages, e.g. "[]int",
// "map[string]int" or "int | nil".
func (t Type) String() string {
	switch t.kind {
	case KindAny:
		return "any"
	case KindNil:
		return "nil"
	case KindTypeVar:
		if t.bound != nil {
			return t.name + " (bound " + t.bound.String() + ")"
		}
		return t.name
	case KindUnion:
		return joinTypes(t.args, " | ")
	case KindTypeOf:
		if len(t.args) == 0 {
			return "type"
		}
		return "type[" + joinTypes(t.args, " | ") + "]"
	case KindMap:
		return "map[" + t.args[0].String() + "]" + t.args[1].String()
	case KindTuple:
		if t.variadic {
			return "tuple[" + t.args[0].String() + ", ...]"
		}
		return "tuple[" + joinTypes(t.args, ", ") + "]"
	case KindList:
		return "[]" + t.args[0].String()
	case KindSet:
		return "set[" + t.args[0].String() + "]"
	case KindCallable:
		return "callable"
	case KindMapping:
		return "mapping[" + t.args[0].String() + "]" + t.args[1].String()
	case KindSequence:
		return "sequence[" + t.args[0].String() + "]"
	case KindIterable:
		return "iterable[" + t.args[0].String() + "]"
	case KindLiteral:
		parts := make([]string, len(t.lits))
		for i, v := range t.lits {
			parts[i] = fmt.Sprintf("%#v", v)
		}
		return "literal[" + strings.Join(parts, ", ") + "]"
	case KindClass:
		if t.rt == nil {
			return "<nil class>"
		}
		return t.rt.String()
	}
	return "<invalid>"
}
