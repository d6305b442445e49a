package treecheck_test

import (
	"testing"

	treecheck "github.com/mlenders/treecheck"
)

func TestTypeString(t *testing.T) {
	cases := []struct {
		typ  treecheck.Type
		want string
	}{
		{treecheck.Any(), "any"},
		{treecheck.Nil(), "nil"},
		{treecheck.Of[int](), "int"},
		{treecheck.Of[string](), "string"},
		{treecheck.List(treecheck.Of[int]()), "[]int"},
		{treecheck.Set(treecheck.Of[string]()), "set[string]"},
		{treecheck.Map(treecheck.Of[string](), treecheck.Of[int]()), "map[string]int"},
		{treecheck.MappingOf(treecheck.Of[string](), treecheck.Of[int]()), "mapping[string]int"},
		{treecheck.Tuple(treecheck.Of[int](), treecheck.Of[string]()), "tuple[int, string]"},
		{treecheck.TupleOf(treecheck.Of[int]()), "tuple[int, ...]"},
		{treecheck.Union(treecheck.Of[int](), treecheck.Nil()), "int | nil"},
		{treecheck.Optional(treecheck.Of[string]()), "string | nil"},
		{treecheck.Callable(), "callable"},
		{treecheck.SequenceOf(treecheck.Of[string]()), "sequence[string]"},
		{treecheck.IterableOf(treecheck.Of[int]()), "iterable[int]"},
		{treecheck.Literal("a", 1), `literal["a", 1]`},
		{treecheck.TypeOf(), "type"},
		{treecheck.TypeOf(treecheck.Of[int]()), "type[int]"},
		{treecheck.TypeVar("T"), "T"},
		{treecheck.TypeVarBound("N", treecheck.Of[int]()), "N (bound int)"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Fatalf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestTypeAccessors(t *testing.T) {
	l := treecheck.List(treecheck.Of[int]())
	if l.Kind() != treecheck.KindList {
		t.Fatalf("Kind = %v", l.Kind())
	}
	args := l.Args()
	if len(args) != 1 || args[0].Kind() != treecheck.KindClass {
		t.Fatalf("Args = %v", args)
	}
	if treecheck.Of[int]().GoType().Kind().String() != "int" {
		t.Fatalf("GoType = %v", treecheck.Of[int]().GoType())
	}
}

func TestOptionalIsUnion(t *testing.T) {
	o := treecheck.Optional(treecheck.Of[int]())
	if o.Kind() != treecheck.KindUnion {
		t.Fatalf("Kind = %v", o.Kind())
	}
	if len(o.Args()) != 2 {
		t.Fatalf("Args = %v", o.Args())
	}
}
