package visit_test

import (
	"fmt"
	"reflect"
	"testing"

	treecheck "github.com/mlenders/treecheck"
	"github.com/mlenders/treecheck/record"
	"github.com/mlenders/treecheck/visit"
)

type costume struct {
	Name string `json:"name"`
}

type sprite struct {
	Name     string    `json:"name"`
	Costumes []costume `json:"costumes"`
}

func init() {
	record.Register(record.MustNewFor[costume]("Costume",
		record.NewField("name", treecheck.Of[string]()),
	))
	record.Register(record.MustNewFor[sprite]("Sprite",
		record.NewField("name", treecheck.Of[string]()),
		record.NewField("costumes", treecheck.List(treecheck.Of[costume]())),
	))
}

func renderedPaths(res *visit.Result) []string {
	var out []string
	for _, p := range res.Paths() {
		out = append(out, p.Render())
	}
	return out
}

func TestVisitRecordTree(t *testing.T) {
	root := sprite{Name: "cat", Costumes: []costume{{Name: "a"}, {Name: "b"}}}
	res := visit.IncludeOnly(reflect.TypeOf(costume{})).Visit(root)
	want := []string{".costumes[0]", ".costumes[1]"}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}
	v, ok := res.Get(treecheck.NewPath().AddAttribute("costumes").AddIndexOrKey(1))
	if !ok || v.(costume).Name != "b" {
		t.Fatalf("Get = %#v, %v", v, ok)
	}
}

func TestVisitMatchesNestedLeaves(t *testing.T) {
	root := sprite{Name: "cat", Costumes: []costume{{Name: "a"}}}
	res := visit.IncludeOnly(reflect.TypeOf("")).Visit(root)
	want := []string{".name", ".costumes[0].name"}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}
}

func TestVisitRootIsNeverACandidate(t *testing.T) {
	res := visit.IncludeOnly(reflect.TypeOf(costume{})).Visit(costume{Name: "solo"})
	if res.Len() != 0 {
		t.Fatalf("root must not match itself, got %v", renderedPaths(res))
	}
}

func TestVisitMapOrderIsDeterministic(t *testing.T) {
	root := map[string]any{"b": 2, "a": 1}
	res := visit.IncludeOnly(reflect.TypeOf(0)).Visit(root)
	want := []string{`["a"]`, `["b"]`}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}
}

func TestVisitSetMembersEnumerateLikeLists(t *testing.T) {
	root := map[string]any{"tags": map[string]struct{}{"y": {}, "x": {}}}
	res := visit.IncludeOnly(reflect.TypeOf("")).Visit(root)
	want := []string{`["tags"][0]`, `["tags"][1]`}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}
	nodes := res.Nodes()
	if nodes[0].Value != "x" || nodes[1].Value != "y" {
		t.Fatalf("values = %#v", nodes)
	}
}

func TestVisitInterfaceTarget(t *testing.T) {
	root := []any{fmt.Errorf("boom"), "not an error"}
	res := visit.IncludeOnly(reflect.TypeOf((*error)(nil)).Elem()).Visit(root)
	if res.Len() != 1 {
		t.Fatalf("paths = %v", renderedPaths(res))
	}
}

func TestVisitBytesAreOpaque(t *testing.T) {
	root := []any{[]byte("abc")}
	res := visit.IncludeOnly(reflect.TypeOf(byte(0))).Visit(root)
	if res.Len() != 0 {
		t.Fatalf("byte slices must not be traversed, got %v", renderedPaths(res))
	}
}

type chainLink struct {
	Name string     `json:"name"`
	Next *chainLink `json:"next"`
}

func init() {
	record.Register(record.MustNewFor[chainLink]("ChainLink",
		record.NewField("name", treecheck.Of[string]()),
		record.NewField("next", treecheck.Optional(treecheck.Of[*chainLink]())).WithRequiredToExist(false),
	))
}

func TestVisitSkipsNilRecordFields(t *testing.T) {
	// A nil pointer field arrives as a typed nil, which must be skipped the
	// same as an untyped one.
	res := visit.IncludeOnly(reflect.TypeOf(&chainLink{})).Visit([]any{&chainLink{Name: "tail"}})
	want := []string{"[0]"}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}

	head := &chainLink{Name: "head", Next: &chainLink{Name: "tail"}}
	res = visit.IncludeOnly(reflect.TypeOf(&chainLink{})).Visit([]any{head})
	want = []string{"[0]", "[0].next"}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}
}

type virtualized struct{}

func (virtualized) VisitNodes(p treecheck.Path) []visit.Node {
	return []visit.Node{{Path: p.AddAttribute("virtual"), Value: 42}}
}

func TestVisitTreeNodeHookReplacesTraversal(t *testing.T) {
	root := []any{virtualized{}}
	res := visit.IncludeOnly(reflect.TypeOf(0)).Visit(root)
	want := []string{"[0].virtual"}
	if got := renderedPaths(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v", got)
	}
}

func TestVisitIsIdempotent(t *testing.T) {
	root := sprite{Name: "cat", Costumes: []costume{{Name: "a"}, {Name: "b"}}}
	v := visit.IncludeOnly(reflect.TypeOf(""), reflect.TypeOf(costume{}))
	first := v.Visit(root)
	second := v.Visit(root)
	if !first.Equal(second) {
		t.Fatalf("two visits of the same tree must agree")
	}
}

func TestIncludeAllExcept(t *testing.T) {
	universe := []reflect.Type{reflect.TypeOf(0), reflect.TypeOf(""), reflect.TypeOf(costume{})}
	v := visit.IncludeAllExcept([]reflect.Type{reflect.TypeOf("")}, universe)
	got := v.IncludedTypes()
	want := []reflect.Type{reflect.TypeOf(0), reflect.TypeOf(costume{})}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("IncludedTypes = %v", got)
	}
}

func TestResultDedupesByPath(t *testing.T) {
	root := []any{virtualized{}, virtualized{}}
	res := visit.IncludeOnly(reflect.TypeOf(0)).Visit(root)
	// Each hook emits under its own element path, so both survive.
	if res.Len() != 2 {
		t.Fatalf("paths = %v", renderedPaths(res))
	}
}
