// Package visit enumerates all values of selected types inside an arbitrary
// nested object tree, together with the Path leading to each. Collections and
// registered record types are traversed; everything else is a leaf.
package visit

import (
	"reflect"
	"sort"

	treecheck "github.com/mlenders/treecheck"
	"github.com/mlenders/treecheck/record"
)

// Node is one visited value and its location.
type Node struct {
	Path  treecheck.Path
	Value any
}

// TreeNode lets a type take over its own traversal entirely: the returned
// nodes replace the default behavior for that subtree.
type TreeNode interface {
	VisitNodes(path treecheck.Path) []Node
}

// Visitor recursively walks object trees, collecting values whose dynamic
// type matches one of the included types (interface targets match
// implementations transitively). Inclusion never stops recursion: children of
// an included node are still visited.
type Visitor struct {
	included []reflect.Type
}

// IncludeOnly builds a visitor that includes exactly the given types.
func IncludeOnly(types ...reflect.Type) Visitor {
	return Visitor{included: append([]reflect.Type(nil), types...)}
}

// IncludeAllExcept builds a visitor including every type of universe that is
// not in excluded; the set difference is taken once, at construction.
func IncludeAllExcept(excluded, universe []reflect.Type) Visitor {
	out := make([]reflect.Type, 0, len(universe))
	for _, t := range universe {
		skip := false
		for _, ex := range excluded {
			if t == ex {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, t)
		}
	}
	return Visitor{included: out}
}

// IncludedTypes returns a copy of the visitor's type filter.
func (v Visitor) IncludedTypes() []reflect.Type {
	return append([]reflect.Type(nil), v.included...)
}

// Visit walks root and returns the matching nodes. The root itself is never a
// candidate; only descendants are.
func (v Visitor) Visit(root any) *Result {
	var pairs []Node
	collect(root, treecheck.NewPath(), &pairs)
	res := newResult()
	for _, n := range pairs {
		if v.matches(n.Value) {
			res.add(n)
		}
	}
	return res
}

func (v Visitor) matches(value any) bool {
	for _, t := range v.included {
		if treecheck.InstanceOf(value, t) {
			return true
		}
	}
	return false
}

// collect gathers every (path, value) pair below obj, unfiltered. Collection
// elements sit at index segments, map values at key segments, record fields
// at attribute segments; map keys are not nodes of their own.
func collect(obj any, path treecheck.Path, out *[]Node) {
	if hook, ok := obj.(TreeNode); ok {
		*out = append(*out, hook.VisitNodes(path)...)
		return
	}
	if schema, ok := record.Lookup(obj); ok {
		for _, f := range schema.Fields() {
			value, present := schema.FieldValue(obj, f.Name)
			// Nil-valued fields are skipped entirely: not emitted, not
			// recursed. Struct fields surface typed nils, so the check must
			// look through the interface.
			if !present || treecheck.IsNilValue(value) {
				continue
			}
			cur := path.AddAttribute(f.Name)
			*out = append(*out, Node{Path: cur, Value: value})
			collect(value, cur, out)
		}
		return
	}

	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, opaque := obj.([]byte); opaque {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			cur := path.AddIndexOrKey(i)
			*out = append(*out, Node{Path: cur, Value: item})
			collect(item, cur, out)
		}
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keyOrder(keys[i].Interface()) < keyOrder(keys[j].Interface())
		})
		if isSetShaped(rv.Type()) {
			// Set members are enumerated like list elements.
			for i, k := range keys {
				item := k.Interface()
				cur := path.AddIndexOrKey(i)
				*out = append(*out, Node{Path: cur, Value: item})
				collect(item, cur, out)
			}
			return
		}
		for _, k := range keys {
			key := k.Interface()
			value := rv.MapIndex(k).Interface()
			cur := path.AddIndexOrKey(key)
			*out = append(*out, Node{Path: cur, Value: value})
			collect(value, cur, out)
		}
	}
	// Anything else is a leaf: considered by the caller, never opened up.
}

func keyOrder(key any) string { return treecheck.NewPath().AddIndexOrKey(key).Key() }

var emptyStruct = reflect.TypeOf(struct{}{})

func isSetShaped(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStruct
}

// Result is the Path -> value mapping produced by a visit, preserving
// traversal order.
type Result struct {
	nodes []Node
	byKey map[string]int
}

func newResult() *Result { return &Result{byKey: map[string]int{}} }

func (r *Result) add(n Node) {
	if _, dup := r.byKey[n.Path.Key()]; dup {
		return
	}
	r.byKey[n.Path.Key()] = len(r.nodes)
	r.nodes = append(r.nodes, n)
}

// Len returns the number of matched nodes.
func (r *Result) Len() int { return len(r.nodes) }

// Nodes returns the matched nodes in traversal order.
func (r *Result) Nodes() []Node { return append([]Node(nil), r.nodes...) }

// Get looks a value up by its path.
func (r *Result) Get(p treecheck.Path) (any, bool) {
	i, ok := r.byKey[p.Key()]
	if !ok {
		return nil, false
	}
	return r.nodes[i].Value, true
}

// Paths returns the matched paths in traversal order.
func (r *Result) Paths() []treecheck.Path {
	out := make([]treecheck.Path, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = n.Path
	}
	return out
}

// Equal reports whether two results hold the same Path -> value pairs,
// regardless of order.
func (r *Result) Equal(other *Result) bool {
	if r.Len() != other.Len() {
		return false
	}
	for _, n := range r.nodes {
		v, ok := other.Get(n.Path)
		if !ok || !reflect.DeepEqual(v, n.Value) {
			return false
		}
	}
	return true
}
