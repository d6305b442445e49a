// Package render pretty-prints object trees: collections, maps, dual-keyed
// maps and registered record types, with stable key ordering and multi-line
// indentation that collapses simple values onto one line.
package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	treecheck "github.com/mlenders/treecheck"
	"github.com/mlenders/treecheck/dualkey"
	"github.com/mlenders/treecheck/record"
)

// Options controls the output shape.
type Options struct {
	// SafeDualKey renders dual-keyed maps with tuple-style key pairs instead
	// of the "k1 / k2" notation.
	SafeDualKey bool
	// LevelOffset is the starting indentation level for nested output.
	LevelOffset int
	// AnnotateFields includes field names in record output.
	AnnotateFields bool
	// VanillaStrings uses plain Go quoting instead of the smart quoting that
	// prefers the quote character not present in the string.
	VanillaStrings bool
	// SingleLine suppresses all line breaks.
	SingleLine bool
	// Indent is the number of spaces per level.
	Indent int
}

// DefaultOptions returns the options Render uses.
func DefaultOptions() Options { return Options{AnnotateFields: true, Indent: 4} }

// Render formats obj with the default options.
func Render(obj any) string { return RenderWith(obj, DefaultOptions()) }

// KeyReprMap is a map wrapper that renders only its keys, for containers
// whose values are too noisy to display.
type KeyReprMap map[string]any

// dualRenderer is satisfied by every dualkey.Map instantiation.
type dualRenderer interface {
	AnyEntries() []dualkey.AnyEntry
}

// RenderWith formats obj using opt.
func RenderWith(obj any, opt Options) string {
	if opt.Indent <= 0 {
		opt.Indent = 4
	}
	r := renderer{opt: opt}
	s, _ := r.render(obj, opt.LevelOffset)
	return s
}

type renderer struct {
	opt Options
}

// seps returns the join strings for the given nesting level.
func (r renderer) seps(level int) (prefix, sep, endSep string) {
	if r.opt.SingleLine {
		return "", ", ", ""
	}
	indent := strings.Repeat(" ", r.opt.Indent)
	return "\n" + strings.Repeat(indent, level+1),
		",\n" + strings.Repeat(indent, level+1),
		",\n" + strings.Repeat(indent, level)
}

// render returns the formatted value and whether it is "simple" enough to
// stay inline inside an enclosing collection.
func (r renderer) render(obj any, level int) (string, bool) {
	switch v := obj.(type) {
	case nil:
		return "nil", true
	case string:
		return r.renderString(v), true
	case KeyReprMap:
		return r.renderKeyRepr(v, level)
	case dualRenderer:
		return r.renderDual(v, level)
	}

	if schema, ok := record.Lookup(obj); ok {
		return r.renderRecord(schema, obj, level)
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := obj.([]byte); !isBytes {
			return r.renderList(rv, level)
		}
	case reflect.Map:
		if isSetShaped(rv.Type()) {
			return r.renderSet(rv, level)
		}
		return r.renderMap(rv, level)
	}
	return fmt.Sprintf("%v", obj), true
}

// renderString prefers the quote character that does not occur in the
// string, falling back to escaped double quotes.
func (r renderer) renderString(s string) string {
	if r.opt.VanillaStrings {
		return fmt.Sprintf("%q", s)
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	if strings.Contains(s, `"`) {
		if strings.Contains(s, "'") {
			return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
		}
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

func (r renderer) renderList(rv reflect.Value, level int) (string, bool) {
	if rv.Len() == 0 {
		return "[]", true
	}
	prefix, sep, endSep := r.seps(level)
	parts := make([]string, rv.Len())
	allSimple := true
	for i := 0; i < rv.Len(); i++ {
		s, simple := r.render(rv.Index(i).Interface(), level+1)
		allSimple = allSimple && simple && len(s) <= 40
		parts[i] = s
	}
	if allSimple {
		return "[" + strings.Join(parts, ", ") + "]", true
	}
	return "[" + prefix + strings.Join(parts, sep) + endSep + "]", false
}

func (r renderer) renderSet(rv reflect.Value, level int) (string, bool) {
	if rv.Len() == 0 {
		return "{}", true
	}
	prefix, sep, endSep := r.seps(level)
	keys := sortedKeys(rv)
	parts := make([]string, len(keys))
	allSimple := true
	for i, k := range keys {
		s, simple := r.render(k.Interface(), level+1)
		allSimple = allSimple && simple && len(s) <= 40
		parts[i] = s
	}
	if allSimple {
		return "{" + strings.Join(parts, ", ") + "}", true
	}
	return "{" + prefix + strings.Join(parts, sep) + endSep + "}", false
}

func (r renderer) renderMap(rv reflect.Value, level int) (string, bool) {
	if rv.Len() == 0 {
		return "{}", true
	}
	prefix, sep, endSep := r.seps(level)
	keys := sortedKeys(rv)
	parts := make([]string, len(keys))
	for i, k := range keys {
		ks, _ := r.render(k.Interface(), level+1)
		vs, _ := r.render(rv.MapIndex(k).Interface(), level+1)
		parts[i] = ks + ": " + vs
	}
	return "{" + prefix + strings.Join(parts, sep) + endSep + "}", false
}

func (r renderer) renderKeyRepr(m KeyReprMap, level int) (string, bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = r.renderString(k)
	}
	return "KeyReprMap(keys={" + strings.Join(parts, ", ") + "})", true
}

func (r renderer) renderDual(d dualRenderer, level int) (string, bool) {
	entries := d.AnyEntries()
	if len(entries) == 0 {
		return "DualKeyMap{}", true
	}
	sort.Slice(entries, func(i, j int) bool {
		return keyOrder(entries[i].Key1) < keyOrder(entries[j].Key1)
	})
	prefix, sep, endSep := r.seps(level)
	parts := make([]string, len(entries))
	for i, e := range entries {
		k1, _ := r.render(e.Key1, level+1)
		k2, _ := r.render(e.Key2, level+1)
		v, _ := r.render(e.Value, level+1)
		if r.opt.SafeDualKey {
			parts[i] = "(" + k1 + ", " + k2 + "): " + v
		} else {
			parts[i] = k1 + " / " + k2 + ": " + v
		}
	}
	return "DualKeyMap{" + prefix + strings.Join(parts, sep) + endSep + "}", false
}

func (r renderer) renderRecord(schema *record.Schema, obj any, level int) (string, bool) {
	prefix, sep, endSep := r.seps(level)
	var parts []string
	allSimple := true
	for _, f := range schema.Fields() {
		if !f.Repr {
			continue
		}
		value, present := schema.FieldValue(obj, f.Name)
		if !present {
			continue
		}
		s, simple := r.render(value, level+1)
		allSimple = allSimple && simple
		if r.opt.AnnotateFields {
			parts = append(parts, f.Name+"="+s)
		} else {
			parts = append(parts, s)
		}
	}
	if allSimple && len(parts) <= 3 {
		return schema.Name() + "(" + strings.Join(parts, ", ") + ")", len(parts) == 0
	}
	return schema.Name() + "(" + prefix + strings.Join(parts, sep) + endSep + ")", false
}

func keyOrder(key any) string { return treecheck.NewPath().AddIndexOrKey(key).Key() }

func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keyOrder(keys[i].Interface()) < keyOrder(keys[j].Interface())
	})
	return keys
}

var emptyStruct = reflect.TypeOf(struct{}{})

func isSetShaped(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStruct
}
