package treecheck

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type segmentKind uint8

const (
	segAttribute segmentKind = iota + 1
	segIndexOrKey
)

// Segment is a single step of a Path: either a named-attribute access or an
// index/key access. Segments are immutable values, compared by value, and are
// usable as map keys as long as the index/key itself is comparable.
type Segment struct {
	kind segmentKind
	name string // attribute name when kind == segAttribute
	key  any    // index or key when kind == segIndexOrKey
}

// Attr returns an attribute-access segment.
func Attr(name string) Segment { return Segment{kind: segAttribute, name: name} }

// Key returns an index/key-access segment. The key may be any comparable value.
func Key(key any) Segment { return Segment{kind: segIndexOrKey, key: key} }

// IsAttribute reports whether the segment is a named-attribute access.
func (s Segment) IsAttribute() bool { return s.kind == segAttribute }

// IsIndexOrKey reports whether the segment is an index/key access.
func (s Segment) IsIndexOrKey() bool { return s.kind == segIndexOrKey }

// Name returns the attribute name; empty for index/key segments.
func (s Segment) Name() string { return s.name }

// Value returns the attribute name or the index/key carried by the segment.
func (s Segment) Value() any {
	if s.kind == segAttribute {
		return s.name
	}
	return s.key
}

func (s Segment) render() string {
	switch s.kind {
	case segAttribute:
		return "." + s.name
	case segIndexOrKey:
		return "[" + renderKey(s.key) + "]"
	}
	return ""
}

func (s Segment) String() string { return s.render() }

// renderKey formats an index or key for path rendering. Strings are quoted,
// numbers appear bare, everything else falls back to its default formatting.
func renderKey(key any) string {
	switch k := key.(type) {
	case string:
		return strconv.Quote(k)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", k)
	}
}

// Path is an immutable, ordered sequence of Segments addressing a location
// inside a nested object tree. Every operation that would change the contents
// returns a new Path; existing values are never mutated.
//
// The leading-dot flag only affects Render; it is deliberately excluded from
// Equal and Key, which identify the location itself.
type Path struct {
	segs         []Segment
	startWithDot bool
	noDotSet     bool // distinguishes "flag cleared" from the zero value
}

// NewPath returns a path over the given segments. The rendered form starts
// with a leading dot.
func NewPath(segs ...Segment) Path {
	return Path{segs: append([]Segment(nil), segs...)}
}

// StartsWithDot reports whether Render keeps the leading dot.
func (p Path) StartsWithDot() bool { return !p.noDotSet }

// WithLeadingDot returns a copy of the path that renders with a leading dot.
func (p Path) WithLeadingDot() Path {
	p.noDotSet = false
	return p
}

// WithoutLeadingDot returns a copy of the path whose rendering strips the
// leading dot, if the rendered form literally starts with one.
func (p Path) WithoutLeadingDot() Path {
	p.noDotSet = true
	return p
}

func (p Path) push(s Segment) Path {
	segs := append(append(make([]Segment, 0, len(p.segs)+1), p.segs...), s)
	return Path{segs: segs, noDotSet: p.noDotSet}
}

// AddAttribute appends a named-attribute segment and returns the new path.
func (p Path) AddAttribute(name string) Path { return p.push(Attr(name)) }

// AddIndexOrKey appends an index/key segment and returns the new path.
func (p Path) AddIndexOrKey(key any) Path { return p.push(Key(key)) }

// Extend concatenates other onto p and returns the new path. The receiver's
// leading-dot flag wins.
func (p Path) Extend(other Path) Path {
	segs := append(append(make([]Segment, 0, len(p.segs)+other.Len()), p.segs...), other.segs...)
	return Path{segs: segs, noDotSet: p.noDotSet}
}

// GoUp drops the last n segments and returns the new path. Dropping more
// segments than the path holds yields the empty path rather than an error;
// callers that need strictness should check Len first.
func (p Path) GoUp(n int) Path {
	if n <= 0 {
		return p
	}
	if n > len(p.segs) {
		n = len(p.segs)
	}
	return p.Slice(0, len(p.segs)-n)
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segs) }

// At returns the i-th segment. It panics when i is out of range, matching
// slice indexing.
func (p Path) At(i int) Segment { return p.segs[i] }

// Segments returns a copy of the underlying segments.
func (p Path) Segments() []Segment { return append([]Segment(nil), p.segs...) }

// Slice returns the sub-path [start, end) as a new path. Bounds are clamped
// to the valid range.
func (p Path) Slice(start, end int) Path {
	if start < 0 {
		start = 0
	}
	if end > len(p.segs) {
		end = len(p.segs)
	}
	if start >= end {
		return Path{noDotSet: p.noDotSet}
	}
	return Path{segs: append([]Segment(nil), p.segs[start:end]...), noDotSet: p.noDotSet}
}

// Index returns the position of the first segment equal to seg, and whether
// it was found.
func (p Path) Index(seg Segment) (int, bool) {
	for i, s := range p.segs {
		if segmentEqual(s, seg) {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether the path holds a segment equal to seg.
func (p Path) Contains(seg Segment) bool {
	_, ok := p.Index(seg)
	return ok
}

func segmentEqual(a, b Segment) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == segAttribute {
		return a.name == b.name
	}
	return keyEqual(a.key, b.key)
}

// keyEqual compares two index/key values. Non-comparable keys fall back to
// their type-qualified rendered form instead of panicking.
func keyEqual(a, b any) bool {
	if isComparable(a) && isComparable(b) {
		return a == b
	}
	return keyIdentity(a) == keyIdentity(b)
}

// keyIdentity couples the key's dynamic type with its rendered form, so
// values of different types that render alike (1 vs int8(1)) stay distinct.
func keyIdentity(key any) string {
	if key == nil {
		return "nil"
	}
	return reflect.TypeOf(key).String() + "=" + renderKey(key)
}

// Equal reports structural equality of the two paths. The leading-dot
// rendering flag does not participate.
func (p Path) Equal(other Path) bool {
	if len(p.segs) != len(other.segs) {
		return false
	}
	for i := range p.segs {
		if !segmentEqual(p.segs[i], other.segs[i]) {
			return false
		}
	}
	return true
}

// Key returns a canonical string identifying the location, suitable as a map
// key. Equal paths always produce the same Key; segment kinds and boundaries
// are length-encoded, so separator characters inside an attribute name cannot
// conflate distinct paths (unlike Render, where ".a.b" is ambiguous).
func (p Path) Key() string {
	var b strings.Builder
	for _, s := range p.segs {
		var payload string
		if s.kind == segAttribute {
			b.WriteByte('a')
			payload = s.name
		} else {
			b.WriteByte('k')
			payload = keyIdentity(s.key)
		}
		b.WriteString(strconv.Itoa(len(payload)))
		b.WriteByte(':')
		b.WriteString(payload)
	}
	return b.String()
}

// Render formats the path in dotted/bracketed notation, e.g. ".user[0].name".
// When the leading dot is disabled and the rendered form literally starts
// with a dot, that dot is stripped.
func (p Path) Render() string {
	var b strings.Builder
	for _, s := range p.segs {
		b.WriteString(s.render())
	}
	out := b.String()
	if p.noDotSet {
		out = strings.TrimPrefix(out, ".")
	}
	return out
}

func (p Path) String() string { return "Path(" + p.Render() + ")" }
