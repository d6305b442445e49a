// Package record builds fixed-shape composite types out of named, typed
// fields, giving them self-validation and structured rendering. A Schema is
// constructed once, owns its ordered field descriptors (metadata lives inline
// with each field, never in a side table), and validates instances backed
// either by a Go struct or by a map[string]any.
package record

import (
	"fmt"
	"reflect"
	"sync"

	treecheck "github.com/mlenders/treecheck"
)

// Field describes one named, typed member of a record. The zero value is not
// useful; build fields with NewField and the With* options so the defaults
// (Repr, TypeChecked and RequiredToExist all true) apply.
type Field struct {
	// Name is the field's external name; for struct-backed records it is
	// matched against the resolved struct key (treecheck/json tag or field
	// name).
	Name string
	// Type is the descriptor the field value is checked against.
	Type treecheck.Type
	// Repr controls whether the field appears in rendered output.
	Repr bool
	// TypeChecked controls whether the field participates in structural
	// validation.
	TypeChecked bool
	// Validator is an additional predicate invoked during validation with
	// the field value and its path.
	Validator func(value any, path treecheck.Path) error
	// RequiredToExist makes a missing field value itself a validation
	// failure; a present-but-wrong-type value fails regardless.
	RequiredToExist bool
	// RecurseValidate calls Validate on the field value when it implements
	// Validatable.
	RecurseValidate bool
}

// NewField returns a field with the default options applied.
func NewField(name string, typ treecheck.Type) Field {
	return Field{Name: name, Type: typ, Repr: true, TypeChecked: true, RequiredToExist: true}
}

// WithRepr toggles inclusion in rendered output.
func (f Field) WithRepr(on bool) Field { f.Repr = on; return f }

// WithTypeChecked toggles structural validation of the field.
func (f Field) WithTypeChecked(on bool) Field { f.TypeChecked = on; return f }

// WithValidator attaches an additional validation predicate.
func (f Field) WithValidator(fn func(value any, path treecheck.Path) error) Field {
	f.Validator = fn
	return f
}

// WithRequiredToExist toggles whether a missing value is a failure.
func (f Field) WithRequiredToExist(on bool) Field { f.RequiredToExist = on; return f }

// WithRecurseValidate toggles recursion into Validatable field values.
func (f Field) WithRecurseValidate(on bool) Field { f.RecurseValidate = on; return f }

// Schema is the immutable description of a record type: an ordered list of
// field descriptors plus, for struct-backed records, the Go type instances
// must have.
type Schema struct {
	name   string
	goType reflect.Type // nil for map-backed records
	fields []Field
	index  map[string]int
}

// New builds a schema for map[string]any-backed records.
func New(name string, fields ...Field) (*Schema, error) {
	return newSchema(name, nil, fields)
}

// NewFor builds a schema bound to the struct type T.
func NewFor[T any](name string, fields ...Field) (*Schema, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("record: %s is not a struct type", rt)
	}
	return newSchema(name, rt, fields)
}

func newSchema(name string, goType reflect.Type, fields []Field) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("record: schema name must not be empty")
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("record: schema %s has a field with an empty name", name)
		}
		if _, dup := idx[f.Name]; dup {
			return nil, fmt.Errorf("record: schema %s declares field %q twice", name, f.Name)
		}
		idx[f.Name] = i
	}
	return &Schema{name: name, goType: goType, fields: append([]Field(nil), fields...), index: idx}, nil
}

// MustNewFor is NewFor that panics on construction errors; intended for
// package-level schema variables.
func MustNewFor[T any](name string, fields ...Field) *Schema {
	s, err := NewFor[T](name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record type name used in rendering and messages.
func (s *Schema) Name() string { return s.name }

// GoType returns the bound struct type, nil for map-backed schemas.
func (s *Schema) GoType() reflect.Type { return s.goType }

// Fields returns a copy of the ordered field descriptors.
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// ---- process-wide type -> schema registry ----
//
// Write-once per type: re-registration is a no-op, not an overwrite. Reads
// are expected to vastly outnumber writes, hence the RWMutex.

var (
	regMu    sync.RWMutex
	registry = map[reflect.Type]*Schema{}
)

// Register publishes a struct-backed schema so that rendering and tree
// visitation recognize its instances. Registering a type twice keeps the
// first schema and returns it.
func Register(s *Schema) *Schema {
	if s == nil || s.goType == nil {
		return s
	}
	regMu.Lock()
	defer regMu.Unlock()
	if existing, ok := registry[s.goType]; ok {
		return existing
	}
	registry[s.goType] = s
	return s
}

// Lookup finds the registered schema for the dynamic type of inst, looking
// through one level of pointer.
func Lookup(inst any) (*Schema, bool) {
	rt := reflect.TypeOf(inst)
	if rt == nil {
		return nil, false
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return LookupType(rt)
}

// LookupType finds the registered schema for a reflect.Type.
func LookupType(rt reflect.Type) (*Schema, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	s, ok := registry[rt]
	return s, ok
}
