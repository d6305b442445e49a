package record

import (
	"fmt"
	"reflect"

	treecheck "github.com/mlenders/treecheck"
)

// Validatable is implemented by values that can validate themselves at a
// given tree location. Schema.Validate recurses into field values exposing it
// when the field opts in via RecurseValidate.
type Validatable interface {
	Validate(path treecheck.Path) error
}

// PostValidator is an optional instance hook that runs after all field-level
// checks pass.
type PostValidator interface {
	PostValidate(path treecheck.Path) error
}

// Validate checks inst against the registered schema for its type.
func Validate(inst any, path treecheck.Path) error {
	s, ok := Lookup(inst)
	if !ok {
		return fmt.Errorf("record: no schema registered for %T", inst)
	}
	return s.Validate(inst, path)
}

// Validate checks every field of inst against the schema, failing fast on the
// first mismatch. Order: structural type checks, then custom field
// validators, then recursion into Validatable field values, then the
// instance's own PostValidate hook.
func (s *Schema) Validate(inst any, path treecheck.Path) error {
	for _, f := range s.fields {
		if !f.TypeChecked {
			continue
		}
		fp := path.AddAttribute(f.Name)
		v, ok := s.FieldValue(inst, f.Name)
		switch {
		case ok:
			if err := treecheck.EnforceWith(v, f.Type, treecheck.EnforceOpt{Path: fp, PlainNotSet: true}); err != nil {
				return err
			}
		case f.RequiredToExist:
			if err := treecheck.EnforceWith(treecheck.NotSet, f.Type, treecheck.EnforceOpt{Path: fp}); err != nil {
				return err
			}
		}
	}

	for _, f := range s.fields {
		if f.Validator == nil {
			continue
		}
		if v, ok := s.FieldValue(inst, f.Name); ok {
			if err := f.Validator(v, path.AddAttribute(f.Name)); err != nil {
				return err
			}
		}
	}

	for _, f := range s.fields {
		if !f.RecurseValidate {
			continue
		}
		v, ok := s.FieldValue(inst, f.Name)
		if !ok {
			continue
		}
		if sub, impl := v.(Validatable); impl {
			if err := sub.Validate(path.AddAttribute(f.Name)); err != nil {
				return err
			}
		}
	}

	if pv, ok := inst.(PostValidator); ok {
		return pv.PostValidate(path)
	}
	return nil
}

// FieldValue reads the named field from an instance. For map-backed records a
// missing key reads as absent; for struct-backed records a field is absent
// when the struct declares no matching member.
func (s *Schema) FieldValue(inst any, name string) (any, bool) {
	switch m := inst.(type) {
	case map[string]any:
		v, ok := m[name]
		return v, ok
	}
	rv := reflect.ValueOf(inst)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, false
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := treecheck.ResolveStructKey(sf)
		if key == "-" || key != name {
			continue
		}
		return rv.Field(i).Interface(), true
	}
	return nil, false
}
