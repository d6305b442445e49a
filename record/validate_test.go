package record_test

import (
	"fmt"
	"reflect"
	"testing"

	treecheck "github.com/mlenders/treecheck"
	"github.com/mlenders/treecheck/record"
)

func costumeSchema(t *testing.T) *record.Schema {
	t.Helper()
	s, err := record.New("Costume",
		record.NewField("name", treecheck.Of[string]()),
		record.NewField("width", treecheck.Of[int]()),
		record.NewField("note", treecheck.Of[string]()).WithRequiredToExist(false),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSchemaValidateMapBacked(t *testing.T) {
	s := costumeSchema(t)
	inst := map[string]any{"name": "cat", "width": 480}
	if err := s.Validate(inst, treecheck.NewPath()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSchemaValidateWrongType(t *testing.T) {
	s := costumeSchema(t)
	inst := map[string]any{"name": "cat", "width": "wide"}
	err := s.Validate(inst, treecheck.NewPath().AddAttribute("costume"))
	if err == nil {
		t.Fatalf("expected a mismatch")
	}
	want := "At .costume.width: must be of type int not string"
	if got := err.Error(); got != want {
		t.Fatalf("message = %q", got)
	}
}

func TestSchemaValidateMissingRequired(t *testing.T) {
	s := costumeSchema(t)
	err := s.Validate(map[string]any{"name": "cat"}, treecheck.NewPath())
	if err == nil {
		t.Fatalf("expected a failure for the missing width")
	}
	want := "At .width: must be of type int not <not set>"
	if got := err.Error(); got != want {
		t.Fatalf("message = %q", got)
	}
	// Optional fields may be absent.
	if err := s.Validate(map[string]any{"name": "cat", "width": 1}, treecheck.NewPath()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSchemaValidateFieldValidator(t *testing.T) {
	s, err := record.New("Sized",
		record.NewField("width", treecheck.Of[int]()).WithValidator(
			func(v any, p treecheck.Path) error {
				if v.(int) < 0 {
					return treecheck.NewRangeError(p, "must be at least 0", "")
				}
				return nil
			}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Validate(map[string]any{"width": 10}, treecheck.NewPath()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	err = s.Validate(map[string]any{"width": -1}, treecheck.NewPath())
	if err == nil || err.Error() != "At .width: must be at least 0" {
		t.Fatalf("err = %v", err)
	}
}

func TestSchemaValidateTypeCheckRunsBeforeValidator(t *testing.T) {
	called := false
	s, err := record.New("Sized",
		record.NewField("width", treecheck.Of[int]()).WithValidator(
			func(v any, p treecheck.Path) error {
				called = true
				return nil
			}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Validate(map[string]any{"width": "x"}, treecheck.NewPath()); err == nil {
		t.Fatalf("expected a type failure")
	}
	if called {
		t.Fatalf("validator must not run when the type check fails")
	}
}

type engine struct {
	Fuel int `json:"fuel"`
}

func (e engine) Validate(path treecheck.Path) error {
	if e.Fuel < 0 {
		return treecheck.NewRangeError(path.AddAttribute("fuel"), "must be at least 0", "")
	}
	return nil
}

type car struct {
	Name   string `json:"name"`
	Engine engine `json:"engine"`
}

var carSchema = record.MustNewFor[car]("Car",
	record.NewField("name", treecheck.Of[string]()),
	record.NewField("engine", treecheck.Of[engine]()).WithRecurseValidate(true),
)

func TestSchemaValidateStructBackedRecursion(t *testing.T) {
	ok := car{Name: "kart", Engine: engine{Fuel: 5}}
	if err := carSchema.Validate(ok, treecheck.NewPath()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	bad := car{Name: "kart", Engine: engine{Fuel: -2}}
	err := carSchema.Validate(bad, treecheck.NewPath())
	if err == nil || err.Error() != "At .engine.fuel: must be at least 0" {
		t.Fatalf("err = %v", err)
	}
}

type checksummed struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (c checksummed) PostValidate(path treecheck.Path) error {
	if c.A+c.B != 10 {
		return treecheck.NewInvalidValueError(path, fmt.Sprintf("a and b must sum to 10, got %d", c.A+c.B), "")
	}
	return nil
}

var checksumSchema = record.MustNewFor[checksummed]("Checksummed",
	record.NewField("a", treecheck.Of[int]()),
	record.NewField("b", treecheck.Of[int]()),
)

func TestSchemaValidatePostValidate(t *testing.T) {
	if err := checksumSchema.Validate(checksummed{A: 4, B: 6}, treecheck.NewPath()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	err := checksumSchema.Validate(checksummed{A: 1, B: 1}, treecheck.NewPath())
	if err == nil || err.Error() != "a and b must sum to 10, got 2" {
		t.Fatalf("err = %v", err)
	}
}

func TestSchemaConstructionErrors(t *testing.T) {
	if _, err := record.New(""); err == nil {
		t.Fatalf("empty schema name must fail")
	}
	if _, err := record.New("X", record.NewField("", treecheck.Any())); err == nil {
		t.Fatalf("empty field name must fail")
	}
	if _, err := record.New("X",
		record.NewField("a", treecheck.Any()),
		record.NewField("a", treecheck.Any()),
	); err == nil {
		t.Fatalf("duplicate field must fail")
	}
	if _, err := record.NewFor[int]("X"); err == nil {
		t.Fatalf("non-struct type must fail")
	}
}

type registered struct {
	N int `json:"n"`
}

func TestRegisterIsWriteOnce(t *testing.T) {
	first := record.Register(record.MustNewFor[registered]("First", record.NewField("n", treecheck.Of[int]())))
	second := record.Register(record.MustNewFor[registered]("Second", record.NewField("n", treecheck.Of[int]())))
	if second != first {
		t.Fatalf("re-registration must keep the first schema")
	}
	got, ok := record.Lookup(registered{N: 1})
	if !ok || got != first {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	// Pointers resolve to the same schema.
	gotPtr, ok := record.Lookup(&registered{})
	if !ok || gotPtr != first {
		t.Fatalf("Lookup through pointer = %v, %v", gotPtr, ok)
	}
	byType, ok := record.LookupType(reflect.TypeOf(registered{}))
	if !ok || byType != first {
		t.Fatalf("LookupType = %v, %v", byType, ok)
	}
}

func TestValidatePackageLevel(t *testing.T) {
	record.Register(carSchema)
	if err := record.Validate(car{Name: "kart", Engine: engine{Fuel: 1}}, treecheck.NewPath()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := record.Validate(struct{ X int }{}, treecheck.NewPath()); err == nil {
		t.Fatalf("unregistered types must fail")
	}
}

func TestFieldValue(t *testing.T) {
	s := costumeSchema(t)
	v, ok := s.FieldValue(map[string]any{"name": "cat"}, "name")
	if !ok || v != "cat" {
		t.Fatalf("FieldValue = %#v, %v", v, ok)
	}
	if _, ok := s.FieldValue(map[string]any{}, "name"); ok {
		t.Fatalf("missing map key must read as absent")
	}
	v, ok = carSchema.FieldValue(car{Name: "kart"}, "name")
	if !ok || v != "kart" {
		t.Fatalf("FieldValue on struct = %#v, %v", v, ok)
	}
	if _, ok := carSchema.FieldValue(car{}, "nope"); ok {
		t.Fatalf("unknown field must read as absent")
	}
}
