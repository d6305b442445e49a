// Package validate provides reusable semantic checks for record fields:
// range, length, equality and format predicates that complement the purely
// structural checks of treecheck.Enforce. Every check reports through the
// shared path-annotated error taxonomy.
package validate

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dlclark/regexp2"

	treecheck "github.com/mlenders/treecheck"
)

// Check validates a single value. descr names the value in error messages
// (for example "width of a Costume"); condition optionally carries causal
// context.
type Check func(value any, descr string, path treecheck.Path, condition string) error

// Bind adapts a Check into the record.Field Validator signature.
func Bind(c Check, descr string) func(value any, path treecheck.Path) error {
	return func(value any, path treecheck.Path) error {
		return c(value, descr, path, "")
	}
}

// All combines checks; the first failure wins.
func All(checks ...Check) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		for _, c := range checks {
			if err := c(value, descr, path, condition); err != nil {
				return err
			}
		}
		return nil
	}
}

func typeNameOf(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// Type checks the value against a structural type descriptor, reporting the
// mismatch in terms of descr rather than the nested leaf.
func Type(t treecheck.Type) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if treecheck.EnforceAt(value, t, path) == nil {
			return nil
		}
		return treecheck.NewTypeError(path, fmt.Sprintf(
			"%s must be of type %s not %s", descr, t, typeNameOf(value)), condition)
	}
}

// Min checks a numeric lower bound.
func Min(min float64) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if n, ok := toFloat(value); ok && n >= min {
			return nil
		}
		return treecheck.NewRangeError(path, fmt.Sprintf(
			"%s must be at least %v", descr, min), condition)
	}
}

// Range checks a closed numeric interval.
func Range(min, max float64) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if n, ok := toFloat(value); ok && n >= min && n <= max {
			return nil
		}
		return treecheck.NewRangeError(path, fmt.Sprintf(
			"%s must be at least %v and at most %v", descr, min, max), condition)
	}
}

// MinLen checks a minimum element count.
func MinLen(min int) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if n, ok := lengthOf(value); ok && n >= min {
			return nil
		}
		return treecheck.NewRangeError(path, fmt.Sprintf(
			"%s must contain at least %d element(s)", descr, min), condition)
	}
}

// ExactLen checks an exact element count.
func ExactLen(want int) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if n, ok := lengthOf(value); ok && n == want {
			return nil
		}
		return treecheck.NewRangeError(path, fmt.Sprintf(
			"%s must contain exactly %d element(s)", descr, want), condition)
	}
}

// Equal checks equality against a constant.
func Equal(want any) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if reflect.DeepEqual(value, want) {
			return nil
		}
		return treecheck.NewInvalidValueError(path, fmt.Sprintf(
			"%s must be %#v", descr, want), condition)
	}
}

// NotOneOf rejects the listed constants.
func NotOneOf(forbidden ...any) Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		for _, f := range forbidden {
			if reflect.DeepEqual(value, f) {
				return treecheck.NewInvalidValueError(path, fmt.Sprintf(
					"%s must not be one of %v", descr, forbidden), condition)
			}
		}
		return nil
	}
}

var hexColorRe = regexp2.MustCompile(`^#[0-9a-fA-F]{6}$`, regexp2.None)

// HexColor checks for a six-digit hex color string such as "#FF0956".
func HexColor() Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if s, ok := value.(string); ok {
			if m, _ := hexColorRe.MatchString(s); m {
				return nil
			}
		}
		return treecheck.NewInvalidValueError(path, fmt.Sprintf(
			"%s must be a valid hex color eg. '#FF0956'", descr), condition)
	}
}

// Alnum checks for a non-empty string of letters and digits only.
func Alnum() Check {
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if s, ok := value.(string); ok && s != "" && isAlnum(s) {
			return nil
		}
		return treecheck.NewInvalidValueError(path, fmt.Sprintf(
			"%s must contain only alpha-numeric characters", descr), condition)
	}
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

var numberType = treecheck.Union(treecheck.Of[int](), treecheck.Of[float64]())

// BoxedCoordPair checks a two-element numeric coordinate pair against
// per-axis bounds; nil bounds mean "no limit".
func BoxedCoordPair(minX, maxX, minY, maxY *float64) Check {
	pairType := treecheck.Tuple(numberType, numberType)
	return func(value any, descr string, path treecheck.Path, condition string) error {
		if err := Type(pairType)(value, descr, path, condition); err != nil {
			return err
		}
		rv := reflect.ValueOf(value)
		x, _ := toFloat(rv.Index(0).Interface())
		y, _ := toFloat(rv.Index(1).Interface())
		if inBound(x, minX, maxX) && inBound(y, minY, maxY) {
			return nil
		}
		return treecheck.NewRangeError(path, fmt.Sprintf(
			"%s must be a coordinate pair (i.e. sequence of length 2). Each item must be an int or float. "+
				"The first coordinate must be in range from %s to %s. The second coordinate must be in range "+
				"from %s to %s, not %v",
			descr, boundLabel(minX), boundLabel(maxX), boundLabel(minY), boundLabel(maxY), value), condition)
	}
}

func inBound(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func boundLabel(b *float64) string {
	if b == nil {
		return "<no limit>"
	}
	return fmt.Sprintf("%v", *b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func lengthOf(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	}
	return 0, false
}

var jsDataURIRe = regexp2.MustCompile(`^data:application/javascript(;charset=[^,]+)?,`, regexp2.None)

// IsJSDataURI reports whether s is a JavaScript data URI.
func IsJSDataURI(s string) bool {
	m, _ := jsDataURIRe.MatchString(s)
	return m
}

// IsURL reports whether s is an HTTP(S) URL with a dotted host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && strings.Contains(u.Host, ".")
}

// IsDirectoryPath reports whether s names an existing directory, or a path
// that could be created under an existing directory.
func IsDirectoryPath(s string) bool {
	if s == "" {
		return false
	}
	if info, err := os.Stat(s); err == nil {
		return info.IsDir()
	}
	parent := filepath.Dir(s)
	for {
		if info, err := os.Stat(parent); err == nil {
			return info.IsDir()
		}
		next := filepath.Dir(parent)
		if next == parent {
			return false
		}
		parent = next
	}
}
