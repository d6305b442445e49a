package treecheck

import (
	"errors"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeInvalidValue = "invalid_value"
	CodeRange        = "range"
	CodePathAccess   = "path_access"
	CodeFileNotFound = "file_not_found"
	CodeFileRead     = "file_read"
	CodeFileWrite    = "file_write"
	CodeFileDelete   = "file_delete"
)

// PathError is the base validation error: a Path pinpointing the failure, a
// human-readable message, and an optional condition giving causal context
// (for example "because it is a member of Foo").
type PathError struct {
	Path      Path
	Code      string
	Message   string
	Condition string
	Cause     error // Optional: underlying error.
}

// Error renders, in order: path (if non-empty), condition (if present),
// message.
func (e *PathError) Error() string {
	b := &strings.Builder{}
	if e.Path.Len() > 0 {
		b.WriteString("At ")
		b.WriteString(e.Path.Render())
		b.WriteString(": ")
	}
	if e.Condition != "" {
		b.WriteString(e.Condition)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

func (e *PathError) Unwrap() error { return e.Cause }

// TypeValidationError reports a structural mismatch detected by Enforce.
type TypeValidationError struct{ PathError }

// InvalidValueError reports a value failing a semantic predicate (format,
// forbidden value, equality) unrelated to its nominal type.
type InvalidValueError struct{ PathError }

// RangeValidationError reports a numeric, length or coordinate value outside
// an accepted interval or required cardinality.
type RangeValidationError struct{ PathError }

// NewTypeError builds a *TypeValidationError at the given path.
func NewTypeError(path Path, msg, condition string) *TypeValidationError {
	return &TypeValidationError{PathError{Path: path, Code: CodeInvalidType, Message: msg, Condition: condition}}
}

// NewInvalidValueError builds an *InvalidValueError at the given path.
func NewInvalidValueError(path Path, msg, condition string) *InvalidValueError {
	return &InvalidValueError{PathError{Path: path, Code: CodeInvalidValue, Message: msg, Condition: condition}}
}

// NewRangeError builds a *RangeValidationError at the given path.
func NewRangeError(path Path, msg, condition string) *RangeValidationError {
	return &RangeValidationError{PathError{Path: path, Code: CodeRange, Message: msg, Condition: condition}}
}

// AsPathError extracts the PathError carried by any validation error kind
// using errors.As internally.
func AsPathError(err error) (*PathError, bool) {
	if err == nil {
		return nil, false
	}
	var te *TypeValidationError
	if errors.As(err, &te) {
		return &te.PathError, true
	}
	var ive *InvalidValueError
	if errors.As(err, &ive) {
		return &ive.PathError, true
	}
	var re *RangeValidationError
	if errors.As(err, &re) {
		return &re.PathError, true
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// FileNotFoundError reports a file that does not exist.
type FileNotFoundError struct {
	Message string
	Cause   error
}

func (e *FileNotFoundError) Error() string { return e.Message }
func (e *FileNotFoundError) Unwrap() error { return e.Cause }

// FileReadError reports an OS-level failure while reading.
type FileReadError struct {
	Message string
	Cause   error
}

func (e *FileReadError) Error() string { return e.Message }
func (e *FileReadError) Unwrap() error { return e.Cause }

// FileWriteError reports an OS-level failure while writing.
type FileWriteError struct {
	Message string
	Cause   error
}

func (e *FileWriteError) Error() string { return e.Message }
func (e *FileWriteError) Unwrap() error { return e.Cause }

// FileDeleteError reports an OS-level failure while deleting.
type FileDeleteError struct {
	Message string
	Cause   error
}

func (e *FileDeleteError) Error() string { return e.Message }
func (e *FileDeleteError) Unwrap() error { return e.Cause }
