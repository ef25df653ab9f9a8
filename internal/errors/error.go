package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// ConvertError is a fatal diagnostic raised by one of the conversion passes.
type ConvertError struct {
	Phase       string   // "io", "assign", "resolve", "types", "codegen"
	Code        string   // "E100", "E200", etc.
	Message     string   // Human-readable message
	Object      string   // Compact JSON of the offending object, if any
	Symbol      string   // Offending symbol (point name, type name, macro)
	Path        string   // File path or JSONPath of the offending object
	Suggestions []string // Close matches for Symbol
	Cause       error    // Underlying error, if any
}

// Error implements the error interface
func (e *ConvertError) Error() string {
	var sb strings.Builder
	sb.WriteString("ERROR: ")
	sb.WriteString(e.Message)
	if e.Object != "" {
		sb.WriteString(" for: ")
		sb.WriteString(e.Object)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, " [%v]", e.Cause)
	}
	return sb.String()
}

// Unwrap returns the underlying cause
func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// New creates a ConvertError with an explicit message
func New(phase, code, message string) *ConvertError {
	return &ConvertError{
		Phase:   phase,
		Code:    code,
		Message: message,
	}
}

// WithObject attaches the offending JSON object, rendered compactly with
// sorted keys.
func (e *ConvertError) WithObject(obj any) *ConvertError {
	if obj != nil {
		e.Object = oj.JSON(obj, &ojg.Options{Sort: true})
	}
	return e
}

// WithPath attaches the file path or JSONPath of the offending object
func (e *ConvertError) WithPath(path string) *ConvertError {
	e.Path = path
	return e
}

// WithSuggestions attaches "did you mean" candidates
func (e *ConvertError) WithSuggestions(s []string) *ConvertError {
	e.Suggestions = s
	return e
}

// WithCause attaches the underlying error
func (e *ConvertError) WithCause(err error) *ConvertError {
	e.Cause = err
	return e
}

// MissingField reports a required schema field absent from obj.
func MissingField(phase, field, owner string, obj any) *ConvertError {
	e := New(phase, ErrMissingField,
		fmt.Sprintf("Input file is missing '%s' in %s object", field, owner))
	e.Symbol = field
	return e.WithObject(obj)
}

// MissingPointField reports a point object without its 'id' or 'idRef'.
func MissingPointField(phase, field string, obj any) *ConvertError {
	e := New(phase, ErrMissingField, fmt.Sprintf("Missing point '%s'", field))
	e.Symbol = field
	return e.WithObject(obj)
}

// WrongType reports a field present with an unexpected JSON type.
func WrongType(phase, field, want string, obj any) *ConvertError {
	e := New(phase, ErrWrongFieldType,
		fmt.Sprintf("Field '%s' must be %s", field, want))
	e.Symbol = field
	return e.WithObject(obj)
}

// Unresolved reports an idRef whose symbol was never assigned.
func Unresolved(symbol string) *ConvertError {
	e := New(PhaseResolve, ErrUnresolvedReference,
		fmt.Sprintf("Missing point reference: %s", symbol))
	e.Symbol = symbol
	return e
}

// UnknownType reports a typeName absent from the type dictionary.
func UnknownType(typeName, path string) *ConvertError {
	e := New(PhaseTypes, ErrUnknownType,
		fmt.Sprintf("Unknown type name '%s' (not in the type dictionary)", typeName))
	e.Symbol = typeName
	e.Path = path
	return e
}

// IO wraps a filesystem or parse failure.
func IO(code, path string, cause error) *ConvertError {
	e := New(PhaseIO, code, fmt.Sprintf("%s: %s", GetErrorMessage(code), path))
	e.Path = path
	e.Cause = cause
	return e
}

// AsConvertError extracts a *ConvertError from an error chain
func AsConvertError(err error) (*ConvertError, bool) {
	var ce *ConvertError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCode reports whether err is a ConvertError with the given code
func HasCode(err error, code string) bool {
	ce, ok := AsConvertError(err)
	return ok && ce.Code == code
}
