// Package errors defines the stable error code system for wsgen.
//
// Every error that crosses a package boundary is a *GenError carrying a
// stable Code. Wrapping and stack capture are delegated to
// github.com/cockroachdb/errors so that errors.Is/As keep working through
// any number of layers.
package errors

import (
	"fmt"
	"io"
	"sort"

	crdb "github.com/cockroachdb/errors"
)

// Code is a stable error code string.
type Code string

// Validation errors. Reported before any write.
const (
	EUsage              Code = "E_USAGE"
	EUnknownTemplate    Code = "E_UNKNOWN_TEMPLATE"
	EUnknownField       Code = "E_UNKNOWN_FIELD"
	EInvalidChoices     Code = "E_INVALID_CHOICES"
	EAlreadyInitialized Code = "E_ALREADY_INITIALIZED"
	ENotInitialized     Code = "E_NOT_INITIALIZED"
)

// Graph errors.
const (
	ECyclicDependency Code = "E_CYCLIC_DEPENDENCY"
	EInvalidEdge      Code = "E_INVALID_EDGE"
)

// Config inheritance errors.
const (
	EConfigConflict    Code = "E_CONFIG_CONFLICT"
	EMissingBaseConfig Code = "E_MISSING_BASE_CONFIG"
	EUnknownConfig     Code = "E_UNKNOWN_CONFIG"
)

// Write-phase codes. EConflict and EWriteFailed appear on report entries;
// a run that accumulated any of them returns EPartial.
const (
	EConflict    Code = "E_CONFLICT"
	EWriteFailed Code = "E_WRITE_FAILED"
	EPartial     Code = "E_PARTIAL"
)

// Runtime / environment errors.
const (
	EAdapterFailed Code = "E_ADAPTER_FAILED"
	ELocked        Code = "E_LOCKED"
	ECanceled      Code = "E_CANCELED"
	EStateCorrupt  Code = "E_STATE_CORRUPT"
	EIO            Code = "E_IO"
	EInternal      Code = "E_INTERNAL"
)

// Exit codes. Stable public contract.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitPartial    = 2
	ExitInternal   = 3
)

// GenError is the standard error type for wsgen errors.
type GenError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *GenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *GenError) Unwrap() error {
	return e.Cause
}

// New creates a new GenError with the given code and message.
func New(code Code, msg string) error {
	return crdb.WithStackDepth(&GenError{Code: code, Msg: msg}, 1)
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) error {
	return crdb.WithStackDepth(&GenError{Code: code, Msg: fmt.Sprintf(format, args...)}, 1)
}

// NewWithDetails creates a new GenError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return crdb.WithStackDepth(&GenError{Code: code, Msg: msg, Details: copyDetails(details)}, 1)
}

// Wrap creates a new GenError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return crdb.WithStackDepth(&GenError{Code: code, Msg: msg, Cause: err}, 1)
}

// WrapWithDetails creates a new GenError wrapping an underlying error with details.
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return crdb.WithStackDepth(&GenError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}, 1)
}

// WithHint attaches a user-facing hint, printed after the message.
func WithHint(err error, hint string) error {
	return crdb.WithHint(err, hint)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdb.As(err, target)
}

// GetCode extracts the error code from an error, or empty string if not a GenError.
func GetCode(err error) Code {
	if ge, ok := AsGenError(err); ok {
		return ge.Code
	}
	return ""
}

// AsGenError returns (*GenError, true) if err is or wraps a GenError.
func AsGenError(err error) (*GenError, bool) {
	var ge *GenError
	if crdb.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsValidation reports whether code belongs to the validation, graph or
// config families. Those are always reported before any filesystem mutation.
func IsValidation(code Code) bool {
	switch code {
	case EUsage, EUnknownTemplate, EUnknownField, EInvalidChoices,
		EAlreadyInitialized, ENotInitialized,
		ECyclicDependency, EInvalidEdge,
		EConfigConflict, EMissingBaseConfig, EUnknownConfig:
		return true
	}
	return false
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the process exit code for an error:
// 0 for nil, 1 for validation/graph/config errors, 2 for partial success,
// 3 for everything else (IO, adapter, internal).
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	code := GetCode(err)
	switch {
	case IsValidation(code):
		return ExitValidation
	case code == EPartial:
		return ExitPartial
	default:
		return ExitInternal
	}
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//	<key>: <value>   (one line per detail, sorted)
//	hint: <hint>     (one line per hint)
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	ge, ok := AsGenError(err)
	if !ok {
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintf(w, "error_code: %s\n", ge.Code)
	fmt.Fprintln(w, ge.Msg)
	if ge.Cause != nil {
		fmt.Fprintf(w, "cause: %v\n", ge.Cause)
	}
	keys := make([]string, 0, len(ge.Details))
	for k := range ge.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, ge.Details[k])
	}
	for _, h := range crdb.GetAllHints(err) {
		fmt.Fprintf(w, "hint: %s\n", h)
	}
}
