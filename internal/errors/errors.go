package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/hayati/internal/logger"
)

// Kind classifies an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPersistence
	KindCalculation
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindPersistence:
		return "PersistenceError"
	case KindCalculation:
		return "CalculationError"
	case KindPermission:
		return "PermissionError"
	default:
		return "Error"
	}
}

// ErrNotFound marks a lookup that matched no row. It is always wrapped in a
// persistence error.
var ErrNotFound = stderrors.New("record not found")

// Error is a classified application error.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Op != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a ValidationError for malformed input.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// WrapValidation classifies err as a ValidationError.
func WrapValidation(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// Persistence classifies a store failure.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// NotFound returns a persistence error wrapping ErrNotFound.
func NotFound(op, what, id string) error {
	return &Error{Kind: KindPersistence, Op: op, Err: fmt.Errorf("%s %q: %w", what, id, ErrNotFound)}
}

// Calculation classifies a prayer-time computation failure.
func Calculation(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindCalculation, Op: op, Err: err}
}

// Permission reports that notifications cannot be displayed.
func Permission(format string, args ...interface{}) error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool  { return KindOf(err) == KindValidation }
func IsPersistence(err error) bool { return KindOf(err) == KindPersistence }
func IsCalculation(err error) bool { return KindOf(err) == KindCalculation }
func IsPermission(err error) bool  { return KindOf(err) == KindPermission }

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
