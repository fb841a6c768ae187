// Package errs defines the error taxonomy shared by the iterminator packages.
// Every error carries a Kind so callers can branch with errors.Is against the
// exported sentinels without depending on message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	Unknown Kind = iota
	// NotFound: no catalog entries, or a jump/search target is absent.
	NotFound
	// OutOfRange: a numeric jump index does not resolve to an entry.
	OutOfRange
	// AmbiguousMatch: a one-shot selection matched more than one name.
	AmbiguousMatch
	// Classification: a scheme file could not be classified light/dark.
	Classification
	// Apply: the external applier failed.
	Apply
	// TerminalMode: raw mode could not be acquired or restored.
	TerminalMode
	// InvalidInput: flag or query validation failed.
	InvalidInput
)

var kindNames = map[Kind]string{
	Unknown:        "unknown",
	NotFound:       "not found",
	OutOfRange:     "out of range",
	AmbiguousMatch: "ambiguous match",
	Classification: "classification",
	Apply:          "apply",
	TerminalMode:   "terminal mode",
	InvalidInput:   "invalid input",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound       = &Error{Kind: NotFound}
	ErrOutOfRange     = &Error{Kind: OutOfRange}
	ErrAmbiguousMatch = &Error{Kind: AmbiguousMatch}
	ErrClassification = &Error{Kind: Classification}
	ErrApply          = &Error{Kind: Apply}
	ErrTerminalMode   = &Error{Kind: TerminalMode}
	ErrInvalidInput   = &Error{Kind: InvalidInput}
)

// Error is the concrete error type returned by the iterminator packages.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "ring.JumpToIndex"
	Msg  string
	Err  error
}

// New creates an Error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around err.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
