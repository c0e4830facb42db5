package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Kind classifies an [Error] by the pipeline stage that raised it.
type Kind int

const (
	KindLex Kind = iota + 1
	KindParse
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindParse:
		return "ParseError"
	case KindRuntime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these with [Error.At],
// [Error.Detail], and [Error.With], and match them with [errors.Is].
var (
	ErrUnexpectedCharacter = newError(KindLex, "unexpected character")
	ErrUnterminatedString  = newError(KindLex, "unterminated string literal")

	ErrExpectedIdent     = newError(KindParse, "expected identifier")
	ErrExpectedAssign    = newError(KindParse, "expected '='")
	ErrExpectedSemicolon = newError(KindParse, "expected ';'")
	ErrExpectedLParen    = newError(KindParse, "expected '('")
	ErrExpectedRParen    = newError(KindParse, "expected ')'")
	ErrExpectedColon     = newError(KindParse, "expected ':' in conditional expression")
	ErrUnexpectedToken   = newError(KindParse, "unexpected token")

	ErrUndefinedVariable   = newError(KindRuntime, "undefined variable")
	ErrTypeMismatch        = newError(KindRuntime, "type mismatch")
	ErrConditionNotBoolean = newError(KindRuntime, "condition must be a boolean")
	ErrDivisionByZero      = newError(KindRuntime, "division by zero")
	ErrModuloByZero        = newError(KindRuntime, "modulo by zero")
	ErrNotFunction         = newError(KindRuntime, "cannot call non-function")
	ErrNameTaken           = newError(KindRuntime, "name already taken")
	ErrCyclicEvaluation    = newError(KindRuntime, "cyclic evaluation")
	ErrMaxDepthExceeded    = newError(KindRuntime, "maximum evaluation depth exceeded")
	ErrInterrupted         = newError(KindRuntime, "evaluation interrupted")
)

// Error is a located lex, parse, or runtime failure.
// It implements both error and slog.LogValuer interfaces.
//
// Hosts render excerpts from [Error.Message], [Error.Line], [Error.Column],
// and [Error.Source]; this package never formats them itself.
type Error struct {
	msg    string
	detail string
	source string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
	pos    Position
	kind   Kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Kind returns the stage that raised the error.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the error text without location.
func (e *Error) Message() string {
	if e.detail == "" {
		return e.msg
	}

	return e.msg + ": " + e.detail
}

// Pos returns the source position the error refers to.
// The zero Position means the location is unknown.
func (e *Error) Pos() Position { return e.pos }

// Line returns the 1-based line of the error, or 0 if unknown.
func (e *Error) Line() int { return e.pos.Line }

// Column returns the 1-based column of the error, or 0 if unknown.
func (e *Error) Column() int { return e.pos.Column }

// Source returns the complete source text the error was raised against.
func (e *Error) Source() string { return e.source }

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message())

	if e.pos.Line > 0 {
		fmt.Fprintf(&sb, " (line %d, column %d)", e.pos.Line, e.pos.Column)
	}

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel of the same kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.kind == e.kind && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	attrs = append(attrs,
		slog.String("kind", e.kind.String()),
		slog.String("error", e.Message()),
	)

	if e.pos.Line > 0 {
		attrs = append(attrs, slog.Any("pos", e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// At returns a copy of e located at pos.
func (e *Error) At(pos Position) *Error {
	c := *e
	c.pos = pos

	return &c
}

// Detail returns a copy of e with a formatted detail appended to its message.
func (e *Error) Detail(format string, args ...any) *Error {
	c := *e
	c.detail = fmt.Sprintf(format, args...)

	return &c
}

// WithSource returns a copy of e carrying the source text it refers to.
func (e *Error) WithSource(source string) *Error {
	c := *e
	c.source = source

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// attachSource returns err with source attached if err is an *Error that does
// not yet carry any.
func attachSource(err error, source string) error {
	e, ok := AsError(err)
	if !ok || e.source != "" {
		return err
	}

	return e.WithSource(source)
}
