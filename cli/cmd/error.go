package cmd

import (
	"errors"
	"log/slog"
	"slices"
)

// Error is a command failure that logs as a structured group. Package-level
// values act as sentinels; Wrap and With derive errors matching them.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error returns "msg: cause", or whichever of the two is set.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error derived from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.msg != "" && e.msg == t.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e carrying attrs in addition to its own.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{msg: e.msg, err: e.err, attrs: slices.Concat(e.attrs, attrs)}
}

// attr returns the value of the first attribute named key found along the
// chain of *Error values wrapped by err.
func attr(err error, key string) (slog.Value, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			for _, a := range e.attrs {
				if a.Key == key {
					return a.Value, true
				}
			}
		}

		err = errors.Unwrap(err)
	}

	return slog.Value{}, false
}

// fileAttr is the attribute naming the source file an error refers to.
const fileAttr = "file"

var (
	ErrJSONMarshal = NewError("marshal JSON")
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrOpenSource  = NewError("open source")
	ErrReadSource  = NewError("read source")
	ErrProgram     = NewError("program failed")
	ErrWriteOutput = NewError("write output")
	ErrExpect      = NewError("evaluate expectation")
	ErrCheckFailed = NewError("expectations failed")
)
