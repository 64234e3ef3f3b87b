package pngdec

import (
	"errors"
	"fmt"

	"github.com/fumiama/pngdec/oops"
)

// Kind classifies a decode failure. Every Kind is itself an error, so
// errors.Is(err, SizeMismatch) reports whether err failed for that reason.
type Kind int

const (
	TruncatedInput Kind = iota + 1
	MalformedHeader
	DuplicateHeader
	UnsupportedMethod
	UnsupportedColorMode
	SizeMismatch
	DecompressionFailed
	OutOfRange
	ChecksumMismatch
	UnknownFormat
)

var kindNames = [...]string{
	TruncatedInput:       "truncated input",
	MalformedHeader:      "malformed header",
	DuplicateHeader:      "duplicate header",
	UnsupportedMethod:    "unsupported method",
	UnsupportedColorMode: "unsupported color mode",
	SizeMismatch:         "size mismatch",
	DecompressionFailed:  "decompression failed",
	OutOfRange:           "out of range",
	ChecksumMismatch:     "checksum mismatch",
	UnknownFormat:        "unknown format",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Error() string { return "png: " + k.String() }

// An Error is a decode failure. It carries the Kind, the underlying cause if
// any, and the call stack at the point of failure.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
	Stack   oops.CallStack
}

func (e *Error) Error() string {
	s := "png: " + e.Kind.String()
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Wrapped != nil {
		s += ": " + e.Wrapped.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is matches a Kind. A duplicate header is also a malformed header.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	return k == e.Kind || (k == MalformedHeader && e.Kind == DuplicateHeader)
}

func (e *Error) CallStack() oops.CallStack { return e.Stack }

func newError(kind Kind, wrapped error, format string, args ...interface{}) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Wrapped: wrapped,
		Stack:   oops.Trace()[1:],
	}
}

// KindOf returns the Kind of err, or 0 if err is not a decode failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
