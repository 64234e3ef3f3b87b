package oops

import (
	"fmt"

	"github.com/go-stack/stack"
	"github.com/rs/zerolog"
)

type Error struct {
	Message string
	Wrapped error
	Stack   CallStack
}

func (e *Error) Error() string {
	if e.Wrapped == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func (e *Error) CallStack() CallStack {
	return e.Stack
}

type CallStack []StackFrame

func (s CallStack) MarshalZerologArray(a *zerolog.Array) {
	for _, frame := range s {
		a.Object(frame)
	}
}

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f StackFrame) MarshalZerologObject(e *zerolog.Event) {
	e.
		Str("file", f.File).
		Int("line", f.Line).
		Str("function", f.Function)
}

// Stacker is implemented by errors that carry a captured call stack.
type Stacker interface {
	CallStack() CallStack
}

var ZerologStackMarshaler = func(err error) interface{} {
	if withStack, ok := err.(Stacker); ok {
		return withStack.CallStack()
	}
	return nil
}

// Trace captures the stack of the caller, skipping Trace itself.
func Trace() CallStack {
	return traceFrom(stack.Trace().TrimBelow(stack.Caller(1)).TrimRuntime())
}

func traceFrom(trace stack.CallStack) CallStack {
	frames := make(CallStack, len(trace))
	for i, call := range trace {
		callFrame := call.Frame()
		frames[i] = StackFrame{
			File:     callFrame.File,
			Line:     callFrame.Line,
			Function: callFrame.Function,
		}
	}
	return frames
}

func New(wrapped error, format string, args ...interface{}) error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Wrapped: wrapped,
		Stack:   traceFrom(stack.Trace().TrimBelow(stack.Caller(1)).TrimRuntime()),
	}
}
