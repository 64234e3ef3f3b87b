package oops

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-stack/stack"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(io.ErrUnexpectedEOF, "failed to read %s", "thing")
	assert.Equal(t, "failed to read thing: unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var oopsErr *Error
	if assert.True(t, errors.As(err, &oopsErr)) {
		if assert.NotEmpty(t, oopsErr.Stack) {
			assert.True(t, strings.HasSuffix(oopsErr.Stack[0].Function, "TestNew"), oopsErr.Stack[0].Function)
		}
	}
}

func TestNewWithoutWrapped(t *testing.T) {
	assert.Equal(t, "nothing here", New(nil, "nothing here").Error())
}

func TestZerologStackMarshaler(t *testing.T) {
	assert.Nil(t, ZerologStackMarshaler(errors.New("plain")))
	assert.IsType(t, CallStack{}, ZerologStackMarshaler(New(nil, "with stack")))
}

func TestTrace(t *testing.T) {
	trace := Trace()
	if assert.NotEmpty(t, trace) {
		assert.True(t, strings.HasSuffix(trace[0].Function, "TestTrace"), trace[0].Function)
	}
}

func TestTraceFrom(t *testing.T) {
	trace := traceFrom(stack.Trace().TrimRuntime())
	if assert.GreaterOrEqual(t, len(trace), 2) {
		assert.True(t, strings.HasSuffix(trace[0].Function, "TestTraceFrom"), trace[0].Function)
		assert.NotZero(t, trace[0].Line)
		assert.NotEmpty(t, trace[0].File)
	}
}
