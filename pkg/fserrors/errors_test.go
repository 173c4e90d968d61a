package fserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "op and path", err: NotFound("/a/b").WithOp("stat"), want: "stat /a/b: resource not found"},
		{name: "path only", err: NotFound("/a/b"), want: "/a/b: resource not found"},
		{name: "op only", err: (&Error{Kind: KindOperationFailed}).WithOp("list"), want: "list: operation failed"},
		{name: "bare kind", err: &Error{Kind: KindNoURL}, want: "no URL available"},
		{name: "custom message", err: InvalidPath("..", "path resolves above filesystem root"), want: "..: path resolves above filesystem root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	err := NotFound("/x").WithOp("open").WithCause(errors.New("404"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrFileExists)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := OperationFailed("/x", cause)
	assert.ErrorIs(t, err, cause)

	var target *Error
	require.ErrorAs(t, fmt.Errorf("wrap: %w", err), &target)
	assert.Equal(t, KindOperationFailed, target.Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindDirectoryNotEmpty, KindOf(DirectoryNotEmpty("/d")))
	assert.Equal(t, KindPermissionDenied, KindOf(fmt.Errorf("w: %w", PermissionDenied("/p"))))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{InvalidPath("/p", "m"), KindInvalidPath},
		{NotFound("/p"), KindResourceNotFound},
		{FileExists("/p"), KindFileExists},
		{DirectoryExists("/p"), KindDirectoryExists},
		{DirectoryNotEmpty("/p"), KindDirectoryNotEmpty},
		{FileExpected("/p"), KindFileExpected},
		{DirectoryExpected("/p"), KindDirectoryExpected},
		{PermissionDenied("/p"), KindPermissionDenied},
		{NoURL("/p"), KindNoURL},
		{OperationFailed("/p", errors.New("x")), KindOperationFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.err.Kind)
		assert.Equal(t, "/p", tt.err.Path)
	}
}
