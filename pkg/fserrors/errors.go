// Package fserrors provides the structured error taxonomy for s3fs operations.
// Every public filesystem operation fails with exactly one Kind; store-native
// errors are translated at the storage layer and never escape to callers.
package fserrors

import (
	"errors"
	"fmt"
)

// Kind classifies a filesystem failure.
type Kind string

const (
	KindInvalidPath       Kind = "INVALID_PATH"
	KindResourceNotFound  Kind = "RESOURCE_NOT_FOUND"
	KindFileExists        Kind = "FILE_EXISTS"
	KindDirectoryExists   Kind = "DIRECTORY_EXISTS"
	KindDirectoryNotEmpty Kind = "DIRECTORY_NOT_EMPTY"
	KindFileExpected      Kind = "FILE_EXPECTED"
	KindDirectoryExpected Kind = "DIRECTORY_EXPECTED"
	KindPermissionDenied  Kind = "PERMISSION_DENIED"
	KindNoURL             Kind = "NO_URL"
	KindOperationFailed   Kind = "OPERATION_FAILED"
)

// Error is the concrete error type returned by every filesystem operation.
type Error struct {
	Kind    Kind
	Op      string
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessage(e.Kind)
	}
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two Errors by Kind, so sentinel comparisons like
// errors.Is(err, fserrors.ErrNotFound) work regardless of path and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithOp sets the operation name and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithCause attaches the underlying store error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithMessage overrides the default message for the error's Kind.
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidPath       = &Error{Kind: KindInvalidPath}
	ErrNotFound          = &Error{Kind: KindResourceNotFound}
	ErrFileExists        = &Error{Kind: KindFileExists}
	ErrDirectoryExists   = &Error{Kind: KindDirectoryExists}
	ErrDirectoryNotEmpty = &Error{Kind: KindDirectoryNotEmpty}
	ErrFileExpected      = &Error{Kind: KindFileExpected}
	ErrDirectoryExpected = &Error{Kind: KindDirectoryExpected}
	ErrPermissionDenied  = &Error{Kind: KindPermissionDenied}
	ErrNoURL             = &Error{Kind: KindNoURL}
	ErrOperationFailed   = &Error{Kind: KindOperationFailed}
)

// New creates an error of the given kind for a path.
func New(kind Kind, path string) *Error {
	return &Error{Kind: kind, Path: path}
}

// InvalidPath reports a path that cannot be mapped to a store key.
func InvalidPath(path, msg string) *Error {
	return &Error{Kind: KindInvalidPath, Path: path, Message: msg}
}

// NotFound reports a missing file or directory.
func NotFound(path string) *Error {
	return &Error{Kind: KindResourceNotFound, Path: path}
}

// FileExists reports an exclusive-create conflict.
func FileExists(path string) *Error {
	return &Error{Kind: KindFileExists, Path: path}
}

// DirectoryExists reports an attempt to create a directory that already exists.
func DirectoryExists(path string) *Error {
	return &Error{Kind: KindDirectoryExists, Path: path}
}

// DirectoryNotEmpty reports an attempt to remove a directory with children.
func DirectoryNotEmpty(path string) *Error {
	return &Error{Kind: KindDirectoryNotEmpty, Path: path}
}

// FileExpected reports a directory found where a file was required.
func FileExpected(path string) *Error {
	return &Error{Kind: KindFileExpected, Path: path}
}

// DirectoryExpected reports a file found where a directory was required.
func DirectoryExpected(path string) *Error {
	return &Error{Kind: KindDirectoryExpected, Path: path}
}

// PermissionDenied reports an access-denied response from the store.
func PermissionDenied(path string) *Error {
	return &Error{Kind: KindPermissionDenied, Path: path}
}

// NoURL reports a path for which no URL can be generated.
func NoURL(path string) *Error {
	return &Error{Kind: KindNoURL, Path: path}
}

// OperationFailed wraps a transport or service failure that maps to no more
// specific kind. The cause is preserved for diagnostics.
func OperationFailed(path string, cause error) *Error {
	return &Error{Kind: KindOperationFailed, Path: path, Cause: cause}
}

// KindOf extracts the Kind from an error chain, or "" if the chain contains
// no taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a ResourceNotFound error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func defaultMessage(kind Kind) string {
	switch kind {
	case KindInvalidPath:
		return "invalid path"
	case KindResourceNotFound:
		return "resource not found"
	case KindFileExists:
		return "file exists"
	case KindDirectoryExists:
		return "directory exists"
	case KindDirectoryNotEmpty:
		return "directory not empty"
	case KindFileExpected:
		return "file expected"
	case KindDirectoryExpected:
		return "directory expected"
	case KindPermissionDenied:
		return "permission denied"
	case KindNoURL:
		return "no URL available"
	case KindOperationFailed:
		return "operation failed"
	}
	return string(kind)
}
