// Package apperr defines the sentinel errors shared across Fimbra.
//
// Every public operation wraps one of these with path context via
// fmt.Errorf so callers can branch with errors.Is while still getting a
// human-readable message. All of them are recoverable; none aborts the
// hosting process.
package apperr

import "errors"

var (
	// ErrIO marks a create/open/read/write failure on the filesystem.
	ErrIO = errors.New("i/o failure")
	// ErrFormat marks a malformed container or a missing payload entry.
	ErrFormat = errors.New("invalid container format")
	// ErrSerialization marks a JSON encode/decode failure.
	ErrSerialization = errors.New("serialization failure")
	// ErrSchema marks a missing (0) or too-new schema version.
	ErrSchema = errors.New("unsupported schema version")
	// ErrResourceLimit marks a payload exceeding the read cap.
	ErrResourceLimit = errors.New("resource limit exceeded")
	// ErrUnsupportedFormat marks an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNotFound marks a missing document or recovery file.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks caller-supplied parameters outside the
	// accepted enumerations (export format, linearization ordering).
	ErrInvalidArgument = errors.New("invalid argument")
)
