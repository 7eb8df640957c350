package paging

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCursor is returned when a cursor token cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidArguments is returned for conflicting, missing or out of range
	// pagination arguments. No storage call is made.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrStorage marks failures of the storage capability.
	ErrStorage = errors.New("storage error")
)

// InvalidArgumentsError lists the offending arguments keyed by name.
type InvalidArgumentsError struct {
	Fields map[string]string
}

func (e *InvalidArgumentsError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidArguments, strings.Join(parts, "; "))
}

// Is matches ErrInvalidArguments.
func (e *InvalidArgumentsError) Is(target error) bool {
	return target == ErrInvalidArguments
}

func invalidArgument(field, message string) error {
	return &InvalidArgumentsError{Fields: map[string]string{field: message}}
}

func invalidArguments(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &InvalidArgumentsError{Fields: fields}
}

// StorageError wraps an error returned by the storage capability. The cause
// stays reachable, so errors.Is(err, context.Canceled) keeps working.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func cursorError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCursor, reason)
}
