package dequedict

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrKeyNotFound is matched by a *KeyError for a key that is not present.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyExists is matched by a *KeyError returned from Prepend on a present key.
	ErrKeyExists = errors.New("key already exists")
	// ErrEmpty is returned by the peek and pop operations on an empty container.
	ErrEmpty = errors.New("empty container")
	// ErrIndexOutOfRange is matched by an *IndexError whose index falls outside
	// a non-empty container.
	ErrIndexOutOfRange = errors.New("index out of range")

	errPeekEmpty = errors.WithMessage(ErrEmpty, "peek")
	errPopEmpty  = errors.WithMessage(ErrEmpty, "pop")
)

// KeyError carries the offending key of a keyed operation.
type KeyError struct {
	Key    any
	Exists bool
}

func (e *KeyError) Error() string {
	if e.Exists {
		return fmt.Sprintf("key %v already exists", e.Key)
	}
	return fmt.Sprintf("key %v not found", e.Key)
}

func (e *KeyError) Unwrap() error {
	if e.Exists {
		return ErrKeyExists
	}
	return ErrKeyNotFound
}

// IndexError carries the offending index of a positional lookup and the
// logical length the index was checked against.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("index %d: %v", e.Index, ErrEmpty)
	}
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	if e.Len == 0 {
		return ErrEmpty
	}
	return ErrIndexOutOfRange
}

func missing[K comparable](key K) error {
	return &KeyError{Key: key}
}

func exists[K comparable](key K) error {
	return &KeyError{Key: key, Exists: true}
}
