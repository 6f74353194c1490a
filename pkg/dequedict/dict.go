package dequedict

import (
	"iter"
	"os"
	"strings"
	"sync"
)

// Dict is the operation set shared by every container implementation.
//
// Ordering is insertion order: Set appends new keys at the back, Prepend
// inserts at the front. Updating an existing key never moves it.
//
// A Dict is not safe for concurrent use.
type Dict[K comparable, V any] interface {
	Len() int
	Contains(key K) bool
	Get(key K) (V, error)
	GetOr(key K, def V) V
	Lookup(key K) (V, bool)
	Set(key K, value V)
	SetDefault(key K, def V) V
	Delete(key K) error
	Clear()
	Copy() Dict[K, V]
	Update(src iter.Seq2[K, V])
	UpdateMap(src map[K]V)

	PeekFront() (V, error)
	PeekFrontItem() (K, V, error)
	PeekFrontKey() (K, error)
	PeekBack() (V, error)
	PeekBackItem() (K, V, error)
	PeekBackKey() (K, error)

	PopFront() (V, error)
	PopFrontItem() (K, V, error)
	PopBack() (V, error)
	PopBackItem() (K, V, error)
	Pop(key K) (V, error)
	PopOr(key K, def V) V

	Prepend(key K, value V) error
	MoveToEnd(key K, toFront bool) error

	At(index int) (V, error)
	AtItem(index int) (K, V, error)
	Index(key K) (int, error)

	All() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]
	Keys() KeysView[K, V]
	Values() ValuesView[K, V]
	Items() ItemsView[K, V]

	String() string
}

// Item is a single key/value pair.
type Item[K comparable, V any] struct {
	Key   K
	Value V
}

// Impl names a Dict implementation.
type Impl string

const (
	// Linked is the pointer-linked implementation (DequeDict).
	Linked Impl = "linked"
	// ArenaImpl is the slice-backed implementation (Arena).
	ArenaImpl Impl = "arena"
)

// ImplEnv is the environment variable that selects the implementation
// returned by New. It is read once per process.
const ImplEnv = "DEQUEDICT_IMPL"

var selected = sync.OnceValue(func() Impl {
	return implFromEnv(os.Getenv)
})

func implFromEnv(getenv func(string) string) Impl {
	return ParseImpl(getenv(ImplEnv))
}

// ParseImpl maps a name to an Impl. Unknown or empty names select Linked.
func ParseImpl(s string) Impl {
	switch Impl(strings.ToLower(strings.TrimSpace(s))) {
	case ArenaImpl:
		return ArenaImpl
	default:
		return Linked
	}
}

// Implementation reports which implementation New constructs.
func Implementation() Impl {
	return selected()
}

// New returns an empty Dict of the process-wide implementation.
func New[K comparable, V any]() Dict[K, V] {
	return NewImpl[K, V](Implementation())
}

// NewImpl returns an empty Dict of the given implementation.
func NewImpl[K comparable, V any](impl Impl) Dict[K, V] {
	if impl == ArenaImpl {
		return NewArena[K, V]()
	}
	return NewLinked[K, V]()
}

// From builds a Dict from an ordered source, preserving its order.
// Duplicate keys keep their first position and their last value.
func From[K comparable, V any](src iter.Seq2[K, V]) Dict[K, V] {
	d := New[K, V]()
	d.Update(src)
	return d
}

// Of builds a Dict from pairs, preserving their order.
func Of[K comparable, V any](items ...Item[K, V]) Dict[K, V] {
	d := New[K, V]()
	for _, it := range items {
		d.Set(it.Key, it.Value)
	}
	return d
}
