package dequedict

import (
	"fmt"
	"strings"
)

// Default wraps a Dict and materializes missing keys on Get by calling a
// factory, like a defaultdict. Every other operation goes straight to the
// wrapped container, so a materialized key is an ordinary tail insertion.
type Default[K comparable, V any] struct {
	Dict[K, V]
	factory func() V
}

// NewDefault wraps inner. A nil inner gets a fresh container from New. A
// nil factory makes Get behave like the wrapped container's Get.
func NewDefault[K comparable, V any](factory func() V, inner Dict[K, V]) *Default[K, V] {
	if inner == nil {
		inner = New[K, V]()
	}
	return &Default[K, V]{Dict: inner, factory: factory}
}

// Get returns the value for key. On a miss it stores and returns a fresh
// value from the factory, or returns a *KeyError when there is no factory.
func (d *Default[K, V]) Get(key K) (V, error) {
	if v, ok := d.Dict.Lookup(key); ok {
		return v, nil
	}
	if d.factory == nil {
		var zero V
		return zero, missing(key)
	}
	v := d.factory()
	d.Dict.Set(key, v)
	return v, nil
}

// Factory returns the configured factory, which may be nil.
func (d *Default[K, V]) Factory() func() V { return d.factory }

// Copy copies the wrapped container and keeps the same factory.
func (d *Default[K, V]) Copy() Dict[K, V] {
	return &Default[K, V]{Dict: d.Dict.Copy(), factory: d.factory}
}

func (d *Default[K, V]) String() string {
	var b strings.Builder
	b.WriteString("Default(")
	if d.factory == nil {
		b.WriteString("nil")
	} else {
		fmt.Fprintf(&b, "%T", d.factory)
	}
	b.WriteString(", [")
	writeItems(&b, d.Dict.All())
	b.WriteString("])")
	return b.String()
}

// Unwrap returns the wrapped container.
func (d *Default[K, V]) Unwrap() Dict[K, V] { return d.Dict }
