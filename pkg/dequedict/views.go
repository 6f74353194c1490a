package dequedict

import "iter"

// source is what a view reads through. Views keep no state of their own,
// so they always reflect the current contents of the container. Mutating the
// container while ranging over a view leaves the rest of that iteration
// undefined.
type source[K comparable, V any] interface {
	Len() int
	Lookup(key K) (V, bool)
	All() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]
}

// KeysView is a live view of a container's keys.
type KeysView[K comparable, V any] struct {
	src source[K, V]
}

func (kv KeysView[K, V]) Len() int { return kv.src.Len() }

// Contains is O(1).
func (kv KeysView[K, V]) Contains(key K) bool {
	_, ok := kv.src.Lookup(key)
	return ok
}

func (kv KeysView[K, V]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range kv.src.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (kv KeysView[K, V]) Backward() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range kv.src.Backward() {
			if !yield(k) {
				return
			}
		}
	}
}

// Slice returns the keys front to back.
func (kv KeysView[K, V]) Slice() []K {
	out := make([]K, 0, kv.src.Len())
	for k := range kv.src.All() {
		out = append(out, k)
	}
	return out
}

// ValuesView is a live view of a container's values.
type ValuesView[K comparable, V any] struct {
	src source[K, V]
}

func (vv ValuesView[K, V]) Len() int { return vv.src.Len() }

// ContainsFunc reports whether any value satisfies match. It is O(n).
func (vv ValuesView[K, V]) ContainsFunc(match func(V) bool) bool {
	for _, v := range vv.src.All() {
		if match(v) {
			return true
		}
	}
	return false
}

func (vv ValuesView[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range vv.src.All() {
			if !yield(v) {
				return
			}
		}
	}
}

func (vv ValuesView[K, V]) Backward() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range vv.src.Backward() {
			if !yield(v) {
				return
			}
		}
	}
}

func (vv ValuesView[K, V]) Slice() []V {
	out := make([]V, 0, vv.src.Len())
	for _, v := range vv.src.All() {
		out = append(out, v)
	}
	return out
}

// ItemsView is a live view of a container's pairs.
type ItemsView[K comparable, V any] struct {
	src source[K, V]
}

func (iv ItemsView[K, V]) Len() int { return iv.src.Len() }

// ContainsFunc reports whether key is present with a value eq considers
// equal to value.
func (iv ItemsView[K, V]) ContainsFunc(key K, value V, eq func(V, V) bool) bool {
	v, ok := iv.src.Lookup(key)
	return ok && eq(v, value)
}

func (iv ItemsView[K, V]) All() iter.Seq2[K, V]      { return iv.src.All() }
func (iv ItemsView[K, V]) Backward() iter.Seq2[K, V] { return iv.src.Backward() }

func (iv ItemsView[K, V]) Slice() []Item[K, V] {
	out := make([]Item[K, V], 0, iv.src.Len())
	for k, v := range iv.src.All() {
		out = append(out, Item[K, V]{Key: k, Value: v})
	}
	return out
}

// ValuesContain reports whether value is one of vv's values.
func ValuesContain[K, V comparable](vv ValuesView[K, V], value V) bool {
	return vv.ContainsFunc(func(v V) bool { return v == value })
}

// ItemsContain reports whether the pair (key, value) is in iv.
func ItemsContain[K, V comparable](iv ItemsView[K, V], key K, value V) bool {
	return iv.ContainsFunc(key, value, func(a, b V) bool { return a == b })
}
