package dequedict

import "iter"

// cacheCompactMin is the smallest front offset at which the position cache
// is compacted after a front pop.
const cacheCompactMin = 64

// DequeDict is the pointer-linked Dict implementation.
//
// The core design mirrors a classic LRU: a map gives O(1) key lookup and a
// doubly linked list keeps the order. On top of that a position cache (a
// slice of nodes plus a front offset) gives amortized O(1) At.
//
// Cache rules:
//   - Set of a new key and PopBack keep the cache in sync at its end.
//   - PopFront advances the offset.
//   - Delete, Pop, Prepend and a real MoveToEnd drop the cache; the next
//     positional lookup rebuilds it in O(n).
//
// The zero value is not usable; construct with NewLinked or New.
type DequeDict[K comparable, V any] struct {
	items map[K]*node[K, V]
	list  store[K, V]

	cache       []*node[K, V]
	cacheOffset int
	cached      bool
	rebuilds    int
}

var _ Dict[string, int] = (*DequeDict[string, int])(nil)

// NewLinked returns an empty pointer-linked container.
func NewLinked[K comparable, V any]() *DequeDict[K, V] {
	return &DequeDict[K, V]{items: make(map[K]*node[K, V])}
}

// Len returns the number of pairs.
func (d *DequeDict[K, V]) Len() int { return len(d.items) }

// Contains reports whether key is present.
func (d *DequeDict[K, V]) Contains(key K) bool {
	_, ok := d.items[key]
	return ok
}

// Get returns the value for key or a *KeyError if it is absent.
func (d *DequeDict[K, V]) Get(key K) (V, error) {
	n, ok := d.items[key]
	if !ok {
		var zero V
		return zero, missing(key)
	}
	return n.value, nil
}

// GetOr returns the value for key, or def if it is absent.
func (d *DequeDict[K, V]) GetOr(key K, def V) V {
	if n, ok := d.items[key]; ok {
		return n.value
	}
	return def
}

// Lookup returns the value for key and whether it was present.
func (d *DequeDict[K, V]) Lookup(key K) (V, bool) {
	n, ok := d.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Set replaces the value of an existing key in place, or appends a new key
// at the back.
func (d *DequeDict[K, V]) Set(key K, value V) {
	if n, ok := d.items[key]; ok {
		n.value = value
		return
	}
	n := newNode(key, value)
	d.items[key] = n
	d.list.appendTail(n)
	if d.cached {
		n.cacheIdx = len(d.cache)
		d.cache = append(d.cache, n)
	}
}

// SetDefault returns the value for key, inserting def at the back first if
// the key is absent.
func (d *DequeDict[K, V]) SetDefault(key K, def V) V {
	if n, ok := d.items[key]; ok {
		return n.value
	}
	d.Set(key, def)
	return def
}

// Delete removes key, or returns a *KeyError if it is absent.
func (d *DequeDict[K, V]) Delete(key K) error {
	n, ok := d.items[key]
	if !ok {
		return missing(key)
	}
	d.remove(n)
	return nil
}

// Clear removes every pair.
func (d *DequeDict[K, V]) Clear() {
	clear(d.items)
	d.list.reset()
	d.invalidate()
}

// Copy returns a new DequeDict with the same pairs in the same order.
// Values are copied by assignment.
func (d *DequeDict[K, V]) Copy() Dict[K, V] {
	out := NewLinked[K, V]()
	for n := d.list.head; n != nil; n = n.next {
		out.Set(n.key, n.value)
	}
	return out
}

// Update sets every pair of src in src's order; the last write wins.
func (d *DequeDict[K, V]) Update(src iter.Seq2[K, V]) {
	for k, v := range src {
		d.Set(k, v)
	}
}

// UpdateMap sets every pair of src. Keys new to d are appended in Go map
// iteration order, which is unspecified.
func (d *DequeDict[K, V]) UpdateMap(src map[K]V) {
	for k, v := range src {
		d.Set(k, v)
	}
}

// PeekFront returns the first value without removing it.
func (d *DequeDict[K, V]) PeekFront() (V, error) {
	if d.list.head == nil {
		var zero V
		return zero, errPeekEmpty
	}
	return d.list.head.value, nil
}

// PeekFrontItem returns the first pair without removing it.
func (d *DequeDict[K, V]) PeekFrontItem() (K, V, error) {
	if d.list.head == nil {
		var (
			k K
			v V
		)
		return k, v, errPeekEmpty
	}
	return d.list.head.key, d.list.head.value, nil
}

// PeekFrontKey returns the first key without removing it.
func (d *DequeDict[K, V]) PeekFrontKey() (K, error) {
	if d.list.head == nil {
		var zero K
		return zero, errPeekEmpty
	}
	return d.list.head.key, nil
}

// PeekBack returns the last value without removing it.
func (d *DequeDict[K, V]) PeekBack() (V, error) {
	if d.list.tail == nil {
		var zero V
		return zero, errPeekEmpty
	}
	return d.list.tail.value, nil
}

// PeekBackItem returns the last pair without removing it.
func (d *DequeDict[K, V]) PeekBackItem() (K, V, error) {
	if d.list.tail == nil {
		var (
			k K
			v V
		)
		return k, v, errPeekEmpty
	}
	return d.list.tail.key, d.list.tail.value, nil
}

// PeekBackKey returns the last key without removing it.
func (d *DequeDict[K, V]) PeekBackKey() (K, error) {
	if d.list.tail == nil {
		var zero K
		return zero, errPeekEmpty
	}
	return d.list.tail.key, nil
}

// PopFront removes the first pair and returns its value.
// A present position cache stays valid.
func (d *DequeDict[K, V]) PopFront() (V, error) {
	_, v, err := d.PopFrontItem()
	return v, err
}

// PopFrontItem removes the first pair and returns it.
func (d *DequeDict[K, V]) PopFrontItem() (K, V, error) {
	n := d.list.head
	if n == nil {
		var (
			k K
			v V
		)
		return k, v, errPopEmpty
	}
	delete(d.items, n.key)
	d.list.unlink(n)
	if d.cached {
		d.cache[d.cacheOffset] = nil
		d.cacheOffset++
		if d.cacheOffset >= cacheCompactMin && d.cacheOffset*2 >= len(d.cache) {
			d.compactCache()
		}
	}
	n.cacheIdx = -1
	return n.key, n.value, nil
}

// PopBack removes the last pair and returns its value.
// A present position cache stays valid.
func (d *DequeDict[K, V]) PopBack() (V, error) {
	_, v, err := d.PopBackItem()
	return v, err
}

// PopBackItem removes the last pair and returns it.
func (d *DequeDict[K, V]) PopBackItem() (K, V, error) {
	n := d.list.tail
	if n == nil {
		var (
			k K
			v V
		)
		return k, v, errPopEmpty
	}
	delete(d.items, n.key)
	d.list.unlink(n)
	if d.cached {
		last := len(d.cache) - 1
		d.cache[last] = nil
		d.cache = d.cache[:last]
	}
	n.cacheIdx = -1
	return n.key, n.value, nil
}

// Pop removes key and returns its value, or a *KeyError if it is absent.
func (d *DequeDict[K, V]) Pop(key K) (V, error) {
	n, ok := d.items[key]
	if !ok {
		var zero V
		return zero, missing(key)
	}
	d.remove(n)
	return n.value, nil
}

// PopOr removes key and returns its value, or returns def if it is absent.
func (d *DequeDict[K, V]) PopOr(key K, def V) V {
	n, ok := d.items[key]
	if !ok {
		return def
	}
	d.remove(n)
	return n.value
}

// Prepend inserts a new key at the front. It fails if the key is present.
func (d *DequeDict[K, V]) Prepend(key K, value V) error {
	if _, ok := d.items[key]; ok {
		return exists(key)
	}
	n := newNode(key, value)
	d.items[key] = n
	d.list.prependHead(n)
	d.invalidate()
	return nil
}

// MoveToEnd moves an existing key to the back, or to the front when toFront
// is set. Moving a key to the end it already occupies changes nothing.
func (d *DequeDict[K, V]) MoveToEnd(key K, toFront bool) error {
	n, ok := d.items[key]
	if !ok {
		return missing(key)
	}
	if d.list.move(n, toFront) {
		d.invalidate()
	}
	return nil
}

// At returns the value at a logical position. Negative indexes count from
// the back. The first call after an interior mutation costs O(n).
func (d *DequeDict[K, V]) At(index int) (V, error) {
	n, err := d.nodeAt(index)
	if err != nil {
		var zero V
		return zero, err
	}
	return n.value, nil
}

// AtItem returns the pair at a logical position.
func (d *DequeDict[K, V]) AtItem(index int) (K, V, error) {
	n, err := d.nodeAt(index)
	if err != nil {
		var (
			k K
			v V
		)
		return k, v, err
	}
	return n.key, n.value, nil
}

// Index returns the logical position of key.
func (d *DequeDict[K, V]) Index(key K) (int, error) {
	n, ok := d.items[key]
	if !ok {
		return -1, missing(key)
	}
	if !d.cached {
		d.rebuildCache()
	}
	return n.cacheIdx - d.cacheOffset, nil
}

// All iterates pairs front to back.
func (d *DequeDict[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := d.list.head; n != nil; n = n.next {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Backward iterates pairs back to front.
func (d *DequeDict[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := d.list.tail; n != nil; n = n.prev {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Keys returns a live view of the keys.
func (d *DequeDict[K, V]) Keys() KeysView[K, V] { return KeysView[K, V]{src: d} }

// Values returns a live view of the values.
func (d *DequeDict[K, V]) Values() ValuesView[K, V] { return ValuesView[K, V]{src: d} }

// Items returns a live view of the pairs.
func (d *DequeDict[K, V]) Items() ItemsView[K, V] { return ItemsView[K, V]{src: d} }

// String renders the pairs as DequeDict([(k, v), ...]).
func (d *DequeDict[K, V]) String() string {
	return format(typeName, d.Len(), d.All())
}

func (d *DequeDict[K, V]) remove(n *node[K, V]) {
	delete(d.items, n.key)
	d.list.unlink(n)
	d.invalidate()
}

func (d *DequeDict[K, V]) nodeAt(index int) (*node[K, V], error) {
	if !d.cached {
		d.rebuildCache()
	}
	size := len(d.cache) - d.cacheOffset
	i := index
	if i < 0 {
		i += size
	}
	if i < 0 || i >= size {
		return nil, &IndexError{Index: index, Len: size}
	}
	return d.cache[d.cacheOffset+i], nil
}

func (d *DequeDict[K, V]) invalidate() {
	d.cache = nil
	d.cacheOffset = 0
	d.cached = false
}

func (d *DequeDict[K, V]) rebuildCache() {
	cache := make([]*node[K, V], 0, len(d.items))
	for n := d.list.head; n != nil; n = n.next {
		n.cacheIdx = len(cache)
		cache = append(cache, n)
	}
	d.cache = cache
	d.cacheOffset = 0
	d.cached = true
	d.rebuilds++
}

// compactCache shifts the live part of the cache to the start of its backing
// array. It is O(live) and runs only once the dead prefix is at least as
// long as the live part.
func (d *DequeDict[K, V]) compactCache() {
	live := copy(d.cache, d.cache[d.cacheOffset:])
	clear(d.cache[live:])
	d.cache = d.cache[:live]
	for i, n := range d.cache {
		n.cacheIdx = i
	}
	d.cacheOffset = 0
}
