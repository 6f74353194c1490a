package dequedict

import "iter"

// none marks an absent slot handle.
const none = -1

// slot is one entry of the arena. prev/next are handles into the same arena.
// A free slot uses next to chain the free list.
type slot[K comparable, V any] struct {
	key   K
	value V

	prev, next int
	cacheIdx   int
}

// Arena is a Dict whose entries live in one slice and link to each other by
// index instead of by pointer. Removed slots are recycled through a free
// list, so a steady-state queue allocates nothing per operation. It behaves
// exactly like DequeDict; New selects it when DEQUEDICT_IMPL=arena.
type Arena[K comparable, V any] struct {
	index      map[K]int
	slots      []slot[K, V]
	head, tail int
	free       int

	cache       []int
	cacheOffset int
	cached      bool
	rebuilds    int
}

var _ Dict[string, int] = (*Arena[string, int])(nil)

// NewArena returns an empty arena-backed container.
func NewArena[K comparable, V any]() *Arena[K, V] {
	return &Arena[K, V]{
		index: make(map[K]int),
		head:  none,
		tail:  none,
		free:  none,
	}
}

func (a *Arena[K, V]) alloc(key K, value V) int {
	s := slot[K, V]{key: key, value: value, prev: none, next: none, cacheIdx: none}
	if a.free == none {
		a.slots = append(a.slots, s)
		return len(a.slots) - 1
	}
	h := a.free
	a.free = a.slots[h].next
	a.slots[h] = s
	return h
}

func (a *Arena[K, V]) release(h int) {
	a.slots[h] = slot[K, V]{prev: none, next: a.free, cacheIdx: none}
	a.free = h
}

func (a *Arena[K, V]) linkTail(h int) {
	s := &a.slots[h]
	s.prev, s.next = a.tail, none
	if a.tail == none {
		a.head = h
	} else {
		a.slots[a.tail].next = h
	}
	a.tail = h
}

func (a *Arena[K, V]) linkHead(h int) {
	s := &a.slots[h]
	s.prev, s.next = none, a.head
	if a.head == none {
		a.tail = h
	} else {
		a.slots[a.head].prev = h
	}
	a.head = h
}

func (a *Arena[K, V]) unlink(h int) {
	s := &a.slots[h]
	if s.prev != none {
		a.slots[s.prev].next = s.next
	} else {
		a.head = s.next
	}
	if s.next != none {
		a.slots[s.next].prev = s.prev
	} else {
		a.tail = s.prev
	}
	s.prev, s.next = none, none
}

// Len returns the number of pairs.
func (a *Arena[K, V]) Len() int { return len(a.index) }

// Contains reports whether key is present.
func (a *Arena[K, V]) Contains(key K) bool {
	_, ok := a.index[key]
	return ok
}

// Get returns the value for key or a *KeyError if it is absent.
func (a *Arena[K, V]) Get(key K) (V, error) {
	h, ok := a.index[key]
	if !ok {
		var zero V
		return zero, missing(key)
	}
	return a.slots[h].value, nil
}

// GetOr returns the value for key, or def if it is absent.
func (a *Arena[K, V]) GetOr(key K, def V) V {
	if h, ok := a.index[key]; ok {
		return a.slots[h].value
	}
	return def
}

// Lookup returns the value for key and whether it was present.
func (a *Arena[K, V]) Lookup(key K) (V, bool) {
	h, ok := a.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return a.slots[h].value, true
}

// Set replaces the value of an existing key in place, or appends a new key
// at the back.
func (a *Arena[K, V]) Set(key K, value V) {
	if h, ok := a.index[key]; ok {
		a.slots[h].value = value
		return
	}
	h := a.alloc(key, value)
	a.index[key] = h
	a.linkTail(h)
	if a.cached {
		a.slots[h].cacheIdx = len(a.cache)
		a.cache = append(a.cache, h)
	}
}

// SetDefault returns the value for key, inserting def at the back first if
// the key is absent.
func (a *Arena[K, V]) SetDefault(key K, def V) V {
	if h, ok := a.index[key]; ok {
		return a.slots[h].value
	}
	a.Set(key, def)
	return def
}

// Delete removes key, or returns a *KeyError if it is absent.
func (a *Arena[K, V]) Delete(key K) error {
	h, ok := a.index[key]
	if !ok {
		return missing(key)
	}
	a.remove(h)
	return nil
}

// Clear removes every pair.
func (a *Arena[K, V]) Clear() {
	clear(a.index)
	clear(a.slots)
	a.slots = a.slots[:0]
	a.head, a.tail, a.free = none, none, none
	a.invalidate()
}

// Copy returns a new Arena with the same pairs in the same order.
func (a *Arena[K, V]) Copy() Dict[K, V] {
	out := NewArena[K, V]()
	out.slots = make([]slot[K, V], 0, len(a.index))
	for h := a.head; h != none; h = a.slots[h].next {
		out.Set(a.slots[h].key, a.slots[h].value)
	}
	return out
}

// Update sets every pair of src in src's order; the last write wins.
func (a *Arena[K, V]) Update(src iter.Seq2[K, V]) {
	for k, v := range src {
		a.Set(k, v)
	}
}

// UpdateMap sets every pair of src in Go map iteration order.
func (a *Arena[K, V]) UpdateMap(src map[K]V) {
	for k, v := range src {
		a.Set(k, v)
	}
}

// PeekFront returns the first value without removing it.
func (a *Arena[K, V]) PeekFront() (V, error) {
	_, v, err := a.PeekFrontItem()
	return v, err
}

// PeekFrontItem returns the first pair without removing it.
func (a *Arena[K, V]) PeekFrontItem() (K, V, error) {
	return a.peek(a.head)
}

// PeekFrontKey returns the first key without removing it.
func (a *Arena[K, V]) PeekFrontKey() (K, error) {
	k, _, err := a.PeekFrontItem()
	return k, err
}

// PeekBack returns the last value without removing it.
func (a *Arena[K, V]) PeekBack() (V, error) {
	_, v, err := a.PeekBackItem()
	return v, err
}

// PeekBackItem returns the last pair without removing it.
func (a *Arena[K, V]) PeekBackItem() (K, V, error) {
	return a.peek(a.tail)
}

// PeekBackKey returns the last key without removing it.
func (a *Arena[K, V]) PeekBackKey() (K, error) {
	k, _, err := a.PeekBackItem()
	return k, err
}

func (a *Arena[K, V]) peek(h int) (K, V, error) {
	if h == none {
		var (
			k K
			v V
		)
		return k, v, errPeekEmpty
	}
	return a.slots[h].key, a.slots[h].value, nil
}

// PopFront removes the first pair and returns its value.
func (a *Arena[K, V]) PopFront() (V, error) {
	_, v, err := a.PopFrontItem()
	return v, err
}

// PopFrontItem removes the first pair and returns it.
func (a *Arena[K, V]) PopFrontItem() (K, V, error) {
	h := a.head
	if h == none {
		var (
			k K
			v V
		)
		return k, v, errPopEmpty
	}
	k, v := a.slots[h].key, a.slots[h].value
	delete(a.index, k)
	a.unlink(h)
	a.release(h)
	if a.cached {
		a.cacheOffset++
		if a.cacheOffset >= cacheCompactMin && a.cacheOffset*2 >= len(a.cache) {
			a.compactCache()
		}
	}
	return k, v, nil
}

// PopBack removes the last pair and returns its value.
func (a *Arena[K, V]) PopBack() (V, error) {
	_, v, err := a.PopBackItem()
	return v, err
}

// PopBackItem removes the last pair and returns it.
func (a *Arena[K, V]) PopBackItem() (K, V, error) {
	h := a.tail
	if h == none {
		var (
			k K
			v V
		)
		return k, v, errPopEmpty
	}
	k, v := a.slots[h].key, a.slots[h].value
	delete(a.index, k)
	a.unlink(h)
	a.release(h)
	if a.cached {
		a.cache = a.cache[:len(a.cache)-1]
	}
	return k, v, nil
}

// Pop removes key and returns its value, or a *KeyError if it is absent.
func (a *Arena[K, V]) Pop(key K) (V, error) {
	h, ok := a.index[key]
	if !ok {
		var zero V
		return zero, missing(key)
	}
	v := a.slots[h].value
	a.remove(h)
	return v, nil
}

// PopOr removes key and returns its value, or returns def if it is absent.
func (a *Arena[K, V]) PopOr(key K, def V) V {
	h, ok := a.index[key]
	if !ok {
		return def
	}
	v := a.slots[h].value
	a.remove(h)
	return v
}

// Prepend inserts a new key at the front. It fails if the key is present.
func (a *Arena[K, V]) Prepend(key K, value V) error {
	if _, ok := a.index[key]; ok {
		return exists(key)
	}
	h := a.alloc(key, value)
	a.index[key] = h
	a.linkHead(h)
	a.invalidate()
	return nil
}

// MoveToEnd moves an existing key to the back, or to the front when toFront
// is set.
func (a *Arena[K, V]) MoveToEnd(key K, toFront bool) error {
	h, ok := a.index[key]
	if !ok {
		return missing(key)
	}
	if (toFront && a.head == h) || (!toFront && a.tail == h) {
		return nil
	}
	a.unlink(h)
	if toFront {
		a.linkHead(h)
	} else {
		a.linkTail(h)
	}
	a.invalidate()
	return nil
}

// At returns the value at a logical position. Negative indexes count from
// the back.
func (a *Arena[K, V]) At(index int) (V, error) {
	_, v, err := a.AtItem(index)
	return v, err
}

// AtItem returns the pair at a logical position.
func (a *Arena[K, V]) AtItem(index int) (K, V, error) {
	if !a.cached {
		a.rebuildCache()
	}
	size := len(a.cache) - a.cacheOffset
	i := index
	if i < 0 {
		i += size
	}
	if i < 0 || i >= size {
		var (
			k K
			v V
		)
		return k, v, &IndexError{Index: index, Len: size}
	}
	s := &a.slots[a.cache[a.cacheOffset+i]]
	return s.key, s.value, nil
}

// Index returns the logical position of key.
func (a *Arena[K, V]) Index(key K) (int, error) {
	h, ok := a.index[key]
	if !ok {
		return -1, missing(key)
	}
	if !a.cached {
		a.rebuildCache()
	}
	return a.slots[h].cacheIdx - a.cacheOffset, nil
}

// All iterates pairs front to back.
func (a *Arena[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for h := a.head; h != none; h = a.slots[h].next {
			if !yield(a.slots[h].key, a.slots[h].value) {
				return
			}
		}
	}
}

// Backward iterates pairs back to front.
func (a *Arena[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for h := a.tail; h != none; h = a.slots[h].prev {
			if !yield(a.slots[h].key, a.slots[h].value) {
				return
			}
		}
	}
}

// Keys returns a live view of the keys.
func (a *Arena[K, V]) Keys() KeysView[K, V] { return KeysView[K, V]{src: a} }

// Values returns a live view of the values.
func (a *Arena[K, V]) Values() ValuesView[K, V] { return ValuesView[K, V]{src: a} }

// Items returns a live view of the pairs.
func (a *Arena[K, V]) Items() ItemsView[K, V] { return ItemsView[K, V]{src: a} }

// String renders the pairs as DequeDict([(k, v), ...]).
func (a *Arena[K, V]) String() string {
	return format(typeName, a.Len(), a.All())
}

func (a *Arena[K, V]) remove(h int) {
	delete(a.index, a.slots[h].key)
	a.unlink(h)
	a.release(h)
	a.invalidate()
}

func (a *Arena[K, V]) invalidate() {
	a.cache = nil
	a.cacheOffset = 0
	a.cached = false
}

func (a *Arena[K, V]) rebuildCache() {
	cache := make([]int, 0, len(a.index))
	for h := a.head; h != none; h = a.slots[h].next {
		a.slots[h].cacheIdx = len(cache)
		cache = append(cache, h)
	}
	a.cache = cache
	a.cacheOffset = 0
	a.cached = true
	a.rebuilds++
}

func (a *Arena[K, V]) compactCache() {
	live := copy(a.cache, a.cache[a.cacheOffset:])
	a.cache = a.cache[:live]
	for i, h := range a.cache {
		a.slots[h].cacheIdx = i
	}
	a.cacheOffset = 0
}
