package dequedict

// node is one entry of the linked implementation.
// prev/next are owned by the store; cacheIdx is the node's slot in the
// position cache, or -1 when it has none.
type node[K comparable, V any] struct {
	key   K
	value V

	prev, next *node[K, V]
	cacheIdx   int
}

func newNode[K comparable, V any](key K, value V) *node[K, V] {
	return &node[K, V]{key: key, value: value, cacheIdx: -1}
}

// store is a doubly linked chain with head/tail anchors.
// Every method expects n to be a member (or, for the link methods, a
// detached node); the container guarantees this by only reaching nodes
// through the key index.
type store[K comparable, V any] struct {
	head, tail *node[K, V]
}

func (s *store[K, V]) appendTail(n *node[K, V]) {
	n.next = nil
	n.prev = s.tail
	if s.tail == nil {
		s.head = n
	} else {
		s.tail.next = n
	}
	s.tail = n
}

func (s *store[K, V]) prependHead(n *node[K, V]) {
	n.prev = nil
	n.next = s.head
	if s.head == nil {
		s.tail = n
	} else {
		s.head.prev = n
	}
	s.head = n
}

func (s *store[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// move relinks n at the requested end and reports whether anything changed.
func (s *store[K, V]) move(n *node[K, V], toFront bool) bool {
	if (toFront && s.head == n) || (!toFront && s.tail == n) {
		return false
	}
	s.unlink(n)
	if toFront {
		s.prependHead(n)
	} else {
		s.appendTail(n)
	}
	return true
}

func (s *store[K, V]) reset() {
	s.head, s.tail = nil, nil
}
