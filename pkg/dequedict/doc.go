// Package dequedict implements an ordered map with deque discipline.
//
// Goals for this package:
//   - O(1) Get/Set/Delete/Contains through a key index (Go map)
//   - O(1) push and pop at both ends through a doubly linked order
//   - Amortized O(1) At(i) through a lazily rebuilt position cache
//   - Two interchangeable implementations behind one Dict interface:
//     DequeDict (pointer-linked) and Arena (slice-backed, index-linked)
//
// The position cache survives PopFront, PopBack and tail Set. Any interior
// mutation (Delete, Pop by key, Prepend, MoveToEnd) drops it, and the next
// positional lookup pays one O(n) rebuild.
//
// Containers are not safe for concurrent use; callers serialize access.
package dequedict
