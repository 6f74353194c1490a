// Package cache implements a single-process, in-memory key–value cache.
//
// Goals for this package:
//   - Keep recency in a dequedict (LRU at the front, MRU at the back)
//   - Provide O(1) Set/Get/Delete via the container's key index
//   - Be concurrency-safe (RWMutex) with correctness as the primary goal
//   - Support per-entry TTL with both lazy and active expiration
//   - Own and cleanly stop long-lived goroutines (no leaks on shutdown)
package cache
