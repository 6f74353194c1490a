package dequedict

import (
	"fmt"
	"iter"
	"strings"
)

const typeName = "DequeDict"

// format renders pairs as name([(k, v), ...]); an empty container renders
// as name().
func format[K comparable, V any](name string, n int, all iter.Seq2[K, V]) string {
	if n == 0 {
		return name + "()"
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("([")
	writeItems(&b, all)
	b.WriteString("])")
	return b.String()
}

func writeItems[K comparable, V any](b *strings.Builder, all iter.Seq2[K, V]) {
	first := true
	for k, v := range all {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(b, "(%s, %s)", repr(k), repr(v))
	}
}

func repr(x any) string {
	switch v := x.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// EqualFunc reports whether a and b hold the same keys with values that eq
// considers equal. Order is ignored.
func EqualFunc[K comparable, V any](a, b Dict[K, V], eq func(V, V) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, v := range a.All() {
		w, ok := b.Lookup(k)
		if !ok || !eq(v, w) {
			return false
		}
	}
	return true
}

// Equal is EqualFunc with ==.
func Equal[K, V comparable](a, b Dict[K, V]) bool {
	return EqualFunc(a, b, func(x, y V) bool { return x == y })
}

// EqualMap reports whether d holds exactly the pairs of m. Order is ignored.
func EqualMap[K, V comparable](d Dict[K, V], m map[K]V) bool {
	if d.Len() != len(m) {
		return false
	}
	for k, v := range m {
		w, ok := d.Lookup(k)
		if !ok || w != v {
			return false
		}
	}
	return true
}
