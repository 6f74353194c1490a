package dequedict

import (
	"strconv"
	"testing"
)

const benchSize = 1000

func benchKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = "key_" + strconv.Itoa(i)
	}
	return keys
}

func filled(impl Impl, keys []string) Dict[string, int] {
	d := NewImpl[string, int](impl)
	for i, k := range keys {
		d.Set(k, i)
	}
	return d
}

func eachImplBench(b *testing.B, fn func(b *testing.B, impl Impl)) {
	for _, impl := range allImpls {
		b.Run(string(impl), func(b *testing.B) { fn(b, impl) })
	}
}

func BenchmarkGet(b *testing.B) {
	keys := benchKeys(benchSize)
	eachImplBench(b, func(b *testing.B, impl Impl) {
		d := filled(impl, keys)
		k := keys[benchSize/2]
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = d.Lookup(k)
		}
	})
}

func BenchmarkMoveToEnd(b *testing.B) {
	keys := benchKeys(benchSize)
	eachImplBench(b, func(b *testing.B, impl Impl) {
		d := filled(impl, keys)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = d.MoveToEnd(keys[i%benchSize], false)
		}
	})
}

func BenchmarkQueueChurn(b *testing.B) {
	keys := benchKeys(benchSize)
	eachImplBench(b, func(b *testing.B, impl Impl) {
		d := filled(impl, keys)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k, v, _ := d.PopFrontItem()
			d.Set(k, v)
		}
	})
}

func BenchmarkAtAfterAppend(b *testing.B) {
	keys := benchKeys(benchSize)
	eachImplBench(b, func(b *testing.B, impl Impl) {
		d := filled(impl, keys)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = d.At(i % benchSize)
		}
	})
}

func BenchmarkAtAfterInteriorDelete(b *testing.B) {
	keys := benchKeys(benchSize)
	eachImplBench(b, func(b *testing.B, impl Impl) {
		d := filled(impl, keys)
		k := keys[benchSize/2]
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			v, _ := d.Pop(k)
			d.Set(k, v)
			_, _ = d.At(0)
		}
	})
}

func BenchmarkIterate(b *testing.B) {
	keys := benchKeys(benchSize)
	eachImplBench(b, func(b *testing.B, impl Impl) {
		d := filled(impl, keys)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			sum := 0
			for _, v := range d.All() {
				sum += v
			}
			_ = sum
		}
	})
}
