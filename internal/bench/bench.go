// Package bench times the public operations of the dequedict implementations
// next to the plain Go structures they replace.
package bench

import (
	"container/list"
	"context"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/pkg/errors"

	"dequedict/pkg/dequedict"
)

// Options selects what Run measures.
type Options struct {
	// Size is the number of entries in the prebuilt containers.
	Size int
	// Iterations is the repetition count of the cheap operations. Batch
	// operations (the *_100 ones and iterate) run Iterations/100 times.
	Iterations int
	Impls      []dequedict.Impl
	// Baselines adds Go map and container/list measurements.
	Baselines bool
}

// Result is one measurement.
type Result struct {
	Operation  string  `json:"operation" yaml:"operation"`
	Subject    string  `json:"subject" yaml:"subject"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	NsPerOp    float64 `json:"ns_per_op" yaml:"ns_per_op"`
}

// Operation names, in report order.
const (
	OpLookup      = "lookup"
	OpContains    = "contains"
	OpPeekFront   = "peek_front"
	OpPeekBack    = "peek_back"
	OpMoveToEnd   = "move_to_end"
	OpInsert100   = "insert_100"
	OpPopFront100 = "pop_front_100"
	OpPopBack100  = "pop_back_100"
	OpDelete100   = "delete_100"
	OpIterate     = "iterate"
	OpAt          = "at"
)

var operations = []string{
	OpLookup, OpContains, OpPeekFront, OpPeekBack, OpMoveToEnd,
	OpInsert100, OpPopFront100, OpPopBack100, OpDelete100, OpIterate, OpAt,
}

var batchOps = map[string]bool{
	OpInsert100:   true,
	OpPopFront100: true,
	OpPopBack100:  true,
	OpDelete100:   true,
	OpIterate:     true,
}

// sink keeps results observable so the timed bodies are not optimized away.
var sink int

// subject is something that can be measured: a name plus one closure per
// supported operation.
type subject struct {
	name string
	ops  map[string]func()
}

// Run measures every operation on every selected subject.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Size < 100 {
		return nil, errors.Errorf("size %d is too small; batch operations need at least 100 entries", opts.Size)
	}
	if opts.Iterations <= 0 {
		return nil, errors.Errorf("iterations must be positive, got %d", opts.Iterations)
	}
	log := clog.FromContext(ctx)

	keys := makeKeys(opts.Size)
	var subjects []subject
	for _, impl := range opts.Impls {
		subjects = append(subjects, dictSubject(impl, keys))
	}
	if opts.Baselines {
		subjects = append(subjects, mapSubject(keys), listSubject(keys))
	}

	var results []Result
	for _, op := range operations {
		n := opts.Iterations
		if batchOps[op] {
			n = max(1, opts.Iterations/100)
		}
		for _, s := range subjects {
			if err := ctx.Err(); err != nil {
				return results, errors.Wrap(err, "benchmark interrupted")
			}
			fn, ok := s.ops[op]
			if !ok {
				continue
			}
			r := Result{Operation: op, Subject: s.name, Iterations: n, NsPerOp: measure(fn, n)}
			log.Debugf("%s/%s: %.1f ns/op", op, s.name, r.NsPerOp)
			results = append(results, r)
		}
	}
	return results, nil
}

func measure(fn func(), n int) float64 {
	start := time.Now()
	for i := 0; i < n; i++ {
		fn()
	}
	return float64(time.Since(start).Nanoseconds()) / float64(n)
}

func makeKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = "key_" + strconv.Itoa(i)
	}
	return keys
}

func dictSubject(impl dequedict.Impl, keys []string) subject {
	build := func(keys []string) dequedict.Dict[string, int] {
		d := dequedict.NewImpl[string, int](impl)
		for i, k := range keys {
			d.Set(k, i)
		}
		return d
	}
	d := build(keys)
	moving := build(keys)
	probe := keys[len(keys)/2]
	first100 := keys[:100]
	next := 0

	return subject{name: string(impl), ops: map[string]func(){
		OpLookup: func() {
			v, _ := d.Lookup(probe)
			sink += v
		},
		OpContains: func() {
			if d.Contains(probe) {
				sink++
			}
		},
		OpPeekFront: func() {
			v, _ := d.PeekFront()
			sink += v
		},
		OpPeekBack: func() {
			v, _ := d.PeekBack()
			sink += v
		},
		OpMoveToEnd: func() {
			_ = moving.MoveToEnd(probe, false)
		},
		OpInsert100: func() {
			x := dequedict.NewImpl[string, int](impl)
			for i, k := range first100 {
				x.Set(k, i)
			}
			sink += x.Len()
		},
		OpPopFront100: func() {
			x := build(first100)
			for x.Len() > 0 {
				v, _ := x.PopFront()
				sink += v
			}
		},
		OpPopBack100: func() {
			x := build(first100)
			for x.Len() > 0 {
				v, _ := x.PopBack()
				sink += v
			}
		},
		OpDelete100: func() {
			x := build(first100)
			for _, k := range first100 {
				_ = x.Delete(k)
			}
			sink += x.Len()
		},
		OpIterate: func() {
			for _, v := range d.All() {
				sink += v
			}
		},
		OpAt: func() {
			v, _ := d.At(next)
			sink += v
			next = (next + 1) % len(keys)
		},
	}}
}

func mapSubject(keys []string) subject {
	m := make(map[string]int, len(keys))
	for i, k := range keys {
		m[k] = i
	}
	probe := keys[len(keys)/2]
	first100 := keys[:100]

	return subject{name: "map", ops: map[string]func(){
		OpLookup: func() { sink += m[probe] },
		OpContains: func() {
			if _, ok := m[probe]; ok {
				sink++
			}
		},
		OpInsert100: func() {
			x := make(map[string]int)
			for i, k := range first100 {
				x[k] = i
			}
			sink += len(x)
		},
		OpDelete100: func() {
			x := make(map[string]int, len(first100))
			for i, k := range first100 {
				x[k] = i
			}
			for _, k := range first100 {
				delete(x, k)
			}
			sink += len(x)
		},
		OpIterate: func() {
			for _, v := range m {
				sink += v
			}
		},
	}}
}

func listSubject(keys []string) subject {
	type pair struct {
		key   string
		value int
	}
	build := func(keys []string) *list.List {
		l := list.New()
		for i, k := range keys {
			l.PushBack(pair{k, i})
		}
		return l
	}
	l := build(keys)
	first100 := keys[:100]

	return subject{name: "list", ops: map[string]func(){
		OpPeekFront: func() { sink += l.Front().Value.(pair).value },
		OpPeekBack:  func() { sink += l.Back().Value.(pair).value },
		OpInsert100: func() {
			sink += build(first100).Len()
		},
		OpPopFront100: func() {
			x := build(first100)
			for x.Len() > 0 {
				sink += x.Remove(x.Front()).(pair).value
			}
		},
		OpPopBack100: func() {
			x := build(first100)
			for x.Len() > 0 {
				sink += x.Remove(x.Back()).(pair).value
			}
		},
		OpIterate: func() {
			for e := l.Front(); e != nil; e = e.Next() {
				sink += e.Value.(pair).value
			}
		},
	}}
}
