package dequedict

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oracle is a slice-backed model of the expected ordering. Every operation is
// O(n) but obviously correct.
type oracle struct {
	items []Item[int, int]
}

func (o *oracle) find(k int) int {
	return slices.IndexFunc(o.items, func(it Item[int, int]) bool { return it.Key == k })
}

func (o *oracle) set(k, v int) {
	if i := o.find(k); i >= 0 {
		o.items[i].Value = v
		return
	}
	o.items = append(o.items, Item[int, int]{k, v})
}

func (o *oracle) remove(i int) Item[int, int] {
	it := o.items[i]
	o.items = slices.Delete(o.items, i, i+1)
	return it
}

func (o *oracle) keys() []int {
	out := make([]int, 0, len(o.items))
	for _, it := range o.items {
		out = append(out, it.Key)
	}
	return out
}

func TestRandomOpsMatchOracle(t *testing.T) {
	eachImpl(t, func(t *testing.T, impl Impl) {
		for seed := uint64(1); seed <= 8; seed++ {
			runOracle(t, impl, seed)
		}
	})
}

func runOracle(t *testing.T, impl Impl, seed uint64) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed*7919))
	d := NewImpl[int, int](impl)
	model := &oracle{}

	const (
		steps   = 1500
		keySpan = 40
	)
	for step := 0; step < steps; step++ {
		k := rng.IntN(keySpan)
		v := rng.IntN(1000)
		op := rng.IntN(10)
		switch op {
		case 0, 1, 2:
			d.Set(k, v)
			model.set(k, v)
		case 3:
			err := d.Prepend(k, v)
			if model.find(k) >= 0 {
				require.ErrorIs(t, err, ErrKeyExists)
			} else {
				require.NoError(t, err)
				model.items = slices.Insert(model.items, 0, Item[int, int]{k, v})
			}
		case 4:
			got, err := d.PopFront()
			if len(model.items) == 0 {
				require.ErrorIs(t, err, ErrEmpty)
			} else {
				require.NoError(t, err)
				require.Equal(t, model.remove(0).Value, got)
			}
		case 5:
			got, err := d.PopBack()
			if len(model.items) == 0 {
				require.ErrorIs(t, err, ErrEmpty)
			} else {
				require.NoError(t, err)
				require.Equal(t, model.remove(len(model.items)-1).Value, got)
			}
		case 6:
			err := d.Delete(k)
			if i := model.find(k); i >= 0 {
				require.NoError(t, err)
				model.remove(i)
			} else {
				require.ErrorIs(t, err, ErrKeyNotFound)
			}
		case 7:
			toFront := rng.IntN(2) == 0
			err := d.MoveToEnd(k, toFront)
			if i := model.find(k); i >= 0 {
				require.NoError(t, err)
				it := model.remove(i)
				if toFront {
					model.items = slices.Insert(model.items, 0, it)
				} else {
					model.items = append(model.items, it)
				}
			} else {
				require.ErrorIs(t, err, ErrKeyNotFound)
			}
		case 8:
			got := d.PopOr(k, -1)
			if i := model.find(k); i >= 0 {
				require.Equal(t, model.remove(i).Value, got)
			} else {
				require.Equal(t, -1, got)
			}
		case 9:
			// Read-only step; only the checks below run.
		}
		checkAgainstOracle(t, d, model, seed, step)
	}
}

func checkAgainstOracle(t *testing.T, d Dict[int, int], model *oracle, seed uint64, step int) {
	t.Helper()
	// The dump is only built once a comparison has failed.
	check := func(ok bool) {
		t.Helper()
		if !ok {
			t.Fatal(spew.Sprintf("seed=%d step=%d\nmodel: %v\ndict:  %s", seed, step, model.items, d.String()))
		}
	}
	want := model.keys()

	check(assert.Equal(t, len(want), d.Len()))
	check(assert.Equal(t, want, d.Keys().Slice()))

	back := make([]int, 0, d.Len())
	for k := range d.Keys().Backward() {
		back = append(back, k)
	}
	slices.Reverse(back)
	check(assert.Equal(t, want, back))

	for i, it := range model.items {
		v, err := d.At(i)
		check(assert.NoError(t, err))
		check(assert.Equal(t, it.Value, v))

		v, err = d.At(i - len(model.items))
		check(assert.NoError(t, err))
		check(assert.Equal(t, it.Value, v))

		idx, err := d.Index(it.Key)
		check(assert.NoError(t, err))
		check(assert.Equal(t, i, idx))
	}
	_, err := d.At(len(model.items))
	check(assert.Error(t, err))
}

func TestOracleEmptyContainer(t *testing.T) {
	eachImpl(t, func(t *testing.T, impl Impl) {
		d := NewImpl[int, int](impl)
		checkAgainstOracle(t, d, &oracle{}, 0, 0)

		d.Set(1, 1)
		_, err := d.PopBack()
		require.NoError(t, err)
		checkAgainstOracle(t, d, &oracle{}, 0, 1)
	})
}
