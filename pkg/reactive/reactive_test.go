package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		count := NewSignal(0)
		defer count.Release()
		assert.Equal(t, 0, count.Get())

		count.Set(10)
		assert.Equal(t, 10, count.Get())
	})

	t.Run("zero values", func(t *testing.T) {
		s := NewSignal[*int](nil)
		defer s.Release()
		assert.Nil(t, s.Get())
	})

	t.Run("peek does not track", func(t *testing.T) {
		s := NewSignal(1)
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Peek()
			return nil
		})
		defer e.Release()
		assert.Equal(t, 1, runs)

		s.Set(2)
		assert.Equal(t, 1, runs, "Peek must not subscribe")
	})
}

func TestEqualityShortCircuit(t *testing.T) {
	t.Run("equal write is a no-op", func(t *testing.T) {
		s := NewSignal(5)
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		defer e.Release()
		assert.Equal(t, 1, runs)

		s.Set(5)
		assert.Equal(t, 1, runs, "writing an equal value must not recompute observers")

		s.Set(6)
		assert.Equal(t, 2, runs)
	})

	t.Run("structural equality for slices", func(t *testing.T) {
		s := NewSignal([]int{1, 2})
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		defer e.Release()

		s.Set([]int{1, 2})
		assert.Equal(t, 1, runs)
		s.Set([]int{1, 2, 3})
		assert.Equal(t, 2, runs)
	})

	t.Run("custom equality", func(t *testing.T) {
		// Equality on parity: writes flipping only magnitude are dropped.
		s := NewSignal(2).WithEquals(func(a, b int) bool { return a%2 == b%2 })
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		defer e.Release()

		s.Set(4)
		assert.Equal(t, 1, runs)
		s.Set(3)
		assert.Equal(t, 2, runs)
	})

	t.Run("update always notifies", func(t *testing.T) {
		s := NewSignal(1)
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		defer e.Release()

		s.Update(func(v *int) {})
		assert.Equal(t, 2, runs, "Update must mark subscribers even without a change")
	})
}

func TestMemo(t *testing.T) {
	t.Run("computes once at creation", func(t *testing.T) {
		s := NewSignal(2)
		defer s.Release()
		computes := 0
		m := NewMemo(func() int {
			computes++
			return s.Get() * 2
		})
		defer m.Release()

		assert.Equal(t, 1, computes)
		assert.Equal(t, 4, m.Get())
		assert.Equal(t, 4, m.Get())
		assert.Equal(t, 1, computes, "reads must hit the cache")
	})

	t.Run("recomputes on dependency change", func(t *testing.T) {
		s := NewSignal(1)
		defer s.Release()
		m := NewMemo(func() int { return s.Get() + 10 })
		defer m.Release()

		s.Set(5)
		assert.Equal(t, 15, m.Get())
	})

	t.Run("equality gates downstream", func(t *testing.T) {
		s := NewSignal(1)
		defer s.Release()
		m := NewMemo(func() bool { return s.Get() > 0 })
		defer m.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = m.Get()
			return nil
		})
		defer e.Release()
		assert.Equal(t, 1, runs)

		s.Set(7) // memo recomputes true -> true: effect must not run
		assert.Equal(t, 1, runs)

		s.Set(-1)
		assert.Equal(t, 2, runs)
	})

	t.Run("dynamic dependency rediscovery", func(t *testing.T) {
		flag := NewSignal(true)
		defer flag.Release()
		a := NewSignal("a")
		defer a.Release()
		b := NewSignal("b")
		defer b.Release()
		computes := 0
		m := NewMemo(func() string {
			computes++
			if flag.Get() {
				return a.Get()
			}
			return b.Get()
		})
		defer m.Release()
		assert.Equal(t, 1, computes)

		b.Set("bb") // not currently a dependency
		assert.Equal(t, 1, computes)

		flag.Set(false)
		assert.Equal(t, 2, computes)
		assert.Equal(t, "bb", m.Get())

		a.Set("aa") // no longer a dependency
		assert.Equal(t, 2, computes)
	})
}

func TestDiamond(t *testing.T) {
	// s -> a, s -> b, (a, b) -> c: a write to s recomputes c exactly once.
	s := NewSignal(1)
	defer s.Release()
	a := NewMemo(func() int { return s.Get() * 2 })
	defer a.Release()
	b := NewMemo(func() int { return s.Get() + 1 })
	defer b.Release()
	computes := 0
	c := NewMemo(func() int {
		computes++
		return a.Get() + b.Get()
	})
	defer c.Release()

	assert.Equal(t, 1, computes, "construction runs the thunk once")
	assert.Equal(t, 4, c.Get())

	s.Set(2)
	assert.Equal(t, 2, computes, "diamond must recompute c exactly once")
	assert.Equal(t, 7, c.Get())
}

func TestEffect(t *testing.T) {
	t.Run("runs on creation and change", func(t *testing.T) {
		s := NewSignal(0)
		defer s.Release()
		var seen []int
		e := NewEffect(func() Cleanup {
			seen = append(seen, s.Get())
			return nil
		})
		defer e.Release()

		s.Set(1)
		s.Set(2)
		assert.Equal(t, []int{0, 1, 2}, seen)
	})

	t.Run("cleanup before rerun and on release", func(t *testing.T) {
		s := NewSignal(0)
		defer s.Release()
		cleanups := 0
		e := NewEffect(func() Cleanup {
			_ = s.Get()
			return func() { cleanups++ }
		})

		s.Set(1)
		assert.Equal(t, 1, cleanups, "previous cleanup runs before re-execution")

		e.Release()
		assert.Equal(t, 2, cleanups, "release runs the pending cleanup")

		s.Set(2)
		assert.Equal(t, 2, cleanups, "released effect no longer reacts")
	})
}

func TestBatch(t *testing.T) {
	t.Run("coalesces writes", func(t *testing.T) {
		s := NewSignal(0)
		defer s.Release()
		runs := 0
		var last int
		e := NewEffect(func() Cleanup {
			runs++
			last = s.Get()
			return nil
		})
		defer e.Release()
		assert.Equal(t, 1, runs)

		Batch(func() {
			s.Set(1)
			s.Set(2)
			s.Set(3)
		})
		assert.Equal(t, 2, runs, "N batched writes produce one propagation pass")
		assert.Equal(t, 3, last, "final observed value wins")
	})

	t.Run("multiple signals one pass", func(t *testing.T) {
		a := NewSignal(1)
		defer a.Release()
		b := NewSignal(2)
		defer b.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = a.Get() + b.Get()
			return nil
		})
		defer e.Release()

		Batch(func() {
			a.Set(10)
			b.Set(20)
		})
		assert.Equal(t, 2, runs)
	})

	t.Run("nested batches propagate once", func(t *testing.T) {
		s := NewSignal(0)
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		defer e.Release()

		Batch(func() {
			s.Set(1)
			Batch(func() {
				s.Set(2)
			})
			s.Set(3)
		})
		assert.Equal(t, 2, runs)
	})

	t.Run("write-back re-runs subscriber once with original value", func(t *testing.T) {
		s := NewSignal(1)
		defer s.Release()
		runs := 0
		e := NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		defer e.Release()

		Batch(func() {
			s.Set(2)
			s.Set(1) // back to the starting value
		})
		// The subscriber was marked dirty, so it re-runs once; the value
		// it observes is the original.
		assert.Equal(t, 2, runs)
		assert.Equal(t, 1, s.Peek())
	})
}

func TestUntracked(t *testing.T) {
	s := NewSignal(1)
	defer s.Release()
	other := NewSignal(10)
	defer other.Release()
	runs := 0
	e := NewEffect(func() Cleanup {
		runs++
		_ = s.Get()
		Untracked(func() {
			_ = other.Get()
		})
		return nil
	})
	defer e.Release()

	other.Set(20)
	assert.Equal(t, 1, runs, "untracked reads must not subscribe")

	s.Set(2)
	assert.Equal(t, 2, runs)

	assert.Equal(t, 20, UntrackedGet(other))
}

func TestCloneRelease(t *testing.T) {
	rt := GetRuntime()
	before := rt.Graph().Len()

	s := NewSignal(1)
	clone := s.Clone()

	s.Release()
	assert.Equal(t, before+1, rt.Graph().Len(), "node survives while a clone exists")
	assert.Equal(t, 1, clone.Peek())

	clone.Release()
	assert.Equal(t, before, rt.Graph().Len(), "last release removes the node")
}

func TestOwner(t *testing.T) {
	t.Run("dispose releases owned primitives", func(t *testing.T) {
		rt := GetRuntime()
		before := rt.Graph().Len()

		owner := NewOwner(nil)
		var s *Signal[int]
		WithOwner(owner, func() {
			s = NewSignal(1)
			m := NewMemo(func() int { return s.Get() * 2 })
			_ = m
			NewEffect(func() Cleanup {
				_ = s.Get()
				return nil
			})
		})
		assert.Equal(t, before+3, rt.Graph().Len())

		owner.Dispose()
		assert.Equal(t, before, rt.Graph().Len())
	})

	t.Run("children dispose first, cleanups reversed", func(t *testing.T) {
		var order []string
		parent := NewOwner(nil)
		child := NewOwner(parent)
		parent.OnCleanup(func() { order = append(order, "parent-1") })
		parent.OnCleanup(func() { order = append(order, "parent-2") })
		child.OnCleanup(func() { order = append(order, "child") })

		parent.Dispose()
		assert.Equal(t, []string{"child", "parent-2", "parent-1"}, order)
		assert.True(t, parent.IsDisposed())
		assert.True(t, child.IsDisposed())
	})
}

func TestEffectChainsThroughMemos(t *testing.T) {
	// source -> memo -> memo -> effect, verifying depth-ordered
	// execution delivers a consistent view (no glitch).
	s := NewSignal(1)
	defer s.Release()
	double := NewMemo(func() int { return s.Get() * 2 })
	defer double.Release()
	quad := NewMemo(func() int { return double.Get() * 2 })
	defer quad.Release()

	var observed [][2]int
	e := NewEffect(func() Cleanup {
		observed = append(observed, [2]int{double.Get(), quad.Get()})
		return nil
	})
	defer e.Release()

	s.Set(3)
	assert.Equal(t, [][2]int{{2, 4}, {6, 12}}, observed,
		"effect must never observe a half-propagated state")
}

func TestReentrantWriteInEffect(t *testing.T) {
	src := NewSignal(0)
	defer src.Release()
	mirror := NewSignal(0)
	defer mirror.Release()

	e := NewEffect(func() Cleanup {
		mirror.Set(src.Get())
		return nil
	})
	defer e.Release()

	var seen []int
	e2 := NewEffect(func() Cleanup {
		seen = append(seen, mirror.Get())
		return nil
	})
	defer e2.Release()

	src.Set(42)
	assert.Equal(t, 42, mirror.Peek(), "re-entrant write propagates within the same tick")
	assert.Equal(t, []int{0, 42}, seen)
}
