package reactive

import (
	"sync/atomic"

	"github.com/krishpranav/nexa/pkg/graph"
)

// Memo is a memoized computation. Its dependencies are rediscovered on
// every recompute, and its own subscribers are only marked dirty when
// the recomputed value differs under structural equality.
type Memo[T any] struct {
	rt      *Runtime
	h       graph.Handle
	compute func() T
	value   T
	equal   func(T, T) bool
	refs    *atomic.Int32
}

// NewMemo creates a memo and runs the computation once under a tracking
// scope to record its initial dependency set.
func NewMemo[T any](compute func() T) *Memo[T] {
	rt := GetRuntime()
	refs := &atomic.Int32{}
	refs.Store(1)
	m := &Memo[T]{
		rt:      rt,
		h:       rt.graph.Allocate(graph.KindMemo),
		compute: compute,
		refs:    refs,
	}
	rt.graph.SetUpdate(m.h, m.recompute)
	rt.withObserver(m.h, func() {
		m.value = compute()
	})
	if owner := rt.currentOwner; owner != nil {
		owner.onDispose(m.Release)
	}
	return m
}

// Get returns the cached value, tracking the read.
func (m *Memo[T]) Get() T {
	m.rt.trackRead(m.h)
	return m.value
}

// Peek returns the cached value without creating a dependency.
func (m *Memo[T]) Peek() T {
	return m.value
}

// WithEquals overrides the equality function that gates downstream
// propagation.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

// Handle returns the memo's graph handle (devtools, tests).
func (m *Memo[T]) Handle() graph.Handle {
	return m.h
}

// Clone returns a second user handle to the same memo.
func (m *Memo[T]) Clone() *Memo[T] {
	m.refs.Add(1)
	return m
}

// Release drops one user handle, removing the node from the graph when
// the last handle goes away.
func (m *Memo[T]) Release() {
	if m.refs.Add(-1) == 0 {
		m.rt.graph.Remove(m.h)
	}
}

// recompute is the memo's update thunk. It re-enters the tracking scope
// (clearing old edges first), recomputes, and short-circuits downstream
// propagation when the value is unchanged.
func (m *Memo[T]) recompute() {
	var next T
	m.rt.withObserver(m.h, func() {
		next = m.compute()
	})
	if m.equals(m.value, next) {
		return
	}
	m.value = next
	for _, sub := range m.rt.graph.Subs(m.h) {
		m.rt.graph.MarkDirty(sub)
	}
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}
