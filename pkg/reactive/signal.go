package reactive

import (
	"sync/atomic"

	"github.com/krishpranav/nexa/pkg/graph"
)

// Signal is a source cell: a leaf reactive node holding user-writable
// state of type T.
//
// Reading during a tracked context subscribes the current observer.
// Writing compares against the stored value with structural equality
// and, only when different, marks every subscriber dirty. The cell
// itself is never dirty; it has no update thunk.
type Signal[T any] struct {
	rt    *Runtime
	h     graph.Handle
	value T
	equal func(T, T) bool

	// refs counts live user clones. The node is removed from the graph
	// when the last clone is released.
	refs *atomic.Int32
}

// NewSignal creates a new source cell with the given initial value.
// The cell is registered with the current Owner, if any, so disposing
// the owning scope releases it.
func NewSignal[T any](initial T) *Signal[T] {
	rt := GetRuntime()
	refs := &atomic.Int32{}
	refs.Store(1)
	s := &Signal[T]{
		rt:    rt,
		h:     rt.graph.Allocate(graph.KindSource),
		value: initial,
		refs:  refs,
	}
	if owner := rt.currentOwner; owner != nil {
		owner.onDispose(s.Release)
	}
	return s
}

// Get returns the current value, tracking the read.
func (s *Signal[T]) Get() T {
	s.rt.trackRead(s.h)
	return s.value
}

// Peek returns the current value without creating a dependency.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set stores a new value. If it compares equal to the current value the
// write is a no-op; otherwise every subscriber becomes dirty and,
// outside a batch, propagation runs.
func (s *Signal[T]) Set(value T) {
	if s.equals(s.value, value) {
		return
	}
	s.value = value
	s.rt.markSubscribersDirty(s.h)
}

// Update mutates the value in place and unconditionally marks
// subscribers dirty. Use for values whose mutation cannot be observed
// through equality (e.g. appending to a shared slice).
func (s *Signal[T]) Update(fn func(*T)) {
	fn(&s.value)
	s.rt.markSubscribersDirty(s.h)
}

// WithEquals overrides the equality function used to gate writes.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// Handle returns the cell's graph handle (devtools, tests).
func (s *Signal[T]) Handle() graph.Handle {
	return s.h
}

// Clone returns a second user handle to the same cell. The underlying
// node stays alive until every clone has been released.
func (s *Signal[T]) Clone() *Signal[T] {
	s.refs.Add(1)
	return s
}

// Release drops one user handle. When the last handle is released the
// node is removed from the graph, severing the reverse edge from every
// dependent. Releasing more times than Clone+1 is a no-op.
func (s *Signal[T]) Release() {
	if s.refs.Add(-1) == 0 {
		s.rt.graph.Remove(s.h)
	}
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}
