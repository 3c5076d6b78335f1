package reactive

import (
	"sync/atomic"

	"github.com/krishpranav/nexa/pkg/graph"
)

// Cleanup is an optional function returned by an effect body. It runs
// before the effect re-executes and when the effect is released.
type Cleanup func()

// Effect is a derived node with side effects and no value. It has the
// same dependency mechanics as Memo minus the equality gate: its body
// runs on creation and on every propagation pass where it appears in
// the dirty order.
type Effect struct {
	rt      *Runtime
	h       graph.Handle
	fn      func() Cleanup
	cleanup Cleanup
	refs    *atomic.Int32
}

// NewEffect creates an effect and runs it once to record dependencies.
func NewEffect(fn func() Cleanup) *Effect {
	rt := GetRuntime()
	refs := &atomic.Int32{}
	refs.Store(1)
	e := &Effect{
		rt:   rt,
		h:    rt.graph.Allocate(graph.KindEffect),
		fn:   fn,
		refs: refs,
	}
	rt.graph.SetUpdate(e.h, e.run)
	e.run()
	if owner := rt.currentOwner; owner != nil {
		owner.onDispose(e.Release)
	}
	return e
}

// Handle returns the effect's graph handle (devtools, tests).
func (e *Effect) Handle() graph.Handle {
	return e.h
}

// Clone returns a second user handle to the same effect.
func (e *Effect) Clone() *Effect {
	e.refs.Add(1)
	return e
}

// Release drops one user handle. On the last release the pending
// cleanup runs and the node is removed from the graph.
func (e *Effect) Release() {
	if e.refs.Add(-1) != 0 {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.rt.graph.Remove(e.h)
}

// run executes the effect body under its tracking scope, invoking the
// previous cleanup first.
func (e *Effect) run() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.rt.withObserver(e.h, func() {
		e.cleanup = e.fn()
	})
}
