package vdom

import (
	"sync"

	"github.com/petermattis/goid"
)

// currentScopes tracks the scope whose render thunk is executing, per
// goroutine, so lifecycle hooks can register against it.
var currentScopes sync.Map

// WithScope runs fn with s as the current scope, restoring the previous
// one on every exit path.
func WithScope(s *Scope, fn func()) {
	gid := goid.Get()
	prev, hadPrev := currentScopes.Load(gid)
	currentScopes.Store(gid, s)
	defer func() {
		if hadPrev {
			currentScopes.Store(gid, prev)
		} else {
			currentScopes.Delete(gid)
		}
	}()
	fn()
}

// CurrentScope returns the scope whose render thunk is executing, or
// nil outside a component render.
func CurrentScope() *Scope {
	if s, ok := currentScopes.Load(goid.Get()); ok {
		return s.(*Scope)
	}
	return nil
}

// OnMount registers fn to run once, the first time the current scope's
// root is present in the tree. No-op outside a component render.
func OnMount(fn func()) {
	if s := CurrentScope(); s != nil {
		s.OnMount = fn
	}
}

// OnUpdate registers fn to run after every successful diff pass over
// the current scope. No-op outside a component render.
func OnUpdate(fn func()) {
	if s := CurrentScope(); s != nil {
		s.OnUpdate = fn
	}
}

// OnDrop registers fn to run once when the current scope is removed or
// replaced. No-op outside a component render.
func OnDrop(fn func()) {
	if s := CurrentScope(); s != nil {
		s.OnDrop = fn
	}
}
