package reactive

// Batch groups multiple signal writes into a single propagation pass.
// Writes inside the batch still mark subscribers dirty, but propagation
// is suppressed until the outermost batch exits, so a value written
// multiple times collapses to its final value and each affected effect
// runs at most once.
//
// Batches nest; only the outermost exit propagates.
//
//	reactive.Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	})
//	// dependents re-run once with both changes
func Batch(fn func()) {
	GetRuntime().Batch(fn)
}

// Batch runs fn with propagation deferred to scope exit.
func (rt *Runtime) Batch(fn func()) {
	rt.batchDepth++
	defer func() {
		rt.batchDepth--
		if rt.batchDepth == 0 {
			rt.maybePropagate()
		}
	}()
	fn()
}

// Untracked runs fn without recording signal reads as dependencies.
func Untracked(fn func()) {
	GetRuntime().Untracked(fn)
}

// Untracked runs fn with dependency tracking disabled.
func (rt *Runtime) Untracked(fn func()) {
	rt.pushObserver(graphZero)
	defer rt.popObserver()
	fn()
}

// UntrackedGet reads a signal's value without creating a dependency.
// Equivalent to s.Peek().
func UntrackedGet[T any](s *Signal[T]) T {
	return s.Peek()
}
