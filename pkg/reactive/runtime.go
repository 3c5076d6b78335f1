package reactive

import (
	"log/slog"
	"sync"

	"github.com/petermattis/goid"

	"github.com/krishpranav/nexa/internal/errors"
	"github.com/krishpranav/nexa/pkg/graph"
	"github.com/krishpranav/nexa/pkg/scheduler"
)

// Runtime holds the reactive state for one cooperative loop: the
// dependency graph, the propagation engine, the observer stack that
// identifies the currently executing derived node, and the batch depth.
type Runtime struct {
	graph  *graph.Graph
	engine *scheduler.Engine

	// observers is the LIFO of currently executing derived nodes.
	// The zero Handle marks an untracked scope.
	observers []graph.Handle

	// batchDepth suppresses propagation while > 0.
	batchDepth int

	// currentOwner owns reactive primitives created during a render.
	currentOwner *Owner

	logger *slog.Logger
}

// runtimes stores per-goroutine runtimes, keyed by goroutine id.
var runtimes sync.Map

// graphZero is the untracked-scope sentinel on the observer stack.
var graphZero graph.Handle

// GetRuntime returns the runtime for the current goroutine, creating
// it on first use.
func GetRuntime() *Runtime {
	gid := goid.Get()
	if rt, ok := runtimes.Load(gid); ok {
		return rt.(*Runtime)
	}
	rt := NewRuntime()
	runtimes.Store(gid, rt)
	return rt
}

// NewRuntime creates a standalone runtime. Most callers want
// GetRuntime; explicit runtimes exist for hosts that pin one runtime
// per session loop.
func NewRuntime() *Runtime {
	g := graph.New()
	return &Runtime{
		graph:  g,
		engine: scheduler.NewEngine(g),
		logger: slog.Default(),
	}
}

// Graph exposes the underlying dependency graph (devtools, tests).
func (rt *Runtime) Graph() *graph.Graph {
	return rt.graph
}

// Engine exposes the propagation engine (devtools, tests).
func (rt *Runtime) Engine() *scheduler.Engine {
	return rt.engine
}

// SetLogger replaces the logger on the runtime and its graph/engine.
func (rt *Runtime) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	rt.logger = l
	rt.graph.SetLogger(l)
	rt.engine.SetLogger(l)
}

// currentObserver returns the top of the observer stack, or the zero
// handle when no tracking is active.
func (rt *Runtime) currentObserver() graph.Handle {
	if n := len(rt.observers); n > 0 {
		return rt.observers[n-1]
	}
	return graph.Handle{}
}

// trackRead records a dependency of the current observer on h. Called
// from every tracked read. A cycle-closing edge is a fatal invariant
// violation and panics with the structured error.
func (rt *Runtime) trackRead(h graph.Handle) {
	obs := rt.currentObserver()
	if obs.IsZero() {
		return
	}
	if err := rt.graph.AddEdge(obs, h); err != nil {
		panic(err)
	}
}

// pushObserver enters a tracking scope for h.
func (rt *Runtime) pushObserver(h graph.Handle) {
	rt.observers = append(rt.observers, h)
}

// popObserver exits the innermost tracking scope. Underflow is a fatal
// invariant violation.
func (rt *Runtime) popObserver() {
	if len(rt.observers) == 0 {
		panic(errors.New("E002"))
	}
	rt.observers = rt.observers[:len(rt.observers)-1]
}

// withObserver runs fn as the tracking scope of h. Old dependency edges
// are cleared first so the set is rediscovered, and the previous
// observer is restored on every exit path.
func (rt *Runtime) withObserver(h graph.Handle, fn func()) {
	rt.graph.ClearDeps(h)
	rt.pushObserver(h)
	defer rt.popObserver()
	fn()
}

// WithObserver runs fn under the tracking scope of h. Exposed for the
// runtime package, which registers the root render as an effect node.
func (rt *Runtime) WithObserver(h graph.Handle, fn func()) {
	rt.withObserver(h, fn)
}

// markSubscribersDirty flags every subscriber of h and, outside a batch
// or a running pass, triggers propagation.
func (rt *Runtime) markSubscribersDirty(h graph.Handle) {
	for _, sub := range rt.graph.Subs(h) {
		rt.graph.MarkDirty(sub)
	}
	rt.maybePropagate()
}

// maybePropagate runs the engine unless suppressed by batching or
// already inside a pass. A budget abort is logged by the engine; the
// dirty set is left cleared so the loop does not wedge.
func (rt *Runtime) maybePropagate() {
	if rt.batchDepth > 0 || rt.engine.Propagating() {
		return
	}
	_ = rt.engine.Propagate()
}

// Flush forces a propagation pass. Hosts call this after dispatching
// events that wrote signals inside a suppressed scope.
func (rt *Runtime) Flush() error {
	if rt.batchDepth > 0 || rt.engine.Propagating() {
		return nil
	}
	return rt.engine.Propagate()
}
