package runtime

import (
	"log/slog"

	"github.com/krishpranav/nexa/pkg/graph"
	"github.com/krishpranav/nexa/pkg/reactive"
	"github.com/krishpranav/nexa/pkg/scheduler"
	"github.com/krishpranav/nexa/pkg/vdom"
)

// Runtime owns one live document: the arena, the scope table, the
// mutation buffer, the reactive runtime and the platform task queues.
// There is exactly one active arena and one observer stack per loop;
// all methods must be called from the loop's goroutine.
type Runtime struct {
	rx     *reactive.Runtime
	arena  *vdom.Arena
	scopes *vdom.ScopeTable
	tasks  *scheduler.TaskRunner

	buf  []vdom.Mutation
	prof vdom.Profiling

	rootThunk  func() vdom.NodeID
	rootScope  *vdom.Scope
	rootOwner  *reactive.Owner
	rootEffect graph.Handle
	current    vdom.NodeID
	mounted    bool

	logger *slog.Logger
}

// New creates an empty runtime bound to the calling goroutine's
// reactive runtime.
func New() *Runtime {
	return &Runtime{
		rx:     reactive.GetRuntime(),
		arena:  vdom.NewArena(),
		scopes: vdom.NewScopeTable(),
		tasks:  scheduler.NewTaskRunner(),
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger on the runtime and its sub-systems.
func (r *Runtime) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	r.logger = l
	r.rx.SetLogger(l)
	r.tasks.SetLogger(l)
}

// Reactive returns the reactive runtime backing this document.
func (r *Runtime) Reactive() *reactive.Runtime { return r.rx }

// Arena returns the live arena (devtools, tests).
func (r *Runtime) Arena() *vdom.Arena { return r.arena }

// Scopes returns the scope table (devtools, tests).
func (r *Runtime) Scopes() *vdom.ScopeTable { return r.scopes }

// Tasks returns the platform task runner.
func (r *Runtime) Tasks() *scheduler.TaskRunner { return r.tasks }

// Profiling returns the diff engine's counters.
func (r *Runtime) Profiling() vdom.Profiling { return r.prof }

// CurrentRoot returns the handle of the current root subtree, or the
// zero id before Mount.
func (r *Runtime) CurrentRoot() vdom.NodeID {
	return r.current
}

// RootID returns the wire id of the current root subtree's first
// concrete node, or 0 before Mount.
func (r *Runtime) RootID() uint64 {
	if !r.mounted {
		return 0
	}
	d := r.differ()
	return d.FirstConcrete(r.current)
}

// Mount installs thunk as the root render and performs the first
// render: the root Scope and a root effect node are allocated, the
// thunk runs under the effect's tracking scope with the arena active,
// and the resulting tree is created and appended to the mount
// container (id 0).
func (r *Runtime) Mount(thunk func() vdom.NodeID) {
	r.rootThunk = thunk
	r.rootScope = &vdom.Scope{Name: "root"}
	r.rootOwner = reactive.NewOwner(nil)

	h := r.rx.Graph().Allocate(graph.KindEffect)
	r.rootEffect = h
	r.rx.Graph().SetUpdate(h, r.renderCycle)
	r.rootScope.Cleanup = func() {
		r.rx.Graph().Remove(h)
		r.rootOwner.Dispose()
	}

	r.renderCycle()
}

// renderCycle is the root effect's update thunk: render a new tree,
// reconcile it against the previous one (or create it on first mount),
// and leave the mutations in the buffer for the next drain.
func (r *Runtime) renderCycle() {
	var newRoot vdom.NodeID
	r.rx.WithObserver(r.rootEffect, func() {
		reactive.WithOwner(r.rootOwner, func() {
			vdom.WithScope(r.rootScope, func() {
				vdom.WithArena(r.arena, func() {
					newRoot = r.rootThunk()
				})
			})
		})
	})

	d := r.differ()
	if !r.mounted {
		d.CreateTree(newRoot)
		if ids := d.Flatten(newRoot); len(ids) > 0 {
			r.buf = append(r.buf, vdom.Mutation{Op: vdom.OpAppendChildren, ID: 0, Children: ids})
			r.prof.MutationCount++
		}
		r.current = newRoot
		r.rootScope.Root = newRoot
		r.mounted = true
		r.rootScope.NotifyMounted()
		return
	}

	r.current = d.DiffNodes(r.current, newRoot, vdom.NodeID{})
	r.rootScope.Root = r.current
	r.rootScope.NotifyUpdated()
}

func (r *Runtime) differ() *vdom.Differ {
	return vdom.NewDiffer(r.arena, r.scopes, &r.buf, &r.prof)
}

// Update drains the dirty set through the scheduler and runs the
// resulting thunks, then ticks the platform task queues. Because the
// root render is a dirty-tracked effect, any signal it read re-enters
// the render cycle here.
func (r *Runtime) Update() {
	if err := r.rx.Flush(); err != nil {
		r.logger.Warn("update aborted", "err", err)
	}
	r.tasks.Tick()
}

// HandleEvent looks up the element behind the wire id, invokes the
// first listener matching the payload's event name, then runs Update.
// A stale id logs an E007 warning and returns without updating; an
// unmatched name invokes nothing. A panicking callback is isolated and
// logged.
func (r *Runtime) HandleEvent(id uint64, event vdom.Event) {
	node := r.arena.Get(vdom.NodeIDFromUint64(id))
	if node == nil || node.Kind != vdom.KindElement {
		r.logger.Warn("event for unknown element", "id", id, "event", event.EventName(), "code", "E007")
		return
	}
	name := event.EventName()
	for _, listener := range node.Listeners {
		if listener.Name != name || listener.Handler == nil {
			continue
		}
		r.invoke(listener.Handler, event)
		break
	}
	r.Update()
}

// invoke runs a user callback with panic isolation.
func (r *Runtime) invoke(handler func(vdom.Event), event vdom.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event callback panicked", "panic", rec, "code", "E008")
		}
	}()
	handler(event)
}

// DrainMutations atomically swaps out the mutation buffer and returns
// the drained batch. The applier must apply records in order.
func (r *Runtime) DrainMutations() []vdom.Mutation {
	out := r.buf
	r.buf = nil
	return out
}

// Unmount tears the document down: the root subtree is removed with
// mutations, scopes fire their drop hooks, and the root effect node
// leaves the graph.
func (r *Runtime) Unmount() {
	if !r.mounted {
		return
	}
	d := r.differ()
	d.RemoveTree(r.current)
	r.rootScope.Cleanup()
	r.mounted = false
	r.current = vdom.NodeID{}
}
