package graph

import (
	"log/slog"
	"sort"

	"github.com/krishpranav/nexa/internal/errors"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindSource Kind = iota // Leaf cell holding user-writable state
	KindMemo               // Derived node with a cached value
	KindEffect             // Derived node with side effects, no value
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindSource:
		return "Source"
	case KindMemo:
		return "Memo"
	case KindEffect:
		return "Effect"
	default:
		return "Unknown"
	}
}

// Tier returns the scheduling tier of the kind. Value producers
// (sources and memos) run before effects at the same depth.
func (k Kind) Tier() int {
	if k == KindEffect {
		return 1
	}
	return 0
}

// node is a single slot in the graph. Slots are reused; gen
// distinguishes successive occupants.
type node struct {
	kind   Kind
	deps   []Handle // sorted unique, see handleLess
	subs   []Handle // sorted unique
	depth  int
	update func() // nil for sources
	dirty  bool
	gen    uint32
	live   bool
}

// Graph owns the reactive nodes and their bidirectional edges.
//
// Invariants maintained:
//   - A ∈ deps(B) ⇔ B ∈ subs(A)
//   - depth(B) ≥ 1 + depth(d) for every d ∈ deps(B); depth(source) = 0
//   - subscriber edges contain no directed cycle
//   - a node is in the dirty set iff its dirty flag is set
type Graph struct {
	nodes []node
	free  []uint32

	dirty []Handle // insertion order; DrainDirty sorts

	logger *slog.Logger
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		// Slot 0 is reserved so the zero Handle stays invalid.
		nodes:  make([]node, 1),
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for stale-handle warnings.
func (g *Graph) SetLogger(l *slog.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Allocate inserts a new node of the given kind and returns its handle.
func (g *Graph) Allocate(kind Kind) Handle {
	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		g.nodes = append(g.nodes, node{})
		idx = uint32(len(g.nodes) - 1)
	}
	slot := &g.nodes[idx]
	slot.kind = kind
	slot.deps = slot.deps[:0]
	slot.subs = slot.subs[:0]
	slot.depth = 0
	slot.update = nil
	slot.dirty = false
	slot.gen++
	slot.live = true
	return Handle{index: idx, gen: slot.gen}
}

// lookup resolves a handle to its live node, or nil if the handle is
// stale or was never allocated.
func (g *Graph) lookup(h Handle) *node {
	if h.index == 0 || int(h.index) >= len(g.nodes) {
		return nil
	}
	slot := &g.nodes[h.index]
	if !slot.live || slot.gen != h.gen {
		return nil
	}
	return slot
}

// warnStale logs a stale-handle warning. Operations against stale
// handles are silent no-ops apart from this (spec'd as recoverable so
// out-of-order removes and late events stay robust).
func (g *Graph) warnStale(op string, h Handle) {
	g.logger.Warn("stale graph handle",
		"op", op,
		"handle", h.String(),
		"code", "E007",
	)
}

// Contains reports whether h refers to a live node.
func (g *Graph) Contains(h Handle) bool {
	return g.lookup(h) != nil
}

// KindOf returns the kind of the node behind h. The second return is
// false for stale handles.
func (g *Graph) KindOf(h Handle) (Kind, bool) {
	n := g.lookup(h)
	if n == nil {
		return 0, false
	}
	return n.kind, true
}

// Depth returns the depth of the node behind h, or 0 for stale handles.
func (g *Graph) Depth(h Handle) int {
	if n := g.lookup(h); n != nil {
		return n.depth
	}
	return 0
}

// Deps returns a copy of the dependency set of h.
func (g *Graph) Deps(h Handle) []Handle {
	n := g.lookup(h)
	if n == nil {
		return nil
	}
	out := make([]Handle, len(n.deps))
	copy(out, n.deps)
	return out
}

// Subs returns a copy of the subscriber set of h.
func (g *Graph) Subs(h Handle) []Handle {
	n := g.lookup(h)
	if n == nil {
		return nil
	}
	out := make([]Handle, len(n.subs))
	copy(out, n.subs)
	return out
}

// SetUpdate installs the update thunk for a derived node. Sources never
// carry a thunk.
func (g *Graph) SetUpdate(h Handle, fn func()) {
	n := g.lookup(h)
	if n == nil {
		g.warnStale("SetUpdate", h)
		return
	}
	if n.kind == KindSource {
		return
	}
	n.update = fn
}

// Update returns the update thunk of h, or nil.
func (g *Graph) Update(h Handle) func() {
	if n := g.lookup(h); n != nil {
		return n.update
	}
	return nil
}

// AddEdge establishes the dependency pair: observer ∈ subs(dep) and
// dep ∈ deps(observer). Self-loops and duplicates are no-ops. An edge
// that would close a cycle is refused with a fatal E001 error.
//
// depth(observer) is raised to depth(dep)+1 when needed. Depths are not
// rebalanced downstream: subsequent propagation orders dependents by
// depth anyway, and depth only matters for ordering, not correctness.
func (g *Graph) AddEdge(observer, dep Handle) error {
	if observer == dep {
		return nil
	}
	obs := g.lookup(observer)
	dn := g.lookup(dep)
	if obs == nil {
		g.warnStale("AddEdge", observer)
		return nil
	}
	if dn == nil {
		g.warnStale("AddEdge", dep)
		return nil
	}
	if containsHandle(obs.deps, dep) {
		return nil
	}
	// Walking forward from observer along subscriber edges: if dep is
	// reachable the new edge dep→observer would close a cycle.
	if g.reachable(observer, dep) {
		return errors.New("E001").WithDetailf("edge %v -> %v", dep, observer)
	}
	obs.deps = insertHandle(obs.deps, dep)
	dn.subs = insertHandle(dn.subs, observer)
	if d := dn.depth + 1; d > obs.depth {
		obs.depth = d
	}
	return nil
}

// reachable reports whether target is reachable from start by following
// subscriber edges. Iterative DFS with a visited set.
func (g *Graph) reachable(start, target Handle) bool {
	if start == target {
		return true
	}
	visited := map[Handle]struct{}{start: {}}
	stack := []Handle{start}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.lookup(h)
		if n == nil {
			continue
		}
		for _, sub := range n.subs {
			if sub == target {
				return true
			}
			if _, ok := visited[sub]; ok {
				continue
			}
			visited[sub] = struct{}{}
			stack = append(stack, sub)
		}
	}
	return false
}

// ClearDeps removes h from the subscriber set of each of its
// dependencies, then clears deps(h). Called before a derived node
// re-executes so its dependency set is rediscovered from scratch.
func (g *Graph) ClearDeps(h Handle) {
	n := g.lookup(h)
	if n == nil {
		g.warnStale("ClearDeps", h)
		return
	}
	for _, dep := range n.deps {
		if dn := g.lookup(dep); dn != nil {
			dn.subs = removeHandle(dn.subs, h)
		}
	}
	n.deps = n.deps[:0]
}

// Remove severs both edge directions of h and drops the node. The slot
// is recycled under a bumped generation.
func (g *Graph) Remove(h Handle) {
	n := g.lookup(h)
	if n == nil {
		g.warnStale("Remove", h)
		return
	}
	for _, dep := range n.deps {
		if dn := g.lookup(dep); dn != nil {
			dn.subs = removeHandle(dn.subs, h)
		}
	}
	for _, sub := range n.subs {
		if sn := g.lookup(sub); sn != nil {
			sn.deps = removeHandle(sn.deps, h)
		}
	}
	if n.dirty {
		g.removeDirty(h)
	}
	n.deps = n.deps[:0]
	n.subs = n.subs[:0]
	n.update = nil
	n.dirty = false
	n.live = false
	g.free = append(g.free, h.index)
}

// MarkDirty flags h for the next propagation pass. Idempotent.
func (g *Graph) MarkDirty(h Handle) {
	n := g.lookup(h)
	if n == nil {
		g.warnStale("MarkDirty", h)
		return
	}
	if n.dirty {
		return
	}
	n.dirty = true
	g.dirty = append(g.dirty, h)
}

// IsDirty reports whether h is flagged dirty.
func (g *Graph) IsDirty(h Handle) bool {
	n := g.lookup(h)
	return n != nil && n.dirty
}

// TakeDirty consumes the dirty flag of a single node. Returns true if
// the node was dirty. Used by the propagation engine to pick up nodes
// marked mid-pass without re-draining the whole set.
func (g *Graph) TakeDirty(h Handle) bool {
	n := g.lookup(h)
	if n == nil || !n.dirty {
		return false
	}
	n.dirty = false
	g.removeDirty(h)
	return true
}

// DirtyCount returns the number of nodes currently flagged dirty.
func (g *Graph) DirtyCount() int {
	return len(g.dirty)
}

// DrainDirty clears the dirty set and returns the drained handles in a
// stable order: ascending depth, ties broken by handle.
func (g *Graph) DrainDirty() []Handle {
	if len(g.dirty) == 0 {
		return nil
	}
	out := g.dirty
	g.dirty = nil
	for _, h := range out {
		if n := g.lookup(h); n != nil {
			n.dirty = false
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := g.Depth(out[i]), g.Depth(out[j])
		if di != dj {
			return di < dj
		}
		return out[i].Less(out[j])
	})
	return out
}

// removeDirty drops h from the pending dirty list (used by Remove).
func (g *Graph) removeDirty(h Handle) {
	for i, d := range g.dirty {
		if d == h {
			g.dirty = append(g.dirty[:i], g.dirty[i+1:]...)
			return
		}
	}
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	count := 0
	for i := 1; i < len(g.nodes); i++ {
		if g.nodes[i].live {
			count++
		}
	}
	return count
}

// Handles returns the handles of all live nodes, ascending by slot.
func (g *Graph) Handles() []Handle {
	out := make([]Handle, 0, len(g.nodes))
	for i := 1; i < len(g.nodes); i++ {
		if g.nodes[i].live {
			out = append(out, Handle{index: uint32(i), gen: g.nodes[i].gen})
		}
	}
	return out
}

// CheckInvariants verifies edge symmetry, depth monotonicity and
// acyclicity across the whole graph. Intended for tests and devtools.
func (g *Graph) CheckInvariants() error {
	for _, h := range g.Handles() {
		n := g.lookup(h)
		for _, dep := range n.deps {
			dn := g.lookup(dep)
			if dn == nil {
				return errors.New("E003").WithDetailf("dep %v of %v is gone", dep, h)
			}
			if !containsHandle(dn.subs, h) {
				return errors.Newf(errors.CategoryRuntime,
					"edge asymmetry: %v ∈ deps(%v) but %v ∉ subs(%v)", dep, h, h, dep)
			}
			if n.depth <= dn.depth {
				return errors.Newf(errors.CategoryRuntime,
					"depth not monotone across %v -> %v (%d <= %d)", dep, h, n.depth, dn.depth)
			}
		}
		for _, sub := range n.subs {
			sn := g.lookup(sub)
			if sn == nil {
				return errors.New("E003").WithDetailf("sub %v of %v is gone", sub, h)
			}
			if !containsHandle(sn.deps, h) {
				return errors.Newf(errors.CategoryRuntime,
					"edge asymmetry: %v ∈ subs(%v) but %v ∉ deps(%v)", sub, h, h, sub)
			}
		}
		if g.reachableThroughSubs(h) {
			return errors.New("E001").WithDetailf("%v reaches itself", h)
		}
	}
	return nil
}

// reachableThroughSubs reports whether h can reach itself via at least
// one subscriber edge.
func (g *Graph) reachableThroughSubs(h Handle) bool {
	n := g.lookup(h)
	if n == nil {
		return false
	}
	for _, sub := range n.subs {
		if sub == h || g.reachable(sub, h) {
			return true
		}
	}
	return false
}

// containsHandle reports membership in a sorted handle set.
func containsHandle(set []Handle, h Handle) bool {
	i := sort.Search(len(set), func(i int) bool { return !set[i].Less(h) })
	return i < len(set) && set[i] == h
}

// insertHandle inserts h into a sorted handle set, keeping it unique.
func insertHandle(set []Handle, h Handle) []Handle {
	i := sort.Search(len(set), func(i int) bool { return !set[i].Less(h) })
	if i < len(set) && set[i] == h {
		return set
	}
	set = append(set, Handle{})
	copy(set[i+1:], set[i:])
	set[i] = h
	return set
}

// removeHandle removes h from a sorted handle set if present.
func removeHandle(set []Handle, h Handle) []Handle {
	i := sort.Search(len(set), func(i int) bool { return !set[i].Less(h) })
	if i < len(set) && set[i] == h {
		return append(set[:i], set[i+1:]...)
	}
	return set
}
