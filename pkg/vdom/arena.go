package vdom

import (
	"fmt"
	"sync"

	"github.com/petermattis/goid"

	"github.com/krishpranav/nexa/internal/errors"
)

// NodeID is an opaque, copyable handle into an Arena. It carries a
// generation so handles to removed nodes stay distinguishable from
// handles to later occupants of the same slot.
//
// The zero NodeID is never valid; its packed form 0 designates the
// mount container in mutation records.
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero (invalid / container) handle.
func (id NodeID) IsZero() bool {
	return id.index == 0 && id.gen == 0
}

// Uint64 packs the handle into the wire-level node id. The zero NodeID
// packs to 0, the mount container.
func (id NodeID) Uint64() uint64 {
	return uint64(id.gen)<<32 | uint64(id.index)
}

// String returns a compact debug representation.
func (id NodeID) String() string {
	return fmt.Sprintf("n%d.%d", id.index, id.gen)
}

// NodeIDFromUint64 unpacks a wire-level node id produced by Uint64.
func NodeIDFromUint64(v uint64) NodeID {
	return NodeID{index: uint32(v), gen: uint32(v >> 32)}
}

type arenaSlot struct {
	node VirtualNode
	meta Meta
	gen  uint32
	live bool
}

// Arena owns a collection of virtual nodes behind generational
// handles. References are stable against insertion and tolerate
// removal. One arena at a time may be active per goroutine.
type Arena struct {
	// slots holds pointers so node references stay valid across
	// insertions made while a diff pass is holding them.
	slots []*arenaSlot
	free  []uint32
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	// Slot 0 is reserved so the zero NodeID stays the mount container.
	return &Arena{slots: []*arenaSlot{{}}}
}

// Insert places a node into the arena and returns its handle.
func (a *Arena) Insert(node VirtualNode) NodeID {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, &arenaSlot{})
		idx = uint32(len(a.slots) - 1)
	}
	slot := a.slots[idx]
	slot.node = node
	slot.meta = Meta{}
	slot.gen++
	slot.live = true
	return NodeID{index: idx, gen: slot.gen}
}

// Get resolves a handle, returning nil for stale or unknown handles.
func (a *Arena) Get(id NodeID) *VirtualNode {
	if slot := a.slot(id); slot != nil {
		return &slot.node
	}
	return nil
}

// MustGet resolves a handle or panics with an E003 invariant violation.
// The diff engine uses this for handles the tree itself references.
func (a *Arena) MustGet(id NodeID) *VirtualNode {
	n := a.Get(id)
	if n == nil {
		panic(errors.New("E003").WithDetailf("node %v", id))
	}
	return n
}

// Meta returns the metadata record for id, or nil for stale handles.
func (a *Arena) Meta(id NodeID) *Meta {
	if slot := a.slot(id); slot != nil {
		return &slot.meta
	}
	return nil
}

// Remove drops a node. Child nodes are not touched; the tree layer
// removes subtrees explicitly so moves never free their nodes.
func (a *Arena) Remove(id NodeID) {
	slot := a.slot(id)
	if slot == nil {
		return
	}
	slot.node = VirtualNode{}
	slot.meta = Meta{}
	slot.live = false
	a.free = append(a.free, id.index)
}

// RemoveSubtree drops a node and, depth-first, everything it owns
// through child references.
func (a *Arena) RemoveSubtree(id NodeID) {
	node := a.Get(id)
	if node == nil {
		return
	}
	for _, child := range node.Children {
		a.RemoveSubtree(child)
	}
	if node.Kind == KindSuspense {
		a.RemoveSubtree(node.Actual)
		a.RemoveSubtree(node.Fallback)
	}
	a.Remove(id)
}

// Contains reports whether id refers to a live node.
func (a *Arena) Contains(id NodeID) bool {
	return a.slot(id) != nil
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	count := 0
	for i := 1; i < len(a.slots); i++ {
		if a.slots[i].live {
			count++
		}
	}
	return count
}

func (a *Arena) slot(id NodeID) *arenaSlot {
	if id.index == 0 || int(id.index) >= len(a.slots) {
		return nil
	}
	slot := a.slots[id.index]
	if !slot.live || slot.gen != id.gen {
		return nil
	}
	return slot
}

// activeArenas tracks the active arena per goroutine. The constructors
// the markup layer emits resolve against this slot.
var activeArenas sync.Map

// WithArena makes a the active arena for the duration of fn, restoring
// the previous value on every exit path. Only one arena may be active
// at a time; nesting a different arena is allowed and shadows the
// outer one for the scope of fn.
func WithArena(a *Arena, fn func()) {
	gid := goid.Get()
	prev, hadPrev := activeArenas.Load(gid)
	activeArenas.Store(gid, a)
	defer func() {
		if hadPrev {
			activeArenas.Store(gid, prev)
		} else {
			activeArenas.Delete(gid)
		}
	}()
	fn()
}

// ActiveArena returns the active arena, or nil outside a render scope.
func ActiveArena() *Arena {
	if a, ok := activeArenas.Load(goid.Get()); ok {
		return a.(*Arena)
	}
	return nil
}

// mustActiveArena returns the active arena or panics with E004:
// constructors are only legal inside a render scope.
func mustActiveArena() *Arena {
	a := ActiveArena()
	if a == nil {
		panic(errors.New("E004"))
	}
	return a
}
