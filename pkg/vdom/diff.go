package vdom

import "reflect"

// Profiling carries the counters the diff engine maintains per update.
type Profiling struct {
	DiffCount     uint64
	MutationCount uint64
}

// Differ reconciles two trees in the same arena and fills a mutation
// buffer for the external applier.
//
// Reconciliation preserves identity: when old and new nodes match, the
// old node absorbs the new node's content and keeps its handle, so the
// applier keeps addressing the real node it already created. Only
// replaced or newly created subtrees introduce fresh ids.
type Differ struct {
	arena     *Arena
	scopes    *ScopeTable
	buf       *[]Mutation
	Profiling *Profiling
}

// NewDiffer creates a differ over arena and scopes, appending mutation
// records to buf.
func NewDiffer(arena *Arena, scopes *ScopeTable, buf *[]Mutation, prof *Profiling) *Differ {
	if prof == nil {
		prof = &Profiling{}
	}
	return &Differ{arena: arena, scopes: scopes, buf: buf, Profiling: prof}
}

func (d *Differ) emit(m Mutation) {
	*d.buf = append(*d.buf, m)
	d.Profiling.MutationCount++
}

// DiffNodes reconciles new against old under parent (the nearest real
// element, or the zero id for the mount container) and returns the
// surviving handle: old when the nodes merged, new when old was
// replaced.
func (d *Differ) DiffNodes(old, new, parent NodeID) NodeID {
	oldNode := d.arena.MustGet(old)
	newNode := d.arena.MustGet(new)

	// Static subtree fast path: a rendered static subtree never diffs.
	if meta := d.arena.Meta(old); meta != nil && meta.IsStatic && meta.RenderCount > 0 {
		d.destroyTree(new)
		return old
	}

	d.Profiling.DiffCount++
	if meta := d.arena.Meta(old); meta != nil {
		meta.RenderCount++
	}

	if oldNode.Kind != newNode.Kind {
		return d.replaceNode(old, new, parent)
	}

	switch oldNode.Kind {
	case KindText:
		if oldNode.Text != newNode.Text {
			d.emit(Mutation{Op: OpSetText, ID: old.Uint64(), Value: newNode.Text})
			oldNode.Text = newNode.Text
		}
		d.arena.Remove(new)
		return old

	case KindElement:
		if oldNode.Tag != newNode.Tag {
			return d.replaceNode(old, new, parent)
		}
		d.diffAttributes(old, oldNode, newNode)
		// Handlers are adopted without re-attaching: the applier's
		// listeners survive, the callbacks stay fresh.
		oldNode.Listeners = newNode.Listeners
		oldNode.Children = d.diffChildren(old, oldNode.Children, newNode.Children)
		if meta := d.arena.Meta(new); meta != nil && meta.IsStatic {
			d.arena.Meta(old).IsStatic = true
		}
		d.arena.Remove(new)
		return old

	case KindFragment:
		oldNode.Children = d.diffChildren(parent, oldNode.Children, newNode.Children)
		d.arena.Remove(new)
		return old

	case KindComponent:
		if renderIdentity(oldNode.Render) != renderIdentity(newNode.Render) {
			return d.replaceNode(old, new, parent)
		}
		scope := d.scopes.Get(oldNode.Scope)
		if scope == nil {
			return d.replaceNode(old, new, parent)
		}
		// Reuse the existing Scope: run the (fresh) render thunk and
		// reconcile its output against the scope's current root.
		oldNode.Render = newNode.Render
		newRoot := d.renderInScope(scope, oldNode.Render)
		scope.Root = d.DiffNodes(scope.Root, newRoot, parent)
		scope.NotifyUpdated()
		d.arena.Remove(new)
		return old

	case KindSuspense:
		oldNode.Actual = d.DiffNodes(oldNode.Actual, newNode.Actual, parent)
		d.destroyTree(newNode.Fallback)
		d.arena.Remove(new)
		return old

	case KindPlaceholder:
		d.arena.Remove(new)
		return old
	}
	return d.replaceNode(old, new, parent)
}

// diffAttributes reconciles the ordered attribute sets of an element,
// targeting the surviving node's id.
func (d *Differ) diffAttributes(id NodeID, oldNode, newNode *VirtualNode) {
	wire := id.Uint64()
	for _, attr := range newNode.Attrs {
		prev, ok := findAttr(oldNode.Attrs, attr.Name, attr.NS)
		if !ok || prev.Value != attr.Value {
			d.emit(Mutation{Op: OpSetAttribute, ID: wire, Name: attr.Name, Value: attr.Value, NS: attr.NS})
		}
	}
	for _, attr := range oldNode.Attrs {
		if _, ok := findAttr(newNode.Attrs, attr.Name, attr.NS); !ok {
			d.emit(Mutation{Op: OpRemoveAttribute, ID: wire, Name: attr.Name, NS: attr.NS})
		}
	}
	oldNode.Attrs = newNode.Attrs
}

func findAttr(attrs []Attribute, name, ns string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name && a.NS == ns {
			return a, true
		}
	}
	return Attribute{}, false
}

// diffChildren reconciles child lists under parent and returns the
// surviving child handles in new order. Keyed lists go through the
// source/LIS algorithm; unkeyed lists match positionally.
func (d *Differ) diffChildren(parent NodeID, oldChildren, newChildren []NodeID) []NodeID {
	if d.hasKeys(oldChildren) || d.hasKeys(newChildren) {
		return d.diffKeyedChildren(parent, oldChildren, newChildren)
	}
	return d.diffUnkeyedChildren(parent, oldChildren, newChildren)
}

// diffUnkeyedChildren matches children by position: pairs diff in
// place, surplus new children append, surplus old children are removed.
func (d *Differ) diffUnkeyedChildren(parent NodeID, oldChildren, newChildren []NodeID) []NodeID {
	result := make([]NodeID, 0, len(newChildren))
	n := len(oldChildren)
	if len(newChildren) < n {
		n = len(newChildren)
	}
	for i := 0; i < n; i++ {
		result = append(result, d.DiffNodes(oldChildren[i], newChildren[i], parent))
	}
	for _, extra := range newChildren[n:] {
		d.CreateTree(extra)
		if ids := d.flatten(extra); len(ids) > 0 {
			d.emit(Mutation{Op: OpAppendChildren, ID: parent.Uint64(), Children: ids})
		}
		result = append(result, extra)
	}
	for _, gone := range oldChildren[n:] {
		d.removeTree(gone)
	}
	return result
}

// diffKeyedChildren reconciles keyed lists. Matched keys recurse and
// keep their old handle; the longest increasing subsequence of matched
// old indices stays in place, everything else moves or is created,
// emitted right-to-left against a running reference sibling.
func (d *Differ) diffKeyedChildren(parent NodeID, oldChildren, newChildren []NodeID) []NodeID {
	type oldEntry struct {
		id  NodeID
		idx int
	}
	oldKeyed := make(map[string]oldEntry, len(oldChildren))
	for idx, id := range oldChildren {
		if node := d.arena.Get(id); node != nil && node.HasKey() {
			oldKeyed[node.Key] = oldEntry{id: id, idx: idx}
		}
	}

	source := make([]int, len(newChildren))
	result := make([]NodeID, len(newChildren))
	matched := make(map[int]bool, len(oldChildren))

	for i, id := range newChildren {
		source[i] = -1
		result[i] = id
		node := d.arena.Get(id)
		if node == nil || !node.HasKey() {
			continue
		}
		if entry, ok := oldKeyed[node.Key]; ok {
			source[i] = entry.idx
			matched[entry.idx] = true
			result[i] = d.DiffNodes(entry.id, id, parent)
		}
	}

	lis := longestIncreasingSubsequence(source)
	lisIdx := len(lis) - 1

	// Right-to-left: reference is the first concrete node of the
	// leftmost already-placed sibling.
	var reference uint64
	for i := len(newChildren) - 1; i >= 0; i-- {
		switch {
		case source[i] == -1:
			d.CreateTree(result[i])
			if ids := d.flatten(result[i]); len(ids) > 0 {
				d.insertAt(parent, reference, ids)
			}
		case lisIdx >= 0 && i == lis[lisIdx]:
			lisIdx--
		default:
			if ids := d.flatten(result[i]); len(ids) > 0 {
				d.insertAt(parent, reference, ids)
			}
		}
		if fd := d.firstConcreteNode(result[i]); fd != 0 {
			reference = fd
		}
	}

	for idx, id := range oldChildren {
		if !matched[idx] {
			d.removeTree(id)
		}
	}
	return result
}

// insertAt emits InsertBefore against the reference sibling, falling
// back to AppendChildren on the parent when no reference exists.
func (d *Differ) insertAt(parent NodeID, reference uint64, ids []uint64) {
	if reference != 0 {
		d.emit(Mutation{Op: OpInsertBefore, ReferenceID: reference, Children: ids})
	} else {
		d.emit(Mutation{Op: OpAppendChildren, ID: parent.Uint64(), Children: ids})
	}
}

// replaceNode creates the new subtree at old's position, removes old,
// and returns new as the surviving handle.
func (d *Differ) replaceNode(old, new, parent NodeID) NodeID {
	d.CreateTree(new)
	newIDs := d.flatten(new)
	anchor := d.firstConcreteNode(old)
	if len(newIDs) > 0 {
		d.insertAt(parent, anchor, newIDs)
	}
	d.removeTree(old)
	return new
}

// CreateTree emits the mutations that build the subtree rooted at id,
// depth-first: create the node, set attributes, attach listeners,
// recurse into children, then append the flattened children.
func (d *Differ) CreateTree(id NodeID) {
	node := d.arena.MustGet(id)
	wire := id.Uint64()

	if meta := d.arena.Meta(id); meta != nil {
		meta.RenderCount++
	}

	switch node.Kind {
	case KindElement:
		d.emit(Mutation{Op: OpCreateElement, ID: wire, Tag: node.Tag})
		for _, attr := range node.Attrs {
			d.emit(Mutation{Op: OpSetAttribute, ID: wire, Name: attr.Name, Value: attr.Value, NS: attr.NS})
		}
		for _, listener := range node.Listeners {
			d.emit(Mutation{Op: OpNewEventListener, ID: wire, Name: listener.Name})
		}
		var childIDs []uint64
		for _, child := range node.Children {
			d.CreateTree(child)
			childIDs = append(childIDs, d.flatten(child)...)
		}
		if len(childIDs) > 0 {
			d.emit(Mutation{Op: OpAppendChildren, ID: wire, Children: childIDs})
		}

	case KindText:
		d.emit(Mutation{Op: OpCreateTextNode, ID: wire, Text: node.Text})

	case KindPlaceholder:
		d.emit(Mutation{Op: OpCreatePlaceholder, ID: wire})

	case KindFragment:
		// Fragments contribute their flattened children only.
		for _, child := range node.Children {
			d.CreateTree(child)
		}

	case KindComponent:
		scope := &Scope{Name: node.Name}
		node.Scope = d.scopes.Insert(scope)
		root := d.renderInScope(scope, node.Render)
		scope.Root = root
		d.CreateTree(root)
		scope.NotifyMounted()

	case KindSuspense:
		d.CreateTree(node.Actual)
	}
}

// renderInScope runs a component render thunk with the scope current
// (so lifecycle hooks register against it) and this differ's arena
// active.
func (d *Differ) renderInScope(scope *Scope, render RenderFunc) NodeID {
	var root NodeID
	WithScope(scope, func() {
		WithArena(d.arena, func() {
			root = render()
		})
	})
	return root
}

// removeTree emits Remove for every concrete node of the subtree, then
// frees its arena slots and destroys its scopes.
func (d *Differ) removeTree(id NodeID) {
	for _, wire := range d.flatten(id) {
		d.emit(Mutation{Op: OpRemove, ID: wire})
	}
	d.destroyTree(id)
}

// destroyTree frees the subtree's arena slots and destroys component
// scopes (firing their drop hooks), emitting nothing.
func (d *Differ) destroyTree(id NodeID) {
	node := d.arena.Get(id)
	if node == nil {
		return
	}
	for _, child := range node.Children {
		d.destroyTree(child)
	}
	switch node.Kind {
	case KindComponent:
		if scope := d.scopes.Get(node.Scope); scope != nil {
			d.destroyTree(scope.Root)
		}
		d.scopes.Destroy(node.Scope)
	case KindSuspense:
		d.destroyTree(node.Actual)
		d.destroyTree(node.Fallback)
	}
	d.arena.Remove(id)
}

// firstConcreteNode resolves id to the wire id of its first concrete
// (element/text/placeholder) descendant, or 0 when the subtree renders
// nothing.
func (d *Differ) firstConcreteNode(id NodeID) uint64 {
	node := d.arena.Get(id)
	if node == nil {
		return 0
	}
	switch node.Kind {
	case KindElement, KindText, KindPlaceholder:
		return id.Uint64()
	case KindFragment:
		for _, child := range node.Children {
			if wire := d.firstConcreteNode(child); wire != 0 {
				return wire
			}
		}
	case KindComponent:
		if scope := d.scopes.Get(node.Scope); scope != nil {
			return d.firstConcreteNode(scope.Root)
		}
	case KindSuspense:
		return d.firstConcreteNode(node.Actual)
	}
	return 0
}

// flatten returns the wire ids of the concrete nodes the subtree
// contributes to its parent, in document order.
func (d *Differ) flatten(id NodeID) []uint64 {
	node := d.arena.Get(id)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case KindElement, KindText, KindPlaceholder:
		return []uint64{id.Uint64()}
	case KindFragment:
		var out []uint64
		for _, child := range node.Children {
			out = append(out, d.flatten(child)...)
		}
		return out
	case KindComponent:
		if scope := d.scopes.Get(node.Scope); scope != nil {
			return d.flatten(scope.Root)
		}
	case KindSuspense:
		return d.flatten(node.Actual)
	}
	return nil
}

// Flatten returns the wire ids a subtree contributes to its parent.
func (d *Differ) Flatten(id NodeID) []uint64 {
	return d.flatten(id)
}

// FirstConcrete returns the wire id of the subtree's first concrete
// descendant, or 0.
func (d *Differ) FirstConcrete(id NodeID) uint64 {
	return d.firstConcreteNode(id)
}

// RemoveTree removes a whole subtree with mutations, destroying its
// scopes and freeing its arena slots.
func (d *Differ) RemoveTree(id NodeID) {
	d.removeTree(id)
}

// hasKeys reports whether any child carries a reconciliation key.
func (d *Differ) hasKeys(children []NodeID) bool {
	for _, id := range children {
		if node := d.arena.Get(id); node != nil && node.HasKey() {
			return true
		}
	}
	return false
}

// renderIdentity returns a stable token for a render thunk: the code
// pointer of the callable. Two Component nodes are "the same
// component" when their thunks share it.
func renderIdentity(fn RenderFunc) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}

// longestIncreasingSubsequence returns the indices (ascending) of a
// maximum-length strictly increasing subsequence of arr, ignoring -1
// entries. Patience algorithm with binary search; O(n log n).
func longestIncreasingSubsequence(arr []int) []int {
	if len(arr) == 0 {
		return nil
	}
	// predecessors[i]: index of the previous element in the best
	// subsequence ending at i. tails[l]: index of the smallest tail of
	// any increasing subsequence of length l.
	predecessors := make([]int, len(arr))
	tails := make([]int, len(arr)+1)
	length := 0

	for i, v := range arr {
		if v == -1 {
			continue
		}
		lo, hi := 1, length
		for lo <= hi {
			mid := (lo + hi + 1) / 2
			if arr[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		predecessors[i] = tails[lo-1]
		tails[lo] = i
		if lo > length {
			length = lo
		}
	}

	out := make([]int, length)
	k := tails[length]
	for i := length - 1; i >= 0; i-- {
		out[i] = k
		k = predecessors[k]
	}
	return out
}
