package vdom

// The constructors below are what the markup preprocessor emits. They
// insert nodes into the currently active arena and return handles; a
// call outside a render scope is a fatal error at the call site.

// Element inserts an element node with ordered attributes, event
// bindings and children.
func Element(tag string, attrs []Attribute, listeners []Listener, children ...NodeID) NodeID {
	return mustActiveArena().Insert(VirtualNode{
		Kind:      KindElement,
		Tag:       tag,
		Attrs:     attrs,
		Listeners: listeners,
		Children:  children,
	})
}

// KeyedElement is Element with a reconciliation key.
func KeyedElement(tag, key string, attrs []Attribute, listeners []Listener, children ...NodeID) NodeID {
	a := mustActiveArena()
	id := a.Insert(VirtualNode{
		Kind:      KindElement,
		Tag:       tag,
		Attrs:     attrs,
		Listeners: listeners,
		Children:  children,
		Key:       key,
	})
	return id
}

// Text inserts a text node.
func Text(text string) NodeID {
	return mustActiveArena().Insert(VirtualNode{Kind: KindText, Text: text})
}

// Fragment inserts a grouping node; fragments contribute their
// flattened children to the document and have no node of their own.
func Fragment(children ...NodeID) NodeID {
	return mustActiveArena().Insert(VirtualNode{Kind: KindFragment, Children: children})
}

// Component inserts a component node. The render thunk runs when the
// subtree is first created and on reconciliation of a matching
// component; thunk identity decides "same component".
func Component(name string, render RenderFunc) NodeID {
	return mustActiveArena().Insert(VirtualNode{Kind: KindComponent, Name: name, Render: render})
}

// Suspense inserts a suspense node over an actual and fallback subtree.
func Suspense(actual, fallback NodeID) NodeID {
	return mustActiveArena().Insert(VirtualNode{Kind: KindSuspense, Actual: actual, Fallback: fallback})
}

// Placeholder inserts a position marker.
func Placeholder() NodeID {
	return mustActiveArena().Insert(VirtualNode{Kind: KindPlaceholder})
}

// Static flags the subtree rooted at id as never changing after first
// render; diffing skips it once it has rendered.
func Static(id NodeID) NodeID {
	a := mustActiveArena()
	markStatic(a, id)
	return id
}

func markStatic(a *Arena, id NodeID) {
	node := a.Get(id)
	if node == nil {
		return
	}
	if m := a.Meta(id); m != nil {
		m.IsStatic = true
	}
	for _, child := range node.Children {
		markStatic(a, child)
	}
	if node.Kind == KindSuspense {
		markStatic(a, node.Actual)
		markStatic(a, node.Fallback)
	}
}

// Attr builds a single attribute.
func Attr(name, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

// AttrNS builds a namespaced attribute.
func AttrNS(name, value, ns string) Attribute {
	return Attribute{Name: name, Value: value, NS: ns}
}

// On builds a single event binding.
func On(name string, handler func(Event)) Listener {
	return Listener{Name: name, Handler: handler}
}
