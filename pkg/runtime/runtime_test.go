package runtime

import (
	"strconv"
	"testing"

	"github.com/krishpranav/nexa/pkg/reactive"
	"github.com/krishpranav/nexa/pkg/vdom"
)

func findOp(batch []vdom.Mutation, op vdom.MutationOp) (vdom.Mutation, bool) {
	for _, m := range batch {
		if m.Op == op {
			return m, true
		}
	}
	return vdom.Mutation{}, false
}

func countOp(batch []vdom.Mutation, op vdom.MutationOp) int {
	n := 0
	for _, m := range batch {
		if m.Op == op {
			n++
		}
	}
	return n
}

func TestCounterSetText(t *testing.T) {
	rt := New()
	n := reactive.NewSignal(0)
	defer n.Release()

	rt.Mount(func() vdom.NodeID {
		return vdom.Element("div", nil, nil,
			vdom.Text("n="+strconv.Itoa(n.Get())),
		)
	})
	initial := rt.DrainMutations()
	if _, ok := findOp(initial, vdom.OpCreateTextNode); !ok {
		t.Fatalf("initial batch missing CreateTextNode: %v", initial)
	}

	n.Set(1)

	batch := rt.DrainMutations()
	if len(batch) != 1 {
		t.Fatalf("batch = %v, want a single SetText", batch)
	}
	if batch[0].Op != vdom.OpSetText || batch[0].Value != "n=1" {
		t.Errorf("got %v, want SetText{n=1}", batch[0])
	}
}

func TestMountEventUpdate(t *testing.T) {
	rt := New()
	count := reactive.NewSignal(0)
	defer count.Release()

	rt.Mount(func() vdom.NodeID {
		return vdom.Element("button", nil,
			[]vdom.Listener{vdom.On("click", func(vdom.Event) {
				count.Set(count.Peek() + 1)
			})},
			vdom.Text(strconv.Itoa(count.Get())),
		)
	})

	initial := rt.DrainMutations()
	create, ok := findOp(initial, vdom.OpCreateElement)
	if !ok || create.Tag != "button" {
		t.Fatalf("initial batch missing CreateElement{button}: %v", initial)
	}
	listener, ok := findOp(initial, vdom.OpNewEventListener)
	if !ok || listener.Name != "click" || listener.ID != create.ID {
		t.Fatalf("initial batch missing NewEventListener{click} on the button: %v", initial)
	}
	text, ok := findOp(initial, vdom.OpCreateTextNode)
	if !ok || text.Text != "0" {
		t.Fatalf("initial batch missing CreateTextNode{0}: %v", initial)
	}
	mount, ok := findOp(initial, vdom.OpAppendChildren)
	if !ok {
		t.Fatal("initial batch missing AppendChildren")
	}
	_ = mount
	last := initial[len(initial)-1]
	if last.Op != vdom.OpAppendChildren || last.ID != 0 {
		t.Errorf("final record must append to container 0, got %v", last)
	}

	rt.HandleEvent(create.ID, vdom.Click())

	batch := rt.DrainMutations()
	set, ok := findOp(batch, vdom.OpSetText)
	if !ok || set.Value != "1" {
		t.Fatalf("click did not produce SetText{1}: %v", batch)
	}
}

func TestEventForStaleIDIsNoOp(t *testing.T) {
	rt := New()
	s := reactive.NewSignal(0)
	defer s.Release()
	rt.Mount(func() vdom.NodeID {
		return vdom.Element("div", nil, nil, vdom.Text(strconv.Itoa(s.Get())))
	})
	rt.DrainMutations()

	rt.HandleEvent(0xdeadbeef, vdom.Click())
	if batch := rt.DrainMutations(); len(batch) != 0 {
		t.Errorf("stale event produced mutations: %v", batch)
	}
}

func TestEventUnmatchedNameIsNoOp(t *testing.T) {
	rt := New()
	clicked := false
	rt.Mount(func() vdom.NodeID {
		return vdom.Element("button", nil,
			[]vdom.Listener{vdom.On("click", func(vdom.Event) { clicked = true })},
			vdom.Text("x"),
		)
	})
	initial := rt.DrainMutations()
	create, _ := findOp(initial, vdom.OpCreateElement)

	rt.HandleEvent(create.ID, vdom.Input("zzz"))
	if clicked {
		t.Error("input event dispatched to click listener")
	}
}

func TestEventPanicIsolated(t *testing.T) {
	rt := New()
	s := reactive.NewSignal(0)
	defer s.Release()
	rt.Mount(func() vdom.NodeID {
		return vdom.Element("button", nil,
			[]vdom.Listener{vdom.On("click", func(vdom.Event) { panic("boom") })},
			vdom.Text(strconv.Itoa(s.Get())),
		)
	})
	initial := rt.DrainMutations()
	create, _ := findOp(initial, vdom.OpCreateElement)

	rt.HandleEvent(create.ID, vdom.Click()) // must not propagate the panic

	s.Set(1)
	if batch := rt.DrainMutations(); countOp(batch, vdom.OpSetText) != 1 {
		t.Errorf("runtime wedged after callback panic: %v", batch)
	}
}

func TestBatchedWritesSingleRender(t *testing.T) {
	rt := New()
	s := reactive.NewSignal(0)
	defer s.Release()
	renders := 0
	rt.Mount(func() vdom.NodeID {
		renders++
		return vdom.Element("div", nil, nil, vdom.Text(strconv.Itoa(s.Get())))
	})
	rt.DrainMutations()
	if renders != 1 {
		t.Fatalf("renders = %d after mount", renders)
	}

	reactive.Batch(func() {
		s.Set(1)
		s.Set(2)
		s.Set(3)
	})

	if renders != 2 {
		t.Errorf("renders = %d, want 2 (batch coalesces)", renders)
	}
	batch := rt.DrainMutations()
	if len(batch) != 1 || batch[0].Value != "3" {
		t.Errorf("batch = %v, want single SetText{3}", batch)
	}
}

func TestFineGrainedRerenderKeepsIdentity(t *testing.T) {
	rt := New()
	s := reactive.NewSignal("a")
	defer s.Release()
	rt.Mount(func() vdom.NodeID {
		return vdom.Element("div", []vdom.Attribute{vdom.Attr("id", "root")}, nil,
			vdom.Element("span", nil, nil, vdom.Text(s.Get())),
		)
	})
	initial := rt.DrainMutations()
	originalRoot := rt.RootID()
	var spanID uint64
	for _, m := range initial {
		if m.Op == vdom.OpCreateElement && m.Tag == "span" {
			spanID = m.ID
		}
	}
	if spanID == 0 {
		t.Fatal("span not created")
	}

	s.Set("b")
	batch := rt.DrainMutations()
	if countOp(batch, vdom.OpCreateElement) != 0 {
		t.Errorf("re-render recreated elements: %v", batch)
	}

	s.Set("c")
	rt.DrainMutations()

	// After two re-renders the root wire ids are still the originals.
	if rootID := rt.RootID(); rootID == 0 || rootID != originalRoot {
		t.Error("root id lost across re-renders")
	}
}

func TestUnmountRemovesTreeAndScopes(t *testing.T) {
	rt := New()
	rt.Mount(func() vdom.NodeID {
		return vdom.Element("div", nil, nil, vdom.Text("x"))
	})
	rt.DrainMutations()
	if rt.Arena().Len() == 0 {
		t.Fatal("arena empty after mount")
	}

	rt.Unmount()
	batch := rt.DrainMutations()
	if countOp(batch, vdom.OpRemove) == 0 {
		t.Errorf("unmount emitted no Remove: %v", batch)
	}
	if rt.Arena().Len() != 0 {
		t.Errorf("arena holds %d nodes after unmount", rt.Arena().Len())
	}
}

func TestRootLifecycleHooksFire(t *testing.T) {
	rt := New()
	s := reactive.NewSignal(0)
	defer s.Release()
	var events []string

	rt.Mount(func() vdom.NodeID {
		vdom.OnMount(func() { events = append(events, "mount") })
		vdom.OnUpdate(func() { events = append(events, "update") })
		return vdom.Element("div", nil, nil, vdom.Text(strconv.Itoa(s.Get())))
	})
	if len(events) != 1 || events[0] != "mount" {
		t.Fatalf("after mount: %v", events)
	}

	s.Set(1)
	if len(events) != 2 || events[1] != "update" {
		t.Fatalf("after update: %v", events)
	}
}
