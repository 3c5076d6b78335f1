package graph

import "testing"

func TestAllocateAndKind(t *testing.T) {
	g := New()
	s := g.Allocate(KindSource)
	m := g.Allocate(KindMemo)
	e := g.Allocate(KindEffect)

	for _, tc := range []struct {
		h    Handle
		want Kind
	}{
		{s, KindSource},
		{m, KindMemo},
		{e, KindEffect},
	} {
		got, ok := g.KindOf(tc.h)
		if !ok || got != tc.want {
			t.Errorf("KindOf(%v) = %v, %v; want %v, true", tc.h, got, ok, tc.want)
		}
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
}

func TestEdgeSymmetry(t *testing.T) {
	g := New()
	s := g.Allocate(KindSource)
	m := g.Allocate(KindMemo)

	if err := g.AddEdge(m, s); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants: %v", err)
	}

	deps := g.Deps(m)
	if len(deps) != 1 || deps[0] != s {
		t.Errorf("Deps(m) = %v, want [%v]", deps, s)
	}
	subs := g.Subs(s)
	if len(subs) != 1 || subs[0] != m {
		t.Errorf("Subs(s) = %v, want [%v]", subs, m)
	}
}

func TestAddEdgeDuplicateAndSelfLoop(t *testing.T) {
	g := New()
	s := g.Allocate(KindSource)
	m := g.Allocate(KindMemo)

	if err := g.AddEdge(m, m); err != nil {
		t.Fatalf("self-loop should be a no-op, got %v", err)
	}
	if len(g.Deps(m)) != 0 {
		t.Errorf("self-loop created an edge")
	}

	for i := 0; i < 3; i++ {
		if err := g.AddEdge(m, s); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	if len(g.Deps(m)) != 1 || len(g.Subs(s)) != 1 {
		t.Errorf("duplicate edges: deps=%v subs=%v", g.Deps(m), g.Subs(s))
	}
}

func TestAddEdgeRefusesCycle(t *testing.T) {
	g := New()
	a := g.Allocate(KindMemo)
	b := g.Allocate(KindMemo)
	c := g.Allocate(KindMemo)

	// a -> b -> c (c depends on b depends on a)
	if err := g.AddEdge(b, a); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(c, b); err != nil {
		t.Fatal(err)
	}
	// a depending on c closes the cycle.
	if err := g.AddEdge(a, c); err == nil {
		t.Fatal("expected cycle error")
	}
	// The failed edge must not be half-recorded.
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants after refused edge: %v", err)
	}
}

func TestDepthMonotonicity(t *testing.T) {
	g := New()
	s := g.Allocate(KindSource)
	a := g.Allocate(KindMemo)
	b := g.Allocate(KindMemo)
	c := g.Allocate(KindMemo)

	mustEdge := func(o, d Handle) {
		t.Helper()
		if err := g.AddEdge(o, d); err != nil {
			t.Fatal(err)
		}
	}
	mustEdge(a, s)
	mustEdge(b, a)
	mustEdge(c, b)
	mustEdge(c, s) // shortcut edge must not lower c's depth

	if got := g.Depth(s); got != 0 {
		t.Errorf("depth(s) = %d, want 0", got)
	}
	if got := g.Depth(a); got != 1 {
		t.Errorf("depth(a) = %d, want 1", got)
	}
	if got := g.Depth(b); got != 2 {
		t.Errorf("depth(b) = %d, want 2", got)
	}
	if got := g.Depth(c); got != 3 {
		t.Errorf("depth(c) = %d, want 3", got)
	}
	if err := g.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestClearDeps(t *testing.T) {
	g := New()
	s1 := g.Allocate(KindSource)
	s2 := g.Allocate(KindSource)
	m := g.Allocate(KindMemo)
	if err := g.AddEdge(m, s1); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(m, s2); err != nil {
		t.Fatal(err)
	}

	g.ClearDeps(m)

	if len(g.Deps(m)) != 0 {
		t.Errorf("deps not cleared: %v", g.Deps(m))
	}
	if len(g.Subs(s1)) != 0 || len(g.Subs(s2)) != 0 {
		t.Errorf("reverse edges not severed: %v %v", g.Subs(s1), g.Subs(s2))
	}
}

func TestRemoveSeversBothDirections(t *testing.T) {
	g := New()
	s := g.Allocate(KindSource)
	m := g.Allocate(KindMemo)
	e := g.Allocate(KindEffect)
	if err := g.AddEdge(m, s); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(e, m); err != nil {
		t.Fatal(err)
	}

	g.Remove(m)

	if g.Contains(m) {
		t.Error("removed node still resolves")
	}
	if len(g.Subs(s)) != 0 {
		t.Errorf("Subs(s) = %v after removing subscriber", g.Subs(s))
	}
	if len(g.Deps(e)) != 0 {
		t.Errorf("Deps(e) = %v after removing dependency", g.Deps(e))
	}
	if err := g.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestGenerationalHandles(t *testing.T) {
	g := New()
	old := g.Allocate(KindSource)
	g.Remove(old)
	fresh := g.Allocate(KindSource)

	if old == fresh {
		t.Fatal("recycled slot produced an identical handle")
	}
	if g.Contains(old) {
		t.Error("stale handle resolves")
	}
	if !g.Contains(fresh) {
		t.Error("fresh handle does not resolve")
	}

	// Operations against the stale handle must be silent no-ops.
	g.MarkDirty(old)
	if g.DirtyCount() != 0 {
		t.Error("stale MarkDirty recorded dirtiness")
	}
	g.Remove(old)
	if !g.Contains(fresh) {
		t.Error("stale Remove destroyed the fresh occupant")
	}
}

func TestMarkDirtyIdempotent(t *testing.T) {
	g := New()
	m := g.Allocate(KindMemo)
	g.MarkDirty(m)
	g.MarkDirty(m)
	g.MarkDirty(m)
	if g.DirtyCount() != 1 {
		t.Errorf("DirtyCount = %d, want 1", g.DirtyCount())
	}
	if !g.IsDirty(m) {
		t.Error("IsDirty = false after MarkDirty")
	}
}

func TestDrainDirtyOrder(t *testing.T) {
	g := New()
	s := g.Allocate(KindSource)
	a := g.Allocate(KindMemo)
	b := g.Allocate(KindMemo)
	if err := g.AddEdge(a, s); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(b, a); err != nil {
		t.Fatal(err)
	}

	// Mark deepest first; drain must come back shallow-to-deep.
	g.MarkDirty(b)
	g.MarkDirty(a)
	g.MarkDirty(s)

	got := g.DrainDirty()
	want := []Handle{s, a, b}
	if len(got) != len(want) {
		t.Fatalf("drained %d handles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if g.DirtyCount() != 0 {
		t.Error("dirty set not empty after drain")
	}
	if g.IsDirty(a) {
		t.Error("dirty flag survives drain")
	}
}

func TestTakeDirty(t *testing.T) {
	g := New()
	m := g.Allocate(KindMemo)
	g.MarkDirty(m)
	if !g.TakeDirty(m) {
		t.Error("TakeDirty = false on dirty node")
	}
	if g.TakeDirty(m) {
		t.Error("TakeDirty = true twice")
	}
	if g.DirtyCount() != 0 {
		t.Error("dirty list not drained by TakeDirty")
	}
}

func TestRemoveDirtyNode(t *testing.T) {
	g := New()
	m := g.Allocate(KindMemo)
	g.MarkDirty(m)
	g.Remove(m)
	if g.DirtyCount() != 0 {
		t.Error("removed node left in dirty set")
	}
	if got := g.DrainDirty(); len(got) != 0 {
		t.Errorf("DrainDirty = %v, want empty", got)
	}
}

func TestHandlePacking(t *testing.T) {
	g := New()
	h := g.Allocate(KindSource)
	if got := HandleFromUint64(h.Uint64()); got != h {
		t.Errorf("round trip %v -> %d -> %v", h, h.Uint64(), got)
	}
	var zero Handle
	if zero.Uint64() != 0 {
		t.Error("zero handle must pack to 0")
	}
}
