package devtools

import (
	"fmt"
	"log/slog"

	"github.com/m1gwings/treedrawer/tree"

	"github.com/krishpranav/nexa/pkg/graph"
	"github.com/krishpranav/nexa/pkg/runtime"
	"github.com/krishpranav/nexa/pkg/vdom"
)

// Snapshot is a point-in-time view of a runtime's internals.
type Snapshot struct {
	// Reactive graph
	GraphNodes    int `json:"graph_nodes"`
	GraphEdges    int `json:"graph_edges"`
	DirtyNodes    int `json:"dirty_nodes"`
	Sources       int `json:"sources"`
	Memos         int `json:"memos"`
	Effects       int `json:"effects"`
	MaxDepth      int `json:"max_depth"`
	PropagationOK bool `json:"propagation_ok"`

	// Document
	ArenaNodes int `json:"arena_nodes"`
	Scopes     int `json:"scopes"`

	// Diff engine
	DiffCount     uint64 `json:"diff_count"`
	MutationCount uint64 `json:"mutation_count"`
}

// Capture takes a snapshot of rt.
func Capture(rt *runtime.Runtime) Snapshot {
	g := rt.Reactive().Graph()
	snap := Snapshot{
		GraphNodes:    g.Len(),
		DirtyNodes:    g.DirtyCount(),
		ArenaNodes:    rt.Arena().Len(),
		Scopes:        rt.Scopes().Len(),
		DiffCount:     rt.Profiling().DiffCount,
		MutationCount: rt.Profiling().MutationCount,
		PropagationOK: g.CheckInvariants() == nil,
	}
	for _, h := range g.Handles() {
		snap.GraphEdges += len(g.Deps(h))
		if d := g.Depth(h); d > snap.MaxDepth {
			snap.MaxDepth = d
		}
		kind, _ := g.KindOf(h)
		switch kind {
		case graph.KindSource:
			snap.Sources++
		case graph.KindMemo:
			snap.Memos++
		case graph.KindEffect:
			snap.Effects++
		}
	}
	return snap
}

// Log writes the snapshot through logger at info level.
func (s Snapshot) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("runtime snapshot",
		"graph_nodes", s.GraphNodes,
		"graph_edges", s.GraphEdges,
		"dirty", s.DirtyNodes,
		"sources", s.Sources,
		"memos", s.Memos,
		"effects", s.Effects,
		"max_depth", s.MaxDepth,
		"arena_nodes", s.ArenaNodes,
		"scopes", s.Scopes,
		"diffs", s.DiffCount,
		"mutations", s.MutationCount,
		"invariants_ok", s.PropagationOK,
	)
}

// DumpTree draws the virtual document rooted at id and logs it. The
// drawing is a box tree, one node per virtual node, fragments and
// components labelled by what they contribute.
func DumpTree(rt *runtime.Runtime, root vdom.NodeID, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	t := buildTree(rt, root)
	if t == nil {
		logger.Info("document tree", "tree", "(empty)")
		return
	}
	logger.Info("document tree", "tree", "\n"+t.String())
}

func buildTree(rt *runtime.Runtime, id vdom.NodeID) *tree.Tree {
	node := rt.Arena().Get(id)
	if node == nil {
		return nil
	}
	t := tree.NewTree(tree.NodeString(nodeLabel(node)))
	addChildren(rt, t, node)
	return t
}

func addChildren(rt *runtime.Runtime, t *tree.Tree, node *vdom.VirtualNode) {
	for _, child := range node.Children {
		if sub := buildTree(rt, child); sub != nil {
			graft(t, sub)
		}
	}
	switch node.Kind {
	case vdom.KindComponent:
		if scope := rt.Scopes().Get(node.Scope); scope != nil {
			if sub := buildTree(rt, scope.Root); sub != nil {
				graft(t, sub)
			}
		}
	case vdom.KindSuspense:
		if sub := buildTree(rt, node.Actual); sub != nil {
			graft(t, sub)
		}
	}
}

// graft copies a built subtree under parent; treedrawer only grows
// trees through AddChild.
func graft(parent *tree.Tree, child *tree.Tree) {
	n := parent.AddChild(child.Val())
	for _, grandchild := range child.Children() {
		graft(n, grandchild)
	}
}

func nodeLabel(node *vdom.VirtualNode) string {
	switch node.Kind {
	case vdom.KindElement:
		if node.Key != "" {
			return fmt.Sprintf("<%s key=%s>", node.Tag, node.Key)
		}
		return "<" + node.Tag + ">"
	case vdom.KindText:
		text := node.Text
		if len(text) > 24 {
			text = text[:21] + "..."
		}
		return fmt.Sprintf("%q", text)
	case vdom.KindFragment:
		return "fragment"
	case vdom.KindComponent:
		return "component " + node.Name
	case vdom.KindSuspense:
		return "suspense"
	case vdom.KindPlaceholder:
		return "placeholder"
	default:
		return "?"
	}
}
