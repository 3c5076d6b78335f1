package render

import (
	"strings"
	"testing"

	"github.com/krishpranav/nexa/pkg/vdom"
)

type fixture struct {
	arena  *vdom.Arena
	scopes *vdom.ScopeTable
}

func newFixture() *fixture {
	return &fixture{arena: vdom.NewArena(), scopes: vdom.NewScopeTable()}
}

func (f *fixture) build(fn func() vdom.NodeID) vdom.NodeID {
	var id vdom.NodeID
	vdom.WithArena(f.arena, func() {
		id = fn()
	})
	return id
}

func (f *fixture) renderer() *Renderer {
	r := New(f.arena, f.scopes)
	r.IncludeIDs = false
	return r
}

func TestRenderElementTree(t *testing.T) {
	f := newFixture()
	root := f.build(func() vdom.NodeID {
		return vdom.Element("div", []vdom.Attribute{vdom.Attr("class", "card")}, nil,
			vdom.Element("h1", nil, nil, vdom.Text("Title")),
			vdom.Text("body"),
		)
	})

	got := f.renderer().HTML(root)
	want := `<div class="card"><h1>Title</h1>body</div>`
	if got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
}

func TestRenderEscaping(t *testing.T) {
	f := newFixture()
	root := f.build(func() vdom.NodeID {
		return vdom.Element("p", []vdom.Attribute{vdom.Attr("title", `a"b<c`)}, nil,
			vdom.Text("<script>alert('x')</script>"),
		)
	})

	got := f.renderer().HTML(root)
	if strings.Contains(got, "<script>") {
		t.Errorf("text not escaped: %s", got)
	}
	if !strings.Contains(got, `title="a&quot;b&lt;c"`) {
		t.Errorf("attribute not escaped: %s", got)
	}
}

func TestRenderVoidElement(t *testing.T) {
	f := newFixture()
	root := f.build(func() vdom.NodeID {
		return vdom.Element("input", []vdom.Attribute{vdom.Attr("type", "text")}, nil)
	})
	got := f.renderer().HTML(root)
	if got != `<input type="text"/>` {
		t.Errorf("HTML = %s", got)
	}
}

func TestRenderFragmentAndPlaceholder(t *testing.T) {
	f := newFixture()
	root := f.build(func() vdom.NodeID {
		return vdom.Fragment(
			vdom.Text("a"),
			vdom.Placeholder(),
			vdom.Text("b"),
		)
	})
	got := f.renderer().HTML(root)
	if got != "a<!--placeholder-->b" {
		t.Errorf("HTML = %s", got)
	}
}

func TestRenderComponentThroughScope(t *testing.T) {
	f := newFixture()
	var buf []vdom.Mutation
	root := f.build(func() vdom.NodeID {
		return vdom.Element("main", nil, nil,
			vdom.Component("Hello", func() vdom.NodeID {
				return vdom.Element("p", nil, nil, vdom.Text("hi"))
			}),
		)
	})
	// Creating the tree instantiates the component's scope.
	vdom.NewDiffer(f.arena, f.scopes, &buf, nil).CreateTree(root)

	got := f.renderer().HTML(root)
	if got != "<main><p>hi</p></main>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestRenderIncludesIDs(t *testing.T) {
	f := newFixture()
	root := f.build(func() vdom.NodeID {
		return vdom.Element("div", nil, nil)
	})
	r := New(f.arena, f.scopes)
	got := r.HTML(root)
	if !strings.Contains(got, "data-nexa-id=") {
		t.Errorf("missing hydration id: %s", got)
	}
}
