package render

import (
	"strconv"
	"strings"

	"github.com/krishpranav/nexa/pkg/vdom"
)

// voidElements never take children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Renderer walks an arena subtree and writes HTML.
type Renderer struct {
	arena  *vdom.Arena
	scopes *vdom.ScopeTable

	// IncludeIDs controls emission of data-nexa-id attributes.
	IncludeIDs bool
}

// New creates a renderer over a runtime's arena and scope table.
func New(arena *vdom.Arena, scopes *vdom.ScopeTable) *Renderer {
	return &Renderer{arena: arena, scopes: scopes, IncludeIDs: true}
}

// HTML renders the subtree rooted at id to markup.
func (r *Renderer) HTML(id vdom.NodeID) string {
	var sb strings.Builder
	r.write(&sb, id)
	return sb.String()
}

func (r *Renderer) write(sb *strings.Builder, id vdom.NodeID) {
	node := r.arena.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case vdom.KindText:
		sb.WriteString(escapeText(node.Text))

	case vdom.KindElement:
		sb.WriteByte('<')
		sb.WriteString(node.Tag)
		if r.IncludeIDs {
			sb.WriteString(` data-nexa-id="`)
			sb.WriteString(strconv.FormatUint(id.Uint64(), 10))
			sb.WriteByte('"')
		}
		for _, attr := range node.Attrs {
			sb.WriteByte(' ')
			sb.WriteString(attr.Name)
			sb.WriteString(`="`)
			sb.WriteString(escapeAttr(attr.Value))
			sb.WriteByte('"')
		}
		if voidElements[node.Tag] {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		for _, child := range node.Children {
			r.write(sb, child)
		}
		sb.WriteString("</")
		sb.WriteString(node.Tag)
		sb.WriteByte('>')

	case vdom.KindFragment:
		for _, child := range node.Children {
			r.write(sb, child)
		}

	case vdom.KindComponent:
		if scope := r.scopes.Get(node.Scope); scope != nil {
			r.write(sb, scope.Root)
		}

	case vdom.KindSuspense:
		r.write(sb, node.Actual)

	case vdom.KindPlaceholder:
		sb.WriteString("<!--placeholder-->")
	}
}
