package router

import (
	"strings"

	"github.com/krishpranav/nexa/pkg/reactive"
)

// Match is a resolved route: the pattern that matched and the bound
// :param values.
type Match struct {
	Pattern string
	Params  map[string]string
}

// Navigator tracks the current path reactively and keeps a history
// stack for back navigation.
type Navigator struct {
	current *reactive.Signal[string]
	history []string
}

// NewNavigator creates a navigator at the given initial path.
func NewNavigator(initial string) *Navigator {
	if initial == "" {
		initial = "/"
	}
	return &Navigator{
		current: reactive.NewSignal(normalize(initial)),
		history: []string{normalize(initial)},
	}
}

// Current returns the current path, tracking the read.
func (n *Navigator) Current() string {
	return n.current.Get()
}

// Push navigates to path, recording the previous location.
func (n *Navigator) Push(path string) {
	path = normalize(path)
	n.history = append(n.history, path)
	n.current.Set(path)
}

// Replace navigates to path without growing the history stack.
func (n *Navigator) Replace(path string) {
	path = normalize(path)
	if len(n.history) > 0 {
		n.history[len(n.history)-1] = path
	} else {
		n.history = append(n.history, path)
	}
	n.current.Set(path)
}

// Back pops the history stack. At the root entry it is a no-op.
func (n *Navigator) Back() {
	if len(n.history) < 2 {
		return
	}
	n.history = n.history[:len(n.history)-1]
	n.current.Set(n.history[len(n.history)-1])
}

// Depth returns the history stack depth.
func (n *Navigator) Depth() int {
	return len(n.history)
}

// Release drops the navigator's reactive cell.
func (n *Navigator) Release() {
	n.current.Release()
}

// Routes is an ordered set of path patterns. First match wins.
type Routes struct {
	patterns []string
}

// NewRoutes creates a route table from patterns in priority order.
func NewRoutes(patterns ...string) *Routes {
	return &Routes{patterns: patterns}
}

// Resolve matches path against the table. The boolean is false when
// nothing matched.
func (r *Routes) Resolve(path string) (Match, bool) {
	path = normalize(path)
	for _, pattern := range r.patterns {
		if params, ok := matchPattern(pattern, path); ok {
			return Match{Pattern: pattern, Params: params}, true
		}
	}
	return Match{}, false
}

// matchPattern matches one pattern against a path. Segments starting
// with ':' bind a parameter; a trailing '*' consumes the rest.
func matchPattern(pattern, path string) (map[string]string, bool) {
	pSegs := splitPath(pattern)
	segs := splitPath(path)

	params := map[string]string{}
	for i, pSeg := range pSegs {
		if pSeg == "*" {
			params["*"] = strings.Join(segs[i:], "/")
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		if strings.HasPrefix(pSeg, ":") {
			params[pSeg[1:]] = segs[i]
			continue
		}
		if pSeg != segs[i] {
			return nil, false
		}
	}
	if len(segs) != len(pSegs) {
		return nil, false
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
