// Package graph implements the reactive dependency graph.
//
// The graph owns every reactive node (source cells, memos, effects) and
// the bidirectional dependency edges between them. Nodes are addressed
// by generational handles so a removed node's slot can be reused without
// stale handles aliasing the new occupant.
//
// The graph is a passive data structure: it records dirtiness and edge
// changes but never executes update thunks itself. Ordering and
// execution belong to package scheduler.
package graph
