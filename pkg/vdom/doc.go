// Package vdom implements the virtual document model and the diff
// engine.
//
// Virtual nodes live in an Arena, a generational index map; parent and
// child references are handle copies, never ownership. Construction
// goes through the active arena, a scoped goroutine-local pointer
// established around a render thunk. The Differ reconciles two trees
// in the same arena and emits a compact stream of Mutation records for
// an external applier; keyed children are reordered along a longest
// increasing subsequence so identity-preserving moves are minimal.
package vdom
