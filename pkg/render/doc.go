// Package render serializes a live virtual tree to HTML.
//
// The dev server uses it for the initial document: the runtime mounts
// and renders into its arena, then the renderer walks the arena
// subtree and writes markup. Each element carries a data-nexa-id
// attribute so a thin client can address real nodes by the same wire
// ids the mutation stream uses.
package render
