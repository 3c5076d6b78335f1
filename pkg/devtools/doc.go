// Package devtools exposes runtime introspection: a structured
// snapshot of the reactive graph, the arena and the diff counters, and
// a drawn tree of the live virtual document logged through slog.
package devtools
