// Package router provides a signal-backed navigator.
//
// The current location is a source cell, so any component that reads
// it re-renders on navigation. Routes are declared as path patterns
// with :param segments and a catch-all *; matching resolves a pattern
// and its bound parameters for the current path.
package router
