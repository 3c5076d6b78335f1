// Package protocol is the binary wire format between a runtime host
// and a cross-process applier (thin client).
//
// Frames carry either a mutation batch (host → applier) or an event
// (applier → host). Integers use protobuf-style varints (ZigZag for
// signed values); strings and byte blobs are length-prefixed. All
// lengths are bounds-checked against allocation limits before any
// buffer is grown, so a corrupt or hostile stream cannot force large
// allocations.
//
// The JSON form of mutation records (package vdom) stays available for
// debugging; this package is the compact transport.
package protocol
