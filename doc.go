// Package carlgo implements a runtime reflection and object-graph
// serialization facility: a type registry, descriptor-driven member
// access, and a recursive textual encoder/decoder that can round-trip
// pointer-linked object graphs (shared references, cycles, nulls)
// through a deferred patch step.
//
// Descriptors are normally produced by carlgo/reflectbuild from a Go
// struct type rather than written by hand. Graph-level discovery and
// the pointer table live in carlgo/graph; the token-level grammar
// lives in carlgo/wire.
package carlgo
