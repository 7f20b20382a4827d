package graph

import (
	"io"

	"github.com/rawbytedev/carlgo"
)

// Serialize discovers root's reachable graph and writes it to w using
// a fresh Table. It is the external entry point spec.md's grammar
// describes; it lives here rather than in the root carlgo package
// because it needs a concrete Table, and carlgo/graph already depends
// on carlgo - giving carlgo a reverse dependency on graph would create
// an import cycle for no behavioral gain.
func Serialize(root carlgo.ReflectedValue, w io.Writer, opts ...Option) error {
	t := NewTable(opts...)
	if err := t.Populate(root); err != nil {
		return err
	}
	writer := carlgo.NewWriter(w)
	return t.Emit(writer)
}

// Deserialize reads a full graph from r using reg to resolve type
// names to descriptors, returning the root value (table index 0).
func Deserialize(r io.Reader, reg *carlgo.TypeRegistry, opts ...Option) (carlgo.ReflectedValue, error) {
	reader, err := carlgo.NewReader(r)
	if err != nil {
		return carlgo.ReflectedValue{}, err
	}
	t := NewTable(opts...)
	return t.Load(reader, reg)
}
