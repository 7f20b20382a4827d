package carlgo

import "unsafe"

// IndexResolver looks up the pointer-table index a previously
// discovered value was assigned. TypeDescriptor.Encode calls back
// into it to emit a pointer member's target as an index rather than
// a raw address. carlgo/graph.Table implements this; the interface
// exists so the root package never imports carlgo/graph.
type IndexResolver interface {
	IndexOf(v ReflectedValue) (int, error)
}

// Patch is a deferred pointer fix-up: once every table entry has been
// decoded, Apply is called with the now-resolved address for
// TargetIndex so it can be written into whatever pointer slot
// requested it.
type Patch struct {
	TargetIndex int
	Apply       func(target unsafe.Pointer)
}

// DecodeTable is the callback surface TypeDescriptor.Decode uses while
// reading one record: AddPatch defers a pointer member until every
// entry has an address, and Publish records the fully decoded value
// for a given table index once its record closes.
type DecodeTable interface {
	AddPatch(p Patch)
	Publish(index int, v ReflectedValue)
}
