package carlgo

import "unsafe"

// ReflectedValue pairs a TypeDescriptor with the address of a concrete
// instance of that type. It is the unit every encode/decode and
// discovery operation passes around - the Go analog of the original
// library's ReflectedVariable.
type ReflectedValue struct {
	Descriptor *TypeDescriptor
	Addr       unsafe.Pointer
}

// IsNull reports whether this value's address is nil - the
// serialized form of a null pointer target.
func (v ReflectedValue) IsNull() bool {
	return v.Addr == nil
}

// Key identifies a value for a pointer table's by-address
// de-duplication: address first, type name second, exactly matching
// the original library's own disambiguation order so that two structs
// starting at the same address (a member at offset zero, or a pointer
// that has been reinterpreted) are still told apart by type. It is a
// comparable struct so callers can use it directly as a map key.
type Key struct {
	Addr     unsafe.Pointer
	TypeName string
}

// Key returns v's de-duplication key for a pointer table.
func (v ReflectedValue) Key() Key {
	name := ""
	if v.Descriptor != nil {
		name = v.Descriptor.Name
	}
	return Key{Addr: v.Addr, TypeName: name}
}
