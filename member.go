package carlgo

import "unsafe"

// MemberDescriptor describes one field of a composite TypeDescriptor:
// its name, its declared type, where it lives relative to the owning
// instance, and the closures reflectbuild captured to read or mutate
// it without repeating reflect.Value lookups on every access.
//
// Get/PointerTarget/SetPointerTarget all take the owning instance's
// base address and do the offset arithmetic reflectbuild baked in at
// build time; callers never compute offsets themselves.
type MemberDescriptor struct {
	Name      string
	Type      *TypeDescriptor
	Offset    int
	TotalSize int
	IsPointer bool

	// Get returns the address of this member within base: for a
	// plain or array member this is base+Offset; for a pointer
	// member it is the address of the pointer slot itself.
	Get func(base unsafe.Pointer) unsafe.Pointer

	// PointerTarget reads the value currently stored in a pointer
	// member's slot. Only valid when IsPointer is true.
	PointerTarget func(base unsafe.Pointer) unsafe.Pointer

	// SetPointerTarget stores target into a pointer member's slot.
	// Only valid when IsPointer is true.
	SetPointerTarget func(base unsafe.Pointer, target unsafe.Pointer)
}

// IsArray reports whether this member is a fixed-size array of Type
// rather than a single instance of it: TotalSize exceeds one
// element's size. Mirrors ReflectedMember::isArray() in the original
// reflection library, which infers the same thing from m_size versus
// the member's reflection data size.
func (m *MemberDescriptor) IsArray() bool {
	if m.IsPointer || m.Type == nil || m.Type.Size == 0 {
		return false
	}
	return m.TotalSize > m.Type.Size
}

// ElementCount returns how many elements an array member holds. It is
// only meaningful when IsArray reports true.
func (m *MemberDescriptor) ElementCount() int {
	if !m.IsArray() {
		return 1
	}
	return m.TotalSize / m.Type.Size
}
