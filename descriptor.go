package carlgo

import "unsafe"

// LeafCodec lets a TypeDescriptor serialize its own instances without
// going through the member walker: primitive types (int, float,
// string, ...) are leaves. A composite TypeDescriptor built by
// reflectbuild never sets Leaf; only leaf.go's built-ins do.
type LeafCodec interface {
	Encode(w *Writer, addr unsafe.Pointer) error
	Decode(r *Reader, addr unsafe.Pointer) error
}

// TypeDescriptor is the runtime description of one reflected type: its
// name, its storage size, an optional parent for single inheritance,
// its members in declaration order, how to allocate a fresh instance,
// and - for primitive types only - a LeafCodec that bypasses member
// walking entirely.
type TypeDescriptor struct {
	Name     string
	Size     int
	Parent   *TypeDescriptor
	Members  []*MemberDescriptor
	Allocate func() unsafe.Pointer
	Leaf     LeafCodec
}

// HasStructuralMembers reports whether values of this type can own
// nested composites or pointers that the pointer table must discover.
// Leaf types never do; every composite type does, even one with zero
// members of its own, since a registered parent might contribute some.
func (d *TypeDescriptor) HasStructuralMembers() bool {
	return d.Leaf == nil
}

// rootAncestor walks the Parent chain up to the type with no parent.
// The walker's wire grammar names a record after this root ancestor
// (see walker.go); the concrete allocated type is carried separately
// by the pointer table's "(Name)" tag.
func (d *TypeDescriptor) rootAncestor() *TypeDescriptor {
	cur := d
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// findMember looks up a member by name across this type and its
// ancestors, innermost first. Composite members declared by a parent
// type are reachable through the same merged record the walker writes
// for this type, so a single name lookup against the whole chain is
// enough to resolve any field in the record.
func (d *TypeDescriptor) findMember(name string) (*MemberDescriptor, bool) {
	for t := d; t != nil; t = t.Parent {
		for _, m := range t.Members {
			if m.Name == name {
				return m, true
			}
		}
	}
	return nil, false
}

// validate checks the invariants a registered TypeDescriptor must
// hold: a name, a positive size for non-leaf types, a non-nil
// allocator for composite types, and member offsets/sizes that fit
// within the declared Size.
func (d *TypeDescriptor) validate() error {
	if d.Name == "" {
		return invalidMemberLayoutErr("<unnamed>", "", "descriptor has no name")
	}
	if d.Leaf != nil {
		return nil
	}
	if d.Size <= 0 {
		return invalidMemberLayoutErr(d.Name, "", "non-positive size")
	}
	if d.Allocate == nil {
		return invalidMemberLayoutErr(d.Name, "", "missing allocator")
	}
	for _, m := range d.Members {
		if m.Type == nil {
			return invalidMemberLayoutErr(d.Name, m.Name, "member has no type")
		}
		end := m.Offset + m.TotalSize
		if m.TotalSize <= 0 || end > d.Size {
			return invalidMemberLayoutErr(d.Name, m.Name, "member extends past owning type's size")
		}
		if !m.IsPointer && m.Type.Size > 0 && m.TotalSize%m.Type.Size != 0 {
			return invalidMemberLayoutErr(d.Name, m.Name, "array member size is not a multiple of element size")
		}
	}
	return nil
}
