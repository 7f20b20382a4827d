package carlgo

import (
	"strconv"
	"unsafe"
)

// walker.go implements the recursive encoder/decoder grammar: every
// composite record is
//
//	['(' ConcreteName ')'] index TypeName
//	[
//	    member-name value
//	    ...
//	]
//
// where TypeName names the root of the value's inheritance chain (the
// concrete allocated type, when it differs, is carried by the
// optional leading tag) and the block holds the parent's members
// before the type's own, in declaration order, as one merged sequence
// rather than one nested block per inheritance level. Array elements
// omit the index (arrayContext suppresses it) since an array has no
// independent pointer-table identity of its own.

// Encode writes value's wire representation to w. resolver supplies
// pointer-table indices for any pointer members encountered along the
// way; arrayContext is true when value is itself one element of an
// enclosing array, in which case the leading index is omitted.
func (d *TypeDescriptor) Encode(value ReflectedValue, w *Writer, resolver IndexResolver, arrayContext bool) error {
	if d.Leaf != nil {
		return d.Leaf.Encode(w, value.Addr)
	}

	if !arrayContext {
		idx, err := resolver.IndexOf(value)
		if err != nil {
			return err
		}
		if err := w.Token(strconv.Itoa(idx)); err != nil {
			return err
		}
	}

	root := d.rootAncestor()
	if err := w.Token(root.Name); err != nil {
		return err
	}
	if err := w.Newline(); err != nil {
		return err
	}
	if err := w.Open(); err != nil {
		return err
	}

	if value.Addr == nil {
		if err := w.Token("null"); err != nil {
			return err
		}
		if err := w.Newline(); err != nil {
			return err
		}
		return w.Close()
	}

	if err := d.writeMembers(value, w, resolver); err != nil {
		return err
	}
	return w.Close()
}

// writeMembers emits the parent's members (recursively, outermost
// ancestor first) and then this type's own, so a multi-level
// inheritance chain contributes to a single block in declaration
// order.
func (d *TypeDescriptor) writeMembers(value ReflectedValue, w *Writer, resolver IndexResolver) error {
	if d.Parent != nil {
		if err := d.Parent.writeMembers(value, w, resolver); err != nil {
			return err
		}
	}
	for _, m := range d.Members {
		if err := d.encodeMember(value, m, w, resolver); err != nil {
			return err
		}
	}
	return nil
}

func (d *TypeDescriptor) encodeMember(value ReflectedValue, m *MemberDescriptor, w *Writer, resolver IndexResolver) error {
	if err := w.Token(m.Name); err != nil {
		return err
	}

	switch {
	case m.IsPointer:
		target := m.PointerTarget(value.Addr)
		idx, err := resolver.IndexOf(ReflectedValue{Descriptor: m.Type, Addr: target})
		if err != nil {
			return err
		}
		if err := w.Token(strconv.Itoa(idx)); err != nil {
			return err
		}
		return w.Newline()

	case m.IsArray():
		if err := w.Newline(); err != nil {
			return err
		}
		w.IncreaseIndent()
		defer w.DecreaseIndent()
		base := m.Get(value.Addr)
		elemSize := uintptr(m.Type.Size)
		for i := 0; i < m.ElementCount(); i++ {
			elemAddr := unsafe.Add(base, uintptr(i)*elemSize)
			elem := ReflectedValue{Descriptor: m.Type, Addr: elemAddr}
			if err := m.Type.Encode(elem, w, resolver, true); err != nil {
				return err
			}
		}
		return nil

	default:
		sub := ReflectedValue{Descriptor: m.Type, Addr: m.Get(value.Addr)}
		return m.Type.Encode(sub, w, resolver, false)
	}
}

// Decode reads one record of dest's type from r, filling dest.Addr's
// memory in place and returning the value's final address - normally
// dest.Addr itself, or nil if the record turned out to encode a null
// pointer target. arrayContext mirrors Encode's: true when decoding
// one element of an enclosing array, suppressing the leading index.
func (d *TypeDescriptor) Decode(dest ReflectedValue, r *Reader, sink DecodeTable, arrayContext bool) (unsafe.Pointer, error) {
	if d.Leaf != nil {
		return dest.Addr, d.Leaf.Decode(r, dest.Addr)
	}

	haveIndex := !arrayContext
	var idx int
	if haveIndex {
		tok, err := r.NextToken()
		if err != nil {
			return nil, err
		}
		idx, err = strconv.Atoi(tok)
		if err != nil {
			return nil, malformedStreamErr(r.Pos(), "expected pointer table index: "+err.Error())
		}
	}

	root := d.rootAncestor()
	nameTok, err := r.NextToken()
	if err != nil {
		return nil, err
	}
	if nameTok != root.Name {
		return nil, malformedStreamErr(r.Pos(), "expected type name "+root.Name+", got "+nameTok)
	}

	openTok, err := r.NextToken()
	if err != nil {
		return nil, err
	}
	if openTok != "[" {
		return nil, malformedStreamErr(r.Pos(), "expected '[', got "+openTok)
	}

	resolved := dest.Addr
	for {
		tok, err := r.NextToken()
		if err != nil {
			return nil, err
		}
		if tok == "]" {
			break
		}
		if tok == "null" {
			resolved = nil
			continue
		}
		member, ok := d.findMember(tok)
		if !ok {
			return nil, malformedStreamErr(r.Pos(), "unknown member "+tok)
		}
		if err := d.decodeMember(dest, member, r, sink); err != nil {
			return nil, err
		}
	}

	if haveIndex {
		sink.Publish(idx, ReflectedValue{Descriptor: d, Addr: resolved})
	}
	return resolved, nil
}

func (d *TypeDescriptor) decodeMember(dest ReflectedValue, m *MemberDescriptor, r *Reader, sink DecodeTable) error {
	switch {
	case m.IsPointer:
		tok, err := r.NextToken()
		if err != nil {
			return err
		}
		idx, err := strconv.Atoi(tok)
		if err != nil {
			return malformedStreamErr(r.Pos(), "expected pointer table index: "+err.Error())
		}
		base := dest.Addr
		member := m
		sink.AddPatch(Patch{
			TargetIndex: idx,
			Apply: func(target unsafe.Pointer) {
				member.SetPointerTarget(base, target)
			},
		})
		return nil

	case m.IsArray():
		base := m.Get(dest.Addr)
		elemSize := uintptr(m.Type.Size)
		for i := 0; i < m.ElementCount(); i++ {
			elemAddr := unsafe.Add(base, uintptr(i)*elemSize)
			elem := ReflectedValue{Descriptor: m.Type, Addr: elemAddr}
			if _, err := m.Type.Decode(elem, r, sink, true); err != nil {
				return err
			}
		}
		return nil

	default:
		sub := ReflectedValue{Descriptor: m.Type, Addr: m.Get(dest.Addr)}
		_, err := m.Type.Decode(sub, r, sink, false)
		return err
	}
}
