package carlgo

import (
	"strconv"
	"unsafe"
)

// leaf.go registers the primitive types that ship with the library
// itself rather than being declared by a caller - the Go equivalent
// of the built-in scalar ReflectionData entries the original registers
// before any user macro runs.

type intLeaf struct {
	size int
	bits int
}

func (c intLeaf) Encode(w *Writer, addr unsafe.Pointer) error {
	var v int64
	switch c.size {
	case 1:
		v = int64(*(*int8)(addr))
	case 2:
		v = int64(*(*int16)(addr))
	case 4:
		v = int64(*(*int32)(addr))
	case 8:
		v = *(*int64)(addr)
	}
	if err := w.Token(strconv.FormatInt(v, 10)); err != nil {
		return err
	}
	return w.Newline()
}

func (c intLeaf) Decode(r *Reader, addr unsafe.Pointer) error {
	tok, err := r.NextToken()
	if err != nil {
		return err
	}
	v, err := strconv.ParseInt(tok, 10, c.bits)
	if err != nil {
		return malformedStreamErr(r.Pos(), "expected integer: "+err.Error())
	}
	switch c.size {
	case 1:
		*(*int8)(addr) = int8(v)
	case 2:
		*(*int16)(addr) = int16(v)
	case 4:
		*(*int32)(addr) = int32(v)
	case 8:
		*(*int64)(addr) = v
	}
	return nil
}

type uintLeaf struct {
	size int
	bits int
}

func (c uintLeaf) Encode(w *Writer, addr unsafe.Pointer) error {
	var v uint64
	switch c.size {
	case 1:
		v = uint64(*(*uint8)(addr))
	case 2:
		v = uint64(*(*uint16)(addr))
	case 4:
		v = uint64(*(*uint32)(addr))
	case 8:
		v = *(*uint64)(addr)
	}
	if err := w.Token(strconv.FormatUint(v, 10)); err != nil {
		return err
	}
	return w.Newline()
}

func (c uintLeaf) Decode(r *Reader, addr unsafe.Pointer) error {
	tok, err := r.NextToken()
	if err != nil {
		return err
	}
	v, err := strconv.ParseUint(tok, 10, c.bits)
	if err != nil {
		return malformedStreamErr(r.Pos(), "expected unsigned integer: "+err.Error())
	}
	switch c.size {
	case 1:
		*(*uint8)(addr) = uint8(v)
	case 2:
		*(*uint16)(addr) = uint16(v)
	case 4:
		*(*uint32)(addr) = uint32(v)
	case 8:
		*(*uint64)(addr) = v
	}
	return nil
}

type float32Leaf struct{}

func (float32Leaf) Encode(w *Writer, addr unsafe.Pointer) error {
	v := *(*float32)(addr)
	if err := w.Token(strconv.FormatFloat(float64(v), 'g', -1, 32)); err != nil {
		return err
	}
	return w.Newline()
}

func (float32Leaf) Decode(r *Reader, addr unsafe.Pointer) error {
	tok, err := r.NextToken()
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return malformedStreamErr(r.Pos(), "expected float32: "+err.Error())
	}
	*(*float32)(addr) = float32(v)
	return nil
}

type float64Leaf struct{}

func (float64Leaf) Encode(w *Writer, addr unsafe.Pointer) error {
	v := *(*float64)(addr)
	if err := w.Token(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
		return err
	}
	return w.Newline()
}

func (float64Leaf) Decode(r *Reader, addr unsafe.Pointer) error {
	tok, err := r.NextToken()
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return malformedStreamErr(r.Pos(), "expected float64: "+err.Error())
	}
	*(*float64)(addr) = v
	return nil
}

type boolLeaf struct{}

func (boolLeaf) Encode(w *Writer, addr unsafe.Pointer) error {
	v := *(*bool)(addr)
	tok := "false"
	if v {
		tok = "true"
	}
	if err := w.Token(tok); err != nil {
		return err
	}
	return w.Newline()
}

func (boolLeaf) Decode(r *Reader, addr unsafe.Pointer) error {
	tok, err := r.NextToken()
	if err != nil {
		return err
	}
	switch tok {
	case "true":
		*(*bool)(addr) = true
	case "false":
		*(*bool)(addr) = false
	default:
		return malformedStreamErr(r.Pos(), "expected true/false, got "+tok)
	}
	return nil
}

// stringLeaf encodes a Go string as the wire grammar's length-prefixed
// literal, since string contents may contain whitespace or newlines
// that would otherwise be mistaken for token boundaries.
type stringLeaf struct{}

func (stringLeaf) Encode(w *Writer, addr unsafe.Pointer) error {
	v := *(*string)(addr)
	if err := w.WriteLiteral(v); err != nil {
		return err
	}
	return w.Newline()
}

func (stringLeaf) Decode(r *Reader, addr unsafe.Pointer) error {
	lenTok, err := r.NextToken()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(lenTok)
	if err != nil || n < 0 {
		return malformedStreamErr(r.Pos(), "expected string length, got "+lenTok)
	}
	s, err := r.ReadLiteral(n)
	if err != nil {
		return malformedStreamErr(r.Pos(), "truncated string literal: "+err.Error())
	}
	*(*string)(addr) = s
	return nil
}

func registerLeaf(reg *TypeRegistry, name string, size int, codec LeafCodec) {
	d := &TypeDescriptor{Name: name, Size: size, Leaf: codec}
	if err := reg.Register(d); err != nil {
		panic(err) // only happens if the same registry seeds leaves twice
	}
}

// RegisterLeaves seeds reg with the built-in scalar types (the signed
// and unsigned integer widths, both floats, bool and string) under
// their canonical names. This file's init does this once for the
// global Registry(); tests that want an isolated registry
// still carrying the built-ins call this directly instead of sharing
// process-wide state.
func RegisterLeaves(reg *TypeRegistry) {
	registerLeaf(reg, "int8", 1, intLeaf{size: 1, bits: 8})
	registerLeaf(reg, "int16", 2, intLeaf{size: 2, bits: 16})
	registerLeaf(reg, "int32", 4, intLeaf{size: 4, bits: 32})
	registerLeaf(reg, "int64", 8, intLeaf{size: 8, bits: 64})
	registerLeaf(reg, "uint8", 1, uintLeaf{size: 1, bits: 8})
	registerLeaf(reg, "uint16", 2, uintLeaf{size: 2, bits: 16})
	registerLeaf(reg, "uint32", 4, uintLeaf{size: 4, bits: 32})
	registerLeaf(reg, "uint64", 8, uintLeaf{size: 8, bits: 64})
	registerLeaf(reg, "float32", 4, float32Leaf{})
	registerLeaf(reg, "float64", 8, float64Leaf{})
	registerLeaf(reg, "bool", 1, boolLeaf{})
	registerLeaf(reg, "string", int(unsafe.Sizeof("")), stringLeaf{})
}

func init() {
	RegisterLeaves(Registry())
}
