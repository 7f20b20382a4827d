package carlgo

import "github.com/cockroachdb/errors"

// Sentinel errors. Callers match against these with errors.Is; every
// error this package detects itself wraps one of them so the
// underlying cause survives stack-trace formatting. Errors from the
// token reader and writer are returned as they are and wrap none of
// them: input that ends mid-record yields io.ErrUnexpectedEOF, not
// ErrMalformedStream.
var (
	ErrDuplicateType       = errors.New("carlgo: duplicate type registration")
	ErrUnknownType         = errors.New("carlgo: unknown type")
	ErrMalformedStream     = errors.New("carlgo: malformed stream")
	ErrIndexOutOfRange     = errors.New("carlgo: pointer table index out of range")
	ErrInvalidMemberLayout = errors.New("carlgo: invalid member layout")
	ErrAllocationFailure   = errors.New("carlgo: allocation failure")
)

func duplicateTypeErr(name string) error {
	return errors.Wrapf(ErrDuplicateType, "type %q", name)
}

func malformedStreamErr(pos int, reason string) error {
	return errors.Wrapf(ErrMalformedStream, "at byte %d: %s", pos, reason)
}

func invalidMemberLayoutErr(typeName, memberName, reason string) error {
	return errors.Wrapf(ErrInvalidMemberLayout, "%s.%s: %s", typeName, memberName, reason)
}

// UnknownTypeErr reports that name has no registered TypeDescriptor.
// Exported so carlgo/graph can attach the same context a registry
// lookup failure would carry, without graph needing its own sentinel.
func UnknownTypeErr(name string) error {
	return errors.Wrapf(ErrUnknownType, "type %q", name)
}

// IndexOutOfRangeErr reports that idx falls outside a pointer table
// sized size.
func IndexOutOfRangeErr(idx, size int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d (table size %d)", idx, size)
}

// AllocationFailureErr reports that a registered type's Allocate
// function returned a nil pointer.
func AllocationFailureErr(typeName string) error {
	return errors.Wrapf(ErrAllocationFailure, "type %q", typeName)
}

// MalformedStreamErr reports a malformed-stream condition detected
// outside this package (currently carlgo/graph's table header
// parsing), at the given byte offset.
func MalformedStreamErr(pos int, reason string) error {
	return malformedStreamErr(pos, reason)
}
