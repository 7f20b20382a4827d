// Package reflectbuild turns a Go struct type into a carlgo.TypeDescriptor
// by inspecting it once with reflect and capturing unsafe.Pointer
// closures for every field. It is the Go substitute for the macro
// layer the original reflection library used to declare types
// (CARL_REFLECT_CLASS/CARL_REFLECT_MEMBER): Go has no preprocessor, so
// the same per-field offset-and-accessor wiring those macros expanded
// to by hand is instead derived once, at Build time, from the
// struct's own layout.
package reflectbuild

import (
	"reflect"
	"unsafe"

	"github.com/rawbytedev/carlgo"
)

// config collects Build's options.
type config struct {
	name   string
	parent *carlgo.TypeDescriptor
}

// Option configures a single Build call.
type Option func(*config)

// WithName overrides the registered type name; by default it is the
// Go struct type's own name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithParent declares single inheritance explicitly: parent's members
// are considered part of every instance of the type being built, and
// its own fields follow parent's in the wire record. Without this
// option, Build still checks the struct's first field: if it is an
// embedded (anonymous) struct whose type name is already registered,
// Build treats that as the parent automatically (embedded structs in
// any later position become ordinary members), the Go-idiomatic
// equivalent of
// CARL_DECLARE_PARENT.
func WithParent(parent *carlgo.TypeDescriptor) Option {
	return func(c *config) { c.parent = parent }
}

// pointerSize is the in-memory footprint of a Go pointer field,
// used as a member's TotalSize for layout validation purposes (the
// pointee's own size is irrelevant to how many bytes the pointer
// itself occupies in its owner).
const pointerSize = int(unsafe.Sizeof(uintptr(0)))

// Build inspects sample (a pointer to a zero-valued struct, e.g.
// &Node{}) and returns a TypeDescriptor ready for reg.Register. Every
// member's own element type - including nested composites - must
// already be registered in reg before Build is called, since Build
// resolves member types by name rather than recursively building
// them. The one exception is a pointer to the struct type being
// built (a self-referential link such as Node.Next), which resolves
// to the returned descriptor itself.
func Build(sample any, reg *carlgo.TypeRegistry, opts ...Option) (*carlgo.TypeDescriptor, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	ptrType := reflect.TypeOf(sample)
	if ptrType == nil || ptrType.Kind() != reflect.Pointer || ptrType.Elem().Kind() != reflect.Struct {
		return nil, buildErr("Build requires a pointer to a struct value")
	}
	structType := ptrType.Elem()

	name := cfg.name
	if name == "" {
		name = structType.Name()
	}
	if name == "" {
		return nil, buildErr("anonymous struct types must use WithName")
	}

	parent := cfg.parent
	fields := make([]reflect.StructField, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		if tag, ok := f.Tag.Lookup("carl"); ok && tag == "-" {
			continue
		}
		if parent == nil && i == 0 && f.Anonymous && f.Type.Kind() == reflect.Struct {
			if d, ok := reg.Lookup(f.Type.Name()); ok {
				parent = d
				continue
			}
		}
		fields = append(fields, f)
	}

	d := &carlgo.TypeDescriptor{
		Name:   name,
		Size:   int(structType.Size()),
		Parent: parent,
		Allocate: func() unsafe.Pointer {
			return reflect.New(structType).UnsafePointer()
		},
	}

	members := make([]*carlgo.MemberDescriptor, 0, len(fields))
	for _, f := range fields {
		m, err := buildMember(f, reg, structType, d)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	d.Members = members
	return d, nil
}

func buildMember(f reflect.StructField, reg *carlgo.TypeRegistry, self reflect.Type, selfDesc *carlgo.TypeDescriptor) (*carlgo.MemberDescriptor, error) {
	name := f.Name
	if tag, ok := f.Tag.Lookup("carl"); ok && tag != "" {
		name = tag
	}
	offset := f.Offset

	switch f.Type.Kind() {
	case reflect.Pointer:
		elemName := leafOrTypeName(f.Type.Elem())
		elemDesc, ok := reg.Lookup(elemName)
		if f.Type.Elem() == self {
			elemDesc, ok = selfDesc, true
		}
		if !ok {
			return nil, buildErr("member " + name + ": unregistered pointee type " + elemName)
		}
		return &carlgo.MemberDescriptor{
			Name:      name,
			Type:      elemDesc,
			Offset:    int(offset),
			TotalSize: pointerSize,
			IsPointer: true,
			Get: func(base unsafe.Pointer) unsafe.Pointer {
				return unsafe.Add(base, offset)
			},
			PointerTarget: func(base unsafe.Pointer) unsafe.Pointer {
				slot := (*unsafe.Pointer)(unsafe.Add(base, offset))
				return *slot
			},
			SetPointerTarget: func(base unsafe.Pointer, target unsafe.Pointer) {
				slot := (*unsafe.Pointer)(unsafe.Add(base, offset))
				*slot = target
			},
		}, nil

	case reflect.Array:
		elemName := leafOrTypeName(f.Type.Elem())
		elemDesc, ok := reg.Lookup(elemName)
		if !ok {
			return nil, buildErr("member " + name + ": unregistered element type " + elemName)
		}
		return &carlgo.MemberDescriptor{
			Name:      name,
			Type:      elemDesc,
			Offset:    int(offset),
			TotalSize: int(f.Type.Size()),
			Get: func(base unsafe.Pointer) unsafe.Pointer {
				return unsafe.Add(base, offset)
			},
		}, nil

	default:
		typeName := leafOrTypeName(f.Type)
		desc, ok := reg.Lookup(typeName)
		if !ok {
			return nil, buildErr("member " + name + ": unregistered type " + typeName)
		}
		return &carlgo.MemberDescriptor{
			Name:      name,
			Type:      desc,
			Offset:    int(offset),
			TotalSize: int(f.Type.Size()),
			Get: func(base unsafe.Pointer) unsafe.Pointer {
				return unsafe.Add(base, offset)
			},
		}, nil
	}
}

// leafOrTypeName maps a Go type to the name it would be registered
// under: the built-in leaf name for primitive kinds, or the type's
// own name for a composite struct.
func leafOrTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int8:
		return "int8"
	case reflect.Int16:
		return "int16"
	case reflect.Int32:
		return "int32"
	case reflect.Int64:
		return "int64"
	case reflect.Uint8:
		return "uint8"
	case reflect.Uint16:
		return "uint16"
	case reflect.Uint32:
		return "uint32"
	case reflect.Uint64:
		return "uint64"
	case reflect.Float32:
		return "float32"
	case reflect.Float64:
		return "float64"
	case reflect.Bool:
		return "bool"
	case reflect.String:
		return "string"
	default:
		return t.Name()
	}
}

func buildErr(msg string) error {
	return &BuildError{Msg: msg}
}

// BuildError reports a problem discovered while building a
// TypeDescriptor from a Go struct: an unregistered member type, a
// plain int/uint field (platform-dependent size is not supported;
// use an explicitly sized type), or a malformed sample argument.
type BuildError struct {
	Msg string
}

func (e *BuildError) Error() string {
	return "reflectbuild: " + e.Msg
}
