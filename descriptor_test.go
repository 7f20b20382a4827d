package carlgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorValidateRejectsZeroSize(t *testing.T) {
	reg := NewTypeRegistry()
	d := &TypeDescriptor{Name: "Empty", Size: 0, Allocate: noopAllocate}
	err := reg.Register(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMemberLayout)
}

func TestDescriptorValidateRejectsMissingAllocator(t *testing.T) {
	reg := NewTypeRegistry()
	d := &TypeDescriptor{Name: "NoAlloc", Size: 4}
	err := reg.Register(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMemberLayout)
}

func TestDescriptorValidateRejectsMemberPastEnd(t *testing.T) {
	reg := NewTypeRegistry()
	RegisterLeaves(reg)
	i32, _ := reg.Lookup("int32")
	require.NotNil(t, i32)

	d := &TypeDescriptor{
		Name:     "Overflow",
		Size:     4,
		Allocate: noopAllocate,
		Members: []*MemberDescriptor{
			{Name: "x", Type: i32, Offset: 2, TotalSize: 4},
		},
	}
	err := reg.Register(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMemberLayout)
}

func TestDescriptorRootAncestor(t *testing.T) {
	base := &TypeDescriptor{Name: "Base", Size: 4, Allocate: noopAllocate}
	derived := &TypeDescriptor{Name: "Derived", Size: 8, Parent: base, Allocate: noopAllocate}
	assert.Same(t, base, derived.rootAncestor())
	assert.Same(t, base, base.rootAncestor())
}

func TestDescriptorFindMemberWalksParentChain(t *testing.T) {
	reg := NewTypeRegistry()
	RegisterLeaves(reg)
	i32, _ := reg.Lookup("int32")

	base := &TypeDescriptor{
		Name: "Base", Size: 4, Allocate: noopAllocate,
		Members: []*MemberDescriptor{{Name: "k", Type: i32, Offset: 0, TotalSize: 4}},
	}
	derived := &TypeDescriptor{
		Name: "Derived", Size: 8, Parent: base, Allocate: noopAllocate,
		Members: []*MemberDescriptor{{Name: "m", Type: i32, Offset: 4, TotalSize: 4}},
	}

	m, ok := derived.findMember("k")
	require.True(t, ok)
	assert.Equal(t, 0, m.Offset)

	m, ok = derived.findMember("m")
	require.True(t, ok)
	assert.Equal(t, 4, m.Offset)

	_, ok = derived.findMember("missing")
	assert.False(t, ok)
}
