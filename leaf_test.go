package carlgo

import (
	"bytes"
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripLeaf(t *testing.T, name string, set func(addr unsafe.Pointer), get func(addr unsafe.Pointer) any) {
	t.Helper()
	d, ok := Registry().Lookup(name)
	require.True(t, ok)

	size := d.Size
	buf := make([]byte, size)
	addr := unsafe.Pointer(&buf[0])
	set(addr)

	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, d.Leaf.Encode(w, addr))
	require.NoError(t, w.Flush())

	decodeBuf := make([]byte, size)
	decodeAddr := unsafe.Pointer(&decodeBuf[0])
	r, err := NewReader(&out)
	require.NoError(t, err)
	require.NoError(t, d.Leaf.Decode(r, decodeAddr))

	assert.Equal(t, get(addr), get(decodeAddr))
}

func TestLeafRoundTrips(t *testing.T) {
	roundTripLeaf(t, "int32", func(a unsafe.Pointer) { *(*int32)(a) = -42 }, func(a unsafe.Pointer) any { return *(*int32)(a) })
	roundTripLeaf(t, "uint64", func(a unsafe.Pointer) { *(*uint64)(a) = 1 << 40 }, func(a unsafe.Pointer) any { return *(*uint64)(a) })
	roundTripLeaf(t, "float64", func(a unsafe.Pointer) { *(*float64)(a) = 13 }, func(a unsafe.Pointer) any { return *(*float64)(a) })
	roundTripLeaf(t, "bool", func(a unsafe.Pointer) { *(*bool)(a) = true }, func(a unsafe.Pointer) any { return *(*bool)(a) })
}

func TestStringLeafPreservesWhitespace(t *testing.T) {
	d, ok := Registry().Lookup("string")
	require.True(t, ok)

	s := "hello world"
	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, d.Leaf.Encode(w, unsafe.Pointer(&s)))
	require.NoError(t, w.Flush())
	assert.Equal(t, "11 hello world\n", out.String())

	var decoded string
	r, err := NewReader(&out)
	require.NoError(t, err)
	require.NoError(t, d.Leaf.Decode(r, unsafe.Pointer(&decoded)))
	assert.Equal(t, s, decoded)
}

func TestStringLeafEmbeddedNewline(t *testing.T) {
	d, _ := Registry().Lookup("string")
	s := "line one\nline two"

	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, d.Leaf.Encode(w, unsafe.Pointer(&s)))
	require.NoError(t, w.Flush())

	var decoded string
	r, err := NewReader(&out)
	require.NoError(t, err)
	require.NoError(t, d.Leaf.Decode(r, unsafe.Pointer(&decoded)))
	assert.Equal(t, s, decoded)
}

func TestInt32LeafFuzzRoundTrip(t *testing.T) {
	f := func(v int32) bool {
		d, _ := Registry().Lookup("int32")
		var out bytes.Buffer
		w := NewWriter(&out)
		if err := d.Leaf.Encode(w, unsafe.Pointer(&v)); err != nil {
			return false
		}
		if err := w.Flush(); err != nil {
			return false
		}
		var decoded int32
		r, err := NewReader(&out)
		if err != nil {
			return false
		}
		if err := d.Leaf.Decode(r, unsafe.Pointer(&decoded)); err != nil {
			return false
		}
		return decoded == v
	}
	require.NoError(t, quick.Check(f, nil))
}
