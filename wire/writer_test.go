package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterTokenSpacingAndIndent(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	require.NoError(t, w.Token("0"))
	require.NoError(t, w.Token("Foo"))
	require.NoError(t, w.Newline())
	require.NoError(t, w.Open())
	require.NoError(t, w.Token("x"))
	require.NoError(t, w.Token("10"))
	require.NoError(t, w.Newline())
	require.NoError(t, w.Close())
	require.NoError(t, w.Flush())

	assert.Equal(t, "0 Foo\n[\n\tx 10\n]\n", out.String())
}

func TestWriterTag(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, w.Tag("Derived"))
	require.NoError(t, w.Token("3"))
	require.NoError(t, w.Flush())
	assert.Equal(t, "(Derived) 3", out.String())
}

func TestWriterNestedIndent(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, w.Token("0"))
	require.NoError(t, w.Token("Grid"))
	require.NoError(t, w.Newline())
	require.NoError(t, w.Open())
	require.NoError(t, w.Token("cells"))
	require.NoError(t, w.Newline())
	w.IncreaseIndent()
	require.NoError(t, w.Token("7"))
	require.NoError(t, w.Newline())
	require.NoError(t, w.Token("8"))
	require.NoError(t, w.Newline())
	w.DecreaseIndent()
	require.NoError(t, w.Close())
	require.NoError(t, w.Flush())

	assert.Equal(t, "0 Grid\n[\n\tcells\n\t\t7\n\t\t8\n]\n", out.String())
}

func TestWriteLiteralPreservesEmbeddedWhitespace(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, w.WriteLiteral("hi there\nfriend"))
	require.NoError(t, w.Flush())
	assert.Equal(t, "15 hi there\nfriend", out.String())
}
