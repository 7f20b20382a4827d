package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderNextTokenSkipsWhitespace(t *testing.T) {
	r, err := NewReader(bytes.NewBufferString("  0   Foo\n[\n\tx 10\n]\n"))
	require.NoError(t, err)

	tok, err := r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "0", tok)

	tok, err = r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "Foo", tok)

	tok, err = r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "[", tok)
}

func TestReaderPeekTokenDoesNotConsume(t *testing.T) {
	r, err := NewReader(bytes.NewBufferString("(Derived) 3"))
	require.NoError(t, err)

	peeked, err := r.PeekToken()
	require.NoError(t, err)
	assert.Equal(t, "(Derived)", peeked)

	tok, err := r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "(Derived)", tok)

	tok, err = r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "3", tok)
}

func TestReaderReadLiteralRoundTrip(t *testing.T) {
	r, err := NewReader(bytes.NewBufferString("11 hello world\nrest"))
	require.NoError(t, err)

	lenTok, err := r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "11", lenTok)

	s, err := r.ReadLiteral(11)
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)

	tok, err := r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "rest", tok)
}

func TestReaderReadLiteralPreservesEmbeddedNewline(t *testing.T) {
	payload := "line one\nline two"
	r, err := NewReader(bytes.NewBufferString("17 " + payload))
	require.NoError(t, err)

	lenTok, err := r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "17", lenTok)

	s, err := r.ReadLiteral(17)
	require.NoError(t, err)
	assert.Equal(t, payload, s)
}

func TestReaderMoreReportsExhaustion(t *testing.T) {
	r, err := NewReader(bytes.NewBufferString("   x   "))
	require.NoError(t, err)
	assert.True(t, r.More())
	_, err = r.NextToken()
	require.NoError(t, err)
	assert.False(t, r.More())
}

func TestReaderSeekToRewinds(t *testing.T) {
	r, err := NewReader(bytes.NewBufferString("a b c"))
	require.NoError(t, err)

	_, err = r.NextToken()
	require.NoError(t, err)
	mark := r.Pos()

	tok, err := r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "b", tok)

	r.SeekTo(mark)
	tok, err = r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "b", tok)
}
