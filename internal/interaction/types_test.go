package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersEqual_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	a := Headers{"content-type": " text/plain "}
	b := Headers{"Content-Type": "text/plain"}

	assert.True(t, a.Equal(b))
}

func TestHeadersEqual_DifferentLength(t *testing.T) {
	t.Parallel()

	a := Headers{"a": "1", "b": "2"}
	b := Headers{"a": "1"}

	assert.False(t, a.Equal(b))
}

func TestHeadersSetLowercasesName(t *testing.T) {
	t.Parallel()

	h := Headers{}
	h.Set("Content-Type", "text/plain")

	v, ok := h.Get("CONTENT-TYPE")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", v)
	_, rawOK := h["Content-Type"]
	assert.False(t, rawOK, "Set must store under the lowercased key")
}

func TestHeadersCloneIsIndependent(t *testing.T) {
	t.Parallel()

	h := Headers{"a": "1"}
	clone := h.Clone()
	clone.Set("a", "2")

	assert.Equal(t, "1", h["a"])
	assert.Equal(t, "2", clone["a"])
}

func TestNormalizeBody(t *testing.T) {
	t.Parallel()

	got := NormalizeBody("  hello\r\nworld  \r\n")
	assert.Equal(t, "hello\nworld", got)
}

func TestRequestDataEqual_BodyCRLFInsensitive(t *testing.T) {
	t.Parallel()

	a := RequestData{Method: "GET", URI: "/x", Headers: Headers{}, Body: "hello\r\n"}
	b := RequestData{Method: "GET", URI: "/x", Headers: Headers{}, Body: "hello\n"}

	assert.True(t, a.Equal(b))
}

func TestDataCloneDoesNotAliasHeaders(t *testing.T) {
	t.Parallel()

	d := Data{
		Ordinal: 0,
		Request: RequestData{Method: "GET", URI: "/x", Headers: Headers{"a": "1"}, Body: ""},
	}
	clone := d.Clone()
	clone.Request.Headers.Set("a", "2")

	assert.Equal(t, "1", d.Request.Headers["a"])
	assert.Equal(t, "2", clone.Request.Headers["a"])
}

func TestCloneAll(t *testing.T) {
	t.Parallel()

	in := []Data{
		{Ordinal: 0, Request: RequestData{Method: "GET", URI: "/a", Headers: Headers{}}},
		{Ordinal: 1, Request: RequestData{Method: "GET", URI: "/b", Headers: Headers{}}},
	}
	out := CloneAll(in)

	assert.Len(t, out, 2)
	assert.True(t, in[0].Equal(out[0]))
	assert.True(t, in[1].Equal(out[1]))
}
