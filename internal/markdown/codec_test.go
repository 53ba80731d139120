package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

func sampleData() []interaction.Data {
	return []interaction.Data{
		{
			Ordinal: 0,
			Request: interaction.RequestData{
				Method:  "GET",
				URI:     "/x",
				Headers: interaction.Headers{"accept": "text/plain"},
				Body:    "",
			},
			Response: interaction.ResponseData{
				Status:  200,
				Headers: interaction.Headers{"content-type": "text/plain"},
				Body:    "hello",
			},
		},
		{
			Ordinal: 1,
			Request: interaction.RequestData{
				Method:  "POST",
				URI:     "/y",
				Headers: interaction.Headers{"content-type": "application/json"},
				Body:    `{"a":1}`,
			},
			Response: interaction.ResponseData{
				Status:  201,
				Headers: interaction.Headers{"content-type": "application/json"},
				Body:    `{"ok":true}`,
			},
		},
	}
}

func TestEmitParseRoundTrip(t *testing.T) {
	t.Parallel()

	in := sampleData()
	doc := Emit(in)

	out, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		if diff := cmp.Diff(in[i], out[i]); diff != "" {
			t.Errorf("interaction %d round-trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEmitParseRoundTrip_DoubleRoundTripIsStable(t *testing.T) {
	t.Parallel()

	in := sampleData()
	once := Emit(in)
	parsedOnce, err := Parse(once)
	require.NoError(t, err)

	twice := Emit(parsedOnce)
	assert.Equal(t, once, twice, "emit(parse(emit(xs))) must equal emit(xs)")
}

func TestParse_NoInteractionBlocks(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("not a conversation file"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParse_InvalidInteractionNumber(t *testing.T) {
	t.Parallel()

	doc := []byte("## Interaction 999999999999: GET /x\r\n\r\n" +
		"### Request headers recorded for playback:\r\n\r\n```\r\n```\r\n\r\n" +
		"### Request body recorded for playback ():\r\n\r\n```\r\n```\r\n\r\n" +
		"### Response headers recorded for playback:\r\n\r\n```\r\n```\r\n\r\n" +
		"### Response body recorded for playback (200: ):\r\n\r\n```\r\nhi\r\n```\r\n\r\n")

	_, err := Parse(doc)
	var numErr *InvalidInteractionNumberError
	require.ErrorAs(t, err, &numErr)
}

func TestParse_InvalidStatusCode(t *testing.T) {
	t.Parallel()

	doc := []byte("## Interaction 0: GET /x\r\n\r\n" +
		"### Request headers recorded for playback:\r\n\r\n```\r\n```\r\n\r\n" +
		"### Request body recorded for playback ():\r\n\r\n```\r\n```\r\n\r\n" +
		"### Response headers recorded for playback:\r\n\r\n```\r\n```\r\n\r\n" +
		"### Response body recorded for playback (999999: ):\r\n\r\n```\r\nhi\r\n```\r\n\r\n")

	_, err := Parse(doc)
	var statusErr *InvalidStatusCodeError
	require.ErrorAs(t, err, &statusErr)
}

func TestParse_DuplicateHeaderLinesCollapseToLast(t *testing.T) {
	t.Parallel()

	doc := []byte("## Interaction 0: GET /x\r\n\r\n" +
		"### Request headers recorded for playback:\r\n\r\n```\r\nx-trace: one\r\nx-trace: two\r\n```\r\n\r\n" +
		"### Request body recorded for playback ():\r\n\r\n```\r\n```\r\n\r\n" +
		"### Response headers recorded for playback:\r\n\r\n```\r\n```\r\n\r\n" +
		"### Response body recorded for playback (200: ):\r\n\r\n```\r\nhi\r\n```\r\n\r\n")

	out, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, out, 1)

	v, ok := out[0].Request.Headers.Get("x-trace")
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestEmit_HeadersSortedAscending(t *testing.T) {
	t.Parallel()

	doc := Emit([]interaction.Data{{
		Ordinal: 0,
		Request: interaction.RequestData{Method: "GET", URI: "/x", Headers: interaction.Headers{"z": "1", "a": "2"}},
		Response: interaction.ResponseData{
			Status:  200,
			Headers: interaction.Headers{"z": "1", "a": "2"},
			Body:    "body",
		},
	}})

	text := string(doc)
	aIdx := indexOf(text, "a: 2")
	zIdx := indexOf(text, "z: 1")
	require.NotEqual(t, -1, aIdx)
	require.NotEqual(t, -1, zIdx)
	assert.Less(t, aIdx, zIdx, "headers must be emitted ascending by name")
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
