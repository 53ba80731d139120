package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

func TestDefaultClient_Do_ForwardsMethodAndBody(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody, gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotHost = r.Host
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	client := NewDefaultClient(5 * time.Second)
	req := interaction.RequestData{
		Method:  "POST",
		URI:     "/ping",
		Headers: interaction.Headers{"host": "ignored.invalid"},
		Body:    "hello",
	}

	resp, err := client.Do(context.Background(), srv.URL, req)
	require.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/ping", gotPath)
	assert.Equal(t, "hello", gotBody)
	assert.NotEqual(t, "ignored.invalid", gotHost, "Do must override the Host header to the upstream host")
	assert.Equal(t, uint16(200), resp.Status)
	assert.Equal(t, "pong", resp.Body)
	v, ok := resp.Headers.Get("content-type")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", v)
}

func TestDefaultClient_Do_JoinsMultiValueHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewDefaultClient(5 * time.Second)
	resp, err := client.Do(context.Background(), srv.URL, interaction.RequestData{Method: "GET", URI: "/", Headers: interaction.Headers{}})
	require.NoError(t, err)

	v, ok := resp.Headers.Get("set-cookie")
	require.True(t, ok)
	assert.Equal(t, "a=1, b=2", v)
}

func TestDefaultClient_Do_NetworkErrorWrapped(t *testing.T) {
	t.Parallel()

	client := NewDefaultClient(100 * time.Millisecond)
	_, err := client.Do(context.Background(), "http://127.0.0.1:1", interaction.RequestData{Method: "GET", URI: "/", Headers: interaction.Headers{}})

	require.Error(t, err)
	var upstreamErr *Error
	require.ErrorAs(t, err, &upstreamErr)
}
