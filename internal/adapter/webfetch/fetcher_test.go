package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(maxBytes int) *Fetcher {
	return NewFetcher(config.FetchConfig{MaxBytes: maxBytes, UserAgent: "test-agent"}, logger.NewNop())
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	text, err := newTestFetcher(0).Fetch(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", text)
}

func TestFetcher_FetchTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	text, err := newTestFetcher(10).Fetch(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	assert.Len(t, text, 10)
}

func TestFetcher_FetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(0).Fetch(context.Background(), srv.URL, time.Second)
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
	assert.ErrorContains(t, err, "404")
}

func TestFetcher_FetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := newTestFetcher(0).Fetch(context.Background(), srv.URL, 20*time.Millisecond)
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
}

func TestParseArgs(t *testing.T) {
	target, timeout, err := ParseArgs(`{"url":"https://example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)
	assert.Equal(t, 5*time.Second, timeout)

	_, timeout, err = ParseArgs(`{"url":"https://example.com","timeout":1.5}`)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, timeout)

	_, timeout, err = ParseArgs(`{"url":"https://example.com","timeout":600}`)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, timeout)

	_, _, err = ParseArgs(`{"url":"ftp://example.com"}`)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = ParseArgs(`not json`)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDefinition(t *testing.T) {
	def := Definition()
	assert.Equal(t, "function", def.Type)
	assert.Equal(t, "fetch_url", def.Function.Name)
	assert.Equal(t, []string{"url"}, def.Function.Parameters["required"])
}
