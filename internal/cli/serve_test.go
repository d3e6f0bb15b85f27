package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pearls/pkg/cache"
	"github.com/matzehuels/pearls/pkg/gallery"
	"github.com/matzehuels/pearls/pkg/observability"
	"github.com/matzehuels/pearls/pkg/server"
)

func TestDisplayAddr(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
		{"", "http://"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayAddr(tt.addr), "displayAddr(%q)", tt.addr)
	}
}

func TestRegisterMetrics(t *testing.T) {
	isolate(t)
	t.Cleanup(observability.Reset)

	handler, err := registerMetrics()
	require.NoError(t, err)

	c := New(io.Discard, LogInfo)
	runner, err := c.serveRunner(context.Background(), serveOpts{noCache: true})
	require.NoError(t, err)
	srv := server.New(server.Config{Runner: runner, Metrics: handler, Logger: c.Logger})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/render.svg?seed=1&rows=3&cols=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "pearls_"), "metrics should include pearls collectors")
	assert.True(t, strings.Contains(body, "go_goroutines"), "metrics should include Go runtime collectors")
}

func TestServeRunnerAndStore(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	runner, err := c.serveRunner(ctx, serveOpts{noCache: true, redisURL: "redis://ignored:6379"})
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, runner.Cache)

	runner, err = c.serveRunner(ctx, serveOpts{cachePrefix: "tenant"})
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, runner.Cache)
	assert.True(t, strings.HasPrefix(runner.Keyer.CompositionKey(cache.CompositionKeyOpts{}), "tenant:"))

	_, err = c.serveRunner(ctx, serveOpts{redisURL: "not a url"})
	assert.Error(t, err)

	store, err := c.serveStore(ctx, serveOpts{})
	require.NoError(t, err)
	assert.IsType(t, &gallery.MemoryStore{}, store)
}
