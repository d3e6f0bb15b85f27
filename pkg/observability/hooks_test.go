package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnComposeStart(ctx, 5, 5, 5)
	p.OnComposeComplete(ctx, 5, time.Second, nil)
	p.OnRenderStart(ctx, "pearls", []string{"svg"})
	p.OnRenderComplete(ctx, "pearls", []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "composition")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/render.{format}")
	h.OnResponse(ctx, "GET", "/v1/render.{format}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestPrometheus(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	if err != nil {
		t.Fatal(err)
	}

	p.OnCacheHit(ctx, "composition")
	p.OnCacheHit(ctx, "composition")
	p.OnCacheMiss(ctx, "artifact")
	p.OnCacheSet(ctx, "artifact", 512)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"composition hits", testutil.ToFloat64(p.cacheOps.WithLabelValues("composition", "hit")), 2},
		{"artifact misses", testutil.ToFloat64(p.cacheOps.WithLabelValues("artifact", "miss")), 1},
		{"artifact bytes", testutil.ToFloat64(p.cacheBytes.WithLabelValues("artifact")), 512},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	p.OnComposeComplete(ctx, 5, time.Millisecond, nil)
	p.OnComposeComplete(ctx, 0, time.Millisecond, errors.New("boom"))
	p.OnRenderComplete(ctx, "pearls", []string{"svg", "png"}, time.Millisecond, nil)
	if n := testutil.CollectAndCount(p.composeDuration); n != 2 {
		t.Errorf("compose duration series = %d, want 2", n)
	}
	if n := testutil.CollectAndCount(p.renderDuration); n != 1 {
		t.Errorf("render duration series = %d, want 1", n)
	}

	p.OnRequest(ctx, "GET", "/healthz")
	if got := testutil.ToFloat64(p.httpInflight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	p.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(p.httpInflight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}

	if _, err := NewPrometheus(reg); err == nil {
		t.Error("registering twice should fail")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
