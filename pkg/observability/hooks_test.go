package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnInferStart(ctx, "stacking", 3)
	p.OnInferComplete(ctx, "stacking", time.Second, nil)
	p.OnApplyStart(ctx, "stacking", 1)
	p.OnApplyComplete(ctx, "stacking", time.Second)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "rule")
	c.OnCacheMiss(ctx, "prediction")
	c.OnCacheSet(ctx, "rule", 128)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/solve")
	h.OnResponse(ctx, "POST", "/v1/solve", 200, time.Second)
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (c *countingCacheHooks) OnCacheHit(context.Context, string) { c.hits++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	counter := &countingCacheHooks{}
	SetCacheHooks(counter)
	Cache().OnCacheHit(context.Background(), "rule")
	if counter.hits != 1 {
		t.Errorf("registered hook saw %d hits, want 1", counter.hits)
	}

	SetCacheHooks(nil)
	if Cache() != counter {
		t.Error("SetCacheHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}
