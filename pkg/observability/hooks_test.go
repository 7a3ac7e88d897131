package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSearchHooks{}
	s.OnSearchStart(ctx, 40)
	s.OnSearchComplete(ctx, SearchOutcome{Rows: 40, Status: "succeeded"}, nil)
	s.OnRenderStart(ctx, []string{"png"})
	s.OnRenderComplete(ctx, []string{"png"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "search")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/search")
	h.OnResponse(ctx, "POST", "/v1/search", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Search() should default to NoopSearchHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	hooks := NewLogHooks(nil)
	SetSearchHooks(hooks)
	SetCacheHooks(hooks)
	SetHTTPHooks(hooks)
	if Search() != SearchHooks(hooks) || Cache() != CacheHooks(hooks) || HTTP() != HTTPHooks(hooks) {
		t.Error("Set*Hooks should register the given hooks")
	}

	SetSearchHooks(nil)
	if Search() != SearchHooks(hooks) {
		t.Error("SetSearchHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Reset() should restore NoopSearchHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnSearchComplete(ctx, SearchOutcome{Rows: 5, Status: "succeeded", Expanded: 12, Cost: 8}, nil)
	h.OnSearchComplete(ctx, SearchOutcome{Rows: 5, Status: "running"}, errors.New("context canceled"))
	h.OnCacheHit(ctx, "search")
	h.OnResponse(ctx, "GET", "/healthz", 503, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"search finished", "expanded=12", "search aborted", "cache hit", "status=503"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
