package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rrgraph/pkg/observability"
)

func TestMetricsHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	m := NewMetrics(prometheus.NewRegistry())
	m.Install()
	ctx := context.Background()

	observability.Pipeline().OnLayoutComplete(ctx, observability.LayoutEvent{Sectors: 4, Rounds: 3, Converged: true})
	observability.Pipeline().OnLayoutComplete(ctx, observability.LayoutEvent{Sectors: 4, Cached: true})
	observability.Pipeline().OnLayoutComplete(ctx, observability.LayoutEvent{Sectors: 4, Rounds: 20})
	observability.Pipeline().OnRenderComplete(ctx, []string{"svg", "png"}, time.Millisecond, nil)
	observability.Pipeline().OnRenderComplete(ctx, []string{"pdf"}, time.Millisecond, errors.New("boom"))
	observability.Cache().OnCacheHit(ctx, "layout")
	observability.Cache().OnCacheMiss(ctx, "artifact")
	observability.Cache().OnCacheSet(ctx, "artifact", 128)
	observability.Server().OnRequest(ctx, http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	observability.Server().OnSessionOpen(ctx, "s1")
	observability.Server().OnSessionOpen(ctx, "s2")
	observability.Server().OnSessionClose(ctx, "s1", time.Second)
	observability.Server().OnHover(ctx, "idle", "XLK")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Layouts.WithLabelValues("true", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Layouts.WithLabelValues("false", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unconverged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("svg", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("pdf", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvents.WithLabelValues("layout", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvents.WithLabelValues("artifact", "miss")))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.CacheBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HoverChanges))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/layout", body(sectorsJSON, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `rrgraph_http_requests_total{method="POST",route="/api/v1/layout",status="200"} 1`)
	assert.Contains(t, out, "rrgraph_layouts_total")
	assert.Contains(t, out, "go_goroutines")
}
