package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/rrgraph/internal/config"
	"github.com/matzehuels/rrgraph/pkg/cache"
	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/observability"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
)

const sectorsJSON = `[
	{"id": "XLK", "name": "Technology", "rs_ratio": 102.4, "rs_momentum": 1.3,
	 "tail": [{"rs_ratio": 101.2, "rs_momentum": 0.6}], "change_percent": 0.8},
	{"id": "XLE", "name": "Energy", "rs_ratio": 97.8, "rs_momentum": -1.1, "tail": []},
	{"id": "XLV", "name": "Health Care", "rs_ratio": 99.1, "rs_momentum": 0.7, "tail": []},
	{"id": "XLF", "name": "Financials", "rs_ratio": 100.9, "rs_momentum": -0.5, "tail": []}
]`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Cleanup(observability.Reset)

	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { _ = runner.Close() })

	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 64 * 1024
	return New(cfg, runner, logger)
}

func body(sectors string, options string) io.Reader {
	if options == "" {
		options = "{}"
	}
	return strings.NewReader(`{"sectors": ` + sectors + `, "options": ` + options + `}`)
}

func do(t *testing.T, s *Server, method, path string, r io.Reader, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var eb errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
	return eb.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil, "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	long := strings.Repeat("x", 100)
	rec = do(t, s, http.MethodGet, "/health", nil, "X-Request-ID", long)
	assert.NotEqual(t, long, rec.Header().Get("X-Request-ID"))
}

func TestLayoutCaching(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/layout", body(sectorsJSON, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var first layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.Len(t, first.Layout.Markers, 4)
	assert.Equal(t, first.Hash, rec.Header().Get("X-Sectors-Hash"))

	rec = do(t, s, http.MethodPost, "/api/v1/layout", body(sectorsJSON, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	var second layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Layout.Markers, second.Layout.Markers)
}

func TestLayoutUsesOptions(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/layout", body(sectorsJSON, `{"width": 800, "height": 600}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 800.0, resp.Layout.Frame.Width)
	assert.Equal(t, 600.0, resp.Layout.Frame.Height)
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   rrerrors.Code
	}{
		{"malformed", `{"sectors": [`, http.StatusBadRequest, rrerrors.ErrCodeInvalidInput},
		{"missing sectors", `{"options": {}}`, http.StatusBadRequest, rrerrors.ErrCodeInvalidInput},
		{"empty", `{"sectors": []}`, http.StatusUnprocessableEntity, rrerrors.ErrCodeInsufficientData},
		{"missing ratio", `{"sectors": [{"id": "XLK", "rs_momentum": 1, "tail": []}]}`,
			http.StatusBadRequest, rrerrors.ErrCodeInvalidSector},
		{"duplicate id", `{"sectors": [
			{"id": "XLK", "rs_ratio": 101, "rs_momentum": 1, "tail": []},
			{"id": "XLK", "rs_ratio": 99, "rs_momentum": 1, "tail": []}]}`,
			http.StatusBadRequest, rrerrors.ErrCodeInvalidSector},
		{"bad rounds", `{"sectors": ` + sectorsJSON + `, "options": {"rounds": 5000}}`,
			http.StatusBadRequest, rrerrors.ErrCodeInvalidInput},
		{"frame inside padding", `{"sectors": ` + sectorsJSON + `, "options": {"width": 60, "height": 60}}`,
			http.StatusBadRequest, rrerrors.ErrCodeInvalidInput},
		{"negative gap", `{"sectors": ` + sectorsJSON + `, "options": {"gap": -1}}`,
			http.StatusBadRequest, rrerrors.ErrCodeInvalidInput},
		{"unknown style", `{"sectors": ` + sectorsJSON + `, "options": {"style": "neon"}}`,
			http.StatusBadRequest, rrerrors.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/api/v1/layout", strings.NewReader(tt.body))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Server.MaxBodyBytes = 64

	rec := do(t, s, http.MethodPost, "/api/v1/layout", body(sectorsJSON, ""))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRender(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{pipeline.FormatSVG, "image/svg+xml", "<svg"},
		{pipeline.FormatJSON, "application/json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/api/v1/render/"+tt.format,
				body(sectorsJSON, `{"hover": "XLE", "legend": true}`))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), tt.prefix))
			assert.Contains(t, rec.Body.String(), "XLE")
		})
	}
}

func TestRenderCacheHeader(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/render/svg", body(sectorsJSON, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = do(t, s, http.MethodPost, "/api/v1/render/svg", body(sectorsJSON, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestRenderInvalid(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/render/gif", body(sectorsJSON, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rrerrors.ErrCodeInvalidFormat, decodeError(t, rec).Code)

	rec = do(t, s, http.MethodPost, "/api/v1/render/svg", body(sectorsJSON, `{"style": "neon"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rrerrors.ErrCodeInvalidStyle, decodeError(t, rec).Code)
}

func TestMsgpackBody(t *testing.T) {
	s := newTestServer(t)

	var sectors []map[string]any
	require.NoError(t, json.Unmarshal([]byte(sectorsJSON), &sectors))
	data, err := msgpack.Marshal(sectors)
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/v1/layout", bytes.NewReader(data),
		"Content-Type", "application/msgpack")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Layout.Markers, 4)
}

func TestClassify(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/classify", body(sectorsJSON, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp classifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sectors, 4)

	byID := map[string]classification{}
	for _, c := range resp.Sectors {
		byID[c.ID] = c
	}
	assert.Equal(t, "leading", byID["XLK"].Quadrant.String())
	assert.Equal(t, "lagging", byID["XLE"].Quadrant.String())
	assert.Equal(t, "improving", byID["XLV"].Quadrant.String())
	assert.Equal(t, "weakening", byID["XLF"].Quadrant.String())
	assert.Equal(t, map[string]int{"leading": 1, "weakening": 1, "lagging": 1, "improving": 1}, resp.Counts)
}

func TestClassifyEmpty(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/classify", body("[]", ""))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, rrerrors.ErrCodeInsufficientData, decodeError(t, rec).Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil, "Origin", "https://example.com")

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	assert.True(t, check(req), "requests without Origin are allowed")

	req.Header.Set("Origin", "https://app.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code rrerrors.Code
		want int
	}{
		{rrerrors.ErrCodeInvalidInput, http.StatusBadRequest},
		{rrerrors.ErrCodeInvalidSector, http.StatusBadRequest},
		{rrerrors.ErrCodeInsufficientData, http.StatusUnprocessableEntity},
		{rrerrors.ErrCodeFileNotFound, http.StatusNotFound},
		{rrerrors.ErrCodeUnsupported, http.StatusNotImplemented},
		{rrerrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.code), tt.code)
	}
}
