package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cramomatic"
	"cramomatic/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, opts Options) (*Server, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	svc := api.NewService(cramomatic.Default(), logger, time.Minute, 0)
	return New(svc, logger, opts), logs
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRecipeEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/api/recipe", `{"items":["Hard Stone","Hard Stone","Big Nugget","Big Nugget"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeBody[api.RecipeResponse](t, rec)
	assert.Equal(t, "Eviolite", resp.Output)
	assert.Equal(t, "Rock", resp.Type)
	assert.Equal(t, 100, resp.Score)

	rec = do(t, s.Handler(), http.MethodPost, "/api/recipe", `{"items":["Missingno","Hard Stone","Big Nugget","Big Nugget"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "Missingno")

	rec = do(t, s.Handler(), http.MethodPost, "/api/recipe", `{"items":["Hard Stone"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.Handler(), http.MethodPost, "/api/recipe", `{"items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestCheckEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/api/check", `{"output":"Big Mushroom","items":["Tiny Mushroom","_","Tiny Mushroom"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[api.CheckResponse](t, rec)
	assert.True(t, resp.Possible)
	assert.Equal(t, []string{"Tiny Mushroom", "", "Tiny Mushroom", ""}, resp.Items)

	rec = do(t, s.Handler(), http.MethodPost, "/api/check", `{"output":"Upgrade","items":["Fire Memory"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[api.CheckResponse](t, rec).Possible)
}

func TestOptionsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/api/options", `{"output":"Big Mushroom","slot":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Tiny Mushroom"}, decodeBody[api.OptionsResponse](t, rec).Options)

	rec = do(t, s.Handler(), http.MethodPost, "/api/options", `{"output":"Big Mushroom","slot":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingEndpoints(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodGet, "/api/outputs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[api.OutputsResponse](t, rec).Outputs, 246)

	rec = do(t, s.Handler(), http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[api.ItemsResponse](t, rec).Items, 119)
}

func TestRoutingErrors(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	wrongMethod := []struct {
		method, path, allow string
	}{
		{http.MethodGet, "/api/recipe", "POST, OPTIONS"},
		{http.MethodPut, "/api/check", "POST, OPTIONS"},
		{http.MethodGet, "/api/options", "POST, OPTIONS"},
		{http.MethodPost, "/api/outputs", "GET, OPTIONS"},
		{http.MethodDelete, "/api/items", "GET, OPTIONS"},
		{http.MethodPost, "/healthz", "GET, OPTIONS"},
	}
	for _, tt := range wrongMethod {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, s.Handler(), tt.method, tt.path, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))
			assert.Contains(t, decodeBody[api.Error](t, rec).Message, tt.method+" not allowed")
		})
	}

	rec := do(t, s.Handler(), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/nope")
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	s, logs := newTestServer(t, Options{})
	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, math.Inf(1))

	entries := logs.FilterMessage("write response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
}

func TestBodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	body := `{"items":["` + strings.Repeat("x", maxBodyBytes) + `"]}`
	rec := do(t, s.Handler(), http.MethodPost, "/api/recipe", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequestID(t *testing.T) {
	s, logs := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	id := rec.Header().Get(requestIDHeader)
	assert.Len(t, id, 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "abc-123", fields["request_id"])
	assert.Equal(t, "/healthz", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodOptions, "/api/recipe", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	s, _ = newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, logs := newTestServer(t, Options{ShutdownTimeout: time.Second})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, 1, logs.FilterMessage("shutting down").Len())
}

func TestRunReportsListenError(t *testing.T) {
	s, _ := newTestServer(t, Options{Addr: "not-an-address"})
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen not-an-address")
}
