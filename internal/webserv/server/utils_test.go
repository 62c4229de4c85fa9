package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedyserv/hedyserv/internal/webserv/config"
	"github.com/hedyserv/hedyserv/internal/webserv/content"
	"github.com/hedyserv/hedyserv/internal/webserv/logsink"
	"github.com/hedyserv/hedyserv/internal/webserv/transpiler"
)

// fakeTranspiler returns a canned result or error and counts invocations.
type fakeTranspiler struct {
	result string
	err    error
	calls  atomic.Int32
}

func (f *fakeTranspiler) Transpile(ctx context.Context, code, level string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

// capturingSink records every emitted log record.
type capturingSink struct {
	mu      sync.Mutex
	records []logsink.Record
}

func (c *capturingSink) Log(ctx context.Context, rec logsink.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return nil
}

func (c *capturingSink) all() []logsink.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]logsink.Record(nil), c.records...)
}

func testConfig() *config.ConfigParam {
	return &config.ConfigParam{
		FormatVersion: config.ConfigFormatVersion,
		ServerPort:    "5000",
		Content: config.ContentConfig{
			LevelsPath: filepath.Join("testdata", "levels.json"),
			TextsPath:  filepath.Join("testdata", "texts.json"),
		},
		Session: config.SessionConfig{
			CookieName: "hedy_session",
			SigningKey: "0123456789abcdef0123456789abcdef",
		},
	}
}

func newTestServer(t *testing.T, tp transpiler.Transpiler, sink logsink.Sink) *WebServer {
	t.Helper()
	cfg := testConfig()
	store := content.NewStore(cfg.Content.LevelsPath, cfg.Content.TextsPath)
	s, err := CreateNewServer(cfg, store, tp, sink)
	require.NoError(t, err, "create new server")
	s.MountHandlers()
	return s
}

func executeTestRequest(t *testing.T, s *WebServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func checkJSONHeader(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.NotEmpty(t, h.Get("X-Request-ID"), "no request id")
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "response body: %s", rr.Body.String())
	return body
}
