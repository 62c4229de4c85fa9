package logsink

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSinkLog(t *testing.T) {
	var mu sync.Mutex
	var received []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "s3cret", r.Header.Get("secret-key"))

		var rec map[string]any
		require.NoError(t, stdjson.NewDecoder(r.Body).Decode(&rec))
		mu.Lock()
		received = append(received, rec)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, "s3cret")
	err := sink.Log(context.Background(), Record{
		Session:     "abc123",
		Date:        "2020-03-13T12:00:00Z",
		Level:       "1",
		Code:        "print hello",
		ServerError: "no code found, please send code.",
	})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "abc123", received[0]["session"])
	assert.Equal(t, "print hello", received[0]["code"])
	assert.Equal(t, "no code found, please send code.", received[0]["server_error"])
	_, hasClientError := received[0]["client_error"]
	assert.False(t, hasClientError, "unset optional fields must be omitted")
}

func TestHTTPSinkRetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, "")
	err := sink.Log(context.Background(), Record{Session: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHTTPSinkExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, "")
	err := sink.Log(context.Background(), Record{Session: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

type failingSink struct{}

func (failingSink) Log(ctx context.Context, rec Record) error {
	return errors.New("sink down")
}

func TestEmitterSwallowsSinkFailure(t *testing.T) {
	e := NewEmitter(failingSink{})
	assert.NotPanics(t, func() {
		e.Emit(context.Background(), Record{Session: "abc"})
	})
}

type capturingSink struct {
	mu      sync.Mutex
	records []Record
}

func (c *capturingSink) Log(ctx context.Context, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return nil
}

func TestEmitterStampsDate(t *testing.T) {
	sink := &capturingSink{}
	e := NewEmitter(sink)
	e.Emit(context.Background(), Record{Session: "abc"})

	require.Len(t, sink.records, 1)
	assert.NotEmpty(t, sink.records[0].Date)

	e.Emit(context.Background(), Record{Session: "abc", Date: "2020-03-13T12:00:00Z"})
	require.Len(t, sink.records, 2)
	assert.Equal(t, "2020-03-13T12:00:00Z", sink.records[1].Date)
}

func TestNopSink(t *testing.T) {
	assert.NoError(t, NopSink{}.Log(context.Background(), Record{}))
}
