// Package logsink records transpilation attempts and client-reported errors
// to an external append-only sink. Emission is best-effort telemetry: the
// Emitter swallows every sink failure so the request path never depends on
// the sink being reachable.
package logsink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one appended log entry. Field names match the sink's document
// schema; optional fields are omitted when unset.
type Record struct {
	Session     string `json:"session"`
	Date        string `json:"date"`
	Level       string `json:"level,omitempty"`
	Code        string `json:"code,omitempty"`
	ServerError string `json:"server_error,omitempty"`
	ClientError string `json:"client_error,omitempty"`
}

// Sink appends a record to the external log store.
type Sink interface {
	Log(ctx context.Context, rec Record) error
}

// HTTPSink appends records to a jsonbin-style HTTP collection endpoint.
type HTTPSink struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPSink creates a sink client for the given collection URL. The API key
// is sent in the secret-key header when set.
func NewHTTPSink(url, apiKey string) *HTTPSink {
	return &HTTPSink{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Log appends the record, retrying transient failures a bounded number of
// times. Exhausting the retries returns the last error.
func (s *HTTPSink) Log(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode log record: %v", err)
	}

	return retry.Do(func() error {
		return s.post(ctx, body)
	},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (s *HTTPSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create sink request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("secret-key", s.apiKey)
	}

	rsp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sink unreachable: %v", err)
	}
	defer rsp.Body.Close()
	io.Copy(io.Discard, rsp.Body)

	if rsp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sink returned status %d", rsp.StatusCode)
	}
	return nil
}

// NopSink discards records. Used when no sink is configured.
type NopSink struct{}

// Log implements Sink.
func (NopSink) Log(ctx context.Context, rec Record) error {
	return nil
}

// Emitter decouples record emission from response construction. Sink
// failures are logged server-side and discarded.
type Emitter struct {
	sink Sink
}

// NewEmitter creates an emitter over the given sink.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit appends the record, stamping the date if unset. It never returns an
// error; a failed append is logged and dropped.
func (e *Emitter) Emit(ctx context.Context, rec Record) {
	if rec.Date == "" {
		rec.Date = time.Now().Format(time.RFC3339)
	}
	if err := e.sink.Log(ctx, rec); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to append log record")
	}
}
