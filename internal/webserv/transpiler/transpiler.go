// Package transpiler provides the client for the external transpiler
// capability. The transpiler converts teaching-language source into target
// output; known failure classes come back as a structured error carrying an
// error code and named arguments, anything else surfaces as a plain error.
package transpiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Transpiler converts teaching-language source for the given level into
// generated code.
type Transpiler interface {
	Transpile(ctx context.Context, code, level string) (string, error)
}

// StructuredError is a known failure class reported by the transpiler. Code
// selects the localized message template and Arguments fill its placeholders.
type StructuredError struct {
	Code      string
	Arguments map[string]string
}

// Error implements the error interface. The text is the raw fallback shown
// when no localized template exists for the code.
func (e *StructuredError) Error() string {
	if len(e.Arguments) == 0 {
		return e.Code
	}
	keys := make([]string, 0, len(e.Arguments))
	for k := range e.Arguments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Arguments[k])
	}
	return e.Code + " (" + strings.Join(parts, ", ") + ")"
}

// HTTPTranspiler calls a transpiler service over HTTP.
type HTTPTranspiler struct {
	serverURL  string
	httpClient *http.Client
}

// NewHTTPTranspiler creates a transpiler client for the given server URL.
func NewHTTPTranspiler(serverURL string, timeout time.Duration) *HTTPTranspiler {
	return &HTTPTranspiler{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type transpileReq struct {
	Code  string `json:"code"`
	Level string `json:"level"`
}

// Transpile sends the source to the transpiler service. On success it returns
// the generated code. Known failures return *StructuredError; transport
// faults and unknown failures return a plain error.
func (t *HTTPTranspiler) Transpile(ctx context.Context, code, level string) (string, error) {
	u, err := url.Parse(t.serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid transpiler URL: %v", err)
	}
	u.Path = path.Join(u.Path, "parse")

	body, err := json.Marshal(&transpileReq{Code: code, Level: level})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transpiler unreachable: %v", err)
	}
	defer rsp.Body.Close()

	rspBody, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transpiler response: %v", err)
	}

	if rsp.StatusCode == http.StatusOK {
		result := gjson.GetBytes(rspBody, "code")
		if !result.Exists() {
			return "", fmt.Errorf("malformed transpiler response")
		}
		return result.String(), nil
	}

	return "", decodeFailure(rsp.StatusCode, rspBody)
}

// decodeFailure maps a non-200 transpiler response onto a structured or
// unstructured error.
func decodeFailure(statusCode int, body []byte) error {
	errorCode := gjson.GetBytes(body, "error_code")
	if errorCode.Exists() {
		serr := &StructuredError{
			Code:      errorCode.String(),
			Arguments: map[string]string{},
		}
		gjson.GetBytes(body, "arguments").ForEach(func(key, value gjson.Result) bool {
			serr.Arguments[key.String()] = value.String()
			return true
		})
		return serr
	}
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return fmt.Errorf("%s", msg.String())
	}
	return fmt.Errorf("transpiler returned status %d", statusCode)
}
