package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
	"github.com/hedyserv/hedyserv/internal/webserv/logsink"
	"github.com/hedyserv/hedyserv/internal/webserv/session"
)

// errorReport is the client-submitted body for POST /report_error. All
// fields are optional; level may arrive as a number or a string.
type errorReport struct {
	Level       any    `json:"level"`
	Code        string `json:"code"`
	ClientError string `json:"client_error"`
}

// reportError handles POST /report_error: append one log record for a
// client-reported runtime error. No transpilation, no validation beyond
// tolerating absent fields.
func (s *Service) reportError(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	report := errorReport{}
	if err := httpx.GetRequestData(r, &report); err != nil {
		// a missing or malformed body is treated as an empty report
		log.Ctx(ctx).Warn().Err(err).Msg("unparsable error report body")
	}

	s.emitter.Emit(ctx, logsink.Record{
		Session:     session.FromContext(ctx),
		Level:       levelString(report.Level),
		Code:        report.Code,
		ClientError: report.ClientError,
	})

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   struct{}{},
	}, nil
}

// levelString normalizes the loosely typed level field to a string.
func levelString(v any) string {
	switch level := v.(type) {
	case nil:
		return ""
	case string:
		return level
	case float64:
		return strconv.FormatFloat(level, 'f', -1, 64)
	default:
		return ""
	}
}
