package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
	"github.com/hedyserv/hedyserv/internal/webserv/content"
	"github.com/hedyserv/hedyserv/internal/webserv/logsink"
	"github.com/hedyserv/hedyserv/internal/webserv/session"
	"github.com/hedyserv/hedyserv/internal/webserv/transpiler"
)

// noCodeMessage is intentionally untranslated, unlike the transpiler failure
// messages below.
const noCodeMessage = "no code found, please send code."

// parseResponse carries exactly one of Code or Error. Pointer fields so an
// empty generated program still serializes a Code key.
type parseResponse struct {
	Code  *string `json:"Code,omitempty"`
	Error *string `json:"Error,omitempty"`
}

// parse handles GET /parse/: transpile the submitted code and answer with
// either the generated code or a user-facing error message. Every attempt is
// logged, whichever way it went.
func (s *Service) parse(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	q := r.URL.Query()
	code := q.Get("code")
	level := q.Get("level")

	rsp := &parseResponse{}
	if code == "" {
		msg := noCodeMessage
		rsp.Error = &msg
	} else {
		generated, err := s.transpiler.Transpile(ctx, code, level)
		var serr *transpiler.StructuredError
		switch {
		case err == nil:
			rsp.Code = &generated
		case errors.As(err, &serr):
			msg := s.localizeError(r, serr)
			rsp.Error = &msg
		default:
			log.Ctx(ctx).Warn().Err(err).Msg("transpile failed")
			msg := err.Error()
			rsp.Error = &msg
		}
	}

	rec := logsink.Record{
		Session: session.FromContext(ctx),
		Level:   level,
		Code:    code,
	}
	if rsp.Error != nil {
		rec.ServerError = *rsp.Error
	}
	s.emitter.Emit(ctx, rec)

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

// localizeError resolves the message template for a structured transpiler
// failure and interpolates its arguments. Any gap in the localization chain
// degrades to the raw failure text; this path never errors out.
func (s *Service) localizeError(r *http.Request, serr *transpiler.StructuredError) string {
	ctx := r.Context()

	bundle, _, err := s.store.Bundle(requestedLanguage(r))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to load text bundle")
		return serr.Error()
	}
	template, ok := bundle.HedyErrorMessages[serr.Code]
	if !ok {
		log.Ctx(ctx).Warn().Str("error_code", serr.Code).Msg("no message template for error code")
		return serr.Error()
	}
	msg, ferr := content.FormatTemplate(template, serr.Arguments)
	if ferr != nil {
		log.Ctx(ctx).Error().Err(ferr).Str("error_code", serr.Code).Msg("unable to format message template")
		return serr.Error()
	}
	return msg
}
