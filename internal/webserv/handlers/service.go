// Package handlers implements the HTTP operations of the hedyserv front end:
// transpilation requests, client error reports, lesson pages, level content
// pass-through, and the client error-message export. Application-level
// failures are reported in-band as {Error: ...} payloads with HTTP 200; HTTP
// status codes are not part of the API contract for these operations.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
	"github.com/hedyserv/hedyserv/internal/webserv/content"
	"github.com/hedyserv/hedyserv/internal/webserv/logsink"
	"github.com/hedyserv/hedyserv/internal/webserv/transpiler"
)

// defaultLanguage is the language assumed when no lang parameter is present.
const defaultLanguage = "Nl"

// Service holds the collaborators the handlers orchestrate.
type Service struct {
	store      *content.Store
	transpiler transpiler.Transpiler
	emitter    *logsink.Emitter
}

// NewService creates the handler service over the given collaborators.
func NewService(store *content.Store, tp transpiler.Transpiler, sink logsink.Sink) *Service {
	return &Service{
		store:      store,
		transpiler: tp,
		emitter:    logsink.NewEmitter(sink),
	}
}

// Router mounts the handler routes on the given chi router.
func (s *Service) Router(r chi.Router) {
	r.Get("/", httpx.WrapHttpRsp(s.lessonPage))
	r.Get("/index.html", httpx.WrapHttpRsp(s.lessonPage))
	r.Get("/parse/", httpx.WrapHttpRsp(s.parse))
	r.Post("/report_error", httpx.WrapHttpRsp(s.reportError))
	r.Get("/levels-text/", httpx.WrapHttpRsp(s.levelsText))
	r.Get("/error_messages.js", httpx.WrapHttpRsp(s.errorMessages))
}

// requestedLanguage returns the request's language code, defaulting when the
// parameter is absent.
func requestedLanguage(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return defaultLanguage
}

// inBandError produces the in-band error payload: {Error: msg} with HTTP 200.
func inBandError(msg string) *httpx.Response {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"Error": msg},
	}
}
