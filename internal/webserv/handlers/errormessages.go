package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
)

// errorMessages handles GET /error_messages.js: a script body embedding the
// client error-message table for the requested language. Content failures
// degrade to a table holding only the fault description; the export never
// fails the request.
func (s *Service) errorMessages(r *http.Request) (*httpx.Response, error) {
	var table map[string]string

	bundle, _, err := s.store.Bundle(requestedLanguage(r))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("unable to load text bundle")
		table = map[string]string{"Error": err.Error()}
	} else {
		table = bundle.ClientErrorMessages
	}

	payload, merr := json.Marshal(table)
	if merr != nil {
		return nil, merr
	}
	return &httpx.Response{
		StatusCode:  http.StatusOK,
		Response:    "var ErrorMessages = " + string(payload) + ";\n",
		ContentType: httpx.ContentTypeJS,
	}, nil
}
