package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
)

// levelsText handles GET /levels-text/: a pass-through of the stored level
// content document. Read failures become an in-band error object.
func (s *Service) levelsText(r *http.Request) (*httpx.Response, error) {
	raw, err := s.store.RawLevels()
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("unable to read level content")
		return inBandError(err.Error()), nil
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   raw,
	}, nil
}
