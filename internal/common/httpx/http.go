// Package httpx provides HTTP request/response handling utilities used by the
// web handlers. Handlers produce a Response value describing status, payload,
// and content type; WrapHttpRsp turns them into http.HandlerFunc values with
// centralized error conversion.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/apperrors"
)

// Content types understood by WrapHttpRsp.
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJS   = "application/javascript"
)

// GetRequestData parses a JSON request body into the provided data structure.
// Only supports POST and PUT methods.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response represents an HTTP response with configurable status code and
// content type. Response holds the payload: a struct or map for JSON, a
// string or []byte for HTML and JavaScript bodies.
type Response struct {
	StatusCode  int
	Response    any
	ContentType string
}

// RequestHandler defines a function type for handling HTTP requests.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp wraps a RequestHandler to provide standardized response
// handling, including error conversion and content type management.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			sendHandlerError(w, err)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.ContentType == "" {
			rsp.ContentType = ContentTypeJSON
		}
		switch rsp.ContentType {
		case ContentTypeJSON:
			SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response)
		case ContentTypeHTML, ContentTypeJS:
			w.Header().Set("Content-Type", rsp.ContentType)
			w.WriteHeader(rsp.StatusCode)
			w.Write(responseBytes(rsp.Response))
		default:
			ErrApplicationError("unsupported response type").Send(w)
		}
	})
}

func sendHandlerError(w http.ResponseWriter, err error) {
	if httperror, ok := err.(*Error); ok {
		httperror.Send(w)
		return
	}
	if appErr, ok := err.(apperrors.Error); ok {
		statusCode := appErr.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		httperror := &Error{
			StatusCode:  statusCode,
			Description: appErr.ErrorAll(),
		}
		httperror.Send(w)
		return
	}
	ErrApplicationError(err.Error()).Send(w)
}

func responseBytes(body any) []byte {
	switch v := body.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
