package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
)

// internalErrorBody is the only content a client ever sees for an unhandled
// fault. Stack traces stay in the server log.
const internalErrorBody = "<h1>500 Internal Server Error</h1>"

// PanicHandler creates middleware that recovers from panics in HTTP handlers.
// When a panic occurs, it logs the panic details and stack trace, then returns
// a minimal static error page to the client.
func PanicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := httpx.NewResponseWriter(w)
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				log.Ctx(r.Context()).Error().
					Str("panic", fmt.Sprintf("%v", err)).
					Str("stack_trace", string(stack)).
					Msg("panic occurred")

				if !rw.Written() {
					rw.Header().Set("Content-Type", "text/html; charset=utf-8")
					rw.WriteHeader(http.StatusInternalServerError)
					rw.Write([]byte(internalErrorBody))
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
