// Package server assembles the hedyserv HTTP surface: the chi router, the
// middleware stack, and the handler service with its collaborators.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
	commonmiddleware "github.com/hedyserv/hedyserv/internal/common/middleware"
	"github.com/hedyserv/hedyserv/internal/webserv/config"
	"github.com/hedyserv/hedyserv/internal/webserv/content"
	"github.com/hedyserv/hedyserv/internal/webserv/handlers"
	"github.com/hedyserv/hedyserv/internal/webserv/logsink"
	"github.com/hedyserv/hedyserv/internal/webserv/session"
	"github.com/hedyserv/hedyserv/internal/webserv/transpiler"
)

// ServerVersion identifies this build on the /version endpoint.
const ServerVersion = "0.2.0"

// WebServer is the assembled HTTP front end.
type WebServer struct {
	Router   *chi.Mux
	cfg      *config.ConfigParam
	service  *handlers.Service
	sessions *session.Manager
}

// CreateNewServer wires the handler service and its collaborators into a new
// server. MountHandlers must be called before serving.
func CreateNewServer(cfg *config.ConfigParam, store *content.Store, tp transpiler.Transpiler, sink logsink.Sink) (*WebServer, error) {
	s := &WebServer{
		Router:   chi.NewRouter(),
		cfg:      cfg,
		service:  handlers.NewService(store, tp, sink),
		sessions: session.NewManager(cfg.Session.CookieName, cfg.Session.SigningKey),
	}
	return s, nil
}

// MountHandlers installs the middleware stack and all routes.
func (s *WebServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	s.Router.Use(chimiddleware.Compress(5))
	if s.cfg.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Use(s.sessions.Middleware)

	s.service.Router(s.Router)
	s.Router.Get("/version", s.getVersion)

	if dir := s.cfg.Content.StaticDir; dir != "" {
		s.Router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}
}

type getVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
}

func (s *WebServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &getVersionRsp{
		ServerVersion: "hedyserv " + ServerVersion,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

// HandleCORS provides CORS middleware for cross-origin requests.
func (s *WebServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{commonmiddleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
