package dev

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krishpranav/nexa/internal/config"
	"github.com/krishpranav/nexa/pkg/host"
	"github.com/krishpranav/nexa/pkg/render"
	"github.com/krishpranav/nexa/pkg/runtime"
)

// pageShell wraps the server-rendered markup. The thin client script
// connects back over /ws and applies mutation frames.
const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<div id="nexa-root">%s</div>
<script src="/client.js" defer></script>
</body>
</html>
`

// Server is the development server.
type Server struct {
	cfg    *config.Config
	newApp host.AppFactory
	logger *slog.Logger
}

// NewServer creates a dev server whose sessions mount newApp().
func NewServer(cfg *config.Config, newApp host.AppFactory, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, newApp: newApp, logger: logger}
}

// Router builds the chi router: document shell, session endpoint,
// static output, optional metrics.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.handleIndex)
	r.Handle("/ws", host.New(s.newApp, host.WithLogger(s.logger)))
	if s.cfg.Build.Output != "" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.Build.Output)))
		r.Handle("/static/*", fileServer)
	}
	if s.cfg.Dev.MetricsPath != "" {
		r.Handle(s.cfg.Dev.MetricsPath, promhttp.Handler())
	}
	return r
}

// ListenAndServe runs the server on the configured address.
func (s *Server) ListenAndServe() error {
	addr := s.cfg.Addr()
	s.logger.Info("dev server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// handleIndex mounts a throwaway runtime on the request goroutine,
// renders the document, and discards the mutation batch (the session
// over /ws rebuilds live state).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rt := runtime.New()
	rt.Mount(s.newApp())
	rt.DrainMutations()

	renderer := render.New(rt.Arena(), rt.Scopes())
	var body string
	if root := rt.RootID(); root != 0 {
		body = renderer.HTML(rt.CurrentRoot())
	}
	rt.Unmount()

	title := s.cfg.Name
	if title == "" {
		title = "nexa app"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell, title, body)
}
