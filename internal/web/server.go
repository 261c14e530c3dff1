package web

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
)

// NewServer wires routes and returns an http.Handler. It installs the game
// fragment renderer on s so pushed updates match the page markup.
func NewServer(logger *slog.Logger, s *app.Service) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), logger: logger.With("component", "web")}
	s.SetRenderer(func(sess entity.Session) []byte {
		// SSE data lines cannot carry raw newlines
		return bytes.ReplaceAll(h.renderGame(sess), []byte("\n"), nil)
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", h.index)
	r.Post("/play", h.play)
	r.Route("/history", func(r chi.Router) {
		r.Post("/order", h.toggleOrder)
		r.Post("/{index}", h.jump)
	})
	r.Post("/restart", h.restart)
	r.Get("/events", h.events)
	r.Get("/ping", h.ping)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
