package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
)

type handlers struct {
	svc    *app.Service
	tpl    *templates
	logger *slog.Logger
}

func (h *handlers) renderGame(sess entity.Session) []byte {
	return renderTemplate(h.tpl.board, "", newGameView(sess))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Start(r.Context(), sessionID(r))
	if err != nil {
		h.logger.Error("could not start session", "error", err)
		http.Error(w, "failed to start game", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, sess.ID)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.page, "", newGameView(*sess)))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	x, errX := strconv.Atoi(r.Form.Get("x"))
	y, errY := strconv.Atoi(r.Form.Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (*entity.Session, error) {
		return h.svc.Play(ctx, id, domain.Coordinates{X: x, Y: y})
	})
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (*entity.Session, error) {
		return h.svc.JumpTo(ctx, id, index)
	})
}

func (h *handlers) toggleOrder(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.ToggleOrder)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Restart)
}

// respond runs op on the caller's session and writes the game fragment.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*entity.Session, error)) {
	id := sessionID(r)
	if id == "" {
		http.NotFound(w, r)
		return
	}
	sess, err := op(r.Context(), id)
	switch {
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrNoSuchMove):
		http.NotFound(w, r)
		return
	case err != nil:
		h.logger.Error("session update failed", "session", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderGame(*sess))
}

func (h *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	id := sessionID(r)
	// Non-EventSource requests and unknown sessions only get the headers
	if id == "" || r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: game\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}
