package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
	"github.com/jaminalder/tictactoe-timetravel/internal/repository"
)

// Errors exposed by the service layer.
var (
	ErrNotFound   = errors.New("session not found")
	ErrNoSuchMove = errors.New("no such move in history")
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service holds the per-browser game sessions and fans out updates to
// subscribers of a session.
type Service struct {
	mu     sync.Mutex
	logger *slog.Logger
	repo   sessionRepo
	subs   map[string]map[*subscriber]struct{}
	render func(entity.Session) []byte
	now    func() time.Time
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(logger *slog.Logger, repo sessionRepo) *Service {
	return NewServiceWithRenderer(logger, repo, nil)
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(logger *slog.Logger, repo sessionRepo, renderer func(entity.Session) []byte) *Service {
	if renderer == nil {
		renderer = func(entity.Session) []byte { return nil }
	}
	return &Service{
		logger: logger.With("component", "game-service"),
		repo:   repo,
		subs:   make(map[string]map[*subscriber]struct{}),
		render: renderer,
		now:    time.Now,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(entity.Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(entity.Session) []byte { return nil }
		return
	}
	s.render = renderer
}

// Start returns session id, or a new session when id is empty or unknown.
func (s *Service) Start(ctx context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		sess, err := s.loadLocked(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	sess := entity.NewSession(newSessionID(), s.now())
	if err := s.repo.CreateOrUpdate(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sessionsCreatedTotal.Inc()
	s.logger.Debug("session created", "session", sess.ID)
	return sess, nil
}

// Get returns the session if present.
func (s *Service) Get(ctx context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, id)
}

// Play makes the next move at c from the snapshot currently shown. A move
// that the rules reject leaves the session as it is and is not an error.
func (s *Service) Play(ctx context.Context, id string, c domain.Coordinates) (*entity.Session, error) {
	return s.update(ctx, id, func(sess *entity.Session) bool {
		if !sess.Current.CanPlay(c) {
			movesTotal.WithLabelValues("rejected").Inc()
			s.logger.Debug("move rejected", "session", sess.ID, "x", c.X, "y", c.Y)
			return false
		}
		next := sess.Current.Play(c)
		if domain.IndexOf(next) != len(sess.History) {
			historyRewritesTotal.Inc()
			s.logger.Debug("history rewritten", "session", sess.ID,
				"from", domain.IndexOf(next), "discarded", len(sess.History)-domain.IndexOf(next))
		}
		sess.Current = next
		sess.History = sess.History.Extend(next)
		movesTotal.WithLabelValues("applied").Inc()
		if o := next.Outcome(); o.Finished() {
			gamesFinishedTotal.WithLabelValues(outcomeLabel(o)).Inc()
			s.logger.Info("game finished", "session", sess.ID, "outcome", o.String())
		}
		return true
	})
}

// JumpTo shows the recorded snapshot at index. The history is not changed;
// the next move made from there rewrites it.
func (s *Service) JumpTo(ctx context.Context, id string, index int) (*entity.Session, error) {
	var missing bool
	sess, err := s.update(ctx, id, func(sess *entity.Session) bool {
		e, ok := sess.History.At(index)
		if !ok {
			missing = true
			return false
		}
		sess.Current = e.Game
		return true
	})
	if err != nil {
		return nil, err
	}
	if missing {
		return sess, fmt.Errorf("%w: %d", ErrNoSuchMove, index)
	}
	return sess, nil
}

// ToggleOrder flips the order the move list is shown in.
func (s *Service) ToggleOrder(ctx context.Context, id string) (*entity.Session, error) {
	return s.update(ctx, id, func(sess *entity.Session) bool {
		sess.Descending = !sess.Descending
		return true
	})
}

// Restart discards the game and starts over within the same session.
func (s *Service) Restart(ctx context.Context, id string) (*entity.Session, error) {
	return s.update(ctx, id, func(sess *entity.Session) bool {
		sess.Current = domain.Initial()
		sess.History = domain.InitialHistory()
		return true
	})
}

// update loads the session, applies fn and, when fn reports a change, saves
// and broadcasts the result.
func (s *Service) update(ctx context.Context, id string, fn func(*entity.Session) bool) (*entity.Session, error) {
	s.mu.Lock()
	sess, err := s.loadLocked(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !fn(sess) {
		s.mu.Unlock()
		return sess, nil
	}
	sess.Updated = s.now()
	if err = s.repo.CreateOrUpdate(ctx, sess); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	// Fan-out while holding the lock so a send never races a close; sends
	// never block, slow subscribers are closed and dropped.
	payload := s.render(*sess)
	dropped := 0
	for sub := range s.subs[id] {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(s.subs[id], sub)
			dropped++
		}
	}
	s.mu.Unlock()

	if dropped > 0 {
		s.logger.Warn("dropped slow subscribers", "session", id, "count", dropped)
	}
	return sess, nil
}

func (s *Service) loadLocked(ctx context.Context, id string) (*entity.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// Subscribe registers a subscriber for a session. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			sub.close()
			s.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}
