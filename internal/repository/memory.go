package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
)

type storedSession struct {
	session *entity.Session
	written time.Time
}

type memorySession struct {
	mu       sync.Mutex
	sessions map[string]storedSession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory. Sessions not
// written for longer than ttl are treated as gone; a zero ttl disables expiry.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memorySession {
	return &memorySession{
		sessions: make(map[string]storedSession),
		ttl:      ttl,
		now:      now,
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.evictExpiredLocked()
	that.sessions[session.ID] = storedSession{session: session.Clone(), written: that.now()}

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[id]
	if !ok || that.expired(stored) {
		delete(that.sessions, id)
		return nil, ErrSessionNotFound
	}

	return stored.session.Clone(), nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(that.sessions, id)

	return nil
}

func (that *memorySession) expired(stored storedSession) bool {
	return that.ttl > 0 && that.now().Sub(stored.written) > that.ttl
}

func (that *memorySession) evictExpiredLocked() {
	for id, stored := range that.sessions {
		if that.expired(stored) {
			delete(that.sessions, id)
		}
	}
}
