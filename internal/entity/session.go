package entity

import (
	"time"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

// Session is one browser's game: the recorded timeline plus the snapshot
// currently on screen, which may be any entry of the timeline.
type Session struct {
	ID         string          `json:"id"`
	Current    domain.Snapshot `json:"current"`
	History    domain.History  `json:"history"`
	Descending bool            `json:"descending"`
	Created    time.Time       `json:"created"`
	Updated    time.Time       `json:"updated"`
}

// NewSession returns a session at the start of a fresh game.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:      id,
		Current: domain.Initial(),
		History: domain.InitialHistory(),
		Created: now,
		Updated: now,
	}
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	cp := *s
	cp.History = append(domain.History(nil), s.History...)
	return &cp
}
