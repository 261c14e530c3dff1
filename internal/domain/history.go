package domain

import (
	"slices"
)

// Entry is a snapshot tagged with its position along the recorded line of play.
type Entry struct {
	Index int      `json:"index"`
	Game  Snapshot `json:"game"`
}

// History is the single recorded timeline of a game, indexed 0..N. Index 0
// is always the empty board. Values are never modified in place.
type History []Entry

// IndexOf returns the history position of s: the number of moves played.
func IndexOf(s Snapshot) int { return s.board.Filled() }

// InitialHistory returns a history holding only the empty board.
func InitialHistory() History {
	return History(nil).Extend(Initial())
}

// Extend records s and returns the new history.
//
// When s does not sit one past the current end (a move was made after
// jumping back) the timeline is cut at s's position and s replaces
// everything from there on. Otherwise s is appended, unless an entry with
// the same last move is already present.
func (h History) Extend(s Snapshot) History {
	idx := IndexOf(s)
	if idx != len(h) {
		if idx > len(h) {
			idx = len(h)
		}
		out := make(History, idx, idx+1)
		copy(out, h[:idx])
		return append(out, Entry{Index: idx, Game: s})
	}
	for _, e := range h {
		if sameMove(e.Game, s) {
			return h
		}
	}
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, Entry{Index: len(h), Game: s})
}

// At returns the entry at index.
func (h History) At(index int) (Entry, bool) {
	if index < 0 || index >= len(h) {
		return Entry{}, false
	}
	return h[index], true
}

// Latest returns the last recorded entry.
func (h History) Latest() (Entry, bool) { return h.At(len(h) - 1) }

// Sorted returns a copy of h ordered by index, newest first when descending
// is set. h itself keeps play order.
func (h History) Sorted(descending bool) []Entry {
	out := slices.Clone([]Entry(h))
	slices.SortStableFunc(out, func(a, b Entry) int {
		if descending {
			return b.Index - a.Index
		}
		return a.Index - b.Index
	})
	return out
}
