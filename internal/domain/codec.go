package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned when decoding stored games.
var (
	ErrInvalidCell = errors.New("invalid cell")
	ErrBoardSize   = errors.New("board must have 9 cells")
)

// MarshalText encodes c as "X", "O" or "".
func (c Cell) MarshalText() ([]byte, error) {
	if c > O {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCell, c)
	}
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*c = Empty
	case "X":
		*c = X
	case "O":
		*c = O
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCell, text)
	}
	return nil
}

type snapshotJSON struct {
	Board       []Cell       `json:"board"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// MarshalJSON stores only the board and last move; the outcome is derived.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	v := snapshotJSON{Board: s.board[:]}
	if s.hasMove {
		c := s.lastMove
		v.Coordinates = &c
	}
	return json.Marshal(v)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var v snapshotJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var b Board
	if len(v.Board) != len(b) {
		return fmt.Errorf("%w: got %d", ErrBoardSize, len(v.Board))
	}
	copy(b[:], v.Board)
	if v.Coordinates != nil {
		*s = NewSnapshotAt(b, *v.Coordinates)
	} else {
		*s = NewSnapshot(b)
	}
	return nil
}
