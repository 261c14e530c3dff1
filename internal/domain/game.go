package domain

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Width is the side length of the board.
const Width = 3

// Coordinates address a cell by column (X) and row (Y), both 0..2.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Index returns the row-major board index for c.
func (c Coordinates) Index() int { return c.Y*Width + c.X }

// Valid reports whether c addresses a cell on the board.
func (c Coordinates) Valid() bool {
	return c.X >= 0 && c.X < Width && c.Y >= 0 && c.Y < Width
}

// Board is a fixed 3x3 board stored row-major.
type Board [Width * Width]Cell

// Filled returns the number of non-empty cells.
func (b Board) Filled() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

// PlayerToMove returns the mark that plays next on b. X moves on boards with
// an even number of filled cells.
func PlayerToMove(b Board) Cell {
	if b.Filled()%2 == 0 {
		return X
	}
	return O
}

// WinSequence is the three board indices of a completed line.
type WinSequence [3]int

// Contains reports whether index is part of the line.
func (w WinSequence) Contains(index int) bool {
	return w[0] == index || w[1] == index || w[2] == index
}

// winSequences is checked in order; the first completed line is reported.
var winSequences = [8]WinSequence{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Outcome is the state of a game derived from its board. It is one of
// NotFinished, Draw or Winner.
type Outcome interface {
	Finished() bool
	String() string
	outcome()
}

// NotFinished means the game can still be played.
type NotFinished struct{}

// Draw means the board is full with no completed line.
type Draw struct{}

// Winner carries the winning mark and the line it completed.
type Winner struct {
	Mark     Cell
	Sequence WinSequence
}

func (NotFinished) Finished() bool { return false }
func (Draw) Finished() bool        { return true }
func (Winner) Finished() bool      { return true }

func (NotFinished) String() string { return "Not Finished" }
func (Draw) String() string        { return "Draw" }
func (w Winner) String() string    { return "Winner: " + w.Mark.String() }

func (NotFinished) outcome() {}
func (Draw) outcome()        {}
func (Winner) outcome()      {}

// previousPlayer returns the mark that produced b: X leaves an odd number of
// filled cells behind.
func previousPlayer(b Board) Cell {
	if PlayerToMove(b) == X {
		return O
	}
	return X
}

// outcomeOf evaluates b. A completed line is credited to the player who just
// moved; on any board reachable by play that is also the mark on the line.
func outcomeOf(b Board) Outcome {
	for _, ln := range winSequences {
		if b[ln[0]] != Empty && b[ln[0]] == b[ln[1]] && b[ln[0]] == b[ln[2]] {
			return Winner{Mark: previousPlayer(b), Sequence: ln}
		}
	}
	if b.Filled() == len(b) {
		return Draw{}
	}
	return NotFinished{}
}

// Snapshot is an immutable game state: a board, its derived outcome and the
// move that produced it.
type Snapshot struct {
	board    Board
	outcome  Outcome
	lastMove Coordinates
	hasMove  bool
}

// NewSnapshot returns the snapshot for b with no recorded move.
func NewSnapshot(b Board) Snapshot {
	return Snapshot{board: b, outcome: outcomeOf(b)}
}

// NewSnapshotAt returns the snapshot for b produced by a move at c.
func NewSnapshotAt(b Board, c Coordinates) Snapshot {
	s := NewSnapshot(b)
	s.lastMove, s.hasMove = c, true
	return s
}

// Initial returns the empty-board snapshot a game starts from.
func Initial() Snapshot { return NewSnapshot(Board{}) }

// Board returns a copy of the board.
func (s Snapshot) Board() Board { return s.board }

// Outcome returns the derived outcome. The zero Snapshot is NotFinished.
func (s Snapshot) Outcome() Outcome {
	if s.outcome == nil {
		return NotFinished{}
	}
	return s.outcome
}

// LastMove returns the coordinates of the move that produced s, if any.
func (s Snapshot) LastMove() (Coordinates, bool) { return s.lastMove, s.hasMove }

// NextTurn returns the mark that plays next.
func (s Snapshot) NextTurn() Cell { return PlayerToMove(s.board) }

// CellAt returns the cell at c, or Empty when c is off the board.
func (s Snapshot) CellAt(c Coordinates) Cell {
	if !c.Valid() {
		return Empty
	}
	return s.board[c.Index()]
}

// CanPlay reports whether a move at c would be accepted.
func (s Snapshot) CanPlay(c Coordinates) bool {
	return !s.Outcome().Finished() && c.Valid() && s.board[c.Index()] == Empty
}

// Play returns the snapshot after the player to move marks c. Illegal moves
// (occupied or off-board cell, finished game) return s unchanged.
func (s Snapshot) Play(c Coordinates) Snapshot {
	if !s.CanPlay(c) {
		return s
	}
	next := s.board
	next[c.Index()] = s.NextTurn()
	return NewSnapshotAt(next, c)
}

// InWinSequence reports whether c lies on the winning line.
func (s Snapshot) InWinSequence(c Coordinates) bool {
	w, ok := s.Outcome().(Winner)
	return ok && c.Valid() && w.Sequence.Contains(c.Index())
}

// Equal reports whether s and o hold the same board and last move.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.board == o.board && sameMove(s, o)
}

func sameMove(a, b Snapshot) bool {
	if a.hasMove != b.hasMove {
		return false
	}
	return !a.hasMove || a.lastMove == b.lastMove
}
