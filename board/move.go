package board

import (
	"fmt"
	"strings"
)

// Move is a square on the board, addressed by row and column (both 0-7).
type Move struct {
	Row int8
	Col int8
}

// PassMove is returned when the side to move has no legal move. It shares
// its coordinates with a1, so callers must check legality before trusting it.
var PassMove = Move{}

func moveFromIndex(idx int) Move {
	return Move{Row: int8(idx / Dim), Col: int8(idx % Dim)}
}

// Index is the row-major square index of the move.
func (m Move) Index() int {
	return int(m.Row)*Dim + int(m.Col)
}

// OnBoard reports whether both coordinates are in range.
func (m Move) OnBoard() bool {
	return m.Row >= 0 && m.Row < Dim && m.Col >= 0 && m.Col < Dim
}

func (m Move) String() string {
	if !m.OnBoard() {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// ParseMove reads a move in algebraic form, e.g. "d3". Column letters are
// case-insensitive.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Move{}, fmt.Errorf("cannot parse move %q", s)
	}
	col := int8(s[0]) - 'a'
	row := int8(s[1]) - '1'
	m := Move{Row: row, Col: col}
	if !m.OnBoard() {
		return Move{}, fmt.Errorf("move %q is off the board", s)
	}
	return m, nil
}

func (m Move) onRim(v int8) bool {
	return v == 0 || v == Dim-1
}

// IsCorner reports whether the move is one of the four corners.
func (m Move) IsCorner() bool {
	return m.onRim(m.Row) && m.onRim(m.Col)
}

// IsXSquare reports whether the move is diagonally adjacent to a corner.
func (m Move) IsXSquare() bool {
	return (m.Row == 1 || m.Row == Dim-2) && (m.Col == 1 || m.Col == Dim-2)
}

// IsCSquare reports whether the move is orthogonally adjacent to a corner.
func (m Move) IsCSquare() bool {
	return (m.onRim(m.Row) && (m.Col == 1 || m.Col == Dim-2)) ||
		(m.onRim(m.Col) && (m.Row == 1 || m.Row == Dim-2))
}

// IsEdge reports whether the move is on the border of the board.
func (m Move) IsEdge() bool {
	return m.onRim(m.Row) || m.onRim(m.Col)
}
