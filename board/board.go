// Package board implements the rules of Othello: legal move generation,
// move application and simple text I/O. It is the collaborator the search
// engine queries; it knows nothing about search.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Side is the owner of a square, or the player to move.
type Side int8

const (
	Empty Side = iota
	Black
	Red
)

// Opponent returns the other player. Empty has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case Black:
		return Red
	case Red:
		return Black
	}
	return Empty
}

func (s Side) String() string {
	switch s {
	case Black:
		return "black"
	case Red:
		return "red"
	}
	return "empty"
}

// ParseSide reads "black"/"b"/"x" or "red"/"r"/"o".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b", "x":
		return Black, nil
	case "red", "r", "o", "white", "w":
		return Red, nil
	}
	return Empty, fmt.Errorf("unknown side %q", s)
}

const (
	Dim        = 8
	NumSquares = Dim * Dim
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBadPosition = errors.New("bad position")
)

const (
	notColA uint64 = 0xfefefefefefefefe
	notColH uint64 = 0x7f7f7f7f7f7f7f7f
)

// shift moves every bit one square in direction d, dropping bits that
// would wrap around a side of the board.
func shift(x uint64, d int) uint64 {
	switch d {
	case 0: // east
		return (x << 1) & notColA
	case 1: // west
		return (x >> 1) & notColH
	case 2: // south
		return x << 8
	case 3: // north
		return x >> 8
	case 4: // south-east
		return (x << 9) & notColA
	case 5: // south-west
		return (x << 7) & notColH
	case 6: // north-east
		return (x >> 7) & notColA
	default: // north-west
		return (x >> 9) & notColH
	}
}

const numDirections = 8

func legalMask(own, opp uint64) uint64 {
	empty := ^(own | opp)
	var moves uint64
	for d := 0; d < numDirections; d++ {
		t := shift(own, d) & opp
		// at most six opposing discs can sit between two squares on a line
		for i := 0; i < 5; i++ {
			t |= shift(t, d) & opp
		}
		moves |= shift(t, d) & empty
	}
	return moves
}

func flips(own, opp uint64, sq int) uint64 {
	var flipped uint64
	start := uint64(1) << sq
	for d := 0; d < numDirections; d++ {
		var line uint64
		x := shift(start, d)
		for x != 0 && x&opp != 0 {
			line |= x
			x = shift(x, d)
		}
		if x&own != 0 {
			flipped |= line
		}
	}
	return flipped
}

// Board is an Othello position. It is a small value type; copying it
// yields an independent board.
type Board struct {
	black uint64
	red   uint64
}

// NewBoard returns the standard starting position. Black moves first.
func NewBoard() Board {
	var b Board
	b.set(3, 3, Red)
	b.set(4, 4, Red)
	b.set(3, 4, Black)
	b.set(4, 3, Black)
	return b
}

func (b *Board) set(row, col int, s Side) {
	bit := uint64(1) << (row*Dim + col)
	b.black &^= bit
	b.red &^= bit
	switch s {
	case Black:
		b.black |= bit
	case Red:
		b.red |= bit
	}
}

func (b Board) discs(s Side) (own, opp uint64) {
	if s == Black {
		return b.black, b.red
	}
	return b.red, b.black
}

func withDiscs(s Side, own, opp uint64) Board {
	if s == Black {
		return Board{black: own, red: opp}
	}
	return Board{black: opp, red: own}
}

func playable(s Side) bool {
	return s == Black || s == Red
}

// LegalMoves lists the legal moves for s in row-major order.
func (b Board) LegalMoves(s Side) []Move {
	if !playable(s) {
		return nil
	}
	own, opp := b.discs(s)
	mask := legalMask(own, opp)
	moves := make([]Move, 0, bits.OnesCount64(mask))
	for mask != 0 {
		sq := bits.TrailingZeros64(mask)
		moves = append(moves, moveFromIndex(sq))
		mask &= mask - 1
	}
	return moves
}

// MoveCount is len(LegalMoves(s)) without allocating.
func (b Board) MoveCount(s Side) int {
	if !playable(s) {
		return 0
	}
	own, opp := b.discs(s)
	return bits.OnesCount64(legalMask(own, opp))
}

// IsLegal reports whether s may play m.
func (b Board) IsLegal(s Side, m Move) bool {
	if !playable(s) || !m.OnBoard() {
		return false
	}
	sq := m.Index()
	if (b.black|b.red)&(uint64(1)<<sq) != 0 {
		return false
	}
	own, opp := b.discs(s)
	return flips(own, opp, sq) != 0
}

// Apply plays m for s and returns the resulting board. The receiver is not
// modified. The returned error wraps ErrIllegalMove when m cannot be played.
func (b Board) Apply(s Side, m Move) (Board, error) {
	if !playable(s) {
		return b, fmt.Errorf("%w: %s cannot move", ErrIllegalMove, s)
	}
	if !m.OnBoard() {
		return b, fmt.Errorf("%w: %s is off the board", ErrIllegalMove, m)
	}
	sq := m.Index()
	bit := uint64(1) << sq
	if (b.black|b.red)&bit != 0 {
		return b, fmt.Errorf("%w: %s is occupied", ErrIllegalMove, m)
	}
	own, opp := b.discs(s)
	f := flips(own, opp, sq)
	if f == 0 {
		return b, fmt.Errorf("%w: %s flips nothing for %s", ErrIllegalMove, m, s)
	}
	return withDiscs(s, own|bit|f, opp&^f), nil
}

// PieceCount is the number of discs s has on the board.
func (b Board) PieceCount(s Side) int {
	switch s {
	case Black:
		return bits.OnesCount64(b.black)
	case Red:
		return bits.OnesCount64(b.red)
	}
	return b.EmptyCount()
}

// EmptyCount is the number of unoccupied squares.
func (b Board) EmptyCount() int {
	return NumSquares - bits.OnesCount64(b.black|b.red)
}

// Owner returns who holds the square at row, col.
func (b Board) Owner(row, col int) Side {
	bit := uint64(1) << (row*Dim + col)
	switch {
	case b.black&bit != 0:
		return Black
	case b.red&bit != 0:
		return Red
	}
	return Empty
}

// GameOver reports whether neither side has a legal move.
func (b Board) GameOver() bool {
	return legalMask(b.black, b.red) == 0 && legalMask(b.red, b.black) == 0
}

// Winner returns the side with more discs, or Empty on a draw. It does not
// check that the game is over.
func (b Board) Winner() Side {
	nb, nr := b.PieceCount(Black), b.PieceCount(Red)
	switch {
	case nb > nr:
		return Black
	case nr > nb:
		return Red
	}
	return Empty
}

const (
	blackRune = 'X'
	redRune   = 'O'
	emptyRune = '.'
)

// Parse reads a board from 64 cell characters in row-major order. X/B is
// black, O/R is red, '.' or '-' is empty. Whitespace is ignored, so the
// output of ToDisplayText without its labels, or of String, parses back.
func Parse(s string) (Board, error) {
	var b Board
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		side, ok := cellSide(r)
		if !ok {
			return Board{}, fmt.Errorf("%w: unexpected character %q", ErrBadPosition, r)
		}
		if n >= NumSquares {
			return Board{}, fmt.Errorf("%w: more than %d cells", ErrBadPosition, NumSquares)
		}
		b.set(n/Dim, n%Dim, side)
		n++
	}
	if n != NumSquares {
		return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrBadPosition, n, NumSquares)
	}
	return b, nil
}

func cellSide(r rune) (Side, bool) {
	switch r {
	case 'X', 'x', 'B', 'b':
		return Black, true
	case 'O', 'o', 'R', 'r':
		return Red, true
	case '.', '-':
		return Empty, true
	}
	return Empty, false
}

// IsCellText reports whether s is made only of cell characters, such as
// one row of a position written out for Parse.
func IsCellText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if _, ok := cellSide(r); !ok {
			return false
		}
	}
	return true
}

func (b Board) cellRune(row, col int) rune {
	switch b.Owner(row, col) {
	case Black:
		return blackRune
	case Red:
		return redRune
	}
	return emptyRune
}

// String is the compact 64-character form accepted by Parse.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(NumSquares)
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			sb.WriteRune(b.cellRune(row, col))
		}
	}
	return sb.String()
}

// ToDisplayText renders the board with coordinates and disc counts.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   a b c d e f g h\n")
	for row := 0; row < Dim; row++ {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < Dim; col++ {
			sb.WriteByte(' ')
			sb.WriteRune(b.cellRune(row, col))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "black (%c): %d  red (%c): %d  empty: %d\n",
		blackRune, b.PieceCount(Black), redRune, b.PieceCount(Red), b.EmptyCount())
	return sb.String()
}
