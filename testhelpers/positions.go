// Package testhelpers builds reproducible Othello positions for tests.
package testhelpers

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/Sher110106/othello/board"
)

// Rng returns a deterministic generator for the given seed.
func Rng(seed uint64) *frand.RNG {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return frand.NewCustom(s[:], 1024, 12)
}

// Playout plays uniformly random legal moves from the starting position
// until the board has at most minEmpty empty squares or the game ends. It
// returns the position and the side to move in it.
func Playout(rng *frand.RNG, minEmpty int) (board.Board, board.Side) {
	b := board.NewBoard()
	side := board.Black
	for b.EmptyCount() > minEmpty {
		mover := board.MoverFor(b, side)
		if mover == board.Empty {
			break
		}
		moves := b.LegalMoves(mover)
		nb, err := b.Apply(mover, moves[rng.Intn(len(moves))])
		if err != nil {
			panic(err)
		}
		b = nb
		side = mover.Opponent()
	}
	if m := board.MoverFor(b, side); m != board.Empty {
		side = m
	}
	return b, side
}

// Sample returns n random positions at assorted depths into the game.
func Sample(n int, seed uint64) ([]board.Board, []board.Side) {
	rng := Rng(seed)
	boards := make([]board.Board, 0, n)
	sides := make([]board.Side, 0, n)
	for i := 0; i < n; i++ {
		b, s := Playout(rng, rng.Intn(board.NumSquares-4))
		boards = append(boards, b)
		sides = append(sides, s)
	}
	return boards, sides
}

// Endgame returns a position with exactly empties empty squares in which
// the side to move has at least two legal moves. It keeps playing out new
// games until one qualifies.
func Endgame(rng *frand.RNG, empties int) (board.Board, board.Side) {
	for {
		b, s := Playout(rng, empties)
		if b.EmptyCount() == empties && len(b.LegalMoves(s)) > 1 {
			return b, s
		}
	}
}
