package search

import (
	"testing"

	"github.com/matryer/is"
	"github.com/samber/lo"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/testhelpers"
)

func TestOrderMovesIsPermutation(t *testing.T) {
	is := is.New(t)
	boards, sides := testhelpers.Sample(100, 4)
	for i, b := range boards {
		moves := b.LegalMoves(sides[i])
		ordered := orderMoves(moves, b, sides[i])
		is.Equal(len(ordered), len(moves))
		is.Equal(len(lo.Intersect(ordered, moves)), len(moves))
		is.Equal(orderMoves(moves, b, sides[i]), ordered)
	}
}

func TestOrderMovesPriorities(t *testing.T) {
	is := is.New(t)
	boards, sides := testhelpers.Sample(300, 9)
	for i, b := range boards {
		ordered := orderMoves(b.LegalMoves(sides[i]), b, sides[i])
		// corners always lead
		seenOther := false
		for _, m := range ordered {
			if m.IsCorner() {
				is.True(!seenOther)
			} else {
				seenOther = true
			}
		}
		if b.EmptyCount() <= earlyGameEmpty {
			continue
		}
		// early on, X-squares trail everything but other X-squares
		seenX := false
		for _, m := range ordered {
			if m.IsXSquare() {
				seenX = true
			} else {
				is.True(!seenX)
			}
		}
	}
}

func TestOrderMovesTrivial(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.Equal(len(orderMoves(nil, b, board.Black)), 0)
	one := []board.Move{{Row: 2, Col: 3}}
	is.Equal(orderMoves(one, b, board.Black), one)
}

func TestPromote(t *testing.T) {
	is := is.New(t)
	moves := []board.Move{{Row: 0, Col: 1}, {Row: 2, Col: 2}, {Row: 3, Col: 4}}
	is.Equal(promote(moves, board.Move{Row: 3, Col: 4}),
		[]board.Move{{Row: 3, Col: 4}, {Row: 0, Col: 1}, {Row: 2, Col: 2}})
	// absent moves are never inserted
	is.Equal(promote(moves, board.Move{Row: 7, Col: 7}), moves)
	// the input is left alone
	is.Equal(moves[0], board.Move{Row: 0, Col: 1})
}
