package search

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/eval"
)

const (
	CornerBonus          = 100000
	XSquarePenalty       = 50000
	CSquarePenalty       = 20000
	EdgeBonus            = 5000
	SquareWeightScale    = 100
	ReplyMobilityPenalty = 50
	FailedApplyPenalty   = 100000

	// X- and C-squares are only penalised while more than this many
	// squares are empty.
	earlyGameEmpty = 30
)

type scoredMove struct {
	m     board.Move
	score int
}

// moveScore ranks a candidate before search. Higher is tried first.
func moveScore[P board.Position[P]](pos P, side board.Side, m board.Move, empty int) int {
	score := 0
	switch {
	case m.IsCorner():
		score += CornerBonus
	case m.IsXSquare() && empty > earlyGameEmpty:
		score -= XSquarePenalty
	case m.IsCSquare() && empty > earlyGameEmpty:
		score -= CSquarePenalty
	case m.IsEdge():
		score += EdgeBonus
	default:
		score += eval.SquareWeight(m) * SquareWeightScale
	}
	next, err := pos.Apply(side, m)
	if err != nil {
		return score - FailedApplyPenalty
	}
	return score - ReplyMobilityPenalty*len(next.LegalMoves(side.Opponent()))
}

// orderMoves returns moves sorted best-first. Equal scores keep their input
// order, so a move placed first by the caller wins ties.
func orderMoves[P board.Position[P]](moves []board.Move, pos P, side board.Side) []board.Move {
	if len(moves) <= 1 {
		return moves
	}
	empty := pos.EmptyCount()
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{m: m, score: moveScore(pos, side, m, empty)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return lo.Map(scored, func(sm scoredMove, _ int) board.Move {
		return sm.m
	})
}

// promote moves m to the front of moves if it is present. The input slice
// is not modified.
func promote(moves []board.Move, m board.Move) []board.Move {
	if !lo.Contains(moves, m) {
		return moves
	}
	return append([]board.Move{m}, lo.Without(moves, m)...)
}
