// Package eval scores Othello positions. Scores are always relative to a
// perspective side: higher is better for that side.
package eval

import (
	"math"

	"github.com/samber/lo"

	"github.com/Sher110106/othello/board"
)

const (
	CornerValue   = 100
	SafeEdgeValue = 5
	// MobilityScale amplifies the mobility difference, which is otherwise
	// small next to the other terms.
	MobilityScale = 5
)

var corners = [4]board.Move{{Row: 0, Col: 0}, {Row: 0, Col: 7}, {Row: 7, Col: 0}, {Row: 7, Col: 7}}

// Terms are the unweighted evaluation components, each as perspective
// minus opponent.
type Terms struct {
	Phase      Phase
	Material   int
	Mobility   int
	Positional int
	Corners    int
	Stability  int
	Score      int
}

// Evaluator is the static evaluation function. The zero value reads corner
// ownership through the mobility proxy; ExactCorners reads it from the
// board when the position implements board.CellOwner.
type Evaluator struct {
	ExactCorners bool
}

// Default is the evaluator the engine uses unless told otherwise.
var Default = Evaluator{}

// Evaluate scores pos for perspective. It never fails.
func (e Evaluator) Evaluate(pos board.Reader, perspective board.Side) int {
	return e.Breakdown(pos, perspective).Score
}

// Breakdown computes every term along with the final score.
func (e Evaluator) Breakdown(pos board.Reader, perspective board.Side) Terms {
	opp := perspective.Opponent()
	empty := pos.EmptyCount()
	w := WeightsFor(empty)

	myMoves := pos.LegalMoves(perspective)
	oppMoves := pos.LegalMoves(opp)

	t := Terms{Phase: PhaseOf(empty)}
	t.Material = pos.PieceCount(perspective) - pos.PieceCount(opp)
	t.Mobility = len(myMoves) - len(oppMoves)
	t.Positional = positional(myMoves, oppMoves)
	t.Corners = e.corners(pos, perspective, myMoves, oppMoves)
	t.Stability = t.Corners + SafeEdgeValue*(safeEdges(myMoves)-safeEdges(oppMoves))

	t.Score = int(math.Round(
		w.Position*float64(t.Positional) +
			w.Mobility*float64(t.Mobility)*MobilityScale +
			w.Corner*float64(t.Corners) +
			w.Stability*float64(t.Stability) +
			w.Parity*float64(t.Material)))
	return t
}

func positional(myMoves, oppMoves []board.Move) int {
	return lo.SumBy(myMoves, SquareWeight) - lo.SumBy(oppMoves, SquareWeight)
}

func safeEdges(moves []board.Move) int {
	return lo.CountBy(moves, func(m board.Move) bool {
		return m.IsEdge() && !m.IsXSquare() && !m.IsCSquare()
	})
}

func (e Evaluator) corners(pos board.Reader, perspective board.Side, myMoves, oppMoves []board.Move) int {
	if e.ExactCorners {
		if co, ok := pos.(board.CellOwner); ok {
			return exactCorners(co, perspective)
		}
	}
	score := 0
	for _, c := range corners {
		if lo.Contains(myMoves, c) || lo.Contains(oppMoves, c) {
			// still open
			continue
		}
		// Neither side can play here, so treat it as taken. The side with
		// fewer moves around it is taken to be the one holding it.
		myNear := lo.CountBy(myMoves, nearCorner(c))
		oppNear := lo.CountBy(oppMoves, nearCorner(c))
		switch {
		case myNear < oppNear:
			score += CornerValue
		case oppNear < myNear:
			score -= CornerValue
		}
	}
	return score
}

func exactCorners(co board.CellOwner, perspective board.Side) int {
	score := 0
	for _, c := range corners {
		switch co.Owner(int(c.Row), int(c.Col)) {
		case perspective:
			score += CornerValue
		case perspective.Opponent():
			score -= CornerValue
		}
	}
	return score
}

func nearCorner(c board.Move) func(board.Move) bool {
	return func(m board.Move) bool {
		return abs8(m.Row-c.Row) <= 1 && abs8(m.Col-c.Col) <= 1
	}
}

func abs8(x int8) int8 {
	if x < 0 {
		return -x
	}
	return x
}
