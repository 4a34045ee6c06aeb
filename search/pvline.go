package search

import (
	"fmt"
	"strings"

	"github.com/Sher110106/othello/board"
)

// PVLine is the expected line of play from the root, read back from the
// transposition table as each iteration finishes. Passes are not listed.
type PVLine struct {
	Moves []board.Move
	Score int
}

// Clear the principal variation line.
func (pv *PVLine) Clear() {
	pv.Moves = nil
}

func (pv PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d;", pv.Score)
	for i, m := range pv.Moves {
		fmt.Fprintf(&sb, " %d: %s", i+1, m)
	}
	return sb.String()
}

// principalVariation follows cached best moves from the root for at most
// depth plies. It stops at the first missing entry or illegal move, so a
// hash collision can only shorten the line.
func (e *Engine[P]) principalVariation(pos P, side board.Side, first board.Move, score, depth int) PVLine {
	pv := PVLine{Score: score}
	m := first
	for len(pv.Moves) < depth {
		next, err := pos.Apply(side, m)
		if err != nil {
			break
		}
		pv.Moves = append(pv.Moves, m)
		side = board.MoverFor(next, side.Opponent())
		if side == board.Empty {
			break
		}
		entry, ok := e.ttable.peek(e.hasher.Hash(next))
		if !ok || !next.IsLegal(side, entry.move) {
			break
		}
		pos, m = next, entry.move
	}
	return pv
}
