package search

import (
	"github.com/rs/zerolog/log"

	"github.com/Sher110106/othello/board"
)

// Infinity bounds every evaluation score.
const Infinity = 1000000

// alphaBeta returns the minimax value of pos to depth plies, from the point
// of view of perspective. Nodes where stm == perspective maximize; the
// others minimize. A pass does not use up depth. Once the time budget is
// spent every node returns its static evaluation.
func (e *Engine[P]) alphaBeta(pos P, stm board.Side, depth, alpha, beta int, perspective board.Side) int {
	e.nodes++
	if e.clock.timeUp() {
		return e.evaluate(pos, perspective)
	}
	if depth == 0 {
		return e.evaluate(pos, perspective)
	}
	moves := pos.LegalMoves(stm)
	if len(moves) == 0 {
		if len(pos.LegalMoves(stm.Opponent())) == 0 {
			return e.evaluate(pos, perspective)
		}
		return e.alphaBeta(pos, stm.Opponent(), depth, alpha, beta, perspective)
	}

	hash := e.hasher.Hash(pos)
	if entry, ok := e.ttable.lookup(hash); ok && entry.depth >= depth {
		moves = promote(moves, entry.move)
	}
	moves = orderMoves(moves, pos, stm)

	maximizing := stm == perspective
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	bestMove := moves[0]
	searched := 0

	for _, m := range moves {
		if e.clock.timeUp() {
			break
		}
		child, err := pos.Apply(stm, m)
		if err != nil {
			log.Debug().Err(err).Str("move", m.String()).Msg("skipping-unplayable-move")
			continue
		}
		searched++
		val := e.alphaBeta(child, stm.Opponent(), depth-1, alpha, beta, perspective)
		if maximizing {
			if val > best {
				best, bestMove = val, m
			}
			alpha = max(alpha, val)
		} else {
			if val < best {
				best, bestMove = val, m
			}
			beta = min(beta, val)
		}
		if beta <= alpha {
			break
		}
	}

	if searched == 0 {
		// nothing was explored, so there is no better answer than the
		// static one, and nothing worth caching
		return e.evaluate(pos, perspective)
	}
	if !e.clock.timeUp() {
		e.ttable.store(hash, depth, best, bestMove)
	}
	return best
}
