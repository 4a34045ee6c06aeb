// Package search picks moves with time-bounded iterative-deepening
// alpha-beta over any position type that implements board.Position.
package search

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/eval"
	"github.com/Sher110106/othello/zobrist"
)

const (
	DefaultTimeBudget = 1750 * time.Millisecond
	DefaultMaxDepth   = 20
	// fraction of system memory used to size the transposition table
	defaultTableMemory = 0.01
)

// EvalFunc scores a position for perspective.
type EvalFunc func(pos board.Reader, perspective board.Side) int

// Hasher fingerprints positions for the transposition table.
type Hasher interface {
	Hash(pos board.Reader) uint64
}

type options struct {
	budget      time.Duration
	maxDepth    int
	evaluate    EvalFunc
	hasher      Hasher
	clock       Clock
	tableMemory float64
}

// Option configures an Engine.
type Option func(*options)

// WithTimeBudget sets the wall-clock budget per move. Zero or less means
// no limit.
func WithTimeBudget(d time.Duration) Option {
	return func(o *options) { o.budget = d }
}

// WithMaxDepth caps the search depth.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

func WithEvaluator(f EvalFunc) Option {
	return func(o *options) { o.evaluate = f }
}

func WithHasher(h Hasher) Option {
	return func(o *options) { o.hasher = h }
}

func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithTableMemory sets the fraction of system memory the transposition
// table is sized from.
func WithTableMemory(fraction float64) Option {
	return func(o *options) { o.tableMemory = fraction }
}

// Reason says how a move was arrived at.
type Reason string

const (
	ReasonNoLegalMove Reason = "no-legal-move"
	ReasonSingleMove  Reason = "single-move"
	ReasonSearched    Reason = "searched"
	ReasonFallback    Reason = "fallback"
)

// Result describes one move request.
type Result struct {
	Move board.Move
	// Score is the value of Move at Depth, for the side that asked.
	Score       int
	Depth       int
	TargetDepth int
	Nodes       uint64
	Table       TableStats
	Elapsed     time.Duration
	TimedOut    bool
	Reason      Reason
	// PV is the line behind the last completed iteration. It is empty
	// unless Reason is ReasonSearched and Depth is positive.
	PV PVLine
}

// Engine selects moves for one game. Each call to SelectMove or Search
// starts from a clean transposition table and a fresh clock. An Engine
// serves one request at a time; it is not safe for concurrent use.
type Engine[P board.Position[P]] struct {
	ttable      TranspositionTable
	hasher      Hasher
	evaluate    EvalFunc
	clock       deadline
	maxDepth    int
	tableMemory float64
	nodes       uint64
}

func NewEngine[P board.Position[P]](opts ...Option) *Engine[P] {
	o := options{
		budget:      DefaultTimeBudget,
		maxDepth:    DefaultMaxDepth,
		evaluate:    eval.Default.Evaluate,
		clock:       time.Now,
		tableMemory: defaultTableMemory,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasher == nil {
		o.hasher = zobrist.New(zobrist.ProxyMode)
	}
	return &Engine[P]{
		hasher:      o.hasher,
		evaluate:    o.evaluate,
		clock:       deadline{now: o.clock, budget: o.budget},
		maxDepth:    o.maxDepth,
		tableMemory: o.tableMemory,
	}
}

// SelectMove returns the move to play for side, or board.PassMove when side
// has no legal move. Callers must check legality before trusting PassMove.
func (e *Engine[P]) SelectMove(pos P, side board.Side) board.Move {
	return e.Search(pos, side).Move
}

func (e *Engine[P]) reset() {
	e.ttable.Reset(e.tableMemory)
	e.clock.restart()
	e.nodes = 0
}

// Search is SelectMove with the details of how the move was found.
func (e *Engine[P]) Search(pos P, side board.Side) Result {
	e.reset()
	res := Result{Move: board.PassMove}

	moves := pos.LegalMoves(side)
	switch len(moves) {
	case 0:
		res.Reason = ReasonNoLegalMove
		log.Debug().Str("side", side.String()).Msg("no-legal-move")
		return res
	case 1:
		res.Move = moves[0]
		res.Reason = ReasonSingleMove
		return res
	}

	res.TargetDepth = TargetDepth(pos.EmptyCount(), e.maxDepth)
	root := orderMoves(moves, pos, side)
	best := root[0]
	res.Reason = ReasonSearched

	for _, depth := range iterationDepths(res.TargetDepth) {
		if e.clock.timeUp() {
			break
		}
		iterBest, iterScore := best, -Infinity
		scored := false
		for _, m := range root {
			if e.clock.timeUp() {
				break
			}
			child, err := pos.Apply(side, m)
			if err != nil {
				log.Debug().Err(err).Str("move", m.String()).Msg("skipping-unplayable-root-move")
				continue
			}
			score := e.alphaBeta(child, side.Opponent(), depth-1, -Infinity, Infinity, side)
			if !scored || score > iterScore {
				iterBest, iterScore = m, score
				scored = true
			}
		}
		if e.clock.timeUp() {
			// an interrupted iteration is thrown away
			log.Debug().Int("depth", depth).Msg("iteration-abandoned")
			break
		}
		if !scored {
			break
		}
		best, res.Score, res.Depth = iterBest, iterScore, depth
		// read the line now, before a later iteration that may be cut
		// short overwrites the table
		res.PV = e.principalVariation(pos, side, best, iterScore, depth)
		root = promote(root, best)
		log.Debug().Int("depth", depth).Str("best", best.String()).
			Int("score", iterScore).Uint64("nodes", e.nodes).
			Msg("iteration-complete")
	}

	if !pos.IsLegal(side, best) {
		log.Warn().Str("move", best.String()).Str("side", side.String()).
			Msg("selected-move-illegal-falling-back")
		best = moves[0]
		res.Reason = ReasonFallback
		res.PV.Clear()
	}
	res.Move = best
	res.Nodes = e.nodes
	res.Table = e.ttable.Stats()
	res.Elapsed = e.clock.elapsed()
	res.TimedOut = e.clock.expired

	log.Debug().Str("move", res.Move.String()).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Int("target-depth", res.TargetDepth).
		Uint64("nodes", res.Nodes).
		Int("ttable-entries", res.Table.Entries).
		Uint64("ttable-hits", res.Table.Hits).
		Float64("time-elapsed-sec", res.Elapsed.Seconds()).
		Bool("timed-out", res.TimedOut).
		Str("pv", res.PV.String()).
		Msg("search-returning")
	return res
}

// TargetDepth is how deep to search a position with empty empty squares.
// With twelve or fewer empties the search runs to the end of the game.
func TargetDepth(empty, maxDepth int) int {
	var depth int
	switch {
	case empty <= 12:
		depth = empty
	case empty <= 20:
		depth = 10
	case empty <= 40:
		depth = 8
	default:
		depth = 6
	}
	return max(min(depth, maxDepth), 1)
}

// iterationDepths lists the depths iterative deepening visits: even depths
// up to target, then target itself if it is odd.
func iterationDepths(target int) []int {
	if target < 2 {
		return []int{target}
	}
	var depths []int
	for d := 2; d <= target; d += 2 {
		depths = append(depths, d)
	}
	if target%2 == 1 {
		depths = append(depths, target)
	}
	return depths
}
