// Package automatic plays engine-versus-engine Othello games, records them
// and summarises the results.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/config"
	"github.com/Sher110106/othello/search"
)

const passMove = "pass"

var ErrGameOver = errors.New("game is over")

// GameRecord is the outcome of one finished game.
type GameRecord struct {
	UID string
	// Fingerprint hashes the move sequence; games with the same moves share
	// it.
	Fingerprint uint64
	Seed        string
	Moves       []string
	BlackDiscs  int
	RedDiscs    int
	Winner      board.Side
	Plies       int
	Nodes       uint64
	Duration    time.Duration
}

// Margin is Black's disc count minus Red's.
func (g GameRecord) Margin() int {
	return g.BlackDiscs - g.RedDiscs
}

func fingerprint(moves []string) uint64 {
	return xxhash.Sum64String(strings.Join(moves, " "))
}

// GameRunner plays one game at a time between two engines. Black and Red
// each get their own engine; neither is shared with another runner.
type GameRunner struct {
	config        *config.Config
	engines       [2]*search.Engine[board.Board]
	logchan       chan string
	randomOpening int

	seed   Seed
	rng    *frand.RNG
	uid    string
	board  board.Board
	onTurn board.Side
	turn   int
	moves  []string
	nodes  uint64
	start  time.Time
}

// NewGameRunner builds a runner whose engines are configured from cfg.
// Per-move CSV lines go to logchan if it is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	r := &GameRunner{
		config:        cfg,
		logchan:       logchan,
		randomOpening: cfg.GetInt(config.ConfigRandomOpening),
	}
	for i := range r.engines {
		opts, err := search.ConfigOptions(cfg)
		if err != nil {
			return nil, err
		}
		r.engines[i] = search.NewEngine[board.Board](opts...)
	}
	r.Init(GenerateSeeds(1)[0])
	return r, nil
}

// Init sets the seed for the next game's random opening.
func (r *GameRunner) Init(seed Seed) {
	r.seed = seed
	r.rng = seed.rng()
}

func engineIndex(s board.Side) int {
	if s == board.Red {
		return 1
	}
	return 0
}

func (r *GameRunner) StartGame() {
	r.board = board.NewBoard()
	r.onTurn = board.Black
	r.turn = 0
	r.moves = r.moves[:0]
	r.nodes = 0
	r.uid = fmt.Sprintf("%016x", r.rng.Uint64n(1<<63))
	r.start = time.Now()
}

func (r *GameRunner) Board() board.Board {
	return r.board
}

func (r *GameRunner) OnTurn() board.Side {
	return r.onTurn
}

func (r *GameRunner) Playing() bool {
	return !r.board.GameOver()
}

// PlayTurn makes one move for whoever is due to play, passing first if
// the side on turn has no move. The first random-opening-plies moves are
// chosen uniformly at random.
func (r *GameRunner) PlayTurn() error {
	mover := board.MoverFor(r.board, r.onTurn)
	if mover == board.Empty {
		return ErrGameOver
	}
	if mover != r.onTurn {
		r.moves = append(r.moves, passMove)
		r.logTurn(r.onTurn, passMove, search.Result{})
		r.onTurn = mover
	}

	var m board.Move
	var res search.Result
	if r.turn < r.randomOpening {
		legal := r.board.LegalMoves(mover)
		m = legal[r.rng.Intn(len(legal))]
	} else {
		res = r.engines[engineIndex(mover)].Search(r.board, mover)
		m = res.Move
		r.nodes += res.Nodes
	}

	nb, err := r.board.Apply(mover, m)
	if err != nil {
		return fmt.Errorf("%s played %s: %w", mover, m, err)
	}
	r.board = nb
	r.moves = append(r.moves, m.String())
	r.turn++
	r.logTurn(mover, m.String(), res)
	r.onTurn = mover.Opponent()
	return nil
}

func (r *GameRunner) logTurn(side board.Side, move string, res search.Result) {
	if r.logchan == nil {
		return
	}
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%.3f,%v,%v\n",
		r.uid,
		len(r.moves),
		side,
		move,
		res.Score,
		res.Depth,
		res.Nodes,
		res.Elapsed.Seconds(),
		r.board.PieceCount(board.Black),
		r.board.PieceCount(board.Red))
}

// PlayGame plays a whole game from the start position. It stops early,
// returning ctx.Err(), if ctx is cancelled between moves.
func (r *GameRunner) PlayGame(ctx context.Context) (GameRecord, error) {
	r.StartGame()
	for r.Playing() {
		if err := ctx.Err(); err != nil {
			return GameRecord{}, err
		}
		if err := r.PlayTurn(); err != nil {
			return GameRecord{}, err
		}
	}
	rec := r.Record()
	log.Debug().Str("uid", rec.UID).Int("black", rec.BlackDiscs).
		Int("red", rec.RedDiscs).Int("plies", rec.Plies).Msg("game-over")
	return rec, nil
}

// Record summarises the game played so far.
func (r *GameRunner) Record() GameRecord {
	moves := append([]string(nil), r.moves...)
	return GameRecord{
		UID:         r.uid,
		Fingerprint: fingerprint(moves),
		Seed:        r.seed.String(),
		Moves:       moves,
		BlackDiscs:  r.board.PieceCount(board.Black),
		RedDiscs:    r.board.PieceCount(board.Red),
		Winner:      r.board.Winner(),
		Plies:       r.turn,
		Nodes:       r.nodes,
		Duration:    time.Since(r.start),
	}
}
