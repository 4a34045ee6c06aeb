package automatic

// Batch computer vs computer play.

import (
	"context"
	"errors"
	"expvar"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Sher110106/othello/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const logHeader = "gameID,ply,side,move,score,depth,nodes,elapsed,black,red\n"

// CompVsCompOptions controls a batch of self-play games.
type CompVsCompOptions struct {
	// Seeds fixes the games to play, one per seed. When empty, NumGames
	// fresh seeds are drawn.
	Seeds    []Seed
	NumGames int
	Threads  int
	// Log receives a CSV line per move. May be nil.
	Log io.Writer
	// Store receives every finished game. May be nil.
	Store *RecordStore
}

// PlayCompVComp plays a batch of games on opts.Threads workers, each with
// its own runner and engines, and returns the finished games in completion
// order. Cancelling ctx stops the batch after the games in progress reach
// their next move.
func PlayCompVComp(ctx context.Context, cfg *config.Config, opts CompVsCompOptions) ([]GameRecord, error) {
	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	seeds := opts.Seeds
	if len(seeds) == 0 {
		seeds = GenerateSeeds(opts.NumGames)
	}
	threads := max(opts.Threads, 1)
	log.Info().Int("games", len(seeds)).Int("threads", threads).Msg("starting-self-play")

	CVCCounter.Set(0)
	var logChan chan string
	loggerDone := make(chan struct{})
	if opts.Log != nil {
		logChan = make(chan string, 100)
		go func() {
			defer close(loggerDone)
			io.WriteString(opts.Log, logHeader)
			for msg := range logChan {
				io.WriteString(opts.Log, msg)
			}
		}()
	} else {
		close(loggerDone)
	}

	jobs := make(chan Seed, 100)
	var (
		mu      sync.Mutex
		records []GameRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i, s := range seeds {
			select {
			case jobs <- s:
			case <-gctx.Done():
				log.Info().Int("queued", i).Msg("stop-requested-exiting-soon")
				return nil
			}
		}
		return nil
	})

	for i := 0; i < threads; i++ {
		g.Go(func() error {
			r, err := NewGameRunner(logChan, cfg)
			if err != nil {
				return err
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for s := range jobs {
				r.Init(s)
				rec, err := r.PlayGame(gctx)
				if err != nil {
					return err
				}
				if opts.Store != nil {
					if err := opts.Store.Save(gctx, rec); err != nil {
						return err
					}
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	<-loggerDone
	log.Info().Int("finished", len(records)).Msg("self-play-done")
	if err != nil && !errors.Is(err, context.Canceled) {
		return records, err
	}
	return records, ctx.Err()
}
