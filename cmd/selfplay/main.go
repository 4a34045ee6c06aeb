// selfplay plays a batch of engine vs engine games and reports how they
// went. Finished games go to an sqlite file so batches can be compared.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sher110106/othello/automatic"
	"github.com/Sher110106/othello/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal, finishing games in progress...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("self-play-failed")
	}
}

func loadSeeds(cfg *config.Config) ([]automatic.Seed, error) {
	path := cfg.GetString(config.ConfigSeedsFile)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		seeds := automatic.GenerateSeeds(cfg.GetInt(config.ConfigGames))
		out, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer out.Close()
		log.Info().Str("path", path).Int("seeds", len(seeds)).Msg("saving-seeds")
		return seeds, automatic.WriteSeeds(out, seeds)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	log.Info().Str("path", path).Msg("replaying-seeds")
	return automatic.ReadSeeds(f)
}

func run(ctx context.Context, cfg *config.Config) error {
	seeds, err := loadSeeds(cfg)
	if err != nil {
		return err
	}
	opts := automatic.CompVsCompOptions{
		Seeds:    seeds,
		NumGames: cfg.GetInt(config.ConfigGames),
		Threads:  cfg.GetInt(config.ConfigThreads),
	}
	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		store, err := automatic.OpenRecordStore(ctx, path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}
	if path := cfg.GetString(config.ConfigGameLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts.Log = f
	}

	records, playErr := automatic.PlayCompVComp(ctx, cfg, opts)
	summary := automatic.Summarize(records)
	if opts.Store != nil {
		// count against everything stored so far, not just this batch
		if n, err := opts.Store.DistinctGames(context.Background()); err == nil {
			log.Info().Int("distinct-stored", n).Msg("record-store")
		}
	}
	fmt.Print(summary.String())
	if err := summary.WriteHistogram(os.Stdout); err != nil {
		return err
	}
	if path := cfg.GetString(config.ConfigSummaryPath); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := summary.WriteYAML(f); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote-summary")
	}
	return playErr
}
