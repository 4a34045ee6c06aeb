package automatic

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func fastConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTimeBudget, time.Duration(0))
	cfg.Set(config.ConfigMaxDepth, 2)
	cfg.Set(config.ConfigRandomOpening, 8)
	return cfg
}

func seed(b byte) Seed {
	var s Seed
	s[0] = b
	return s
}

func TestPlayGame(t *testing.T) {
	logchan := make(chan string, 200)
	runner, err := NewGameRunner(logchan, fastConfig())
	require.NoError(t, err)
	runner.Init(seed(1))

	rec, err := runner.PlayGame(context.Background())
	require.NoError(t, err)
	close(logchan)
	var lines []string
	for l := range logchan {
		lines = append(lines, l)
	}

	assert.True(t, runner.Board().GameOver())
	assert.Equal(t, len(rec.Moves), len(lines))
	assert.Equal(t, board.NumSquares-runner.Board().EmptyCount()-4, rec.Plies)
	assert.Equal(t, runner.Board().PieceCount(board.Black), rec.BlackDiscs)
	assert.Equal(t, runner.Board().Winner(), rec.Winner)
	assert.Equal(t, fingerprint(rec.Moves), rec.Fingerprint)
	assert.True(t, strings.HasPrefix(lines[0], rec.UID+",1,black,"))
}

func TestSameSeedSameGame(t *testing.T) {
	runner, err := NewGameRunner(nil, fastConfig())
	require.NoError(t, err)

	runner.Init(seed(7))
	first, err := runner.PlayGame(context.Background())
	require.NoError(t, err)
	runner.Init(seed(7))
	second, err := runner.PlayGame(context.Background())
	require.NoError(t, err)
	runner.Init(seed(8))
	other, err := runner.PlayGame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.UID, second.UID)
	assert.Equal(t, first.Moves, second.Moves)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEqual(t, first.UID, other.UID)
}

func TestPlayGameCancelled(t *testing.T) {
	runner, err := NewGameRunner(nil, fastConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.PlayGame(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRecordStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenRecordStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	recs := []GameRecord{
		{UID: "a", Fingerprint: 1<<63 + 5, Seed: "s1", Moves: []string{"d3", "c5"},
			BlackDiscs: 40, RedDiscs: 24, Winner: board.Black, Plies: 60, Nodes: 1000,
			Duration: 1500 * time.Millisecond},
		{UID: "b", Fingerprint: 1<<63 + 5, Seed: "s2", Moves: []string{"d3", "c5"},
			BlackDiscs: 32, RedDiscs: 32, Winner: board.Empty, Plies: 60},
		{UID: "c", Fingerprint: 9, Seed: "s3", Moves: []string{"f5", "pass"},
			BlackDiscs: 10, RedDiscs: 50, Winner: board.Red, Plies: 58},
	}
	for _, r := range recs {
		require.NoError(t, store.Save(ctx, r))
	}
	// same uid again is ignored
	require.NoError(t, store.Save(ctx, GameRecord{UID: "a", Seed: "other"}))

	got, err := store.Games(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	distinct, err := store.DistinctGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, distinct)
}

func TestPlayCompVComp(t *testing.T) {
	ctx := context.Background()
	store, err := OpenRecordStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	var buf bytes.Buffer
	seeds := []Seed{seed(1), seed(2), seed(3), seed(1)}
	records, err := PlayCompVComp(ctx, fastConfig(), CompVsCompOptions{
		Seeds:   seeds,
		Threads: 2,
		Log:     &buf,
		Store:   store,
	})
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, int64(4), CVCCounter.Value())
	assert.Equal(t, int64(0), IsPlaying.Value())
	assert.True(t, strings.HasPrefix(buf.String(), logHeader))

	stored, err := store.Games(ctx)
	require.NoError(t, err)
	// the repeated seed replays the same game under the same uid
	assert.Len(t, stored, 3)

	s := Summarize(records)
	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 3, s.DistinctGames)
	assert.Equal(t, s.Games, s.BlackWins+s.RedWins+s.Draws)
}

func TestPlayCompVCompCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PlayCompVComp(ctx, fastConfig(), CompVsCompOptions{NumGames: 3, Threads: 2})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSummarize(t *testing.T) {
	games := []GameRecord{
		{Fingerprint: 1, BlackDiscs: 40, RedDiscs: 24, Winner: board.Black, Plies: 60, Nodes: 100},
		{Fingerprint: 2, BlackDiscs: 24, RedDiscs: 40, Winner: board.Red, Plies: 60, Nodes: 300},
		{Fingerprint: 2, BlackDiscs: 32, RedDiscs: 32, Winner: board.Empty, Plies: 58, Nodes: 200},
	}
	s := Summarize(games)
	assert.Equal(t, 3, s.Games)
	assert.Equal(t, 2, s.DistinctGames)
	assert.Equal(t, 1, s.BlackWins)
	assert.Equal(t, 1, s.RedWins)
	assert.Equal(t, 1, s.Draws)
	assert.InDelta(t, 0.0, s.MeanMargin, 1e-9)
	assert.InDelta(t, 16.0, s.StdDevMargin, 1e-9)
	assert.InDelta(t, 59.333, s.MeanPlies, 1e-3)
	assert.InDelta(t, 200.0, s.MeanNodes, 1e-9)

	var out bytes.Buffer
	require.NoError(t, s.WriteYAML(&out))
	assert.Contains(t, out.String(), "distinct-games: 2")
	assert.Contains(t, out.String(), "black-wins: 1")
	assert.NotContains(t, out.String(), "margins")

	out.Reset()
	require.NoError(t, s.WriteHistogram(&out))
	assert.NotEmpty(t, out.String())

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Games)
	out.Reset()
	require.NoError(t, empty.WriteHistogram(&out))
	assert.Equal(t, "no games\n", out.String())
}

func TestSeedsRoundTrip(t *testing.T) {
	seeds := GenerateSeeds(3)
	var buf bytes.Buffer
	require.NoError(t, WriteSeeds(&buf, seeds))
	got, err := ReadSeeds(&buf)
	require.NoError(t, err)
	assert.Equal(t, seeds, got)

	_, err = ParseSeed("not-a-seed")
	assert.Error(t, err)
	_, err = ReadSeeds(strings.NewReader("# header\n\nAAAA\n"))
	assert.Error(t, err)
}
