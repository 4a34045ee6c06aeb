package automatic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Sher110106/othello/board"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	uid         TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	seed        TEXT NOT NULL,
	moves       TEXT NOT NULL,
	black       INTEGER NOT NULL,
	red         INTEGER NOT NULL,
	winner      TEXT NOT NULL,
	plies       INTEGER NOT NULL,
	nodes       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS games_fingerprint ON games (fingerprint);
`

// RecordStore keeps finished self-play games in a sqlite file.
type RecordStore struct {
	db *sql.DB
}

// OpenRecordStore opens (creating if needed) the store at path. Use
// ":memory:" for a throwaway store.
func OpenRecordStore(ctx context.Context, path string) (*RecordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// sqlite allows one writer; workers queue on the single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &RecordStore{db: db}, nil
}

func (s *RecordStore) Close() error {
	return s.db.Close()
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

// Save inserts rec. A game already stored under the same UID is left as
// is. Writes that hit a busy database are retried with backoff.
func (s *RecordStore) Save(ctx context.Context, rec GameRecord) error {
	return retry.Do(
		func() error {
			_, err := s.db.ExecContext(ctx,
				`INSERT OR IGNORE INTO games
				(uid, fingerprint, seed, moves, black, red, winner, plies, nodes, duration_ms)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rec.UID,
				strconv.FormatUint(rec.Fingerprint, 16),
				rec.Seed,
				strings.Join(rec.Moves, " "),
				rec.BlackDiscs,
				rec.RedDiscs,
				rec.Winner.String(),
				rec.Plies,
				int64(rec.Nodes),
				rec.Duration.Milliseconds())
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(20*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Debug().Err(err).Uint("n", n).Str("uid", rec.UID).
				Msg("database-busy-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// Games returns every stored game, oldest first.
func (s *RecordStore) Games(ctx context.Context) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, fingerprint, seed, moves, black, red, winner, plies, nodes, duration_ms
		FROM games ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var (
			rec               GameRecord
			fp, moves, winner string
			nodes, durationMS int64
		)
		if err := rows.Scan(&rec.UID, &fp, &rec.Seed, &moves, &rec.BlackDiscs,
			&rec.RedDiscs, &winner, &rec.Plies, &nodes, &durationMS); err != nil {
			return nil, err
		}
		rec.Fingerprint, err = strconv.ParseUint(fp, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("game %s: bad fingerprint %q: %w", rec.UID, fp, err)
		}
		if moves != "" {
			rec.Moves = strings.Split(moves, " ")
		}
		if winner != board.Empty.String() {
			rec.Winner, err = board.ParseSide(winner)
			if err != nil {
				return nil, fmt.Errorf("game %s: %w", rec.UID, err)
			}
		}
		rec.Nodes = uint64(nodes)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		games = append(games, rec)
	}
	return games, rows.Err()
}

// DistinctGames counts games with different move sequences.
func (s *RecordStore) DistinctGames(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT fingerprint) FROM games`).Scan(&n)
	return n, err
}
