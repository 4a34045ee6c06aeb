package search

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/Sher110106/othello/board"
)

// rough per-entry footprint of a map slot, used only to size the initial
// capacity hint
const entrySize = 48

const (
	minTableHint = 1 << 10
	maxTableHint = 1 << 16
)

// TableEntry caches the result of searching one position.
type TableEntry struct {
	hash  uint64
	depth int
	score int
	move  board.Move
}

func (t TableEntry) Depth() int       { return t.depth }
func (t TableEntry) Score() int       { return t.score }
func (t TableEntry) Move() board.Move { return t.move }

// TranspositionTable maps position hashes to search results. It grows
// without bound while one move request runs and is cleared at the start of
// the next. It is not safe for concurrent use.
type TranspositionTable struct {
	table      map[uint64]TableEntry
	created    uint64
	lookups    uint64
	hits       uint64
	overwrites uint64
}

// TableStats is a snapshot of the table's counters.
type TableStats struct {
	Entries    int
	Created    uint64
	Lookups    uint64
	Hits       uint64
	Overwrites uint64
}

func (t *TranspositionTable) lookup(hash uint64) (TableEntry, bool) {
	t.lookups++
	e, ok := t.table[hash]
	if !ok || e.hash != hash {
		return TableEntry{}, false
	}
	t.hits++
	return e, true
}

// peek is lookup without touching the counters.
func (t *TranspositionTable) peek(hash uint64) (TableEntry, bool) {
	e, ok := t.table[hash]
	return e, ok && e.hash == hash
}

// store overwrites any existing entry for hash.
func (t *TranspositionTable) store(hash uint64, depth, score int, m board.Move) {
	if t.table == nil {
		t.table = make(map[uint64]TableEntry, minTableHint)
	}
	if _, ok := t.table[hash]; ok {
		t.overwrites++
	}
	t.table[hash] = TableEntry{hash: hash, depth: depth, score: score, move: m}
	t.created++
}

// Reset empties the table and zeroes its counters. The first call sizes the
// map from fractionOfMemory of system memory, within fixed bounds.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	if t.table != nil {
		clear(t.table)
	} else {
		totalMem := memory.TotalMemory()
		desired := int(fractionOfMemory * float64(totalMem) / entrySize)
		hint := min(max(desired, minTableHint), maxTableHint)
		t.table = make(map[uint64]TableEntry, hint)
		log.Debug().Int("capacity-hint", hint).
			Int("desired-num-elems", desired).
			Uint64("total-system-memory-bytes", totalMem).
			Msg("transposition-table-size")
	}
	t.created = 0
	t.lookups = 0
	t.hits = 0
	t.overwrites = 0
}

// Len is the number of entries currently stored.
func (t *TranspositionTable) Len() int {
	return len(t.table)
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Entries:    len(t.table),
		Created:    t.created,
		Lookups:    t.lookups,
		Hits:       t.hits,
		Overwrites: t.overwrites,
	}
}
