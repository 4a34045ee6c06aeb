package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/Sher110106/othello/board"
)

func TestTableStoreLookup(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0.001)

	_, ok := tt.lookup(123)
	is.True(!ok)

	m := board.Move{Row: 2, Col: 3}
	tt.store(123, 4, -17, m)
	e, ok := tt.lookup(123)
	is.True(ok)
	is.Equal(e.Depth(), 4)
	is.Equal(e.Score(), -17)
	is.Equal(e.Move(), m)

	// unconditional overwrite, even by a shallower result
	tt.store(123, 2, 5, board.Move{Row: 7, Col: 7})
	e, _ = tt.lookup(123)
	is.Equal(e.Depth(), 2)
	is.Equal(e.Score(), 5)

	st := tt.Stats()
	is.Equal(st.Entries, 1)
	is.Equal(st.Created, uint64(2))
	is.Equal(st.Overwrites, uint64(1))
	is.Equal(st.Lookups, uint64(3))
	is.Equal(st.Hits, uint64(2))
}

func TestTableReset(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0.001)
	for i := uint64(0); i < 100; i++ {
		tt.store(i, 1, int(i), board.PassMove)
	}
	is.Equal(tt.Len(), 100)
	tt.Reset(0.001)
	is.Equal(tt.Len(), 0)
	is.Equal(tt.Stats(), TableStats{})
	_, ok := tt.lookup(5)
	is.True(!ok)
}

func TestStoreWithoutReset(t *testing.T) {
	is := is.New(t)
	var tt TranspositionTable
	tt.store(1, 1, 1, board.PassMove)
	is.Equal(tt.Len(), 1)
}
