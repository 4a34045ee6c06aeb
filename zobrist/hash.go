package zobrist

import (
	"encoding/binary"
	"fmt"
	"strings"

	"lukechampine.com/frand"

	"github.com/Sher110106/othello/board"
)

const bignum = 1<<63 - 2

// Seed fixes the random table so hashes are reproducible across runs.
const Seed = 314159265

// Mode selects what the hash is built from.
type Mode int

const (
	// ProxyMode hashes disc counts and both sides' legal-move sets. It is
	// cheap but can map distinct positions to the same key.
	ProxyMode Mode = iota
	// CellMode hashes every square. It needs a position that implements
	// board.CellOwner and falls back to ProxyMode otherwise.
	CellMode
)

func (m Mode) String() string {
	if m == CellMode {
		return "cell"
	}
	return "proxy"
}

// ParseMode reads "proxy" or "cell".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "proxy", "":
		return ProxyMode, nil
	case "cell":
		return CellMode, nil
	}
	return ProxyMode, fmt.Errorf("unknown hash mode %q", s)
}

const (
	blackCol = 0
	redCol   = 1
	emptyCol = 2
)

// Zobrist generates position fingerprints for the transposition table.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	mode  Mode
	table [board.NumSquares][3]uint64
}

// New returns an initialized hasher.
func New(mode Mode) *Zobrist {
	z := &Zobrist{}
	z.Initialize(mode)
	return z
}

func (z *Zobrist) Initialize(mode Mode) {
	z.mode = mode
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], Seed)
	rng := frand.NewCustom(seed[:], 1024, 12)
	for i := 0; i < board.NumSquares; i++ {
		for j := 0; j < 3; j++ {
			z.table[i][j] = rng.Uint64n(bignum) + 1
		}
	}
}

func (z *Zobrist) Mode() Mode {
	return z.mode
}

// Hash never fails; distinct positions may collide.
func (z *Zobrist) Hash(pos board.Reader) uint64 {
	if z.mode == CellMode {
		if co, ok := pos.(board.CellOwner); ok {
			return z.cellHash(co)
		}
	}
	return z.proxyHash(pos)
}

func (z *Zobrist) proxyHash(pos board.Reader) uint64 {
	var key uint64
	key ^= z.table[pos.PieceCount(board.Black)%board.NumSquares][blackCol]
	key ^= z.table[pos.PieceCount(board.Red)%board.NumSquares][redCol]
	for _, m := range pos.LegalMoves(board.Black) {
		key ^= z.table[m.Index()%board.NumSquares][blackCol]
	}
	for _, m := range pos.LegalMoves(board.Red) {
		key ^= z.table[m.Index()%board.NumSquares][redCol]
	}
	return key
}

func (z *Zobrist) cellHash(co board.CellOwner) uint64 {
	var key uint64
	for i := 0; i < board.NumSquares; i++ {
		col := emptyCol
		switch co.Owner(i/board.Dim, i%board.Dim) {
		case board.Black:
			col = blackCol
		case board.Red:
			col = redCol
		}
		key ^= z.table[i][col]
	}
	return key
}
