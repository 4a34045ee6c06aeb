package board

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func TestStartPosition(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.Equal(b.PieceCount(Black), 2)
	is.Equal(b.PieceCount(Red), 2)
	is.Equal(b.EmptyCount(), 60)
	is.Equal(b.Owner(3, 3), Red)
	is.Equal(b.Owner(3, 4), Black)
	is.Equal(b.Owner(0, 0), Empty)

	moves := b.LegalMoves(Black)
	is.Equal(len(moves), 4)
	names := []string{}
	for _, m := range moves {
		names = append(names, m.String())
	}
	is.Equal(names, []string{"d3", "c4", "f5", "e6"})
	is.Equal(b.MoveCount(Red), 4)
	is.True(!b.GameOver())
}

func TestApply(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	m, err := ParseMove("d3")
	is.NoErr(err)
	nb, err := b.Apply(Black, m)
	is.NoErr(err)
	is.Equal(nb.PieceCount(Black), 4)
	is.Equal(nb.PieceCount(Red), 1)
	is.Equal(nb.Owner(3, 3), Black)
	// the receiver is untouched
	is.Equal(b.PieceCount(Black), 2)
	is.Equal(b, NewBoard())
}

func TestApplyIllegal(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	for _, m := range []Move{{0, 0}, {3, 3}, {2, 2}, {8, 0}, {-1, 4}} {
		_, err := b.Apply(Black, m)
		is.True(errors.Is(err, ErrIllegalMove))
		is.True(!b.IsLegal(Black, m))
	}
	_, err := b.Apply(Empty, Move{2, 3})
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestNoWrapAround(t *testing.T) {
	is := is.New(t)
	b, err := Parse(`
		......XO
		........
		........
		........
		........
		........
		........
		........`)
	is.NoErr(err)
	is.Equal(len(b.LegalMoves(Black)), 0)
	moves := b.LegalMoves(Red)
	is.Equal(len(moves), 1)
	is.Equal(moves[0].String(), "f1")
}

func TestParseRoundTrip(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	pb, err := Parse(b.String())
	is.NoErr(err)
	is.Equal(pb, b)

	_, err = Parse("XO")
	is.True(errors.Is(err, ErrBadPosition))
	_, err = Parse(b.String() + "X")
	is.True(errors.Is(err, ErrBadPosition))
	_, err = Parse("Z" + b.String()[1:])
	is.True(errors.Is(err, ErrBadPosition))
}

func TestIsCellText(t *testing.T) {
	is := is.New(t)
	is.True(IsCellText("--------"))
	is.True(IsCellText("...XO..."))
	is.True(IsCellText("bBrR-x"))
	is.True(!IsCellText(""))
	is.True(!IsCellText("-side"))
	is.True(!IsCellText("-depth"))
	is.True(!IsCellText("XO .."))

	rows := []string{"--------", "--------", "--------", "---OX---",
		"---XO---", "--------", "--------", "--------"}
	pb, err := Parse(strings.Join(rows, ""))
	is.NoErr(err)
	is.Equal(pb, NewBoard())
}

func TestGameOverAndWinner(t *testing.T) {
	is := is.New(t)
	var empty Board
	is.True(empty.GameOver())
	is.Equal(empty.Winner(), Empty)

	b, err := Parse(strings.Repeat("X", NumSquares-1) + ".")
	is.NoErr(err)
	is.True(b.GameOver())
	is.Equal(b.Winner(), Black)
	is.Equal(MoverFor(b, Black), Empty)
}

func TestMoverFor(t *testing.T) {
	is := is.New(t)
	b, err := Parse(`
		......XO
		........
		........
		........
		........
		........
		........
		........`)
	is.NoErr(err)
	is.Equal(MoverFor(b, Black), Red)
	is.Equal(MoverFor(b, Red), Red)
}

func TestMoveSquareClasses(t *testing.T) {
	is := is.New(t)
	corners, xs, cs, edges := 0, 0, 0, 0
	for r := int8(0); r < Dim; r++ {
		for c := int8(0); c < Dim; c++ {
			m := Move{r, c}
			if m.IsCorner() {
				corners++
			}
			if m.IsXSquare() {
				xs++
			}
			if m.IsCSquare() {
				cs++
			}
			if m.IsEdge() {
				edges++
			}
		}
	}
	is.Equal(corners, 4)
	is.Equal(xs, 4)
	is.Equal(cs, 8)
	is.Equal(edges, 28)
	is.True(Move{0, 1}.IsCSquare())
	is.True(Move{6, 6}.IsXSquare())
}

func TestParseMove(t *testing.T) {
	is := is.New(t)
	m, err := ParseMove("H8")
	is.NoErr(err)
	is.Equal(m, Move{7, 7})
	_, err = ParseMove("i1")
	is.True(err != nil)
	_, err = ParseMove("a")
	is.True(err != nil)
}

// Random games must keep the disc total consistent and only ever offer
// moves that apply cleanly.
func TestRandomGames(t *testing.T) {
	is := is.New(t)
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], 7)
	rng := frand.NewCustom(seed[:], 1024, 12)
	for g := 0; g < 50; g++ {
		b := NewBoard()
		side := Black
		for {
			mover := MoverFor(b, side)
			if mover == Empty {
				break
			}
			moves := b.LegalMoves(mover)
			for _, m := range moves {
				is.True(b.IsLegal(mover, m))
			}
			before := b.PieceCount(mover)
			nb, err := b.Apply(mover, moves[rng.Intn(len(moves))])
			is.NoErr(err)
			is.True(nb.PieceCount(mover) >= before+2)
			is.Equal(nb.PieceCount(Black)+nb.PieceCount(Red)+nb.EmptyCount(), NumSquares)
			is.Equal(nb.EmptyCount(), b.EmptyCount()-1)
			b = nb
			side = mover.Opponent()
		}
		is.True(b.GameOver())
	}
}
