package board

// Reader is the read-only view of a position that the evaluator, hasher
// and move orderer need.
type Reader interface {
	LegalMoves(s Side) []Move
	IsLegal(s Side, m Move) bool
	PieceCount(s Side) int
	EmptyCount() int
}

// Position is a Reader that can branch. Apply must not modify the receiver;
// it returns an independent position, or an error wrapping ErrIllegalMove.
type Position[P any] interface {
	Reader
	Apply(s Side, m Move) (P, error)
}

// CellOwner is implemented by positions that can report per-square
// ownership. Hashing and evaluation use it when available.
type CellOwner interface {
	Owner(row, col int) Side
}

var (
	_ Position[Board] = Board{}
	_ CellOwner       = Board{}
)

// MoverFor returns who actually moves next in b when s is nominally on
// turn: s itself, its opponent if s must pass, or Empty once the game is
// over.
func MoverFor(b Reader, s Side) Side {
	if len(b.LegalMoves(s)) > 0 {
		return s
	}
	if len(b.LegalMoves(s.Opponent())) > 0 {
		return s.Opponent()
	}
	return Empty
}
