package search

import (
	"fmt"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/testhelpers"
)

// treeNode is a synthetic game tree. Only the node's mover has moves; a
// child whose mover is the same side as its parent's models a pass.
type treeNode struct {
	id       int
	mover    board.Side
	value    int // static value from Black's point of view
	children []*treeNode
	broken   map[int]bool
}

func (n *treeNode) LegalMoves(s board.Side) []board.Move {
	if s != n.mover {
		return nil
	}
	moves := make([]board.Move, len(n.children))
	for i := range n.children {
		moves[i] = board.Move{Row: 0, Col: int8(i)}
	}
	return moves
}

func (n *treeNode) IsLegal(s board.Side, m board.Move) bool {
	return s == n.mover && m.Row == 0 && m.Col >= 0 && int(m.Col) < len(n.children)
}

func (n *treeNode) PieceCount(board.Side) int { return 0 }

func (n *treeNode) EmptyCount() int { return 40 }

func (n *treeNode) Apply(s board.Side, m board.Move) (*treeNode, error) {
	if !n.IsLegal(s, m) || n.broken[int(m.Col)] {
		return nil, fmt.Errorf("%w: %s at node %d", board.ErrIllegalMove, m, n.id)
	}
	return n.children[m.Col], nil
}

func treeEval(pos board.Reader, perspective board.Side) int {
	n := pos.(*treeNode)
	if perspective == board.Black {
		return n.value
	}
	return -n.value
}

type idHasher struct{}

func (idHasher) Hash(pos board.Reader) uint64 {
	return uint64(pos.(*treeNode).id)
}

// constHasher sends every node to the same table slot.
type constHasher struct{}

func (constHasher) Hash(board.Reader) uint64 { return 42 }

type treeBuilder struct {
	rng    *frand.RNG
	nextID int
}

func (tb *treeBuilder) build(mover board.Side, depth int) *treeNode {
	n := &treeNode{
		id:     tb.nextID,
		mover:  mover,
		value:  tb.rng.Intn(201) - 100,
		broken: map[int]bool{},
	}
	tb.nextID++
	if depth == 0 {
		return n
	}
	nchildren := tb.rng.Intn(5)
	for i := 0; i < nchildren; i++ {
		next := mover.Opponent()
		if tb.rng.Intn(8) == 0 {
			next = mover
		}
		n.children = append(n.children, tb.build(next, depth-1))
		if tb.rng.Intn(10) == 0 {
			n.broken[i] = true
		}
	}
	return n
}

// minimax is the unpruned reference search, with the same pass and
// skipped-move rules as alphaBeta.
func minimax(n *treeNode, stm board.Side, depth int, perspective board.Side) int {
	if depth == 0 || len(n.children) == 0 {
		return treeEval(n, perspective)
	}
	if n.mover != stm {
		return minimax(n, n.mover, depth, perspective)
	}
	maximizing := stm == perspective
	best, found := 0, false
	for i, c := range n.children {
		if n.broken[i] {
			continue
		}
		v := minimax(c, stm.Opponent(), depth-1, perspective)
		if !found || (maximizing && v > best) || (!maximizing && v < best) {
			best, found = v, true
		}
	}
	if !found {
		return treeEval(n, perspective)
	}
	return best
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	is := is.New(t)
	tb := &treeBuilder{rng: testhelpers.Rng(99)}
	for _, hasher := range []Hasher{idHasher{}, constHasher{}} {
		e := NewEngine[*treeNode](WithTimeBudget(0), WithEvaluator(treeEval), WithHasher(hasher))
		for i := 0; i < 200; i++ {
			root := tb.build(board.Black, 6)
			for _, perspective := range []board.Side{board.Black, board.Red} {
				for _, depth := range []int{1, 3, 6} {
					e.reset()
					got := e.alphaBeta(root, root.mover, depth, -Infinity, Infinity, perspective)
					want := minimax(root, root.mover, depth, perspective)
					is.Equal(got, want)
				}
			}
		}
	}
}

func TestAlphaBetaPrunes(t *testing.T) {
	is := is.New(t)
	tb := &treeBuilder{rng: testhelpers.Rng(5)}
	var pruned, full uint64
	for i := 0; i < 50; i++ {
		root := tb.build(board.Black, 6)
		e := NewEngine[*treeNode](WithTimeBudget(0), WithEvaluator(treeEval), WithHasher(idHasher{}))
		e.reset()
		e.alphaBeta(root, root.mover, 6, -Infinity, Infinity, board.Black)
		pruned += e.nodes
		full += countNodes(root, root.mover, 6)
	}
	is.True(pruned < full)
}

func countNodes(n *treeNode, stm board.Side, depth int) uint64 {
	if depth == 0 || len(n.children) == 0 {
		return 1
	}
	if n.mover != stm {
		return 1 + countNodes(n, n.mover, depth)
	}
	total := uint64(1)
	for i, c := range n.children {
		if !n.broken[i] {
			total += countNodes(c, stm.Opponent(), depth-1)
		}
	}
	return total
}

func TestRootPicksMinimaxBest(t *testing.T) {
	is := is.New(t)
	tb := &treeBuilder{rng: testhelpers.Rng(2024)}
	e := NewEngine[*treeNode](WithTimeBudget(0), WithEvaluator(treeEval), WithHasher(idHasher{}))
	tested := 0
	for tested < 100 {
		root := tb.build(board.Red, 5)
		if len(root.children) < 2 {
			continue
		}
		tested++
		res := e.Search(root, board.Red)
		is.True(root.IsLegal(board.Red, res.Move))
		is.Equal(res.Reason, ReasonSearched)

		best := -Infinity
		for i, c := range root.children {
			if root.broken[i] {
				continue
			}
			best = max(best, minimax(c, board.Black, 7, board.Red))
		}
		if best == -Infinity {
			// every root move fails to apply; the engine still answers
			continue
		}
		is.True(!root.broken[int(res.Move.Col)])
		chosen := minimax(root.children[res.Move.Col], board.Black, 7, board.Red)
		is.Equal(chosen, best)
		is.Equal(res.Score, best)
	}
}

func TestOrderMovesSinksFailedApply(t *testing.T) {
	is := is.New(t)
	leaf := func(id int) *treeNode {
		return &treeNode{id: id, mover: board.Red, broken: map[int]bool{}}
	}
	n := &treeNode{
		id:       1,
		mover:    board.Black,
		children: []*treeNode{leaf(2), leaf(3), leaf(4), leaf(5)},
		broken:   map[int]bool{2: true},
	}
	moves := n.LegalMoves(board.Black)
	ordered := orderMoves(moves, n, board.Black)
	// corner, plain edge, C-square, then the edge move that cannot be applied
	is.Equal(ordered, []board.Move{{Row: 0, Col: 0}, {Row: 0, Col: 3}, {Row: 0, Col: 1}, {Row: 0, Col: 2}})
}
