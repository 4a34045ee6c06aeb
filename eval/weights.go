package eval

import "github.com/Sher110106/othello/board"

// Phase is the stage of the game, judged by empty squares.
type Phase int

const (
	Opening Phase = iota
	Midgame
	Endgame
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Midgame:
		return "midgame"
	}
	return "endgame"
}

// PhaseOf returns the phase for a position with the given number of empty
// squares.
func PhaseOf(empty int) Phase {
	switch {
	case empty > 48:
		return Opening
	case empty > 20:
		return Midgame
	}
	return Endgame
}

// Weights scale the evaluation terms. Each phase has a fixed set; they are
// never mutated.
type Weights struct {
	Position  float64
	Mobility  float64
	Corner    float64
	Stability float64
	Parity    float64
}

var phaseWeights = [...]Weights{
	Opening: {Position: 0.40, Mobility: 0.35, Corner: 0.15, Stability: 0.10, Parity: 0},
	Midgame: {Position: 0.25, Mobility: 0.25, Corner: 0.20, Stability: 0.20, Parity: 0.10},
	Endgame: {Position: 0.10, Mobility: 0.05, Corner: 0.15, Stability: 0.20, Parity: 0.50},
}

// WeightsFor selects the weights for a position with empty empty squares.
func WeightsFor(empty int) Weights {
	return phaseWeights[PhaseOf(empty)]
}

// PositionWeights is the static value of each square.
var PositionWeights = [board.Dim][board.Dim]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 1, 0, 0, 1, -2, 10},
	{5, -2, 0, -1, -1, 0, -2, 5},
	{5, -2, 0, -1, -1, 0, -2, 5},
	{10, -2, 1, 0, 0, 1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// SquareWeight is PositionWeights at the move's square.
func SquareWeight(m board.Move) int {
	return PositionWeights[m.Row][m.Col]
}
