package qtable

import (
	"math"

	"nrow/game"

	"golang.org/x/exp/rand"
)

// Greedy returns the move with the highest stored value for state. Unseen
// actions are worth 0 and ties go to the earliest move in moves.
func Greedy(table Table, state *game.State, moves []game.Move) game.Move {
	row := table.Row(StateKey(state))
	best := moves[0]
	bestValue := math.Inf(-1)
	for _, move := range moves {
		if v := row[ActionKey(move)]; v > bestValue {
			bestValue = v
			best = move
		}
	}
	return best
}

// EpsilonGreedy explores with probability epsilon, otherwise plays Greedy.
func EpsilonGreedy(table Table, state *game.State, moves []game.Move, epsilon float64, rng *rand.Rand) game.Move {
	if rng.Float64() < epsilon {
		return moves[rng.Intn(len(moves))]
	}
	return Greedy(table, state, moves)
}
