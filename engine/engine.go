package engine

import (
	"nrow/experiments/metrics"
	"nrow/game"
)

type Engine interface {
	// Run plays a game till a terminal state and returns it with the game and per-move metrics
	Run() (final *game.State, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Result formats the outcome of a terminal state as "X", "O" or "DRAW".
func Result(state *game.State) string {
	if winner, ok := state.Winner(); ok {
		return winner.String()
	}
	return metrics.Draw
}
