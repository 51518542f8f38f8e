package searcher

import (
	"nrow/experiments/metrics"
	"nrow/game"
	"nrow/meta"
)

// Hyperparameters for MCTS
const (
	DefaultIterations  = meta.MCTS_ITERATIONS
	DefaultExploration = meta.MCTS_EXPLORATION
)

// Edge summarises a root child after a search.
type Edge struct {
	Move    game.Move
	Visits  int
	Rewards float64
}

type Searcher interface {
	FindNextMove(state *game.State, player game.Mark) (game.Move, error)
	Simulate(state *game.State, player game.Mark) ([]Edge, metrics.SearchMetric, error)
}
