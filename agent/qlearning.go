package agent

import (
	"fmt"

	"nrow/game"
	"nrow/meta"
	"nrow/qtable"
	"nrow/utils"

	"golang.org/x/exp/rand"
)

type QOption func(a *qAgent)

func WithEpsilon(epsilon float64) QOption {
	return func(a *qAgent) {
		if epsilon >= 0 && epsilon <= 1 {
			a.epsilon = epsilon
		}
	}
}

func WithSeed(seed uint64) QOption {
	return func(a *qAgent) {
		a.rng = utils.NewRand(seed)
	}
}

func WithRand(rng *rand.Rand) QOption {
	return func(a *qAgent) {
		if rng != nil {
			a.rng = rng
		}
	}
}

type qAgent struct {
	mark    game.Mark
	table   qtable.Table
	epsilon float64
	rng     *rand.Rand
}

// NewQLearning returns an epsilon-greedy player over a trained value table.
func NewQLearning(mark game.Mark, table qtable.Table, options ...QOption) Agent {
	a := &qAgent{
		mark:    mark,
		table:   table,
		epsilon: meta.Q_EPSILON,
	}
	for _, option := range options {
		option(a)
	}
	if a.table == nil {
		a.table = qtable.New()
	}
	if a.rng == nil {
		a.rng = utils.NewRand(0)
	}
	return a
}

func (a *qAgent) FindMove(state *game.State) (game.Move, error) {
	cfg := state.Config()
	if cfg.Size != qtable.TrainedSize || cfg.WinLength() != qtable.TrainedK {
		return game.Move{}, fmt.Errorf("%w: value table only covers %dx%d with k=%d, got %dx%d with k=%d",
			ErrUnsupportedConfig, qtable.TrainedSize, qtable.TrainedSize, qtable.TrainedK, cfg.Size, cfg.Size, cfg.WinLength())
	}

	moves := state.AvailableMoves()
	if len(moves) == 0 {
		return game.Move{}, game.ErrNoLegalMove
	}
	return qtable.EpsilonGreedy(a.table, state, moves, a.epsilon, a.rng), nil
}
