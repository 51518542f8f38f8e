package agent

import (
	"nrow/experiments/metrics"
	"nrow/game"
	"nrow/searcher"
)

type mctsAgent struct {
	mark game.Mark
	mcts *searcher.MCTS
}

// NewMCTS returns an agent that searches a fresh tree per move and scores
// rollouts for mark.
func NewMCTS(mark game.Mark, mcts *searcher.MCTS) Agent {
	return &mctsAgent{mark: mark, mcts: mcts}
}

func (a *mctsAgent) FindMove(state *game.State) (game.Move, error) {
	return a.mcts.FindNextMove(state, a.mark)
}

func (a *mctsAgent) LastMetric() metrics.SearchMetric {
	return a.mcts.LastMetric()
}
