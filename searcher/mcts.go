package searcher

import (
	"fmt"

	"nrow/experiments/metrics"
	"nrow/game"
	"nrow/utils"

	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS runs a fresh UCT search per decision. It owns its random source and is
// not safe for concurrent use.
type MCTS struct {
	iterations    int
	exploration   float64
	fullExpansion bool
	rng           *rand.Rand
	metrics       metrics.Collector
	last          metrics.SearchMetric
}

// WithIterations sets the number of search iterations. Zero is allowed and
// makes FindNextMove fall back to a random legal move.
func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations >= 0 {
			m.iterations = iterations
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

// WithFullExpansion only lets selection descend through nodes whose moves
// all have children, as in textbook UCT.
func WithFullExpansion() Option {
	return func(m *MCTS) {
		m.fullExpansion = true
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = utils.NewRand(seed)
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		iterations:  DefaultIterations,
		exploration: DefaultExploration,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = utils.NewRand(0)
	}
	return m
}

// FindNextMove returns the most visited root move, scoring rollouts for player.
func (m *MCTS) FindNextMove(state *game.State, player game.Mark) (game.Move, error) {
	edges, _, err := m.Simulate(state, player)
	if err != nil {
		return game.Move{}, err
	}

	best := -1
	maxVisits := -1
	for i, edge := range edges {
		if edge.Visits > maxVisits {
			maxVisits = edge.Visits
			best = i
		}
	}
	if best == -1 { // No iterations were run
		moves := state.AvailableMoves()
		return moves[m.rng.Intn(len(moves))], nil
	}
	return edges[best].Move, nil
}

// Simulate builds a tree for state and returns the root children statistics
// in insertion order.
func (m *MCTS) Simulate(state *game.State, player game.Mark) ([]Edge, metrics.SearchMetric, error) {
	if state.IsTerminal() || len(state.AvailableMoves()) == 0 {
		return nil, metrics.SearchMetric{}, fmt.Errorf("%w: state is terminal", game.ErrNoLegalMove)
	}

	t := newTree(state)
	m.metrics.Start(m.iterations, m.exploration)
	for i := 0; i < m.iterations; i++ {
		m.simulate(t, player)
		m.metrics.AddEpisode()
	}
	m.metrics.SetTreeSize(t.size())
	m.last = m.metrics.Complete()

	return t.edges(), m.last, nil
}

// LastMetric returns the metrics of the latest search. They are zero unless
// the searcher was built WithMetrics.
func (m *MCTS) LastMetric() metrics.SearchMetric {
	return m.last
}

func (m *MCTS) simulate(t *tree, player game.Mark) {
	newNode := selectThenExpand(t, m.exploration, m.fullExpansion)
	reward := rollout(t.nodes[newNode].state, player, m.rng, m.metrics)
	t.backup(newNode, reward)
}

func selectThenExpand(t *tree, exploration float64, fullExpansion bool) int {
	leaf := t.selectLeaf(exploration, fullExpansion)
	return t.expand(leaf)
}

func rollout(state *game.State, player game.Mark, rng *rand.Rand, metrics metrics.Collector) float64 {
	if !state.IsTerminal() {
		metrics.AddFullPlayout()
	}
	for !state.IsTerminal() {
		moves := state.AvailableMoves()
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		next, err := state.Apply(move)
		if err != nil {
			panic("rollout played an illegal move: " + err.Error())
		}
		state = next
	}
	return state.RewardFor(player)
}
