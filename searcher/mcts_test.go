package searcher

import (
	"math"
	"testing"

	"nrow/game"
	"nrow/utils"

	"github.com/stretchr/testify/require"
)

/*
- selection: descend while non-terminal with children, max UCT, first child on ties
- expansion: one child for the first untried move, none at terminal nodes
- rollout: random playout to terminal, reward for the searching player
- backup: same reward and one visit up to the root
- final move: most visited root child, random legal move after zero iterations
*/

func play(t *testing.T, state *game.State, moves ...game.Move) *game.State {
	t.Helper()
	for _, move := range moves {
		next, err := state.Apply(move)
		require.NoError(t, err, "move %v", move)
		state = next
	}
	return state
}

func TestFindNextMove(t *testing.T) {
	t.Run("returns an available move on non-terminal states", func(t *testing.T) {
		rng := utils.NewRand(7)
		for _, cfg := range []game.Config{{Size: 3, K: 3}, {Size: 4, K: 3}, {Size: 5, K: 4}} {
			state := game.NewGameFromConfig(cfg)
			for !state.IsTerminal() {
				m := NewMCTS(WithIterations(50), WithRand(rng))
				move, err := m.FindNextMove(state, state.ToMove())
				require.NoError(t, err)
				require.Contains(t, state.AvailableMoves(), move, "config %+v", cfg)
				state = play(t, state, move)
			}
		}
	})

	t.Run("zero iterations falls back to a random legal move", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3), game.Move{Row: 1, Col: 1})
		m := NewMCTS(WithIterations(0), WithSeed(3))

		move, err := m.FindNextMove(state, game.O)

		require.NoError(t, err)
		require.Contains(t, state.AvailableMoves(), move)
	})

	t.Run("terminal state has no legal move", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3),
			game.Move{Row: 0, Col: 0}, game.Move{Row: 1, Col: 0},
			game.Move{Row: 0, Col: 1}, game.Move{Row: 1, Col: 1},
			game.Move{Row: 0, Col: 2})
		m := NewMCTS(WithSeed(1))

		_, err := m.FindNextMove(state, game.O)

		require.ErrorIs(t, err, game.ErrNoLegalMove)
	})

	t.Run("fully expanding search takes an immediate win", func(t *testing.T) {
		// X X .
		// O O .
		// . . .
		state := play(t, game.NewGame(3, 3),
			game.Move{Row: 0, Col: 0}, game.Move{Row: 1, Col: 0},
			game.Move{Row: 0, Col: 1}, game.Move{Row: 1, Col: 1})
		m := NewMCTS(WithFullExpansion(), WithIterations(2000), WithSeed(11))

		move, err := m.FindNextMove(state, game.X)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
	})

	t.Run("same seed gives the same search", func(t *testing.T) {
		state := game.NewGame(4, 3)
		edges1, _, err := NewMCTS(WithFullExpansion(), WithIterations(300), WithSeed(42)).Simulate(state, game.X)
		require.NoError(t, err)
		edges2, _, err := NewMCTS(WithFullExpansion(), WithIterations(300), WithSeed(42)).Simulate(state, game.X)
		require.NoError(t, err)

		require.Equal(t, edges1, edges2)
	})
}

func TestSimulate(t *testing.T) {
	t.Run("default selection descends through partially expanded nodes", func(t *testing.T) {
		state := game.NewGame(3, 3)
		m := NewMCTS(WithIterations(100), WithSeed(5), WithMetrics())

		edges, metric, err := m.Simulate(state, game.X)

		require.NoError(t, err)
		require.Len(t, edges, 1, "Root should only expand its first move")
		require.Equal(t, game.Move{Row: 0, Col: 0}, edges[0].Move)
		require.Equal(t, 100, edges[0].Visits, "Every iteration should back up through the only child")
		require.Equal(t, 100, metric.Episodes)
		require.Equal(t, 100, metric.Iterations)
		require.Greater(t, metric.TreeSize, 1)
	})

	t.Run("full expansion tries every root move", func(t *testing.T) {
		state := game.NewGame(3, 3)
		m := NewMCTS(WithIterations(200), WithSeed(5), WithFullExpansion())

		edges, _, err := m.Simulate(state, game.X)

		require.NoError(t, err)
		require.Len(t, edges, 9)
		total := 0
		for i, edge := range edges {
			require.Equal(t, state.AvailableMoves()[i], edge.Move, "Children should follow board-scan order")
			total += edge.Visits
		}
		require.Equal(t, 200, total)
	})
}

func TestTree(t *testing.T) {
	t.Run("expansion adds the first untried move", func(t *testing.T) {
		tr := newTree(game.NewGame(3, 3))

		first := tr.expand(0)
		second := tr.expand(0)

		require.Equal(t, []int{first, second}, tr.nodes[0].children)
		require.Equal(t, 0, tr.nodes[first].parent)
		_, ok := tr.nodes[second].state.At(game.Move{Row: 0, Col: 1})
		require.True(t, ok, "Second child should play the second move in scan order")
	})

	t.Run("terminal node is not expanded", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3),
			game.Move{Row: 0, Col: 0}, game.Move{Row: 1, Col: 0},
			game.Move{Row: 0, Col: 1}, game.Move{Row: 1, Col: 1},
			game.Move{Row: 0, Col: 2})
		tr := newTree(state)

		require.Equal(t, 0, tr.expand(0))
		require.Equal(t, 1, tr.size())
	})

	t.Run("selection prefers unvisited children then first on ties", func(t *testing.T) {
		tr := newTree(game.NewGame(3, 3))
		a := tr.expand(0)
		b := tr.expand(0)
		tr.backup(a, 1)

		require.Equal(t, b, tr.pickChild(0, DefaultExploration), "Unvisited child should score +Inf")

		tr.backup(b, 1)
		require.Equal(t, a, tr.pickChild(0, DefaultExploration), "Equal scores should keep the first child")
	})

	t.Run("backup adds the same reward up to the root", func(t *testing.T) {
		tr := newTree(game.NewGame(3, 3))
		child := tr.expand(0)
		grandChild := tr.expand(child)

		tr.backup(grandChild, -1)

		for _, id := range []int{grandChild, child, 0} {
			require.Equal(t, 1, tr.nodes[id].visits)
			require.Equal(t, -1.0, tr.nodes[id].rewards)
		}
	})
}

func TestUCB1(t *testing.T) {
	require.True(t, math.IsInf(ucb1(0, 0, 1), 1))
	require.InDelta(t, 0.5+1.4*math.Sqrt(math.Log(10)/4), ucb1(2, 4, normalizer(1.4, 10)), 1e-12)
	require.Panics(t, func() { normalizer(1.4, 0) })
}
