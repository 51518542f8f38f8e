package agent

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"nrow/config"
	"nrow/game"
	"nrow/qtable"

	"github.com/stretchr/testify/require"
)

func play(t *testing.T, state *game.State, moves ...game.Move) *game.State {
	t.Helper()
	for _, move := range moves {
		next, err := state.Apply(move)
		require.NoError(t, err, "move %v", move)
		state = next
	}
	return state
}

func TestQLearning(t *testing.T) {
	t.Run("rejects boards the table was not trained on", func(t *testing.T) {
		a := NewQLearning(game.X, qtable.New())

		_, err := a.FindMove(game.NewGame(4, 4))
		require.ErrorIs(t, err, ErrUnsupportedConfig)

		_, err = a.FindMove(game.NewGame(4, 3))
		require.ErrorIs(t, err, ErrUnsupportedConfig)
	})

	t.Run("greedy picks the highest value", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3), game.Move{Row: 0, Col: 0})
		table := qtable.New()
		key := qtable.StateKey(state)
		table.Set(key, "1,1", 0.4)
		table.Set(key, "2,2", 0.7)
		table.Set(key, "0,1", -0.5)
		a := NewQLearning(game.O, table, WithEpsilon(0), WithSeed(1))

		move, err := a.FindMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 2}, move)
	})

	t.Run("unknown state breaks ties in scan order", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3), game.Move{Row: 0, Col: 0})
		a := NewQLearning(game.O, qtable.New(), WithEpsilon(0))

		move, err := a.FindMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 1}, move, "All moves are worth 0, first available wins")
	})

	t.Run("negative values lose to unseen moves", func(t *testing.T) {
		state := game.NewGame(3, 3)
		table := qtable.New()
		table.Set(qtable.StateKey(state), "0,0", -0.3)
		a := NewQLearning(game.X, table, WithEpsilon(0))

		move, err := a.FindMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 1}, move)
	})

	t.Run("full exploration still plays legal moves", func(t *testing.T) {
		a := NewQLearning(game.X, qtable.New(), WithEpsilon(1), WithSeed(9))
		state := game.NewGame(3, 3)
		for !state.IsTerminal() {
			move, err := a.FindMove(state)
			require.NoError(t, err)
			require.Contains(t, state.AvailableMoves(), move)
			state = play(t, state, move)
		}
	})

	t.Run("no legal moves", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3),
			game.Move{Row: 0, Col: 0}, game.Move{Row: 0, Col: 1}, game.Move{Row: 0, Col: 2},
			game.Move{Row: 1, Col: 1}, game.Move{Row: 1, Col: 0}, game.Move{Row: 1, Col: 2},
			game.Move{Row: 2, Col: 1}, game.Move{Row: 2, Col: 0}, game.Move{Row: 2, Col: 2})
		a := NewQLearning(game.X, qtable.New())

		_, err := a.FindMove(state)

		require.ErrorIs(t, err, game.ErrNoLegalMove)
	})
}

func TestHuman(t *testing.T) {
	t.Run("re-prompts until a legal move is entered", func(t *testing.T) {
		state := play(t, game.NewGame(3, 3), game.Move{Row: 1, Col: 1})
		in := strings.NewReader("hello\n1 x\n1 1\n5 5\n2 0\n")
		var out bytes.Buffer
		h := NewHuman(game.O, in, &out)

		move, err := h.FindMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 0}, move)
		require.Contains(t, out.String(), "Enter two ints: row col")
		require.Contains(t, out.String(), "Not ints")
		require.Equal(t, 2, strings.Count(out.String(), "Illegal move"))
	})

	t.Run("end of input", func(t *testing.T) {
		h := NewHuman(game.X, strings.NewReader(""), io.Discard)

		_, err := h.FindMove(game.NewGame(3, 3))

		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("mcts", func(t *testing.T) {
		cfg := config.DefaultPlayer(config.KindMCTS)
		cfg.Iterations = 20
		cfg.Seed = 3
		a, err := New(ctx, game.X, cfg, WithSearchMetrics())
		require.NoError(t, err)

		state := game.NewGame(3, 3)
		move, err := a.FindMove(state)

		require.NoError(t, err)
		require.Contains(t, state.AvailableMoves(), move)
		reporter, ok := a.(MetricReporter)
		require.True(t, ok, "MCTS agent should report search metrics")
		require.Equal(t, 20, reporter.LastMetric().Episodes)
	})

	t.Run("q loads its table from a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "q.json")
		table := qtable.New()
		table.Set(qtable.StateKey(game.NewGame(3, 3)), "2,1", 1)
		require.NoError(t, qtable.NewFileStore(path).Save(ctx, table))

		cfg := config.DefaultPlayer(config.KindQ)
		cfg.Table = path
		cfg.Epsilon = 0
		a, err := New(ctx, game.X, cfg)
		require.NoError(t, err)

		move, err := a.FindMove(game.NewGame(3, 3))
		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 1}, move)
	})

	t.Run("q with a missing table starts empty", func(t *testing.T) {
		cfg := config.DefaultPlayer(config.KindQ)
		cfg.Table = filepath.Join(t.TempDir(), "missing.json")

		a, err := New(ctx, game.O, cfg)

		require.NoError(t, err)
		require.NotNil(t, a)
	})

	t.Run("human", func(t *testing.T) {
		a, err := New(ctx, game.X, config.DefaultPlayer(config.KindHuman), WithIO(strings.NewReader("0 0\n"), io.Discard))
		require.NoError(t, err)

		move, err := a.FindMove(game.NewGame(3, 3))
		require.NoError(t, err)
		require.Equal(t, game.Move{}, move)
	})

	t.Run("humans at one console share input", func(t *testing.T) {
		console := WithIO(strings.NewReader("0 0\n1 1\n"), io.Discard)
		x, err := New(ctx, game.X, config.DefaultPlayer(config.KindHuman), console)
		require.NoError(t, err)
		o, err := New(ctx, game.O, config.DefaultPlayer(config.KindHuman), console)
		require.NoError(t, err)

		state := game.NewGame(3, 3)
		move, err := x.FindMove(state)
		require.NoError(t, err)
		state = play(t, state, move)
		move, err = o.FindMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 1, Col: 1}, move)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(ctx, game.X, config.PlayerConfig{Kind: "random"})
		require.ErrorContains(t, err, "unknown player kind")
	})
}
