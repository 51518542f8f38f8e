package engine

import (
	"fmt"
	"time"

	"nrow/agent"
	"nrow/experiments/metrics"
	"nrow/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Option func(e *LocalEngine)

// WithRenderer prints the board before every move and the result at the end.
func WithRenderer(r *Renderer) Option {
	return func(e *LocalEngine) {
		e.renderer = r
	}
}

// WithState starts from state instead of an empty board.
func WithState(state *game.State) Option {
	return func(e *LocalEngine) {
		if state != nil {
			e.State = state
		}
	}
}

type LocalEngine struct {
	State    *game.State
	Agents   map[game.Mark]agent.Agent
	renderer *Renderer
}

// NewLocalEngine seats x and o at a new game.
func NewLocalEngine(config game.Config, x, o agent.Agent, options ...Option) *LocalEngine {
	if x == nil || o == nil {
		panic("need an agent for each mark")
	}

	e := &LocalEngine{
		State:  game.NewGameFromConfig(config),
		Agents: map[game.Mark]agent.Agent{game.X: x, game.O: o},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until the state is terminal.
func (e *LocalEngine) Run() (*game.State, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		GameID:         uuid.NewString(),
		StartingPlayer: e.State.ToMove().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("game %s: player %v is starting", gameMetric.GameID, e.State.ToMove())

	step := 1
	for !e.State.IsTerminal() {
		e.renderer.Board(e.State)

		player := e.State.ToMove()
		a := e.Agents[player]
		move, err := a.FindMove(e.State)
		if err != nil {
			return e.State, gameMetric, moveMetrics, fmt.Errorf("player %v at step %d: %w", player, step, err)
		}

		next, err := e.State.Apply(move)
		if err != nil {
			return e.State, gameMetric, moveMetrics, fmt.Errorf("player %v played %v: %w", player, move, err)
		}

		mm := metrics.MoveMetric{Step: step, Player: player.String(), Move: move.String()}
		if reporter, ok := a.(agent.MetricReporter); ok {
			mm.SearchMetric = reporter.LastMetric()
		}
		moveMetrics = append(moveMetrics, mm)

		log.Debug().Msgf("game %s step %d: player %v played %v", gameMetric.GameID, step, player, move)
		e.State = next
		step++
	}

	e.renderer.Board(e.State)
	e.renderer.Result(e.State)

	gameMetric.Winner = Result(e.State)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	log.Debug().Msgf("game %s over after %d moves: %s", gameMetric.GameID, gameMetric.TotalMoves, gameMetric.Winner)
	return e.State, gameMetric, moveMetrics, nil
}
