// Package experiments pits configured players against each other over many
// games and stores the per-game and per-move records as CSV.
package experiments

import (
	"context"
	"sort"
	"sync"

	"nrow/agent"
	"nrow/config"
	"nrow/engine"
	"nrow/experiments/metrics"
	"nrow/game"
	"nrow/qtable"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Tally counts results per mark over a matchup.
type Tally struct {
	X, O, Draws int
}

func (t *Tally) add(result string) {
	switch result {
	case game.X.String():
		t.X++
	case game.O.String():
		t.O++
	default:
		t.Draws++
	}
}

type Result struct {
	Dir     string
	Tallies []Tally // Per matchup
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
}

type task struct {
	id      int // GameRecord.ID
	matchup int
	game    int
}

type outcome struct {
	task
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
	err         error
}

// Run plays cfg.Experiment.Games games for every matchup, the first player
// of a matchup always playing X, and writes the records under
// cfg.Experiment.Out.
func Run(ctx context.Context, cfg config.Config) (Result, error) {
	exp := cfg.Experiment
	if len(exp.Matchups) == 0 {
		return Result{}, errors.New("no matchups configured")
	}
	if exp.Games < 1 {
		return Result{}, errors.Errorf("games per matchup must be positive, got %d", exp.Games)
	}
	workers := exp.Workers
	if workers < 1 {
		workers = 1
	}

	configs, err := agentConfigs(exp.Matchups)
	if err != nil {
		return Result{}, err
	}
	tables, err := loadTables(ctx, configs)
	if err != nil {
		return Result{}, err
	}

	log.Info().Msgf("starting %s experiment: %d matchups, %d games each, %d workers", exp.Name, len(exp.Matchups), exp.Games, workers)

	tasks := make(chan task)
	outcomes := make(chan outcome)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				x := configs[2*t.matchup]
				o := configs[2*t.matchup+1]
				gm, mm, err := runGame(ctx, cfg.Game, x, o, tables, uint64(t.game))
				outcomes <- outcome{task: t, gameMetric: gm, moveMetrics: mm, err: err}
			}
		}()
	}

	go func() {
		defer close(tasks)
		id := 0
		for mi := range exp.Matchups {
			for g := 0; g < exp.Games; g++ {
				id++
				select {
				case tasks <- task{id: id, matchup: mi, game: g}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := Result{Tallies: make([]Tally, len(exp.Matchups))}
	total := len(exp.Matchups) * exp.Games
	var firstErr error
	for out := range outcomes {
		if out.err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(out.err, "matchup %d game %d", out.matchup+1, out.game+1)
			}
			continue
		}
		result.Tallies[out.matchup].add(out.gameMetric.Winner)
		result.Games = append(result.Games, metrics.GameRecord{
			ID:         out.id,
			Agent1:     configs[2*out.matchup].ID,
			Agent2:     configs[2*out.matchup+1].ID,
			GameMetric: out.gameMetric,
		})
		for _, mm := range out.moveMetrics {
			result.Moves = append(result.Moves, metrics.MoveRecord{Game: out.id, MoveMetric: mm})
		}
		log.Debug().Msgf("completed game %d of %d: matchup %d winner %s", len(result.Games), total, out.matchup+1, out.gameMetric.Winner)
	}
	if firstErr != nil {
		return result, firstErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	sortRecords(&result)
	for mi, t := range result.Tallies {
		log.Info().Msgf("matchup %d (%s vs %s): X=%d O=%d draws=%d", mi+1,
			configs[2*mi].Kind, configs[2*mi+1].Kind, t.X, t.O, t.Draws)
	}

	writer, err := metrics.NewWriter(exp.Out, exp.Name, uuid.NewString())
	if err != nil {
		return result, errors.Wrap(err, "create experiment writer")
	}
	result.Dir = writer.Dir()
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return result, errors.Wrap(err, "store agent configs")
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return result, errors.Wrap(err, "store game records")
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return result, errors.Wrap(err, "store move records")
	}
	log.Info().Msgf("completed %s experiment, records in %s", exp.Name, result.Dir)
	return result, nil
}

// agentConfigs numbers matchup players 1, 2, ... in matchup order.
func agentConfigs(matchups [][]config.PlayerConfig) ([]metrics.AgentConfig, error) {
	configs := make([]metrics.AgentConfig, 0, 2*len(matchups))
	for mi, matchup := range matchups {
		if len(matchup) != 2 {
			return nil, errors.Errorf("matchup %d needs exactly 2 players, got %d", mi+1, len(matchup))
		}
		for _, p := range matchup {
			if p.Kind == config.KindHuman {
				return nil, errors.Errorf("matchup %d: human players cannot join experiments", mi+1)
			}
			configs = append(configs, metrics.AgentConfig{ID: len(configs) + 1, PlayerConfig: p})
		}
	}
	return configs, nil
}

// loadTables reads every value table once. Agents share them read-only.
func loadTables(ctx context.Context, configs []metrics.AgentConfig) (map[string]qtable.Table, error) {
	tables := map[string]qtable.Table{}
	for _, c := range configs {
		if c.Kind != config.KindQ {
			continue
		}
		if _, ok := tables[c.Table]; ok {
			continue
		}
		store, err := qtable.OpenStore(c.Table)
		if err != nil {
			return nil, err
		}
		table, err := store.Load(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "load value table %s", c.Table)
		}
		tables[c.Table] = table
	}
	return tables, nil
}

// runGame plays one game. Seeded players are offset by the game number so
// repeated games differ but stay reproducible.
func runGame(ctx context.Context, cfg game.Config, x, o metrics.AgentConfig, tables map[string]qtable.Table, offset uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := make([]agent.Agent, 2)
	for i, c := range []metrics.AgentConfig{x, o} {
		pc := c.PlayerConfig
		if pc.Seed != 0 {
			pc.Seed += offset
		}
		a, err := agent.New(ctx, []game.Mark{game.X, game.O}[i], pc, agent.WithTable(tables[pc.Table]), agent.WithSearchMetrics())
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}
		agents[i] = a
	}

	e := engine.NewLocalEngine(cfg, agents[0], agents[1])
	_, gameMetric, moveMetrics, err := e.Run()
	return gameMetric, moveMetrics, err
}

// sortRecords restores scheduling order, which workers finish out of.
func sortRecords(r *Result) {
	sort.Slice(r.Games, func(i, j int) bool { return r.Games[i].ID < r.Games[j].ID })
	sort.SliceStable(r.Moves, func(i, j int) bool {
		if r.Moves[i].Game != r.Moves[j].Game {
			return r.Moves[i].Game < r.Moves[j].Game
		}
		return r.Moves[i].Step < r.Moves[j].Step
	})
}
