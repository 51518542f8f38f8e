package agent

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"nrow/config"
	"nrow/experiments/metrics"
	"nrow/game"
	"nrow/qtable"
	"nrow/searcher"
	"nrow/utils"

	"github.com/pkg/errors"
)

var ErrUnsupportedConfig = errors.New("unsupported game config")

var (
	stdinOnce    sync.Once
	stdinScanner *bufio.Scanner
)

func stdin() *bufio.Scanner {
	stdinOnce.Do(func() { stdinScanner = bufio.NewScanner(os.Stdin) })
	return stdinScanner
}

type Agent interface {
	// FindMove returns the move to play in state. It never mutates state.
	FindMove(state *game.State) (game.Move, error)
}

// MetricReporter is implemented by agents that search before moving.
type MetricReporter interface {
	LastMetric() metrics.SearchMetric
}

type Option func(o *options)

type options struct {
	in      *bufio.Scanner
	out     io.Writer
	table   qtable.Table
	metrics bool
}

// WithIO sets where a human player reads moves and writes prompts. Agents
// built with the same option share one reader.
func WithIO(in io.Reader, out io.Writer) Option {
	scanner := bufio.NewScanner(in)
	return func(o *options) {
		o.in = scanner
		o.out = out
	}
}

// WithTable shares an already loaded value table instead of reading the
// configured one. The table is only read by agents.
func WithTable(table qtable.Table) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithSearchMetrics makes searching agents collect per-move metrics.
func WithSearchMetrics() Option {
	return func(o *options) {
		o.metrics = true
	}
}

// New builds the player kind named by cfg for mark.
func New(ctx context.Context, mark game.Mark, cfg config.PlayerConfig, opts ...Option) (Agent, error) {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.in == nil {
		o.in = stdin()
	}

	switch strings.ToLower(cfg.Kind) {
	case config.KindHuman:
		return newHuman(mark, o.in, o.out), nil

	case config.KindMCTS:
		mctsOpts := []searcher.Option{
			searcher.WithIterations(cfg.Iterations),
			searcher.WithExploration(cfg.Exploration),
			searcher.WithRand(utils.NewRand(cfg.Seed)),
		}
		if cfg.FullExpansion {
			mctsOpts = append(mctsOpts, searcher.WithFullExpansion())
		}
		if o.metrics {
			mctsOpts = append(mctsOpts, searcher.WithMetrics())
		}
		return NewMCTS(mark, searcher.NewMCTS(mctsOpts...)), nil

	case config.KindQ:
		table := o.table
		if table == nil {
			store, err := qtable.OpenStore(cfg.Table)
			if err != nil {
				return nil, err
			}
			table, err = store.Load(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "load value table")
			}
		}
		return NewQLearning(mark, table, WithEpsilon(cfg.Epsilon), WithSeed(cfg.Seed)), nil
	}

	return nil, errors.Errorf("unknown player kind %q", cfg.Kind)
}
