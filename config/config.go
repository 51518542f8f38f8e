// Package config loads the YAML configuration shared by the play, train and
// experiment commands. Values absent from a file keep their defaults.
package config

import (
	"os"
	"strings"

	"nrow/game"
	"nrow/meta"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	KindHuman = "human"
	KindMCTS  = "mcts"
	KindQ     = "q"
)

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Game       game.Config      `yaml:"game"`
	Players    PlayersConfig    `yaml:"players"`
	Train      TrainConfig      `yaml:"train"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PlayersConfig struct {
	X PlayerConfig `yaml:"x"`
	O PlayerConfig `yaml:"o"`
}

// PlayerConfig selects and tunes one player. Fields only apply to their kind.
type PlayerConfig struct {
	Kind          string  `yaml:"kind"`
	Iterations    int     `yaml:"iterations"`
	Exploration   float64 `yaml:"exploration"`
	FullExpansion bool    `yaml:"full_expansion"`
	Epsilon       float64 `yaml:"epsilon"`
	Table         string  `yaml:"table"`
	Seed          uint64  `yaml:"seed"`
}

type TrainConfig struct {
	Episodes int     `yaml:"episodes"`
	Alpha    float64 `yaml:"alpha"`
	Gamma    float64 `yaml:"gamma"`
	Epsilon  float64 `yaml:"epsilon"`
	Out      string  `yaml:"out"`
	Log      string  `yaml:"log"`
	Seed     uint64  `yaml:"seed"`
	Progress int     `yaml:"progress"`
}

type ExperimentConfig struct {
	Name     string           `yaml:"name"`
	Games    int              `yaml:"games"`
	Workers  int              `yaml:"workers"`
	Out      string           `yaml:"out"`
	Matchups [][]PlayerConfig `yaml:"matchups"`
}

func DefaultPlayer(kind string) PlayerConfig {
	return PlayerConfig{
		Kind:        kind,
		Iterations:  meta.MCTS_ITERATIONS,
		Exploration: meta.MCTS_EXPLORATION,
		Epsilon:     meta.Q_EPSILON,
		Table:       meta.TABLE_PATH,
	}
}

func Default() Config {
	return Config{
		Log:  LogConfig{Level: "info"},
		Game: game.Config{Size: 3},
		Players: PlayersConfig{
			X: DefaultPlayer(KindHuman),
			O: DefaultPlayer(KindMCTS),
		},
		Train: TrainConfig{
			Episodes: meta.TRAIN_EPISODES,
			Alpha:    meta.TRAIN_ALPHA,
			Gamma:    meta.TRAIN_GAMMA,
			Epsilon:  meta.TRAIN_EPSILON,
			Out:      meta.TABLE_PATH,
			Log:      meta.TRAIN_LOG_PATH,
			Progress: 1000,
		},
		Experiment: ExperimentConfig{
			Name:    "matchups",
			Games:   meta.EXPERIMENT_GAMES,
			Workers: meta.EXPERIMENT_WORKERS,
			Out:     meta.EXPERIMENT_DIR,
		},
	}
}

// UnmarshalYAML starts every player, including matchup entries, from the defaults.
func (p *PlayerConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain PlayerConfig
	cfg := plain(DefaultPlayer(p.Kind))
	if err := value.Decode(&cfg); err != nil {
		return err
	}
	*p = PlayerConfig(cfg)
	return nil
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "decode yaml")
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log level")
	}
	for _, p := range []PlayerConfig{c.Players.X, c.Players.O} {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for i, matchup := range c.Experiment.Matchups {
		if len(matchup) != 2 {
			return errors.Errorf("matchup %d needs exactly 2 players, got %d", i, len(matchup))
		}
		for _, p := range matchup {
			if err := p.Validate(); err != nil {
				return errors.Wrapf(err, "matchup %d", i)
			}
		}
	}
	return nil
}

func (p PlayerConfig) Validate() error {
	switch strings.ToLower(p.Kind) {
	case KindHuman, KindMCTS, KindQ:
	default:
		return errors.Errorf("unknown player kind %q", p.Kind)
	}
	if p.Iterations < 0 {
		return errors.Errorf("iterations must not be negative, got %d", p.Iterations)
	}
	if p.Exploration < 0 {
		return errors.Errorf("exploration must not be negative, got %v", p.Exploration)
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return errors.Errorf("epsilon must be within [0, 1], got %v", p.Epsilon)
	}
	return nil
}
