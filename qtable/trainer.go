package qtable

import (
	"context"

	"nrow/experiments/metrics"
	"nrow/game"
	"nrow/meta"
	"nrow/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// The table is trained on (and only valid for) the classic game.
const (
	TrainedSize = 3
	TrainedK    = 3
)

type Params struct {
	Alpha   float64 `yaml:"alpha"`   // Learning rate
	Gamma   float64 `yaml:"gamma"`   // Discount
	Epsilon float64 `yaml:"epsilon"` // Exploration during self-play
}

func DefaultParams() Params {
	return Params{
		Alpha:   meta.TRAIN_ALPHA,
		Gamma:   meta.TRAIN_GAMMA,
		Epsilon: meta.TRAIN_EPSILON,
	}
}

type TrainerOption func(t *Trainer)

func WithTrainerRand(rng *rand.Rand) TrainerOption {
	return func(t *Trainer) {
		if rng != nil {
			t.rng = rng
		}
	}
}

func WithTrainerSeed(seed uint64) TrainerOption {
	return func(t *Trainer) {
		t.rng = utils.NewRand(seed)
	}
}

// WithInitialTable resumes training from an existing table.
func WithInitialTable(table Table) TrainerOption {
	return func(t *Trainer) {
		if table != nil {
			t.table = table
		}
	}
}

// WithProgress logs a summary every n episodes.
func WithProgress(every int) TrainerOption {
	return func(t *Trainer) {
		if every > 0 {
			t.progressEvery = every
		}
	}
}

// Trainer learns a Table by self-play. It is single-threaded.
type Trainer struct {
	params        Params
	table         Table
	rng           *rand.Rand
	progressEvery int
}

type step struct {
	state  string
	action string
	mover  game.Mark
}

func NewTrainer(params Params, options ...TrainerOption) *Trainer {
	t := &Trainer{
		params: params,
		table:  New(),
	}
	for _, option := range options {
		option(t)
	}
	if t.rng == nil {
		t.rng = utils.NewRand(0)
	}
	return t
}

func (t *Trainer) Table() Table {
	return t.table
}

// Train plays episodes self-play games and returns the table with one result
// per episode. On cancellation it returns what was learned so far with ctx.Err().
func (t *Trainer) Train(ctx context.Context, episodes int) (Table, []metrics.EpisodeRecord, error) {
	records := make([]metrics.EpisodeRecord, 0, episodes)
	wins := map[string]int{}

	log.Info().Msgf("training %d episodes with %+v", episodes, t.params)
	for ep := 0; ep < episodes; ep++ {
		select {
		case <-ctx.Done():
			log.Warn().Msgf("training stopped after %d episodes", ep)
			return t.table, records, ctx.Err()
		default:
		}

		history, final := t.playEpisode()
		t.update(history, final)

		result := metrics.Draw
		if winner, ok := final.Winner(); ok {
			result = winner.String()
		}
		wins[result]++
		records = append(records, metrics.EpisodeRecord{Episode: ep, Result: result})

		if t.progressEvery > 0 && (ep+1)%t.progressEvery == 0 {
			log.Info().Msgf("episode %d of %d: X=%d O=%d draws=%d states=%d",
				ep+1, episodes, wins["X"], wins["O"], wins[metrics.Draw], len(t.table))
		}
	}
	log.Info().Msgf("completed training with %d entries", t.table.Len())

	return t.table, records, nil
}

func (t *Trainer) playEpisode() ([]step, *game.State) {
	state := game.NewGame(TrainedSize, TrainedK)
	history := make([]step, 0, TrainedSize*TrainedSize)

	for !state.IsTerminal() {
		moves := state.AvailableMoves()
		move := EpsilonGreedy(t.table, state, moves, t.params.Epsilon, t.rng)
		history = append(history, step{
			state:  StateKey(state),
			action: ActionKey(move),
			mover:  state.ToMove(),
		})
		next, err := state.Apply(move)
		if err != nil {
			panic("self-play chose an illegal move: " + err.Error())
		}
		state = next
	}
	return history, state
}

// update credits the final outcome to every step. The next-state value is
// fixed at 0, so gamma never contributes.
func (t *Trainer) update(history []step, final *game.State) {
	const nextValue = 0.0
	for _, s := range history {
		reward := final.RewardFor(s.mover)
		old := t.table.Value(s.state, s.action)
		value := old + t.params.Alpha*(reward+t.params.Gamma*nextValue-old)
		t.table.Set(s.state, s.action, value)
	}
}
