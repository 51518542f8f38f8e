// meta/meta.go
package meta

// MCTS_ITERATIONS defines the number of search iterations per move.
const MCTS_ITERATIONS = 800

// MCTS_EXPLORATION defines the UCT exploration constant c.
const MCTS_EXPLORATION = 1.4

// Q_EPSILON defines the exploration rate of the Q-learning player.
const Q_EPSILON = 0.05

// Self-play training hyperparameters.
const (
	TRAIN_EPISODES = 30000
	TRAIN_ALPHA    = 0.2
	TRAIN_GAMMA    = 0.95
	TRAIN_EPSILON  = 0.2
)

// TABLE_PATH defines where the value table is written and read by default.
const TABLE_PATH = "data/q_table.json"

// TRAIN_LOG_PATH defines the default self-play episode log.
const TRAIN_LOG_PATH = "data/q_learning_selfplay.csv"

// Experiment defaults.
const (
	EXPERIMENT_GAMES   = 20 // Per matchup
	EXPERIMENT_WORKERS = 4
	EXPERIMENT_DIR     = "experiments"
)
