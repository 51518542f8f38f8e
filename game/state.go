package game

// State should be immutable - Apply always returns a new copy, so search trees
// can keep references to ancestor states.
type State struct {
	board  *Board
	toMove Mark
	config Config
}

// NewGame returns the initial state of a size x size game with X to move.
// A zero k means the whole row must be filled to win.
func NewGame(size, k int) *State {
	return NewGameFromConfig(Config{Size: size, K: k})
}

func NewGameFromConfig(config Config) *State {
	return &State{
		board:  NewBoard(config.Size),
		toMove: X,
		config: config,
	}
}

func (s *State) ToMove() Mark {
	return s.toMove
}

func (s *State) Config() Config {
	return s.config
}

// Board returns a copy of the board.
func (s *State) Board() *Board {
	return s.board.Copy()
}

func (s *State) AvailableMoves() []Move {
	return s.board.AvailableMoves()
}

// At reports the mark at move, or false if the cell is empty.
func (s *State) At(move Move) (Mark, bool) {
	return s.board.At(move)
}

// Apply places the mark to move on a copy of the board and passes the turn.
// The receiver is left untouched, also on error.
func (s *State) Apply(move Move) (*State, error) {
	board := s.board.Copy()
	if err := board.Place(move, s.toMove); err != nil {
		return nil, err
	}
	return &State{
		board:  board,
		toMove: s.toMove.Other(),
		config: s.config,
	}, nil
}

func (s *State) Winner() (Mark, bool) {
	return s.board.Winner(s.config.WinLength())
}

func (s *State) IsTerminal() bool {
	if _, ok := s.Winner(); ok {
		return true
	}
	return s.board.IsFull()
}

// RewardFor scores the position for mark: 1 for a win, -1 for a loss, 0 otherwise.
// Callers check IsTerminal before treating it as a final outcome.
func (s *State) RewardFor(mark Mark) float64 {
	winner, ok := s.Winner()
	if !ok {
		return 0
	}
	if winner == mark {
		return 1
	}
	return -1
}

func (s *State) String() string {
	return s.board.String()
}
