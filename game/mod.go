package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds   = errors.New("move out of bounds")
	ErrOccupiedCell  = errors.New("cell is not empty")
	ErrNoLegalMove   = errors.New("no legal moves")
	ErrInvalidConfig = errors.New("invalid game config")
)

// Mark is the symbol a player places on the board. The zero value is an empty cell.
type Mark uint8

const (
	none Mark = iota
	X         // Moves first
	O
)

func (m Mark) Other() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return none
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

// ParseMark accepts "X" or "O" (case-insensitive).
func ParseMark(s string) (Mark, error) {
	switch s {
	case "X", "x":
		return X, nil
	case "O", "o":
		return O, nil
	}
	return none, fmt.Errorf("unknown mark %q", s)
}

// Config fixes the board size and the run length needed to win.
// A zero K means the run length equals the board size.
type Config struct {
	Size int `yaml:"size"`
	K    int `yaml:"k"`
}

func (c Config) WinLength() int {
	if c.K == 0 {
		return c.Size
	}
	return c.K
}

func (c Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	}
	k := c.WinLength()
	if k < 3 {
		return fmt.Errorf("%w: k must be >= 3, got %d", ErrInvalidConfig, k)
	}
	if k > c.Size {
		return fmt.Errorf("%w: k must be <= size %d, got %d", ErrInvalidConfig, c.Size, k)
	}
	return nil
}
