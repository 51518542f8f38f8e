// Package qtable holds the state-action value table shared by the Q-learning
// agent and its self-play trainer, with the canonical keys both sides use.
package qtable

import (
	"fmt"
	"strings"

	"nrow/game"
)

// Table maps a state key to the values of the actions tried in that state.
// Missing entries are worth 0.
type Table map[string]map[string]float64

func New() Table {
	return Table{}
}

func (t Table) Value(state, action string) float64 {
	return t[state][action]
}

func (t Table) Set(state, action string, value float64) {
	row, ok := t[state]
	if !ok {
		row = make(map[string]float64)
		t[state] = row
	}
	row[action] = value
}

// Row returns the action values for state, nil when never visited.
func (t Table) Row(state string) map[string]float64 {
	return t[state]
}

// Len counts the stored state-action entries.
func (t Table) Len() int {
	n := 0
	for _, row := range t {
		n += len(row)
	}
	return n
}

func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for state, row := range t {
		otherRow, ok := other[state]
		if !ok || len(row) != len(otherRow) {
			return false
		}
		for action, v := range row {
			if ov, ok := otherRow[action]; !ok || ov != v {
				return false
			}
		}
	}
	return true
}

// StateKey encodes the board row by row, one symbol per cell ('.' when empty),
// rows joined by '|'. Training and play must agree on this encoding.
func StateKey(state *game.State) string {
	size := state.Config().Size
	var sb strings.Builder
	sb.Grow(size*size + size)
	for r := 0; r < size; r++ {
		if r > 0 {
			sb.WriteByte('|')
		}
		for c := 0; c < size; c++ {
			mark, _ := state.At(game.Move{Row: r, Col: c})
			sb.WriteString(mark.String())
		}
	}
	return sb.String()
}

func ActionKey(move game.Move) string {
	return fmt.Sprintf("%d,%d", move.Row, move.Col)
}
