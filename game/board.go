package game

import (
	"fmt"
	"strings"
)

// Board is a square grid of marks stored row-major.
type Board struct {
	size  int
	cells []Mark
}

// NewBoard returns an empty size x size board.
func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Mark, size*size),
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) Copy() *Board {
	cells := make([]Mark, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

func (b *Board) InBounds(move Move) bool {
	return move.Row >= 0 && move.Row < b.size && move.Col >= 0 && move.Col < b.size
}

// At reports the mark at move, or false if the cell is empty or off the board.
func (b *Board) At(move Move) (Mark, bool) {
	if !b.InBounds(move) {
		return none, false
	}
	m := b.cells[move.Row*b.size+move.Col]
	return m, m != none
}

// Place sets mark at move. Cells are never overwritten.
func (b *Board) Place(move Move, mark Mark) error {
	if !b.InBounds(move) {
		return fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, move, b.size, b.size)
	}
	i := move.Row*b.size + move.Col
	if b.cells[i] != none {
		return fmt.Errorf("%w: %v holds %v", ErrOccupiedCell, move, b.cells[i])
	}
	b.cells[i] = mark
	return nil
}

// AvailableMoves lists empty cells top-to-bottom, left-to-right.
func (b *Board) AvailableMoves() []Move {
	moves := make([]Move, 0, len(b.cells))
	for i, m := range b.cells {
		if m == none {
			moves = append(moves, Move{Row: i / b.size, Col: i % b.size})
		}
	}
	return moves
}

// Marks counts the placed cells.
func (b *Board) Marks() int {
	count := 0
	for _, m := range b.cells {
		if m != none {
			count++
		}
	}
	return count
}

func (b *Board) IsFull() bool {
	for _, m := range b.cells {
		if m == none {
			return false
		}
	}
	return true
}

// Line directions: horizontal, vertical, diagonal and anti-diagonal
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Winner checks every window of exactly k cells in the four line families and
// returns the mark of the first uniform, non-empty one.
func (b *Board) Winner(k int) (Mark, bool) {
	if k <= 0 || k > b.size {
		return none, false
	}
	for _, d := range directions {
		for r := 0; r < b.size; r++ {
			for c := 0; c < b.size; c++ {
				endR, endC := r+d[0]*(k-1), c+d[1]*(k-1)
				if endR < 0 || endR >= b.size || endC < 0 || endC >= b.size {
					continue
				}
				if m := b.uniform(r, c, d, k); m != none {
					return m, true
				}
			}
		}
	}
	return none, false
}

func (b *Board) uniform(r, c int, d [2]int, k int) Mark {
	first := b.cells[r*b.size+c]
	if first == none {
		return none
	}
	for i := 1; i < k; i++ {
		if b.cells[(r+d[0]*i)*b.size+c+d[1]*i] != first {
			return none
		}
	}
	return first
}

func (b *Board) String() string {
	rows := make([]string, b.size)
	symbols := make([]string, b.size)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			symbols[c] = b.cells[r*b.size+c].String()
		}
		rows[r] = strings.Join(symbols, " ")
	}
	return strings.Join(rows, "\n")
}
