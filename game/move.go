package game

import "fmt"

// Move places the current mark at (Row, Col), both 0-indexed.
type Move struct {
	Row int
	Col int
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
