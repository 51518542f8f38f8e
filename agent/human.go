package agent

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nrow/game"
	"nrow/utils"

	"github.com/pkg/errors"
)

type human struct {
	mark    game.Mark
	scanner *bufio.Scanner
	out     io.Writer
}

// NewHuman reads "row col" lines from in until a legal move is entered.
func NewHuman(mark game.Mark, in io.Reader, out io.Writer) Agent {
	return newHuman(mark, bufio.NewScanner(in), out)
}

// newHuman lets two players at one console share a scanner without losing
// buffered input.
func newHuman(mark game.Mark, scanner *bufio.Scanner, out io.Writer) Agent {
	return &human{mark: mark, scanner: scanner, out: out}
}

func (h *human) FindMove(state *game.State) (game.Move, error) {
	moves := state.AvailableMoves()
	if len(moves) == 0 {
		return game.Move{}, game.ErrNoLegalMove
	}

	for {
		fmt.Fprintf(h.out, "Player %v move (row col): ", h.mark)
		if !h.scanner.Scan() {
			if err := h.scanner.Err(); err != nil {
				return game.Move{}, errors.Wrap(err, "read move")
			}
			return game.Move{}, io.ErrUnexpectedEOF
		}

		parts := strings.Fields(h.scanner.Text())
		if len(parts) != 2 {
			fmt.Fprintln(h.out, "Enter two ints: row col")
			continue
		}
		row, errRow := strconv.Atoi(parts[0])
		col, errCol := strconv.Atoi(parts[1])
		if errRow != nil || errCol != nil {
			fmt.Fprintln(h.out, "Not ints")
			continue
		}
		move := game.Move{Row: row, Col: col}
		if utils.FindIndex(moves, move) == -1 {
			fmt.Fprintln(h.out, "Illegal move")
			continue
		}
		return move, nil
	}
}
