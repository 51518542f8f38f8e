package engine

import (
	"fmt"
	"io"
	"strings"

	"nrow/game"

	"github.com/muesli/termenv"
)

// Renderer prints boards for console play. Colours are only emitted when the
// writer is a terminal that supports them. A nil Renderer prints nothing.
type Renderer struct {
	out *termenv.Output
	w   io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{out: termenv.NewOutput(w), w: w}
}

func (r *Renderer) symbol(mark game.Mark, ok bool) string {
	if !ok {
		return r.out.String(".").Faint().String()
	}
	style := r.out.String(mark.String()).Bold()
	switch mark {
	case game.X:
		style = style.Foreground(r.out.Color("1"))
	case game.O:
		style = style.Foreground(r.out.Color("4"))
	}
	return style.String()
}

func (r *Renderer) Board(state *game.State) {
	if r == nil {
		return
	}
	size := state.Config().Size
	var sb strings.Builder
	sb.WriteString("\n")
	cells := make([]string, size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			cells[col] = r.symbol(state.At(game.Move{Row: row, Col: col}))
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}
	fmt.Fprint(r.w, sb.String())
}

func (r *Renderer) Result(state *game.State) {
	if r == nil {
		return
	}
	if winner, ok := state.Winner(); ok {
		fmt.Fprintf(r.w, "WINNER: %s\n", r.symbol(winner, true))
		return
	}
	fmt.Fprintln(r.w, "DRAW")
}
