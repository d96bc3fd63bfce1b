package terminal

import (
	"fmt"
	"io"

	"github.com/vancomm/minesweeper-term/internal/mines"
)

// Draw prints the board with 1-based column and row numbers around it.
func Draw(w io.Writer, b *mines.Board) {
	width, height := b.Dimensions()
	grid := b.Grid()

	fmt.Fprint(w, "   ")
	for x := range width {
		fmt.Fprintf(w, "%02d ", x+1)
	}
	fmt.Fprintln(w)

	for y := range height {
		fmt.Fprintf(w, "%02d ", y+1)
		for x := range width {
			fmt.Fprintf(w, "%s  ", grid[y*width+x])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Mines: %d  Flags: %d  Status: %s\n",
		b.MineCount(), b.FlagCount(), b.Status())
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `
Select x y: Select a cell (alias: Open)
Flag x y:   Toggle if cell is flag or not
Chord x y:  Open the neighbours of a number once it has enough flags
Draw:       Redraws the board
New [w:h:m | width=W height=H mines=M]: Start over (alias: Reset)
Save name:  Save the game
Load name:  Load a saved game
List:       List saved games
Help:       Prints the commands
Quit:       Quits the program
Commands are not case sensitive, coordinates start at 1

`)
}
