package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Hidden           CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item of a [Grid] is one of the following values:
	 *
	 *  - 0 to 8 mean the square is open and has a surrounding mine
	 *    count.
	 *
	 *  - -1 means the square is flagged.
	 *
	 *  - -2 means the square is hidden.
	 *
	 *  - 64 means the square was flagged correctly, shown once the game
	 *    is over.
	 *
	 *  - 65 means the square is the mine the player hit.
	 *
	 *  - 66 means the square was flagged but holds no mine.
	 *
	 *  - 67 means the square holds a mine nobody flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Hidden:
		return "."
	case s == Flagged, s == CorrectlyFlagged:
		return "F"
	case s == 0:
		return " "
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "*"
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// Grid returns what the player is allowed to see. Mine positions only show
// once the game is over.
func (b *Board) Grid() Grid {
	grid := make(Grid, len(b.cells))
	over := b.status.Over()
	for i, c := range b.cells {
		switch {
		case c.revealed && c.mine:
			grid[i] = ExplodedMine
		case c.revealed:
			grid[i] = CellState(c.adjacentMines)
		case c.flagged && over && c.mine:
			grid[i] = CorrectlyFlagged
		case c.flagged && over:
			grid[i] = FalselyFlagged
		case c.flagged:
			grid[i] = Flagged
		case over && c.mine:
			grid[i] = UnflaggedMine
		default:
			grid[i] = Hidden
		}
	}
	return grid
}

func (b *Board) String() string {
	return b.Grid().ToString(b.params.Width)
}
