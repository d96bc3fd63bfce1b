package mines

// Cell is the state of a single square. Cells are owned by a [Board]; the
// copies returned by [Board.CellAt] are detached from it.
type Cell struct {
	mine          bool
	revealed      bool
	flagged       bool
	adjacentMines uint8
}

func (c Cell) IsMine() bool { return c.mine }
func (c Cell) IsRevealed() bool { return c.revealed }
func (c Cell) IsFlagged() bool { return c.flagged }
func (c Cell) AdjacentMines() int { return int(c.adjacentMines) }

// ToggleFlag flips the flag unconditionally. Revealed cells are guarded by
// [Board.ToggleFlag], not here.
func (c *Cell) ToggleFlag() {
	c.flagged = !c.flagged
}
