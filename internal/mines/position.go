package mines

import "fmt"

// Position addresses a cell by zero-based column and row.
type Position struct {
	X, Y int
}

func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
