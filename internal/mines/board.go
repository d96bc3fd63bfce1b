package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Shuffler is the source of randomness used for mine placement.
// [*rand.Rand] satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Board owns the grid of a single game. It is not safe for concurrent use;
// callers must serialize Reveal, ToggleFlag and Chord.
type Board struct {
	params      GameParams
	cells       []Cell /* y*width + x */
	minesPlaced bool
	status      Status
	revealed    int /* safe cells revealed so far */
	flags       int
	exploded    int /* index of the mine that ended the game, or -1 */
	rnd         Shuffler
}

// NewBoard creates a board with every cell hidden. Mines are not placed until
// the first reveal. If rnd is nil the process-wide generator is used.
func NewBoard(width, height, mineCount int, rnd Shuffler) (*Board, error) {
	return New(GameParams{Width: width, Height: height, MineCount: mineCount}, rnd)
}

func New(params GameParams, rnd Shuffler) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = globalShuffler{}
	}
	b := &Board{
		params:   params,
		cells:    make([]Cell, params.Width*params.Height),
		exploded: -1,
		rnd:      rnd,
	}
	return b, nil
}

func (b *Board) Params() GameParams { return b.params }
func (b *Board) Dimensions() (int, int) { return b.params.Width, b.params.Height }
func (b *Board) MineCount() int { return b.params.MineCount }
func (b *Board) FlagCount() int { return b.flags }
func (b *Board) Status() Status { return b.status }
func (b *Board) MinesPlaced() bool { return b.minesPlaced }

// HiddenSafeCells reports how many non-mine cells are still to be revealed.
func (b *Board) HiddenSafeCells() int {
	return len(b.cells) - b.params.MineCount - b.revealed
}

func (b *Board) InBounds(p Position) bool {
	return b.params.ValidatePosition(p.X, p.Y)
}

func (b *Board) index(p Position) int {
	return p.Y*b.params.Width + p.X
}

func (b *Board) position(i int) Position {
	return Position{X: i % b.params.Width, Y: i / b.params.Width}
}

func (b *Board) checkBounds(p Position) error {
	if !b.InBounds(p) {
		return fmt.Errorf(
			"%w: %s on a %dx%d board",
			ErrOutOfBounds, p, b.params.Width, b.params.Height,
		)
	}
	return nil
}

func (b *Board) CellAt(p Position) (Cell, error) {
	if err := b.checkBounds(p); err != nil {
		return Cell{}, err
	}
	return b.cells[b.index(p)], nil
}

// Exploded returns the mine that ended a lost game.
func (b *Board) Exploded() (Position, bool) {
	if b.exploded < 0 {
		return Position{}, false
	}
	return b.position(b.exploded), true
}

func (b *Board) forEachNeighbor(i int, fn func(j int)) {
	w, h := b.params.Width, b.params.Height
	x, y := i%w, i/w
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			xx, yy := x+dx, y+dy
			if (dx == 0 && dy == 0) || xx < 0 || xx >= w || yy < 0 || yy >= h {
				continue
			}
			fn(yy*w + xx)
		}
	}
}

// Neighbors returns the in-bounds cells around p: 3 in a corner, 5 on an
// edge and 8 elsewhere. It returns nil if p itself is out of bounds.
func (b *Board) Neighbors(p Position) []Position {
	if !b.InBounds(p) {
		return nil
	}
	neighbors := make([]Position, 0, 8)
	b.forEachNeighbor(b.index(p), func(j int) {
		neighbors = append(neighbors, b.position(j))
	})
	return neighbors
}

// Reveal opens the cell at p. The first call places the mines, keeping the
// 3x3 block around p clear.
func (b *Board) Reveal(p Position) (RevealOutcome, error) {
	if err := b.checkBounds(p); err != nil {
		return Continued, err
	}
	if b.status.Over() {
		return Continued, ErrGameOver
	}
	if !b.minesPlaced {
		if err := b.placeMines(p); err != nil {
			return Continued, err
		}
		b.computeAdjacency()
	}
	return b.reveal(b.index(p)), nil
}

func (b *Board) reveal(i int) RevealOutcome {
	c := &b.cells[i]
	switch {
	case c.flagged:
		return CellIsFlagged
	case c.mine:
		c.revealed = true
		b.status = Lost
		b.exploded = i
		Log.WithField("position", b.position(i)).Debug("mine hit")
		return MineHit
	case c.revealed:
		return AlreadyRevealed
	}

	b.flood(i)

	if b.HiddenSafeCells() == 0 {
		b.status = Won
		Log.WithField("params", b.params.Seed()).Debug("board cleared")
		return Victory
	}
	return Continued
}

// flood reveals start and, through every zero-count cell it reaches, the
// connected region around it. Flagged cells are left alone. A cell is
// marked revealed when it is pushed, so nothing is pushed twice.
func (b *Board) flood(start int) {
	b.cells[start].revealed = true
	b.revealed++
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.cells[i].adjacentMines != 0 {
			continue
		}
		b.forEachNeighbor(i, func(j int) {
			n := &b.cells[j]
			if n.revealed || n.flagged {
				return
			}
			n.revealed = true
			b.revealed++
			stack = append(stack, j)
		})
	}
}

// ToggleFlag flags or unflags a hidden cell. Revealed cells are left as is.
func (b *Board) ToggleFlag(p Position) error {
	if err := b.checkBounds(p); err != nil {
		return err
	}
	if b.status.Over() {
		return ErrGameOver
	}
	c := &b.cells[b.index(p)]
	if c.revealed {
		return nil
	}
	c.ToggleFlag()
	b.flags += iif(c.flagged, 1, -1)
	return nil
}

// Chord opens every hidden, unflagged neighbor of a revealed number once the
// right number of flags surrounds it. Anything else is a no-op.
func (b *Board) Chord(p Position) (RevealOutcome, error) {
	if err := b.checkBounds(p); err != nil {
		return Continued, err
	}
	if b.status.Over() {
		return Continued, ErrGameOver
	}
	i := b.index(p)
	c := b.cells[i]
	if !c.revealed || c.mine || c.adjacentMines == 0 {
		return Continued, nil
	}

	flagged := 0
	hidden := make([]int, 0, 8)
	b.forEachNeighbor(i, func(j int) {
		switch n := b.cells[j]; {
		case n.flagged:
			flagged++
		case !n.revealed:
			hidden = append(hidden, j)
		}
	})
	if flagged != int(c.adjacentMines) {
		return Continued, nil
	}

	for _, j := range hidden {
		if b.cells[j].revealed {
			continue /* opened by an earlier flood of this chord */
		}
		if o := b.reveal(j); o == MineHit || o == Victory {
			return o, nil
		}
	}
	return Continued, nil
}

// placeMines takes mine positions from a uniform shuffle of the whole grid,
// skipping the 3x3 block centered on center.
func (b *Board) placeMines(center Position) error {
	w, _, mineCount := b.params.Unpack()

	candidates := make([]int, len(b.cells))
	for i := range candidates {
		candidates[i] = i
	}
	b.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	chosen := make([]int, 0, mineCount)
	for _, i := range candidates {
		if len(chosen) == mineCount {
			break
		}
		if absDiff(i%w, center.X) <= 1 && absDiff(i/w, center.Y) <= 1 {
			continue
		}
		chosen = append(chosen, i)
	}
	if len(chosen) < mineCount {
		return AssertionError{fmt.Sprintf(
			"only %d of %d mines fit outside the safe zone", len(chosen), mineCount,
		)}
	}

	for _, i := range chosen {
		b.cells[i].mine = true
	}
	b.minesPlaced = true

	Log.WithFields(logrus.Fields{
		"params": b.params.Seed(),
		"center": center,
	}).Debug("mines placed")
	return nil
}

func (b *Board) computeAdjacency() {
	for i := range b.cells {
		var n uint8
		b.forEachNeighbor(i, func(j int) {
			if b.cells[j].mine {
				n++
			}
		})
		b.cells[i].adjacentMines = n
	}
}
