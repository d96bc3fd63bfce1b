package mines

import (
	"fmt"
	"strings"
)

const (
	MinSide = 1
	MaxSide = 98

	// Cells kept free of mines: the 3x3 zone around the first click plus one.
	ReservedCells = 10
)

type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}

// MaxMines reports the largest mine count accepted for the given dimensions.
func MaxMines(width, height int) int {
	return max(0, width*height-ReservedCells)
}

func (p GameParams) Validate() error {
	if p.Width < MinSide || p.Width > MaxSide ||
		p.Height < MinSide || p.Height > MaxSide {
		return fmt.Errorf(
			"%w: %dx%d (each side must be between %d and %d)",
			ErrInvalidDimensions, p.Width, p.Height, MinSide, MaxSide,
		)
	}
	if p.MineCount < 0 || p.MineCount > MaxMines(p.Width, p.Height) {
		return fmt.Errorf(
			"%w: %d (must be between 0 and %d for a %dx%d board)",
			ErrInvalidMineCount, p.MineCount,
			MaxMines(p.Width, p.Height), p.Width, p.Height,
		)
	}
	return nil
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}
