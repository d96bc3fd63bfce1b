package mines

import "errors"

var (
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrInvalidMineCount  = errors.New("invalid mine count")
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrGameOver          = errors.New("game is already over")
	ErrInvalidState      = errors.New("invalid board state")
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
