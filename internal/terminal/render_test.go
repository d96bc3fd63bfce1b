package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-term/internal/mines"
)

func TestDrawHiddenBoard(t *testing.T) {
	b, err := mines.NewBoard(3, 2, 0, nil)
	require.NoError(t, err)

	var out strings.Builder
	Draw(&out, b)
	assert.Equal(t, ""+
		"   01 02 03 \n"+
		"01 .  .  .  \n"+
		"02 .  .  .  \n"+
		"Mines: 0  Flags: 0  Status: in progress\n",
		out.String(),
	)
}

func TestDrawAfterLoss(t *testing.T) {
	// mines fill the middle column of a 5x5 board
	b, err := mines.NewBoard(5, 5, 5, frontLoaded{2, 7, 12, 17, 22})
	require.NoError(t, err)
	_, err = b.Reveal(mines.Pos(0, 0))
	require.NoError(t, err)
	require.NoError(t, b.ToggleFlag(mines.Pos(2, 0)))
	require.NoError(t, b.ToggleFlag(mines.Pos(3, 0)))
	_, err = b.Reveal(mines.Pos(2, 4))
	require.NoError(t, err)

	var out strings.Builder
	Draw(&out, b)
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "01    2  F  x  .  ", lines[1])
	assert.Equal(t, "05    2  X  .  .  ", lines[5])
	assert.Equal(t, "Mines: 5  Flags: 2  Status: lost", lines[6])
	assert.Contains(t, lines[3], "*")
}
