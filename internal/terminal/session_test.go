package terminal

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-term/internal/mines"
	"github.com/vancomm/minesweeper-term/internal/repository"
)

// frontLoaded moves the listed grid indices to the front of the shuffle.
type frontLoaded []int

func (f frontLoaded) Shuffle(n int, swap func(i, j int)) {
	pos := make([]int, n)
	at := make([]int, n)
	for i := range n {
		pos[i], at[i] = i, i
	}
	for k, v := range f {
		j := pos[v]
		swap(k, j)
		at[k], at[j] = at[j], at[k]
		pos[at[k]], pos[at[j]] = k, j
	}
}

type memStore struct {
	games map[string]repository.SavedGame
}

func newMemStore() *memStore {
	return &memStore{games: make(map[string]repository.SavedGame)}
}

func (m *memStore) SaveGame(ctx context.Context, params repository.SaveGameParams) (*repository.SavedGame, error) {
	if err := repository.ValidateName(params.Name); err != nil {
		return nil, err
	}
	state, err := params.Board.Bytes()
	if err != nil {
		return nil, err
	}
	w, h, mc := params.Board.Params().Unpack()
	game := repository.SavedGame{
		Name:      params.Name,
		Width:     int32(w),
		Height:    int32(h),
		MineCount: int32(mc),
		Status:    params.Board.Status().String(),
		State:     state,
	}
	m.games[params.Name] = game
	return &game, nil
}

func (m *memStore) FetchGame(ctx context.Context, name string) (*repository.SavedGame, error) {
	game, ok := m.games[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &game, nil
}

func (m *memStore) ListGames(ctx context.Context) ([]repository.SavedGame, error) {
	games := make([]repository.SavedGame, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

func runSession(t *testing.T, board *mines.Board, input string, opts Options) (*Session, string, error) {
	t.Helper()
	var out strings.Builder
	s := NewSession(board, strings.NewReader(input), &out, opts)
	err := s.Run(context.Background())
	return s, out.String(), err
}

func newBoard(t *testing.T, w, h, mc int, rnd mines.Shuffler) *mines.Board {
	t.Helper()
	b, err := mines.NewBoard(w, h, mc, rnd)
	require.NoError(t, err)
	return b
}

func TestSessionPromptsForBoard(t *testing.T) {
	s, out, err := runSession(t, nil, "0\n5\nabc\n5\n100\n0\nquit\n", Options{})
	assert.ErrorIs(t, err, ErrQuit)

	assert.Contains(t, out, "Enter a width: Value must be between 1 & 98")
	assert.Contains(t, out, "Enter a height: Value must be a positive number, try again")
	assert.Contains(t, out, "How many mines? Give yourself at least 10 cells without bombs")
	require.NotNil(t, s.Board())
	w, h := s.Board().Dimensions()
	assert.Equal(t, 5, w)
	assert.Equal(t, 5, h)
	assert.Equal(t, 0, s.Board().MineCount())
}

func TestSessionSelectWins(t *testing.T) {
	b := newBoard(t, 4, 4, 0, nil)
	_, out, err := runSession(t, b, "SELECT 2 3\nselect 1 1\nflag 1 1\nquit\n", Options{})
	assert.ErrorIs(t, err, ErrQuit)

	assert.Equal(t, mines.Won, b.Status())
	assert.Contains(t, out, "You cleared the board!")
	assert.Equal(t, 2, strings.Count(out, "The game is over, type NEW to play again"))
}

func TestSessionPromptsForCoordinates(t *testing.T) {
	b := newBoard(t, 5, 5, 5, frontLoaded{2, 7, 12, 17, 22})
	_, out, err := runSession(t, b, "select\n9\n1\nx\n1\nquit\n", Options{})
	assert.ErrorIs(t, err, ErrQuit)

	assert.Contains(t, out, "Enter a x coordinate: x is out of bounds, try again")
	assert.Contains(t, out, "Enter a y coordinate: Value must be a positive number, try again")
	c, err := b.CellAt(mines.Pos(0, 0))
	require.NoError(t, err)
	assert.True(t, c.IsRevealed())
	assert.Equal(t, mines.InProgress, b.Status())
}

func TestSessionFlagAndMineHit(t *testing.T) {
	b := newBoard(t, 5, 5, 5, frontLoaded{2, 7, 12, 17, 22})
	input := strings.Join([]string{
		"select 1 1",
		"flag 4 1",
		"select 4 1",
		"select 1 1",
		"select 9 1",
		"flag 4 1",
		"select 3 1",
		"quit",
	}, "\n")
	_, out, err := runSession(t, b, input, Options{})
	assert.ErrorIs(t, err, ErrQuit)

	assert.Contains(t, out, "Cell is a flag, remove it first")
	assert.Contains(t, out, "Already visible")
	assert.Contains(t, out, "X is out of bounds, try again")
	assert.Contains(t, out, "GAME OVER!")
	assert.Equal(t, mines.Lost, b.Status())
	assert.Zero(t, b.FlagCount())
}

func TestSessionNewGame(t *testing.T) {
	b := newBoard(t, 4, 4, 0, nil)
	input := "new 6:6:5\nnew width=7 mines=3\nnew width=abc\nreset 1:1:5\nquit\n"
	s, out, err := runSession(t, b, input, Options{})
	assert.ErrorIs(t, err, ErrQuit)

	assert.Equal(t, mines.GameParams{Width: 7, Height: 6, MineCount: 3}, s.Board().Params())
	assert.Contains(t, out, "Invalid mine count")
	assert.Contains(t, out, "Mines: 5  Flags: 0")
}

func TestSessionSaveAndLoad(t *testing.T) {
	store := newMemStore()
	b := newBoard(t, 5, 5, 5, frontLoaded{2, 7, 12, 17, 22})
	input := strings.Join([]string{
		"select 1 1",
		"flag 5 5",
		"save morning",
		"save two words",
		"new 4:4:0",
		"list",
		"load nope",
		"load morning",
		"quit",
	}, "\n")
	s, out, err := runSession(t, b, input, Options{Store: store})
	assert.ErrorIs(t, err, ErrQuit)

	assert.Contains(t, out, "Saved as morning")
	assert.Contains(t, out, "Invalid number of arguments for SAVE")
	assert.Contains(t, out, "morning              5x5, 5 mines, in progress")
	assert.Contains(t, out, "Saved game not found")

	loaded := s.Board()
	assert.NotSame(t, b, loaded)
	assert.Equal(t, b.String(), loaded.String())
	assert.Equal(t, 1, loaded.FlagCount())
}

func TestSessionWithoutStore(t *testing.T) {
	b := newBoard(t, 4, 4, 0, nil)
	_, out, err := runSession(t, b, "save x\nload x\nlist\nquit\n", Options{})
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, 3, strings.Count(out, "Saved games are not configured"))
}

func TestSessionHelpAndUnknown(t *testing.T) {
	b := newBoard(t, 4, 4, 0, nil)
	_, out, err := runSession(t, b, "dance\n\nhelp\ndraw\n", Options{})
	assert.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out, "Invalid command, try again (type help to list commands)")
	assert.Contains(t, out, "Commands are not case sensitive")
	assert.Equal(t, 2, strings.Count(out, "Mines: 0  Flags: 0"))
}

func TestSessionStopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSession(newBoard(t, 4, 4, 0, nil), r, io.Discard, Options{})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
