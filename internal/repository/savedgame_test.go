package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-term/internal/database"
	"github.com/vancomm/minesweeper-term/internal/mines"
)

func TestValidateName(t *testing.T) {
	for _, name := range []string{"a", "morning-game", strings.Repeat("x", MaxNameLength)} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "two words", "tab\tbed", strings.Repeat("x", MaxNameLength+1)} {
		assert.ErrorIs(t, ValidateName(name), ErrBadName, name)
	}
}

func TestTranslateError(t *testing.T) {
	assert.ErrorIs(t, translateError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t,
		translateError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})),
		ErrBadName,
	)
	assert.ErrorIs(t,
		translateError(&pgconn.PgError{Code: pgerrcode.StringDataRightTruncationDataException}),
		ErrBadName,
	)
	other := &pgconn.PgError{Code: pgerrcode.SyntaxError}
	assert.Equal(t, other, translateError(other))
	assert.NoError(t, translateError(nil))
}

func setupTestQueries(t *testing.T) *Queries {
	t.Helper()
	url, ok := os.LookupEnv("DATABASE_URL")
	if !ok {
		t.Skip("DATABASE_URL is not set")
	}
	migrator, err := database.Migrate(url, database.Migrations)
	require.NoError(t, err)
	t.Cleanup(func() { migrator.Close() })

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return New(pool)
}

func TestSaveAndFetchGame(t *testing.T) {
	q := setupTestQueries(t)
	ctx := context.Background()
	name := fmt.Sprintf("test-%s", strings.ReplaceAll(t.Name(), "/", "-"))
	t.Cleanup(func() { q.DeleteGame(ctx, name) })

	board, err := mines.NewBoard(9, 9, 10, nil)
	require.NoError(t, err)
	_, err = board.Reveal(mines.Pos(4, 4))
	require.NoError(t, err)

	saved, err := q.SaveGame(ctx, SaveGameParams{Name: name, Board: board})
	require.NoError(t, err)
	assert.Equal(t, name, saved.Name)
	assert.Equal(t, int32(9), saved.Width)
	assert.Equal(t, board.Status().String(), saved.Status)

	require.NoError(t, board.ToggleFlag(mines.Pos(0, 0)))
	updated, err := q.SaveGame(ctx, SaveGameParams{Name: name, Board: board})
	require.NoError(t, err)
	assert.Equal(t, saved.SavedGameId, updated.SavedGameId)

	fetched, err := q.FetchGame(ctx, name)
	require.NoError(t, err)
	loaded, err := fetched.Board()
	require.NoError(t, err)
	assert.Equal(t, board.String(), loaded.String())
	assert.Equal(t, 1, loaded.FlagCount())

	games, err := q.ListGames(ctx)
	require.NoError(t, err)
	found := false
	for _, g := range games {
		found = found || g.Name == name
	}
	assert.True(t, found)

	require.NoError(t, q.DeleteGame(ctx, name))
	_, err = q.FetchGame(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
}
