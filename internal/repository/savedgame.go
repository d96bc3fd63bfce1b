package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-term/internal/mines"
)

const MaxNameLength = 64

var (
	ErrNotFound = errors.New("saved game not found")
	ErrBadName  = errors.New("bad name for saved game")
)

type SavedGame struct {
	SavedGameId int64
	Name        string
	Width       int32
	Height      int32
	MineCount   int32
	Status      string
	State       []byte
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func (g SavedGame) Board() (*mines.Board, error) {
	return mines.DecodeBoard(g.State)
}

func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLength || strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf(
			"%w: %q (1 to %d characters, no spaces)", ErrBadName, name, MaxNameLength,
		)
	}
	return nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.StringDataRightTruncationDataException,
			pgerrcode.StringDataRightTruncationWarning:
			return fmt.Errorf("%w: name is too long", ErrBadName)
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", ErrBadName, pgErr.Detail)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type SaveGameParams struct {
	Name  string
	Board *mines.Board
}

// SaveGame inserts a new saved game or overwrites the one with the same name.
func (q *Queries) SaveGame(ctx context.Context, params SaveGameParams) (*SavedGame, error) {
	if err := ValidateName(params.Name); err != nil {
		return nil, err
	}
	state, err := params.Board.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode board: %w", err)
	}
	w, h, mc := params.Board.Params().Unpack()

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO saved_game (
			name, width, height, mine_count, status, state
		)
		VALUES (
			@name, @width, @height, @mine_count, @status, @state
		)
		ON CONFLICT (name) DO UPDATE SET
			width = excluded.width
			, height = excluded.height
			, mine_count = excluded.mine_count
			, status = excluded.status
			, state = excluded.state
			, updated_at = now()
		RETURNING *;`,
		pgx.NamedArgs{
			"name":       params.Name,
			"width":      w,
			"height":     h,
			"mine_count": mc,
			"status":     params.Board.Status().String(),
			"state":      state,
		},
	)
	game, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SavedGame])
	if err != nil {
		return nil, translateError(err)
	}
	return game, nil
}

func (q *Queries) FetchGame(ctx context.Context, name string) (*SavedGame, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM saved_game WHERE name = $1", name,
	)
	game, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SavedGame])
	if err != nil {
		return nil, translateError(err)
	}
	return game, nil
}

func (q *Queries) ListGames(ctx context.Context) ([]SavedGame, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM saved_game ORDER BY updated_at DESC, name",
	)
	games, err := pgx.CollectRows(rows, pgx.RowToStructByName[SavedGame])
	if err != nil {
		return nil, translateError(err)
	}
	return games, nil
}

// DeleteGame removes a saved game without checking if it existed.
func (q *Queries) DeleteGame(ctx context.Context, name string) error {
	_, err := q.db.Exec(ctx, "DELETE FROM saved_game WHERE name = $1", name)
	return translateError(err)
}
