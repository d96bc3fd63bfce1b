package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-term/internal/mines"
	"github.com/vancomm/minesweeper-term/internal/repository"
)

var ErrQuit = errors.New("player quit")

// Store keeps named games. [*repository.Queries] implements it.
type Store interface {
	SaveGame(ctx context.Context, params repository.SaveGameParams) (*repository.SavedGame, error)
	FetchGame(ctx context.Context, name string) (*repository.SavedGame, error)
	ListGames(ctx context.Context) ([]repository.SavedGame, error)
}

type Options struct {
	Log  *logrus.Logger
	Rand mines.Shuffler
	// Store is optional; without it SAVE, LOAD and LIST are refused.
	Store Store
}

// Session is the command loop. It is the only owner of its board.
type Session struct {
	log   *logrus.Logger
	rnd   mines.Shuffler
	store Store
	board *mines.Board
	in    io.Reader
	out   io.Writer
	lines <-chan string
}

// NewSession creates a session around board. A nil board makes Run ask the
// player for the board size first.
func NewSession(board *mines.Board, in io.Reader, out io.Writer, opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Session{
		log:   log,
		rnd:   opts.Rand,
		store: opts.Store,
		board: board,
		in:    in,
		out:   out,
	}
}

func (s *Session) Board() *mines.Board {
	return s.board
}

func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (s *Session) prompt(ctx context.Context, msg string) (string, error) {
	fmt.Fprint(s.out, msg)
	select {
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// promptInt keeps asking until the player enters a number in [lo, hi].
func (s *Session) promptInt(ctx context.Context, msg string, lo, hi int, rangeMsg string) (int, error) {
	for {
		line, err := s.prompt(ctx, msg)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(line)
		switch {
		case err != nil:
			fmt.Fprintln(s.out, "Value must be a positive number, try again")
		case v < lo || v > hi:
			fmt.Fprintln(s.out, rangeMsg)
		default:
			return v, nil
		}
	}
}

func (s *Session) promptParams(ctx context.Context) (mines.GameParams, error) {
	var p mines.GameParams
	var err error
	sideMsg := fmt.Sprintf("Value must be between %d & %d", mines.MinSide, mines.MaxSide)
	if p.Width, err = s.promptInt(ctx, "Enter a width: ", mines.MinSide, mines.MaxSide, sideMsg); err != nil {
		return p, err
	}
	if p.Height, err = s.promptInt(ctx, "Enter a height: ", mines.MinSide, mines.MaxSide, sideMsg); err != nil {
		return p, err
	}
	p.MineCount, err = s.promptInt(
		ctx, "How many mines? ", 0, mines.MaxMines(p.Width, p.Height),
		fmt.Sprintf("Give yourself at least %d cells without bombs", mines.ReservedCells),
	)
	return p, err
}

// promptPoint asks for a cell, translating the 1-based input.
func (s *Session) promptPoint(ctx context.Context) (mines.Position, error) {
	w, h := s.board.Dimensions()
	x, err := s.promptInt(ctx, "Enter a x coordinate: ", 1, w, "x is out of bounds, try again")
	if err != nil {
		return mines.Position{}, err
	}
	y, err := s.promptInt(ctx, "Enter a y coordinate: ", 1, h, "y is out of bounds, try again")
	if err != nil {
		return mines.Position{}, err
	}
	return mines.Pos(x-1, y-1), nil
}

func (s *Session) newBoard(params mines.GameParams) error {
	board, err := mines.New(params, s.rnd)
	if err != nil {
		return err
	}
	s.board = board
	s.log.WithField("params", params.Seed()).Info("new game")
	return nil
}

// Run reads commands until the player quits ([ErrQuit]), the input ends
// ([io.EOF]) or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.lines = readLines(ctx, s.in)

	if s.board == nil {
		params, err := s.promptParams(ctx)
		if err != nil {
			return err
		}
		if err := s.newBoard(params); err != nil {
			return err
		}
	}
	Draw(s.out, s.board)

	for {
		line, err := s.prompt(ctx, "Enter a command: ")
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintln(s.out, capitalize(err.Error()))
			continue
		}
		if err := s.Execute(ctx, cmd); err != nil {
			return err
		}
	}
}

// Execute runs a single command. Only [ErrQuit] and input or context errors
// are returned; problems with the command itself are reported to the player.
func (s *Session) Execute(ctx context.Context, cmd Command) error {
	s.log.WithFields(logrus.Fields{
		"kind": cmd.Kind,
		"args": cmd.Args,
	}).Debug("command")

	switch cmd.Kind {
	case Select, Flag, Chord:
		return s.move(ctx, cmd)
	case Draw:
		Draw(s.out, s.board)
	case Help:
		printHelp(s.out)
	case New:
		params, err := parseNewGame(cmd.Args, s.board.Params())
		if err != nil {
			fmt.Fprintln(s.out, capitalize(err.Error()))
			return nil
		}
		if err := s.newBoard(params); err != nil {
			fmt.Fprintln(s.out, capitalize(err.Error()))
			return nil
		}
		Draw(s.out, s.board)
	case Save:
		s.save(ctx, cmd.Args[0])
	case Load:
		s.load(ctx, cmd.Args[0])
	case List:
		s.list(ctx)
	case Quit:
		return ErrQuit
	}
	return nil
}

func (s *Session) move(ctx context.Context, cmd Command) error {
	var (
		pos mines.Position
		err error
	)
	if cmd.HasPoint() {
		w, h := s.board.Dimensions()
		if pos, err = parsePoint(cmd.Args, w, h); err != nil {
			fmt.Fprintln(s.out, capitalize(err.Error()))
			return nil
		}
	} else if pos, err = s.promptPoint(ctx); err != nil {
		return err
	}

	outcome := mines.Continued
	switch cmd.Kind {
	case Select:
		outcome, err = s.board.Reveal(pos)
	case Flag:
		err = s.board.ToggleFlag(pos)
	case Chord:
		outcome, err = s.board.Chord(pos)
	}
	switch {
	case errors.Is(err, mines.ErrGameOver):
		fmt.Fprintln(s.out, "The game is over, type NEW to play again")
		return nil
	case err != nil:
		s.log.WithError(err).WithField("position", pos).Error("move failed")
		fmt.Fprintln(s.out, capitalize(err.Error()))
		return nil
	}

	switch outcome {
	case mines.CellIsFlagged:
		fmt.Fprintln(s.out, "Cell is a flag, remove it first")
	case mines.AlreadyRevealed:
		fmt.Fprintln(s.out, "Already visible")
	}
	Draw(s.out, s.board)
	switch outcome {
	case mines.MineHit:
		fmt.Fprintln(s.out, "GAME OVER!")
		s.log.WithField("position", pos).Info("game lost")
	case mines.Victory:
		fmt.Fprintln(s.out, "You cleared the board!")
		s.log.WithField("params", s.board.Params().Seed()).Info("game won")
	}
	return nil
}

func (s *Session) save(ctx context.Context, name string) {
	if s.store == nil {
		fmt.Fprintln(s.out, "Saved games are not configured (set DATABASE_URL)")
		return
	}
	_, err := s.store.SaveGame(ctx, repository.SaveGameParams{Name: name, Board: s.board})
	if err != nil {
		s.reportStoreError(err, "unable to save game")
		return
	}
	fmt.Fprintf(s.out, "Saved as %s\n", name)
}

func (s *Session) load(ctx context.Context, name string) {
	if s.store == nil {
		fmt.Fprintln(s.out, "Saved games are not configured (set DATABASE_URL)")
		return
	}
	game, err := s.store.FetchGame(ctx, name)
	if err != nil {
		s.reportStoreError(err, "unable to load game")
		return
	}
	board, err := game.Board()
	if err != nil {
		s.reportStoreError(err, "saved game is corrupt")
		return
	}
	board.SetRand(s.rnd)
	s.board = board
	s.log.WithField("name", name).Info("game loaded")
	Draw(s.out, s.board)
}

func (s *Session) list(ctx context.Context) {
	if s.store == nil {
		fmt.Fprintln(s.out, "Saved games are not configured (set DATABASE_URL)")
		return
	}
	games, err := s.store.ListGames(ctx)
	if err != nil {
		s.reportStoreError(err, "unable to list games")
		return
	}
	if len(games) == 0 {
		fmt.Fprintln(s.out, "No saved games")
		return
	}
	for _, g := range games {
		fmt.Fprintf(s.out, "%-20s %dx%d, %d mines, %s\n",
			g.Name, g.Width, g.Height, g.MineCount, g.Status)
	}
}

func (s *Session) reportStoreError(err error, msg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrBadName):
		fmt.Fprintln(s.out, capitalize(err.Error()))
	default:
		s.log.WithError(err).Error(msg)
		fmt.Fprintln(s.out, capitalize(msg))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
