package terminal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-term/internal/mines"
)

type Kind int

const (
	Select Kind = iota
	Flag
	Chord
	Draw
	Help
	New
	Save
	Load
	List
	Quit
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "select"
	case Flag:
		return "flag"
	case Chord:
		return "chord"
	case Draw:
		return "draw"
	case Help:
		return "help"
	case New:
		return "new"
	case Save:
		return "save"
	case Load:
		return "load"
	case List:
		return "list"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownCommand = errors.New("invalid command, try again (type help to list commands)")
	ErrArgs           = errors.New("invalid number of arguments")
)

type commandSpec struct {
	kind Kind
	// accepted argument counts
	nargs []int
}

// Commands are matched case-insensitively.
var commands = map[string]commandSpec{
	"SELECT": {Select, []int{0, 2}},
	"OPEN":   {Select, []int{0, 2}},
	"FLAG":   {Flag, []int{0, 2}},
	"CHORD":  {Chord, []int{0, 2}},
	"DRAW":   {Draw, []int{0}},
	"HELP":   {Help, []int{0}},
	"NEW":    {New, []int{0, 1, 2, 3}},
	"RESET":  {New, []int{0, 1, 2, 3}},
	"SAVE":   {Save, []int{1}},
	"LOAD":   {Load, []int{1}},
	"LIST":   {List, []int{0}},
	"QUIT":   {Quit, []int{0}},
}

type Command struct {
	Kind Kind
	Args []string
}

func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}
	spec, ok := commands[strings.ToUpper(parts[0])]
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	args := parts[1:]
	for _, n := range spec.nargs {
		if n == len(args) {
			return Command{Kind: spec.kind, Args: args}, nil
		}
	}
	return Command{}, fmt.Errorf("%w for %s", ErrArgs, strings.ToUpper(parts[0]))
}

// HasPoint reports whether the command carries its own coordinates.
func (c Command) HasPoint() bool {
	switch c.Kind {
	case Select, Flag, Chord:
		return len(c.Args) == 2
	}
	return false
}

// parseCoord turns a 1-based coordinate typed by the player into a 0-based
// one.
func parseCoord(s string, size int, axis string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("input must be a positive number, try again")
	}
	if v < 1 || v > size {
		return 0, fmt.Errorf("%s is out of bounds, try again", axis)
	}
	return v - 1, nil
}

func parsePoint(args []string, width, height int) (mines.Position, error) {
	x, err := parseCoord(args[0], width, "x")
	if err != nil {
		return mines.Position{}, err
	}
	y, err := parseCoord(args[1], height, "y")
	if err != nil {
		return mines.Position{}, err
	}
	return mines.Pos(x, y), nil
}

type NewGameDTO struct {
	Width     int `schema:"width"`
	Height    int `schema:"height"`
	MineCount int `schema:"mines"`
}

var decoder = schema.NewDecoder()

// parseNewGame reads the arguments of NEW. Without arguments the current
// parameters are reused. A single argument may be a "w:h:mc" seed; anything
// else is a list of width=, height= and mines= pairs.
func parseNewGame(args []string, current mines.GameParams) (mines.GameParams, error) {
	if len(args) == 0 {
		return current, nil
	}
	if len(args) == 1 && !strings.Contains(args[0], "=") {
		p, err := mines.ParseSeed(args[0])
		if err != nil {
			return mines.GameParams{}, err
		}
		return *p, p.Validate()
	}

	src := make(map[string][]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return mines.GameParams{}, fmt.Errorf("expected key=value, got %q", arg)
		}
		src[strings.ToLower(key)] = append(src[strings.ToLower(key)], value)
	}

	dto := NewGameDTO(current)
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	params := mines.GameParams(dto)
	return params, params.Validate()
}
