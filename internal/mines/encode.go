package mines

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
)

const encodingVersion = 1

/*
 * Binary layout:
 *
 *	[0]    encoding version
 *	[1]    width
 *	[2]    height
 *	[3:5]  mine count, big endian
 *	[5]    bit 0: mines placed, bits 1-2: status
 *	[6:]   one byte per cell, row major
 *
 * Cell byte: bit 0 mine, bit 1 revealed, bit 2 flagged, bits 4-7 the
 * number of adjacent mines.
 */
const headerSize = 6

const (
	cellMine     = 1 << 0
	cellRevealed = 1 << 1
	cellFlagged  = 1 << 2
	countShift   = 4
)

func (c Cell) pack() byte {
	var v byte
	if c.mine {
		v |= cellMine
	}
	if c.revealed {
		v |= cellRevealed
	}
	if c.flagged {
		v |= cellFlagged
	}
	return v | c.adjacentMines<<countShift
}

func unpackCell(v byte) Cell {
	return Cell{
		mine:          v&cellMine != 0,
		revealed:      v&cellRevealed != 0,
		flagged:       v&cellFlagged != 0,
		adjacentMines: v >> countShift,
	}
}

// [Board] implements [encoding.BinaryMarshaler]
func (b *Board) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize, headerSize+len(b.cells))
	buf[0] = encodingVersion
	buf[1] = byte(b.params.Width)
	buf[2] = byte(b.params.Height)
	binary.BigEndian.PutUint16(buf[3:5], uint16(b.params.MineCount))
	buf[5] = iif[byte](b.minesPlaced, 1, 0) | byte(b.status)<<1
	for _, c := range b.cells {
		buf = append(buf, c.pack())
	}
	return buf, nil
}

// [Board] implements [encoding.BinaryUnmarshaler]. The decoded board draws
// from the process-wide generator until [Board.SetRand] is called.
func (b *Board) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d bytes is too short", ErrInvalidState, len(data))
	}
	if data[0] != encodingVersion {
		return fmt.Errorf("%w: unknown encoding version %d", ErrInvalidState, data[0])
	}
	params := GameParams{
		Width:     int(data[1]),
		Height:    int(data[2]),
		MineCount: int(binary.BigEndian.Uint16(data[3:5])),
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	cells := data[headerSize:]
	if len(cells) != params.Width*params.Height {
		return fmt.Errorf(
			"%w: have %d cells, want %d",
			ErrInvalidState, len(cells), params.Width*params.Height,
		)
	}

	decoded := Board{
		params:      params,
		cells:       make([]Cell, len(cells)),
		minesPlaced: data[5]&1 != 0,
		status:      Status(data[5] >> 1),
		exploded:    -1,
		rnd:         globalShuffler{},
	}
	for i, v := range cells {
		decoded.cells[i] = unpackCell(v)
	}
	if err := decoded.check(); err != nil {
		return err
	}
	*b = decoded
	return nil
}

// check validates a decoded board and rebuilds its counters.
func (b *Board) check() error {
	mines, revealedMines := 0, 0
	for i, c := range b.cells {
		switch {
		case c.revealed && c.flagged:
			return fmt.Errorf("%w: cell %s is revealed and flagged", ErrInvalidState, b.position(i))
		case c.revealed && c.mine:
			revealedMines++
			b.exploded = i
		case c.revealed:
			b.revealed++
		}
		if c.mine {
			mines++
		}
		if c.flagged {
			b.flags++
		}
	}

	if !b.minesPlaced {
		if mines != 0 || b.revealed != 0 || revealedMines != 0 || b.status != InProgress {
			return fmt.Errorf("%w: board is played before mines are placed", ErrInvalidState)
		}
		return nil
	}
	if mines != b.params.MineCount {
		return fmt.Errorf("%w: have %d mines, want %d", ErrInvalidState, mines, b.params.MineCount)
	}

	counts := make([]uint8, len(b.cells))
	for i := range b.cells {
		counts[i] = b.cells[i].adjacentMines
	}
	b.computeAdjacency()
	for i := range b.cells {
		if counts[i] != b.cells[i].adjacentMines {
			return fmt.Errorf("%w: wrong mine count at %s", ErrInvalidState, b.position(i))
		}
	}

	want := InProgress
	switch {
	case revealedMines > 1:
		return fmt.Errorf("%w: %d mines revealed", ErrInvalidState, revealedMines)
	case revealedMines == 1:
		want = Lost
	case b.HiddenSafeCells() == 0:
		want = Won
	}
	if b.status != want {
		return fmt.Errorf("%w: status is %s, cells say %s", ErrInvalidState, b.status, want)
	}
	return nil
}

// SetRand replaces the source used for mine placement.
func (b *Board) SetRand(rnd Shuffler) {
	if rnd == nil {
		rnd = globalShuffler{}
	}
	b.rnd = rnd
}

func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(b)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeBoard(buf []byte) (*Board, error) {
	var board Board
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&board)
	if err != nil {
		return nil, err
	}
	return &board, nil
}
