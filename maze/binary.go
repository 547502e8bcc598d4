package maze

import (
	"errors"
	"fmt"
)

// BinarySize is the length of a classic .maz file: one byte per cell of a 16x16 maze.
const BinarySize = ClassicSize * ClassicSize

var ErrInvalidBinary = errors.New("invalid binary maze")

// ClassicGoals returns the four centre cells used as goals in a classic maze.
func ClassicGoals() []CellPosition {
	return centreCells(ClassicSize)
}

// ParseBinary decodes a 256-byte .maz file. Cell (x, y) is stored at byte x*16+y with NorthBit,
// EastBit, SouthBit and WestBit flags. A wall counts as present if either adjacent cell flags it.
// Every wall is known; the home cell is (0,0) and the goals are the four centre cells.
func ParseBinary(data []byte) (*Grid, error) {
	if len(data) != BinarySize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidBinary, len(data), BinarySize)
	}
	g, err := New(ClassicSize)
	if err != nil {
		return nil, err
	}

	at := func(p CellPosition) uint8 { return data[p.X*ClassicSize+p.Y] }
	for x := 0; x < ClassicSize; x++ {
		for y := 0; y < ClassicSize; y++ {
			here := CellPosition{X: x, Y: y}
			for _, d := range []Direction{North, East} {
				there, ok := g.Neighbor(x, y, d)
				if !ok {
					continue
				}
				if at(here)&d.Bit() != 0 || at(there)&d.Opposite().Bit() != 0 {
					g.SetWall(x, y, d)
				} else {
					g.ClearWall(x, y, d)
				}
			}
		}
	}

	if err := g.SetStart(CellPosition{X: 0, Y: 0}); err != nil {
		return nil, err
	}
	for _, goal := range ClassicGoals() {
		if err := g.AddGoal(goal); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Binary encodes a 16x16 grid in the .maz layout read by ParseBinary. Unknown walls are written as
// their current present/absent state.
func (g *Grid) Binary() ([]byte, error) {
	if g.size != ClassicSize {
		return nil, fmt.Errorf("%w: size %d, want %d", ErrInvalidBinary, g.size, ClassicSize)
	}
	out := make([]byte, BinarySize)
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			out[x*ClassicSize+y] = g.Walls(x, y)
		}
	}
	return out, nil
}
