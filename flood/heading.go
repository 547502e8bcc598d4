package flood

import (
	"fmt"
	"slices"

	"github.com/beka-birhanu/mazeflood/maze"
)

// HeadingField maps cells to the heading the robot leaves them with. Only cells on a traced path
// carry a direction; every other cell is maze.Unknown.
type HeadingField struct {
	size     int
	headings []maze.Direction
}

func newHeadingField(size int) *HeadingField {
	h := &HeadingField{size: size, headings: make([]maze.Direction, size*size)}
	for i := range h.headings {
		h.headings[i] = maze.Unknown
	}
	return h
}

// NewHeadingField rebuilds a field from raw values.
func NewHeadingField(size int, values []maze.Direction) (*HeadingField, error) {
	if size < maze.MinSize || size > maze.MaxSize || len(values) != size*size {
		return nil, fmt.Errorf("%w: %d headings for size %d", ErrFieldSize, len(values), size)
	}
	for i, d := range values {
		if d != maze.Unknown && !d.IsCardinal() {
			return nil, fmt.Errorf("%w: heading %d at index %d", ErrInvalidField, d, i)
		}
	}
	return &HeadingField{size: size, headings: slices.Clone(values)}, nil
}

// Size returns the side length of the field.
func (h *HeadingField) Size() int {
	return h.size
}

// At returns the heading recorded for (x, y), or maze.Unknown.
func (h *HeadingField) At(x, y int) maze.Direction {
	if x < 0 || y < 0 || x >= h.size || y >= h.size {
		return maze.Unknown
	}
	return h.headings[y*h.size+x]
}

// Values returns a copy of the headings in cell-index order.
func (h *HeadingField) Values() []maze.Direction {
	return slices.Clone(h.headings)
}

func (h *HeadingField) set(p maze.CellPosition, d maze.Direction) {
	h.headings[p.Y*h.size+p.X] = d
}

// BestDirection picks the steepest-descent heading out of (x, y).
//
// Directions are scanned clockwise starting at preferred. A direction wins only if its open neighbor
// is strictly cheaper than the best seen so far, starting from the cell's own cost, so the first
// direction in scan order wins a tie. Starting at the current heading therefore keeps the robot going
// straight when turning is no cheaper. With no cheaper neighbor preferred is returned unchanged.
//
// Unknown is returned for cells outside the grid or with infinite cost. An Unknown preferred heading
// scans from North and comes back Unknown if nothing improves.
func BestDirection(g *maze.Grid, costs *CostField, x, y int, preferred maze.Direction) maze.Direction {
	if !g.InBounds(x, y) {
		return maze.Unknown
	}
	best := costs.At(x, y)
	if best >= Infinity {
		return maze.Unknown
	}

	first := preferred
	if !first.IsCardinal() {
		first = maze.North
	}
	result := preferred
	for k := 0; k < maze.DirectionCount; k++ {
		d := first.Next(k)
		if g.WallExists(x, y, d) {
			continue
		}
		n := maze.CellPosition{X: x, Y: y}.Step(d)
		if c := costs.At(n.X, n.Y); c < best {
			best = c
			result = d
		}
	}
	return result
}

// Arrow returns a single-character glyph for d.
func Arrow(d maze.Direction) rune {
	switch d {
	case maze.North:
		return '^'
	case maze.East:
		return '>'
	case maze.South:
		return 'v'
	case maze.West:
		return '<'
	default:
		return 0
	}
}
