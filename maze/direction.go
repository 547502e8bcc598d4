package maze

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal headings, or Unknown.
// The numeric order North, East, South, West is the cyclic scan order used by the solver.
type Direction int8

const (
	North Direction = iota
	East
	South
	West
	Unknown
)

// DirectionCount is the number of cardinal directions.
const DirectionCount = 4

// Wall bitmask values returned by Grid.Walls.
const (
	NorthBit uint8 = 1 << iota
	EastBit
	SouthBit
	WestBit
)

var (
	// Directions lists the cardinal directions in scan order.
	Directions = [DirectionCount]Direction{North, East, South, West}

	// deltas holds the (dx, dy) step for each cardinal direction; y grows northward.
	deltas = [DirectionCount]CellPosition{
		North: {X: 0, Y: 1},
		East:  {X: 1, Y: 0},
		South: {X: 0, Y: -1},
		West:  {X: -1, Y: 0},
	}

	directionBits = [DirectionCount]uint8{NorthBit, EastBit, SouthBit, WestBit}
	directionName = [...]string{"North", "East", "South", "West", "Unknown"}
)

// IsCardinal reports whether d is one of North, East, South or West.
func (d Direction) IsCardinal() bool {
	return d >= North && d <= West
}

// Next returns the direction k steps clockwise from d.
// d must be cardinal.
func (d Direction) Next(k int) Direction {
	return Direction((int(d) + k) % DirectionCount)
}

// Opposite returns the reverse heading. Unknown stays Unknown.
func (d Direction) Opposite() Direction {
	if !d.IsCardinal() {
		return Unknown
	}
	return d.Next(2)
}

// Delta returns the one-cell step for d.
func (d Direction) Delta() CellPosition {
	mustCardinal(d)
	return deltas[d]
}

// Bit returns the Walls bitmask bit for d.
func (d Direction) Bit() uint8 {
	mustCardinal(d)
	return directionBits[d]
}

func (d Direction) String() string {
	if d < North || int(d) >= len(directionName) {
		return fmt.Sprintf("Direction(%d)", d)
	}
	return directionName[d]
}

// ParseDirection accepts full names or their first letter, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// mustCardinal panics on a direction that cannot address a wall; this is caller misuse, not input error.
func mustCardinal(d Direction) {
	if !d.IsCardinal() {
		panic(fmt.Sprintf("maze: invalid direction %d", d))
	}
}
