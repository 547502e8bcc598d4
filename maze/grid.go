package maze

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// MinSize and MaxSize bound the side length of a grid.
	MinSize = 1
	MaxSize = 64

	// ClassicSize is the side length of a standard competition maze.
	ClassicSize = 16

	wallBit  uint8 = 1 << 0 // wall is present
	knownBit uint8 = 1 << 1 // wall state has been observed
	slotMask       = wallBit | knownBit

	layerEast  = 0
	layerNorth = 1
	layerCount = 2
)

var (
	ErrInvalidSize      = errors.New("invalid maze size")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrCellOutOfBounds  = errors.New("cell is outside the maze")
	ErrInvalidSnapshot  = errors.New("invalid maze snapshot")
)

// Grid holds the wall and known state of a square maze plus its home and goal cells.
//
// Every physical wall owns exactly one storage slot. East and North walls of a cell are stored
// against that cell; West and South walls are rewritten to the East or North wall of the adjacent
// cell, so two queries naming the same wall always agree. Walls on the outer edge are implicit: they
// are always present and known and cannot be edited.
//
// Grid is not safe for concurrent use. Callers serialize edits and solves on the same instance.
type Grid struct {
	size    int
	walls   []uint8 // one slot per wall, indexed by x + y*size + layer*size*size
	start   []CellPosition
	goals   []CellPosition
	version uint64
}

// New creates an empty grid: no interior walls, nothing known, no start or goal cells.
func New(size int) (*Grid, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidSize, size, MinSize, MaxSize)
	}
	return &Grid{
		size:  size,
		walls: make([]uint8, size*size*layerCount),
	}, nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// CellCount returns size*size.
func (g *Grid) CellCount() int {
	return g.size * g.size
}

// Version increases on every effective change to walls, known flags, start or goals.
func (g *Grid) Version() uint64 {
	return g.version
}

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// CellIndex maps an in-bounds cell to its row-major index y*size+x.
func (g *Grid) CellIndex(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("maze: cell (%d,%d) outside %dx%d grid", x, y, g.size, g.size))
	}
	return y*g.size + x
}

// IndexToCell is the inverse of CellIndex.
func (g *Grid) IndexToCell(i int) CellPosition {
	if i < 0 || i >= g.CellCount() {
		panic(fmt.Sprintf("maze: cell index %d outside %dx%d grid", i, g.size, g.size))
	}
	return CellPosition{X: i % g.size, Y: i / g.size}
}

// Neighbor returns the cell one step from (x, y) in direction d and whether it lies inside the grid.
func (g *Grid) Neighbor(x, y int, d Direction) (CellPosition, bool) {
	n := CellPosition{X: x, Y: y}.Step(d)
	return n, g.InBounds(n.X, n.Y)
}

// wallSlot resolves a wall to its canonical storage slot. ok is false for boundary walls, that is when
// either the cell or the cell across the wall lies outside the grid.
func (g *Grid) wallSlot(x, y int, d Direction) (slot int, ok bool) {
	mustCardinal(d)
	if _, inside := g.Neighbor(x, y, d); !inside || !g.InBounds(x, y) {
		return 0, false
	}

	layer := layerEast
	switch d {
	case North:
		layer = layerNorth
	case West:
		x--
	case South:
		y--
		layer = layerNorth
	}
	return x + y*g.size + layer*g.size*g.size, true
}

// WallExists reports whether a wall blocks movement from (x, y) toward d.
// Walls on or beyond the outer edge always exist.
func (g *Grid) WallExists(x, y int, d Direction) bool {
	slot, ok := g.wallSlot(x, y, d)
	if !ok {
		return true
	}
	return g.walls[slot]&wallBit != 0
}

// IsKnown reports whether the wall between (x, y) and its neighbor toward d has been observed.
// Boundary walls are always known.
func (g *Grid) IsKnown(x, y int, d Direction) bool {
	slot, ok := g.wallSlot(x, y, d)
	if !ok {
		return true
	}
	return g.walls[slot]&knownBit != 0
}

// SetWall marks the wall present and known. Boundary walls are left untouched.
func (g *Grid) SetWall(x, y int, d Direction) {
	g.update(x, y, d, wallBit|knownBit)
}

// ClearWall marks the wall absent and known. Boundary walls are left untouched.
func (g *Grid) ClearWall(x, y int, d Direction) {
	g.update(x, y, d, knownBit)
}

// ToggleWall flips an interior wall and marks it known. It reports whether the wall is now present.
func (g *Grid) ToggleWall(x, y int, d Direction) bool {
	if g.WallExists(x, y, d) {
		g.ClearWall(x, y, d)
	} else {
		g.SetWall(x, y, d)
	}
	return g.WallExists(x, y, d)
}

// SetKnown changes only the known flag of a wall.
func (g *Grid) SetKnown(x, y int, d Direction, known bool) {
	slot, ok := g.wallSlot(x, y, d)
	if !ok {
		return
	}
	state := g.walls[slot] &^ knownBit
	if known {
		state |= knownBit
	}
	g.store(slot, state)
}

// Walls returns the NorthBit|EastBit|SouthBit|WestBit mask of walls around (x, y).
func (g *Grid) Walls(x, y int) uint8 {
	var mask uint8
	for _, d := range Directions {
		if g.WallExists(x, y, d) {
			mask |= d.Bit()
		}
	}
	return mask
}

func (g *Grid) update(x, y int, d Direction, state uint8) {
	slot, ok := g.wallSlot(x, y, d)
	if !ok {
		return
	}
	g.store(slot, state)
}

func (g *Grid) store(slot int, state uint8) {
	if g.walls[slot] == state {
		return
	}
	g.walls[slot] = state
	g.version++
}

// Start returns a copy of the home cells.
func (g *Grid) Start() []CellPosition {
	return slices.Clone(g.start)
}

// Goals returns a copy of the goal cells in insertion order.
func (g *Grid) Goals() []CellPosition {
	return slices.Clone(g.goals)
}

// IsHome reports whether p is a home cell.
func (g *Grid) IsHome(p CellPosition) bool {
	return containsCell(g.start, p)
}

// IsGoal reports whether p is a goal cell.
func (g *Grid) IsGoal(p CellPosition) bool {
	return containsCell(g.goals, p)
}

// SetStart replaces the home cells.
func (g *Grid) SetStart(cells ...CellPosition) error {
	if err := g.checkCells(cells); err != nil {
		return err
	}
	if slices.Equal(g.start, cells) {
		return nil
	}
	g.start = slices.Clone(cells)
	g.version++
	return nil
}

// AddGoal appends p to the goal cells if it is not already one.
func (g *Grid) AddGoal(p CellPosition) error {
	if err := g.checkCells([]CellPosition{p}); err != nil {
		return err
	}
	if g.IsGoal(p) {
		return nil
	}
	g.goals = append(g.goals, p)
	g.version++
	return nil
}

// RemoveGoal drops p from the goal cells.
func (g *Grid) RemoveGoal(p CellPosition) {
	if !g.IsGoal(p) {
		return
	}
	g.goals = removeCell(g.goals, p)
	g.version++
}

// ToggleGoal adds p as a goal or removes it, reporting whether p is a goal afterwards.
func (g *Grid) ToggleGoal(p CellPosition) (bool, error) {
	if g.IsGoal(p) {
		g.RemoveGoal(p)
		return false, nil
	}
	if err := g.AddGoal(p); err != nil {
		return false, err
	}
	return true, nil
}

func (g *Grid) checkCells(cells []CellPosition) error {
	for _, c := range cells {
		if !g.InBounds(c.X, c.Y) {
			return fmt.Errorf("%w: %s in %dx%d grid", ErrCellOutOfBounds, c, g.size, g.size)
		}
	}
	return nil
}

// Snapshot is the flat, serializable form of a Grid.
type Snapshot struct {
	Size    int            `json:"size" bson:"size"`
	Walls   []byte         `json:"walls" bson:"walls"`
	Start   []CellPosition `json:"start" bson:"start"`
	Goals   []CellPosition `json:"goals" bson:"goals"`
	Version uint64         `json:"version" bson:"version"`
}

// Snapshot copies the grid state.
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{
		Size:    g.size,
		Walls:   slices.Clone(g.walls),
		Start:   g.Start(),
		Goals:   g.Goals(),
		Version: g.version,
	}
}

// Restore rebuilds a grid from a snapshot, keeping its version.
func Restore(s Snapshot) (*Grid, error) {
	g, err := New(s.Size)
	if err != nil {
		return nil, err
	}
	if len(s.Walls) != len(g.walls) {
		return nil, fmt.Errorf("%w: %d wall slots, want %d", ErrInvalidSnapshot, len(s.Walls), len(g.walls))
	}
	for i, w := range s.Walls {
		if w&^slotMask != 0 {
			return nil, fmt.Errorf("%w: wall slot %d has bits %#x", ErrInvalidSnapshot, i, w)
		}
	}
	if err := g.checkCells(s.Start); err != nil {
		return nil, fmt.Errorf("%w: start: %w", ErrInvalidSnapshot, err)
	}
	if err := g.checkCells(s.Goals); err != nil {
		return nil, fmt.Errorf("%w: goals: %w", ErrInvalidSnapshot, err)
	}

	copy(g.walls, s.Walls)
	g.start = slices.Clone(s.Start)
	g.goals = slices.Clone(s.Goals)
	g.version = s.Version
	return g, nil
}
