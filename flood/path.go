package flood

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/mazeflood/maze"
)

var (
	ErrStaleSolution = errors.New("flood: field is stale for the current maze")
	ErrStepLimit     = errors.New("flood: path step limit reached")
	ErrPathStalled   = errors.New("flood: path stopped descending")
)

// Trace is the outcome of TracePath. When Found is false Path is nil and the home cell's heading is
// maze.South, meaning the robot cannot proceed.
type Trace struct {
	Headings *HeadingField
	Path     []maze.CellPosition
	Found    bool
}

// HomeCell returns the first start cell of g, or (0,0) when none is set.
func HomeCell(g *maze.Grid) maze.CellPosition {
	if start := g.Start(); len(start) > 0 {
		return start[0]
	}
	return maze.CellPosition{X: 0, Y: 0}
}

// TracePath walks from the home cell, initially heading North, taking BestDirection at each cell
// until it stands on a goal or a root. The path starts with the home cell.
//
// The walk is capped at size*size steps and every step must strictly lower the cost; either
// violation means costs does not describe g and is returned as an error rather than looping.
func TracePath(g *maze.Grid, costs *CostField) (*Trace, error) {
	if costs.Size() != g.Size() {
		return nil, fmt.Errorf("%w: field %d, maze %d", ErrFieldSize, costs.Size(), g.Size())
	}
	if costs.GridVersion() != g.Version() {
		return nil, fmt.Errorf("%w: field version %d, maze version %d", ErrStaleSolution, costs.GridVersion(), g.Version())
	}

	headings := newHeadingField(g.Size())
	pos := HomeCell(g)
	if !g.InBounds(pos.X, pos.Y) {
		return nil, fmt.Errorf("%w: home %s", maze.ErrCellOutOfBounds, pos)
	}
	if !costs.Reachable(pos.X, pos.Y) {
		headings.set(pos, maze.South)
		return &Trace{Headings: headings}, nil
	}

	path := []maze.CellPosition{pos}
	heading := maze.North
	limit := g.CellCount()
	for steps := 0; !g.IsGoal(pos) && costs.At(pos.X, pos.Y) != 0; steps++ {
		if steps >= limit {
			return nil, fmt.Errorf("%w: %d steps", ErrStepLimit, steps)
		}
		d := BestDirection(g, costs, pos.X, pos.Y, heading)
		next := pos.Step(d)
		if g.WallExists(pos.X, pos.Y, d) || costs.At(next.X, next.Y) >= costs.At(pos.X, pos.Y) {
			return nil, fmt.Errorf("%w: at %s heading %s", ErrPathStalled, pos, d)
		}
		headings.set(pos, d)
		path = append(path, next)
		pos, heading = next, d
	}
	return &Trace{Headings: headings, Path: path, Found: true}, nil
}
