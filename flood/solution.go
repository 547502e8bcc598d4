package flood

import (
	"fmt"
	"slices"

	"github.com/beka-birhanu/mazeflood/maze"
)

const pathMark = '*'

// Solution is an immutable snapshot of costs, headings and path for one grid version.
type Solution struct {
	GridVersion uint64
	Size        int
	Roots       []maze.CellPosition
	Costs       *CostField
	Headings    *HeadingField
	Path        []maze.CellPosition
	Found       bool
}

// Solve floods g from roots, falling back to the grid's goals when roots is empty, and traces the
// path from the home cell.
func Solve(g *maze.Grid, roots []maze.CellPosition) (*Solution, error) {
	if len(roots) == 0 {
		roots = g.Goals()
	}
	costs, err := Compute(g, roots)
	if err != nil {
		return nil, err
	}
	trace, err := TracePath(g, costs)
	if err != nil {
		return nil, err
	}
	return &Solution{
		GridVersion: g.Version(),
		Size:        g.Size(),
		Roots:       slices.Clone(roots),
		Costs:       costs,
		Headings:    trace.Headings,
		Path:        trace.Path,
		Found:       trace.Found,
	}, nil
}

// Validate returns ErrStaleSolution if g has changed since s was computed.
func (s *Solution) Validate(g *maze.Grid) error {
	if s.Size != g.Size() {
		return fmt.Errorf("%w: solution size %d, maze size %d", ErrFieldSize, s.Size, g.Size())
	}
	if s.GridVersion != g.Version() {
		return fmt.Errorf("%w: solution version %d, maze version %d", ErrStaleSolution, s.GridVersion, g.Version())
	}
	return nil
}

// Steps returns the number of moves on the path, or -1 when there is none.
func (s *Solution) Steps() int {
	if !s.Found {
		return -1
	}
	return len(s.Path) - 1
}

// Render draws g with an arrow on each path cell showing the heading taken out of it.
func (s *Solution) Render(g *maze.Grid) string {
	onPath := make(map[maze.CellPosition]bool, len(s.Path))
	for _, p := range s.Path {
		onPath[p] = true
	}
	return g.Render(func(p maze.CellPosition) rune {
		if r := Arrow(s.Headings.At(p.X, p.Y)); r != 0 {
			return r
		}
		if onPath[p] && !g.IsGoal(p) {
			return pathMark
		}
		return 0
	})
}
