// Package flood computes flood-fill cost maps over a maze.Grid and traces the route a robot follows
// from its home cell down the cost gradient to the nearest goal.
package flood

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/beka-birhanu/mazeflood/maze"
)

// Infinity is the cost of a cell no root can reach.
const Infinity = math.MaxInt32

// maxEnqueuesPerCell bounds BFS work; a unit-weight BFS enqueues each cell at most once.
const maxEnqueuesPerCell = 4

var (
	ErrNoRoots         = errors.New("flood: no root cells")
	ErrRootOutOfBounds = errors.New("flood: root cell outside the maze")
	ErrQueueOverflow   = errors.New("flood: enqueue bound exceeded")
	ErrFieldSize       = errors.New("flood: field does not match maze size")
	ErrInvalidField    = errors.New("flood: invalid field values")
)

// CostField maps every cell to its hop distance from the nearest root.
// Cells with Infinity are unreachable. A CostField is never modified after Compute returns.
type CostField struct {
	size     int
	costs    []int // indexed by y*size+x
	version  uint64
	enqueued int
}

// ComputeFromGoals runs Compute with the grid's goal cells as roots.
func ComputeFromGoals(g *maze.Grid) (*CostField, error) {
	return Compute(g, g.Goals())
}

// Compute runs a multi-source breadth-first search from roots. Every root costs 0 and each other
// cell costs one more than its cheapest wall-free neighbor.
func Compute(g *maze.Grid, roots []maze.CellPosition) (*CostField, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	cells := g.CellCount()
	f := &CostField{
		size:    g.Size(),
		costs:   make([]int, cells),
		version: g.Version(),
	}
	for i := range f.costs {
		f.costs[i] = Infinity
	}

	queue := make([]int, 0, cells)
	for _, r := range roots {
		if !g.InBounds(r.X, r.Y) {
			return nil, fmt.Errorf("%w: %s", ErrRootOutOfBounds, r)
		}
		i := g.CellIndex(r.X, r.Y)
		if f.costs[i] == 0 {
			continue
		}
		f.costs[i] = 0
		queue = append(queue, i)
	}
	f.enqueued = len(queue)

	limit := maxEnqueuesPerCell * cells
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		here := g.IndexToCell(i)
		next := f.costs[i] + 1

		for _, d := range maze.Directions {
			if g.WallExists(here.X, here.Y, d) {
				continue
			}
			n := here.Step(d)
			ni := g.CellIndex(n.X, n.Y)
			if f.costs[ni] <= next {
				continue
			}
			f.costs[ni] = next
			queue = append(queue, ni)
			f.enqueued++
			if f.enqueued > limit {
				return nil, fmt.Errorf("%w: %d enqueues for %d cells", ErrQueueOverflow, f.enqueued, cells)
			}
		}
	}
	return f, nil
}

// NewCostField rebuilds a field from raw values, for example after decoding a cached solution.
func NewCostField(size int, version uint64, values []int) (*CostField, error) {
	if size < maze.MinSize || size > maze.MaxSize || len(values) != size*size {
		return nil, fmt.Errorf("%w: %d values for size %d", ErrFieldSize, len(values), size)
	}
	for i, v := range values {
		if v < 0 || v > Infinity {
			return nil, fmt.Errorf("%w: cost %d at index %d", ErrInvalidField, v, i)
		}
	}
	return &CostField{size: size, costs: slices.Clone(values), version: version}, nil
}

// Size returns the side length of the grid the field was computed for.
func (f *CostField) Size() int {
	return f.size
}

// GridVersion returns the grid version the field was computed from.
func (f *CostField) GridVersion() uint64 {
	return f.version
}

// Enqueued returns how many cells the search enqueued, roots included.
func (f *CostField) Enqueued() int {
	return f.enqueued
}

// At returns the cost of (x, y), or Infinity outside the grid.
func (f *CostField) At(x, y int) int {
	if x < 0 || y < 0 || x >= f.size || y >= f.size {
		return Infinity
	}
	return f.costs[y*f.size+x]
}

// Reachable reports whether (x, y) has a finite cost.
func (f *CostField) Reachable(x, y int) bool {
	return f.At(x, y) < Infinity
}

// Values returns a copy of the costs in cell-index order.
func (f *CostField) Values() []int {
	return slices.Clone(f.costs)
}

// MaxFinite returns the largest finite cost, or -1 when nothing is reachable.
func (f *CostField) MaxFinite() int {
	best := -1
	for _, c := range f.costs {
		if c < Infinity && c > best {
			best = c
		}
	}
	return best
}

// String prints the field north row first, four characters per cell.
func (f *CostField) String() string {
	var b strings.Builder
	for y := f.size - 1; y >= 0; y-- {
		for x := 0; x < f.size; x++ {
			cell := "inf"
			if c := f.At(x, y); c < Infinity {
				cell = strconv.Itoa(c)
			}
			fmt.Fprintf(&b, "%4s", cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
