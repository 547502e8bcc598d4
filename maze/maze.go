/*
Package maze models square micromouse mazes.

It defines the `Grid` structure, which stores one bit-encoded slot per physical wall together with a
known flag, and the home and goal cells. The outer boundary is implicit and always walled.

The package also reads and writes the text and 256-byte binary maze layouts, and generates random
perfect mazes with Wilson's algorithm.
*/
package maze

import (
	"math/rand"
	"time"
)

// Generate creates a perfect maze (exactly one route between any two cells) using Wilson's
// loop-erased random walk. Every wall is known. The home cell is (0,0) and the goals are the centre
// cells. A zero seed picks a time-based one.
func Generate(size int, seed int64) (*Grid, error) {
	g, err := New(size)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g.closeAll()
	visited := make([]bool, g.CellCount())
	first := g.randomCell(rng)
	visited[g.CellIndex(first.X, first.Y)] = true
	remaining := g.CellCount() - 1

	for remaining > 0 {
		start, exits := g.randomWalk(rng, visited)
		// Follow the last exit taken from each cell; loops in the walk are erased this way.
		for cell := start; !visited[g.CellIndex(cell.X, cell.Y)]; {
			d := exits[cell]
			g.ClearWall(cell.X, cell.Y, d)
			visited[g.CellIndex(cell.X, cell.Y)] = true
			remaining--
			cell = cell.Step(d)
		}
	}

	if err := g.SetStart(CellPosition{X: 0, Y: 0}); err != nil {
		return nil, err
	}
	for _, goal := range centreCells(size) {
		if err := g.AddGoal(goal); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// closeAll sets every interior wall.
func (g *Grid) closeAll() {
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			g.SetWall(x, y, North)
			g.SetWall(x, y, East)
		}
	}
}

// randomCell picks a uniformly random cell.
func (g *Grid) randomCell(rng *rand.Rand) CellPosition {
	return CellPosition{X: rng.Intn(g.size), Y: rng.Intn(g.size)}
}

// randomUnvisitedCell selects a random cell that is not yet part of the maze.
func (g *Grid) randomUnvisitedCell(rng *rand.Rand, visited []bool) CellPosition {
	for {
		pos := g.randomCell(rng)
		if !visited[g.CellIndex(pos.X, pos.Y)] {
			return pos
		}
	}
}

// randomWalk wanders from an unvisited cell until it reaches the maze, recording the last exit taken
// from every cell it passes.
func (g *Grid) randomWalk(rng *rand.Rand, visited []bool) (CellPosition, map[CellPosition]Direction) {
	start := g.randomUnvisitedCell(rng, visited)
	exits := make(map[CellPosition]Direction)
	cell := start

	for {
		options := make([]Direction, 0, DirectionCount)
		for _, d := range Directions {
			if _, ok := g.Neighbor(cell.X, cell.Y, d); ok {
				options = append(options, d)
			}
		}
		d := options[rng.Intn(len(options))]
		exits[cell] = d
		cell = cell.Step(d)
		if visited[g.CellIndex(cell.X, cell.Y)] {
			break
		}
	}
	return start, exits
}

// centreCells returns the one (odd size) or four (even size) middle cells.
func centreCells(size int) []CellPosition {
	c := size / 2
	if size%2 == 1 {
		return []CellPosition{{X: c, Y: c}}
	}
	return []CellPosition{{X: c - 1, Y: c - 1}, {X: c - 1, Y: c}, {X: c, Y: c - 1}, {X: c, Y: c}}
}
