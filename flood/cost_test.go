package flood

import (
	"math/rand"
	"testing"

	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openGrid returns a size x size grid with every interior wall known and absent.
func openGrid(t *testing.T, size int) *maze.Grid {
	t.Helper()
	g, err := maze.New(size)
	require.NoError(t, err)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			g.ClearWall(x, y, maze.North)
			g.ClearWall(x, y, maze.East)
		}
	}
	return g
}

// twoByTwo is the open 2x2 maze with home (0,0) and goal (1,1).
func twoByTwo(t *testing.T) *maze.Grid {
	t.Helper()
	g := openGrid(t, 2)
	require.NoError(t, g.SetStart(maze.CellPosition{X: 0, Y: 0}))
	require.NoError(t, g.AddGoal(maze.CellPosition{X: 1, Y: 1}))
	return g
}

// braided returns a generated maze with some extra walls knocked out so it has loops.
func braided(t *testing.T, size int, seed int64) *maze.Grid {
	t.Helper()
	g, err := maze.Generate(size, seed)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < size*size/4; i++ {
		d := maze.Directions[rng.Intn(maze.DirectionCount)]
		g.ClearWall(rng.Intn(size), rng.Intn(size), d)
	}
	return g
}

func TestCompute(t *testing.T) {
	t.Run("two by two open maze", func(t *testing.T) {
		g := twoByTwo(t)
		costs, err := ComputeFromGoals(g)
		require.NoError(t, err)

		assert.Equal(t, 0, costs.At(1, 1))
		assert.Equal(t, 1, costs.At(0, 1))
		assert.Equal(t, 1, costs.At(1, 0))
		assert.Equal(t, 2, costs.At(0, 0))
		assert.Equal(t, "   1   0\n   2   1\n", costs.String())
	})

	t.Run("rejects empty roots", func(t *testing.T) {
		g := openGrid(t, 3)
		_, err := Compute(g, nil)
		assert.ErrorIs(t, err, ErrNoRoots)

		_, err = ComputeFromGoals(g)
		assert.ErrorIs(t, err, ErrNoRoots)
	})

	t.Run("rejects roots outside the maze", func(t *testing.T) {
		g := openGrid(t, 3)
		_, err := Compute(g, []maze.CellPosition{{X: 1, Y: 1}, {X: 3, Y: 0}})
		assert.ErrorIs(t, err, ErrRootOutOfBounds)
	})

	t.Run("enclosed cell stays infinite", func(t *testing.T) {
		g := openGrid(t, 5)
		for _, d := range maze.Directions {
			g.SetWall(2, 2, d)
		}
		costs, err := Compute(g, []maze.CellPosition{{X: 0, Y: 0}})
		require.NoError(t, err)

		assert.Equal(t, Infinity, costs.At(2, 2))
		assert.False(t, costs.Reachable(2, 2))
		assert.Equal(t, 8, costs.At(4, 4))
		assert.Equal(t, 8, costs.MaxFinite())
		assert.Contains(t, costs.String(), " inf")
	})

	t.Run("out of bounds reads are infinite", func(t *testing.T) {
		g := twoByTwo(t)
		costs, err := ComputeFromGoals(g)
		require.NoError(t, err)
		assert.Equal(t, Infinity, costs.At(-1, 0))
		assert.Equal(t, Infinity, costs.At(0, 2))
	})

	t.Run("multiple roots measure to the nearest", func(t *testing.T) {
		g := openGrid(t, 7)
		costs, err := Compute(g, []maze.CellPosition{{X: 0, Y: 0}, {X: 6, Y: 6}, {X: 0, Y: 0}})
		require.NoError(t, err)
		assert.Equal(t, 0, costs.At(6, 6))
		assert.Equal(t, 3, costs.At(3, 0))
		assert.Equal(t, 6, costs.At(3, 3))
		assert.Equal(t, 2, costs.At(6, 4))
	})
}

func TestComputeProperties(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		g := braided(t, 12, seed)
		costs, err := ComputeFromGoals(g)
		require.NoError(t, err)

		t.Run("each cost is one more than the cheapest open neighbour", func(t *testing.T) {
			for i := 0; i < g.CellCount(); i++ {
				c := g.IndexToCell(i)
				best := Infinity
				for _, d := range maze.Directions {
					if g.WallExists(c.X, c.Y, d) {
						continue
					}
					n := c.Step(d)
					best = min(best, costs.At(n.X, n.Y))
				}
				switch {
				case g.IsGoal(c):
					assert.Equal(t, 0, costs.At(c.X, c.Y))
				case best == Infinity:
					assert.Equal(t, Infinity, costs.At(c.X, c.Y), "cell %s", c)
				default:
					assert.Equal(t, best+1, costs.At(c.X, c.Y), "cell %s", c)
				}
			}
		})

		t.Run("enqueues stay bounded", func(t *testing.T) {
			assert.LessOrEqual(t, costs.Enqueued(), 4*g.CellCount())
			assert.LessOrEqual(t, costs.Enqueued(), g.CellCount())
		})

		t.Run("recomputing is idempotent", func(t *testing.T) {
			again, err := ComputeFromGoals(g)
			require.NoError(t, err)
			assert.Equal(t, costs.Values(), again.Values())
		})
	}
}

func TestComputeOpeningWallOnlyLowersCosts(t *testing.T) {
	g := openGrid(t, 6)
	// Seal the east half off from the west half.
	for y := 0; y < 6; y++ {
		g.SetWall(2, y, maze.East)
	}
	require.NoError(t, g.AddGoal(maze.CellPosition{X: 0, Y: 0}))

	before, err := ComputeFromGoals(g)
	require.NoError(t, err)
	assert.False(t, before.Reachable(5, 5))

	g.ClearWall(2, 4, maze.East)
	after, err := ComputeFromGoals(g)
	require.NoError(t, err)

	newlyReached := 0
	for i := 0; i < g.CellCount(); i++ {
		c := g.IndexToCell(i)
		assert.LessOrEqual(t, after.At(c.X, c.Y), before.At(c.X, c.Y), "cell %s", c)
		if !before.Reachable(c.X, c.Y) && after.Reachable(c.X, c.Y) {
			newlyReached++
		}
	}
	assert.Equal(t, 18, newlyReached)
	assert.Equal(t, 10, after.At(5, 5))
}

func TestNewCostField(t *testing.T) {
	f, err := NewCostField(2, 7, []int{2, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), f.GridVersion())
	assert.Equal(t, 1, f.At(1, 0))

	_, err = NewCostField(2, 0, []int{0, 1, 2})
	assert.ErrorIs(t, err, ErrFieldSize)

	_, err = NewCostField(2, 0, []int{0, 1, -2, 3})
	assert.ErrorIs(t, err, ErrInvalidField)
}
