package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openTwoByTwo = `o---o---o
| G     |
o   o   o
| S     |
o---o---o
`

func TestMazeServiceCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := uuid.New()

	t.Run("empty", func(t *testing.T) {
		m, err := f.svc.Create(ctx, owner, "blank", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, m.Grid.Size())
		assert.True(t, f.logger.contains("INFO", "created maze "+m.ID.String()))

		stored, err := f.svc.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, stored.OwnerID)
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := f.svc.Create(ctx, owner, "huge", maze.MaxSize+1)
		assert.ErrorIs(t, err, maze.ErrInvalidSize)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := f.svc.Create(ctx, owner, "  ", 4)
		assert.ErrorIs(t, err, dmn.ErrMazeNameEmpty)
	})

	t.Run("text import", func(t *testing.T) {
		m, err := f.svc.Import(ctx, owner, "tiny", strings.NewReader(openTwoByTwo))
		require.NoError(t, err)
		assert.Equal(t, []maze.CellPosition{{X: 0, Y: 1}}, m.Grid.Goals())
	})

	t.Run("binary import", func(t *testing.T) {
		m, err := f.svc.ImportBinary(ctx, owner, "classic", make([]byte, maze.BinarySize))
		require.NoError(t, err)
		assert.Equal(t, maze.ClassicSize, m.Grid.Size())

		_, err = f.svc.ImportBinary(ctx, owner, "short", []byte{1, 2, 3})
		assert.ErrorIs(t, err, maze.ErrInvalidBinary)
	})

	t.Run("generate", func(t *testing.T) {
		m, err := f.svc.Generate(ctx, owner, "gen", 6, 17)
		require.NoError(t, err)
		g, err := maze.Generate(6, 17)
		require.NoError(t, err)
		assert.Equal(t, g.Text(), m.Grid.Text())
	})

	t.Run("list by owner", func(t *testing.T) {
		list, err := f.svc.ListByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, list, 4)
	})
}

func TestMazeServiceEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := uuid.New()
	m, err := f.svc.Import(ctx, owner, "tiny", strings.NewReader(openTwoByTwo))
	require.NoError(t, err)
	version := m.Grid.Version()

	t.Run("set wall persists and bumps the version", func(t *testing.T) {
		edited, err := f.svc.SetWall(ctx, owner, m.ID, maze.CellPosition{X: 0, Y: 0}, maze.North)
		require.NoError(t, err)
		assert.True(t, edited.Grid.WallExists(0, 0, maze.North))
		assert.Greater(t, edited.Grid.Version(), version)

		stored, err := f.svc.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, stored.Grid.WallExists(0, 1, maze.South))
		version = stored.Grid.Version()
	})

	t.Run("boundary walls are not editable", func(t *testing.T) {
		edited, err := f.svc.ClearWall(ctx, owner, m.ID, maze.CellPosition{X: 0, Y: 0}, maze.West)
		require.NoError(t, err)
		assert.True(t, edited.Grid.WallExists(0, 0, maze.West))
		assert.Equal(t, version, edited.Grid.Version())
	})

	t.Run("toggle wall", func(t *testing.T) {
		edited, err := f.svc.ToggleWall(ctx, owner, m.ID, maze.CellPosition{X: 0, Y: 0}, maze.North)
		require.NoError(t, err)
		assert.False(t, edited.Grid.WallExists(0, 0, maze.North))
	})

	t.Run("clear wall", func(t *testing.T) {
		_, err := f.svc.SetWall(ctx, owner, m.ID, maze.CellPosition{X: 1, Y: 0}, maze.North)
		require.NoError(t, err)
		edited, err := f.svc.ClearWall(ctx, owner, m.ID, maze.CellPosition{X: 1, Y: 0}, maze.North)
		require.NoError(t, err)
		assert.False(t, edited.Grid.WallExists(1, 0, maze.North))
		assert.True(t, edited.Grid.IsKnown(1, 0, maze.North))
	})

	t.Run("out of bounds cell", func(t *testing.T) {
		_, err := f.svc.SetWall(ctx, owner, m.ID, maze.CellPosition{X: 2, Y: 0}, maze.North)
		assert.ErrorIs(t, err, maze.ErrCellOutOfBounds)
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := f.svc.SetWall(ctx, owner, m.ID, maze.CellPosition{X: 0, Y: 0}, maze.Unknown)
		assert.ErrorIs(t, err, maze.ErrInvalidDirection)
	})

	t.Run("toggle goal", func(t *testing.T) {
		edited, err := f.svc.ToggleGoal(ctx, owner, m.ID, maze.CellPosition{X: 1, Y: 1})
		require.NoError(t, err)
		assert.True(t, edited.Grid.IsGoal(maze.CellPosition{X: 1, Y: 1}))

		edited, err = f.svc.ToggleGoal(ctx, owner, m.ID, maze.CellPosition{X: 1, Y: 1})
		require.NoError(t, err)
		assert.False(t, edited.Grid.IsGoal(maze.CellPosition{X: 1, Y: 1}))
	})

	t.Run("set start", func(t *testing.T) {
		edited, err := f.svc.SetStart(ctx, owner, m.ID, maze.CellPosition{X: 1, Y: 0})
		require.NoError(t, err)
		assert.Equal(t, []maze.CellPosition{{X: 1, Y: 0}}, edited.Grid.Start())

		_, err = f.svc.SetStart(ctx, owner, m.ID, maze.CellPosition{X: 5, Y: 5})
		assert.ErrorIs(t, err, maze.ErrCellOutOfBounds)
	})

	t.Run("only the owner edits", func(t *testing.T) {
		_, err := f.svc.SetWall(ctx, uuid.New(), m.ID, maze.CellPosition{X: 0, Y: 0}, maze.East)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, f.svc.Delete(ctx, uuid.New(), m.ID), ErrForbidden)
	})

	t.Run("unknown maze", func(t *testing.T) {
		_, err := f.svc.ToggleGoal(ctx, owner, uuid.New(), maze.CellPosition{})
		assert.ErrorIs(t, err, dmn.ErrMazeNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, owner, m.ID))
		_, err := f.svc.Get(ctx, m.ID)
		assert.ErrorIs(t, err, dmn.ErrMazeNotFound)
	})
}

func TestMazeServiceSolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := uuid.New()
	m, err := f.svc.Import(ctx, owner, "tiny", strings.NewReader(openTwoByTwo))
	require.NoError(t, err)

	t.Run("solves from the goals", func(t *testing.T) {
		sol, got, err := f.svc.Solve(ctx, m.ID, nil)
		require.NoError(t, err)
		assert.True(t, sol.Found)
		assert.Equal(t, []maze.CellPosition{{X: 0, Y: 0}, {X: 0, Y: 1}}, sol.Path)
		assert.NoError(t, sol.Validate(got.Grid))
		assert.Zero(t, f.cache.hits)
	})

	t.Run("second solve hits the cache", func(t *testing.T) {
		_, _, err := f.svc.Solve(ctx, m.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.hits)
	})

	t.Run("an edit makes the cached entry unreachable", func(t *testing.T) {
		_, err := f.svc.SetWall(ctx, owner, m.ID, maze.CellPosition{X: 0, Y: 0}, maze.North)
		require.NoError(t, err)

		sol, got, err := f.svc.Solve(ctx, m.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.hits)
		assert.Equal(t, got.Grid.Version(), sol.GridVersion)
		assert.Equal(t, []maze.CellPosition{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, sol.Path)
	})

	t.Run("custom roots", func(t *testing.T) {
		sol, _, err := f.svc.Solve(ctx, m.ID, []maze.CellPosition{{X: 1, Y: 0}})
		require.NoError(t, err)
		assert.Equal(t, []maze.CellPosition{{X: 0, Y: 0}, {X: 1, Y: 0}}, sol.Path)
		assert.Equal(t, []maze.CellPosition{{X: 1, Y: 0}}, sol.Roots)
	})

	t.Run("root outside the maze", func(t *testing.T) {
		_, _, err := f.svc.Solve(ctx, m.ID, []maze.CellPosition{{X: 9, Y: 9}})
		assert.ErrorIs(t, err, flood.ErrRootOutOfBounds)
	})

	t.Run("no goals", func(t *testing.T) {
		blank, err := f.svc.Create(ctx, owner, "blank", 3)
		require.NoError(t, err)
		_, _, err = f.svc.Solve(ctx, blank.ID, nil)
		assert.ErrorIs(t, err, flood.ErrNoRoots)
	})

	t.Run("cache errors fall back to solving", func(t *testing.T) {
		f.cache.fail = errors.New("cache down")
		defer func() { f.cache.fail = nil }()

		sol, _, err := f.svc.Solve(ctx, m.ID, nil)
		require.NoError(t, err)
		assert.True(t, sol.Found)
		assert.True(t, f.logger.contains("WARN", "cache down"))
	})
}

func TestMazeServiceConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := uuid.New()
	m, err := f.svc.Create(ctx, owner, "busy", 8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for x := 0; x < 8; x++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			_, err := f.svc.SetWall(ctx, owner, m.ID, maze.CellPosition{X: x, Y: 3}, maze.North)
			assert.NoError(t, err)
		}(x)
	}
	wg.Wait()

	stored, err := f.svc.Get(ctx, m.ID)
	require.NoError(t, err)
	for x := 0; x < 8; x++ {
		assert.True(t, stored.Grid.WallExists(x, 3, maze.North), "no edit may be lost (x=%d)", x)
	}
}

func TestSolutionKey(t *testing.T) {
	id := uuid.MustParse("6f1c2b9e-0b7a-4d2e-9d7b-1f2a3b4c5d6e")

	assert.Equal(t, "6f1c2b9e-0b7a-4d2e-9d7b-1f2a3b4c5d6e:3:goals", SolutionKey(id, 3, nil))

	a := SolutionKey(id, 3, []maze.CellPosition{{X: 1, Y: 2}})
	b := SolutionKey(id, 3, []maze.CellPosition{{X: 2, Y: 1}})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, SolutionKey(id, 3, []maze.CellPosition{{X: 1, Y: 2}}))
	assert.NotEqual(t, a, SolutionKey(id, 4, []maze.CellPosition{{X: 1, Y: 2}}))
}

func TestNewMazeServiceRequiresDependencies(t *testing.T) {
	_, err := NewMazeService(nil)
	assert.ErrorIs(t, err, ErrNilDependency)
	_, err = NewMazeService(&MazeServiceConfig{})
	assert.ErrorIs(t, err, ErrNilDependency)
}
