package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const (
	mazeLockFmt    = "maze:%s"
	solutionKeyFmt = "%s:%d:%s"
	goalRootsKey   = "goals"
)

var ErrForbidden = errors.New("service: editor does not own the maze")

// MazeServiceConfig holds the dependencies of a MazeService.
type MazeServiceConfig struct {
	Repo   i.MazeRepo
	Cache  i.SolutionCache
	Locker i.Locker
	Logger i.Logger
}

// MazeService edits stored mazes and solves them. Edits and solves of the same maze run under one
// distributed lock so a solve always sees a whole edit.
type MazeService struct {
	repo   i.MazeRepo
	cache  i.SolutionCache
	locker i.Locker
	logger i.Logger
}

var (
	_ i.MazeEditor = &MazeService{}
	_ i.MazeSolver = &MazeService{}
)

// NewMazeService creates a MazeService.
func NewMazeService(c *MazeServiceConfig) (*MazeService, error) {
	if c == nil || c.Repo == nil || c.Cache == nil || c.Locker == nil || c.Logger == nil {
		return nil, ErrNilDependency
	}
	return &MazeService{
		repo:   c.Repo,
		cache:  c.Cache,
		locker: c.Locker,
		logger: c.Logger,
	}, nil
}

// Create stores an empty size x size maze.
func (s *MazeService) Create(ctx context.Context, owner uuid.UUID, name string, size int) (*dmn.Maze, error) {
	g, err := maze.New(size)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, owner, name, g)
}

// Import stores a maze read from the text format.
func (s *MazeService) Import(ctx context.Context, owner uuid.UUID, name string, text io.Reader) (*dmn.Maze, error) {
	g, err := maze.ParseText(text)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, owner, name, g)
}

// ImportBinary stores a maze read from a 256-byte .MAZ image.
func (s *MazeService) ImportBinary(ctx context.Context, owner uuid.UUID, name string, data []byte) (*dmn.Maze, error) {
	g, err := maze.ParseBinary(data)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, owner, name, g)
}

// Generate stores a freshly generated perfect maze.
func (s *MazeService) Generate(ctx context.Context, owner uuid.UUID, name string, size int, seed int64) (*dmn.Maze, error) {
	g, err := maze.Generate(size, seed)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, owner, name, g)
}

func (s *MazeService) store(ctx context.Context, owner uuid.UUID, name string, g *maze.Grid) (*dmn.Maze, error) {
	m, err := dmn.NewMaze(dmn.MazeConfig{
		ID:      uuid.New(),
		Name:    name,
		OwnerID: owner,
		Grid:    g,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		s.logger.Error(fmt.Sprintf("saving new maze %s: %s", m.ID, err))
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("created maze %s (%dx%d) for %s", m.ID, g.Size(), g.Size(), owner))
	return m, nil
}

// Get loads a maze.
func (s *MazeService) Get(ctx context.Context, id uuid.UUID) (*dmn.Maze, error) {
	return s.repo.ByID(ctx, id)
}

// ListByOwner lists an editor's mazes.
func (s *MazeService) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*dmn.Maze, error) {
	return s.repo.ByOwner(ctx, owner)
}

// Delete removes a maze owned by editor.
func (s *MazeService) Delete(ctx context.Context, editor, id uuid.UUID) error {
	return s.withLock(ctx, id, func() error {
		m, err := s.repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !m.OwnedBy(editor) {
			return ErrForbidden
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		s.logger.Info(fmt.Sprintf("deleted maze %s", id))
		return nil
	})
}

// SetWall marks the wall on side d of cell as present and known.
func (s *MazeService) SetWall(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition, d maze.Direction) (*dmn.Maze, error) {
	return s.edit(ctx, editor, id, func(g *maze.Grid) error {
		if err := checkWall(g, cell, d); err != nil {
			return err
		}
		g.SetWall(cell.X, cell.Y, d)
		return nil
	})
}

// ClearWall marks the wall on side d of cell as absent and known.
func (s *MazeService) ClearWall(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition, d maze.Direction) (*dmn.Maze, error) {
	return s.edit(ctx, editor, id, func(g *maze.Grid) error {
		if err := checkWall(g, cell, d); err != nil {
			return err
		}
		g.ClearWall(cell.X, cell.Y, d)
		return nil
	})
}

// ToggleWall flips the wall on side d of cell.
func (s *MazeService) ToggleWall(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition, d maze.Direction) (*dmn.Maze, error) {
	return s.edit(ctx, editor, id, func(g *maze.Grid) error {
		if err := checkWall(g, cell, d); err != nil {
			return err
		}
		g.ToggleWall(cell.X, cell.Y, d)
		return nil
	})
}

// ToggleGoal adds cell to the goals, or removes it if it already is one.
func (s *MazeService) ToggleGoal(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition) (*dmn.Maze, error) {
	return s.edit(ctx, editor, id, func(g *maze.Grid) error {
		_, err := g.ToggleGoal(cell)
		return err
	})
}

// SetStart replaces the start cells.
func (s *MazeService) SetStart(ctx context.Context, editor, id uuid.UUID, cells ...maze.CellPosition) (*dmn.Maze, error) {
	return s.edit(ctx, editor, id, func(g *maze.Grid) error {
		return g.SetStart(cells...)
	})
}

// edit loads the maze under its lock, applies op and saves the maze if op changed the grid.
func (s *MazeService) edit(ctx context.Context, editor, id uuid.UUID, op func(*maze.Grid) error) (*dmn.Maze, error) {
	var m *dmn.Maze
	err := s.withLock(ctx, id, func() error {
		var err error
		m, err = s.repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !m.OwnedBy(editor) {
			return ErrForbidden
		}

		before := m.Grid.Version()
		if err := op(m.Grid); err != nil {
			return err
		}
		if m.Grid.Version() == before {
			return nil
		}

		m.Touch()
		if err := s.repo.Save(ctx, m); err != nil {
			s.logger.Error(fmt.Sprintf("saving maze %s: %s", id, err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Solve floods the maze from roots, or from its goals when roots is empty, and traces the path from the
// start cell. Solutions are cached per maze version.
func (s *MazeService) Solve(ctx context.Context, id uuid.UUID, roots []maze.CellPosition) (*flood.Solution, *dmn.Maze, error) {
	var (
		m   *dmn.Maze
		sol *flood.Solution
	)
	err := s.withLock(ctx, id, func() error {
		var err error
		m, err = s.repo.ByID(ctx, id)
		if err != nil {
			return err
		}

		key := SolutionKey(id, m.Grid.Version(), roots)
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warning(fmt.Sprintf("reading cached solution %s: %s", key, err))
		case ok && cached.Validate(m.Grid) == nil:
			sol = cached
			return nil
		case ok:
			s.logger.Warning(fmt.Sprintf("discarding cached solution %s: does not match maze", key))
		}

		sol, err = flood.Solve(m.Grid, roots)
		if err != nil {
			return err
		}
		if err := sol.Validate(m.Grid); err != nil {
			return err
		}
		if err := s.cache.Set(ctx, key, sol); err != nil {
			s.logger.Warning(fmt.Sprintf("caching solution %s: %s", key, err))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sol, m, nil
}

func (s *MazeService) withLock(ctx context.Context, id uuid.UUID, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, fmt.Sprintf(mazeLockFmt, id))
	if err != nil {
		return fmt.Errorf("locking maze %s: %w", id, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warning(fmt.Sprintf("unlocking maze %s: %s", id, err))
		}
	}()
	return fn()
}

// SolutionKey identifies a solution by maze, grid version and root set. Goal-rooted solves share one key.
func SolutionKey(id uuid.UUID, version uint64, roots []maze.CellPosition) string {
	if len(roots) == 0 {
		return fmt.Sprintf(solutionKeyFmt, id, version, goalRootsKey)
	}
	var b strings.Builder
	for _, r := range roots {
		b.WriteString(strconv.Itoa(r.X))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.Y))
		b.WriteByte(';')
	}
	return fmt.Sprintf(solutionKeyFmt, id, version, strconv.FormatUint(xxhash.Sum64String(b.String()), 16))
}

func checkWall(g *maze.Grid, cell maze.CellPosition, d maze.Direction) error {
	if !d.IsCardinal() {
		return fmt.Errorf("%w: %d", maze.ErrInvalidDirection, d)
	}
	if !g.InBounds(cell.X, cell.Y) {
		return fmt.Errorf("%w: %s", maze.ErrCellOutOfBounds, cell)
	}
	return nil
}
