// Package memory holds process-local implementations of the service ports, used for single-node
// development runs and as test doubles.
package memory

import (
	"context"
	"slices"
	"sync"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/google/uuid"
)

// MazeRepo keeps mazes in a map. Grids are stored as snapshots, so callers never share a grid with
// the repository.
type MazeRepo struct {
	mu    sync.RWMutex
	mazes map[uuid.UUID]storedMaze
}

type storedMaze struct {
	maze dmn.Maze
	grid maze.Snapshot
}

var _ i.MazeRepo = &MazeRepo{}

// NewMazeRepo creates an empty MazeRepo.
func NewMazeRepo() *MazeRepo {
	return &MazeRepo{mazes: make(map[uuid.UUID]storedMaze)}
}

// Save inserts or replaces m.
func (r *MazeRepo) Save(_ context.Context, m *dmn.Maze) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := storedMaze{maze: *m, grid: m.Grid.Snapshot()}
	stored.maze.Grid = nil
	r.mazes[m.ID] = stored
	return nil
}

// ByID returns a copy of the stored maze.
func (r *MazeRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Maze, error) {
	r.mu.RLock()
	stored, ok := r.mazes[id]
	r.mu.RUnlock()
	if !ok {
		return nil, dmn.ErrMazeNotFound
	}
	return stored.load()
}

// ByOwner lists the mazes of ownerID, most recently updated first.
func (r *MazeRepo) ByOwner(_ context.Context, ownerID uuid.UUID) ([]*dmn.Maze, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mazes []*dmn.Maze
	for _, stored := range r.mazes {
		if stored.maze.OwnerID != ownerID {
			continue
		}
		m, err := stored.load()
		if err != nil {
			return nil, err
		}
		mazes = append(mazes, m)
	}
	slices.SortFunc(mazes, func(a, b *dmn.Maze) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return mazes, nil
}

// Delete removes the maze with the given ID.
func (r *MazeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mazes[id]; !ok {
		return dmn.ErrMazeNotFound
	}
	delete(r.mazes, id)
	return nil
}

func (s storedMaze) load() (*dmn.Maze, error) {
	g, err := maze.Restore(s.grid)
	if err != nil {
		return nil, err
	}
	m := s.maze
	m.Grid = g
	return &m, nil
}

// EditorRepo keeps editors in a map with unique usernames.
type EditorRepo struct {
	mu      sync.RWMutex
	editors map[uuid.UUID]dmn.Editor
}

var _ i.EditorRepo = &EditorRepo{}

// NewEditorRepo creates an empty EditorRepo.
func NewEditorRepo() *EditorRepo {
	return &EditorRepo{editors: make(map[uuid.UUID]dmn.Editor)}
}

// Save inserts or updates editor. Returns dmn.ErrUsernameConflict if another editor has the username.
func (r *EditorRepo) Save(_ context.Context, editor *dmn.Editor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.editors {
		if id != editor.ID && e.Username == editor.Username {
			return dmn.ErrUsernameConflict
		}
	}
	r.editors[editor.ID] = *editor
	return nil
}

// ByID retrieves an editor by ID.
func (r *EditorRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.editors[id]
	if !ok {
		return nil, dmn.ErrEditorNotFound
	}
	return &e, nil
}

// ByUsername retrieves an editor by username.
func (r *EditorRepo) ByUsername(_ context.Context, username string) (*dmn.Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.editors {
		if e.Username == username {
			return &e, nil
		}
	}
	return nil, dmn.ErrEditorNotFound
}
