package i

import (
	"context"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/google/uuid"
)

// EditorRepo defines the interface for editor persistence operations.
type EditorRepo interface {
	// Save inserts or updates an editor in the repository.
	// If the editor already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, editor *dmn.Editor) error

	// ByID retrieves an editor by their unique ID.
	// Returns dmn.ErrEditorNotFound if there is no such editor.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Editor, error)

	// ByUsername retrieves an editor by their username.
	// Returns dmn.ErrEditorNotFound if there is no such editor.
	ByUsername(ctx context.Context, username string) (*dmn.Editor, error)
}

// MazeRepo defines the interface for maze persistence operations.
type MazeRepo interface {
	// Save inserts or replaces the maze, grid included.
	Save(ctx context.Context, m *dmn.Maze) error

	// ByID loads a maze. Returns dmn.ErrMazeNotFound if there is no such maze.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Maze, error)

	// ByOwner lists the mazes owned by an editor, most recently updated first.
	ByOwner(ctx context.Context, ownerID uuid.UUID) ([]*dmn.Maze, error)

	// Delete removes a maze. Returns dmn.ErrMazeNotFound if there is no such maze.
	Delete(ctx context.Context, id uuid.UUID) error
}
