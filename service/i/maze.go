package i

import (
	"context"
	"io"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/google/uuid"
)

// MazeEditor creates, loads and edits mazes. Every edit is checked against the maze owner.
type MazeEditor interface {
	Create(ctx context.Context, owner uuid.UUID, name string, size int) (*dmn.Maze, error)
	Import(ctx context.Context, owner uuid.UUID, name string, text io.Reader) (*dmn.Maze, error)
	ImportBinary(ctx context.Context, owner uuid.UUID, name string, data []byte) (*dmn.Maze, error)
	Generate(ctx context.Context, owner uuid.UUID, name string, size int, seed int64) (*dmn.Maze, error)
	Get(ctx context.Context, id uuid.UUID) (*dmn.Maze, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*dmn.Maze, error)
	Delete(ctx context.Context, editor, id uuid.UUID) error

	SetWall(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition, d maze.Direction) (*dmn.Maze, error)
	ClearWall(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition, d maze.Direction) (*dmn.Maze, error)
	ToggleWall(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition, d maze.Direction) (*dmn.Maze, error)
	ToggleGoal(ctx context.Context, editor, id uuid.UUID, cell maze.CellPosition) (*dmn.Maze, error)
	SetStart(ctx context.Context, editor, id uuid.UUID, cells ...maze.CellPosition) (*dmn.Maze, error)
}

// MazeSolver floods mazes and traces paths.
type MazeSolver interface {
	// Solve returns the solution for the maze's current version together with the maze it was computed on.
	Solve(ctx context.Context, id uuid.UUID, roots []maze.CellPosition) (*flood.Solution, *dmn.Maze, error)
}
