// Package domain holds the records the maze service persists: editors and their mazes.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/google/uuid"
)

const maxMazeNameLength = 64

var (
	ErrMazeNameEmpty   = errors.New("maze name is empty")
	ErrMazeNameTooLong = errors.New("maze name too long")
	ErrMazeNotFound    = errors.New("maze not found")
	ErrNilGrid         = errors.New("maze has no grid")
)

// Maze is a named grid owned by one editor.
type Maze struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	Grid      *maze.Grid
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MazeConfig holds parameters for creating a Maze.
type MazeConfig struct {
	ID      uuid.UUID
	Name    string
	OwnerID uuid.UUID
	Grid    *maze.Grid
}

// NewMaze validates the name and wraps grid into a new record.
func NewMaze(config MazeConfig) (*Maze, error) {
	name := strings.TrimSpace(config.Name)
	if name == "" {
		return nil, ErrMazeNameEmpty
	}
	if utf8.RuneCountInString(name) > maxMazeNameLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrMazeNameTooLong, maxMazeNameLength)
	}
	if config.Grid == nil {
		return nil, ErrNilGrid
	}

	now := time.Now().UTC()
	return &Maze{
		ID:        config.ID,
		Name:      name,
		OwnerID:   config.OwnerID,
		Grid:      config.Grid,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy reports whether editorID may modify m.
func (m *Maze) OwnedBy(editorID uuid.UUID) bool {
	return m.OwnerID == editorID
}

// Touch records a modification.
func (m *Maze) Touch() {
	m.UpdatedAt = time.Now().UTC()
}
