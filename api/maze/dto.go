// Package mazeapi provides the request and response shapes of the maze endpoints.
package mazeapi

import (
	"time"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/maze"
)

// Ways to fill a new maze.
const (
	CreateEmpty    = "empty"
	CreateGenerate = "generate"
	CreateText     = "text"
	CreateBinary   = "binary"
)

// Wall edit actions.
const (
	WallSet    = "set"
	WallClear  = "clear"
	WallToggle = "toggle"
)

// CellDTO is a cell coordinate; (0,0) is the south-west corner.
type CellDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CreateMazeRequest creates a maze. Size and Seed apply to empty and generated mazes, Text to text
// imports and Binary (base64 in JSON) to 256-byte .MAZ imports.
type CreateMazeRequest struct {
	Name   string `json:"name" binding:"required"`
	Mode   string `json:"mode" binding:"omitempty,oneof=empty generate text binary"`
	Size   int    `json:"size"`
	Seed   int64  `json:"seed"`
	Text   string `json:"text"`
	Binary []byte `json:"binary"`
}

// WallRequest edits the wall on one side of a cell.
type WallRequest struct {
	X         *int   `json:"x" binding:"required"`
	Y         *int   `json:"y" binding:"required"`
	Direction string `json:"direction" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=set clear toggle"`
}

// GoalRequest toggles a goal cell.
type GoalRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// StartRequest replaces the start cells.
type StartRequest struct {
	Cells []CellDTO `json:"cells" binding:"required,min=1"`
}

// MazeResponse describes a stored maze.
type MazeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Size      int       `json:"size"`
	Version   uint64    `json:"version"`
	Start     []CellDTO `json:"start"`
	Goals     []CellDTO `json:"goals"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MazeSummary is one entry of a maze listing.
type MazeSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StepDTO is a path cell and the heading the robot leaves it with. The last cell has no heading.
type StepDTO struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Heading string `json:"heading,omitempty"`
}

// SolutionResponse is a solved maze. Costs is indexed [y][x]; null marks an unreachable cell.
type SolutionResponse struct {
	MazeID       string    `json:"mazeId"`
	Version      uint64    `json:"version"`
	Size         int       `json:"size"`
	Roots        []CellDTO `json:"roots"`
	Found        bool      `json:"found"`
	Steps        int       `json:"steps"`
	StartHeading string    `json:"startHeading,omitempty"`
	Path         []StepDTO `json:"path"`
	Costs        [][]*int  `json:"costs"`
	Render       string    `json:"render"`
}

func cellsToDTO(cells []maze.CellPosition) []CellDTO {
	out := make([]CellDTO, len(cells))
	for i, c := range cells {
		out[i] = CellDTO{X: c.X, Y: c.Y}
	}
	return out
}

func cellsFromDTO(cells []CellDTO) []maze.CellPosition {
	out := make([]maze.CellPosition, len(cells))
	for i, c := range cells {
		out[i] = maze.CellPosition{X: c.X, Y: c.Y}
	}
	return out
}

func toMazeResponse(m *dmn.Maze) *MazeResponse {
	return &MazeResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		OwnerID:   m.OwnerID.String(),
		Size:      m.Grid.Size(),
		Version:   m.Grid.Version(),
		Start:     cellsToDTO(m.Grid.Start()),
		Goals:     cellsToDTO(m.Grid.Goals()),
		Text:      m.Grid.Text(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toMazeSummary(m *dmn.Maze) MazeSummary {
	return MazeSummary{
		ID:        m.ID.String(),
		Name:      m.Name,
		Size:      m.Grid.Size(),
		Version:   m.Grid.Version(),
		UpdatedAt: m.UpdatedAt,
	}
}

func toSolutionResponse(m *dmn.Maze, s *flood.Solution) *SolutionResponse {
	costs := make([][]*int, s.Size)
	for y := range costs {
		costs[y] = make([]*int, s.Size)
		for x := range costs[y] {
			if c := s.Costs.At(x, y); c < flood.Infinity {
				costs[y][x] = &c
			}
		}
	}

	path := make([]StepDTO, len(s.Path))
	for i, p := range s.Path {
		path[i] = StepDTO{X: p.X, Y: p.Y}
		if d := s.Headings.At(p.X, p.Y); d.IsCardinal() {
			path[i].Heading = d.String()
		}
	}

	res := &SolutionResponse{
		MazeID:  m.ID.String(),
		Version: s.GridVersion,
		Size:    s.Size,
		Roots:   cellsToDTO(s.Roots),
		Found:   s.Found,
		Steps:   s.Steps(),
		Path:    path,
		Costs:   costs,
		Render:  s.Render(m.Grid),
	}
	home := flood.HomeCell(m.Grid)
	if d := s.Headings.At(home.X, home.Y); d.IsCardinal() {
		res.StartHeading = d.String()
	}
	return res
}
