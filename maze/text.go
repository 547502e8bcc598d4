package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	postChar     = 'o'
	cellWidth    = 4 // characters per cell column, post included
	homeMark     = 'S'
	goalMark     = 'G'
	unknownHoriz = " . "
	unknownVert  = "."
)

var ErrEmptyMazeText = errors.New("maze text is empty")

// ParseText reads a maze drawn in the common micromouse text layout:
//
//	o---o---o---o---o
//	|       |       |
//	o   o   o   o   o
//	|   |   |   |   |
//	o   o   o   o   o
//	|   |       |   |
//	o   o---o---o   o
//	| S | G         |
//	o---o---o---o---o
//
// Posts may be '+' or 'o'; walls are '-', '=' or '|'; a blank marks a known opening and any other
// character leaves the wall unknown. The first line is the north edge. The size is inferred from the
// line count and the width of the first line.
func ParseText(r io.Reader) (*Grid, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading maze text: %w", err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, ErrEmptyMazeText
	}

	g, err := New(max(len(lines)/2, len(lines[0])/cellWidth))
	if err != nil {
		return nil, fmt.Errorf("parsing maze text: %w", err)
	}

	var start []CellPosition
	for i := range lines {
		line := lines[len(lines)-1-i]
		cellY := i / 2
		if i%2 == 0 {
			// o---o   o
			for cellX := 0; cellX*cellWidth+2 < len(line); cellX++ {
				switch line[cellX*cellWidth+2] {
				case '-', '=':
					g.SetWall(cellX, cellY, South)
				case ' ':
					g.ClearWall(cellX, cellY, South)
				}
			}
			continue
		}

		// |   | G |
		for cellX := 0; cellX*cellWidth < len(line); cellX++ {
			switch line[cellX*cellWidth] {
			case '|':
				g.SetWall(cellX, cellY, West)
			case ' ':
				g.ClearWall(cellX, cellY, West)
			}
		}
		for cellX := 0; cellX*cellWidth+2 < len(line); cellX++ {
			p := CellPosition{X: cellX, Y: cellY}
			if !g.InBounds(p.X, p.Y) {
				continue
			}
			switch line[cellX*cellWidth+2] {
			case homeMark:
				start = append(start, p)
			case goalMark:
				if err := g.AddGoal(p); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := g.SetStart(start...); err != nil {
		return nil, err
	}
	return g, nil
}

// Text renders the grid in the layout read by ParseText, using 'o' posts and '.' for unknown walls.
func (g *Grid) Text() string {
	return g.Render(nil)
}

// Render is Text with a caller-chosen mark in the middle of each cell. When mark is nil or returns 0
// the cell shows S for home, G for goal or a blank.
func (g *Grid) Render(mark func(CellPosition) rune) string {
	var b strings.Builder
	for y := g.size - 1; y >= -1; y-- {
		b.WriteRune(postChar)
		for x := 0; x < g.size; x++ {
			switch {
			case !g.IsKnown(x, y, North):
				b.WriteString(unknownHoriz)
			case g.WallExists(x, y, North):
				b.WriteString("---")
			default:
				b.WriteString("   ")
			}
			b.WriteRune(postChar)
		}
		b.WriteByte('\n')
		if y == -1 {
			break
		}

		b.WriteByte('|')
		for x := 0; x < g.size; x++ {
			b.WriteByte(' ')
			b.WriteRune(g.cellMark(CellPosition{X: x, Y: y}, mark))
			b.WriteByte(' ')
			switch {
			case !g.IsKnown(x, y, East):
				b.WriteString(unknownVert)
			case g.WallExists(x, y, East):
				b.WriteByte('|')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) cellMark(p CellPosition, mark func(CellPosition) rune) rune {
	if mark != nil {
		if r := mark(p); r != 0 {
			return r
		}
	}
	switch {
	case g.IsHome(p):
		return homeMark
	case g.IsGoal(p):
		return goalMark
	default:
		return ' '
	}
}

// String summarizes size, home and goal cells.
func (g *Grid) String() string {
	return fmt.Sprintf("size: %dx%d\nstart: %s\ngoals: %s", g.size, g.size, joinCells(g.start), joinCells(g.goals))
}

func joinCells(cells []CellPosition) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
