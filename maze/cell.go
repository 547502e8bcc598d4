package maze

import "fmt"

// CellPosition addresses a single cell. X grows eastward and Y grows northward, so (0,0) is the
// south-west corner where the home cell conventionally sits.
type CellPosition struct {
	X int `json:"x" bson:"x"` // Column index of the cell
	Y int `json:"y" bson:"y"` // Row index of the cell, counted from the south edge
}

// Step returns the neighboring position in direction d. The result may lie outside the grid.
func (p CellPosition) Step(d Direction) CellPosition {
	delta := d.Delta()
	return CellPosition{X: p.X + delta.X, Y: p.Y + delta.Y}
}

func (p CellPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// containsCell reports whether cells holds p.
func containsCell(cells []CellPosition, p CellPosition) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}

// removeCell returns cells without p, preserving order.
func removeCell(cells []CellPosition, p CellPosition) []CellPosition {
	out := cells[:0]
	for _, c := range cells {
		if c != p {
			out = append(out, c)
		}
	}
	return out
}
