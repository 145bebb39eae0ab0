package maze

import "github.com/lernspiel/quizade/internal/engine"

// Grid is an immutable tile maze. '#' cells are walls, everything else
// is walkable.
type Grid struct {
	rows []string
}

// NewGrid wraps the given rows. Rows must be equal length.
func NewGrid(rows []string) *Grid {
	return &Grid{rows: rows}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0])
}

// Height returns the grid height in cells.
func (g *Grid) Height() int { return len(g.rows) }

// Open reports whether the cell is inside the grid and walkable.
func (g *Grid) Open(x, y int) bool {
	if y < 0 || y >= len(g.rows) || x < 0 || x >= len(g.rows[y]) {
		return false
	}
	return g.rows[y][x] != '#'
}

// Rows returns the raw tile rows for the render backdrop.
func (g *Grid) Rows() []string { return g.rows }

var dirs = []engine.Vec{
	{Y: -1},
	{X: -1},
	{Y: 1},
	{X: 1},
}

// openDirs returns the walkable directions from a cell, excluding the
// reverse of the current heading unless the cell is a dead end.
func (g *Grid) openDirs(pos, heading engine.Vec) []engine.Vec {
	reverse := engine.Vec{X: -heading.X, Y: -heading.Y}
	var out []engine.Vec
	for _, d := range dirs {
		if d == reverse && (heading.X != 0 || heading.Y != 0) {
			continue
		}
		if g.Open(int(pos.X+d.X), int(pos.Y+d.Y)) {
			out = append(out, d)
		}
	}
	if len(out) == 0 && g.Open(int(pos.X+reverse.X), int(pos.Y+reverse.Y)) {
		out = append(out, reverse)
	}
	return out
}
