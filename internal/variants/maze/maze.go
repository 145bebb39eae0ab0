// Package maze implements the ghost-chase variant: the player walks an
// immutable tile maze, answer zones sit in the corners, and four ghosts
// with distinct behaviors hunt the player. Entering a wrong zone or
// touching a ghost costs a life.
package maze

import (
	"github.com/lernspiel/quizade/internal/engine"
)

// Recommended playfield size for this variant; matches the tile layout.
const (
	FieldWidth  = 21
	FieldHeight = 15
)

const (
	playerSpeed = 6.0
	ghostSpeed  = 4.2
)

var layout = []string{
	"#####################",
	"#....#.........#....#",
	"#.##.#.#######.#.##.#",
	"#.#...............#.#",
	"#.#.##.###.###.##.#.#",
	"#......#.....#......#",
	"#.#.##.#.###.#.##.#.#",
	"#.#....#.....#....#.#",
	"#.#.##.#.###.#.##.#.#",
	"#......#.....#......#",
	"#.#.##.###.###.##.#.#",
	"#.#...............#.#",
	"#.##.#.#######.#.##.#",
	"#....#.........#....#",
	"#####################",
}

var playerStart = engine.Vec{X: 10, Y: 7}

// zoneCells hosts answer zones: the four corners, plus the center for a
// fifth answer if a deck carries one.
var zoneCells = []engine.Vec{
	{X: 1, Y: 1},
	{X: 19, Y: 1},
	{X: 1, Y: 13},
	{X: 19, Y: 13},
	{X: 10, Y: 5},
}

type ghostSpec struct {
	start    engine.Vec
	behavior Behavior
}

var ghostSpecs = []ghostSpec{
	{engine.Vec{X: 9, Y: 5}, Chase},
	{engine.Vec{X: 11, Y: 5}, Ambush},
	{engine.Vec{X: 9, Y: 9}, Random},
	{engine.Vec{X: 11, Y: 9}, Flee},
}

type ghost struct {
	ent      *engine.Entity
	behavior Behavior
	heading  engine.Vec
	target   engine.Vec
}

// Maze is the variant state: the grid, the player's walk state, and the
// ghost walk states that mirror their world entities.
type Maze struct {
	grid *Grid

	heading engine.Vec
	desired engine.Vec
	target  engine.Vec

	ghosts       []*ghost
	resetPending bool
}

// New returns a fresh maze variant on the built-in layout.
func New() *Maze { return &Maze{grid: NewGrid(layout)} }

// Name implements engine.Variant.
func (m *Maze) Name() string { return "maze" }

// Grid exposes the tile grid.
func (m *Maze) Grid() *Grid { return m.grid }

// Init places the player at the start cell and the four ghosts at their
// dens.
func (m *Maze) Init(w *engine.World) {
	w.Player = engine.Entity{
		Kind:   engine.KindPlayer,
		Pos:    playerStart,
		Radius: 0.45,
		Answer: -1,
	}
	m.heading = engine.Vec{}
	m.desired = engine.Vec{}
	m.target = playerStart
	m.resetPending = false
	m.ghosts = m.ghosts[:0]
	for _, spec := range ghostSpecs {
		ent := w.Spawn(engine.Entity{
			Kind:   engine.KindGhost,
			Pos:    spec.start,
			Radius: 0.45,
			Answer: -1,
			Hazard: true,
			Static: true,
		})
		m.ghosts = append(m.ghosts, &ghost{
			ent:      ent,
			behavior: spec.behavior,
			target:   spec.start,
		})
	}
}

// Spawn places one answer zone per answer at the corner cells.
func (m *Maze) Spawn(w *engine.World, q engine.ActiveQuestion) {
	for i, a := range q.Answers {
		if i >= len(zoneCells) {
			break
		}
		m.spawnZone(w, i, a.Correct, a.Text)
	}
}

func (m *Maze) spawnZone(w *engine.World, answer int, correct bool, label string) {
	w.Spawn(engine.Entity{
		Kind:    engine.KindZone,
		Pos:     zoneCells[answer],
		Answer:  answer,
		Correct: correct,
		Label:   label,
		Static:  true,
	})
}

// Apply records the desired walking direction; the turn happens at the
// next cell center where it is open.
func (m *Maze) Apply(_ *engine.World, intent engine.Intent) {
	switch intent {
	case engine.IntentUp:
		m.desired = engine.Vec{Y: -1}
	case engine.IntentDown:
		m.desired = engine.Vec{Y: 1}
	case engine.IntentLeft:
		m.desired = engine.Vec{X: -1}
	case engine.IntentRight:
		m.desired = engine.Vec{X: 1}
	}
}

// Advance walks the player and the ghosts cell to cell.
func (m *Maze) Advance(w *engine.World, dt float64) {
	if m.resetPending {
		m.resetPending = false
		w.Player.Pos = playerStart
		m.target = playerStart
		m.heading = engine.Vec{}
		m.desired = engine.Vec{}
	}
	m.advancePlayer(w, dt)
	for _, g := range m.ghosts {
		m.advanceGhost(w, g, dt)
	}
}

func (m *Maze) advancePlayer(w *engine.World, dt float64) {
	pos := &w.Player.Pos
	if stepToward(pos, m.target, playerSpeed*w.SpeedScale*dt) {
		// At a cell center: prefer the desired turn, else keep heading.
		if m.desired != (engine.Vec{}) && m.grid.Open(int(pos.X+m.desired.X), int(pos.Y+m.desired.Y)) {
			m.heading = m.desired
		}
		next := pos.Add(m.heading)
		if m.heading != (engine.Vec{}) && m.grid.Open(int(next.X), int(next.Y)) {
			m.target = next
		} else {
			m.heading = engine.Vec{}
		}
	}
}

func (m *Maze) advanceGhost(w *engine.World, g *ghost, dt float64) {
	pos := &g.ent.Pos
	if stepToward(pos, g.target, ghostSpeed*w.SpeedScale*dt) {
		d := ChooseDir(m.grid, g.behavior, *pos, g.heading, w.Player.Pos, m.heading, w.Rand)
		if d != (engine.Vec{}) {
			g.heading = d
			g.target = pos.Add(d)
		}
	}
}

// stepToward moves pos up to step cells toward target and reports
// whether it arrived.
func stepToward(pos *engine.Vec, target engine.Vec, step float64) bool {
	dx := target.X - pos.X
	dy := target.Y - pos.Y
	dist := abs(dx) + abs(dy)
	if dist <= step {
		*pos = target
		return true
	}
	if dx != 0 {
		pos.X += step * sign(dx)
	} else {
		pos.Y += step * sign(dy)
	}
	return false
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Collisions reports ghost contacts and entered zones. A ghost contact
// schedules the player's return to the start cell.
func (m *Maze) Collisions(w *engine.World) []*engine.Entity {
	var out []*engine.Entity
	for _, e := range w.Entities {
		if e.Hit {
			continue
		}
		switch e.Kind {
		case engine.KindGhost:
			if engine.Overlaps(&w.Player, e) {
				m.resetPending = true
				out = append(out, e)
			}
		case engine.KindZone:
			if sameCell(w.Player.Pos, e.Pos) {
				out = append(out, e)
			}
		}
	}
	return out
}

// EnsureCorrect restores the correct zone when it has faded out after a
// ghost chased the player across it.
func (m *Maze) EnsureCorrect(w *engine.World, q engine.ActiveQuestion) {
	if w.CorrectPresent() {
		return
	}
	for i, a := range q.Answers {
		if a.Correct && i < len(zoneCells) {
			m.spawnZone(w, i, true, a.Text)
			return
		}
	}
}

// Backdrop implements engine.Backdrop with the tile rows.
func (m *Maze) Backdrop(_ *engine.World) []string { return m.grid.Rows() }

func sameCell(a, b engine.Vec) bool {
	return int(a.X+0.5) == int(b.X+0.5) && int(a.Y+0.5) == int(b.Y+0.5)
}
