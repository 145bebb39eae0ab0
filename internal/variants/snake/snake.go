// Package snake implements the tile-stepped snake arcade variant: the
// snake advances one cell per step interval, answer orbs appear at free
// cells, and wall or self contact costs a life.
package snake

import (
	"github.com/lernspiel/quizade/internal/engine"
)

// Recommended playfield size for this variant.
const (
	FieldWidth  = 32
	FieldHeight = 18
)

const (
	// baseStep is the seconds per tile at normal difficulty; the world
	// speed scale divides into it.
	baseStep = 0.16
	startLen = 3
)

// Snake holds the variant state that is not representable as world
// entities: heading, step accumulator, and the body cell list.
type Snake struct {
	dir     engine.Vec
	nextDir engine.Vec
	body    []engine.Vec
	segs    []*engine.Entity

	stepAcc      float64
	growth       int
	crashed      bool
	resetPending bool
}

// New returns a fresh snake variant.
func New() *Snake { return &Snake{} }

// Name implements engine.Variant.
func (s *Snake) Name() string { return "snake" }

// Init places the snake in the middle of the field, heading right.
func (s *Snake) Init(w *engine.World) {
	w.Player = engine.Entity{
		Kind:   engine.KindPlayer,
		Pos:    engine.Vec{X: float64(int(w.Width) / 2), Y: float64(int(w.Height) / 2)},
		Answer: -1,
	}
	s.dir = engine.Vec{X: 1}
	s.nextDir = s.dir
	s.stepAcc = 0
	s.growth = 0
	s.crashed = false
	s.resetPending = false
	s.body = s.body[:0]
	s.segs = s.segs[:0]
	for i := 1; i <= startLen; i++ {
		s.body = append(s.body, engine.Vec{X: w.Player.Pos.X - float64(i), Y: w.Player.Pos.Y})
	}
	for _, p := range s.body {
		s.segs = append(s.segs, w.Spawn(engine.Entity{
			Kind:   engine.KindSegment,
			Pos:    p,
			Answer: -1,
			Static: true,
		}))
	}
}

// Spawn places one orb per answer at free cells.
func (s *Snake) Spawn(w *engine.World, q engine.ActiveQuestion) {
	for i, a := range q.Answers {
		w.Spawn(engine.Entity{
			Kind:    engine.KindOrb,
			Pos:     s.freeCell(w),
			Radius:  0.5,
			Answer:  i,
			Correct: a.Correct,
			Label:   a.Text,
			Static:  true,
		})
	}
}

// Apply queues a heading change; reversing into the neck is ignored.
func (s *Snake) Apply(_ *engine.World, intent engine.Intent) {
	var d engine.Vec
	switch intent {
	case engine.IntentUp:
		d = engine.Vec{Y: -1}
	case engine.IntentDown:
		d = engine.Vec{Y: 1}
	case engine.IntentLeft:
		d = engine.Vec{X: -1}
	case engine.IntentRight:
		d = engine.Vec{X: 1}
	default:
		return
	}
	if len(s.body) > 0 && d.X == -s.dir.X && d.Y == -s.dir.Y {
		return
	}
	s.nextDir = d
}

// Advance steps the snake one cell whenever the interval elapses. A step
// into a wall or the snake's own body sets the crash flag instead of
// moving; Collisions turns it into a hazard contact.
func (s *Snake) Advance(w *engine.World, dt float64) {
	if s.resetPending {
		s.respawn(w)
		return
	}
	s.stepAcc += dt * w.SpeedScale
	if s.stepAcc < baseStep {
		return
	}
	s.stepAcc -= baseStep
	s.dir = s.nextDir
	head := w.Player.Pos.Add(s.dir)
	if head.X < 0 || head.X > w.Width-1 || head.Y < 0 || head.Y > w.Height-1 || s.onBody(head) {
		s.crashed = true
		return
	}
	s.body = append(s.body, engine.Vec{})
	copy(s.body[1:], s.body)
	s.body[0] = w.Player.Pos
	if s.growth > 0 {
		s.growth--
	} else {
		s.body = s.body[:len(s.body)-1]
	}
	for len(s.segs) < len(s.body) {
		s.segs = append(s.segs, w.Spawn(engine.Entity{
			Kind:   engine.KindSegment,
			Answer: -1,
			Static: true,
		}))
	}
	for i, p := range s.body {
		s.segs[i].Pos = p
	}
	w.Player.Pos = head
}

// Collisions reports orbs the head stepped onto, or a synthetic hazard
// when the last step crashed into a wall or the body.
func (s *Snake) Collisions(w *engine.World) []*engine.Entity {
	if s.crashed {
		s.crashed = false
		s.resetPending = true
		return []*engine.Entity{w.Spawn(engine.Entity{
			Kind:   engine.KindObstacle,
			Pos:    w.Player.Pos,
			Answer: -1,
			Hazard: true,
		})}
	}
	var out []*engine.Entity
	for _, e := range w.Entities {
		if e.Kind != engine.KindOrb || e.Hit {
			continue
		}
		if sameCell(e.Pos, w.Player.Pos) {
			if e.Correct {
				s.growth++
			}
			out = append(out, e)
		}
	}
	return out
}

// EnsureCorrect respawns the correct orb if the field lost it.
func (s *Snake) EnsureCorrect(w *engine.World, q engine.ActiveQuestion) {
	if w.CorrectPresent() {
		return
	}
	for i, a := range q.Answers {
		if !a.Correct {
			continue
		}
		w.Spawn(engine.Entity{
			Kind:    engine.KindOrb,
			Pos:     s.freeCell(w),
			Radius:  0.5,
			Answer:  i,
			Correct: true,
			Label:   a.Text,
			Static:  true,
		})
		return
	}
}

func (s *Snake) respawn(w *engine.World) {
	s.resetPending = false
	w.Player.Pos = engine.Vec{X: float64(int(w.Width) / 2), Y: float64(int(w.Height) / 2)}
	s.dir = engine.Vec{X: 1}
	s.nextDir = s.dir
	s.stepAcc = 0
	s.growth = 0
	for _, seg := range s.segs {
		seg.Hit = true
	}
	s.segs = s.segs[:0]
	s.body = s.body[:0]
	for i := 1; i <= startLen; i++ {
		s.body = append(s.body, engine.Vec{X: w.Player.Pos.X - float64(i), Y: w.Player.Pos.Y})
	}
	for _, p := range s.body {
		s.segs = append(s.segs, w.Spawn(engine.Entity{
			Kind:   engine.KindSegment,
			Pos:    p,
			Answer: -1,
			Static: true,
		}))
	}
}

func (s *Snake) onBody(p engine.Vec) bool {
	for _, b := range s.body {
		if sameCell(b, p) {
			return true
		}
	}
	return false
}

func (s *Snake) freeCell(w *engine.World) engine.Vec {
	for try := 0; try < 64; try++ {
		p := engine.Vec{
			X: float64(w.Rand.Intn(int(w.Width))),
			Y: float64(w.Rand.Intn(int(w.Height))),
		}
		if s.cellTaken(w, p) {
			continue
		}
		return p
	}
	return engine.Vec{X: 1, Y: 1}
}

func (s *Snake) cellTaken(w *engine.World, p engine.Vec) bool {
	if sameCell(w.Player.Pos, p) || s.onBody(p) {
		return true
	}
	for _, e := range w.Entities {
		if !e.Hit && sameCell(e.Pos, p) {
			return true
		}
	}
	return false
}

func sameCell(a, b engine.Vec) bool {
	return int(a.X) == int(b.X) && int(a.Y) == int(b.Y)
}
