// Package plane implements the side-scrolling plane variant: gravity
// pulls the plane down, climb intents give an upward impulse, and answer
// gates scroll in from the right. Flying through a gate selects its
// answer; drifting rock obstacles cost a life.
package plane

import (
	"github.com/lernspiel/quizade/internal/engine"
)

// Recommended playfield size for this variant.
const (
	FieldWidth  = 48
	FieldHeight = 20
)

const (
	gravity       = 28.0
	climbImpulse  = -11.0
	diveImpulse   = 8.0
	scrollSpeed   = 9.0
	gateSpacing   = 14.0
	obstacleEvery = 3.5
)

// Plane carries the obstacle spawn timer; everything else lives in the
// world.
type Plane struct {
	spawnAcc float64
}

// New returns a fresh plane variant.
func New() *Plane { return &Plane{} }

// Name implements engine.Variant.
func (p *Plane) Name() string { return "plane" }

// Init places the plane near the left edge at mid height.
func (p *Plane) Init(w *engine.World) {
	w.Player = engine.Entity{
		Kind:   engine.KindPlayer,
		Pos:    engine.Vec{X: 8, Y: w.Height / 2},
		Radius: 0.6,
		Answer: -1,
	}
	p.spawnAcc = 0
}

// Spawn queues one gate per answer, spaced out past the right edge so
// they arrive one at a time.
func (p *Plane) Spawn(w *engine.World, q engine.ActiveQuestion) {
	for i, a := range q.Answers {
		p.spawnGate(w, i, a.Correct, a.Text, float64(i)*gateSpacing)
	}
}

func (p *Plane) spawnGate(w *engine.World, answer int, correct bool, label string, offset float64) {
	w.Spawn(engine.Entity{
		Kind:    engine.KindGate,
		Pos:     engine.Vec{X: w.Width + 2 + offset, Y: 2 + w.Rand.Float64()*(w.Height-4)},
		Vel:     engine.Vec{X: -scrollSpeed * w.SpeedScale},
		Half:    engine.Vec{X: 0.6, Y: 1.6},
		Answer:  answer,
		Correct: correct,
		Label:   label,
	})
}

// Apply turns climb/dive intents into vertical impulses.
func (p *Plane) Apply(w *engine.World, intent engine.Intent) {
	switch intent {
	case engine.IntentUp, engine.IntentAction:
		w.Player.Vel.Y = climbImpulse
	case engine.IntentDown:
		w.Player.Vel.Y = diveImpulse
	}
}

// Advance integrates plane physics, scrolls the field, and spawns
// obstacles on a timer.
func (p *Plane) Advance(w *engine.World, dt float64) {
	pl := &w.Player
	pl.Vel.Y += gravity * dt
	pl.Pos.Y += pl.Vel.Y * dt
	if pl.Pos.Y <= 0 {
		pl.Pos.Y = 0
		if pl.Vel.Y < 0 {
			pl.Vel.Y = 0
		}
	}
	if pl.Pos.Y >= w.Height-1 {
		pl.Pos.Y = w.Height - 1
		if pl.Vel.Y > 0 {
			pl.Vel.Y = 0
		}
	}

	for _, e := range w.Entities {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		if !e.Hit && e.Pos.X < -2 {
			e.Hit = true
			e.Fade = 0
		}
	}

	p.spawnAcc += dt
	if p.spawnAcc >= obstacleEvery/w.SpeedScale {
		p.spawnAcc = 0
		w.Spawn(engine.Entity{
			Kind:   engine.KindObstacle,
			Pos:    engine.Vec{X: w.Width + 2, Y: 1 + w.Rand.Float64()*(w.Height-2)},
			Vel:    engine.Vec{X: -scrollSpeed * 1.2 * w.SpeedScale},
			Half:   engine.Vec{X: 0.5, Y: 0.8},
			Answer: -1,
			Hazard: true,
		})
	}
}

// Collisions reports gates and obstacles overlapping the plane.
func (p *Plane) Collisions(w *engine.World) []*engine.Entity {
	var out []*engine.Entity
	for _, e := range w.Entities {
		if e.Hit {
			continue
		}
		if e.Answer < 0 && !e.Hazard {
			continue
		}
		if engine.Overlaps(&w.Player, e) {
			out = append(out, e)
		}
	}
	return out
}

// EnsureCorrect respawns the correct gate at the right edge once it has
// scrolled away unanswered.
func (p *Plane) EnsureCorrect(w *engine.World, q engine.ActiveQuestion) {
	if w.CorrectPresent() {
		return
	}
	for i, a := range q.Answers {
		if a.Correct {
			p.spawnGate(w, i, true, a.Text, 0)
			return
		}
	}
}
