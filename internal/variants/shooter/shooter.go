// Package shooter implements the space-shooter variant: the player
// strafes along the bottom edge and fires upward, answer ships descend
// from the top. A bullet hit selects the ship's answer; a ship reaching
// the player's row turns into a hazard.
package shooter

import (
	"github.com/lernspiel/quizade/internal/engine"
)

// Recommended playfield size for this variant.
const (
	FieldWidth  = 40
	FieldHeight = 22
)

const (
	strafeStep   = 2.0
	bulletSpeed  = 26.0
	descentSpeed = 2.2
	fireCooldown = 0.25
	driftAmp     = 4.0
)

// Shooter tracks the fire cooldown between ticks.
type Shooter struct {
	cooldown float64
	phase    float64
}

// New returns a fresh shooter variant.
func New() *Shooter { return &Shooter{} }

// Name implements engine.Variant.
func (s *Shooter) Name() string { return "shooter" }

// Init places the player at the bottom center.
func (s *Shooter) Init(w *engine.World) {
	w.Player = engine.Entity{
		Kind:   engine.KindPlayer,
		Pos:    engine.Vec{X: w.Width / 2, Y: w.Height - 1},
		Answer: -1,
	}
	s.cooldown = 0
	s.phase = 0
}

// Spawn spreads one ship per answer across the top of the field.
func (s *Shooter) Spawn(w *engine.World, q engine.ActiveQuestion) {
	n := len(q.Answers)
	for i, a := range q.Answers {
		s.spawnShip(w, i, a.Correct, a.Text, (float64(i)+1)*w.Width/float64(n+1))
	}
}

func (s *Shooter) spawnShip(w *engine.World, answer int, correct bool, label string, x float64) {
	w.Spawn(engine.Entity{
		Kind:    engine.KindShip,
		Pos:     engine.Vec{X: x, Y: 1 + w.Rand.Float64()*2},
		Vel:     engine.Vec{Y: descentSpeed * w.SpeedScale},
		Half:    engine.Vec{X: 1.2, Y: 0.6},
		Answer:  answer,
		Correct: correct,
		Label:   label,
	})
}

// Apply strafes the player or fires a bullet.
func (s *Shooter) Apply(w *engine.World, intent engine.Intent) {
	switch intent {
	case engine.IntentLeft:
		w.Player.Pos.X -= strafeStep
	case engine.IntentRight:
		w.Player.Pos.X += strafeStep
	case engine.IntentAction, engine.IntentUp:
		if s.cooldown > 0 {
			return
		}
		s.cooldown = fireCooldown
		w.Spawn(engine.Entity{
			Kind:   engine.KindBullet,
			Pos:    engine.Vec{X: w.Player.Pos.X, Y: w.Player.Pos.Y - 1},
			Vel:    engine.Vec{Y: -bulletSpeed},
			Radius: 0.3,
			Answer: -1,
		})
	}
}

// Advance moves bullets and ships and cools the cannon. Ships drift
// sideways while descending so camping one column does not pay.
func (s *Shooter) Advance(w *engine.World, dt float64) {
	if s.cooldown > 0 {
		s.cooldown -= dt
	}
	s.phase += dt
	drift := driftAmp * dt
	if int(s.phase)%2 == 1 {
		drift = -drift
	}
	for _, e := range w.Entities {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		if e.Kind == engine.KindBullet && !e.Hit && e.Pos.Y < -1 {
			e.Hit = true
			e.Fade = 0
		}
		if e.Kind == engine.KindShip {
			e.Pos.X += drift
			if e.Pos.X < 2 {
				e.Pos.X = 2
			}
			if e.Pos.X > w.Width-2 {
				e.Pos.X = w.Width - 2
			}
		}
	}
}

// Collisions resolves bullet-ship hits and ships that reached the
// player's row. A ship crossing the baseline is re-tagged as a hazard so
// it costs a life regardless of which answer it carried.
func (s *Shooter) Collisions(w *engine.World) []*engine.Entity {
	var out []*engine.Entity
	for _, e := range w.Entities {
		if e.Hit || e.Kind != engine.KindShip {
			continue
		}
		if e.Pos.Y >= w.Player.Pos.Y-0.5 || engine.Overlaps(&w.Player, e) {
			e.Hazard = true
			out = append(out, e)
			continue
		}
		for _, b := range w.Entities {
			if b.Kind != engine.KindBullet || b.Hit {
				continue
			}
			if engine.Overlaps(b, e) {
				b.Hit = true
				b.Fade = 0.05
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// EnsureCorrect respawns the correct ship at the top when it is gone.
func (s *Shooter) EnsureCorrect(w *engine.World, q engine.ActiveQuestion) {
	if w.CorrectPresent() {
		return
	}
	for i, a := range q.Answers {
		if a.Correct {
			s.spawnShip(w, i, true, a.Text, 2+w.Rand.Float64()*(w.Width-4))
			return
		}
	}
}
