package engine

import "math/rand"

// World is the mutable simulation state owned by the Engine. Variants
// receive it by pointer during a tick; nothing else mutates it.
type World struct {
	Width  float64
	Height float64

	Player   Entity
	Entities []*Entity

	// Rand is the variant RNG; seeded deterministically in tests.
	Rand *rand.Rand

	// SpeedScale is the difficulty factor applied by variants to their
	// base velocities.
	SpeedScale float64

	nextID int
}

// Spawn adds an entity to the world and returns the stored pointer.
func (w *World) Spawn(e Entity) *Entity {
	w.nextID++
	e.ID = w.nextID
	stored := &e
	w.Entities = append(w.Entities, stored)
	return stored
}

// ClampPlayer keeps the player inside the playfield bounds.
func (w *World) ClampPlayer() {
	w.Player.Pos.X = clampF(w.Player.Pos.X, 0, w.Width-1)
	w.Player.Pos.Y = clampF(w.Player.Pos.Y, 0, w.Height-1)
}

// CorrectPresent reports whether any live entity is bound to a correct
// answer of the active question.
func (w *World) CorrectPresent() bool {
	for _, e := range w.Entities {
		if !e.Hit && e.Answer >= 0 && e.Correct {
			return true
		}
	}
	return false
}

// ClearAnswerEntities drops all answer-bound entities; called when the
// active question changes.
func (w *World) ClearAnswerEntities() {
	kept := w.Entities[:0]
	for _, e := range w.Entities {
		if e.Answer >= 0 {
			continue
		}
		kept = append(kept, e)
	}
	w.Entities = kept
}

// outOfBounds margin keeps scrolling entities alive outside the visible
// field: staggered spawn queues sit well past the edge before they
// arrive. Variants cull entities that left through the exit edge.
const pruneMargin = 30

func (w *World) prune(dt float64) {
	kept := w.Entities[:0]
	for _, e := range w.Entities {
		if e.Hit {
			e.Fade -= dt
			if e.Fade <= 0 {
				continue
			}
			kept = append(kept, e)
			continue
		}
		if !e.Static && !w.inBounds(e.Pos) {
			continue
		}
		kept = append(kept, e)
	}
	w.Entities = kept
}

func (w *World) inBounds(p Vec) bool {
	return p.X >= -pruneMargin && p.X <= w.Width+pruneMargin &&
		p.Y >= -pruneMargin && p.Y <= w.Height+pruneMargin
}
