package shooter

import (
	"math/rand"
	"testing"

	"github.com/lernspiel/quizade/internal/engine"
	"github.com/lernspiel/quizade/internal/model"
)

func newWorld() *engine.World {
	return &engine.World{
		Width:      FieldWidth,
		Height:     FieldHeight,
		Rand:       rand.New(rand.NewSource(7)),
		SpeedScale: 1,
	}
}

func question() engine.ActiveQuestion {
	return engine.ActiveQuestion{
		Question: "q",
		Answers: []model.Answer{
			{Text: "right", Correct: true},
			{Text: "wrong"},
		},
	}
}

func countKind(w *engine.World, k engine.EntityKind) int {
	n := 0
	for _, e := range w.Entities {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func TestFireRespectsCooldown(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)

	s.Apply(w, engine.IntentAction)
	s.Apply(w, engine.IntentAction)
	if got := countKind(w, engine.KindBullet); got != 1 {
		t.Fatalf("cooldown ignored, %d bullets", got)
	}

	s.Advance(w, fireCooldown+0.01)
	s.Apply(w, engine.IntentAction)
	if got := countKind(w, engine.KindBullet); got != 2 {
		t.Fatalf("cannon did not cool down, %d bullets", got)
	}
}

func TestBulletHitSelectsShip(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	ship := w.Spawn(engine.Entity{
		Kind:    engine.KindShip,
		Pos:     engine.Vec{X: 10, Y: 5},
		Half:    engine.Vec{X: 1.2, Y: 0.6},
		Answer:  0,
		Correct: true,
	})
	bullet := w.Spawn(engine.Entity{
		Kind:   engine.KindBullet,
		Pos:    engine.Vec{X: 10, Y: 5},
		Radius: 0.3,
		Answer: -1,
	})

	hits := s.Collisions(w)
	if len(hits) != 1 || hits[0] != ship {
		t.Fatalf("expected the ship contact, got %v", hits)
	}
	if !bullet.Hit {
		t.Fatal("bullet must be consumed by the hit")
	}
	if ship.Hazard {
		t.Fatal("a shot ship is a quiz answer, not a hazard")
	}
}

func TestShipReachingBaselineIsHazard(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	ship := w.Spawn(engine.Entity{
		Kind:    engine.KindShip,
		Pos:     engine.Vec{X: 3, Y: w.Player.Pos.Y},
		Half:    engine.Vec{X: 1.2, Y: 0.6},
		Answer:  0,
		Correct: true,
	})

	hits := s.Collisions(w)
	if len(hits) != 1 || hits[0] != ship {
		t.Fatalf("expected the ship contact, got %v", hits)
	}
	if !ship.Hazard {
		t.Fatal("a ship past the baseline must be re-tagged as hazard")
	}
}

func TestShipsDescend(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	s.Spawn(w, question())
	y := w.Entities[0].Pos.Y
	s.Advance(w, 0.5)
	if w.Entities[0].Pos.Y <= y {
		t.Fatalf("ship did not descend: %f -> %f", y, w.Entities[0].Pos.Y)
	}
}

func TestEnsureCorrectRespawnsShip(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	s.EnsureCorrect(w, question())
	if !w.CorrectPresent() {
		t.Fatal("correct ship missing after EnsureCorrect")
	}
}
