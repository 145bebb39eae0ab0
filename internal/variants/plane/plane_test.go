package plane

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

func TestGravityPullsDown(t *testing.T) {
	p := New()
	w := newWorld()
	p.Init(w)
	y := w.Player.Pos.Y
	for i := 0; i < 10; i++ {
		p.Advance(w, 0.033)
	}
	if w.Player.Pos.Y <= y {
		t.Fatalf("plane did not fall: %f -> %f", y, w.Player.Pos.Y)
	}
}

func TestClimbImpulseLifts(t *testing.T) {
	p := New()
	w := newWorld()
	p.Init(w)
	y := w.Player.Pos.Y
	p.Apply(w, engine.IntentUp)
	p.Advance(w, 0.033)
	if w.Player.Pos.Y >= y {
		t.Fatalf("climb impulse did not lift: %f -> %f", y, w.Player.Pos.Y)
	}
}

func TestPlaneStopsAtFloor(t *testing.T) {
	p := New()
	w := newWorld()
	p.Init(w)
	for i := 0; i < 400; i++ {
		p.Advance(w, 0.033)
	}
	if w.Player.Pos.Y != w.Height-1 {
		t.Fatalf("plane fell through the floor: %f", w.Player.Pos.Y)
	}
	if w.Player.Vel.Y != 0 {
		t.Fatalf("velocity not zeroed on the floor: %f", w.Player.Vel.Y)
	}
}

func TestGatesScrollLeft(t *testing.T) {
	p := New()
	w := newWorld()
	p.Init(w)
	p.Spawn(w, question())
	if len(w.Entities) != 2 {
		t.Fatalf("expected 2 gates, got %d", len(w.Entities))
	}
	x := w.Entities[0].Pos.X
	p.Advance(w, 0.1)
	if w.Entities[0].Pos.X >= x {
		t.Fatalf("gate did not scroll left: %f -> %f", x, w.Entities[0].Pos.X)
	}
}

func TestFlyingThroughGateDetected(t *testing.T) {
	p := New()
	w := newWorld()
	p.Init(w)
	gate := w.Spawn(engine.Entity{
		Kind:    engine.KindGate,
		Pos:     w.Player.Pos,
		Half:    engine.Vec{X: 0.6, Y: 1.6},
		Answer:  0,
		Correct: true,
	})
	hits := p.Collisions(w)
	if len(hits) != 1 || hits[0] != gate {
		t.Fatalf("expected the gate contact, got %v", hits)
	}
}

func TestEnsureCorrectRespawnsGate(t *testing.T) {
	p := New()
	w := newWorld()
	p.Init(w)
	p.EnsureCorrect(w, question())
	if !w.CorrectPresent() {
		t.Fatal("correct gate missing after EnsureCorrect")
	}
	p.EnsureCorrect(w, question())
	count := 0
	for _, e := range w.Entities {
		if e.Correct {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("EnsureCorrect duplicated the gate: %d", count)
	}
}
