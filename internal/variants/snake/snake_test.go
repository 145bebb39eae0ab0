package snake

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

func TestStepWaitsForInterval(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	start := w.Player.Pos

	s.Advance(w, baseStep/2)
	if w.Player.Pos != start {
		t.Fatal("snake moved before the step interval elapsed")
	}
	s.Advance(w, baseStep)
	if w.Player.Pos.X != start.X+1 || w.Player.Pos.Y != start.Y {
		t.Fatalf("expected one cell right, got %+v from %+v", w.Player.Pos, start)
	}
}

func TestSpeedScaleShortensInterval(t *testing.T) {
	s := New()
	w := newWorld()
	w.SpeedScale = 2
	s.Init(w)
	start := w.Player.Pos
	s.Advance(w, baseStep*0.6)
	if w.Player.Pos == start {
		t.Fatal("doubled speed scale should step within 0.6 intervals")
	}
}

func TestNoReverseIntoBody(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)

	s.Apply(w, engine.IntentLeft) // heading is right; left would reverse
	s.Advance(w, baseStep)
	if s.dir.X != 1 {
		t.Fatalf("snake reversed into its body, dir=%+v", s.dir)
	}

	s.Apply(w, engine.IntentUp)
	s.Advance(w, baseStep)
	if s.dir.Y != -1 {
		t.Fatalf("legal turn ignored, dir=%+v", s.dir)
	}
}

func TestWallContactIsHazard(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	w.Player.Pos = engine.Vec{X: w.Width - 1, Y: 5}
	s.body = s.body[:0]

	s.Advance(w, baseStep)
	hits := s.Collisions(w)
	if len(hits) != 1 || !hits[0].Hazard {
		t.Fatalf("expected one hazard contact, got %v", hits)
	}
	if !s.resetPending {
		t.Fatal("crash must schedule a respawn")
	}

	s.Advance(w, baseStep)
	if w.Player.Pos.X != float64(int(w.Width)/2) {
		t.Fatalf("respawn did not recenter the snake: %+v", w.Player.Pos)
	}
}

func TestEatingCorrectOrbGrows(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	w.Spawn(engine.Entity{
		Kind:    engine.KindOrb,
		Pos:     w.Player.Pos,
		Answer:  0,
		Correct: true,
		Static:  true,
	})

	hits := s.Collisions(w)
	if len(hits) != 1 || !hits[0].Correct {
		t.Fatalf("expected the correct orb, got %v", hits)
	}
	bodyBefore := len(s.body)
	hits[0].Hit = true
	s.Advance(w, baseStep)
	if len(s.body) != bodyBefore+1 {
		t.Fatalf("snake did not grow: %d -> %d", bodyBefore, len(s.body))
	}
}

func TestSpawnPlacesOrbPerAnswer(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	s.Spawn(w, question())

	orbs := 0
	for _, e := range w.Entities {
		if e.Kind == engine.KindOrb {
			orbs++
			if s.onBody(e.Pos) || sameCell(e.Pos, w.Player.Pos) {
				t.Fatalf("orb spawned on the snake at %+v", e.Pos)
			}
		}
	}
	if orbs != 2 {
		t.Fatalf("expected 2 orbs, got %d", orbs)
	}
}

func TestEnsureCorrectRespawns(t *testing.T) {
	s := New()
	w := newWorld()
	s.Init(w)
	s.EnsureCorrect(w, question())
	if !w.CorrectPresent() {
		t.Fatal("correct orb missing after EnsureCorrect")
	}
}
