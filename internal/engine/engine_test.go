package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/lernspiel/quizade/internal/completion"
	"github.com/lernspiel/quizade/internal/model"
	"github.com/lernspiel/quizade/internal/quiz"
)

// stubVariant is a scripted physics plugin: tests decide which entities
// the player touches on the next tick.
type stubVariant struct {
	nextHits []*Entity
	spawns   int
	ensures  int
}

func (v *stubVariant) Name() string { return "stub" }

func (v *stubVariant) Init(w *World) {
	w.Player = Entity{Kind: KindPlayer, Pos: Vec{X: 5, Y: 5}, Radius: 0.5}
}

func (v *stubVariant) Spawn(w *World, q ActiveQuestion) {
	v.spawns++
	for i, a := range q.Answers {
		w.Spawn(Entity{
			Kind:    KindOrb,
			Pos:     Vec{X: float64(10 + 3*i), Y: 5},
			Answer:  i,
			Correct: a.Correct,
			Label:   a.Text,
		})
	}
}

func (v *stubVariant) Apply(w *World, intent Intent) {
	if intent == IntentRight {
		w.Player.Pos.X++
	}
}

func (v *stubVariant) Advance(w *World, dt float64) {
	for _, e := range w.Entities {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
	}
}

func (v *stubVariant) Collisions(_ *World) []*Entity {
	out := v.nextHits
	v.nextHits = nil
	return out
}

func (v *stubVariant) EnsureCorrect(w *World, q ActiveQuestion) {
	v.ensures++
	if w.CorrectPresent() {
		return
	}
	for i, a := range q.Answers {
		if a.Correct {
			w.Spawn(Entity{Kind: KindOrb, Pos: Vec{X: 12, Y: 8}, Answer: i, Correct: true})
			return
		}
	}
}

type countingFinalizer struct {
	mu    sync.Mutex
	calls []completion.Completion
}

func (f *countingFinalizer) Finalize(_ context.Context, c completion.Completion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return nil
}

func (f *countingFinalizer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testDeck(n int) []model.QuestionBlock {
	deck := make([]model.QuestionBlock, n)
	for i := range deck {
		deck[i] = model.QuestionBlock{
			Question: "q",
			Answers: []model.Answer{
				{Text: "right", Correct: true},
				{Text: "wrong"},
			},
		}
	}
	return deck
}

func newTestEngine(t *testing.T, cfg Config, deckSize int, bridge *completion.Bridge) (*Engine, *stubVariant) {
	t.Helper()
	cfg.Seed = 42
	deck := testDeck(deckSize)
	sched := quiz.New(len(deck), quiz.DefaultParams())
	sched.Seed(42)
	variant := &stubVariant{}
	meta := completion.Completion{LessonID: "l1", CourseID: "c1", Type: "stub"}
	e, err := New(cfg, deck, variant, sched, bridge, meta)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return e, variant
}

const testDT = 0.02

// settle runs enough ticks to pass the grace delay.
func settle(e *Engine, ticks int) {
	for i := 0; i < ticks; i++ {
		e.Tick(testDT)
	}
}

func findEntity(e *Engine, correct bool) *Entity {
	for _, ent := range e.world.Entities {
		if !ent.Hit && ent.Answer >= 0 && ent.Correct == correct {
			return ent
		}
	}
	return nil
}

func TestEmptyDeckRefused(t *testing.T) {
	sched := quiz.New(0, quiz.DefaultParams())
	_, err := New(Config{}, nil, &stubVariant{}, sched, nil, completion.Completion{})
	if err == nil {
		t.Fatal("expected error for empty deck")
	}
}

func TestThreeCorrectHitsFinishAndCompleteOnce(t *testing.T) {
	fin := &countingFinalizer{}
	bridge := completion.NewBridge(fin)
	e, v := newTestEngine(t, Config{TargetScore: 3, MaxLives: 3}, 3, bridge)
	e.Start()

	for hit := 0; hit < 3; hit++ {
		ent := findEntity(e, true)
		if ent == nil {
			t.Fatalf("no correct entity on field before hit %d", hit)
		}
		v.nextHits = []*Entity{ent}
		e.Tick(testDT)
		settle(e, 60) // ride out the grace delay
	}

	if got := e.Session(); got.Status != StatusFinished || got.Score != 3 {
		t.Fatalf("expected finished with score 3, got %v score %d", got.Status, got.Score)
	}

	// The finished state must be stable and must not re-fire completion.
	settle(e, 150)
	if got := e.Session(); got.Status != StatusFinished || got.Score != 3 {
		t.Fatalf("terminal state mutated: %v score %d", got.Status, got.Score)
	}
	bridge.Close()
	if fin.count() != 1 {
		t.Fatalf("expected exactly one completion, got %d", fin.count())
	}
	if !fin.calls[0].EarnedStar {
		t.Fatal("completion must carry earnedStar")
	}
}

func TestThreeWrongHitsGameOverNoCompletion(t *testing.T) {
	fin := &countingFinalizer{}
	bridge := completion.NewBridge(fin)
	e, v := newTestEngine(t, Config{TargetScore: 3, MaxLives: 3, InvulnWindow: 0.1}, 3, bridge)
	e.Start()

	for hit := 0; hit < 3; hit++ {
		ent := e.world.Spawn(Entity{Kind: KindOrb, Pos: Vec{X: 20, Y: 5}, Answer: 1})
		v.nextHits = []*Entity{ent}
		e.Tick(testDT)
		settle(e, 10) // outside the invulnerability window
	}

	got := e.Session()
	if got.Status != StatusGameOver {
		t.Fatalf("expected gameOver, got %v", got.Status)
	}
	if got.Lives != 0 {
		t.Fatalf("expected 0 lives, got %d", got.Lives)
	}
	if got.Score != 0 {
		t.Fatalf("score must be unchanged, got %d", got.Score)
	}
	settle(e, 150)
	bridge.Close()
	if fin.count() != 0 {
		t.Fatalf("completion must never fire on gameOver, got %d calls", fin.count())
	}
}

func TestInvulnerabilitySuppressesCascade(t *testing.T) {
	e, v := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3, InvulnWindow: 1.0}, 3, nil)
	e.Start()

	first := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 20, Y: 5}, Hazard: true, Answer: -1})
	second := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 21, Y: 5}, Hazard: true, Answer: -1})
	v.nextHits = []*Entity{first}
	e.Tick(testDT)
	v.nextHits = []*Entity{second}
	e.Tick(testDT)

	if got := e.Session().Lives; got != 2 {
		t.Fatalf("two hits inside the window must cost one life, lives=%d", got)
	}

	// After the window a new hit counts again.
	settle(e, 60)
	third := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 22, Y: 5}, Hazard: true, Answer: -1})
	v.nextHits = []*Entity{third}
	e.Tick(testDT)
	if got := e.Session().Lives; got != 1 {
		t.Fatalf("hit after the window must count, lives=%d", got)
	}
}

func TestStaticHazardsSurviveContact(t *testing.T) {
	e, v := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3, InvulnWindow: 1.0}, 3, nil)
	e.Start()

	first := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 8, Y: 5}, Radius: 0.45, Hazard: true, Answer: -1, Static: true})
	second := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 9, Y: 5}, Radius: 0.45, Hazard: true, Answer: -1, Static: true})
	v.nextHits = []*Entity{first}
	e.Tick(testDT)
	// Contact inside the invulnerability window costs nothing and must
	// not remove the hazard either.
	v.nextHits = []*Entity{second}
	e.Tick(testDT)
	settle(e, 60) // well past any fade

	if got := e.Session().Lives; got != 2 {
		t.Fatalf("two contacts inside the window must cost one life, lives=%d", got)
	}
	ghosts := 0
	for _, ent := range e.world.Entities {
		if ent.Kind == KindGhost && !ent.Hit {
			ghosts++
		}
	}
	if ghosts != 2 {
		t.Fatalf("persistent hazards must survive contact, %d of 2 remain", ghosts)
	}

	// After the window the same hazard costs a life again.
	v.nextHits = []*Entity{first}
	e.Tick(testDT)
	if got := e.Session().Lives; got != 1 {
		t.Fatalf("re-contact after the window must count, lives=%d", got)
	}
}

func TestDoubleCollisionSameTickCountsOnce(t *testing.T) {
	e, v := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3}, 3, nil)
	e.Start()
	ent := findEntity(e, true)
	// The same entity reported twice in one tick must score once.
	v.nextHits = []*Entity{ent, ent}
	e.Tick(testDT)
	if got := e.Session().Score; got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	e, _ := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3}, 3, nil)
	e.Start()
	mover := e.world.Spawn(Entity{Kind: KindShip, Pos: Vec{X: 30, Y: 5}, Vel: Vec{X: -10}})

	e.HandleIntent(IntentTogglePause)
	if e.Session().Status != StatusPaused {
		t.Fatalf("expected paused, got %v", e.Session().Status)
	}
	before := mover.Pos
	scoreBefore := e.Session().Score
	settle(e, 50)
	if mover.Pos != before {
		t.Fatalf("paused entity moved: %+v -> %+v", before, mover.Pos)
	}
	if e.Session().Score != scoreBefore {
		t.Fatal("paused score changed")
	}

	e.HandleIntent(IntentTogglePause)
	e.Tick(testDT)
	if mover.Pos == before {
		t.Fatal("resumed entity did not move")
	}
}

func TestRestartResetsSession(t *testing.T) {
	e, v := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3, InvulnWindow: 0.05}, 3, nil)
	e.Start()
	for i := 0; i < 3; i++ {
		ent := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 20, Y: 5}, Hazard: true, Answer: -1})
		v.nextHits = []*Entity{ent}
		e.Tick(testDT)
		settle(e, 10)
	}
	if e.Session().Status != StatusGameOver {
		t.Fatalf("setup failed: %v", e.Session().Status)
	}

	e.HandleIntent(IntentRestart)
	got := e.Session()
	if got.Status != StatusRunning {
		t.Fatalf("restart must pass idle -> running, got %v", got.Status)
	}
	if got.Score != 0 || got.Lives != 3 {
		t.Fatalf("restart must reset score/lives, got %d/%d", got.Score, got.Lives)
	}
	for _, ent := range e.world.Entities {
		if ent.Hit {
			t.Fatal("restart left a hit entity behind")
		}
	}
}

func TestLivesNeverNegative(t *testing.T) {
	e, v := newTestEngine(t, Config{TargetScore: 5, MaxLives: 1, InvulnWindow: 0.01}, 3, nil)
	e.Start()
	for i := 0; i < 5; i++ {
		ent := e.world.Spawn(Entity{Kind: KindGhost, Pos: Vec{X: 20, Y: 5}, Hazard: true, Answer: -1})
		v.nextHits = []*Entity{ent}
		e.Tick(testDT)
		settle(e, 5)
	}
	if got := e.Session().Lives; got < 0 {
		t.Fatalf("lives went negative: %d", got)
	}
}

func TestCorrectAnswerAlwaysAvailable(t *testing.T) {
	e, _ := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3}, 3, nil)
	e.Start()
	// Remove the correct entity behind the variant's back; the next
	// tick must restore the invariant.
	for _, ent := range e.world.Entities {
		if ent.Correct {
			ent.Hit = true
			ent.Fade = 0
		}
	}
	e.Tick(testDT)
	if !e.world.CorrectPresent() {
		t.Fatal("correct-answer entity missing after tick")
	}
}

func TestTickDeltaClamped(t *testing.T) {
	e, _ := newTestEngine(t, Config{TargetScore: 5, MaxLives: 3, MaxTickDelta: 0.033}, 3, nil)
	e.Start()
	mover := e.world.Spawn(Entity{Kind: KindShip, Pos: Vec{X: 30, Y: 5}, Vel: Vec{X: -10}})
	before := mover.Pos.X
	e.Tick(5.0) // tab was hidden
	moved := before - mover.Pos.X
	if moved > 10*0.033+1e-9 {
		t.Fatalf("dt not clamped, entity jumped %f cells", moved)
	}
}

func TestIdleIgnoresMovement(t *testing.T) {
	e, _ := newTestEngine(t, Config{}, 3, nil)
	e.HandleIntent(IntentRight)
	e.Tick(testDT)
	if len(e.pending) != 0 {
		t.Fatal("idle engine queued movement input")
	}
	if e.Session().Status != StatusIdle {
		t.Fatalf("expected idle, got %v", e.Session().Status)
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	e, _ := newTestEngine(t, Config{TargetScore: 4, MaxLives: 3}, 3, nil)
	e.Start()
	snap := e.Snapshot()
	if snap.Status != StatusRunning {
		t.Fatalf("expected running snapshot, got %v", snap.Status)
	}
	if snap.Question == "" || len(snap.Answers) != 2 {
		t.Fatalf("snapshot missing question data: %+v", snap)
	}
	if snap.Target != 4 || snap.Lives != 3 {
		t.Fatalf("snapshot HUD values wrong: %+v", snap)
	}
	if len(snap.Entities) == 0 {
		t.Fatal("snapshot missing entities")
	}
}
