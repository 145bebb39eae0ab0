// Package engine contains the generic quiz-arcade simulation core:
// session lifecycle, the per-tick update pipeline, collision outcome
// resolution, and the physics-plugin contract the game variants fill in.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lernspiel/quizade/internal/completion"
	"github.com/lernspiel/quizade/internal/model"
	"github.com/lernspiel/quizade/internal/quiz"
)

// Status is the session lifecycle state.
type Status int

// Lifecycle states. Transitions are one-directional except
// running ⇄ paused; gameOver and finished freeze scoring until Restart.
const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusGameOver
	StatusFinished
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "gameOver"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Outcome is the most recent scoring event, surfaced for HUD feedback.
type Outcome int

// Outcome values.
const (
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomePenalty
)

// ActiveQuestion binds the current question to the entities on the field.
type ActiveQuestion struct {
	Index    int
	Question string
	Answers  []model.Answer
}

// Variant is the physics plugin each arcade game supplies. The engine
// owns lifecycle, scoring, scheduling, and pruning; the variant owns
// movement, spawning, and contact detection.
type Variant interface {
	// Name identifies the variant in config and stored runs.
	Name() string
	// Init prepares the world for a fresh session (player placement,
	// static scenery). Called on New and on Restart.
	Init(w *World)
	// Spawn places entities bound to a newly active question.
	Spawn(w *World, q ActiveQuestion)
	// Apply handles one movement/action intent.
	Apply(w *World, intent Intent)
	// Advance moves all entities by dt seconds.
	Advance(w *World, dt float64)
	// Collisions returns the entities the player (or a projectile)
	// contacted this tick. Already-hit entities are filtered by the
	// engine; variants need not re-check the flag.
	Collisions(w *World) []*Entity
	// EnsureCorrect re-establishes the hard invariant that at least one
	// entity bound to a correct answer is reachable.
	EnsureCorrect(w *World, q ActiveQuestion)
}

// Backdrop is an optional Variant extension for tile scenery (the maze).
type Backdrop interface {
	Backdrop(w *World) []string
}

// Config holds the engine tuning for one session.
type Config struct {
	TargetScore int
	MaxLives    int
	Width       float64
	Height      float64
	SpeedScale  float64
	// GraceDelay is the pause between a correct hit and the next
	// question, letting feedback play out.
	GraceDelay float64
	// InvulnWindow suppresses life loss after a penalty so one mistake
	// cannot cascade across frames.
	InvulnWindow float64
	// FadeDuration keeps hit entities visible while they fade.
	FadeDuration float64
	// MaxTickDelta caps dt so a hidden tab cannot teleport entities.
	MaxTickDelta float64
	// Rebalance pulls scheduler weights toward base on every draw.
	Rebalance bool
	// Seed fixes the RNG when non-zero; used by tests.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.TargetScore <= 0 {
		c.TargetScore = 10
	}
	if c.MaxLives <= 0 {
		c.MaxLives = 3
	}
	if c.Width <= 0 {
		c.Width = 60
	}
	if c.Height <= 0 {
		c.Height = 20
	}
	if c.SpeedScale <= 0 {
		c.SpeedScale = 1
	}
	if c.GraceDelay <= 0 {
		c.GraceDelay = 0.8
	}
	if c.InvulnWindow <= 0 {
		c.InvulnWindow = 1.0
	}
	if c.FadeDuration <= 0 {
		c.FadeDuration = 0.4
	}
	if c.MaxTickDelta <= 0 {
		c.MaxTickDelta = 0.033
	}
	return c
}

// Session tracks score, lives, and lifecycle for one play-through.
type Session struct {
	Score  int
	Lives  int
	Status Status
}

// Engine is the simulation core. All mutation happens on Tick, on the
// caller's single thread; the only asynchronous boundary is the
// completion bridge.
type Engine struct {
	cfg     Config
	deck    []model.QuestionBlock
	variant Variant
	sched   *quiz.Scheduler
	bridge  *completion.Bridge
	meta    completion.Completion

	world    *World
	session  Session
	question ActiveQuestion

	pending    []Intent
	graceLeft  float64
	invulnLeft float64
	awaitNext  bool
	posted     bool

	outcome     Outcome
	outcomeLeft float64

	perQuestion map[int]*model.QuestionStats
}

// New builds an engine for the given deck and variant. An empty deck is
// the one fatal content error: the engine refuses to exist rather than
// entering an undefined running state.
func New(cfg Config, deck []model.QuestionBlock, variant Variant, sched *quiz.Scheduler, bridge *completion.Bridge, meta completion.Completion) (*Engine, error) {
	if len(deck) == 0 {
		return nil, fmt.Errorf("question deck is empty")
	}
	if sched == nil || sched.Size() != len(deck) {
		return nil, fmt.Errorf("scheduler does not match deck size")
	}
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:         cfg,
		deck:        deck,
		variant:     variant,
		sched:       sched,
		bridge:      bridge,
		meta:        meta,
		perQuestion: map[int]*model.QuestionStats{},
	}
	e.world = e.newWorld()
	e.variant.Init(e.world)
	e.session = Session{Lives: cfg.MaxLives, Status: StatusIdle}
	return e, nil
}

func (e *Engine) newWorld() *World {
	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &World{
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		Rand:       rand.New(rand.NewSource(seed)),
		SpeedScale: e.cfg.SpeedScale,
	}
}

// Start moves idle → running and activates the first question.
func (e *Engine) Start() {
	if e.session.Status != StatusIdle {
		return
	}
	e.session.Status = StatusRunning
	e.activateQuestion(e.sched.PickNext())
}

// TogglePause flips running ⇄ paused. Terminal states ignore it.
func (e *Engine) TogglePause() {
	switch e.session.Status {
	case StatusRunning:
		e.session.Status = StatusPaused
	case StatusPaused:
		e.session.Status = StatusRunning
	}
}

// Restart resets the session from a terminal state: fresh entities,
// score, lives, and scheduler history. Weights survive so adaptation
// carries across restarts.
func (e *Engine) Restart() {
	if e.session.Status != StatusGameOver && e.session.Status != StatusFinished {
		return
	}
	e.world = e.newWorld()
	e.variant.Init(e.world)
	e.sched.ResetHistory()
	e.session = Session{Lives: e.cfg.MaxLives, Status: StatusIdle}
	e.pending = e.pending[:0]
	e.graceLeft = 0
	e.invulnLeft = 0
	e.awaitNext = false
	e.posted = false
	e.outcome = OutcomeNone
	e.outcomeLeft = 0
	e.perQuestion = map[int]*model.QuestionStats{}
	e.Start()
}

// HandleIntent routes an abstract input intent. Lifecycle intents act
// immediately; movement intents are queued and applied at the start of
// the next tick, before physics.
func (e *Engine) HandleIntent(intent Intent) {
	switch intent {
	case IntentStart:
		e.Start()
	case IntentTogglePause:
		e.TogglePause()
	case IntentRestart:
		e.Restart()
	case IntentNone:
	default:
		if e.session.Status == StatusRunning {
			e.pending = append(e.pending, intent)
		}
	}
}

// Tick advances the simulation by dt seconds. Order within a tick is
// fixed: input, physics, timers, collision, question advance, spawn
// invariant, cleanup. When not running only feedback timers move.
func (e *Engine) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if dt > e.cfg.MaxTickDelta {
		dt = e.cfg.MaxTickDelta
	}
	if e.outcomeLeft > 0 {
		e.outcomeLeft -= dt
		if e.outcomeLeft <= 0 {
			e.outcome = OutcomeNone
		}
	}
	if e.session.Status != StatusRunning {
		e.pending = e.pending[:0]
		return
	}

	for _, intent := range e.pending {
		e.variant.Apply(e.world, intent)
	}
	e.pending = e.pending[:0]
	e.world.ClampPlayer()

	e.variant.Advance(e.world, dt)

	if e.graceLeft > 0 {
		e.graceLeft -= dt
	}
	if e.invulnLeft > 0 {
		e.invulnLeft -= dt
	}

	if e.graceLeft <= 0 {
		for _, ent := range e.variant.Collisions(e.world) {
			if ent.Hit {
				continue
			}
			// Flag before resolving so a second overlap in the same
			// tick can never double-count. Persistent hazards (maze
			// ghosts) are never flagged or faded: they outlive every
			// contact, and the invulnerability window de-bounces the
			// repeats instead.
			if !ent.Static || !ent.Hazard {
				ent.Hit = true
				ent.Fade = e.cfg.FadeDuration
			}
			e.resolve(ent)
			if e.session.Status != StatusRunning {
				break
			}
		}
	}

	if e.awaitNext && e.graceLeft <= 0 && e.session.Status == StatusRunning {
		e.awaitNext = false
		e.activateQuestion(e.sched.PickNext())
	}

	if e.session.Status == StatusRunning && !e.awaitNext {
		e.variant.EnsureCorrect(e.world, e.question)
	}

	e.world.prune(dt)
}

func (e *Engine) resolve(ent *Entity) {
	if ent.Hazard || (ent.Answer >= 0 && !ent.Correct) {
		e.penalize(ent)
		return
	}
	if ent.Answer >= 0 && ent.Correct {
		e.reward()
	}
}

func (e *Engine) penalize(ent *Entity) {
	if e.invulnLeft > 0 {
		return
	}
	if ent.Answer >= 0 {
		e.sched.ReportOutcome(e.question.Index, false)
		e.questionStats().Incorrect++
	}
	e.invulnLeft = e.cfg.InvulnWindow
	e.flash(OutcomePenalty)
	if e.session.Lives > 0 {
		e.session.Lives--
	}
	if e.session.Lives == 0 {
		e.session.Status = StatusGameOver
	}
}

func (e *Engine) reward() {
	e.session.Score++
	e.sched.ReportOutcome(e.question.Index, true)
	e.questionStats().Correct++
	e.flash(OutcomeCorrect)
	if e.session.Score >= e.cfg.TargetScore {
		e.session.Status = StatusFinished
		e.postCompletion()
		return
	}
	e.awaitNext = true
	e.graceLeft = e.cfg.GraceDelay
}

// postCompletion fires the completion bridge at most once per session,
// no matter how many ticks observe the finished state.
func (e *Engine) postCompletion() {
	if e.posted {
		return
	}
	e.posted = true
	if e.bridge == nil {
		return
	}
	c := e.meta
	c.EarnedStar = true
	e.bridge.Post(c)
}

func (e *Engine) activateQuestion(index int) {
	if index < 0 || index >= len(e.deck) {
		return
	}
	if e.cfg.Rebalance {
		e.sched.Normalize()
	}
	block := e.deck[index]
	e.question = ActiveQuestion{
		Index:    index,
		Question: block.Question,
		Answers:  block.Answers,
	}
	e.world.ClearAnswerEntities()
	e.variant.Spawn(e.world, e.question)
}

func (e *Engine) questionStats() *model.QuestionStats {
	qs, ok := e.perQuestion[e.question.Index]
	if !ok {
		qs = &model.QuestionStats{Question: e.question.Question}
		e.perQuestion[e.question.Index] = qs
	}
	return qs
}

func (e *Engine) flash(o Outcome) {
	e.outcome = o
	e.outcomeLeft = 1.2
}

// Session returns the current session values.
func (e *Engine) Session() Session {
	return e.session
}

// Question returns the active question.
func (e *Engine) Question() ActiveQuestion {
	return e.question
}

// QuestionStats returns per-question counts accumulated this session.
func (e *Engine) QuestionStats() []model.QuestionStats {
	out := make([]model.QuestionStats, 0, len(e.perQuestion))
	for _, qs := range e.perQuestion {
		out = append(out, *qs)
	}
	return out
}

// Counts returns total correct and incorrect answers this session.
func (e *Engine) Counts() (correct, incorrect int) {
	for _, qs := range e.perQuestion {
		correct += qs.Correct
		incorrect += qs.Incorrect
	}
	return correct, incorrect
}
