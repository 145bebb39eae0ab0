package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lernspiel/quizade/internal/engine"
	"github.com/lernspiel/quizade/internal/model"
	"github.com/lernspiel/quizade/internal/store"
)

// frameInterval paces the simulation at roughly 30 fps; the engine
// clamps the wall-clock delta on its own.
const frameInterval = 33 * time.Millisecond

type frameMsg time.Time

// Model implements the Bubble Tea arcade UI around one engine session.
type Model struct {
	eng    *engine.Engine
	store  *store.Store
	lesson model.Lesson
	play   model.PlayConfig

	width  int
	height int

	lastFrame time.Time
	startedAt time.Time
	runSaved  bool
	quitting  bool
}

// NewModel constructs the arcade TUI model.
func NewModel(eng *engine.Engine, st *store.Store, lesson model.Lesson, play model.PlayConfig) *Model {
	return &Model{
		eng:    eng,
		store:  st,
		lesson: lesson,
		play:   play,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.lastFrame = time.Now()
	return m.scheduleFrame()
}

func (m *Model) scheduleFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		now := time.Time(msg)
		dt := now.Sub(m.lastFrame).Seconds()
		m.lastFrame = now
		before := m.eng.Session().Status
		m.eng.Tick(dt)
		m.afterTick(before)
		if m.quitting {
			// Quitting cancels the scheduled tick; no further frames run.
			return m, tea.Quit
		}
		return m, m.scheduleFrame()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.saveAbandoned()
		m.quitting = true
		return m, tea.Quit
	case "up", "w":
		m.eng.HandleIntent(engine.IntentUp)
	case "down", "s":
		m.eng.HandleIntent(engine.IntentDown)
	case "left", "a":
		m.eng.HandleIntent(engine.IntentLeft)
	case "right", "d":
		m.eng.HandleIntent(engine.IntentRight)
	case " ":
		m.eng.HandleIntent(engine.IntentAction)
	case "enter":
		if m.eng.Session().Status == engine.StatusIdle {
			m.startedAt = time.Now()
		}
		m.eng.HandleIntent(engine.IntentStart)
	case "p":
		m.eng.HandleIntent(engine.IntentTogglePause)
	case "r":
		if st := m.eng.Session().Status; st == engine.StatusGameOver || st == engine.StatusFinished {
			m.runSaved = false
			m.startedAt = time.Now()
			m.eng.HandleIntent(engine.IntentRestart)
		}
	}
	return m, nil
}

// afterTick persists the run once when the session reaches a terminal
// state.
func (m *Model) afterTick(before engine.Status) {
	after := m.eng.Session().Status
	if before == after || m.runSaved {
		return
	}
	switch after {
	case engine.StatusFinished:
		m.saveRun(model.OutcomeFinished)
	case engine.StatusGameOver:
		m.saveRun(model.OutcomeGameOver)
	}
}

func (m *Model) saveAbandoned() {
	st := m.eng.Session().Status
	if m.runSaved || (st != engine.StatusRunning && st != engine.StatusPaused) {
		return
	}
	m.saveRun(model.OutcomeAbandoned)
}

func (m *Model) saveRun(outcome string) {
	if m.store == nil || m.startedAt.IsZero() {
		return
	}
	m.runSaved = true
	session := m.eng.Session()
	correct, incorrect := m.eng.Counts()
	endedAt := time.Now()
	run := model.RunStats{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		LessonID:   m.lesson.LessonID,
		Variant:    m.play.Variant,
		Difficulty: m.play.Difficulty,
		Target:     m.play.TargetScore,
		Score:      session.Score,
		LivesLeft:  session.Lives,
		Outcome:    outcome,
		Correct:    correct,
		Incorrect:  incorrect,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	ctx := context.Background()
	if _, err := m.store.InsertRun(ctx, run, m.eng.QuestionStats()); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.eng.Snapshot()
	questionWidth := snap.Width
	if questionWidth < 20 {
		questionWidth = 20
	}

	// The overlay box takes the legend's place so the field stays
	// visible behind pause and end screens.
	lower := renderLegend(snap)
	if text := overlayText(snap.Status); text != "" {
		lower = overlayStyle.Render(text)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderHUD(snap),
		renderQuestion(snap, questionWidth),
		renderField(snap),
		lower,
		footerStyle.Render("Pfeile/WASD bewegen · Leertaste Aktion · P Pause · Q beenden"),
	)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
