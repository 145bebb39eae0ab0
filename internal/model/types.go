// Package model defines shared data structures.
package model

import "time"

// Answer is one selectable answer of a question.
type Answer struct {
	Text    string
	Correct bool
}

// QuestionBlock is a normalized quiz question with its answer set.
// Immutable during a play session; at least one answer is correct.
type QuestionBlock struct {
	Question string
	Answers  []Answer
}

// HasCorrect reports whether at least one answer is marked correct.
func (b QuestionBlock) HasCorrect() bool {
	for _, a := range b.Answers {
		if a.Correct {
			return true
		}
	}
	return false
}

// Lesson is the consumed lesson-content boundary: a normalized deck plus
// the metadata the completion call needs.
type Lesson struct {
	LessonID    string
	CourseID    string
	Type        string
	TargetScore int
	Difficulty  string
	Blocks      []QuestionBlock
}

// PlayConfig defines settings for one play session.
type PlayConfig struct {
	Variant     string
	Difficulty  string
	TargetScore int
	Lives       int
	FocusWeak   bool
	WeakWindow  int
}

// RunStats captures a finished (or abandoned) arcade run.
type RunStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	LessonID   string
	Variant    string
	Difficulty string
	Target     int
	Score      int
	LivesLeft  int
	Outcome    string
	Correct    int
	Incorrect  int
	DurationMs int64
}

// Run outcomes as stored in the runs table.
const (
	OutcomeFinished  = "finished"
	OutcomeGameOver  = "gameover"
	OutcomeAbandoned = "abandoned"
)

// QuestionStats stores per-question counts for a single run.
type QuestionStats struct {
	Question  string
	Correct   int
	Incorrect int
}

// QuestionAggregate aggregates question stats across runs.
type QuestionAggregate struct {
	Question  string
	Correct   int
	Incorrect int
}

// RunAggregate summarizes a run for reporting.
type RunAggregate struct {
	RunID      int64
	EndedAt    time.Time
	Variant    string
	Score      int
	Correct    int
	Incorrect  int
	Outcome    string
	DurationMs int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	LessonID    string
	Variant     string
	Since       *time.Time
	Last        int
	CurveWindow int
}
