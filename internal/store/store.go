// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lernspiel/quizade/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			target INTEGER NOT NULL,
			score INTEGER NOT NULL,
			lives_left INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_question_stats (
			run_id INTEGER NOT NULL,
			question TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (run_id, question)
		);`,
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY,
			posted_at TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			type TEXT NOT NULL,
			earned_star INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_run_question_stats_question ON run_question_stats(question);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a finished run and its per-question stats.
func (s *Store) InsertRun(ctx context.Context, run model.RunStats, questions []model.QuestionStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, lesson_id, variant, difficulty, target, score, lives_left, outcome, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.LessonID,
		run.Variant,
		run.Difficulty,
		run.Target,
		run.Score,
		run.LivesLeft,
		run.Outcome,
		run.Correct,
		run.Incorrect,
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(questions) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_question_stats (run_id, question, correct, incorrect)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, qs := range questions {
			if _, err := stmt.ExecContext(ctx, id, qs.Question, qs.Correct, qs.Incorrect); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertCompletion records a posted lesson completion.
func (s *Store) InsertCompletion(ctx context.Context, lessonID, courseID, typ string, earnedStar bool) error {
	star := 0
	if earnedStar {
		star = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (posted_at, lesson_id, course_id, type, earned_star)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().Format(time.RFC3339Nano), lessonID, courseID, typ, star)
	return err
}

// GetWeakQuestions aggregates question stats over the most recent runs.
func (s *Store) GetWeakQuestions(ctx context.Context, window int, lessonID string) ([]model.QuestionAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_runs AS (
		SELECT id FROM runs
		WHERE (? = '' OR lesson_id = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT qs.question, SUM(qs.correct) AS correct, SUM(qs.incorrect) AS incorrect
	FROM run_question_stats qs
	JOIN recent_runs r ON r.id = qs.run_id
	GROUP BY qs.question`

	rows, err := s.db.QueryContext(ctx, query, lessonID, lessonID, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.QuestionAggregate
	for rows.Next() {
		var agg model.QuestionAggregate
		if err := rows.Scan(&agg.Question, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRuns returns run aggregates filtered by stats config.
func (s *Store) ListRuns(ctx context.Context, cfg model.StatsConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.LessonID != "" {
		clauses = append(clauses, "lesson_id = ?")
		args = append(args, cfg.LessonID)
	}
	if cfg.Variant != "" {
		clauses = append(clauses, "variant = ?")
		args = append(args, cfg.Variant)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, variant, score, correct, incorrect, outcome, duration_ms
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.RunID, &endedAt, &agg.Variant, &agg.Score, &agg.Correct, &agg.Incorrect, &agg.Outcome, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListQuestionAggregatesForRuns aggregates per-question stats across runs.
func (s *Store) ListQuestionAggregatesForRuns(ctx context.Context, runIDs []int64) ([]model.QuestionAggregate, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(runIDs))
	args := make([]any, len(runIDs))
	for i, id := range runIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT question, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM run_question_stats
		WHERE run_id IN (%s)
		GROUP BY question`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.QuestionAggregate
	for rows.Next() {
		var agg model.QuestionAggregate
		if err := rows.Scan(&agg.Question, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListQuestionStatsForRuns returns per-run stats for selected questions.
func (s *Store) ListQuestionStatsForRuns(ctx context.Context, runIDs []int64, questions []string) (map[int64]map[string]model.QuestionAggregate, error) {
	if len(runIDs) == 0 || len(questions) == 0 {
		return map[int64]map[string]model.QuestionAggregate{}, nil
	}
	idPlaceholders := make([]string, len(runIDs))
	args := make([]any, 0, len(runIDs)+len(questions))
	for i, id := range runIDs {
		idPlaceholders[i] = "?"
		args = append(args, id)
	}
	questionPlaceholders := make([]string, len(questions))
	for i, q := range questions {
		questionPlaceholders[i] = "?"
		args = append(args, q)
	}

	query := fmt.Sprintf(`SELECT run_id, question, correct, incorrect
		FROM run_question_stats
		WHERE run_id IN (%s) AND question IN (%s)`, strings.Join(idPlaceholders, ","), strings.Join(questionPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]model.QuestionAggregate{}
	for rows.Next() {
		var runID int64
		var agg model.QuestionAggregate
		if err := rows.Scan(&runID, &agg.Question, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		if _, ok := result[runID]; !ok {
			result[runID] = map[string]model.QuestionAggregate{}
		}
		result[runID][agg.Question] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
