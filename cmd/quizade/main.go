// Package main provides the CLI entrypoint for quizade.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lernspiel/quizade/internal/completion"
	"github.com/lernspiel/quizade/internal/config"
	"github.com/lernspiel/quizade/internal/content"
	"github.com/lernspiel/quizade/internal/engine"
	"github.com/lernspiel/quizade/internal/model"
	"github.com/lernspiel/quizade/internal/quiz"
	"github.com/lernspiel/quizade/internal/stats"
	"github.com/lernspiel/quizade/internal/statsui"
	"github.com/lernspiel/quizade/internal/store"
	"github.com/lernspiel/quizade/internal/tui"
	"github.com/lernspiel/quizade/internal/variants/drive"
	"github.com/lernspiel/quizade/internal/variants/maze"
	"github.com/lernspiel/quizade/internal/variants/plane"
	"github.com/lernspiel/quizade/internal/variants/shooter"
	"github.com/lernspiel/quizade/internal/variants/snake"
)

const (
	defaultVariant     = "snake"
	defaultLives       = 3
	defaultWeakTop     = 5
	defaultWeakBoost   = 3.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
)

var variantNames = []string{"snake", "plane", "shooter", "maze", "drive"}

var (
	playVariant    string
	playDifficulty string
	playTarget     int
	playLives      int
	playFocusWeak  bool
	playWeakWindow int
	playEndpoint   string

	statsLesson      string
	statsVariant     string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsQuestions   string
	statsPlain       bool

	sampleForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizade <lesson>",
		Short:         "Arcade quiz trainer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playVariant, "variant", defaultVariant, "game variant: "+strings.Join(variantNames, ", "))
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", "", "difficulty preset (einfach, mittel, schwer); default from lesson")
	rootCmd.Flags().IntVar(&playTarget, "target", 0, "correct answers needed to finish; default from lesson")
	rootCmd.Flags().IntVar(&playLives, "lives", defaultLives, "lives per session")
	rootCmd.Flags().BoolVar(&playFocusWeak, "focus-weak", false, "bias question weights toward recently missed questions")
	rootCmd.Flags().IntVar(&playWeakWindow, "weak-window", defaultWeakWindow, "number of recent runs to compute weak questions")
	rootCmd.Flags().StringVar(&playEndpoint, "endpoint", "", "lesson completion endpoint URL")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSampleCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "variant", &playVariant, fileCfg.Play.Variant)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Play.Difficulty)
	applyIntConfig(cmd, "target", &playTarget, fileCfg.Play.Target)
	applyIntConfig(cmd, "lives", &playLives, fileCfg.Play.Lives)
	applyBoolConfig(cmd, "focus-weak", &playFocusWeak, fileCfg.Play.FocusWeak)
	applyIntConfig(cmd, "weak-window", &playWeakWindow, fileCfg.Play.WeakWindow)
	applyStringConfig(cmd, "endpoint", &playEndpoint, fileCfg.Completion.Endpoint)

	lessonPath, err := content.Resolve(args[0], config.DefaultLessonDir())
	if err != nil {
		return err
	}
	lesson, err := content.Load(lessonPath)
	if err != nil {
		return fmt.Errorf("failed to load lesson: %w", err)
	}

	play := model.PlayConfig{
		Variant:     strings.ToLower(strings.TrimSpace(playVariant)),
		Difficulty:  lesson.Difficulty,
		TargetScore: lesson.TargetScore,
		Lives:       playLives,
		FocusWeak:   playFocusWeak,
		WeakWindow:  playWeakWindow,
	}
	if playDifficulty != "" {
		play.Difficulty = normalizePlayDifficulty(playDifficulty)
	}
	if playTarget > 0 {
		play.TargetScore = playTarget
	}
	if play.TargetScore <= 0 {
		play.TargetScore = defaultTarget(play.Variant)
	}
	if err := validatePlay(play); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	params := schedulerParams(fileCfg.Scheduler)
	sched, err := buildScheduler(st, lesson, play, params)
	if err != nil {
		return err
	}

	bridge := completion.NewBridge(buildFinalizer(st, playEndpoint))
	defer bridge.Close()

	variant, err := buildVariant(play.Variant)
	if err != nil {
		return err
	}
	eng, err := engine.New(engineConfig(play), lesson.Blocks, variant, sched, bridge, completion.Completion{
		LessonID: lesson.LessonID,
		CourseID: lesson.CourseID,
		Type:     lesson.Type,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(eng, st, lesson, play), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildVariant(name string) (engine.Variant, error) {
	switch name {
	case "snake":
		return snake.New(), nil
	case "plane":
		return plane.New(), nil
	case "shooter":
		return shooter.New(), nil
	case "maze":
		return maze.New(), nil
	case "drive":
		return drive.New(), nil
	default:
		return nil, fmt.Errorf("unknown variant %q (available: %s)", name, strings.Join(variantNames, ", "))
	}
}

// defaultTarget is the per-variant goal when neither the lesson nor a
// flag sets one. The faster variants get a slightly longer session.
func defaultTarget(variant string) int {
	switch variant {
	case "shooter", "drive":
		return 12
	case "maze":
		return 15
	default:
		return 10
	}
}

// engineConfig maps the play settings onto per-variant field geometry.
func engineConfig(play model.PlayConfig) engine.Config {
	cfg := engine.Config{
		TargetScore: play.TargetScore,
		MaxLives:    play.Lives,
		SpeedScale:  content.SpeedScale(play.Difficulty),
	}
	switch play.Variant {
	case "snake":
		cfg.Width, cfg.Height = snake.FieldWidth, snake.FieldHeight
	case "plane":
		cfg.Width, cfg.Height = plane.FieldWidth, plane.FieldHeight
	case "shooter":
		cfg.Width, cfg.Height = shooter.FieldWidth, shooter.FieldHeight
	case "maze":
		cfg.Width, cfg.Height = maze.FieldWidth, maze.FieldHeight
		// Long maze sessions drift weights apart faster than the other
		// variants; pull them back on every draw.
		cfg.Rebalance = true
	case "drive":
		cfg.Width, cfg.Height = drive.FieldWidth, drive.FieldHeight
	}
	return cfg
}

func schedulerParams(cfg config.SchedulerConfig) quiz.Params {
	params := quiz.DefaultParams()
	if cfg.BaseWeight != nil {
		params.BaseWeight = *cfg.BaseWeight
	}
	if cfg.MinWeight != nil {
		params.MinWeight = *cfg.MinWeight
	}
	if cfg.MaxWeight != nil {
		params.MaxWeight = *cfg.MaxWeight
	}
	if cfg.Decay != nil {
		params.Decay = *cfg.Decay
	}
	if cfg.Growth != nil {
		params.Growth = *cfg.Growth
	}
	if cfg.Bump != nil {
		params.Bump = *cfg.Bump
	}
	if cfg.Pull != nil {
		params.Pull = *cfg.Pull
	}
	if cfg.History != nil {
		params.History = *cfg.History
	}
	if cfg.Retries != nil {
		params.Retries = *cfg.Retries
	}
	return params
}

// buildScheduler seeds the question weights from stored weak-question
// stats when focus-weak is on; otherwise every question starts at base.
func buildScheduler(st *store.Store, lesson model.Lesson, play model.PlayConfig, params quiz.Params) (*quiz.Scheduler, error) {
	if !play.FocusWeak {
		return quiz.New(len(lesson.Blocks), params), nil
	}
	aggs, err := st.GetWeakQuestions(context.Background(), play.WeakWindow, lesson.LessonID)
	if err != nil {
		logErrf("failed to load weak questions: %v\n", err)
		return quiz.New(len(lesson.Blocks), params), nil
	}
	weakSet := stats.SelectWeakQuestions(aggs, defaultWeakTop)
	if len(weakSet) == 0 {
		logErrln("no stats available for weak-question focus yet; using uniform weights")
		return quiz.New(len(lesson.Blocks), params), nil
	}
	seeds := make([]float64, len(lesson.Blocks))
	for i, block := range lesson.Blocks {
		seeds[i] = params.BaseWeight
		if _, ok := weakSet[block.Question]; ok {
			seeds[i] = params.BaseWeight * defaultWeakBoost
		}
	}
	return quiz.NewSeeded(seeds, params), nil
}

// buildFinalizer always records completions locally; a configured
// endpoint additionally posts them out.
func buildFinalizer(st *store.Store, endpoint string) completion.Finalizer {
	local := completion.FinalizerFunc(func(ctx context.Context, c completion.Completion) error {
		return st.InsertCompletion(ctx, c.LessonID, c.CourseID, c.Type, c.EarnedStar)
	})
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return local
	}
	return completion.Multi{local, completion.NewHTTPFinalizer(endpoint)}
}

func normalizePlayDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case content.DifficultyEasy, "easy":
		return content.DifficultyEasy
	case content.DifficultyHard, "hard":
		return content.DifficultyHard
	default:
		return content.DifficultyMedium
	}
}

func validatePlay(play model.PlayConfig) error {
	if play.TargetScore <= 0 {
		return fmt.Errorf("--target must be > 0")
	}
	if play.Lives <= 0 {
		return fmt.Errorf("--lives must be > 0")
	}
	if play.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List available lesson files",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	lessonDir := config.DefaultLessonDir()
	entries, err := os.ReadDir(lessonDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No lessons found. Create one with: quizade sample\n")
			return fmt.Errorf("lesson directory does not exist")
		}
		return fmt.Errorf("failed to read lesson directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	if len(names) == 0 {
		logErrf("No lessons found. Create one with: quizade sample\n")
		return fmt.Errorf("no lessons found")
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show run stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLesson, "lesson", "", "lesson filter")
	cmd.Flags().StringVar(&statsVariant, "variant", "", "variant filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsQuestions, "question", "", "comma-separated questions for per-question curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats to stdout instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		LessonID:    statsLesson,
		Variant:     statsVariant,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printStats(cmd, st, cfg, parseQuestionList(statsQuestions))
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig, questions []string) error {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Runs); err != nil {
		return err
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Runs, cfg.CurveWindow); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := stats.RenderQuestionTable(out, report.QuestionAggsAll); err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	runIDs := make([]int64, len(report.Runs))
	for i, r := range report.Runs {
		runIDs[i] = r.RunID
	}
	perRun, err := st.ListQuestionStatsForRuns(ctx, runIDs, questions)
	if err != nil {
		return fmt.Errorf("failed to load question stats: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return stats.RenderQuestionCurves(out, report.Runs, perRun, questions, cfg.CurveWindow)
}

func parseQuestionList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample lesson file",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().BoolVar(&sampleForce, "force", false, "overwrite an existing sample lesson")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultLessonPath("beispiel")
	if !sampleForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("lesson already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat lesson: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create lesson directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleLesson), 0o644); err != nil {
		return fmt.Errorf("failed to write lesson: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nPlay it with: quizade beispiel\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

const sampleLesson = `{
  "lessonId": "beispiel-hauptstaedte",
  "courseId": "geographie-1",
  "type": "arcade",
  "targetScore": 5,
  "difficulty": "mittel",
  "content": {
    "blocks": [
      {
        "question": "Was ist die Hauptstadt von Frankreich?",
        "answers": [
          {"text": "Paris", "correct": true},
          {"text": "Lyon", "correct": false},
          {"text": "Marseille", "correct": false}
        ]
      },
      {
        "question": "Was ist die Hauptstadt von Italien?",
        "answers": [
          {"text": "Mailand", "correct": false},
          {"text": "Rom", "correct": true},
          {"text": "Neapel", "correct": false}
        ]
      },
      {
        "question": "Was ist die Hauptstadt von Spanien?",
        "answers": [
          {"text": "Barcelona", "correct": false},
          {"text": "Sevilla", "correct": false},
          {"text": "Madrid", "correct": true}
        ]
      },
      {
        "question": "Was ist die Hauptstadt von Polen?",
        "answers": [
          {"text": "Warschau", "correct": true},
          {"text": "Krakau", "correct": false},
          {"text": "Danzig", "correct": false}
        ]
      },
      {
        "question": "Was ist die Hauptstadt von Österreich?",
        "answers": [
          {"text": "Graz", "correct": false},
          {"text": "Wien", "correct": true},
          {"text": "Salzburg", "correct": false}
        ]
      }
    ]
  }
}
`

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quizade configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# variant = %q        # Game variant (%s)
# difficulty = "mittel"   # Difficulty preset (einfach, mittel, schwer)
# target = 10             # Correct answers needed to finish
# lives = %d               # Lives per session
# focus-weak = false      # Bias question weights toward recently missed questions
# weak-window = %d        # Number of recent runs to compute weak questions

[scheduler]
# base-weight = 8.0       # Initial weight per question
# min-weight = 1.0        # Lower weight clamp
# max-weight = 80.0       # Upper weight clamp
# decay = 0.6             # Weight multiplier after a correct answer
# growth = 1.35           # Weight multiplier after a miss
# bump = 2.0              # Weight addend after a miss
# pull = 0.05             # Fraction each weight moves toward base per rebalance
# history = 3             # Anti-repetition history length
# retries = 6             # Redraw attempts before recent questions are excluded

[completion]
# endpoint = ""           # Lesson completion endpoint URL
`,
		defaultVariant,
		strings.Join(variantNames, ", "),
		defaultLives,
		defaultWeakWindow,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
