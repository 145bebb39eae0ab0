package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lernspiel/quizade/internal/model"
)

// Load reads a lesson file and normalizes its question deck.
func Load(path string) (model.Lesson, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Lesson{}, err
	}
	parsed, err := Normalize(raw)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(parsed.Blocks) == 0 {
		return model.Lesson{}, fmt.Errorf("%s: lesson contains no usable questions", path)
	}
	return parsed, nil
}

// Resolve turns a lesson argument into a file path. A value that points
// at an existing file is used as-is; anything else is looked up by name
// in the lesson directory.
func Resolve(arg, lessonDir string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("lesson name or path required")
	}
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	name := strings.TrimSuffix(arg, ".json")
	path := filepath.Join(lessonDir, name+".json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("lesson %q not found (looked at %s)", arg, path)
	}
	return path, nil
}
