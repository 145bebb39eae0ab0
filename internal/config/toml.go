// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play       PlayConfig       `toml:"play"`
	Scheduler  SchedulerConfig  `toml:"scheduler"`
	Completion CompletionConfig `toml:"completion"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Variant    *string `toml:"variant"`
	Difficulty *string `toml:"difficulty"`
	Target     *int    `toml:"target"`
	Lives      *int    `toml:"lives"`
	FocusWeak  *bool   `toml:"focus-weak"`
	WeakWindow *int    `toml:"weak-window"`
}

// SchedulerConfig maps adaptive-scheduler tuning parameters.
type SchedulerConfig struct {
	BaseWeight *float64 `toml:"base-weight"`
	MinWeight  *float64 `toml:"min-weight"`
	MaxWeight  *float64 `toml:"max-weight"`
	Decay      *float64 `toml:"decay"`
	Growth     *float64 `toml:"growth"`
	Bump       *float64 `toml:"bump"`
	Pull       *float64 `toml:"pull"`
	History    *int     `toml:"history"`
	Retries    *int     `toml:"retries"`
}

// CompletionConfig maps the lesson-completion boundary settings.
type CompletionConfig struct {
	Endpoint *string `toml:"endpoint"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
