package pipelinecfg

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

const pipelineConfigEnv = "PIPELINE_CONFIG_YAML"

//go:embed pipeline.yaml
var embeddedYAML []byte

type ConfidenceDefaults struct {
	Mood  float64 `yaml:"mood"`
	Todo  float64 `yaml:"todo"`
	Media float64 `yaml:"media"`
	Habit float64 `yaml:"habit"`
}

type Threshold struct {
	Default float64 `yaml:"default"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

type AutoAdjust struct {
	MinInteractions int     `yaml:"min_interactions"`
	Step            float64 `yaml:"step"`
	LowerAbove      float64 `yaml:"lower_above"`
	RaiseBelow      float64 `yaml:"raise_below"`
}

type Context struct {
	DefaultDays         int `yaml:"default_days"`
	MaxDays             int `yaml:"max_days"`
	MoodLimit           int `yaml:"mood_limit"`
	TodoLimit           int `yaml:"todo_limit"`
	MediaLimit          int `yaml:"media_limit"`
	HabitLimit          int `yaml:"habit_limit"`
	JournalLimit        int `yaml:"journal_limit"`
	SnippetChars        int `yaml:"snippet_chars"`
	KeywordCount        int `yaml:"keyword_count"`
	LightweightJournals int `yaml:"lightweight_journals"`
}

type Config struct {
	ConfidenceDefaults ConfidenceDefaults `yaml:"confidence_defaults"`
	Threshold          Threshold          `yaml:"threshold"`
	AutoAdjust         AutoAdjust         `yaml:"auto_adjust"`
	Context            Context            `yaml:"context"`
}

var (
	loadOnce sync.Once
	loaded   Config
)

// Load returns the process-wide tuning. An override file named by
// PIPELINE_CONFIG_YAML wins when it parses and validates.
func Load(log *logger.Logger) Config {
	loadOnce.Do(func() {
		base, err := Parse(embeddedYAML)
		if err != nil {
			// embedded document is compiled in; failing here is a build defect
			panic(fmt.Sprintf("pipelinecfg: embedded config invalid: %v", err))
		}
		loaded = base

		path := strings.TrimSpace(os.Getenv(pipelineConfigEnv))
		if path == "" {
			return
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			if log != nil {
				log.Warn("pipeline config override unreadable; using embedded defaults", "path", path, "error", err)
			}
			return
		}
		over, err := Parse(raw)
		if err != nil {
			if log != nil {
				log.Warn("pipeline config override invalid; using embedded defaults", "path", path, "error", err)
			}
			return
		}
		loaded = over
		if log != nil {
			log.Info("pipeline config override loaded", "path", path)
		}
	})
	return loaded
}

// Default returns the embedded tuning without consulting the environment.
func Default() Config {
	cfg, err := Parse(embeddedYAML)
	if err != nil {
		panic(fmt.Sprintf("pipelinecfg: embedded config invalid: %v", err))
	}
	return cfg
}

func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse pipeline yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"confidence_defaults.mood":  c.ConfidenceDefaults.Mood,
		"confidence_defaults.todo":  c.ConfidenceDefaults.Todo,
		"confidence_defaults.media": c.ConfidenceDefaults.Media,
		"confidence_defaults.habit": c.ConfidenceDefaults.Habit,
		"threshold.default":         c.Threshold.Default,
		"threshold.min":             c.Threshold.Min,
		"threshold.max":             c.Threshold.Max,
		"auto_adjust.lower_above":   c.AutoAdjust.LowerAbove,
		"auto_adjust.raise_below":   c.AutoAdjust.RaiseBelow,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if c.Threshold.Min > c.Threshold.Max {
		return fmt.Errorf("threshold.min (%v) exceeds threshold.max (%v)", c.Threshold.Min, c.Threshold.Max)
	}
	if c.Threshold.Default < c.Threshold.Min || c.Threshold.Default > c.Threshold.Max {
		return fmt.Errorf("threshold.default (%v) outside [%v,%v]", c.Threshold.Default, c.Threshold.Min, c.Threshold.Max)
	}
	if c.AutoAdjust.RaiseBelow > c.AutoAdjust.LowerAbove {
		return fmt.Errorf("auto_adjust.raise_below must not exceed lower_above")
	}
	if c.AutoAdjust.Step <= 0 || c.AutoAdjust.Step > 1 {
		return fmt.Errorf("auto_adjust.step must be within (0,1]")
	}
	if c.AutoAdjust.MinInteractions < 1 {
		return fmt.Errorf("auto_adjust.min_interactions must be positive")
	}
	if c.Context.DefaultDays < 1 || c.Context.MaxDays < c.Context.DefaultDays {
		return fmt.Errorf("context window days invalid (default=%d max=%d)", c.Context.DefaultDays, c.Context.MaxDays)
	}
	return nil
}
