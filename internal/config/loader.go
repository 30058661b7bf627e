package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if HARPASTUM_CONFIG is set
//  3. env (prefix HARPASTUM_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("HARPASTUM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: HARPASTUM_TEAM, HARPASTUM_CUTOFF_MINUTE, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("HARPASTUM_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "harpastum_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations that cannot produce a meaningful run.
func validate(cfg *Config) error {
	switch {
	case cfg.Team == "":
		return fmt.Errorf("%w: team must not be empty", ErrInvalidConfig)
	case cfg.EventsPath == "":
		return fmt.Errorf("%w: events_path must not be empty", ErrInvalidConfig)
	case cfg.LineupPath == "":
		return fmt.Errorf("%w: lineup_path must not be empty", ErrInvalidConfig)
	case cfg.Period < 1:
		return fmt.Errorf("%w: period must be >= 1", ErrInvalidConfig)
	case cfg.CutoffMinute <= 0:
		return fmt.Errorf("%w: cutoff_minute must be positive", ErrInvalidConfig)
	case cfg.ValidationCutoffMinute < cfg.CutoffMinute:
		return fmt.Errorf("%w: validation_cutoff_minute must not precede cutoff_minute", ErrInvalidConfig)
	case cfg.NSteps < 1:
		return fmt.Errorf("%w: n_steps must be >= 1", ErrInvalidConfig)
	case cfg.SampleSize < 1:
		return fmt.Errorf("%w: sample_size must be >= 1", ErrInvalidConfig)
	case len(cfg.Repetitions) == 0:
		return fmt.Errorf("%w: repetitions must not be empty", ErrInvalidConfig)
	case cfg.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be >= 1", ErrInvalidConfig)
	}
	for _, r := range cfg.Repetitions {
		if r < 1 {
			return fmt.Errorf("%w: repetition counts must be >= 1", ErrInvalidConfig)
		}
	}
	if cfg.DanglingPolicy != DanglingError && cfg.DanglingPolicy != DanglingExclude {
		return fmt.Errorf("%w: dangling_policy must be %q or %q", ErrInvalidConfig, DanglingError, DanglingExclude)
	}
	return nil
}
