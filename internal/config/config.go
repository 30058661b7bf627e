// Package config defines analysis configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Dangling-row policy names accepted in configuration.
const (
	DanglingError   = "error"
	DanglingExclude = "exclude"
)

// Config contains process configuration for one analysis run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// EventsPath and LineupPath locate the exported event and lineup tables.
	EventsPath string `koanf:"events_path"`
	LineupPath string `koanf:"lineup_path"`

	// Team selects whose possession chain is modelled.
	Team string `koanf:"team"`

	// Period and CutoffMinute bound the estimation window.
	Period       int `koanf:"period"`
	CutoffMinute int `koanf:"cutoff_minute"`

	// ValidationCutoffMinute bounds the later window whose empirical
	// reception frequencies the steady state is validated against.
	ValidationCutoffMinute int `koanf:"validation_cutoff_minute"`

	// NSteps is the exponent for the n-step transition projection.
	NSteps int `koanf:"n_steps"`

	// SampleSize is the number of draws per Monte Carlo trial.
	SampleSize int `koanf:"sample_size"`

	// Repetitions is the ladder of trial counts the simulator averages over.
	Repetitions []int `koanf:"repetitions"`

	// WorkerCount sets the number of trial workers.
	WorkerCount int `koanf:"worker_count"`

	// Seed makes the stochastic simulation reproducible.
	Seed uint64 `koanf:"seed"`

	// DanglingPolicy selects how zero-outgoing-pass rows are handled:
	// "error" (default) or "exclude".
	DanglingPolicy string `koanf:"dangling_policy"`

	// MetricsAddr optionally exposes Prometheus metrics, e.g. ":9090".
	// Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// OutputPath writes the rendered report to a file instead of stdout.
	OutputPath string `koanf:"output_path"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		EventsPath:             "events.json",
		LineupPath:             "lineup.json",
		Team:                   "",
		Period:                 1,
		CutoffMinute:           15,
		ValidationCutoffMinute: 45,
		NSteps:                 3,
		SampleSize:             500,
		Repetitions:            []int{10, 100, 1000, 10000},
		WorkerCount:            runtime.NumCPU() * 2,
		Seed:                   42,
		DanglingPolicy:         DanglingError,
		MetricsAddr:            "",
		OutputPath:             "",
	}
}
