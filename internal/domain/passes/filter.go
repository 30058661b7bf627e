// Package passes extracts qualifying open-play passes from the match
// event table for one team and time window.
package passes

import (
	"context"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
	"github.com/okian/harpastum/pkg/metrics"
)

// Window bounds an analysis segment: one team, one period, events up to
// and including CutoffMinute.
type Window struct {
	Team         string
	Period       int
	CutoffMinute int
}

// Filter selects successful in-play passes and applies the substitution
// policy. Set-piece sub-types are excluded wholesale.
type Filter struct {
	excludedSubTypes map[string]bool
	logger           logger.Logger
}

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithExcludedSubTypes overrides the set of pass sub-types treated as
// set pieces.
func WithExcludedSubTypes(subTypes ...string) Option {
	return func(f *Filter) {
		f.excludedSubTypes = make(map[string]bool, len(subTypes))
		for _, st := range subTypes {
			f.excludedSubTypes[st] = true
		}
	}
}

// WithLogger sets a custom logger for the filter.
func WithLogger(l logger.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFilter creates a Filter with the default set-piece exclusions
// (throw-ins, corners, goal kicks).
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		excludedSubTypes: map[string]bool{
			model.SubTypeThrowIn:  true,
			model.SubTypeCorner:   true,
			model.SubTypeGoalKick: true,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Named("passes")
	}
	return f
}

// Substituted returns the set of players invalidated by substitution
// events inside the window: both the player leaving the pitch and, when
// named, the replacement coming on.
func (f *Filter) Substituted(ctx context.Context, events []model.MatchEvent, w Window) map[model.PlayerID]bool {
	out := make(map[model.PlayerID]bool)
	for _, e := range events {
		if e.Kind != model.KindSubstitution || e.Team != w.Team || e.Period != w.Period {
			continue
		}
		if e.Minute > w.CutoffMinute {
			continue
		}
		out[e.Actor] = true
		if e.HasReplacement {
			out[e.Replacement] = true
		}
	}
	return out
}

// Passes returns the successful in-play passes for the window, with every
// pass involving a substituted player removed. The removal is retroactive
// across the whole window: once a player is substituted at any point up
// to the cutoff, all of their passes in the window are dropped, including
// those before the substitution minute. This mirrors how the estimation
// roster is frozen for the window and is an intentional simplification,
// not a causal truncation.
//
// An empty result is valid; callers must tolerate zero-row aggregation.
func (f *Filter) Passes(ctx context.Context, events []model.MatchEvent, w Window) []model.Pass {
	substituted := f.Substituted(ctx, events, w)

	var kept []model.Pass
	var droppedSub int
	for _, e := range events {
		if !f.qualifies(e, w) {
			continue
		}
		if substituted[e.Actor] || substituted[e.Recipient] {
			droppedSub++
			metrics.RecordPassDroppedSubstituted()
			continue
		}
		kept = append(kept, model.Pass{Actor: e.Actor, Recipient: e.Recipient})
		metrics.RecordPassFiltered()
	}

	f.logger.Debug(ctx, "pass filter applied",
		logger.String("team", w.Team),
		logger.Int("period", w.Period),
		logger.Int("cutoff_minute", w.CutoffMinute),
		logger.Int("kept", len(kept)),
		logger.Int("dropped_substituted", droppedSub),
		logger.Int("substituted_players", len(substituted)),
	)
	return kept
}

// qualifies applies the per-event inclusion contract: pass type, matching
// team and period, minute within the cutoff, not a set piece, recipient
// present, no recorded failure outcome.
func (f *Filter) qualifies(e model.MatchEvent, w Window) bool {
	if e.Kind != model.KindPass {
		return false
	}
	if e.Team != w.Team || e.Period != w.Period || e.Minute > w.CutoffMinute {
		return false
	}
	if e.SubType != "" && f.excludedSubTypes[e.SubType] {
		return false
	}
	if !e.HasRecipient || e.Failed {
		return false
	}
	return true
}
