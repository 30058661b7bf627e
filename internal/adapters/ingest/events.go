package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/okian/harpastum/internal/domain/dedupe"
	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
	"github.com/okian/harpastum/pkg/metrics"
)

// Loader decodes event rows, suppresses duplicates, and resolves player
// names against a lineup.
type Loader struct {
	deduper dedupe.Deduper
	logger  logger.Logger
}

// LoaderOption applies a configuration option to the Loader.
type LoaderOption func(*Loader)

// WithDeduper sets a custom deduper for the loader.
func WithDeduper(d dedupe.Deduper) LoaderOption {
	return func(l *Loader) {
		if d != nil {
			l.deduper = d
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) LoaderOption {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader creates a Loader with a bounded deduper.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.deduper == nil {
		l.deduper = dedupe.NewInMemoryDeduper()
	}
	if l.logger == nil {
		l.logger = logger.Named("ingest")
	}
	return l
}

// LoadEvents decodes the event table at path and resolves it into typed
// match events. Only pass and substitution rows are typed; other event
// kinds are skipped. A pass or substitution row naming a player missing
// from the lineup fails the load with ErrUnknownPlayer.
func (l *Loader) LoadEvents(ctx context.Context, path string, lineup *Lineup) ([]model.MatchEvent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadTable, err)
	}

	var rows []model.RawEvent
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrReadTable, path, err)
	}

	events := make([]model.MatchEvent, 0, len(rows))
	for idx, row := range rows {
		kind := model.EventKind(row.TypeName)
		if kind != model.KindPass && kind != model.KindSubstitution {
			metrics.RecordEventSkipped("type")
			continue
		}

		id := row.ID
		if id == "" {
			// Content-derived fallback so id-less exports still dedupe.
			id = fmt.Sprintf("%d:%d:%d|%s|%s|%s", row.Period, row.Minute, row.Second, row.TypeName, row.TeamName, row.PlayerName)
		}
		if l.deduper.SeenAndRecord(ctx, id) {
			metrics.RecordEventDuplicate()
			l.logger.Debug(ctx, "duplicate event row skipped", logger.String("id", id))
			continue
		}

		e, err := l.resolve(row, kind, id, lineup)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
		events = append(events, e)
		metrics.RecordEventIngested()
	}

	l.logger.Info(ctx, "event table loaded",
		logger.String("path", path),
		logger.Int("rows", len(rows)),
		logger.Int("events", len(events)),
	)
	return events, nil
}

// resolve turns a raw row into a typed event, failing loudly on any name
// the lineup table does not know.
func (l *Loader) resolve(row model.RawEvent, kind model.EventKind, id string, lineup *Lineup) (model.MatchEvent, error) {
	actor, ok := lineup.ID(row.PlayerName)
	if !ok {
		return model.MatchEvent{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, row.PlayerName)
	}

	e := model.MatchEvent{
		ID:     id,
		Period: row.Period,
		Minute: row.Minute,
		Second: row.Second,
		Kind:   kind,
		Team:   row.TeamName,
		Actor:  actor,
	}

	switch kind {
	case model.KindPass:
		if row.PassRecipientName != nil && *row.PassRecipientName != "" {
			recipient, ok := lineup.ID(*row.PassRecipientName)
			if !ok {
				return model.MatchEvent{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, *row.PassRecipientName)
			}
			e.Recipient = recipient
			e.HasRecipient = true
		}
		if row.SubTypeName != nil {
			e.SubType = *row.SubTypeName
		}
		// A null outcome signifies a completed pass.
		e.Failed = row.OutcomeName != nil && *row.OutcomeName != ""
	case model.KindSubstitution:
		if row.SubstitutionReplacementName != nil && *row.SubstitutionReplacementName != "" {
			replacement, ok := lineup.ID(*row.SubstitutionReplacementName)
			if !ok {
				return model.MatchEvent{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, *row.SubstitutionReplacementName)
			}
			e.Replacement = replacement
			e.HasReplacement = true
		}
	}
	return e, nil
}
