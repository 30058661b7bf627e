// Package ingest loads the exported event and lineup tables and resolves
// display names into opaque player identifiers. It is the only layer
// that sees player names; everything downstream works with PlayerIDs and
// dense roster indices.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/okian/harpastum/internal/domain/model"
)

// Sentinel kinds for ingest errors.
var (
	// ErrUnknownPlayer marks an event row referencing a player absent
	// from the lineup table: a data-quality problem upstream that must
	// not be silently dropped.
	ErrUnknownPlayer = errors.New("player not present in lineup table")

	// ErrEmptyLineup marks a lineup table with no rows.
	ErrEmptyLineup = errors.New("lineup table is empty")

	// ErrReadTable marks an unreadable or undecodable input file.
	ErrReadTable = errors.New("reading input table failed")
)

// Lineup maps official player names to opaque identifiers and keeps the
// nickname and team lookups used at the presentation boundary.
type Lineup struct {
	byName    map[string]model.PlayerID
	nicknames map[model.PlayerID]string
	names     map[model.PlayerID]string
	teams     map[model.PlayerID]string
	order     []model.PlayerID
}

// ID resolves an official player name to its identifier.
func (l *Lineup) ID(name string) (model.PlayerID, bool) {
	id, ok := l.byName[name]
	return id, ok
}

// Nickname returns the display nickname for id, falling back to the
// official name when no nickname was recorded.
func (l *Lineup) Nickname(id model.PlayerID) string {
	if n, ok := l.nicknames[id]; ok && n != "" {
		return n
	}
	return l.names[id]
}

// Name returns the official player name for id.
func (l *Lineup) Name(id model.PlayerID) string { return l.names[id] }

// TeamPlayers returns the identifiers of the given team's roster members
// in lineup order.
func (l *Lineup) TeamPlayers(team string) []model.PlayerID {
	var out []model.PlayerID
	for _, id := range l.order {
		if l.teams[id] == team {
			out = append(out, id)
		}
	}
	return out
}

// Size returns the number of players across both teams.
func (l *Lineup) Size() int { return len(l.order) }

// LoadLineup decodes the lineup table and mints a PlayerID per row.
func LoadLineup(_ context.Context, path string) (*Lineup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadTable, err)
	}

	var rows []model.RawLineupRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrReadTable, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyLineup, path)
	}

	l := &Lineup{
		byName:    make(map[string]model.PlayerID, len(rows)),
		nicknames: make(map[model.PlayerID]string, len(rows)),
		names:     make(map[model.PlayerID]string, len(rows)),
		teams:     make(map[model.PlayerID]string, len(rows)),
	}
	for _, row := range rows {
		if _, ok := l.byName[row.PlayerName]; ok {
			continue
		}
		id := model.NewPlayerID()
		l.byName[row.PlayerName] = id
		l.nicknames[id] = row.PlayerNickname
		l.names[id] = row.PlayerName
		l.teams[id] = row.TeamName
		l.order = append(l.order, id)
	}
	return l, nil
}
