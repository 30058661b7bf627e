// Package repository defines the possession ranking store and errors.
// The steady-state output table is a ranking of players by long-run
// possession probability; the store keeps it queryable by player.
package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/okian/harpastum/internal/domain/model"
)

// Sentinel kinds for ranking errors.
var (
	ErrNotFound     = errors.New("player not found in ranking")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)

// Entry represents one ranking row.
type Entry struct {
	Rank        int
	PlayerID    model.PlayerID
	Nickname    string
	Probability float64
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Upsert records (or replaces) a player's possession probability.
	Upsert(ctx context.Context, id model.PlayerID, nickname string, probability float64) error

	// Rank returns the current rank and probability for a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, id model.PlayerID) (Entry, error)

	// TopN returns the top-N entries ordered by probability descending.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked players.
	Count(ctx context.Context) int
}

// MemoryStore implements Store with a mutex-guarded map and an on-demand
// sorted snapshot. Roster sizes here are a dozen players, so rebuilding
// the snapshot per query is cheaper than maintaining an ordered structure.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[model.PlayerID]Entry
}

// NewMemoryStore creates an empty ranking store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[model.PlayerID]Entry)}
}

// Upsert records a player's possession probability.
func (s *MemoryStore) Upsert(_ context.Context, id model.PlayerID, nickname string, probability float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = Entry{PlayerID: id, Nickname: nickname, Probability: probability}
	return nil
}

// Rank returns the current rank and probability for a player.
func (s *MemoryStore) Rank(ctx context.Context, id model.PlayerID) (Entry, error) {
	ranked := s.snapshot()
	for _, e := range ranked {
		if e.PlayerID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the top-N entries ordered by probability descending.
func (s *MemoryStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	ranked := s.snapshot()
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// Count returns the number of ranked players.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// snapshot returns all entries sorted by probability descending with
// ranks assigned. Ties break on nickname for a stable presentation order.
func (s *MemoryStore) snapshot() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Nickname < out[j].Nickname
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
