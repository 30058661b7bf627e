// Package model contains domain models passed between layers.
package model

import "github.com/google/uuid"

// PlayerID is an opaque, stable identifier for a roster member.
// IDs are minted when the lineup table is loaded; display names and
// nicknames are resolved separately at the presentation boundary.
type PlayerID uuid.UUID

// NewPlayerID mints a fresh PlayerID.
func NewPlayerID() PlayerID { return PlayerID(uuid.New()) }

// String returns the canonical UUID form of the identifier.
func (id PlayerID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the identifier is the zero value.
func (id PlayerID) IsZero() bool { return id == PlayerID(uuid.Nil) }

// EventKind identifies the event types the analysis cares about.
type EventKind string

// Event kinds as they appear in the exported event table.
const (
	KindPass         EventKind = "Pass"
	KindSubstitution EventKind = "Substitution"
)

// Pass sub-types treated as set pieces and excluded from open-play analysis.
const (
	SubTypeThrowIn  = "Throw-in"
	SubTypeCorner   = "Corner"
	SubTypeGoalKick = "Goal Kick"
)

// RawEvent mirrors one row of the exported match event table before
// player-name resolution. Nullable columns use pointers; a null outcome
// on a pass signifies success.
type RawEvent struct {
	ID                          string  `json:"id"`
	Period                      int     `json:"period"`
	Minute                      int     `json:"minute"`
	Second                      int     `json:"second"`
	TypeName                    string  `json:"type_name"`
	TeamName                    string  `json:"team_name"`
	PlayerName                  string  `json:"player_name"`
	PassRecipientName           *string `json:"pass_recipient_name"`
	SubTypeName                 *string `json:"sub_type_name"`
	OutcomeName                 *string `json:"outcome_name"`
	SubstitutionReplacementName *string `json:"substitution_replacement_name"`
}

// RawLineupRow mirrors one row of the exported lineup table.
type RawLineupRow struct {
	TeamName       string `json:"team_name"`
	PlayerName     string `json:"player_name"`
	PlayerNickname string `json:"player_nickname"`
}

// MatchEvent is a typed, name-resolved match event. Events are
// constructed once during ingest and never mutated.
type MatchEvent struct {
	ID     string
	Period int
	Minute int
	Second int
	Kind   EventKind
	Team   string

	// Actor is the player performing the action: the passer for a pass,
	// the player leaving the pitch for a substitution.
	Actor PlayerID

	// Recipient is set only for passes that name a receiver.
	Recipient    PlayerID
	HasRecipient bool

	// SubType carries the pass sub-type ("Corner", "Throw-in", ...); empty
	// for open-play passes.
	SubType string

	// Failed is true when the source table records a non-null outcome for
	// a pass.
	Failed bool

	// Replacement is set for substitutions that name the incoming player.
	Replacement    PlayerID
	HasReplacement bool
}

// Pass is a successful, in-play pass between two active roster members.
type Pass struct {
	Actor     PlayerID
	Recipient PlayerID
}
