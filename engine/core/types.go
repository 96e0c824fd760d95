// ABOUTME: Core domain types for the turn-coordination engine: Campaign, Actor, Event, Memory.
// ABOUTME: Mirrors the data model section of the engine specification field for field.
package core

import "time"

// ActorType identifies an actor's functional role within a campaign.
type ActorType string

const (
	ActorDM     ActorType = "dm"
	ActorPlayer ActorType = "player"
	ActorHuman  ActorType = "human"
)

// Visibility labels for events. The prefix "private:" is followed by an actor id.
const (
	VisibilityPublic = "public"
	VisibilityParty  = "party"
	VisibilityDMOnly = "dm_only"
	privatePrefix    = "private:"
)

// PrivateTo builds the private-to-actor visibility label.
func PrivateTo(actorID string) string { return privatePrefix + actorID }

// Memory scope labels.
const (
	ScopeWorld   = "world"
	ScopePublic  = "public"
	ScopeParty   = "party"
	ScopePrivate = "private"
	ScopeDMOnly  = "dm_only"
)

// Reserved event types with defined meaning to the core.
const (
	EventTypeRoll     = "roll"
	EventTypeRefocus  = "system_refocus"
	EventTypeUtterance = "utterance"
	SystemActorID     = "system"
)

// Actor is a named participant in a campaign.
type Actor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ActorType ActorType `json:"actor_type"`
	IsAI      bool      `json:"is_ai"`
}

// Campaign is a single role-playing session's persistent world.
type Campaign struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CreatedAt    time.Time  `json:"created_at"`
	TurnOwner    string     `json:"turn_owner"`
	AIOnlyStreak int        `json:"ai_only_streak"`
	FloorLock    string     `json:"floor_lock,omitempty"`
	FloorLockAt  *time.Time `json:"floor_lock_at,omitempty"`
}

// Event is an immutable, append-only record in a campaign's log.
type Event struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	ActorID    string    `json:"actor_id"`
	EventType  string    `json:"event_type"`
	Content    string    `json:"content"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	seq        uint64    // insertion order, used as a tiebreaker; not serialized
}

// Memory is an immutable, scoped note authored by an actor.
type Memory struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	ActorID    string    `json:"actor_id"`
	Scope      string    `json:"scope"`
	Text       string    `json:"text"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActorCursor tracks the last event an actor has been shown by the Director.
type ActorCursor struct {
	CampaignID  string `json:"campaign_id"`
	ActorID     string `json:"actor_id"`
	LastSeenID  string `json:"last_seen_event_id"`
}

// Roll is a first-class dice-roll record, supplemental to the bare "roll" event type
// (grounded on original_source/engine/models.py's Roll table).
type Roll struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	ActorID    string    `json:"actor_id"`
	Expr       string    `json:"expr"`
	Reason     string    `json:"reason"`
	Result     int       `json:"result"`
	Breakdown  string    `json:"breakdown"`
	CreatedAt  time.Time `json:"created_at"`
}

// CampaignState is the read-only view of a campaign as seen by a particular viewer.
type CampaignState struct {
	CampaignID         string            `json:"campaign_id"`
	TurnOwner          string            `json:"turn_owner"`
	AIOnlyStreak       int               `json:"ai_only_streak"`
	Actors             []Actor           `json:"actors"`
	StateKV            map[string]string `json:"state_kv"`
	VisibleEventsCount int               `json:"visible_events_count"`
}

// Mutation is one entry in a Mutate batch.
type Mutation struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// MutationResult reports the outcome of one applied mutation.
type MutationResult struct {
	Type string `json:"type"`
	Key  string `json:"key"`
	Value string `json:"value"`
}

// AdvanceResult is the outcome of TurnManager.Advance.
type AdvanceResult struct {
	TurnOwner        string `json:"turn_owner"`
	AIOnlyStreak     int    `json:"ai_only_streak"`
	RefocusTriggered bool   `json:"refocus_triggered"`
	LastEventID      string `json:"last_event_id,omitempty"`
}

// DirectorConstraints accompanies a director package.
type DirectorConstraints struct {
	MustAskQuestion   bool `json:"must_ask_question"`
	MaxOutputSentences int `json:"max_output_sentences"`
}

// DirectorMemories groups memories by bucket for a director package.
type DirectorMemories struct {
	World   []Memory `json:"world"`
	Party   []Memory `json:"party"`
	Private []Memory `json:"private"`
}

// DirectorPackage is the assembled bundle returned to drive the turn-owner actor.
type DirectorPackage struct {
	ShouldAct      bool                `json:"should_act"`
	ActorID        string              `json:"actor_id,omitempty"`
	ActorRole      ActorType           `json:"actor_role,omitempty"`
	Reason         string              `json:"reason"`
	ViewerState    *CampaignState      `json:"viewer_state,omitempty"`
	VisibleEvents  []Event             `json:"visible_events,omitempty"`
	Memories       *DirectorMemories   `json:"memories,omitempty"`
	Constraints    *DirectorConstraints `json:"constraints,omitempty"`
}
