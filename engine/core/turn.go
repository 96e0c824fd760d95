// ABOUTME: TurnManager state machine: round-robin turn ownership and the anti-ramble refocus trigger.
// ABOUTME: Grounded on original_source/engine/services/turn_service.py, with the actor-order fix from SPEC_FULL.md.
package core

// DefaultAIOnlyStreakLimit is the default value of ENGINE_AI_ONLY_STREAK_LIMIT.
const DefaultAIOnlyStreakLimit = 3

// InitialTurnOwner picks the starting turn owner for a freshly created campaign:
// the first dm actor in canonical order, or actor-order position 0 if there is no dm.
func (a *CampaignAggregate) InitialTurnOwner() string {
	order := a.actorOrder()
	if len(order) == 0 {
		return ""
	}
	return order[0]
}

// Advance runs one step of the TurnManager state machine (SPEC_FULL.md §4.4) and
// returns the resulting AdvanceResult. It may append a synthetic system_refocus event.
func (a *CampaignAggregate) Advance(aiOnlyStreakLimit int) (AdvanceResult, error) {
	order := a.actorOrder()
	if len(order) == 0 {
		return AdvanceResult{}, NotFound("No actors in campaign")
	}

	var lastEventID string
	if n := len(a.Events); n > 0 {
		last := a.Events[n-1]
		lastEventID = last.ID
		if a.Actors[last.ActorID].IsAI {
			a.Campaign.AIOnlyStreak++
		} else {
			a.Campaign.AIOnlyStreak = 0
		}
	}

	refocusTriggered := false
	if aiOnlyStreakLimit <= 0 {
		aiOnlyStreakLimit = DefaultAIOnlyStreakLimit
	}
	if a.Campaign.AIOnlyStreak >= aiOnlyStreakLimit {
		refocusTriggered = true
		a.appendEvent(SystemActorID, EventTypeRefocus,
			"[SYSTEM] Anti-ramble triggered: Human player, please take action.", VisibilityPublic)
		a.Campaign.AIOnlyStreak = 0
	}

	nextOwner := order[0]
	for i, id := range order {
		if id == a.Campaign.TurnOwner {
			nextOwner = order[(i+1)%len(order)]
			break
		}
	}

	now := a.monotonicNow()
	a.Campaign.TurnOwner = nextOwner
	a.Campaign.FloorLock = nextOwner
	a.Campaign.FloorLockAt = &now

	return AdvanceResult{
		TurnOwner:        nextOwner,
		AIOnlyStreak:     a.Campaign.AIOnlyStreak,
		RefocusTriggered: refocusTriggered,
		LastEventID:      lastEventID,
	}, nil
}
