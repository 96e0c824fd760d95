// ABOUTME: Director assembles the package that drives the current turn-owner actor (component C5).
// ABOUTME: Grounded on original_source/engine/services/director_service.py; see SPEC_FULL.md §4.5.
package core

import "strings"

// DirectorConfig carries the process-wide configuration the Director's refocus/gating
// logic depends on.
type DirectorConfig struct {
	AIOnlyStreakLimit   int
	DMOmniscientPrivate bool
}

const directorGateLookback = 6
const directorStreakLookback = 3

// NextContext assembles the director package for the campaign's current turn owner.
func (a *CampaignAggregate) NextContext(cfg DirectorConfig, maxEvents, maxMemories int) (DirectorPackage, error) {
	ownerID := a.Campaign.TurnOwner
	owner, ok := a.Actors[ownerID]
	if !ok {
		return DirectorPackage{ShouldAct: false, Reason: "no_turn_owner"}, nil
	}

	if owner.ActorType == ActorPlayer && owner.IsAI {
		if !a.humanSpokeRecently(directorGateLookback) && !a.directlyAddressed(owner) {
			return DirectorPackage{ShouldAct: false, Reason: "await_human_input"}, nil
		}
	}

	cursor := a.Cursors[ownerID]
	filtered := a.ListEvents(ownerID, cursor.LastSeenID)
	visibleEvents := filtered
	if maxEvents > 0 && len(visibleEvents) > maxEvents {
		visibleEvents = visibleEvents[:maxEvents]
	}
	if len(visibleEvents) > 0 {
		cursor = ActorCursor{
			CampaignID: a.Campaign.ID,
			ActorID:    ownerID,
			LastSeenID: visibleEvents[len(visibleEvents)-1].ID,
		}
		a.Cursors[ownerID] = cursor
	}

	memories := a.ReadMemory(ownerID, "", cfg.DMOmniscientPrivate)
	bucketed := bucketMemories(memories, maxMemories)

	mustRefocus := a.computeMustRefocus(cfg.AIOnlyStreakLimit)

	state, _ := a.GetState(ownerID)

	reason := "turn_owner"
	if mustRefocus {
		reason = "refocus"
	}

	return DirectorPackage{
		ShouldAct:     true,
		ActorID:       owner.ID,
		ActorRole:     owner.ActorType,
		Reason:        reason,
		ViewerState:   &state,
		VisibleEvents: visibleEvents,
		Memories:      &bucketed,
		Constraints: &DirectorConstraints{
			MustAskQuestion:    mustRefocus,
			MaxOutputSentences: 6,
		},
	}, nil
}

// humanSpokeRecently reports whether any of the most recent `lookback` events (raw log
// order, newest first) was authored by a non-AI actor.
func (a *CampaignAggregate) humanSpokeRecently(lookback int) bool {
	n := len(a.Events)
	for i := n - 1; i >= 0 && n-i <= lookback; i-- {
		if !a.Actors[a.Events[i].ActorID].IsAI {
			return true
		}
	}
	return false
}

// directlyAddressed reports whether the most recent dm-authored event mentions the actor
// by "@<id>" or by name, case-insensitively.
func (a *CampaignAggregate) directlyAddressed(actor Actor) bool {
	for i := len(a.Events) - 1; i >= 0; i-- {
		e := a.Events[i]
		if !a.isDM(e.ActorID) {
			continue
		}
		content := strings.ToLower(e.Content)
		if strings.Contains(content, strings.ToLower("@"+actor.ID)) {
			return true
		}
		if actor.Name != "" && strings.Contains(content, strings.ToLower(actor.Name)) {
			return true
		}
		return false
	}
	return false
}

// computeMustRefocus is the disjunction of the three conditions in SPEC_FULL.md §4.5 Step 5.
func (a *CampaignAggregate) computeMustRefocus(aiOnlyStreakLimit int) bool {
	if aiOnlyStreakLimit <= 0 {
		aiOnlyStreakLimit = DefaultAIOnlyStreakLimit
	}
	if a.Campaign.AIOnlyStreak >= aiOnlyStreakLimit {
		return true
	}
	if n := len(a.Events); n > 0 && a.Events[n-1].EventType == EventTypeRefocus {
		return true
	}
	if n := len(a.Events); n >= directorStreakLookback {
		allAI := true
		for i := n - directorStreakLookback; i < n; i++ {
			if !a.Actors[a.Events[i].ActorID].IsAI {
				allAI = false
				break
			}
		}
		if allAI {
			return true
		}
	}
	return false
}

func bucketMemories(memories []Memory, cap int) DirectorMemories {
	var out DirectorMemories
	for _, m := range memories {
		switch m.Scope {
		case ScopeWorld, ScopePublic:
			if cap <= 0 || len(out.World) < cap {
				out.World = append(out.World, m)
			}
		case ScopeParty:
			if cap <= 0 || len(out.Party) < cap {
				out.Party = append(out.Party, m)
			}
		case ScopePrivate:
			if cap <= 0 || len(out.Private) < cap {
				out.Private = append(out.Private, m)
			}
		}
	}
	return out
}
