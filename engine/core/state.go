// ABOUTME: GetState assembles the read-only CampaignState view for a given viewer.
// ABOUTME: Grounded on the teacher's SpecState read accessors, specialized to a flat aggregate.
package core

import "sort"

// GetState returns the campaign state as visible to viewerActorID.
func (a *CampaignAggregate) GetState(viewerActorID string) (CampaignState, error) {
	viewerIsDM := a.isDM(viewerActorID)

	actors := make([]Actor, 0, len(a.Actors))
	for _, act := range a.Actors {
		actors = append(actors, act)
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i].ID < actors[j].ID })

	kv := make(map[string]string, len(a.StateKV))
	for k, v := range a.StateKV {
		kv[k] = v
	}

	count := 0
	for _, e := range a.Events {
		if EventVisible(e, viewerActorID, viewerIsDM) {
			count++
		}
	}

	return CampaignState{
		CampaignID:         a.Campaign.ID,
		TurnOwner:          a.Campaign.TurnOwner,
		AIOnlyStreak:       a.Campaign.AIOnlyStreak,
		Actors:             actors,
		StateKV:            kv,
		VisibleEventsCount: count,
	}, nil
}

// ListEvents returns events visible to viewerActorID, optionally filtered to those after
// afterEventID, ordered ascending.
func (a *CampaignAggregate) ListEvents(viewerActorID, afterEventID string) []Event {
	viewerIsDM := a.isDM(viewerActorID)
	raw := a.listEventsAfter(afterEventID)
	out := make([]Event, 0, len(raw))
	for _, e := range raw {
		if EventVisible(e, viewerActorID, viewerIsDM) {
			out = append(out, e)
		}
	}
	return out
}

// ReadMemory returns memories visible to viewerActorID, optionally filtered by scope.
func (a *CampaignAggregate) ReadMemory(viewerActorID, scopeFilter string, dmOmniscientPrivate bool) []Memory {
	viewerIsDM := a.isDM(viewerActorID)
	out := make([]Memory, 0, len(a.Memories))
	for _, m := range a.Memories {
		if scopeFilter != "" && m.Scope != scopeFilter {
			continue
		}
		if MemoryVisible(m, viewerActorID, viewerIsDM, dmOmniscientPrivate) {
			out = append(out, m)
		}
	}
	return out
}
