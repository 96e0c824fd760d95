// ABOUTME: CampaignAggregate is the in-memory materialized state of one campaign.
// ABOUTME: Owned exclusively by its CampaignActor goroutine; never touched from outside it.
package core

import (
	"sort"
	"time"
)

// CampaignAggregate holds everything the core needs to answer requests for one campaign.
// It is rebuilt from the event/memory log on recovery (see engine/store) and mutated only
// by the owning CampaignActor, which gives it the single-writer discipline described in
// the concurrency section of the specification without any internal locking of its own.
type CampaignAggregate struct {
	Campaign Campaign
	Actors   map[string]Actor

	Events   []Event
	Memories []Memory
	Rolls    []Roll
	StateKV  map[string]string
	Cursors  map[string]ActorCursor

	nextSeq       uint64
	lastEventTime time.Time
}

// NewCampaignAggregate creates a fresh, empty aggregate for a newly created campaign.
func NewCampaignAggregate(campaign Campaign, actors []Actor) *CampaignAggregate {
	agg := &CampaignAggregate{
		Campaign: campaign,
		Actors:   make(map[string]Actor, len(actors)),
		StateKV:  make(map[string]string),
		Cursors:  make(map[string]ActorCursor),
	}
	for _, a := range actors {
		agg.Actors[a.ID] = a
	}
	return agg
}

// monotonicNow returns a timestamp strictly greater than the last one handed out for
// this campaign, shimming forward by the minimum representable unit when the wall clock
// has not advanced (or has gone backward) since the previous call. See SPEC_FULL.md §4.1.
func (a *CampaignAggregate) monotonicNow() time.Time {
	now := time.Now().UTC()
	if !now.After(a.lastEventTime) {
		now = a.lastEventTime.Add(time.Nanosecond)
	}
	a.lastEventTime = now
	return now
}

// actorOrder returns the canonical turn order: dm actors sorted by id, then non-dm
// actors sorted by id. See SPEC_FULL.md §4.4 and the "Actor-order drift" design note.
func (a *CampaignAggregate) actorOrder() []string {
	var dms, others []string
	for id, act := range a.Actors {
		if act.ActorType == ActorDM {
			dms = append(dms, id)
		} else {
			others = append(others, id)
		}
	}
	sort.Strings(dms)
	sort.Strings(others)
	return append(dms, others...)
}

// isDM reports whether the given actor id names a dm actor in this campaign.
func (a *CampaignAggregate) isDM(actorID string) bool {
	act, ok := a.Actors[actorID]
	return ok && act.ActorType == ActorDM
}

// appendEvent allocates an id and monotonic timestamp, appends the event to the log,
// and returns the stored copy. Callers must hold the actor's exclusivity (i.e. be
// running inside the owning CampaignActor goroutine).
func (a *CampaignAggregate) appendEvent(actorID, eventType, content, visibility string) Event {
	ev := Event{
		ID:         NewID(),
		CampaignID: a.Campaign.ID,
		ActorID:    actorID,
		EventType:  eventType,
		Content:    content,
		Visibility: visibility,
		CreatedAt:  a.monotonicNow(),
		seq:        a.nextSeq,
	}
	a.nextSeq++
	a.Events = append(a.Events, ev)
	return ev
}

// appendMemory allocates an id and timestamp and appends a memory entry.
func (a *CampaignAggregate) appendMemory(actorID, scope, text string, tags []string) Memory {
	m := Memory{
		ID:         NewID(),
		CampaignID: a.Campaign.ID,
		ActorID:    actorID,
		Scope:      scope,
		Text:       text,
		Tags:       tags,
		CreatedAt:  a.monotonicNow(),
	}
	a.Memories = append(a.Memories, m)
	return m
}

// listEventsAfter returns events with CreatedAt strictly after the referenced event
// (identified by id), ordered ascending by (CreatedAt, insertion order). An empty or
// unknown afterEventID returns the full log, per SPEC_FULL.md §4.1.
func (a *CampaignAggregate) listEventsAfter(afterEventID string) []Event {
	if afterEventID == "" {
		return append([]Event(nil), a.Events...)
	}
	var cutoff time.Time
	var cutoffSeq uint64
	found := false
	for _, e := range a.Events {
		if e.ID == afterEventID {
			cutoff = e.CreatedAt
			cutoffSeq = e.seq
			found = true
			break
		}
	}
	if !found {
		return append([]Event(nil), a.Events...)
	}
	var out []Event
	for _, e := range a.Events {
		if e.CreatedAt.After(cutoff) || (e.CreatedAt.Equal(cutoff) && e.seq > cutoffSeq) {
			out = append(out, e)
		}
	}
	return out
}
