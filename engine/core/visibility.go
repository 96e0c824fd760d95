// ABOUTME: Pure visibility predicates over events and memories (component C2).
// ABOUTME: Fails closed: any visibility or scope value not in the table is hidden from everyone.
package core

import "strings"

// EventVisible reports whether an event is visible to a viewer.
func EventVisible(e Event, viewerActorID string, viewerIsDM bool) bool {
	switch {
	case e.Visibility == VisibilityPublic:
		return true
	case e.Visibility == VisibilityParty:
		return true
	case e.Visibility == VisibilityDMOnly:
		return viewerIsDM
	case strings.HasPrefix(e.Visibility, privatePrefix):
		target := strings.TrimPrefix(e.Visibility, privatePrefix)
		return viewerIsDM || target == viewerActorID
	default:
		return false
	}
}

// MemoryVisible reports whether a memory is visible to a viewer.
// dmOmniscientPrivate controls whether a DM viewer can read another actor's private memories.
func MemoryVisible(m Memory, viewerActorID string, viewerIsDM bool, dmOmniscientPrivate bool) bool {
	switch m.Scope {
	case ScopeWorld, ScopePublic, ScopeParty:
		return true
	case ScopeDMOnly:
		return viewerIsDM
	case ScopePrivate:
		if m.ActorID == viewerActorID {
			return true
		}
		return viewerIsDM && dmOmniscientPrivate
	default:
		return false
	}
}
