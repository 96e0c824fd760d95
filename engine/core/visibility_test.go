// ABOUTME: Unit tests for the pure visibility predicates (component C2).
package core_test

import (
	"testing"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

func TestEventVisible_Table(t *testing.T) {
	cases := []struct {
		name       string
		visibility string
		viewer     string
		viewerIsDM bool
		want       bool
	}{
		{"public to anyone", core.VisibilityPublic, "human1", false, true},
		{"party to anyone", core.VisibilityParty, "human1", false, true},
		{"dm_only hidden from player", core.VisibilityDMOnly, "player1", false, false},
		{"dm_only visible to dm", core.VisibilityDMOnly, "dm", true, true},
		{"private visible to target", core.PrivateTo("player1"), "player1", false, true},
		{"private hidden from others", core.PrivateTo("player1"), "human1", false, false},
		{"private visible to dm", core.PrivateTo("player1"), "dm", true, true},
		{"unknown visibility fails closed", "whatever", "dm", true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := core.Event{Visibility: c.visibility}
			got := core.EventVisible(e, c.viewer, c.viewerIsDM)
			if got != c.want {
				t.Errorf("EventVisible(%q, %q, %v) = %v, want %v", c.visibility, c.viewer, c.viewerIsDM, got, c.want)
			}
		})
	}
}

func TestMemoryVisible_DMOmniscienceToggle(t *testing.T) {
	m := core.Memory{ActorID: "player1", Scope: core.ScopePrivate}

	if !core.MemoryVisible(m, "player1", false, true) {
		t.Fatalf("author should always see their own private memory")
	}
	if core.MemoryVisible(m, "human1", false, true) {
		t.Fatalf("another non-dm actor should never see a private memory")
	}
	if !core.MemoryVisible(m, "dm", true, true) {
		t.Fatalf("dm should see private memory when omniscient toggle is on")
	}
	if core.MemoryVisible(m, "dm", true, false) {
		t.Fatalf("dm should not see private memory when omniscient toggle is off")
	}
}

func TestMemoryVisible_UnknownScopeFailsClosed(t *testing.T) {
	m := core.Memory{ActorID: "player1", Scope: "mystery"}
	if core.MemoryVisible(m, "dm", true, true) {
		t.Fatalf("unknown scope must be hidden even from an omniscient dm")
	}
}
