// ABOUTME: Tests for the YAML roster export/import round trip.
package export_test

import (
	"strings"
	"testing"

	"github.com/2389-research/ttrpg-engine/engine/core"
	"github.com/2389-research/ttrpg-engine/engine/export"
)

func TestRoster_ExportImportRoundTrip(t *testing.T) {
	actors := []core.Actor{
		{ID: "dm", Name: "Narrator", ActorType: core.ActorDM, IsAI: true},
		{ID: "human1", Name: "Sam", ActorType: core.ActorHuman, IsAI: false},
	}

	doc, err := export.ExportRoster("Lost Mine", actors)
	if err != nil {
		t.Fatalf("ExportRoster: %v", err)
	}
	if !strings.Contains(doc, "name: Lost Mine") {
		t.Fatalf("expected campaign name in YAML, got:\n%s", doc)
	}

	name, got, err := export.ImportRoster([]byte(doc))
	if err != nil {
		t.Fatalf("ImportRoster: %v", err)
	}
	if name != "Lost Mine" {
		t.Fatalf("expected name Lost Mine, got %q", name)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 actors, got %d", len(got))
	}
	if got[0].ID != "dm" || got[0].ActorType != core.ActorDM || !got[0].IsAI {
		t.Fatalf("unexpected first actor: %+v", got[0])
	}
	if got[1].ID != "human1" || got[1].ActorType != core.ActorHuman || got[1].IsAI {
		t.Fatalf("unexpected second actor: %+v", got[1])
	}
}

func TestImportRoster_RequiresName(t *testing.T) {
	_, _, err := export.ImportRoster([]byte("actors: []\n"))
	if err == nil {
		t.Fatalf("expected an error for a roster with no campaign name")
	}
}
