// ABOUTME: Tests for CampaignActorHandle command processing and the turn/director pipeline.
// ABOUTME: Covers S1 (refocus trigger), S4 (AI-player gating), and S5 (cursor advance).
package core_test

import (
	"testing"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

func newTestCampaign(t *testing.T) *core.CampaignActorHandle {
	t.Helper()
	agg, err := core.CreateCampaign("Test Campaign", []core.Actor{
		{ID: "dm", Name: "Dungeon Master", ActorType: core.ActorDM, IsAI: true},
		{ID: "player1", Name: "Arannis", ActorType: core.ActorPlayer, IsAI: true},
		{ID: "human1", Name: "Sam", ActorType: core.ActorHuman, IsAI: false},
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	return core.SpawnCampaignActor(agg)
}

func TestAdvanceTurn_InitialOwnerIsDM(t *testing.T) {
	handle := newTestCampaign(t)
	state, err := handle.GetState("dm")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.TurnOwner != "dm" {
		t.Fatalf("expected initial turn owner 'dm', got %q", state.TurnOwner)
	}
}

// S1: three consecutive AI-authored advances trigger the refocus circuit breaker.
func TestAdvance_ThreeAIEventsTriggerRefocus(t *testing.T) {
	handle := newTestCampaign(t)

	if _, err := handle.AppendEvent("dm", core.EventTypeUtterance, "The tavern is quiet.", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if _, err := handle.AdvanceTurn(3); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}

	if _, err := handle.AppendEvent("player1", core.EventTypeUtterance, "I order a drink.", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if _, err := handle.AdvanceTurn(3); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}

	if _, err := handle.AppendEvent("dm", core.EventTypeUtterance, "A stranger enters.", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	res, err := handle.AdvanceTurn(3)
	if err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if !res.RefocusTriggered {
		t.Fatalf("expected refocus_triggered=true on the third consecutive AI advance")
	}
	if res.AIOnlyStreak != 0 {
		t.Fatalf("expected ai_only_streak reset to 0 after refocus, got %d", res.AIOnlyStreak)
	}

	events, err := handle.ListEvents("dm", "")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	refocusCount := 0
	for _, e := range events {
		if e.EventType == core.EventTypeRefocus {
			refocusCount++
		}
	}
	if refocusCount != 1 {
		t.Fatalf("expected exactly one system_refocus event in the log, got %d", refocusCount)
	}
}

// S2: private visibility excludes everyone but the target actor and the DM.
func TestListEvents_PrivateVisibility(t *testing.T) {
	handle := newTestCampaign(t)
	if _, err := handle.AppendEvent("player1", "utterance", "secret plan", core.PrivateTo("player1")); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	humanEvents, err := handle.ListEvents("human1", "")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	for _, e := range humanEvents {
		if e.Content == "secret plan" {
			t.Fatalf("human1 should not see player1's private event")
		}
	}

	playerEvents, _ := handle.ListEvents("player1", "")
	dmEvents, _ := handle.ListEvents("dm", "")
	if !containsContent(playerEvents, "secret plan") {
		t.Fatalf("player1 should see its own private event")
	}
	if !containsContent(dmEvents, "secret plan") {
		t.Fatalf("dm should see every event regardless of visibility")
	}
}

func containsContent(events []core.Event, content string) bool {
	for _, e := range events {
		if e.Content == content {
			return true
		}
	}
	return false
}

// S4: an AI player is gated until a human has spoken recently or is directly addressed.
func TestNextContext_AIPlayerGating(t *testing.T) {
	handle := newTestCampaign(t)
	cfg := core.DirectorConfig{AIOnlyStreakLimit: 3, DMOmniscientPrivate: true}

	if _, err := handle.AdvanceTurn(3); err != nil { // dm -> human1
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if _, err := handle.AdvanceTurn(3); err != nil { // human1 -> player1
		t.Fatalf("AdvanceTurn: %v", err)
	}

	pkg, err := handle.NextContext(cfg, 10, 10)
	if err != nil {
		t.Fatalf("NextContext: %v", err)
	}
	if pkg.ShouldAct {
		t.Fatalf("expected should_act=false while awaiting human input, got reason=%q", pkg.Reason)
	}
	if pkg.Reason != "await_human_input" {
		t.Fatalf("expected reason 'await_human_input', got %q", pkg.Reason)
	}

	if _, err := handle.AppendEvent("dm", core.EventTypeUtterance, "@player1 what do you do?", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	pkg, err = handle.NextContext(cfg, 10, 10)
	if err != nil {
		t.Fatalf("NextContext: %v", err)
	}
	if !pkg.ShouldAct {
		t.Fatalf("expected should_act=true once directly addressed")
	}
}

// S5: the director cursor advances monotonically and never re-delivers seen events.
func TestNextContext_CursorAdvances(t *testing.T) {
	handle := newTestCampaign(t)
	cfg := core.DirectorConfig{AIOnlyStreakLimit: 3, DMOmniscientPrivate: true}

	if _, err := handle.AppendEvent("human1", core.EventTypeUtterance, "first", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if _, err := handle.AppendEvent("human1", core.EventTypeUtterance, "second", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	pkg, err := handle.NextContext(cfg, 10, 10)
	if err != nil {
		t.Fatalf("NextContext: %v", err)
	}
	if len(pkg.VisibleEvents) != 2 {
		t.Fatalf("expected 2 visible events, got %d", len(pkg.VisibleEvents))
	}

	pkg, err = handle.NextContext(cfg, 10, 10)
	if err != nil {
		t.Fatalf("NextContext: %v", err)
	}
	if len(pkg.VisibleEvents) != 0 {
		t.Fatalf("expected 0 visible events on second call, got %d", len(pkg.VisibleEvents))
	}

	if _, err := handle.AppendEvent("human1", core.EventTypeUtterance, "third", core.VisibilityPublic); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	pkg, err = handle.NextContext(cfg, 10, 10)
	if err != nil {
		t.Fatalf("NextContext: %v", err)
	}
	if len(pkg.VisibleEvents) != 1 || pkg.VisibleEvents[0].Content != "third" {
		t.Fatalf("expected only the new event 'third', got %+v", pkg.VisibleEvents)
	}
}

// S6: rolling dice logs a "roll" event visible to the roller.
func TestRollDice_LogsEvent(t *testing.T) {
	handle := newTestCampaign(t)
	roll, err := handle.RollDice("player1", "1d20", "attack")
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if roll.Result < 1 || roll.Result > 20 {
		t.Fatalf("expected result in [1,20], got %d", roll.Result)
	}

	events, err := handle.ListEvents("player1", "")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	found := false
	for _, e := range events {
		if e.EventType == core.EventTypeRoll && e.Content == roll.Breakdown {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a roll event with the breakdown in the log")
	}
}

// S8: a mutation batch with an unknown type aborts entirely, applying none of its entries.
func TestMutate_UnknownTypeAbortsBatch(t *testing.T) {
	handle := newTestCampaign(t)
	_, err := handle.Mutate("dm", []core.Mutation{
		{Type: "hp_set", Payload: map[string]any{"actor_id": "player1", "hp": float64(10)}},
		{Type: "flag_set", Payload: map[string]any{"key": "met_npc", "value": true}},
		{Type: "not_a_real_mutation"},
		{Type: "time_advance", Payload: map[string]any{"amount": float64(1), "unit": "day"}},
	})
	if err == nil {
		t.Fatalf("expected an error for the unknown mutation type")
	}

	state, err := handle.GetState("dm")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if len(state.StateKV) != 0 {
		t.Fatalf("expected no mutations applied after an aborted batch, got %v", state.StateKV)
	}
}

func TestMutate_HPDeltaAndInventory(t *testing.T) {
	handle := newTestCampaign(t)
	if _, err := handle.Mutate("dm", []core.Mutation{
		{Type: "hp_set", Payload: map[string]any{"actor_id": "player1", "hp": float64(20)}},
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if _, err := handle.Mutate("dm", []core.Mutation{
		{Type: "hp_delta", Payload: map[string]any{"actor_id": "player1", "delta": float64(-5)}},
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if _, err := handle.Mutate("dm", []core.Mutation{
		{Type: "inventory_add", Payload: map[string]any{"actor_id": "player1", "item": "torch"}},
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	state, err := handle.GetState("dm")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.StateKV["hp:player1"] != "15" {
		t.Fatalf("expected hp:player1=15, got %q", state.StateKV["hp:player1"])
	}
	if state.StateKV["inventory:player1"] != `["torch"]` {
		t.Fatalf("expected inventory:player1=[\"torch\"], got %q", state.StateKV["inventory:player1"])
	}
}
