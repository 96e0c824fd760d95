// ABOUTME: Tests for StorageManager recovery: S7, a campaign's state must survive a restart.
package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/2389-research/ttrpg-engine/engine/core"
	"github.com/2389-research/ttrpg-engine/engine/store"
)

func TestRecoverCampaign_RoundTripsEventsAndMemories(t *testing.T) {
	home := t.TempDir()
	mgr, err := store.NewStorageManager(home)
	if err != nil {
		t.Fatalf("NewStorageManager: %v", err)
	}
	defer mgr.Index.Close()

	agg, err := core.CreateCampaign("Lost Mine", []core.Actor{
		{ID: "dm", Name: "Narrator", ActorType: core.ActorDM, IsAI: true},
		{ID: "player1", Name: "Brynn", ActorType: core.ActorPlayer, IsAI: false},
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	campaignID := agg.Campaign.ID

	jl, err := mgr.CreateCampaignLog(agg)
	if err != nil {
		t.Fatalf("CreateCampaignLog: %v", err)
	}
	handle := core.SpawnCampaignActor(agg)
	stop := mgr.SpawnPersister(handle, jl)

	for i := 0; i < 5; i++ {
		if _, err := handle.AppendEvent("dm", core.EventTypeUtterance, "line", core.VisibilityPublic); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}
	if _, err := handle.WriteMemory("dm", core.ScopeWorld, "the mine is haunted", nil); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}
	if _, err := handle.WriteMemory("dm", core.ScopeWorld, "the map is torn", nil); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}

	// Give the async persister a moment to drain before "crashing".
	time.Sleep(50 * time.Millisecond)
	stop()
	_ = jl.Close()

	mgr2, err := store.NewStorageManager(home)
	if err != nil {
		t.Fatalf("NewStorageManager (reopen): %v", err)
	}
	defer mgr2.Index.Close()

	recovered, err := mgr2.RecoverCampaign(campaignID)
	if err != nil {
		t.Fatalf("RecoverCampaign: %v", err)
	}
	if len(recovered.Aggregate.Events) != 5 {
		t.Fatalf("expected 5 recovered events, got %d", len(recovered.Aggregate.Events))
	}
	if len(recovered.Aggregate.Memories) != 2 {
		t.Fatalf("expected 2 recovered memories, got %d", len(recovered.Aggregate.Memories))
	}
	if recovered.Aggregate.Campaign.Name != "Lost Mine" {
		t.Fatalf("expected campaign name to survive recovery, got %q", recovered.Aggregate.Campaign.Name)
	}

	logPath := filepath.Join(home, "campaigns", campaignID+".jsonl")
	records, err := store.ReplayJsonl(logPath)
	if err != nil {
		t.Fatalf("ReplayJsonl: %v", err)
	}
	// 1 CampaignCreated + 5 EventAppended + 2 MemoryWritten
	if len(records) != 8 {
		t.Fatalf("expected 8 log records on disk, got %d", len(records))
	}
}

func TestListCampaignIDs_SkipsUnrelatedFiles(t *testing.T) {
	home := t.TempDir()
	mgr, err := store.NewStorageManager(home)
	if err != nil {
		t.Fatalf("NewStorageManager: %v", err)
	}
	defer mgr.Index.Close()

	agg, err := core.CreateCampaign("Solo", []core.Actor{
		{ID: "dm", Name: "Narrator", ActorType: core.ActorDM, IsAI: true},
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	jl, err := mgr.CreateCampaignLog(agg)
	if err != nil {
		t.Fatalf("CreateCampaignLog: %v", err)
	}
	_ = jl.Close()

	ids, err := mgr.ListCampaignIDs()
	if err != nil {
		t.Fatalf("ListCampaignIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != agg.Campaign.ID {
		t.Fatalf("expected exactly [%s], got %v", agg.Campaign.ID, ids)
	}
}
