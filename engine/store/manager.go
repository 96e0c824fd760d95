// ABOUTME: StorageManager owns the on-disk layout: one JSONL log per campaign plus a shared sqlite index.
// ABOUTME: Grounded on spec/store/manager.go's ListSpecDirs/RecoverAllSpecs pattern, specialized to campaigns.
package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

// StorageManager manages the campaigns/ directory tree and the shared SQLite index.
type StorageManager struct {
	Home  string
	Index *SqliteIndex
}

// NewStorageManager creates the home directory tree (if missing) and opens the index.
func NewStorageManager(home string) (*StorageManager, error) {
	campaignsDir := filepath.Join(home, "campaigns")
	if err := os.MkdirAll(campaignsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create campaigns dir: %w", err)
	}
	idx, err := OpenSqlite(filepath.Join(home, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &StorageManager{Home: home, Index: idx}, nil
}

// campaignLogPath returns the JSONL log path for a campaign id.
func (m *StorageManager) campaignLogPath(campaignID string) string {
	return filepath.Join(m.Home, "campaigns", campaignID+".jsonl")
}

// CreateCampaignLog opens a brand-new JSONL log for a just-created campaign and writes
// its CampaignCreatedRecord as the first line.
func (m *StorageManager) CreateCampaignLog(agg *core.CampaignAggregate) (*JsonlLog, error) {
	jl, err := OpenJsonl(m.campaignLogPath(agg.Campaign.ID))
	if err != nil {
		return nil, err
	}
	actors := make([]core.Actor, 0, len(agg.Actors))
	for _, a := range agg.Actors {
		actors = append(actors, a)
	}
	rec := core.CampaignCreatedRecord{Campaign: agg.Campaign, Actors: actors}
	if err := jl.Append(rec); err != nil {
		_ = jl.Close()
		return nil, err
	}
	if err := m.Index.RebuildFromAggregate(agg); err != nil {
		log.Printf("component=engine.store action=index_rebuild campaign_id=%s err=%v", agg.Campaign.ID, err)
	}
	return jl, nil
}

// OpenExistingLog reopens a campaign's JSONL log in append mode after recovery, so
// newly committed records keep landing in the same file that was just replayed.
func (m *StorageManager) OpenExistingLog(campaignID string) (*JsonlLog, error) {
	return OpenJsonl(m.campaignLogPath(campaignID))
}

// ListCampaignIDs returns the campaign ids discoverable on disk, by scanning for
// "<id>.jsonl" files under the campaigns directory. Non-matching entries are skipped
// with a structured log line rather than failing the whole scan.
func (m *StorageManager) ListCampaignIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.Home, "campaigns"))
	if err != nil {
		return nil, fmt.Errorf("read campaigns dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		const suffix = ".jsonl"
		if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
			log.Printf("component=engine.store action=list_campaigns skip=%q reason=unexpected_file", name)
			continue
		}
		ids = append(ids, name[:len(name)-len(suffix)])
	}
	return ids, nil
}

// RecoveredCampaign is the result of replaying one campaign's JSONL log.
type RecoveredCampaign struct {
	Aggregate      *core.CampaignAggregate
	RecoveredCount int
}

// RecoverCampaign replays a campaign's JSONL log into a fresh aggregate. If the log is
// truncated (a crash mid-write), it is repaired in place first and the repair is logged.
func (m *StorageManager) RecoverCampaign(campaignID string) (*RecoveredCampaign, error) {
	path := m.campaignLogPath(campaignID)
	records, err := ReplayJsonl(path)
	if err != nil {
		log.Printf("component=engine.store action=repair campaign_id=%s err=%v", campaignID, err)
		n, repairErr := RepairJsonl(path)
		if repairErr != nil {
			return nil, fmt.Errorf("repair jsonl for %s: %w", campaignID, repairErr)
		}
		log.Printf("component=engine.store action=repair campaign_id=%s recovered_records=%d", campaignID, n)
		records, err = ReplayJsonl(path)
		if err != nil {
			return nil, fmt.Errorf("replay jsonl after repair for %s: %w", campaignID, err)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("campaign log %s has no records", campaignID)
	}

	agg := &core.CampaignAggregate{}
	for _, r := range records {
		agg.ApplyRecord(r)
	}

	if err := m.Index.RebuildFromAggregate(agg); err != nil {
		log.Printf("component=engine.store action=index_rebuild campaign_id=%s err=%v", campaignID, err)
	}

	return &RecoveredCampaign{Aggregate: agg, RecoveredCount: len(records)}, nil
}

// RecoverAll replays every campaign log found on disk. A single campaign failing to
// recover is logged and skipped rather than aborting recovery of the others.
func (m *StorageManager) RecoverAll() ([]*RecoveredCampaign, error) {
	ids, err := m.ListCampaignIDs()
	if err != nil {
		return nil, err
	}
	var out []*RecoveredCampaign
	for _, id := range ids {
		rec, err := m.RecoverCampaign(id)
		if err != nil {
			log.Printf("component=engine.store action=recover_all campaign_id=%s err=%v", id, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// SpawnPersister subscribes to a campaign actor's broadcast channel and asynchronously
// appends every committed LogRecord to its JSONL log and mirrors the relevant fields into
// the SQLite index. Grounded on spec/server/persist.go's SpawnEventPersister.
func (m *StorageManager) SpawnPersister(handle *core.CampaignActorHandle, jl *JsonlLog) (stop func()) {
	ch := handle.Subscribe()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case rec, ok := <-ch:
				if !ok {
					return
				}
				if err := jl.Append(rec); err != nil {
					log.Printf("component=engine.store action=persist campaign_id=%s err=%v", handle.CampaignID, err)
					continue
				}
				m.mirrorRecord(handle.CampaignID, rec)
			case <-done:
				handle.Unsubscribe(ch)
				return
			}
		}
	}()
	return func() { close(done) }
}

func (m *StorageManager) mirrorRecord(campaignID string, rec core.LogRecord) {
	var err error
	switch r := rec.(type) {
	case core.StateMutatedRecord:
		err = m.Index.UpsertStateKV(campaignID, r.Key, r.Value)
	case core.TurnAdvancedRecord:
		err = m.Index.UpsertCampaign(core.Campaign{ID: campaignID, TurnOwner: r.TurnOwner, AIOnlyStreak: r.AIOnlyStreak})
	}
	if err != nil {
		log.Printf("component=engine.store action=mirror campaign_id=%s err=%v", campaignID, err)
	}
}
