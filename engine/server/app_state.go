// ABOUTME: AppState holds the registry of live campaign actors plus shared config and storage.
// ABOUTME: Grounded on spec/server/app_state.go's mutex-protected maps and structured log lines.
package server

import (
	"log"
	"sync"

	"github.com/2389-research/ttrpg-engine/engine/core"
	"github.com/2389-research/ttrpg-engine/engine/store"
)

// AppState is the shared, process-wide state handed to every HTTP handler.
type AppState struct {
	Config  *Config
	Storage *store.StorageManager

	mu        sync.RWMutex
	campaigns map[string]*core.CampaignActorHandle
	logs      map[string]*store.JsonlLog
	stopFns   map[string]func()
}

// NewAppState opens storage and recovers every campaign found on disk.
func NewAppState(cfg *Config) (*AppState, error) {
	mgr, err := store.NewStorageManager(cfg.Home)
	if err != nil {
		return nil, err
	}
	s := &AppState{
		Config:    cfg,
		Storage:   mgr,
		campaigns: make(map[string]*core.CampaignActorHandle),
		logs:      make(map[string]*store.JsonlLog),
		stopFns:   make(map[string]func()),
	}
	s.recoverAll()
	return s, nil
}

func (s *AppState) recoverAll() {
	recovered, err := s.Storage.RecoverAll()
	if err != nil {
		log.Printf("component=engine.server action=recover err=%v", err)
		return
	}
	for _, r := range recovered {
		handle := s.adopt(r.Aggregate)
		jl, err := s.Storage.OpenExistingLog(r.Aggregate.Campaign.ID)
		if err != nil {
			log.Printf("component=engine.server action=recover campaign_id=%s err=%v", r.Aggregate.Campaign.ID, err)
			continue
		}
		stop := s.Storage.SpawnPersister(handle, jl)

		s.mu.Lock()
		s.logs[r.Aggregate.Campaign.ID] = jl
		s.stopFns[r.Aggregate.Campaign.ID] = stop
		s.mu.Unlock()

		log.Printf("component=engine.server action=recover campaign_id=%s records=%d",
			r.Aggregate.Campaign.ID, r.RecoveredCount)
	}
}

// adopt spawns the actor goroutine for an aggregate and registers its handle; callers
// attach the persister themselves.
func (s *AppState) adopt(agg *core.CampaignAggregate) *core.CampaignActorHandle {
	handle := core.SpawnCampaignActor(agg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[agg.Campaign.ID] = handle
	return handle
}

// CreateCampaign validates the roster, persists the creation record, and spawns the actor.
func (s *AppState) CreateCampaign(name string, actors []core.Actor) (*core.CampaignActorHandle, error) {
	agg, err := core.CreateCampaign(name, actors)
	if err != nil {
		return nil, err
	}
	jl, err := s.Storage.CreateCampaignLog(agg)
	if err != nil {
		return nil, core.Internal("failed to create campaign log", err)
	}

	handle := s.adopt(agg)
	stop := s.Storage.SpawnPersister(handle, jl)

	s.mu.Lock()
	s.logs[agg.Campaign.ID] = jl
	s.stopFns[agg.Campaign.ID] = stop
	s.mu.Unlock()

	log.Printf("component=engine.server action=create_campaign campaign_id=%s actors=%d", agg.Campaign.ID, len(actors))
	return handle, nil
}

// Campaign looks up a live campaign actor by id.
func (s *AppState) Campaign(campaignID string) (*core.CampaignActorHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.campaigns[campaignID]
	return h, ok
}

// Shutdown stops every campaign's persister goroutine.
func (s *AppState) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, stop := range s.stopFns {
		stop()
		log.Printf("component=engine.server action=shutdown campaign_id=%s", id)
	}
}
