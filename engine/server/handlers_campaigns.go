// ABOUTME: HTTP handlers for campaign creation, state reads, and state mutation.
// ABOUTME: Grounded on original_source/engine/routers/campaigns.py's endpoint shapes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

type createActorRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ActorType string `json:"actor_type"`
	IsAI      bool   `json:"is_ai"`
}

type createCampaignRequest struct {
	Name   string               `json:"name"`
	Actors []createActorRequest `json:"actors"`
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, core.BadInput("malformed request body"))
		return
	}

	actors := make([]core.Actor, 0, len(req.Actors))
	for _, a := range req.Actors {
		actors = append(actors, core.Actor{
			ID:        a.ID,
			Name:      a.Name,
			ActorType: core.ActorType(a.ActorType),
			IsAI:      a.IsAI,
		})
	}

	handle, err := s.state.CreateCampaign(req.Name, actors)
	if err != nil {
		writeError(w, err)
		return
	}

	campaignState, err := handle.GetState(core.SystemActorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          handle.CampaignID,
		"name":        req.Name,
		"turn_owner":  campaignState.TurnOwner,
		"actors":      campaignState.Actors,
	})
}

func (s *Server) campaignHandle(w http.ResponseWriter, r *http.Request) (*core.CampaignActorHandle, bool) {
	id := chi.URLParam(r, "campaignID")
	handle, ok := s.state.Campaign(id)
	if !ok {
		writeError(w, core.NotFound("campaign not found: "+id))
		return nil, false
	}
	return handle, true
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	viewer := r.URL.Query().Get("viewer")
	state, err := handle.GetState(viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type mutateRequest struct {
	ActorID   string          `json:"actor_id"`
	Mutations []core.Mutation `json:"mutations"`
}

func (s *Server) handleMutate(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	var req mutateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, core.BadInput("malformed request body"))
		return
	}
	results, err := handle.Mutate(req.ActorID, req.Mutations)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mutations_applied": len(results),
		"results":           results,
	})
}
