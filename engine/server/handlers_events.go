// ABOUTME: HTTP handlers for event append/list and dice rolls.
// ABOUTME: Grounded on original_source/engine/routers/events.py and dice.py.
package server

import (
	"net/http"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

type appendEventRequest struct {
	ActorID    string `json:"actor_id"`
	EventType  string `json:"event_type"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

func (s *Server) handleAppendEvent(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	var req appendEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, core.BadInput("malformed request body"))
		return
	}
	if req.Visibility == "" {
		req.Visibility = core.VisibilityPublic
	}
	ev, err := handle.AppendEvent(req.ActorID, req.EventType, req.Content, req.Visibility)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	viewer := r.URL.Query().Get("viewer")
	after := r.URL.Query().Get("after")
	events, err := handle.ListEvents(viewer, after)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type rollRequest struct {
	Expr    string `json:"expr"`
	Reason  string `json:"reason"`
	ActorID string `json:"actor_id"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	var req rollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, core.BadInput("malformed request body"))
		return
	}
	roll, err := handle.RollDice(req.ActorID, req.Expr, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roll)
}
