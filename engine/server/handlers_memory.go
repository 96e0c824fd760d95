// ABOUTME: HTTP handlers for memory write/read.
// ABOUTME: Grounded on original_source/engine/routers/memory.py.
package server

import (
	"net/http"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

type writeMemoryRequest struct {
	ActorID string   `json:"actor_id"`
	Scope   string   `json:"scope"`
	Text    string   `json:"text"`
	Tags    []string `json:"tags"`
}

func (s *Server) handleWriteMemory(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	var req writeMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, core.BadInput("malformed request body"))
		return
	}
	m, err := handle.WriteMemory(req.ActorID, req.Scope, req.Text, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleReadMemory(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	viewer := r.URL.Query().Get("viewer")
	scope := r.URL.Query().Get("scope")
	memories, err := handle.ReadMemory(viewer, scope, s.state.Config.DMOmniscientPrivate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}
