// ABOUTME: HTTP handlers for turn advance, director context assembly, and transcript export.
// ABOUTME: Grounded on original_source/engine/routers/turns.py and director.py.
package server

import (
	"net/http"
	"strconv"

	"github.com/2389-research/ttrpg-engine/engine/core"
	"github.com/2389-research/ttrpg-engine/engine/export"
)

func (s *Server) handleAdvanceTurn(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	res, err := handle.AdvanceTurn(s.state.Config.AIOnlyStreakLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type directorNextRequest struct {
	MaxEvents   int `json:"max_events"`
	MaxMemories int `json:"max_memories"`
}

func (s *Server) handleDirectorNext(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	var req directorNextRequest
	_ = decodeJSON(r, &req) // an empty body is valid; both fields then fall back to defaults below
	if req.MaxEvents <= 0 {
		req.MaxEvents = 20
	}
	if req.MaxMemories <= 0 {
		req.MaxMemories = 10
	}

	cfg := core.DirectorConfig{
		AIOnlyStreakLimit:   s.state.Config.AIOnlyStreakLimit,
		DMOmniscientPrivate: s.state.Config.DMOmniscientPrivate,
	}
	pkg, err := handle.NextContext(cfg, req.MaxEvents, req.MaxMemories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (s *Server) handleExportTranscript(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.campaignHandle(w, r)
	if !ok {
		return
	}
	viewer := r.URL.Query().Get("viewer")
	events, err := handle.ListEvents(viewer, "")
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := handle.GetState(viewer)
	if err != nil {
		writeError(w, err)
		return
	}

	md := export.Transcript(state.CampaignID, events)
	if asHTML, _ := strconv.ParseBool(r.URL.Query().Get("html")); asHTML {
		html, err := export.RenderHTML(md)
		if err != nil {
			writeError(w, core.Internal("failed to render transcript", err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}
