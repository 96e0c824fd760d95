// ABOUTME: Maps core.EngineError kinds to HTTP status codes and the {"detail": ...} body shape.
// ABOUTME: Grounded on original_source/engine/app.py's exception handlers, in the teacher's JSON-error idiom.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch core.ErrKind(err) {
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindBadInput:
		status = http.StatusBadRequest
	case core.KindUnauthorized:
		status = http.StatusForbidden
	case core.KindInternal:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
