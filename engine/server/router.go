// ABOUTME: Server wires AppState into a chi router and serves it with hardened timeouts.
// ABOUTME: Grounded on web/server.go's buildRouter/ListenAndServe shape.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the engine's HTTP server.
type Server struct {
	state  *AppState
	router chi.Router
	addr   string
}

// NewServer builds the router for the given AppState.
func NewServer(state *AppState) *Server {
	s := &Server{state: state, addr: state.Config.Bind}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the underlying router, mainly so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server with timeouts that bound slow-client exposure.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	log.Printf("component=engine.server action=listen addr=%s", s.addr)
	return srv.ListenAndServe()
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(AuthMiddleware(s.state.Config.EngineKey))

	r.Get("/health", s.handleHealth)

	r.Route("/v1/campaigns", func(r chi.Router) {
		r.Post("/", s.handleCreateCampaign)
		r.Route("/{campaignID}", func(r chi.Router) {
			r.Get("/state", s.handleGetState)
			r.Post("/mutate", s.handleMutate)
			r.Post("/events", s.handleAppendEvent)
			r.Get("/events", s.handleListEvents)
			r.Post("/roll", s.handleRoll)
			r.Post("/memory/write", s.handleWriteMemory)
			r.Get("/memory/read", s.handleReadMemory)
			r.Post("/turn/advance", s.handleAdvanceTurn)
			r.Post("/director/next", s.handleDirectorNext)
			r.Get("/export/transcript", s.handleExportTranscript)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("component=engine.server action=request method=%s path=%s status=%d duration=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
