package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/teambot-io/teambot/pkg/dispatch"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"` // "ok" or "stopped"
	State  string `json:"state"`
	Cursor int64  `json:"cursor"`
}

// handleHealth reports the dispatch loop state. Returns 503 once the loop
// has stopped.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state := g.config.Dispatcher.State()
		resp := HealthResponse{
			Status: "ok",
			State:  state.String(),
			Cursor: g.config.Dispatcher.Cursor(),
		}

		w.Header().Set("Content-Type", "application/json")
		if state == dispatch.StateStopped {
			resp.Status = "stopped"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	RunID  string `json:"run_id"`
	State  string `json:"state"`
	Cursor int64  `json:"cursor"`
	Uptime string `json:"uptime"`
}

// handleStatus returns run identity and loop progress.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			RunID:  g.config.RunID,
			State:  g.config.Dispatcher.State().String(),
			Cursor: g.config.Dispatcher.Cursor(),
			Uptime: time.Since(g.started).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
