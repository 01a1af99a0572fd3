package api

import (
	"net/http"
	"time"

	"github.com/ruslano69/itemgate/internal/diaglog"
)

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	env := make(map[string]string)
	for _, v := range s.cfg.DisplayEnv(false) {
		env[v.Key] = v.Value
	}
	writeJSON(w, http.StatusOK, map[string]any{"env": env})
}

// handleTables always answers 200: backend failures are reported in the body.
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Tables(r.Context()))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(diaglog.TimeFormat),
	})
}

type infoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Message: "API Server",
		Version: Version,
		Endpoints: map[string]string{
			"config":     "GET /api/config",
			"tables":     "GET /api/tables",
			"health":     "GET /api/health",
			"items":      "GET /api/items",
			"itemsById":  "GET /api/items/:id",
			"createItem": "POST /api/items",
		},
	})
}
