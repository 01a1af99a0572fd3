package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ruslano69/itemgate/pkg/adapters"
)

const (
	msgListUnavailable   = "database connection is unavailable; items are read from the database only"
	msgCreateUnavailable = "database connection is unavailable; items are stored in the database only"
)

// ────────────────────────────────────────────────────────────────────────────
// GET /api/items
// ────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.backend.Items(r.Context())
	if errors.Is(err, adapters.ErrNotConfigured) {
		itemOperationsTotal.WithLabelValues("list", "unavailable").Inc()
		writeError(w, http.StatusServiceUnavailable, msgListUnavailable)
		return
	}
	if err != nil {
		itemOperationsTotal.WithLabelValues("list", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []adapters.Item{}
	}
	itemOperationsTotal.WithLabelValues("list", "ok").Inc()
	writeJSON(w, http.StatusOK, items)
}

// ────────────────────────────────────────────────────────────────────────────
// GET /api/items/{id}
// ────────────────────────────────────────────────────────────────────────────

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		// the route only matches digits; this is an int64 overflow
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	item, err := s.backend.Item(r.Context(), id)
	switch {
	case errors.Is(err, adapters.ErrNotFound), errors.Is(err, adapters.ErrNotConfigured):
		itemOperationsTotal.WithLabelValues("get", "not_found").Inc()
		writeError(w, http.StatusNotFound, "Not found")
	case err != nil:
		itemOperationsTotal.WithLabelValues("get", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		itemOperationsTotal.WithLabelValues("get", "ok").Inc()
		writeJSON(w, http.StatusOK, item)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// POST /api/items
// ────────────────────────────────────────────────────────────────────────────

// handleCreateItem validates before touching the backend. A body that is not a
// JSON object is treated as {}.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body = nil
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	item, err := s.backend.Create(r.Context(), name)
	if errors.Is(err, adapters.ErrNotConfigured) {
		itemOperationsTotal.WithLabelValues("create", "unavailable").Inc()
		writeError(w, http.StatusServiceUnavailable, msgCreateUnavailable)
		return
	}
	if err != nil {
		itemOperationsTotal.WithLabelValues("create", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	itemOperationsTotal.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusCreated, item)
}
