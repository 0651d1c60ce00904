package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger probes connectivity to the persistence backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports server and backend connectivity state.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleHealth responds with a 200 and the current backend state.
// GET /api/health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	database := "disconnected"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err == nil {
			database = "connected"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}
