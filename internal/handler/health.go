package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/notes/api/internal/model"
)

// Pinger reports whether the data store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler that pings db within timeout
func NewHealthHandler(db Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{db: db, timeout: timeout}
}

// HealthResponse reports service status
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		WriteError(w, model.NewServiceUnavailableError("database unreachable"))
		return
	}

	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
