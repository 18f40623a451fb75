package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/sentiment-dashboard/internal/store"
)

// SnapshotReporter exposes the last published snapshot without reloading.
type SnapshotReporter interface {
	Current() *store.Snapshot
}

// HealthHandler reports liveness and what data is being served.
type HealthHandler struct {
	snapshots SnapshotReporter
}

// NewHealthHandler creates a new handler instance.
func NewHealthHandler(snapshots SnapshotReporter) *HealthHandler {
	return &HealthHandler{snapshots: snapshots}
}

// Check handles GET /healthz requests. The service is healthy once a
// snapshot has been published.
func (h *HealthHandler) Check(c echo.Context) error {
	snap := h.snapshots.Current()
	if snap == nil {
		return Error(c, http.StatusServiceUnavailable, "no answer snapshot loaded")
	}
	return Success(c, http.StatusOK, "service healthy", map[string]any{
		"status":   "ok",
		"answers":  len(snap.Answers),
		"modTime":  snap.Version.ModTime.UTC(),
		"loadedAt": snap.LoadedAt.UTC(),
	})
}
