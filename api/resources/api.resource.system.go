// FilePath: api/resources/api.resource.system.go
package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

const healthTimeout = 2 * time.Second

type SystemHandlers struct {
	svc *warehouse.Service
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} errors.APIError
// @Router /health [get]
func (h *SystemHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := h.svc.Ping(ctx); err != nil {
		respondWithError(w, errors.NewUnavailableError("database unreachable", err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"version":     nuts.GetVersion(),
		"subscribers": h.svc.Live.Registry().Len(),
	})
}

// @Summary Event counters
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics [get]
func (h *SystemHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds": int64(h.svc.Monitoring.Uptime() / time.Second),
		"subscribers":    h.svc.Live.Registry().Len(),
		"events":         h.svc.Monitoring.Snapshot(),
	})
}
