// FilePath: api/resources/api.resource.dashboard.go
package resources

import (
	"net/http"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

type DashboardHandlers struct {
	svc *warehouse.Service
}

// @Summary Current dashboard snapshot
// @Description Robots, the most recent scans and aggregate statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardSnapshot
// @Failure 500 {object} errors.APIError
// @Router /dashboard/current [get]
func (h *DashboardHandlers) Current(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	snapshot, err := h.svc.Dashboard.Current(r.Context())
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to build dashboard").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}
