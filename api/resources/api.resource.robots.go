// FilePath: api/resources/api.resource.robots.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

// RobotHandlers encapsulates the robot telemetry handlers
type RobotHandlers struct {
	svc *warehouse.Service
}

// @Summary Submit robot telemetry
// @Description Reconcile a robot report into robot state and scan history and push it to the live feed
// @Tags robots
// @Accept json
// @Produce json
// @Param report body models.TelemetryReport true "Telemetry report"
// @Success 200 {object} models.IngestAck
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /robots/data [post]
func (h *RobotHandlers) ReceiveData(w http.ResponseWriter, r *http.Request) {
	var report models.TelemetryReport
	requestID := nuts.NID("req", 12)

	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	ack, err := h.svc.Ingest(r.Context(), report)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to store telemetry").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, ack)
}
