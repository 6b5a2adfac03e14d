// FilePath: api/resources/api.resource.helpers.go
package resources

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/auth"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/inventory"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/telemetry"
	nuts "github.com/vaudience/go-nuts"
)

// toAPIError maps domain errors to their API representation. msg is used
// for errors that carry no better description.
func toAPIError(err error, msg string) *errors.APIError {
	switch {
	case stderrors.Is(err, telemetry.ErrInvalidReport),
		stderrors.Is(err, telemetry.ErrBadTimestamp),
		stderrors.Is(err, inventory.ErrInvalidFilter),
		stderrors.Is(err, inventory.ErrUnsupportedFormat),
		stderrors.Is(err, inventory.ErrMalformedFile):
		return errors.NewValidationError(err.Error(), err)
	case stderrors.Is(err, telemetry.ErrUnknownRobot):
		return errors.NewNotFoundError(err.Error(), err)
	case stderrors.Is(err, auth.ErrInvalidCredentials),
		stderrors.Is(err, auth.ErrInvalidToken):
		return errors.NewAuthError(err.Error(), err)
	}

	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError(msg, err)
	}
	return errors.NewInternalError(msg, err)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	switch {
	case err.Code >= http.StatusInternalServerError:
		nuts.L.Errorf("[API] %s", err.Error())
	case errors.IsValidation(err):
		nuts.L.Debugf("[API] rejected input: %s", err.Error())
	default:
		nuts.L.Infof("[API] %s", err.Error())
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
