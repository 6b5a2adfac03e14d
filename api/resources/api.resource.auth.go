// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/itsatony/w4b_warehouse/server/hub/api/middleware"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

type AuthHandlers struct {
	svc      *warehouse.Service
	validate *validator.Validate
}

func newAuthHandlers(svc *warehouse.Service) *AuthHandlers {
	return &AuthHandlers{svc: svc, validate: validator.New()}
}

// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	requestID := nuts.NID("req", 12)

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, errors.NewValidationError("email and password are required", err).WithRequestID(requestID))
		return
	}

	resp, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, toAPIError(err, "login failed").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} errors.APIError
// @Router /auth/me [get]
// @Security BearerAuth
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no user context found", nil).WithRequestID(requestID))
		return
	}

	user, err := h.svc.Auth.CurrentUser(r.Context(), claims)
	if err != nil {
		respondWithError(w, toAPIError(err, "user not found").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, user.Response())
}
