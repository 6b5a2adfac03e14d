// FilePath: api/resources/api.resource.products.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_warehouse/server/hub/api/middleware"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

type ProductHandlers struct {
	svc *warehouse.Service
}

// @Summary List products
// @Description Product catalogue. Stock thresholds are visible to operators and admins only.
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products [get]
// @Security BearerAuth
func (h *ProductHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	products, err := h.svc.Catalog.List(r.Context(), roleOf(r))
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to list products").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} errors.APIError
// @Router /products/{id} [get]
// @Security BearerAuth
func (h *ProductHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	product, err := h.svc.Catalog.Get(r.Context(), id, roleOf(r))
	if err != nil {
		respondWithError(w, toAPIError(err, "product not found").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func roleOf(r *http.Request) models.UserRole {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.Role
	}
	return models.RoleViewer
}
