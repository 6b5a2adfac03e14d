// FilePath: api/resources/api.resource.inventory.go
package resources

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandlers encapsulates scan history and bulk import handlers
type InventoryHandlers struct {
	svc           *warehouse.Service
	decoder       *schema.Decoder
	maxUploadSize int64
}

// @Summary Inventory history
// @Description Paginated scan history, newest first
// @Tags inventory
// @Produce json
// @Param from_date query string false "Lower bound, ISO-8601"
// @Param to_date query string false "Upper bound, ISO-8601"
// @Param zone query string false "Zone"
// @Param status query string false "OK, LOW_STOCK or CRITICAL"
// @Param page query int false "Zero based page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.HistoryPage
// @Failure 400 {object} errors.APIError
// @Router /inventory/history [get]
// @Security BearerAuth
func (h *InventoryHandlers) History(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	filters, ok := h.decodeFilters(w, r, requestID)
	if !ok {
		return
	}

	page, err := h.svc.Inventory.History(r.Context(), filters)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to load history").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// @Summary Export inventory history
// @Description The filtered history page as an .xlsx workbook
// @Tags inventory
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 400 {object} errors.APIError
// @Router /inventory/export [get]
// @Security BearerAuth
func (h *InventoryHandlers) Export(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	filters, ok := h.decodeFilters(w, r, requestID)
	if !ok {
		return
	}

	buf, err := h.svc.Inventory.Export(r.Context(), filters)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to export history").WithRequestID(requestID))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="inventory_history.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// @Summary Bulk import scans
// @Description Import a ';' separated .csv or an .xlsx file of scans. Invalid rows are reported individually.
// @Tags inventory
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Scan file"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} errors.APIError
// @Failure 413 {object} errors.APIError
// @Router /inventory/import [post]
// @Security BearerAuth
func (h *InventoryHandlers) Import(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondWithError(w, errors.NewTooLargeError(
			fmt.Sprintf("upload exceeds %d bytes or is not multipart", h.maxUploadSize), err,
		).WithRequestID(requestID))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, errors.NewValidationError("file is required", err).WithRequestID(requestID))
		return
	}
	defer file.Close()

	result, err := h.svc.Inventory.Import(r.Context(), header.Filename, file)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to import file").WithRequestID(requestID))
		return
	}

	nuts.L.Infof("[Inventory] imported %s: %d ok, %d failed", header.Filename, result.Success, result.Failed)
	respondWithJSON(w, http.StatusOK, result)
}

func (h *InventoryHandlers) decodeFilters(w http.ResponseWriter, r *http.Request, requestID string) (models.HistoryFilters, bool) {
	var filters models.HistoryFilters
	if err := h.decoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return filters, false
	}
	return filters, true
}
