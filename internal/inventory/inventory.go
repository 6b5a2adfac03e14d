// FilePath: internal/inventory/inventory.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/dashboard"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/status"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/telemetry"
	nuts "github.com/vaudience/go-nuts"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 200

	// EventImported is emitted with the *models.ImportResult after an import commits
	EventImported = "inventory.imported"
)

// ErrInvalidFilter is returned for malformed history filters
var ErrInvalidFilter = errors.New("invalid filter")

// Service serves scan history and bulk imports
type Service struct {
	scans  repository.ScanRepository
	uow    repository.UnitOfWork
	events *nuts.EventEmitter
	now    func() time.Time
}

func New(scans repository.ScanRepository, uow repository.UnitOfWork) *Service {
	return &Service{
		scans:  scans,
		uow:    uow,
		events: nuts.NewEventEmitter(),
		now:    time.Now,
	}
}

// OnImported registers a post-commit hook for bulk imports
func (s *Service) OnImported(handlerID string, handler func(result *models.ImportResult)) {
	if _, err := s.events.On(EventImported, handlerID, handler); err != nil {
		nuts.L.Errorf("[Inventory] failed to register hook %s: %v", handlerID, err)
	}
}

// ParseFilters validates history filters and converts them to a store query
func ParseFilters(f models.HistoryFilters) (models.ScanQuery, error) {
	q := models.ScanQuery{Zone: f.Zone}

	if f.Page < 0 {
		return q, fmt.Errorf("%w: page must not be negative", ErrInvalidFilter)
	}
	switch {
	case f.Limit < 0:
		return q, fmt.Errorf("%w: limit must not be negative", ErrInvalidFilter)
	case f.Limit == 0:
		f.Limit = DefaultPageLimit
	case f.Limit > MaxPageLimit:
		f.Limit = MaxPageLimit
	}
	q.Limit = f.Limit
	q.Offset = f.Page * f.Limit

	if f.FromDate != "" {
		from, err := telemetry.ParseTimestamp(f.FromDate)
		if err != nil {
			return q, fmt.Errorf("%w: from_date: %v", ErrInvalidFilter, err)
		}
		q.From = &from
	}
	if f.ToDate != "" {
		to, err := telemetry.ParseTimestamp(f.ToDate)
		if err != nil {
			return q, fmt.Errorf("%w: to_date: %v", ErrInvalidFilter, err)
		}
		q.To = &to
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return q, fmt.Errorf("%w: to_date is before from_date", ErrInvalidFilter)
	}
	if f.Status != "" {
		st, ok := status.ParseScanStatus(f.Status)
		if !ok {
			return q, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
		}
		q.Status = st
	}
	return q, nil
}

// History returns one page of scan history, newest first
func (s *Service) History(ctx context.Context, f models.HistoryFilters) (*models.HistoryPage, error) {
	q, err := ParseFilters(f)
	if err != nil {
		return nil, err
	}

	total, scans, err := s.scans.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &models.HistoryPage{
		Total: total,
		Items: make([]models.HistoryItem, 0, len(scans)),
		Pagination: models.Pagination{
			Page:       q.Offset / q.Limit,
			Limit:      q.Limit,
			TotalPages: (total + int64(q.Limit) - 1) / int64(q.Limit),
		},
	}
	for _, scan := range scans {
		page.Items = append(page.Items, historyItem(scan))
	}
	return page, nil
}

func historyItem(scan *models.ScanWithProduct) models.HistoryItem {
	expected := 0
	if scan.OptimalStock != nil {
		expected = *scan.OptimalStock
	}
	return models.HistoryItem{
		ID:         scan.ID,
		Date:       scan.ScannedAt.UTC().Format(time.RFC3339),
		RobotID:    scan.RobotID,
		Zone:       dashboard.ZoneLabel(scan.Zone, scan.RowNumber),
		SKU:        scan.ProductID,
		Product:    dashboard.ProductName(scan),
		Expected:   expected,
		Actual:     scan.Quantity,
		Difference: scan.Quantity - expected,
		Status:     scan.Status,
	}
}
