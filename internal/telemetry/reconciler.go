// FilePath: internal/telemetry/reconciler.go

// Package telemetry applies robot telemetry reports to the store and
// announces committed updates to live observers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/status"
	"github.com/shopspring/decimal"
	nuts "github.com/vaudience/go-nuts"
)

var (
	// ErrBadTimestamp is returned when the report timestamp is not ISO-8601
	ErrBadTimestamp = errors.New("bad timestamp")
	// ErrUnknownRobot is returned for unregistered robots when strict mode is on
	ErrUnknownRobot = errors.New("unknown robot")
	// ErrInvalidReport is returned when required report fields are missing
	ErrInvalidReport = errors.New("invalid telemetry report")
)

// EventIngested is emitted after a report has been committed. Handlers
// receive the *models.IngestAck and the models.TelemetryReport.
const EventIngested = "telemetry.ingested"

// Publisher receives domain events after the store commit
type Publisher interface {
	Broadcast(event models.DomainEvent)
}

type Options struct {
	// RejectUnknownRobots fails the whole ingest for robots missing from the store
	RejectUnknownRobots bool
	// Now overrides the clock used for last_update and created_at
	Now func() time.Time
}

type Reconciler struct {
	uow       repository.UnitOfWork
	publisher Publisher
	validate  *validator.Validate
	events    *nuts.EventEmitter
	opts      Options
}

func New(uow repository.UnitOfWork, publisher Publisher, opts Options) *Reconciler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reconciler{
		uow:       uow,
		publisher: publisher,
		validate:  validator.New(),
		events:    nuts.NewEventEmitter(),
		opts:      opts,
	}
}

// OnIngested registers a post-commit hook
func (r *Reconciler) OnIngested(handlerID string, handler func(ack *models.IngestAck, report models.TelemetryReport)) {
	if _, err := r.events.On(EventIngested, handlerID, handler); err != nil {
		nuts.L.Errorf("[Reconciler] failed to register hook %s: %v", handlerID, err)
	}
}

// Ingest reconciles one report in a single transaction. The robot update
// event is published only after the commit succeeded.
func (r *Reconciler) Ingest(ctx context.Context, report models.TelemetryReport) (*models.IngestAck, error) {
	if err := r.validate.Struct(report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	scannedAt, err := ParseTimestamp(report.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadTimestamp, report.Timestamp, err)
	}

	now := r.opts.Now().UTC()
	battery := NormalizeBattery(*report.BatteryLevel)
	scans, rejected := buildScans(report, scannedAt, now)

	ack := &models.IngestAck{
		Status:        "received",
		MessageID:     nuts.NID("msg", 16),
		RejectedScans: rejected,
	}

	err = r.uow.WithinTx(ctx, func(tx repository.Tx) error {
		robot, err := tx.GetRobot(ctx, report.RobotID)
		switch {
		case err == nil:
			robot.BatteryLevel = battery
			robot.Status = status.ClassifyRobot(battery)
			robot.MoveTo(report.Location)
			robot.LastUpdate = &now
			if err := tx.UpdateRobot(ctx, robot); err != nil {
				return err
			}
			ack.RobotUpdated = true
		case apierrors.IsNotFound(err):
			if r.opts.RejectUnknownRobots {
				return fmt.Errorf("%w: %s", ErrUnknownRobot, report.RobotID)
			}
			nuts.L.Warnf("[Reconciler] robot %s is not registered, storing %d scans only", report.RobotID, len(scans))
		default:
			return err
		}

		for _, scan := range scans {
			if err := tx.InsertScan(ctx, scan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ack.ScansStored = len(scans)

	r.publisher.Broadcast(models.RobotUpdate{
		RobotID:      report.RobotID,
		BatteryLevel: battery,
		Location:     report.Location,
		Timestamp:    report.Timestamp,
	})
	if err := r.events.Emit(EventIngested, ack, report); err != nil {
		nuts.L.Errorf("[Reconciler] %s: post-commit hook failed: %v", ack.MessageID, err)
	}

	nuts.L.Debugf("[Reconciler] %s: robot %s battery=%d scans=%d rejected=%d",
		ack.MessageID, report.RobotID, battery, len(scans), len(rejected))
	return ack, nil
}

// NormalizeBattery rounds a reported battery level and clamps it to 0..100
func NormalizeBattery(level float64) int {
	rounded := decimal.NewFromFloat(level).Round(0).IntPart()
	return status.ClampBattery(int(rounded))
}

func buildScans(report models.TelemetryReport, scannedAt, now time.Time) ([]*models.ScanRecord, []models.RejectedScan) {
	scans := make([]*models.ScanRecord, 0, len(report.ScanResults))
	var rejected []models.RejectedScan

	for i, result := range report.ScanResults {
		reject := func(reason string) {
			rejected = append(rejected, models.RejectedScan{Index: i, ProductID: result.ProductID, Reason: reason})
		}
		if result.ProductID == "" {
			reject("product_id is required")
			continue
		}
		if result.Quantity == nil {
			reject("quantity is required")
			continue
		}
		if *result.Quantity < 0 {
			reject("quantity must not be negative")
			continue
		}

		scanStatus := status.ClassifyScan(*result.Quantity)
		if result.Status != "" {
			hint, ok := status.ParseScanStatus(result.Status)
			if !ok {
				reject(fmt.Sprintf("unknown status %q", result.Status))
				continue
			}
			scanStatus = hint
		}

		scans = append(scans, &models.ScanRecord{
			ID:          nuts.NID("scn", 16),
			RobotID:     report.RobotID,
			ProductID:   result.ProductID,
			Quantity:    *result.Quantity,
			Zone:        report.Location.Zone,
			RowNumber:   report.Location.Row,
			ShelfNumber: report.Location.Shelf,
			Status:      scanStatus,
			ScannedAt:   scannedAt,
			CreatedAt:   now,
		})
	}
	return scans, rejected
}
