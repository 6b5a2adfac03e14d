// FilePath: internal/warehouse/warehouse.go
package warehouse

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/auth"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/cache"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/catalog"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/cleanup"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/dashboard"
	apierrors "github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/inventory"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/live"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/monitoring"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository/sqlstore"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/telemetry"
	nuts "github.com/vaudience/go-nuts"
)

const invalidateTimeout = 2 * time.Second

// Repositories are the storage dependencies of the service
type Repositories struct {
	Robots   repository.RobotRepository
	Scans    repository.ScanRepository
	Products repository.ProductRepository
	Users    repository.UserRepository
	UoW      repository.UnitOfWork
	// DB is optional; without it Ping always succeeds.
	DB Pinger
}

// Pinger reports whether the backing database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RepositoriesFrom exposes a sql store as service repositories
func RepositoriesFrom(store *sqlstore.Store) Repositories {
	return Repositories{
		Robots:   store.Robots,
		Scans:    store.Scans,
		Products: store.Products,
		Users:    store.Users,
		UoW:      store,
		DB:       store,
	}
}

// Service contains all repositories and service-wide dependencies
type Service struct {
	Repositories

	Reconciler *telemetry.Reconciler
	Live       *live.Hub
	Dashboard  *dashboard.Service
	Inventory  *inventory.Service
	Auth       *auth.Service
	Catalog    *catalog.Service
	Cleanup    *cleanup.CleanupService
	Monitoring *monitoring.Service
}

// New creates the service graph. A nil cache disables snapshot caching and a
// nil locker keeps retention sweeps process-local.
func New(cfg *config.Config, repos Repositories, c cache.Cache, locker cache.Locker) (*Service, error) {
	svc := &Service{Repositories: repos}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.Nop{}
	}

	svc.Monitoring = monitoring.NewService(monitoring.Config{LogEvents: cfg.Monitoring.LogLevel == "debug"})
	svc.Live = live.NewHub(cfg.Live)
	svc.Reconciler = telemetry.New(repos.UoW, svc.Live, telemetry.Options{
		RejectUnknownRobots: cfg.Telemetry.RejectUnknownRobots,
	})
	svc.Dashboard = dashboard.New(repos.Robots, repos.Scans, c, dashboard.Options{
		RecentScans: cfg.Dashboard.RecentScans,
		CacheTTL:    cfg.Dashboard.CacheTTL,
	})
	svc.Inventory = inventory.New(repos.Scans, repos.UoW)
	svc.Auth = auth.New(repos.Users, cfg.Auth)
	svc.Catalog = catalog.New(repos.Products)
	svc.Cleanup = cleanup.New(repos.Scans, locker, cfg.Retention)

	svc.wireHooks()
	return svc, nil
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.Robots == nil {
		return ErrMissingRepository("robots")
	}
	if s.Scans == nil {
		return ErrMissingRepository("scans")
	}
	if s.Products == nil {
		return ErrMissingRepository("products")
	}
	if s.Users == nil {
		return ErrMissingRepository("users")
	}
	if s.UoW == nil {
		return ErrMissingRepository("unitOfWork")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return apierrors.NewInternalError("missing repository: "+name, nil)
}

// Ingest hands a report to the reconciler and records rejections. HTTP and
// MQTT telemetry both enter here.
func (s *Service) Ingest(ctx context.Context, report models.TelemetryReport) (*models.IngestAck, error) {
	ack, err := s.Reconciler.Ingest(ctx, report)
	if err != nil {
		s.Monitoring.RecordEvent(monitoring.EventTelemetryRejected, map[string]string{
			"reason": rejectReason(err),
		})
		return nil, err
	}
	return ack, nil
}

// Ping checks the database connection
func (s *Service) Ping(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Ping(ctx)
}

// Close disconnects live observers
func (s *Service) Close() {
	s.Live.Close()
}

func (s *Service) wireHooks() {
	s.Reconciler.OnIngested("warehouse", func(ack *models.IngestAck, report models.TelemetryReport) {
		s.invalidateDashboard()
		s.Monitoring.RecordEvent(monitoring.EventTelemetryIngested, map[string]string{
			"robot_updated": strconv.FormatBool(ack.RobotUpdated),
		})
	})

	s.Inventory.OnImported("warehouse", func(result *models.ImportResult) {
		s.invalidateDashboard()
		s.Monitoring.RecordEvents(monitoring.EventInventoryImported, int64(result.Success), nil)
	})

	registry := s.Live.Registry()
	registry.On(live.EventSubscriberConnected, "warehouse", func(id string) {
		s.Monitoring.RecordEvent(monitoring.EventSubscriberConnected, nil)
	})
	registry.On(live.EventSubscriberClosed, "warehouse", func(id string) {
		s.Monitoring.RecordEvent(monitoring.EventSubscriberDropped, nil)
	})

	s.Cleanup.OnCleanup(cleanup.EventScansPruned, func(count int64) {
		nuts.L.Infof("[Cleanup] pruned %d scans", count)
		s.Monitoring.RecordEvents(monitoring.EventScansPruned, count, nil)
		s.invalidateDashboard()
	})
}

func (s *Service) invalidateDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	s.Dashboard.Invalidate(ctx)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, telemetry.ErrInvalidReport):
		return "invalid"
	case errors.Is(err, telemetry.ErrBadTimestamp):
		return "timestamp"
	case errors.Is(err, telemetry.ErrUnknownRobot):
		return "unknown_robot"
	default:
		return "storage"
	}
}
