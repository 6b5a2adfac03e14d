// FilePath: internal/dashboard/dashboard.go
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/cache"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/shopspring/decimal"
	nuts "github.com/vaudience/go-nuts"
)

const snapshotKey = "dashboard:current"

type Options struct {
	RecentScans int
	CacheTTL    time.Duration
	Now         func() time.Time
}

// Service builds the polled dashboard snapshot straight from the store
type Service struct {
	robots repository.RobotRepository
	scans  repository.ScanRepository
	cache  cache.Cache
	opts   Options
}

func New(robots repository.RobotRepository, scans repository.ScanRepository, c cache.Cache, opts Options) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if opts.RecentScans <= 0 {
		opts.RecentScans = 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{robots: robots, scans: scans, cache: c, opts: opts}
}

// Current returns the cached snapshot, rebuilding it on a miss
func (s *Service) Current(ctx context.Context) (*models.DashboardSnapshot, error) {
	snapshot := &models.DashboardSnapshot{}
	if ok, err := s.cache.Get(ctx, snapshotKey, snapshot); err != nil {
		nuts.L.Warnf("[Dashboard] cache read failed: %v", err)
	} else if ok {
		return snapshot, nil
	}

	snapshot, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	if s.opts.CacheTTL > 0 {
		if err := s.cache.Set(ctx, snapshotKey, snapshot, s.opts.CacheTTL); err != nil {
			nuts.L.Warnf("[Dashboard] cache write failed: %v", err)
		}
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, snapshotKey); err != nil {
		nuts.L.Warnf("[Dashboard] cache invalidation failed: %v", err)
	}
}

// Build assembles a fresh snapshot
func (s *Service) Build(ctx context.Context) (*models.DashboardSnapshot, error) {
	robots, err := s.robots.List(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.scans.Recent(ctx, s.opts.RecentScans)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	scannedToday, err := s.scans.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	critical, err := s.scans.CountByStatus(ctx, models.ScanCritical)
	if err != nil {
		return nil, err
	}

	snapshot := &models.DashboardSnapshot{
		Robots:      make([]models.DashboardRobot, 0, len(robots)),
		RecentScans: make([]models.RecentScan, 0, len(recent)),
		Statistics: models.Statistics{
			TotalRobots:   len(robots),
			ScannedToday:  scannedToday,
			CriticalItems: critical,
			AvgBattery:    averageBattery(robots),
		},
	}

	for _, r := range robots {
		if r.Status == models.RobotActive {
			snapshot.Statistics.ActiveRobots++
		}
		var lastUpdate *string
		if r.LastUpdate != nil {
			v := r.LastUpdate.UTC().Format(time.RFC3339)
			lastUpdate = &v
		}
		snapshot.Robots = append(snapshot.Robots, models.DashboardRobot{
			ID:           r.ID,
			Status:       r.Status,
			BatteryLevel: r.BatteryLevel,
			CurrentZone:  r.CurrentZone,
			CurrentRow:   r.CurrentRow,
			CurrentShelf: r.CurrentShelf,
			LastUpdate:   lastUpdate,
		})
	}

	for _, scan := range recent {
		snapshot.RecentScans = append(snapshot.RecentScans, models.RecentScan{
			Time:     scan.ScannedAt.UTC().Format("15:04:05"),
			RobotID:  scan.RobotID,
			Zone:     ZoneLabel(scan.Zone, scan.RowNumber),
			Product:  ProductName(scan),
			SKU:      scan.ProductID,
			Quantity: scan.Quantity,
			Status:   scan.Status,
		})
	}

	return snapshot, nil
}

// ZoneLabel renders a zone and row as "A-12"
func ZoneLabel(zone string, row int) string {
	return fmt.Sprintf("%s-%d", zone, row)
}

// ProductName falls back to a placeholder for scans of unknown products
func ProductName(scan *models.ScanWithProduct) string {
	if scan.ProductName == nil {
		return models.UnknownProductName
	}
	return *scan.ProductName
}

// averageBattery ignores robots reporting an empty battery
func averageBattery(robots []*models.Robot) float64 {
	sum := decimal.Zero
	n := 0
	for _, r := range robots {
		if r.BatteryLevel > 0 {
			sum = sum.Add(decimal.NewFromInt(int64(r.BatteryLevel)))
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(1).InexactFloat64()
}
