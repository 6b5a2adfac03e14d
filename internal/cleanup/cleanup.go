package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/cache"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const (
	EventScansPruned = "scans.pruned"

	lockKey = "retention"
)

// CleanupService prunes scan history older than the retention window. It
// runs beside reconciliation and never touches robot state.
type CleanupService struct {
	scans  repository.ScanRepository
	locker cache.Locker
	cfg    config.RetentionConfig
	events *nuts.EventEmitter
	now    func() time.Time
}

// New creates a new CleanupService
func New(scans repository.ScanRepository, locker cache.Locker, cfg config.RetentionConfig) *CleanupService {
	if locker == nil {
		locker = cache.NewLocalLocker()
	}
	return &CleanupService{
		scans:  scans,
		locker: locker,
		cfg:    cfg,
		events: nuts.NewEventEmitter(),
		now:    time.Now,
	}
}

// Enabled reports whether a retention window is configured
func (s *CleanupService) Enabled() bool {
	return s.cfg.ScanMaxAge > 0
}

// PruneScans deletes scans older than the retention window. It returns zero
// without error when another sweeper holds the lock.
func (s *CleanupService) PruneScans(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	release, err := s.locker.Obtain(ctx, lockKey, s.lockTTL())
	if err != nil {
		if errors.Is(err, cache.ErrLockNotObtained) {
			nuts.L.Debugf("[Cleanup] retention sweep already running elsewhere")
			return 0, nil
		}
		return 0, fmt.Errorf("failed to obtain retention lock: %w", err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			nuts.L.Warnf("[Cleanup] failed to release retention lock: %v", err)
		}
	}()

	cutoff := s.now().UTC().Add(-s.cfg.ScanMaxAge)
	deleted, err := s.scans.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scans: %w", err)
	}

	// Emit event after successful deletion
	if deleted > 0 {
		if err := s.events.Emit(EventScansPruned, deleted); err != nil {
			nuts.L.Errorf("[Cleanup] %s hook failed: %v", EventScansPruned, err)
		}
	}
	return deleted, nil
}

// Run sweeps on every interval until ctx is cancelled
func (s *CleanupService) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	nuts.L.Infof("[Cleanup] pruning scans older than %s every %s", s.cfg.ScanMaxAge, s.cfg.SweepInterval)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		if _, err := s.PruneScans(ctx); err != nil {
			nuts.L.Errorf("[Cleanup] %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(count int64)) {
	if _, err := s.events.On(event, "cleanup_handler", handler); err != nil {
		nuts.L.Errorf("[Cleanup] failed to register handler for %s: %v", event, err)
	}
}

func (s *CleanupService) lockTTL() time.Duration {
	if s.cfg.SweepInterval > 0 && s.cfg.SweepInterval < 10*time.Minute {
		return s.cfg.SweepInterval
	}
	return 10 * time.Minute
}
