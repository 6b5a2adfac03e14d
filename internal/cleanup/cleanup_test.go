package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/cache"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeScans struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
}

func (f *fakeScans) Recent(context.Context, int) ([]*models.ScanWithProduct, error) { return nil, nil }
func (f *fakeScans) Query(context.Context, models.ScanQuery) (int64, []*models.ScanWithProduct, error) {
	return 0, nil, nil
}
func (f *fakeScans) CountSince(context.Context, time.Time) (int64, error)            { return 0, nil }
func (f *fakeScans) CountByStatus(context.Context, models.ScanStatus) (int64, error) { return 0, nil }
func (f *fakeScans) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, before)
	return f.deleted, nil
}

func (f *fakeScans) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestPruneScansDisabled(t *testing.T) {
	scans := &fakeScans{}
	svc := New(scans, nil, config.RetentionConfig{})
	n, err := svc.PruneScans(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, scans.Calls())

	// returns immediately
	svc.Run(context.Background())
}

func TestPruneScansUsesCutoffAndEmits(t *testing.T) {
	scans := &fakeScans{deleted: 7}
	svc := New(scans, nil, config.RetentionConfig{ScanMaxAge: 48 * time.Hour, SweepInterval: time.Hour})
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	var mu sync.Mutex
	var pruned []int64
	svc.OnCleanup(EventScansPruned, func(n int64) {
		mu.Lock()
		pruned = append(pruned, n)
		mu.Unlock()
	})

	n, err := svc.PruneScans(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
	require.True(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Equal(scans.cutoffs[0]))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(pruned) == 1 && pruned[0] == 7
	}, time.Second, 5*time.Millisecond)
}

func TestPruneScansSkipsWhenLocked(t *testing.T) {
	scans := &fakeScans{deleted: 1}
	locker := cache.NewLocalLocker()
	release, err := locker.Obtain(context.Background(), lockKey, time.Minute)
	require.NoError(t, err)

	svc := New(scans, locker, config.RetentionConfig{ScanMaxAge: time.Hour, SweepInterval: time.Hour})
	n, err := svc.PruneScans(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, scans.Calls())

	require.NoError(t, release(context.Background()))
	n, err = svc.PruneScans(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	scans := &fakeScans{}
	svc := New(scans, nil, config.RetentionConfig{ScanMaxAge: time.Hour, SweepInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return scans.Calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
