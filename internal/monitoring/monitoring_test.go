package monitoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordEvent(t *testing.T) {
	s := NewService(Config{LogEvents: true})

	s.RecordEvent(EventTelemetryIngested, map[string]string{"robot_id": "RB-001"})
	s.RecordEvent(EventTelemetryIngested, map[string]string{"robot_id": "RB-002"})
	s.RecordEvent(EventTelemetryIngested, map[string]string{"robot_id": "RB-001"})
	s.RecordEvents(EventScansPruned, 42, nil)

	m := s.GetEventMetrics(EventTelemetryIngested)
	require.EqualValues(t, 3, m.Total)
	require.EqualValues(t, 2, m.ByLabel["robot_id=RB-001"])
	require.False(t, m.LastSeen.IsZero())

	snap := s.Snapshot()
	require.EqualValues(t, 42, snap[EventScansPruned].Total)
	require.Zero(t, s.GetEventMetrics("unknown").Total)

	// copies are detached
	m.ByLabel["robot_id=RB-001"] = 100
	require.EqualValues(t, 2, s.GetEventMetrics(EventTelemetryIngested).ByLabel["robot_id=RB-001"])
}

func TestRecordEventConcurrent(t *testing.T) {
	s := NewService(Config{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.RecordEvent(EventSubscriberConnected, nil)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1000, s.GetEventMetrics(EventSubscriberConnected).Total)
}

func TestFormatLabels(t *testing.T) {
	require.Equal(t, "a=1,b=2", formatLabels(map[string]string{"b": "2", "a": "1"}))
}
