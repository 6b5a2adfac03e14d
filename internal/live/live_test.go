package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func (c *fakeConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail || c.closed {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) Frames() []map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]interface{}
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) OfType(t string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, f := range c.Frames() {
		if f["type"] == t {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func update(robotID string, battery int) models.RobotUpdate {
	return models.RobotUpdate{
		RobotID:      robotID,
		BatteryLevel: battery,
		Location:     models.Location{Zone: "A", Row: 12, Shelf: 3},
		Timestamp:    "2024-01-01T10:00:00Z",
	}
}

func TestEncodeEvent(t *testing.T) {
	frame, err := EncodeEvent(update("RB-001", 15))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"robot_update","data":{"robot_id":"RB-001","battery_level":15,"location":{"zone":"A","row":12,"shelf":3},"timestamp":"2024-01-01T10:00:00Z"}}`, string(frame))

	ts := time.Date(2024, 1, 1, 10, 0, 5, 0, time.UTC)
	frame, err = EncodeEvent(models.Heartbeat{Timestamp: ts})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"heartbeat","timestamp":"2024-01-01T10:00:05Z"}`, string(frame))
}

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry(4)
	sub, err := reg.Register(&fakeConn{})
	require.NoError(t, err)
	require.Equal(t, StateLive, sub.State())
	require.Equal(t, 1, reg.Len())

	reg.Unregister(sub)
	require.Equal(t, StateClosed, sub.State())
	require.Equal(t, 0, reg.Len())
	require.ErrorIs(t, sub.Send([]byte("x")), ErrClosed)

	// idempotent
	reg.Unregister(sub)
	require.Equal(t, 0, reg.Len())

	select {
	case <-sub.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestRegistryUniqueIdentities(t *testing.T) {
	reg := NewRegistry(4)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		sub, err := reg.Register(&fakeConn{})
		require.NoError(t, err)
		require.False(t, seen[sub.ID()])
		seen[sub.ID()] = true
	}
	require.Equal(t, 50, reg.Len())
}

func TestForEachLiveRemovesFailingSubscriber(t *testing.T) {
	reg := NewRegistry(4)
	var subs []*Subscriber
	for i := 0; i < 5; i++ {
		sub, err := reg.Register(&fakeConn{})
		require.NoError(t, err)
		subs = append(subs, sub)
	}
	bad := subs[2]

	delivered := reg.ForEachLive(func(sub *Subscriber) error {
		if sub == bad {
			return errors.New("send failed")
		}
		return nil
	})
	require.Equal(t, 4, delivered)
	require.Equal(t, 4, reg.Len())
	require.Equal(t, StateClosed, bad.State())

	calls := 0
	delivered = reg.ForEachLive(func(sub *Subscriber) error {
		require.NotEqual(t, bad, sub)
		calls++
		return nil
	})
	require.Equal(t, 4, delivered)
	require.Equal(t, 4, calls)
}

func TestBroadcastSkipsSlowSubscriber(t *testing.T) {
	reg := NewRegistry(1)
	b := NewBroadcaster(reg)

	slow, err := reg.Register(&fakeConn{})
	require.NoError(t, err)
	require.NoError(t, slow.Send([]byte("fill")))

	fast, err := reg.Register(&fakeConn{})
	require.NoError(t, err)

	b.Broadcast(update("RB-001", 15))
	require.Equal(t, StateClosed, slow.State())
	require.Equal(t, StateLive, fast.State())
	require.Equal(t, 1, reg.Len())
	require.Len(t, fast.outbound, 1)
}

func TestBroadcastDeliversToAllButFailedConnection(t *testing.T) {
	reg := NewRegistry(16)
	b := NewBroadcaster(reg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conns := make([]*fakeConn, 5)
	for i := range conns {
		conns[i] = &fakeConn{}
		sub, err := reg.Register(conns[i])
		require.NoError(t, err)
		go sub.Run(ctx, time.Hour)
	}
	conns[3].mu.Lock()
	conns[3].fail = true
	conns[3].mu.Unlock()

	b.Broadcast(update("RB-001", 15))

	require.Eventually(t, func() bool { return reg.Len() == 4 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, conns[3].IsClosed, time.Second, 5*time.Millisecond)
	for i, c := range conns {
		if i == 3 {
			continue
		}
		c := c
		require.Eventually(t, func() bool { return len(c.OfType("robot_update")) == 1 }, time.Second, 5*time.Millisecond)
	}

	b.Broadcast(update("RB-002", 45))
	for i, c := range conns {
		if i == 3 {
			require.Empty(t, c.OfType("robot_update"))
			continue
		}
		c := c
		require.Eventually(t, func() bool { return len(c.OfType("robot_update")) == 2 }, time.Second, 5*time.Millisecond)
	}
}

func TestBroadcastPreservesOrderPerSubscriber(t *testing.T) {
	reg := NewRegistry(256)
	b := NewBroadcaster(reg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := &fakeConn{}
	sub, err := reg.Register(conn)
	require.NoError(t, err)
	go sub.Run(ctx, time.Hour)

	for i := 0; i <= 100; i++ {
		b.Broadcast(update("RB-001", i))
	}

	require.Eventually(t, func() bool { return len(conn.OfType("robot_update")) == 101 }, 2*time.Second, 5*time.Millisecond)
	for i, f := range conn.OfType("robot_update") {
		data := f["data"].(map[string]interface{})
		require.EqualValues(t, i, data["battery_level"])
	}
}

func TestHeartbeatInterval(t *testing.T) {
	reg := NewRegistry(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := &fakeConn{}
	sub, err := reg.Register(conn)
	require.NoError(t, err)

	interval := 20 * time.Millisecond
	start := time.Now()
	go sub.Run(ctx, interval)

	require.Eventually(t, func() bool { return len(conn.OfType("heartbeat")) >= 5 }, 2*time.Second, time.Millisecond)
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 5*interval)

	for _, hb := range conn.OfType("heartbeat") {
		ts, ok := hb["timestamp"].(string)
		require.True(t, ok)
		_, err := time.Parse(time.RFC3339Nano, ts)
		require.NoError(t, err)
	}
}

func TestHeartbeatStopsOnUnregister(t *testing.T) {
	reg := NewRegistry(4)
	conn := &fakeConn{}
	sub, err := reg.Register(conn)
	require.NoError(t, err)

	finished := make(chan struct{})
	go func() {
		sub.Run(context.Background(), 10*time.Millisecond)
		close(finished)
	}()
	require.Eventually(t, func() bool { return len(conn.OfType("heartbeat")) >= 1 }, time.Second, time.Millisecond)

	reg.Unregister(sub)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("heartbeat loop did not stop")
	}
	require.True(t, conn.IsClosed())

	count := len(conn.OfType("heartbeat"))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, count, len(conn.OfType("heartbeat")))
}

func TestHeartbeatFailureUnregisters(t *testing.T) {
	reg := NewRegistry(4)
	conn := &fakeConn{fail: true}
	sub, err := reg.Register(conn)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		sub.Run(context.Background(), 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after failed heartbeat")
	}
	require.Equal(t, StateClosed, sub.State())
	require.Equal(t, 0, reg.Len())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	reg := NewRegistry(4)
	sub, err := reg.Register(&fakeConn{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sub.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
	require.Equal(t, 0, reg.Len())
}

func TestConcurrentMembershipAndBroadcast(t *testing.T) {
	reg := NewRegistry(8)
	b := NewBroadcaster(reg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub, err := reg.Register(&fakeConn{})
			if err != nil {
				return
			}
			runCtx, stop := context.WithTimeout(ctx, 30*time.Millisecond)
			defer stop()
			sub.Run(runCtx, 5*time.Millisecond)
		}()
	}
	for i := 0; i < 50; i++ {
		b.Broadcast(update("RB-001", i))
	}
	wg.Wait()
	require.Equal(t, 0, reg.Len())
}

func TestCloseAllRefusesNewSubscribers(t *testing.T) {
	reg := NewRegistry(4)
	sub, err := reg.Register(&fakeConn{})
	require.NoError(t, err)

	reg.CloseAll()
	require.Equal(t, StateClosed, sub.State())
	require.Equal(t, 0, reg.Len())

	_, err = reg.Register(&fakeConn{})
	require.ErrorIs(t, err, ErrRegistryClosed)
}

func TestRegistryHooks(t *testing.T) {
	reg := NewRegistry(4)
	var mu sync.Mutex
	events := map[string]int{}
	reg.On(EventSubscriberConnected, "test", func(string) {
		mu.Lock()
		events["connected"]++
		mu.Unlock()
	})
	reg.On(EventSubscriberClosed, "test", func(string) {
		mu.Lock()
		events["closed"]++
		mu.Unlock()
	})

	sub, err := reg.Register(&fakeConn{})
	require.NoError(t, err)
	reg.Unregister(sub)
	reg.Unregister(sub)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return events["connected"] == 1 && events["closed"] == 1
	}, time.Second, 5*time.Millisecond)
}
