// FilePath: internal/live/subscriber.go
package live

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

var (
	// ErrClosed is returned when sending to a subscriber that has left the registry
	ErrClosed = errors.New("subscriber closed")
	// ErrSlow is returned when a subscriber's outbound queue is full
	ErrSlow = errors.New("subscriber queue full")
)

type State int32

const (
	StateConnecting State = iota
	StateLive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Subscriber is one connected dashboard observer. Frames are queued by Send
// and written in order by Run, which also emits this subscriber's heartbeats.
type Subscriber struct {
	id        string
	conn      Conn
	outbound  chan []byte
	done      chan struct{}
	state     atomic.Int32
	registry  *Registry
	connected time.Time
}

func (s *Subscriber) ID() string {
	return s.id
}

func (s *Subscriber) State() State {
	return State(s.state.Load())
}

// Done is closed when the subscriber leaves the registry
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Send queues a frame without blocking
func (s *Subscriber) Send(frame []byte) error {
	if s.State() == StateClosed {
		return ErrClosed
	}
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.outbound <- frame:
		return nil
	default:
		return ErrSlow
	}
}

// Run is the subscriber's writer loop. It returns when ctx is cancelled, the
// subscriber is unregistered, or a write fails, and always leaves the
// subscriber Closed with its connection closed.
func (s *Subscriber) Run(ctx context.Context, heartbeat time.Duration) {
	defer s.conn.Close()
	defer s.registry.Unregister(s)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case frame := <-s.outbound:
			if err := s.conn.WriteMessage(frame); err != nil {
				nuts.L.Debugf("[Live] write to %s failed: %v", s.id, err)
				return
			}
		case t := <-ticker.C:
			frame, err := EncodeEvent(models.Heartbeat{Timestamp: t})
			if err != nil {
				nuts.L.Errorf("[Live] failed to encode heartbeat: %v", err)
				continue
			}
			if err := s.conn.WriteMessage(frame); err != nil {
				nuts.L.Debugf("[Live] heartbeat to %s failed: %v", s.id, err)
				return
			}
		}
	}
}
