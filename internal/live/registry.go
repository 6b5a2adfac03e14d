// FilePath: internal/live/registry.go
package live

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	nuts "github.com/vaudience/go-nuts"
)

// ErrRegistryClosed is returned by Register after CloseAll
var ErrRegistryClosed = errors.New("registry closed")

const (
	EventSubscriberConnected = "subscriber.connected"
	EventSubscriberClosed    = "subscriber.closed"
)

// Registry is the single authority on which subscribers are live. All
// membership changes happen under mu; iteration works on a snapshot.
type Registry struct {
	mu         sync.RWMutex
	subs       map[string]*Subscriber
	closed     bool
	sendBuffer int
	events     *nuts.EventEmitter
}

func NewRegistry(sendBuffer int) *Registry {
	if sendBuffer <= 0 {
		sendBuffer = 1
	}
	return &Registry{
		subs:       make(map[string]*Subscriber),
		sendBuffer: sendBuffer,
		events:     nuts.NewEventEmitter(),
	}
}

// On registers a membership hook for EventSubscriberConnected or EventSubscriberClosed
func (r *Registry) On(event, handlerID string, handler func(subscriberID string)) {
	if _, err := r.events.On(event, handlerID, handler); err != nil {
		nuts.L.Errorf("[Live] failed to register hook %s for %s: %v", handlerID, event, err)
	}
}

func (r *Registry) emit(event, subscriberID string) {
	if err := r.events.Emit(event, subscriberID); err != nil {
		nuts.L.Errorf("[Live] %s hook failed for %s: %v", event, subscriberID, err)
	}
}

// Register adds a new Live subscriber for conn. The caller must start its Run loop.
func (r *Registry) Register(conn Conn) (*Subscriber, error) {
	sub := &Subscriber{
		id:        uuid.NewString(),
		conn:      conn,
		outbound:  make(chan []byte, r.sendBuffer),
		done:      make(chan struct{}),
		registry:  r,
		connected: time.Now(),
	}
	sub.state.Store(int32(StateConnecting))

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		sub.state.Store(int32(StateClosed))
		close(sub.done)
		return nil, ErrRegistryClosed
	}
	r.subs[sub.id] = sub
	sub.state.Store(int32(StateLive))
	n := len(r.subs)
	r.mu.Unlock()

	nuts.L.Infof("[Live] subscriber %s connected (%d live)", sub.id, n)
	r.emit(EventSubscriberConnected, sub.id)
	return sub, nil
}

// Unregister removes the subscriber and moves it to Closed. Safe to call
// more than once and from any goroutine.
func (r *Registry) Unregister(sub *Subscriber) {
	r.mu.Lock()
	current, ok := r.subs[sub.id]
	if !ok || current != sub {
		r.mu.Unlock()
		return
	}
	delete(r.subs, sub.id)
	sub.state.Store(int32(StateClosed))
	close(sub.done)
	n := len(r.subs)
	r.mu.Unlock()

	nuts.L.Infof("[Live] subscriber %s closed after %s (%d live)", sub.id, time.Since(sub.connected).Round(time.Millisecond), n)
	r.emit(EventSubscriberClosed, sub.id)
}

// ForEachLive calls fn for every live subscriber. A subscriber whose fn call
// fails is unregistered before the next one is attempted. It returns the
// number of successful calls.
func (r *Registry) ForEachLive(fn func(sub *Subscriber) error) int {
	r.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		snapshot = append(snapshot, sub)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, sub := range snapshot {
		if sub.State() != StateLive {
			continue
		}
		if err := fn(sub); err != nil {
			nuts.L.Warnf("[Live] dropping subscriber %s: %v", sub.id, err)
			r.Unregister(sub)
			continue
		}
		delivered++
	}
	return delivered
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// CloseAll unregisters every subscriber and refuses new registrations
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	snapshot := make([]*Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		snapshot = append(snapshot, sub)
	}
	r.mu.Unlock()

	for _, sub := range snapshot {
		r.Unregister(sub)
	}
}
