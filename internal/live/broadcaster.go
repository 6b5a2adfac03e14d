// FilePath: internal/live/broadcaster.go
package live

import (
	"sync"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Broadcaster fans domain events out to every live subscriber. Calls are
// serialized so that all subscribers see broadcasts in the same order.
type Broadcaster struct {
	mu       sync.Mutex
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast is fire and forget. Subscribers that cannot take the frame are
// dropped; nothing is retried.
func (b *Broadcaster) Broadcast(event models.DomainEvent) {
	frame, err := EncodeEvent(event)
	if err != nil {
		nuts.L.Errorf("[Broadcaster] failed to encode %s event: %v", event.Type(), err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := b.registry.ForEachLive(func(sub *Subscriber) error {
		return sub.Send(frame)
	})
	nuts.L.Debugf("[Broadcaster] %s queued for %d subscribers", event.Type(), delivered)
}
