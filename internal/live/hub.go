// FilePath: internal/live/hub.go
package live

import (
	"context"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
)

// Hub wires the registry, the broadcaster and the per-connection heartbeat
type Hub struct {
	registry    *Registry
	broadcaster *Broadcaster
	heartbeat   time.Duration
}

const DefaultHeartbeatInterval = 5 * time.Second

func NewHub(cfg config.LiveConfig) *Hub {
	heartbeat := cfg.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	registry := NewRegistry(cfg.SendBuffer)
	return &Hub{
		registry:    registry,
		broadcaster: NewBroadcaster(registry),
		heartbeat:   heartbeat,
	}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// Broadcast implements telemetry.Publisher
func (h *Hub) Broadcast(event models.DomainEvent) {
	h.broadcaster.Broadcast(event)
}

// Serve registers conn and blocks until the subscriber is closed
func (h *Hub) Serve(ctx context.Context, conn Conn) error {
	sub, err := h.registry.Register(conn)
	if err != nil {
		conn.Close()
		return err
	}
	sub.Run(ctx, h.heartbeat)
	return nil
}

// Close disconnects every observer
func (h *Hub) Close() {
	h.registry.CloseAll()
}
