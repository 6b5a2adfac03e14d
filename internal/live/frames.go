// FilePath: internal/live/frames.go
package live

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
)

type robotUpdateFrame struct {
	Type models.EventType   `json:"type"`
	Data models.RobotUpdate `json:"data"`
}

type heartbeatFrame struct {
	Type      models.EventType `json:"type"`
	Timestamp string           `json:"timestamp"`
}

// EncodeEvent renders a domain event as a feed text frame
func EncodeEvent(event models.DomainEvent) ([]byte, error) {
	switch e := event.(type) {
	case models.RobotUpdate:
		return json.Marshal(robotUpdateFrame{Type: e.Type(), Data: e})
	case *models.RobotUpdate:
		return json.Marshal(robotUpdateFrame{Type: e.Type(), Data: *e})
	case models.Heartbeat:
		return json.Marshal(heartbeatFrame{Type: e.Type(), Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano)})
	default:
		return nil, fmt.Errorf("unsupported event %T", event)
	}
}
