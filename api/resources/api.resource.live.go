// FilePath: api/resources/api.resource.live.go
package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/live"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

const clientReadLimit = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LiveHandlers serves the dashboard event feed
type LiveHandlers struct {
	svc          *warehouse.Service
	writeTimeout time.Duration
}

// @Summary Live dashboard feed
// @Description Websocket pushing robot_update and heartbeat frames. Client frames are ignored.
// @Tags live
// @Success 101
// @Router /ws/dashboard [get]
func (h *LiveHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		nuts.L.Debugf("[Live] upgrade failed: %v", err)
		return
	}
	conn := live.NewWebsocketConn(ws, h.writeTimeout)

	// the request context ends with the handler, not with the socket
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer cancel()
		if err := conn.ReadUntilClosed(clientReadLimit); err != nil {
			nuts.L.Debugf("[Live] observer %s went away: %v", r.RemoteAddr, err)
		}
	}()

	if err := h.svc.Live.Serve(ctx, conn); err != nil {
		nuts.L.Warnf("[Live] refused observer %s: %v", r.RemoteAddr, err)
	}
}
