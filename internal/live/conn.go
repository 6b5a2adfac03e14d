// FilePath: internal/live/conn.go
package live

import (
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the outbound side of one observer connection. WriteMessage is
// only ever called from the subscriber's own writer loop.
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
}

// WebsocketConn adapts a gorilla websocket connection
type WebsocketConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
}

func NewWebsocketConn(ws *websocket.Conn, writeTimeout time.Duration) *WebsocketConn {
	return &WebsocketConn{ws: ws, writeTimeout: writeTimeout}
}

func (c *WebsocketConn) WriteMessage(data []byte) error {
	if c.writeTimeout > 0 {
		if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *WebsocketConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.ws.Close()
}

// ReadUntilClosed discards client frames and returns once the peer goes away
// or the connection is closed locally. The feed is push only.
func (c *WebsocketConn) ReadUntilClosed(readLimit int64) error {
	c.ws.SetReadLimit(readLimit)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return err
		}
	}
}
