package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rxcast/internal/domain"
	"rxcast/internal/gateway"
	"rxcast/internal/observability"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// StreamMessage is one inventory push on /api/v1/stream.
type StreamMessage struct {
	Type   string                 `json:"type"`
	Source gateway.Source         `json:"source"`
	Status string                 `json:"status"`
	Items  []domain.InventoryItem `json:"items"`
	SentAt time.Time              `json:"sent_at"`
}

// GET /api/v1/stream
func (h *Handler) stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.WithError(err).Warn("stream upgrade failed")
		return
	}
	defer conn.Close()

	observability.StreamClientConnected(1)
	defer observability.StreamClientConnected(-1)

	ctx := c.Request.Context()
	closed := make(chan struct{})
	go readPump(conn, closed)

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	push := func() error {
		result := h.dash.ListInventory(ctx)
		msg := StreamMessage{
			Type:   "inventory",
			Source: result.Source,
			Status: result.Status,
			Items:  result.Items,
			SentAt: time.Now().UTC(),
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	if err := push(); err != nil {
		h.logger.WithError(err).Debug("stream write failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ticker.C:
			if err := push(); err != nil {
				h.logger.WithError(err).Debug("stream write failed")
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed,
// and closes closed when the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
