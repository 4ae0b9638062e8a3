package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/stevelan1995/taskgrid/pkg/messaging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 5 * time.Second

// eventStream upgrades the connection and streams every lifecycle
// event — topology started/completed/failed, node entered/exited —
// as JSON text frames until the client disconnects.
// GET /api/v1/events
func (h *graphHandler) eventStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Detect client-initiated close so the subscription goroutines below
	// don't outlive the connection.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	msgs, err := h.svc.bus.SubscribeAll(ctx)
	if err != nil {
		log.Printf("api: subscribing to event bus: %v", err)
		return
	}

	for msg := range msgs {
		var event messaging.Event
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			msg.Ack()
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			msg.Ack()
			return
		}
		msg.Ack()
	}
}
