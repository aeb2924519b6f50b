package controllers

import (
	"context"
	"net/http"
	"time"

	"campus-canteen/feed"
	"campus-canteen/logger"
	"campus-canteen/notifications"
	"campus-canteen/repository"
	"campus-canteen/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope of every websocket frame.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// NewOrderPayload accompanies a "newOrder" message.
type NewOrderPayload struct {
	OrderID     int64      `json:"order_id"`
	StudentName string     `json:"student_name"`
	OrderType   string     `json:"order_type"`
	Chime       feed.Chime `json:"chime"`
}

// drain reads until the peer goes away, then cancels. Client frames carry
// nothing the server needs.
func drain(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// OrdersFeed sends the filtered order queue on connect and again after every
// change event. New orders are also announced with a "newOrder" message.
// Connecting opens the admin's notification inbox, so orders placed while
// the queue is on screen are collected there.
func OrdersFeed(orders repository.OrderRepository, hub *feed.Hub, inboxes *notifications.Registry, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := filterFromQuery(c)
		inboxes.For(c.GetString("uid"))
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("orders websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		telemetry.AdminClients.Inc()
		defer telemetry.AdminClients.Dec()

		sub := hub.Subscribe(16)
		defer sub.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		go drain(conn, cancel)

		send := func(msg Message) error {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(msg)
		}
		sendSnapshot := func() error {
			snap, err := loadOrders(ctx, orders, filter)
			if err != nil {
				log.Warn("orders snapshot failed", "error", err)
				return send(Message{Event: "error", Payload: "failed to load orders"})
			}
			return send(Message{Event: "orders", Payload: snap})
		}

		if err := sendSnapshot(); err != nil {
			return
		}

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if ev.Type == feed.Insert && ev.Order != nil {
					err := send(Message{Event: "newOrder", Payload: NewOrderPayload{
						OrderID:     ev.Order.ID,
						StudentName: ev.Order.StudentName,
						OrderType:   ev.Order.OrderType,
						Chime:       feed.NewOrderChime,
					}})
					if err != nil {
						return
					}
				}
				if err := sendSnapshot(); err != nil {
					return
				}
			}
		}
	}
}
