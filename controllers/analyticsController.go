package controllers

import (
	"context"
	"net/http"
	"time"

	"campus-canteen/analytics"
	"campus-canteen/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ReportSource computes dashboard reports.
type ReportSource interface {
	Compute(ctx context.Context, r analytics.Range, now time.Time) (*analytics.Report, error)
	Watch(ctx context.Context, r analytics.Range, interval time.Duration, fn func(*analytics.Report, error) error) error
}

func GetAnalytics(svc ReportSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		rng, err := analytics.ParseRange(c.Query("range"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rep, err := svc.Compute(ctx, rng, time.Now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

// StreamAnalytics pushes a fresh report over a websocket every interval
// until the client goes away.
func StreamAnalytics(svc ReportSource, interval time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, err := analytics.ParseRange(c.Query("range"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("analytics websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		go drain(conn, cancel)

		err = svc.Watch(ctx, rng, interval, func(rep *analytics.Report, err error) error {
			msg := Message{Event: "analytics", Payload: rep}
			if err != nil {
				log.Warn("analytics refresh failed", "error", err)
				msg = Message{Event: "error", Payload: "failed to compute analytics"}
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(msg)
		})
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Debug("analytics stream ended", "error", err)
		}
	}
}
