package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

type Handler struct {
	broker  Broker
	origins []string
}

// NewHandler accepts websocket upgrades from the given CORS origins.
func NewHandler(broker Broker, corsOrigins []string) *Handler {
	return &Handler{broker: broker, origins: originPatterns(corsOrigins)}
}

// originPatterns turns http(s)://host:port origins into the host patterns
// the websocket library matches against.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		out = append(out, u.Host)
	}
	return out
}

// GET /realtime?topic=
func (h *Handler) Stream(c *gin.Context) {
	topic := c.Query("topic")
	if !Topics[topic] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic must be dishes, reservations, tables or settings"})
		return
	}
	id := httpx.CurrentIdentity(c)

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		slog.Warn("[REALTIME] upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(c.Request.Context())
	changes, unsubscribe := h.broker.Subscribe(ctx, topic)
	defer unsubscribe()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		case change, ok := <-changes:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if !Visible(id, change) {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, change)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
