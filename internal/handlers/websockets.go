package handlers

import (
	"context"
	"strconv"
	"time"

	"bomberquiz/internal/models"
	"bomberquiz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// upgrader keeps gorilla's default origin check: a browser Origin must match
// the request Host. Non-browser clients without Origin are accepted.
var upgrader = websocket.Upgrader{}

// auditCursor remembers the newest timestamp pushed and the ids seen at it,
// since the inclusive lower bound returns those events again.
type auditCursor struct {
	since time.Time
	seen  map[string]struct{}
}

func (cur *auditCursor) advance(events []models.AuditEvent) []models.AuditEvent {
	fresh := make([]models.AuditEvent, 0, len(events))
	for _, e := range events {
		if _, dup := cur.seen[e.ID]; dup && e.OccurredAt.Equal(cur.since) {
			continue
		}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return nil
	}

	last := fresh[len(fresh)-1].OccurredAt
	if !last.Equal(cur.since) {
		cur.since = last
		cur.seen = make(map[string]struct{})
	}
	for _, e := range fresh {
		if e.OccurredAt.Equal(last) {
			cur.seen[e.ID] = struct{}{}
		}
	}
	return fresh
}

// @Summary      Audit event stream
// @Description  WebSocket. Sends a hello envelope, then {"type":"audit","data":[...]} with new events.
// @Tags         audit
// @Param        interval     query  string  false  "poll interval, e.g. 500ms (max 10s)"
// @Param        interval_ms  query  int     false  "poll interval in milliseconds"
// @Param        action       query  string  false  "only stream this action"
// @Router       /api/audit-logs/stream [get]
// @Security     BearerAuth
func (h *Handler) streamAuditLogs(c *gin.Context) {
	interval := h.parseInterval(c)
	action := c.Query("action")
	cursor := &auditCursor{since: time.Now().UTC(), seen: map[string]struct{}{}}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	hello := wsEnvelope{Type: "hello", Data: gin.H{"interval_ms": interval.Milliseconds(), "action": action}}
	if err := writeEnvelope(conn, hello); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	ctx := c.Request.Context()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.pushAudit(ctx, conn, cursor, action); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// pushAudit sends events newer than the cursor. Query failures are reported
// to the client as an error envelope and keep the stream open.
func (h *Handler) pushAudit(ctx context.Context, conn *websocket.Conn, cur *auditCursor, action string) error {
	events, err := h.services.AuditLog.List(ctx, service.AuditFilter{From: cur.since, Action: action})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_audit_list_failed", "err", err)
		}
		return writeEnvelope(conn, wsEnvelope{Type: "error", Error: msgInternal})
	}
	fresh := cur.advance(events)
	if len(fresh) == 0 {
		return nil
	}
	return writeEnvelope(conn, wsEnvelope{Type: "audit", Data: fresh})
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
