// Package ws provides the WebSocket transport: a browser host connects
// one socket per session, sends command lines and key events, and
// receives output, editor frames and control messages.
package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/termos-project/termos/internal/editor"
	"github.com/termos-project/termos/internal/monitoring"
	"github.com/termos-project/termos/internal/session"
	"github.com/termos-project/termos/internal/shell"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the embedding page decides access, not us
	},
}

// Message is one inbound WebSocket message.
type Message struct {
	Type  string `json:"type"`
	Line  string `json:"line,omitempty"`
	Key   string `json:"key,omitempty"`
	Input string `json:"input,omitempty"`
}

// Handler manages WebSocket connections.
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a WebSocket handler.
func NewHandler(sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, metrics: metrics, logger: logger}
}

// connSurface pushes editor frames down one connection.
type connSurface struct {
	conn *websocket.Conn
}

// Render implements editor.Surface.
func (s connSurface) Render(frame editor.Frame) {
	_ = s.conn.WriteJSON(map[string]interface{}{
		"type":  "render",
		"frame": frame,
	})
}

// HandleConnection upgrades and serves one connection. Messages are
// processed sequentially in the read loop, which is what makes each
// session single-threaded.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	sess, created := h.resolveSession(c.Query("session_id"))
	if sess == nil {
		h.sendError(conn, "session not found")
		return
	}
	if created {
		defer h.sessions.Close(sess.ID)
	}

	sess.AttachSurface(connSurface{conn: conn}, func() {
		h.send(conn, map[string]interface{}{"type": "vi_closed"})
	})

	user, path := sess.Prompt()
	h.send(conn, map[string]interface{}{
		"type":       "ready",
		"session_id": sess.ID,
		"user":       user,
		"path":       path,
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Debug("websocket closed", zap.Error(err))
			return
		}
		if h.metrics != nil {
			h.metrics.WSMessages.WithLabelValues(msg.Type).Inc()
		}

		switch msg.Type {
		case "execute":
			h.handleExecute(conn, sess, msg.Line)
		case "key":
			if !sess.HandleKey(msg.Key) {
				h.sendError(conn, "no editor open")
			}
		case "complete":
			h.send(conn, map[string]interface{}{
				"type":        "completions",
				"completions": sess.Completions(msg.Input),
			})
		case "ping":
			h.send(conn, map[string]interface{}{"type": "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

// resolveSession finds an existing session or creates a fresh one when
// no ID was supplied.
func (h *Handler) resolveSession(id string) (*session.Session, bool) {
	if id == "" {
		return h.sessions.Create(), true
	}
	sess, ok := h.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return sess, false
}

// handleExecute runs a command line and translates sentinel outputs
// into typed messages; the raw markers never reach the browser.
func (h *Handler) handleExecute(conn *websocket.Conn, sess *session.Session, line string) {
	if sess.EditorOpen() {
		h.sendError(conn, "editor owns input; send key events")
		return
	}
	output := sess.Execute(line)
	user, path := sess.Prompt()

	switch {
	case output == shell.SentinelClear:
		h.send(conn, map[string]interface{}{"type": "clear"})
	case output == shell.SentinelViOpened:
		h.send(conn, map[string]interface{}{"type": "vi_opened"})
	case strings.HasPrefix(output, shell.SentinelUserSwitched):
		h.send(conn, map[string]interface{}{
			"type": "user_switched",
			"user": strings.TrimPrefix(output, shell.SentinelUserSwitched),
		})
	default:
		h.send(conn, map[string]interface{}{
			"type":   "output",
			"output": output,
			"user":   user,
			"path":   path,
		})
	}
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) {
	if err := conn.WriteJSON(data); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, msg string) {
	h.send(conn, map[string]interface{}{"type": "error", "message": msg})
}
