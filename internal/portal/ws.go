package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/docportal/internal/nav"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type  string    `json:"type"` // "event" or "status"
	Event nav.Event `json:"event"`
}

// wsMessage is the outgoing format for everything but updates.
type wsMessage struct {
	Type      string      `json:"type"` // "session", "status" or "error"
	SessionID string      `json:"session_id"`
	Content   string      `json:"content,omitempty"`
	Status    *nav.Status `json:"status,omitempty"`
}

// client is one WebSocket connection bound to a session.
type client struct {
	conn    *websocket.Conn
	sess    *session
	log     *log.Entry
	version uint64
}

func (p *Portal) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	// Renders may outlive a read, but not the connection.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	var pending sync.WaitGroup
	defer pending.Wait()
	defer cancel()

	resumed := false
	sess, ok := p.session(r.URL.Query().Get("session"))
	if ok {
		resumed = true
	} else {
		sess = p.newSession(ctx, r.UserAgent(), "")
	}
	c := &client{conn: conn, sess: sess, log: p.log.WithField("session", sess.id)}
	c.send(wsMessage{Type: "session", SessionID: sess.id})
	if resumed {
		c.sendUpdate("")
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("websocket read")
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.sendError("invalid message format")
			continue
		}
		sess.touch()

		switch req.Type {
		case "event":
			if req.Event.Type == "" {
				c.sendError("event type is required")
				continue
			}
			rd := sess.ctrl.Begin(ctx, req.Event)
			c.sendUpdate(rd.Locator())
			if rd == nil {
				continue
			}
			pending.Add(1)
			go func() {
				defer pending.Done()
				if rd.Finish(ctx) {
					c.sendUpdate("")
				}
			}()
		case "status":
			st := sess.ctrl.Snapshot()
			c.send(wsMessage{Type: "status", SessionID: sess.id, Status: &st})
		default:
			c.sendError("unknown message type: " + req.Type)
		}
	}
}

func (c *client) sendUpdate(pending string) {
	c.sess.sendMu.Lock()
	defer c.sess.sendMu.Unlock()
	if err := c.conn.WriteJSON(c.sess.update(&c.version, pending)); err != nil {
		c.log.WithError(err).Debug("websocket write")
	}
}

func (c *client) send(m wsMessage) {
	c.sess.sendMu.Lock()
	defer c.sess.sendMu.Unlock()
	if err := c.conn.WriteJSON(m); err != nil {
		c.log.WithError(err).Debug("websocket write")
	}
}

func (c *client) sendError(message string) {
	c.send(wsMessage{Type: "error", SessionID: c.sess.id, Content: message})
}
