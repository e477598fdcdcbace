package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"contentscale/internal/domain/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSHandler upgrades authenticated clients and relays their generation
// events. One connection per socket; the token comes from the query string
// because browsers cannot set headers on WebSocket dials.
type WSHandler struct {
	publisher *RedisPublisher
	jwt       services.JWTService
	logger    *slog.Logger

	mu          sync.RWMutex
	connections map[string]*wsConnection
}

type wsConnection struct {
	id     string
	userID int64
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWSHandler(publisher *RedisPublisher, jwt services.JWTService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		publisher:   publisher,
		jwt:         jwt,
		logger:      logger,
		connections: make(map[string]*wsConnection),
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	wsConn := &wsConnection{
		id:     newConnectionID(claims.UserID),
		userID: claims.UserID,
		conn:   conn,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	h.connections[wsConn.id] = wsConn
	h.mu.Unlock()

	h.logger.Info("websocket connected", "connection_id", wsConn.id, "user_id", claims.UserID)

	go h.relay(wsConn)
	go h.writePump(wsConn)
	go h.readPump(wsConn)
}

func newConnectionID(userID int64) string {
	return fmt.Sprintf("ws_%d_%d", userID, time.Now().UnixNano())
}

// relay subscribes to the user's event stream and forwards everything.
func (h *WSHandler) relay(c *wsConnection) {
	sub, err := h.publisher.Subscribe(c.ctx, c.userID)
	if err != nil {
		h.logger.Error("stream subscription failed", "error", err, "connection_id", c.id)
		h.sendJSON(c, map[string]interface{}{
			"type":    "subscription_failed",
			"message": err.Error(),
		})
		return
	}

	h.sendJSON(c, map[string]interface{}{
		"type":            "subscription_success",
		"subscription_id": sub.ID,
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		case event, ok := <-sub.Channel:
			if !ok {
				return
			}
			h.sendJSON(c, map[string]interface{}{
				"type":         "generation_update",
				"event_type":   string(event.EventType),
				"content_id":   event.ContentID,
				"provider":     event.Provider,
				"credits_used": event.CreditsUsed,
				"error":        event.Error,
				"sequence":     event.Sequence,
				"timestamp":    event.Timestamp,
			})
		}
	}
}

// sendJSON queues a message for writePump. The send channel is never
// closed; a cancelled ctx is the only disconnect signal, so writers that
// race a disconnect drop the message instead of panicking.
func (h *WSHandler) sendJSON(c *wsConnection, v map[string]interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if c.ctx.Err() != nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		h.logger.Warn("websocket send buffer full, dropping message", "connection_id", c.id)
	}
}

func (h *WSHandler) readPump(c *wsConnection) {
	defer h.disconnect(c)

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", "error", err, "connection_id", c.id)
			}
			return
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg["type"] {
		case "ping":
			h.sendJSON(c, map[string]interface{}{"type": "pong", "timestamp": time.Now()})
		case "request_history":
			go h.sendHistory(c)
		}
	}
}

func (h *WSHandler) writePump(c *wsConnection) {
	ticker := time.NewTicker(25 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Warn("websocket write error", "error", err, "connection_id", c.id)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(2*time.Second),
			)
			return
		}
	}
}

func (h *WSHandler) sendHistory(c *wsConnection) {
	events, err := h.publisher.History(c.ctx, c.userID, 20)
	if err != nil {
		h.logger.Warn("failed to load stream history", "error", err, "connection_id", c.id)
		return
	}
	h.sendJSON(c, map[string]interface{}{
		"type":      "history_response",
		"events":    events,
		"timestamp": time.Now(),
	})
}

// disconnect cancels the connection ctx; relay, sendHistory and writePump
// all exit on it. The send channel stays open so in-flight writers cannot
// hit a closed channel.
func (h *WSHandler) disconnect(c *wsConnection) {
	h.mu.Lock()
	delete(h.connections, c.id)
	h.mu.Unlock()

	c.cancel()
	h.logger.Info("websocket disconnected", "connection_id", c.id)
}

func (h *WSHandler) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
