// internal/server/handlers/websocket.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/dashboard"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS middleware
		return true
	},
}

// Outgoing frame types
const (
	frameState = "state"
	frameEvent = "event"
	frameError = "error"
)

type viewFrame struct {
	Type  string               `json:"type"`
	State *dashboard.ViewState `json:"state,omitempty"`
	Event *dashboard.ViewEvent `json:"event,omitempty"`
	Error string               `json:"error,omitempty"`
}

// viewClient is a WebSocket connection bound to one view session
type viewClient struct {
	conn      *websocket.Conn
	manager   dashboard.Manager
	sessionID string
	config    WebSocketConfig
	logger    logrus.FieldLogger

	events <-chan dashboard.ViewEvent
	cancel func()

	// seenVersion is the state version last sent; owned by the write pump
	seenVersion int64

	// replies carries frames produced by the read pump (action errors)
	replies chan viewFrame
	done    chan struct{}
	once    sync.Once
}

// ViewWebSocketHandler streams the view events of a session. Clients may send
// ActionRequest frames which are applied to the same session.
func ViewWebSocketHandler(manager dashboard.Manager, config WebSocketConfig, logger logrus.FieldLogger) http.HandlerFunc {
	rs := newResponder(logger)

	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		if sessionID == "" {
			rs.respondWithError(w, http.StatusBadRequest, "Missing session ID", nil)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			rs.logger.WithError(err).Warn("Failed to upgrade to WebSocket")
			return
		}

		events, cancel := manager.Subscribe(sessionID)
		client := &viewClient{
			conn:      conn,
			manager:   manager,
			sessionID: sessionID,
			config:    config,
			logger:    rs.logger.WithField("session_id", sessionID),
			events:    events,
			cancel:    cancel,
			replies:   make(chan viewFrame, 8),
			done:      make(chan struct{}),
		}

		client.logger.Info("View WebSocket connected")

		// The state frame is written before the pumps start so it is always first.
		// Subscribing earlier means no transition is missed; events already
		// reflected in this state are skipped by the write pump.
		state := manager.State(context.Background(), sessionID)
		client.seenVersion = state.Version
		if err := client.write(viewFrame{Type: frameState, State: &state}); err != nil {
			client.logger.WithError(err).Warn("Failed to write initial view state")
			client.closeConnection()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// readPump applies actions received from the connection
func (c *viewClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Warn("WebSocket error")
			}
			return
		}

		c.processIncomingMessage(message)
	}
}

// processIncomingMessage applies one action; the resulting event reaches the
// client through the subscription
func (c *viewClient) processIncomingMessage(message []byte) {
	var req ActionRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.reply(viewFrame{Type: frameError, Error: "invalid message"})
		return
	}

	if _, err := applyAction(context.Background(), c.manager, c.sessionID, req); err != nil {
		c.reply(viewFrame{Type: frameError, Error: err.Error()})
	}
}

func (c *viewClient) reply(f viewFrame) {
	select {
	case c.replies <- f:
	case <-c.done:
	}
}

// writePump forwards view events and replies to the connection
func (c *viewClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				// The manager closed the subscription
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if ev.State.Version <= c.seenVersion {
				continue
			}
			c.seenVersion = ev.State.Version
			if err := c.write(viewFrame{Type: frameEvent, Event: &ev}); err != nil {
				return
			}

		case f := <-c.replies:
			if err := c.write(f); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *viewClient) write(f viewFrame) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
	return c.conn.WriteJSON(f)
}

// closeConnection releases the subscription and closes the connection once
func (c *viewClient) closeConnection() {
	c.once.Do(func() {
		close(c.done)
		c.cancel()
		c.conn.Close()
		c.logger.Info("View WebSocket closed")
	})
}
