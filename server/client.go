package server

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/parser"
)

// WebSocket timeout constants following the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Client represents a WebSocket client connection
type Client struct {
	server    *KinServer
	conn      *websocket.Conn
	send      chan ResponseMessage
	done      chan struct{}
	id        string
	closeOnce sync.Once
}

func newClient(s *KinServer, conn *websocket.Conn, id string) *Client {
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan ResponseMessage, MaxClientMessageQueueSize),
		done:   make(chan struct{}),
		id:     id,
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg QueryMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error",
				logger.FieldError, err.Error(),
				logger.FieldClientID, c.id,
			)
			c.enqueue(ResponseMessage{Type: MessageError, Error: "invalid JSON message"})
			continue
		}

		c.enqueue(c.routeMessage(&msg))
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
		websocket.CloseNormalClosure,
	) {
		c.server.logger.Warnw("WebSocket read error",
			logger.FieldError, err,
			logger.FieldClientID, c.id,
		)
	}
}

// routeMessage answers one client request
func (c *Client) routeMessage(msg *QueryMessage) ResponseMessage {
	resp := ResponseMessage{Type: msg.Type, ID: msg.ID}

	if len(msg.Query) > MaxPhraseLength {
		resp.Type = MessageError
		resp.Error = NewInvalidRequestError("query longer than %d bytes", MaxPhraseLength).Error()
		return resp
	}

	switch msg.Type {
	case MessagePing:
	case MessageParse:
		rep, _ := c.server.parse(msg.Query)
		resp.Report = &rep
	case MessageSuggest:
		resp.Suggestions = c.server.suggest(msg.Query, msg.Limit)
	case MessageTokens:
		resp.Tokens = parser.Tokens(strings.TrimSpace(msg.Query))
	case MessageGraph:
		rep, g, _ := c.server.graph(msg.Query)
		resp.Report = &rep
		if g != nil {
			resp.Graph = g.Graph(map[string]string{"phrase": rep.Phrase})
		}
	default:
		resp.Type = MessageError
		resp.Error = "unknown message type " + msg.Type
	}
	return resp
}

// enqueue queues a reply without blocking the read loop. Replies to a slow
// client are dropped.
func (c *Client) enqueue(msg ResponseMessage) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		c.server.drops.Add(1)
		c.server.logger.Warnw("Failed to queue message (channel full)",
			logger.FieldClientID, c.id,
		)
	}
}

// writePump writes queued replies and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.server.ctx.Done():
			return
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Debugw("Message write error",
					logger.FieldError, err.Error(),
					logger.FieldClientID, c.id,
				)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close signals writePump to finish. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}
