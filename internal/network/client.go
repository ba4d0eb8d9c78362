package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client represents an active observer connection.
type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	lastQueryTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ObserverQuery represents an incoming command from an observer frontend.
type ObserverQuery struct {
	Type string `json:"type"` // "GET_CENSUS", "GET_TILE"
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("websocket read: %v", err)
			}
			break
		}

		var query ObserverQuery
		if err := json.Unmarshal(message, &query); err != nil {
			c.hub.logger.Error("failed to parse observer query: %v", err)
			continue
		}

		c.handleQuery(query)
	}
}

func (c *Client) handleQuery(query ObserverQuery) {
	// Observers are read-only; still rate limit to keep a misbehaving
	// frontend from hammering the engine lock.
	if time.Since(c.lastQueryTime) < time.Second {
		c.hub.logger.Warn("observer query rate limit exceeded")
		return
	}
	c.lastQueryTime = time.Now()

	switch query.Type {
	case "GET_CENSUS":
		c.reply("CENSUS", c.hub.engine.Census())
	case "GET_TILE":
		c.handleTileQuery(query.X, query.Y)
	default:
		c.hub.logger.Warn("unknown observer query type: %s", query.Type)
	}
}

// TileInfo is the reply payload for a tile query.
type TileInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	TileID   int    `json:"tile_id"`
	Kind     string `json:"kind"`
	IsCenter bool   `json:"is_center"`
	Powered  bool   `json:"powered"`
}

func (c *Client) handleTileQuery(x, y int) {
	// Reads go through the engine lock; the sim loop owns the grid.
	cell, ok := c.hub.engine.TileAt(x, y)
	if !ok {
		return
	}
	c.reply("TILE", TileInfo{
		X:        x,
		Y:        y,
		TileID:   tiles.ID(cell),
		Kind:     tiles.Classify(tiles.ID(cell)).String(),
		IsCenter: tiles.IsZoneCenter(cell),
		Powered:  tiles.IsPowered(cell),
	})
}

func (c *Client) reply(msgType string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	})
	if err != nil {
		c.hub.logger.Error("failed to serialize reply: %v", err)
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
