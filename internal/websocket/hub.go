package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already checked by the CORS layer and the session cookie.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a single connected WebSocket client
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

type delivery struct {
	client  *Client
	userID  string
	message []byte
}

// Hub maintains the set of active clients. Only the Run loop writes to a client's Send channel.
type Hub struct {
	clients    map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance
func NewHub() *Hub {
	return &Hub{
		deliver:    make(chan delivery),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.WithField("user_id", client.UserID).Info("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()
		case d := <-h.deliver:
			h.mu.Lock()
			for client := range h.clients {
				if client == d.client || (d.client == nil && client.UserID == d.userID) {
					h.offer(client, d.message)
				}
			}
			h.mu.Unlock()
		}
	}
}

// offer queues message for client, dropping clients that stopped reading.
func (h *Hub) offer(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		log.WithField("user_id", client.UserID).Info("websocket client disconnected")
	}
}

// SendTo delivers message to every socket userID has open.
func (h *Hub) SendTo(userID string, message []byte) {
	h.deliver <- delivery{userID: userID, message: message}
}

// ClientCount reports how many sockets are open.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive and cancels the client's work once the peer goes away.
func (c *Client) readPump(cancel context.CancelFunc) {
	defer func() {
		cancel()
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

// WatchFunc produces messages for one client until ctx is done or push fails.
type WatchFunc func(ctx context.Context, push func([]byte) error)

// ServeWs upgrades an already authorized request and runs watch for the new client.
func ServeWs(hub *Hub, c *gin.Context, userID string, watch WatchFunc) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), UserID: userID}
	client.Hub.register <- client

	ctx, cancel := context.WithCancel(context.Background())
	go client.writePump()
	go client.readPump(cancel)
	if watch != nil {
		go watch(ctx, func(message []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case hub.deliver <- delivery{client: client, message: message}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
}
