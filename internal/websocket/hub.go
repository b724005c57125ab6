package chatws

import (
	"context"
	"log"
	"sync"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/ChatAppBack/internal/metrics"
)

// Hub tracks live container sessions per user so logout can end them.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	disconnect chan string
	count      chan countRequest
	done       chan struct{}
}

type countRequest struct {
	userID string
	reply  chan int
}

// Client is one WebSocket connection and its outbound queue.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		disconnect: make(chan string),
		count:      make(chan countRequest),
		done:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

// Run serves hub requests until ctx is done. After it returns every hub
// method is a no-op, and Register closes the client it is given.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for userID := range h.clients {
				h.drop(userID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			metrics.LiveSessions.Inc()
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				client.close()
				metrics.LiveSessions.Dec()
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case userID := <-h.disconnect:
			if n := h.drop(userID); n > 0 {
				log.Printf("chat hub closed %d session(s) for %s", n, userID)
			}
		case req := <-h.count:
			req.reply <- len(h.clients[req.userID])
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// Disconnect ends every live session of userID. Their write pumps close the
// connections, which in turn stops the read pumps.
func (h *Hub) Disconnect(userID string) {
	select {
	case h.disconnect <- userID:
	case <-h.done:
	}
}

// Sessions reports how many live sessions userID has.
func (h *Hub) Sessions(userID string) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{userID: userID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) drop(userID string) int {
	set := h.clients[userID]
	for client := range set {
		client.close()
		metrics.LiveSessions.Dec()
	}
	delete(h.clients, userID)
	return len(set)
}

// Enqueue queues payload for the client. A full queue closes the client;
// the read pump then unregisters it.
func (c *Client) Enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		log.Printf("chat hub dropping slow client %s", c.userID)
		c.closed = true
		close(c.send)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
