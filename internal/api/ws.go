package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"maitred/internal/auth"
	"maitred/internal/kitchen"
	"maitred/internal/models"
	"maitred/internal/monitoring"
	"maitred/internal/store"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// subscribeMessage is the only message clients send: the set of collections
// they want live snapshots for. Sending a new set replaces the old one.
type subscribeMessage struct {
	Subscribe []string `json:"subscribe"`
}

// errorFrame is pushed when a live query fails; it is distinct from an
// empty snapshot.
type errorFrame struct {
	Error      string `json:"error"`
	Collection string `json:"collection"`
}

// liveClient maintains one websocket connection and its live query
// subscriptions.
type liveClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	role   models.Role

	mu     sync.Mutex
	subs   map[string]*store.Subscription
	closed bool

	detachBus func()
}

// HandleLiveFeed upgrades the connection and starts the pumps. The token
// travels as a query parameter.
func (s *Server) HandleLiveFeed(c *gin.Context) {
	claims, err := s.issuer.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	ok, err := s.sessions.Valid(c.Request.Context(), claims.SessionID)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &liveClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
		role:   models.Role(claims.Role),
		subs:   make(map[string]*store.Subscription),
	}
	client.detachBus = s.store.Bus.Attach(func(pe *store.PermissionError) {
		client.enqueueError(pe)
	})

	monitoring.LiveClients.Inc()
	go client.writePump()
	go client.readPump()
}

// readPump pumps subscription changes from the client until the connection
// drops, then tears everything down.
func (c *liveClient) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg subscribeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}
		c.resubscribe(msg.Subscribe)
	}
}

// writePump pumps outbound frames and keeps the connection alive with
// pings.
func (c *liveClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// resubscribe reconciles the client's subscriptions with the requested set.
// Changing the set replaces old subscriptions, matching how consumers
// re-open a query when its identity changes.
func (c *liveClient) resubscribe(collections []string) {
	requested := make(map[string]bool, len(collections))
	for _, name := range collections {
		requested[name] = true
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	for name, sub := range c.subs {
		if !requested[name] {
			c.server.store.Hub.Unsubscribe(sub)
			delete(c.subs, name)
		}
	}

	missing := make([]string, 0, len(requested))
	for name := range requested {
		if _, ok := c.subs[name]; !ok {
			missing = append(missing, name)
		}
	}
	c.mu.Unlock()

	// subscribing runs the initial fetch, which may publish on the error
	// bus and call back into this client; the lock cannot be held here
	for _, name := range missing {
		fetch, ok := c.server.fetchFor(name, c.role)
		if !ok {
			c.enqueue(mustMarshal(errorFrame{Error: "unknown collection", Collection: name}))
			continue
		}
		sub := c.server.store.Hub.Subscribe(name, fetch)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			c.server.store.Hub.Unsubscribe(sub)
			return
		}
		if _, ok := c.subs[name]; ok {
			c.mu.Unlock()
			c.server.store.Hub.Unsubscribe(sub)
			continue
		}
		c.subs[name] = sub
		c.mu.Unlock()
		go c.forward(sub)
	}
}

// forward copies snapshots from one subscription into the send channel
// until the subscription closes.
func (c *liveClient) forward(sub *store.Subscription) {
	for snap := range sub.C {
		b, err := json.Marshal(snap)
		if err != nil {
			log.Printf("Error marshaling snapshot: %v", err)
			continue
		}
		c.enqueue(b)
	}
}

func (c *liveClient) enqueue(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enqueueLocked(b)
}

func (c *liveClient) enqueueLocked(b []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
		log.Println("WebSocket buffer full, dropping message")
	}
}

func (c *liveClient) enqueueError(pe *store.PermissionError) {
	c.enqueue(mustMarshal(errorFrame{Error: pe.Error(), Collection: pe.Collection}))
}

// teardown releases all subscriptions, detaches from the error bus and
// closes the connection.
func (c *liveClient) teardown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for name, sub := range c.subs {
		c.server.store.Hub.Unsubscribe(sub)
		delete(c.subs, name)
	}
	close(c.send)
	c.mu.Unlock()

	c.detachBus()
	c.conn.Close()
	monitoring.LiveClients.Dec()
}

// fetchFor maps a collection name to its live query. The users collection
// is gated by the staff permission; a subscriber without it gets a
// permission error on the bus, not an empty result.
func (s *Server) fetchFor(collection string, role models.Role) (store.FetchFunc, bool) {
	switch collection {
	case store.Orders:
		return func() (interface{}, error) {
			orders, err := s.orders.List()
			if err != nil {
				return nil, err
			}
			return kitchen.Views(orders, time.Now()), nil
		}, true
	case store.Tables:
		return func() (interface{}, error) { return s.tables.List() }, true
	case store.MenuItems:
		return func() (interface{}, error) { return s.menu.List() }, true
	case store.StockItems:
		return func() (interface{}, error) { return s.stock.List() }, true
	case store.Users:
		return func() (interface{}, error) {
			if !auth.Allowed(role, auth.PermStaff) {
				return nil, fmt.Errorf("role %q may not read users", role)
			}
			return s.staff.List()
		}, true
	default:
		return nil, false
	}
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
