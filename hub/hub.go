package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

// Event types
const (
	EventTableCreate    = "table_create"
	EventTableUpdate    = "table_update"
	EventTableDelete    = "table_delete"
	EventCustomerCreate = "customer_create"
	EventCustomerUpdate = "customer_update"
	EventCustomerDelete = "customer_delete"
	EventBookingCreate  = "booking_create"
	EventBookingUpdate  = "booking_update"
	EventBookingDelete  = "booking_delete"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Broadcaster publishes change events.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// client is one connection with its own outbound queue.
type client struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

// Hub holds the connected websocket clients.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds a connection to the broadcast set and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	cl := h.add(conn, conn.RemoteAddr().String())
	go h.writePump(cl)
}

func (h *Hub) add(conn *websocket.Conn, addr string) *client {
	cl := &client{conn: conn, addr: addr, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = cl
	utils.InfoLogger.Debugf("websocket client %s connected (%d total)", addr, len(h.clients))
	return cl
}

// Unregister removes a connection; its writer closes the socket.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

// remove expects h.mutex to be held.
func (h *Hub) remove(conn *websocket.Conn) {
	cl, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(cl.send)
}

// writePump is the only goroutine writing to cl.conn.
func (h *Hub) writePump(cl *client) {
	defer cl.conn.Close()
	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.Warnf("dropping websocket client %s: %v", cl.addr, err)
			h.Unregister(cl.conn)
			return
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues the event for every client without blocking. A client
// whose queue is full is dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			utils.InfoLogger.Warnf("dropping slow websocket client %s", cl.addr)
			h.remove(conn)
		}
	}
}

// Discard is a Broadcaster that drops every event.
type Discard struct{}

func (Discard) Broadcast(string, interface{}) {}
