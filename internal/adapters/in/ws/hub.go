// Package ws pushes mission updates to connected driver devices over
// WebSocket. Each driver has a room; every device the driver connects joins
// that room and receives the same events.
package ws

import (
	"encoding/json"
	"sync"

	"driverapp/internal/core/domain/model/kernel"
)

// Event represents a WebSocket message to be broadcast.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// driverEvent routes an event to one driver's room.
type driverEvent struct {
	DriverID kernel.UUID
	Event    Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients by driver ID.
	rooms map[kernel.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast    chan *driverEvent
	broadcastAll chan Event

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		rooms:        make(map[kernel.UUID]map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan *driverEvent, 256),
		broadcastAll: make(chan Event, 16),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.driverID] == nil {
				h.rooms[client.driverID] = make(map[*Client]bool)
			}
			h.rooms[client.driverID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.driverID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.driverID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.DriverID]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister.
					close(client.send)
					delete(h.rooms[event.DriverID], client)
					if len(h.rooms[event.DriverID]) == 0 {
						delete(h.rooms, event.DriverID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcastAll:
			h.mu.Lock()
			message, err := json.Marshal(event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for driverID, clients := range h.rooms {
				for client := range clients {
					select {
					case client.send <- message:
					default:
						close(client.send)
						delete(clients, client)
						if len(clients) == 0 {
							delete(h.rooms, driverID)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToDriver sends an event to every device the driver has connected.
func (h *Hub) BroadcastToDriver(driverID kernel.UUID, event Event) {
	h.broadcast <- &driverEvent{
		DriverID: driverID,
		Event:    event,
	}
}

// BroadcastAll sends an event to every connected device regardless of room.
func (h *Hub) BroadcastAll(event Event) {
	h.broadcastAll <- event
}
