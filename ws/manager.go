package ws

import (
	"log"
	"sync"
)

// Event is the wire envelope for live dashboard pushes.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// WebSocketManager tracks connected dashboard viewers and fans published
// events out to them. It implements channels.Broadcaster.
type WebSocketManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.ID] = client
			manager.mu.Unlock()
			log.Printf("Client registered: %s, total: %d", client.ID, manager.GetClientCount())

		case client := <-manager.unregister:
			manager.mu.Lock()
			if _, ok := manager.clients[client.ID]; ok {
				close(client.Send)
				delete(manager.clients, client.ID)
				log.Printf("Client unregistered: %s, total: %d", client.ID, len(manager.clients))
			}
			manager.mu.Unlock()

		case event := <-manager.broadcast:
			manager.broadcastEvent(event)
		}
	}
}

// Publish queues an event for every connected viewer. Non-blocking: when
// the hub's buffer is full the event is dropped, the persisted record is
// the source of truth.
func (manager *WebSocketManager) Publish(event string, payload any) {
	select {
	case manager.broadcast <- Event{Event: event, Data: payload}:
	default:
		log.Printf("Broadcast buffer full, dropping event %s", event)
	}
}

func (manager *WebSocketManager) broadcastEvent(event Event) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for clientID, client := range manager.clients {
		select {
		case client.Send <- event:
		default:
			// Send channel full, drop the slow client
			go func(c *Client) {
				manager.unregister <- c
			}(client)
			log.Printf("Client %s disconnected due to full send channel", clientID)
		}
	}
}

// GetClientCount returns the number of connected clients.
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// IsClientConnected reports whether a client is connected.
func (manager *WebSocketManager) IsClientConnected(clientID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[clientID]
	return exists
}
