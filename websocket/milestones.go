package websocket

import (
	"log"
	"sync"

	"clearday/models"

	"github.com/gorilla/websocket"
)

// MilestoneClient represents a client connected for milestone updates
type MilestoneClient struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex
}

// SafeWriteJSON safely writes JSON data to the client's WebSocket connection
func (mc *MilestoneClient) SafeWriteJSON(v interface{}) error {
	mc.writeMu.Lock()
	defer mc.writeMu.Unlock()
	return mc.Conn.WriteJSON(v)
}

// Global milestone hub for broadcasting unlock events to connected clients
var (
	milestoneClients = make(map[*MilestoneClient]bool)
	milestoneMutex   sync.RWMutex
)

// RegisterMilestoneClient registers a client for milestone updates
func RegisterMilestoneClient(client *MilestoneClient) {
	milestoneMutex.Lock()
	defer milestoneMutex.Unlock()
	milestoneClients[client] = true
	log.Printf("Milestone client registered. Total clients: %d", len(milestoneClients))
}

// UnregisterMilestoneClient removes a client from milestone updates
func UnregisterMilestoneClient(client *MilestoneClient) {
	milestoneMutex.Lock()
	defer milestoneMutex.Unlock()
	delete(milestoneClients, client)
	client.Conn.Close()
	log.Printf("Milestone client unregistered. Total clients: %d", len(milestoneClients))
}

// BroadcastMilestoneEvent sends a milestone event to the clients of the
// user it belongs to.
func BroadcastMilestoneEvent(event models.MilestoneEvent) {
	milestoneMutex.RLock()
	defer milestoneMutex.RUnlock()

	sent := 0
	for client := range milestoneClients {
		if client.UserID != event.UserID {
			continue
		}
		if err := client.SafeWriteJSON(event); err != nil {
			log.Printf("Error broadcasting milestone event to client: %v", err)
			// Remove client if write fails
			go UnregisterMilestoneClient(client)
			continue
		}
		sent++
	}

	log.Printf("Broadcasted milestone event %q to %d clients", event.Type, sent)
}

// GetMilestoneClientsCount returns the number of connected clients
func GetMilestoneClientsCount() int {
	milestoneMutex.RLock()
	defer milestoneMutex.RUnlock()
	return len(milestoneClients)
}
