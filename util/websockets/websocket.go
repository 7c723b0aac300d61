package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Run starts the WebSocket manager
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("Client %s disconnected", client.UserID)
			}
			manager.mu.Unlock()

		case message := <-manager.broadcast:
			manager.mu.Lock()
			for _, client := range manager.clients {
				if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Conn.Close()
					delete(manager.clients, client.Conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{Conn: conn}
	manager.register <- client

	defer func() {
		manager.unregister <- conn
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			manager.unregister <- conn
			break
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		if message.Type == MsgTypeSubscribe {
			manager.mu.Lock()
			client.UserID = message.UserID
			client.Latitude = message.Latitude
			client.Longitude = message.Longitude
			client.Subscribed = true
			manager.mu.Unlock()
		}
	}
}

// BroadcastEvent pushes a hazard event to every connected dashboard client.
func (manager *WebSocketManager) BroadcastEvent(eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Println("failed to marshal websocket event:", err)
		return
	}
	manager.broadcast <- msg
}

// BroadcastNearby sends a hazard event only to clients subscribed near the
// hazard's location.
func (manager *WebSocketManager) BroadcastNearby(eventType string, payload interface{}, lat, lon, radiusDeg float64) {
	event := Event{Type: eventType, Payload: payload}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Println("failed to marshal websocket event:", err)
		return
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()

	for _, client := range manager.clients {
		if client.Subscribed && isNearby(client.Latitude, client.Longitude, lat, lon, radiusDeg) {
			client.Conn.WriteMessage(websocket.TextMessage, msg)
		}
	}
}

// isNearby checks if a subscriber is within a given radius (degrees)
func isNearby(userLat, userLon, hazardLat, hazardLon, radius float64) bool {
	return (userLat-hazardLat)*(userLat-hazardLat)+(userLon-hazardLon)*(userLon-hazardLon) <= (radius * radius)
}
