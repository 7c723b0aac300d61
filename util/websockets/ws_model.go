package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe     = "subscribe"
	MsgTypeHazardCreated = "hazard_created"
	MsgTypeHazardStatus  = "hazard_status"
)

// Client represents a connected dashboard user. Position fields are guarded
// by the manager's mutex once the client has sent a subscribe message.
type Client struct {
	Conn       *websocket.Conn
	UserID     string
	Latitude   float64
	Longitude  float64
	Subscribed bool
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type      string  `json:"type"`
	UserID    string  `json:"user_id"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Event is the outbound envelope for hazard notifications.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
