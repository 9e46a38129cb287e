package ws

import (
	"encoding/json"
	"sync"

	"go-bookkeeping/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans stock-update events out to connected dashboard clients.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

// Publish marshals the payload and queues it for broadcast. Nil-safe and
// non-blocking: a full queue drops the event rather than stalling a write
// path, and services can run without a hub in tests.
func (h *Hub) Publish(payload interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.L().Warn("ws: failed to marshal payload", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.L().Warn("ws: broadcast queue full, dropping event")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.L().Debug("ws: client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
