package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// RoomMatches - комната со списком матчей.
	RoomMatches = "matches"

	MessageMatchesUpdated = "MATCHES_UPDATED"
	MessageMatchUpdated   = "MATCH_UPDATED"
)

// MatchRoom - комната конкретного матча.
func MatchRoom(matchID string) string {
	return "match_" + matchID
}

type Message struct {
	Type    string      `json:"type"`              // MATCHES_UPDATED, MATCH_UPDATED
	Payload interface{} `json:"payload"`           // Полезная нагрузка
	RoomID  string      `json:"room_id,omitempty"` // Комната, к которой относится сообщение
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	Room string

	registered chan struct{}
	mu         sync.Mutex
	closed     bool
}

// NewClient создаёт клиента комнаты. Conn можно присвоить позже, до запуска помп:
// так клиент успевает подписаться раньше, чем соединение будет апгрейднуто.
func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{
		ID:         uuid.NewString(),
		Hub:        hub,
		Conn:       conn,
		Send:       make(chan []byte, sendBufferSize),
		Room:       room,
		registered: make(chan struct{}),
	}
}

// close закрывает канал отправки ровно один раз.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// trySend не блокируется: переполненный клиент просто пропускает сообщение.
func (c *Client) trySend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// Hub раздаёт обновления подписчикам по комнатам.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Subscribe регистрирует клиента и ждёт, пока он появится в комнате;
// false, если хаб уже остановлен.
func (h *Hub) Subscribe(c *Client) bool {
	select {
	case h.Register <- c:
	case <-h.done:
		return false
	}
	select {
	case <-c.registered:
		return true
	case <-h.done:
		return false
	}
}

// Leave снимает клиента с регистрации. После остановки хаба ничего не делает.
func (h *Hub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Run обрабатывает регистрацию клиентов до отмены контекста, после чего закрывает всех.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			size := len(h.rooms[client.Room])
			h.mu.Unlock()
			close(client.registered)
			h.logger.Debug("client registered", slog.String("room", client.Room),
				slog.String("client_id", client.ID), slog.Int("clients", size))

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.close()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", slog.String("room", client.Room), slog.String("client_id", client.ID))

		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					client.close()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			h.logger.Info("feed hub stopped")
			return
		}
	}
}

// HasSubscribers сообщает, есть ли в комнате хотя бы один клиент.
func (h *Hub) HasSubscribers(roomID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID]) > 0
}

// BroadcastToRoom отправляет сообщение всем клиентам в указанной комнате.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal feed message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		if !client.trySend(messageBytes) {
			h.logger.Warn("client send buffer full or closed, skipping", slog.String("room", roomID), slog.String("client_id", client.ID))
		}
	}
}

// ReadPump нужен только для pong и обнаружения разрыва: входящие сообщения игнорируются.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("unexpected websocket close", slog.String("client_id", c.ID), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Каждое сообщение - отдельный фрейм, чтобы клиент мог разбирать JSON по одному.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug("failed to write to client", slog.String("client_id", c.ID), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
