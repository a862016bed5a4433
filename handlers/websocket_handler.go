package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/kratos-viewer/feed"
	"github.com/Dosada05/kratos-viewer/models"
	"github.com/Dosada05/kratos-viewer/services"
)

const snapshotWriteWait = 10 * time.Second

const hubStoppedMessage = "live feed is shutting down"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Фид только читает публичные данные; Origin ограничивается CORS_ALLOWED_ORIGINS на уровне роутера
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub          *feed.Hub
	matchService services.MatchService
	logger       *slog.Logger
}

func NewWebSocketHandler(hub *feed.Hub, ms services.MatchService, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:          hub,
		matchService: ms,
		logger:       logger,
	}
}

// ServeMatchesWs подписывает клиента на обновления списка матчей.
// Клиент должен подключаться к /ws/matches
func (h *WebSocketHandler) ServeMatchesWs(w http.ResponseWriter, r *http.Request) {
	client := feed.NewClient(h.hub, nil, feed.RoomMatches)
	if !h.hub.Subscribe(client) {
		serviceUnavailableResponse(w, r, hubStoppedMessage)
		return
	}

	var snapshot interface{}
	if list, err := h.matchService.ListMatches(r.Context()); err == nil {
		cards := make([]models.MatchCard, len(list.Matches))
		for i, m := range list.Matches {
			cards[i] = m.Card()
		}
		snapshot = feed.Message{Type: feed.MessageMatchesUpdated, Payload: cards, RoomID: feed.RoomMatches}
	} else {
		h.logger.Warn("failed to build initial matches snapshot", slog.Any("error", err))
	}
	h.serve(w, r, client, snapshot)
}

// ServeMatchWs подписывает клиента на события одного матча.
// Клиент должен подключаться к /ws/matches/{matchID}
func (h *WebSocketHandler) ServeMatchWs(w http.ResponseWriter, r *http.Request) {
	id, err := getMatchIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	room := feed.MatchRoom(id.String())
	// Подписка раньше снимка: изменение, замеченное рефрешером после этого
	// момента, дойдёт до клиента рассылкой.
	client := feed.NewClient(h.hub, nil, room)
	if !h.hub.Subscribe(client) {
		serviceUnavailableResponse(w, r, hubStoppedMessage)
		return
	}

	detail, err := h.matchService.GetMatchDetail(r.Context(), id)
	if err != nil {
		h.hub.Leave(client)
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	snapshot := feed.Message{
		Type:    feed.MessageMatchUpdated,
		Payload: services.MatchUpdate{Match: detail.Match.Card(), Events: detail.Events},
		RoomID:  room,
	}
	h.serve(w, r, client, snapshot)
}

// serve апгрейдит соединение уже подписанного клиента, отправляет снимок
// и запускает помпы. Рассылки, пришедшие до этого, ждут в буфере клиента.
func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, client *feed.Client, snapshot interface{}) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		h.logger.Warn("failed to upgrade websocket connection", slog.String("room", client.Room), slog.Any("error", err))
		h.hub.Leave(client)
		return
	}
	client.Conn = conn

	if snapshot != nil {
		conn.SetWriteDeadline(time.Now().Add(snapshotWriteWait))
		if err := conn.WriteJSON(snapshot); err != nil {
			h.logger.Warn("failed to send initial snapshot", slog.String("room", client.Room), slog.Any("error", err))
			h.hub.Leave(client)
			conn.Close()
			return
		}
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("websocket client subscribed", slog.String("room", client.Room), slog.String("client_id", client.ID))
}
