package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Dosada05/kratos-viewer/feed"
	"github.com/Dosada05/kratos-viewer/models"
)

// Broadcaster - то, что нужно рефрешеру от хаба подписок.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
	HasSubscribers(roomID string) bool
}

// MatchUpdate - полезная нагрузка MATCH_UPDATED.
type MatchUpdate struct {
	Match  models.MatchCard `json:"match"`
	Events []models.Event   `json:"events"`
}

// Refresher периодически пересобирает список матчей и рассылает изменения
// подписчикам. Состояние (последние отправленные снимки) принадлежит только
// горутине Run, поэтому блокировок нет.
type Refresher struct {
	matches   MatchService
	feed      Broadcaster
	interval  time.Duration
	logger    *slog.Logger
	lastList  string
	lastMatch map[string]string
}

func NewRefresher(matches MatchService, broadcaster Broadcaster, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		matches:   matches,
		feed:      broadcaster,
		interval:  interval,
		logger:    logger,
		lastMatch: make(map[string]string),
	}
}

// Run выполняет обновление сразу и затем по тикеру, пока не отменён контекст.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("live feed refresher disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.logger.Info("live feed refresher started", slog.Duration("interval", r.interval))

	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("refresher: initial run failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("live feed refresher stopped")
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Error("refresher: periodic run failed", slog.Any("error", err))
			}
		}
	}
}

// Refresh делает один проход: список матчей в комнату matches и события
// live-матчей в их комнаты, если что-то изменилось и есть подписчики.
func (r *Refresher) Refresh(ctx context.Context) error {
	list, err := r.matches.ListMatches(ctx)
	if err != nil {
		return err
	}

	cards := make([]models.MatchCard, len(list.Matches))
	for i, m := range list.Matches {
		cards[i] = m.Card()
	}
	if r.changed(&r.lastList, cards) && r.feed.HasSubscribers(feed.RoomMatches) {
		r.feed.BroadcastToRoom(feed.RoomMatches, feed.Message{
			Type:    feed.MessageMatchesUpdated,
			Payload: cards,
			RoomID:  feed.RoomMatches,
		})
	}

	active := make(map[string]bool)
	for _, m := range list.Matches {
		room := feed.MatchRoom(m.ID.String())
		if !m.IsLive() || !r.feed.HasSubscribers(room) {
			continue
		}
		active[room] = true
		detail, err := r.matches.GetMatchDetail(ctx, m.ID)
		if err != nil {
			r.logger.Warn("refresher: failed to load live match", slog.String("match_id", m.ID.String()), slog.Any("error", err))
			continue
		}
		update := MatchUpdate{Match: detail.Match.Card(), Events: detail.Events}
		last := r.lastMatch[room]
		if !r.changed(&last, update) {
			continue
		}
		r.lastMatch[room] = last
		r.feed.BroadcastToRoom(room, feed.Message{Type: feed.MessageMatchUpdated, Payload: update, RoomID: room})
	}

	// снимки комнат без подписчиков и завершённых матчей больше не нужны
	for room := range r.lastMatch {
		if !active[room] {
			delete(r.lastMatch, room)
		}
	}
	return nil
}

// changed сравнивает JSON-снимок с предыдущим и запоминает новый.
func (r *Refresher) changed(last *string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("refresher: failed to marshal snapshot", slog.Any("error", err))
		return false
	}
	if string(data) == *last {
		return false
	}
	*last = string(data)
	return true
}
