package feed

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub, _ := newTestHub(t)

	inRoom := NewClient(hub, nil, MatchRoom("7"))
	other := NewClient(hub, nil, RoomMatches)
	if !hub.Subscribe(inRoom) || !hub.Subscribe(other) {
		t.Fatal("subscribe failed on running hub")
	}
	waitFor(t, func() bool { return hub.HasSubscribers(MatchRoom("7")) && hub.HasSubscribers(RoomMatches) })

	hub.BroadcastToRoom(MatchRoom("7"), Message{Type: MessageMatchUpdated, Payload: map[string]int{"round": 3}, RoomID: MatchRoom("7")})

	select {
	case raw := <-inRoom.Send:
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
			RoomID  string         `json:"room_id"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("invalid message: %v", err)
		}
		if msg.Type != MessageMatchUpdated || msg.Payload["round"] != 3 || msg.RoomID != "match_7" {
			t.Errorf("unexpected message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("client in room did not receive message")
	}

	select {
	case raw := <-other.Send:
		t.Errorf("client in other room received %s", raw)
	default:
	}
}

func TestHubLeaveClosesClient(t *testing.T) {
	hub, _ := newTestHub(t)

	c := NewClient(hub, nil, RoomMatches)
	hub.Subscribe(c)
	waitFor(t, func() bool { return hub.HasSubscribers(RoomMatches) })

	hub.Leave(c)
	waitFor(t, func() bool { return !hub.HasSubscribers(RoomMatches) })

	if _, ok := <-c.Send; ok {
		t.Error("send channel should be closed after leave")
	}
	// повторная рассылка в пустую комнату не паникует
	hub.BroadcastToRoom(RoomMatches, Message{Type: MessageMatchesUpdated})
}

func TestHubStopClosesClients(t *testing.T) {
	hub, cancel := newTestHub(t)

	c := NewClient(hub, nil, RoomMatches)
	hub.Subscribe(c)
	waitFor(t, func() bool { return hub.HasSubscribers(RoomMatches) })

	cancel()
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("client not closed on hub stop")
	}

	// после остановки подписка и выход не блокируются
	if hub.Subscribe(NewClient(hub, nil, RoomMatches)) {
		t.Error("subscribe must fail on stopped hub")
	}
	hub.Leave(c)
}

func TestHubSubscribeRegistersBeforeReturn(t *testing.T) {
	hub, _ := newTestHub(t)

	for i := 0; i < 20; i++ {
		room := MatchRoom(string(rune('a' + i)))
		if !hub.Subscribe(NewClient(hub, nil, room)) {
			t.Fatal("subscribe failed on running hub")
		}
		if !hub.HasSubscribers(room) {
			t.Fatalf("room %s has no subscribers right after Subscribe", room)
		}
	}
}

func TestClientTrySendFullBuffer(t *testing.T) {
	c := NewClient(nil, nil, RoomMatches)
	for i := 0; i < sendBufferSize; i++ {
		if !c.trySend([]byte("x")) {
			t.Fatalf("send %d failed before buffer full", i)
		}
	}
	if c.trySend([]byte("overflow")) {
		t.Error("expected send to fail on full buffer")
	}
	c.close()
	c.close()
	if c.trySend([]byte("x")) {
		t.Error("expected send to fail on closed client")
	}
}
