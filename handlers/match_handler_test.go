package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/kratos-viewer/models"
	"github.com/Dosada05/kratos-viewer/services"
)

type stubMatchService struct {
	list    *services.MatchList
	details map[models.MatchID]*services.MatchDetail
	err     error
}

func (s *stubMatchService) ListMatches(ctx context.Context) (*services.MatchList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubMatchService) GetMatchDetail(ctx context.Context, id models.MatchID) (*services.MatchDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.details[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrMatchNotFound, id)
	}
	return d, nil
}

func (s *stubMatchService) LiveEnabled() bool   { return true }
func (s *stubMatchService) StaticEnabled() bool { return true }

func scenarioService() *stubMatchService {
	events := []models.Event{
		{MapNumber: 1, RoundNumber: 1, EventType: models.ParseEventType("kill"), KillerName: "A", VictimName: "B", IsHeadshot: true},
		{MapNumber: 1, RoundNumber: 1, EventType: models.ParseEventType("round_end")},
		{MapNumber: 2, RoundNumber: 1, EventType: models.ParseEventType("kill"), KillerName: "C", VictimName: "D"},
	}
	return &stubMatchService{
		list: &services.MatchList{
			Matches: []models.Match{{ID: "7", Team1: "A", Status: "live"}, {ID: "9"}},
			Live:    services.SourceOK,
			Static:  services.SourceOK,
		},
		details: map[models.MatchID]*services.MatchDetail{
			"7": {Match: models.Match{ID: "7", Team1: "A", Team2: "B", Status: "live"}, Events: events, Source: "live"},
		},
	}
}

func newMatchRouter(ms services.MatchService) http.Handler {
	h := NewMatchHandler(ms)
	r := chi.NewRouter()
	r.Get("/matches", h.ListMatches)
	r.Get("/matches/{matchID}", h.GetMatch)
	r.Get("/matches/{matchID}/events", h.ListMatchEvents)
	return r
}

func doGet(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListMatchesHandler(t *testing.T) {
	rec := doGet(t, newMatchRouter(scenarioService()), "/matches")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Matches []models.MatchCard `json:"matches"`
		Count   int                `json:"count"`
		Sources map[string]string  `json:"sources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Count != 2 || len(body.Matches) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Matches[1].Team1 != models.DefaultTeam1Name || body.Matches[1].Status != "finished" {
		t.Errorf("static card: %+v", body.Matches[1])
	}
	if body.Sources["live"] != "ok" {
		t.Errorf("sources: %+v", body.Sources)
	}
}

func TestGetMatchHandler(t *testing.T) {
	rec := doGet(t, newMatchRouter(scenarioService()), "/matches/7?map=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Source string `json:"source"`
		View   struct {
			State struct {
				Map  string `json:"map"`
				Type string `json:"type"`
			} `json:"state"`
			AvailableMaps []int                 `json:"available_maps"`
			Stats         services.SummaryStats `json:"stats"`
			Rows          []services.DisplayRow `json:"rows"`
		} `json:"view"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Source != "live" || body.View.State.Map != "1" || body.View.State.Type != "all" {
		t.Errorf("unexpected state: %+v", body)
	}
	want := services.SummaryStats{Kills: 1, Headshots: 1, RoundsPlayed: 1, HeadshotRate: 100}
	if body.View.Stats != want {
		t.Errorf("stats: got %+v, want %+v", body.View.Stats, want)
	}
	if len(body.View.Rows) != 3 || body.View.Rows[1].Event.Type != "round_end" {
		t.Errorf("rows: %+v", body.View.Rows)
	}
}

func TestListMatchEventsHandler(t *testing.T) {
	rec := doGet(t, newMatchRouter(scenarioService()), "/matches/7/events?map=all&type=kill")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Events []models.Event `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.Events) != 2 || body.Events[0].KillerName != "A" || body.Events[1].KillerName != "C" {
		t.Errorf("events must keep source order: %+v", body.Events)
	}
}

func TestMatchHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		ms     services.MatchService
		target string
		status int
	}{
		{name: "unknown match", ms: scenarioService(), target: "/matches/404", status: http.StatusNotFound},
		{name: "bad map", ms: scenarioService(), target: "/matches/7?map=first", status: http.StatusBadRequest},
		{name: "bad map on events", ms: scenarioService(), target: "/matches/7/events?map=x", status: http.StatusBadRequest},
		{name: "no source", ms: &stubMatchService{err: services.ErrNoSourceConfigured}, target: "/matches", status: http.StatusServiceUnavailable},
		{name: "unexpected error", ms: &stubMatchService{err: fmt.Errorf("boom")}, target: "/matches", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, newMatchRouter(tt.ms), tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, tt.status, rec.Body)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Errorf("expected error field, got %v", body)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(scenarioService(), "r2", "https://cdn.example.com/matches.json")
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["status"] != "ok" || body["live"] != true || body["static"] != "r2" {
		t.Errorf("unexpected body: %v", body)
	}
	if body["static_location"] != "https://cdn.example.com/matches.json" {
		t.Errorf("static_location: %v", body["static_location"])
	}
}
