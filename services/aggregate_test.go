package services

import (
	"reflect"
	"testing"

	"github.com/Dosada05/kratos-viewer/models"
)

func ev(mapNumber, round int, eventType string) models.Event {
	return models.Event{MapNumber: mapNumber, RoundNumber: round, EventType: models.ParseEventType(eventType)}
}

func kill(mapNumber, round int, actor, target string, headshot bool) models.Event {
	e := ev(mapNumber, round, "kill")
	e.KillerName = actor
	e.VictimName = target
	e.IsHeadshot = headshot
	return e
}

func scenarioEvents() []models.Event {
	return []models.Event{
		kill(1, 1, "A", "B", true),
		ev(1, 1, "round_end"),
		kill(2, 1, "C", "D", false),
	}
}

func TestAvailableMaps(t *testing.T) {
	events := []models.Event{ev(3, 1, "kill"), ev(1, 1, "kill"), ev(3, 2, "kill"), ev(2, 1, "kill"), ev(1, 4, "kill")}
	got := AvailableMaps(events)
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("not strictly ascending: %v", got)
		}
	}

	if empty := AvailableMaps(nil); len(empty) != 0 {
		t.Errorf("expected no maps, got %v", empty)
	}
}

func TestFilterByMapAndType(t *testing.T) {
	events := scenarioEvents()

	map1 := FilterByMap(events, models.MapNumber(1))
	if len(map1) != 2 {
		t.Fatalf("expected 2 events on map 1, got %d", len(map1))
	}
	if all := FilterByMap(events, models.AllMaps()); len(all) != 3 {
		t.Errorf("expected all 3 events, got %d", len(all))
	}
	if none := FilterByMap(events, models.MapNumber(9)); len(none) != 0 {
		t.Errorf("expected no events on map 9, got %d", len(none))
	}

	kills := FilterByType(map1, "kill")
	if len(kills) != 1 || kills[0].KillerName != "A" {
		t.Errorf("unexpected kills: %+v", kills)
	}
	if same := FilterByType(map1, models.SelectAll); len(same) != 2 {
		t.Errorf("type all must not filter, got %d", len(same))
	}
}

func TestCountTypes(t *testing.T) {
	events := []models.Event{
		ev(1, 1, "round_start"),
		kill(1, 1, "A", "B", false),
		kill(1, 1, "A", "C", false),
		ev(1, 1, "player_connect"),
		ev(1, 1, "round_end"),
	}
	got := CountTypes(events)
	want := []TypeCount{
		{Type: "round_start", Label: "Round Start", Count: 1},
		{Type: "kill", Label: "Kill", Count: 2},
		{Type: "player_connect", Label: "player_connect", Count: 1},
		{Type: "round_end", Label: "Round End", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSummarizeScenario(t *testing.T) {
	stats := Summarize(FilterByMap(scenarioEvents(), models.MapNumber(1)))
	want := SummaryStats{Kills: 1, Headshots: 1, RoundsPlayed: 1, HeadshotRate: 100}
	if stats != want {
		t.Errorf("got %+v, want %+v", stats, want)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		events []models.Event
		want   SummaryStats
	}{
		{
			name:   "no events",
			events: nil,
			want:   SummaryStats{},
		},
		{
			name:   "no kills gives zero rate",
			events: []models.Event{ev(1, 3, "round_end"), ev(1, 0, "round_start")},
			want:   SummaryStats{RoundsPlayed: 3},
		},
		{
			name: "rate is rounded",
			events: []models.Event{
				kill(1, 1, "A", "B", true),
				kill(1, 2, "A", "C", false),
				kill(1, 5, "A", "D", false),
			},
			want: SummaryStats{Kills: 3, Headshots: 1, RoundsPlayed: 5, HeadshotRate: 33},
		},
		{
			name: "rate rounds half up",
			events: []models.Event{
				kill(1, 1, "A", "B", true),
				kill(1, 1, "A", "C", true),
				kill(1, 1, "A", "D", false),
			},
			want: SummaryStats{Kills: 3, Headshots: 2, RoundsPlayed: 1, HeadshotRate: 67},
		},
		{
			name: "headshot flag on non-kill ignored",
			events: []models.Event{
				func() models.Event { e := ev(1, 1, "suicide"); e.IsHeadshot = true; return e }(),
			},
			want: SummaryStats{RoundsPlayed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.events); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildEventView(t *testing.T) {
	events := scenarioEvents()
	view := BuildEventView(events, models.NewViewState(AvailableMaps(events)).WithType("kill"))

	if !reflect.DeepEqual(view.AvailableMaps, []int{1, 2}) {
		t.Errorf("available maps: %v", view.AvailableMaps)
	}
	if view.MapEventCount != 2 || view.EventCount != 1 {
		t.Errorf("counts: map=%d filtered=%d", view.MapEventCount, view.EventCount)
	}
	// счётчики типов считаются до фильтра по типу
	if len(view.TypeCounts) != 2 {
		t.Errorf("expected facets for kill and round_end, got %+v", view.TypeCounts)
	}
	// сводка тоже не зависит от фильтра по типу
	if view.Stats.RoundsPlayed != 1 || view.Stats.Kills != 1 {
		t.Errorf("stats: %+v", view.Stats)
	}
	if len(view.Rows) != 2 || view.Rows[0].Kind != RowRound || view.Rows[1].Event.Actor != "A" {
		t.Errorf("rows: %+v", view.Rows)
	}
}
