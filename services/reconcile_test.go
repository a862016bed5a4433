package services

import (
	"reflect"
	"testing"

	"github.com/Dosada05/kratos-viewer/models"
)

func ids(matches []models.Match) []models.MatchID {
	out := make([]models.MatchID, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name   string
		live   []models.Match
		static []models.Match
		want   []models.MatchID
	}{
		{
			name:   "live unavailable falls back to static",
			live:   nil,
			static: []models.Match{{ID: "7", Team1: "A", Team2: "B"}},
			want:   []models.MatchID{"7"},
		},
		{
			name:   "live wins on shared id",
			live:   []models.Match{{ID: "7", Status: "live"}},
			static: []models.Match{{ID: "7", Status: "finished"}, {ID: "9"}},
			want:   []models.MatchID{"7", "9"},
		},
		{
			name:   "empty static keeps live order",
			live:   []models.Match{{ID: "3"}, {ID: "1"}, {ID: "2"}},
			static: []models.Match{},
			want:   []models.MatchID{"3", "1", "2"},
		},
		{
			name:   "empty live is available",
			live:   []models.Match{},
			static: []models.Match{{ID: "1"}, {ID: "2"}},
			want:   []models.MatchID{"1", "2"},
		},
		{
			name:   "static order preserved after live",
			live:   []models.Match{{ID: "5"}},
			static: []models.Match{{ID: "4"}, {ID: "5"}, {ID: "2"}},
			want:   []models.MatchID{"5", "4", "2"},
		},
		{
			name:   "both empty",
			live:   nil,
			static: nil,
			want:   []models.MatchID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Reconcile(tt.live, tt.static))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcileKeepsLiveCopy(t *testing.T) {
	live := []models.Match{{ID: "7", Team1: "NAVI", Status: "live"}}
	static := []models.Match{{ID: "7", Team1: "old", Status: "finished"}, {ID: "9", Team1: "C"}}

	got := Reconcile(live, static)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], live[0]) {
		t.Errorf("expected live#7, got %+v", got[0])
	}
	if !reflect.DeepEqual(got[1], static[1]) {
		t.Errorf("expected static#9, got %+v", got[1])
	}
}

func TestReconcileStaticFallbackUnaltered(t *testing.T) {
	static := []models.Match{{ID: "7", Team1: "A", Team2: "B"}}
	got := Reconcile(nil, static)
	if !reflect.DeepEqual(got, static) {
		t.Fatalf("got %+v, want %+v", got, static)
	}

	// результат - копия, а не тот же срез
	got[0].Team1 = "changed"
	if static[0].Team1 != "A" {
		t.Error("Reconcile must not alias its input")
	}
}

func TestReconcileLiveIDsAppearOnce(t *testing.T) {
	live := []models.Match{{ID: "1"}, {ID: "2"}}
	static := []models.Match{{ID: "2"}, {ID: "1"}, {ID: "3"}, {ID: "2"}}

	seen := make(map[models.MatchID]int)
	for _, m := range Reconcile(live, static) {
		seen[m.ID]++
	}
	for _, m := range live {
		if seen[m.ID] != 1 {
			t.Errorf("live id %s appears %d times", m.ID, seen[m.ID])
		}
	}
}
