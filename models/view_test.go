package models

import "testing"

func TestParseMapSelection(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		all     bool
		wantErr bool
	}{
		{input: "all", want: "all", all: true},
		{input: " ALL ", want: "all", all: true},
		{input: "2", want: "2"},
		{input: "0", want: "0"},
		{input: "two", wantErr: true},
		{input: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseMapSelection(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sel.IsAll() != tt.all || sel.String() != tt.want {
				t.Errorf("got %s (all=%v), want %s (all=%v)", sel, sel.IsAll(), tt.want, tt.all)
			}
		})
	}
}

func TestMapSelectionMatches(t *testing.T) {
	e := Event{MapNumber: 2}
	if !AllMaps().Matches(e) {
		t.Error("all maps must match any event")
	}
	if !MapNumber(2).Matches(e) || MapNumber(1).Matches(e) {
		t.Error("map number selection must match by equality")
	}
	if n, ok := MapNumber(3).Number(); !ok || n != 3 {
		t.Errorf("Number() = %d, %v", n, ok)
	}
	if _, ok := AllMaps().Number(); ok {
		t.Error("all maps must not report a number")
	}
}

func TestNewViewState(t *testing.T) {
	state := NewViewState([]int{2, 3})
	if n, ok := state.Map.Number(); !ok || n != 2 {
		t.Errorf("expected first map 2, got %s", state.Map)
	}
	if !state.AllTypes() {
		t.Errorf("expected type filter all, got %q", state.Type)
	}

	empty := NewViewState(nil)
	if !empty.Map.IsAll() {
		t.Errorf("expected all maps without events, got %s", empty.Map)
	}
}

func TestViewStateTransitions(t *testing.T) {
	initial := NewViewState([]int{1, 2})
	filtered := initial.WithType("kill")
	if filtered.Type != "kill" || initial.Type != SelectAll {
		t.Fatalf("WithType must return a new state: initial=%q filtered=%q", initial.Type, filtered.Type)
	}

	switched := filtered.WithMap(MapNumber(2))
	if switched.Type != SelectAll {
		t.Errorf("switching map must reset type filter, got %q", switched.Type)
	}
	if n, _ := switched.Map.Number(); n != 2 {
		t.Errorf("expected map 2, got %s", switched.Map)
	}

	if filtered.WithType("").Type != SelectAll {
		t.Error("empty type must mean all")
	}
}
