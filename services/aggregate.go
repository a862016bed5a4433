package services

import (
	"math"
	"sort"

	"github.com/Dosada05/kratos-viewer/models"
)

// TypeCount - количество событий одного типа в отфильтрованном по карте наборе.
type TypeCount struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SummaryStats - сводка по выбранной карте (или по всем картам).
type SummaryStats struct {
	Kills        int `json:"kills"`
	Headshots    int `json:"headshots"`
	RoundsPlayed int `json:"rounds_played"`
	HeadshotRate int `json:"headshot_rate"`
}

// EventView - всё, что нужно слою представления для детальной страницы матча.
type EventView struct {
	State         models.ViewState `json:"state"`
	AvailableMaps []int            `json:"available_maps"`
	MapEventCount int              `json:"map_event_count"`
	EventCount    int              `json:"event_count"`
	TypeCounts    []TypeCount      `json:"type_counts"`
	Stats         SummaryStats     `json:"stats"`
	Rows          []DisplayRow     `json:"rows"`
}

// AvailableMaps возвращает отсортированные по возрастанию уникальные номера карт.
func AvailableMaps(events []models.Event) []int {
	seen := make(map[int]struct{})
	maps := make([]int, 0)
	for _, e := range events {
		if _, ok := seen[e.MapNumber]; ok {
			continue
		}
		seen[e.MapNumber] = struct{}{}
		maps = append(maps, e.MapNumber)
	}
	sort.Ints(maps)
	return maps
}

func FilterByMap(events []models.Event, sel models.MapSelection) []models.Event {
	if sel.IsAll() {
		return events
	}
	filtered := make([]models.Event, 0, len(events))
	for _, e := range events {
		if sel.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterByType оставляет события с совпадающей строкой типа; "all" или "" - без фильтра.
func FilterByType(events []models.Event, eventType string) []models.Event {
	if eventType == "" || eventType == models.SelectAll {
		return events
	}
	filtered := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.EventType.Raw == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// CountTypes считает события по типам в порядке первого появления типа.
func CountTypes(events []models.Event) []TypeCount {
	index := make(map[string]int)
	counts := make([]TypeCount, 0)
	for _, e := range events {
		raw := e.EventType.Raw
		i, ok := index[raw]
		if !ok {
			i = len(counts)
			index[raw] = i
			counts = append(counts, TypeCount{Type: raw, Label: e.EventType.Label()})
		}
		counts[i].Count++
	}
	return counts
}

func Summarize(events []models.Event) SummaryStats {
	var stats SummaryStats
	for _, e := range events {
		if r := e.Round(); r > stats.RoundsPlayed {
			stats.RoundsPlayed = r
		}
		if !e.EventType.Is(models.EventKill) {
			continue
		}
		stats.Kills++
		if e.IsHeadshot {
			stats.Headshots++
		}
	}
	stats.HeadshotRate = headshotRate(stats.Headshots, stats.Kills)
	return stats
}

func headshotRate(headshots, kills int) int {
	if kills == 0 {
		return 0
	}
	return int(math.Round(float64(headshots) / float64(kills) * 100))
}

// BuildEventView выводит полное представление из событий и состояния просмотра.
func BuildEventView(events []models.Event, state models.ViewState) EventView {
	mapEvents := FilterByMap(events, state.Map)
	typeEvents := FilterByType(mapEvents, state.Type)

	return EventView{
		State:         state,
		AvailableMaps: AvailableMaps(events),
		MapEventCount: len(mapEvents),
		EventCount:    len(typeEvents),
		TypeCounts:    CountTypes(mapEvents),
		Stats:         Summarize(mapEvents),
		Rows:          OrderForDisplay(typeEvents),
	}
}
