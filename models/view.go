package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectAll - значение параметров map/type, означающее "без фильтра".
const SelectAll = "all"

// MapSelection - выбранная карта либо "все карты".
type MapSelection struct {
	all    bool
	number int
}

func AllMaps() MapSelection {
	return MapSelection{all: true}
}

func MapNumber(n int) MapSelection {
	return MapSelection{number: n}
}

// ParseMapSelection разбирает query-параметр map: число или "all".
func ParseMapSelection(s string) (MapSelection, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, SelectAll) {
		return AllMaps(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return MapSelection{}, fmt.Errorf("map must be an integer or %q, got %q", SelectAll, s)
	}
	return MapNumber(n), nil
}

func (m MapSelection) IsAll() bool {
	return m.all
}

// Number возвращает номер карты; ok=false для "все карты".
func (m MapSelection) Number() (int, bool) {
	return m.number, !m.all
}

func (m MapSelection) Matches(e Event) bool {
	return m.all || e.MapNumber == m.number
}

func (m MapSelection) String() string {
	if m.all {
		return SelectAll
	}
	return strconv.Itoa(m.number)
}

func (m MapSelection) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ViewState - неизменяемое состояние просмотра матча. Каждое действие
// пользователя возвращает новое значение вместо мутации общего состояния.
type ViewState struct {
	Map  MapSelection `json:"map"`
	Type string       `json:"type"`
}

// NewViewState строит начальное состояние: первая карта по возрастанию
// (или все карты, если событий нет) и фильтр "all".
func NewViewState(availableMaps []int) ViewState {
	if len(availableMaps) == 0 {
		return ViewState{Map: AllMaps(), Type: SelectAll}
	}
	return ViewState{Map: MapNumber(availableMaps[0]), Type: SelectAll}
}

// WithMap переключает карту и сбрасывает фильтр по типу.
func (v ViewState) WithMap(sel MapSelection) ViewState {
	return ViewState{Map: sel, Type: SelectAll}
}

func (v ViewState) WithType(eventType string) ViewState {
	if eventType == "" {
		eventType = SelectAll
	}
	return ViewState{Map: v.Map, Type: eventType}
}

func (v ViewState) AllTypes() bool {
	return v.Type == "" || v.Type == SelectAll
}
