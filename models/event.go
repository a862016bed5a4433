package models

import (
	"encoding/json"
)

// EventKind - закрытый набор известных типов событий плюс EventUnknown.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventKill
	EventSuicide
	EventBombPlant
	EventBombDefuse
	EventRoundStart
	EventRoundEnd
)

var eventKindByRaw = map[string]EventKind{
	"kill":        EventKill,
	"suicide":     EventSuicide,
	"bomb_plant":  EventBombPlant,
	"bomb_defuse": EventBombDefuse,
	"round_start": EventRoundStart,
	"round_end":   EventRoundEnd,
}

var eventKindLabels = map[EventKind]string{
	EventKill:       "Kill",
	EventSuicide:    "Suicide",
	EventBombPlant:  "Plant",
	EventBombDefuse: "Defuse",
	EventRoundStart: "Round Start",
	EventRoundEnd:   "Round End",
}

// EventType хранит и разобранный вид, и исходную строку: неизвестные типы
// проходят насквозь без потерь.
type EventType struct {
	Kind EventKind
	Raw  string
}

func ParseEventType(raw string) EventType {
	return EventType{Kind: eventKindByRaw[raw], Raw: raw}
}

func (t EventType) String() string {
	return t.Raw
}

// Label - подпись для фильтров и таблицы. Для неизвестного типа это сама строка.
func (t EventType) Label() string {
	if label, ok := eventKindLabels[t.Kind]; ok {
		return label
	}
	return t.Raw
}

func (t EventType) Is(kind EventKind) bool {
	return t.Kind == kind && kind != EventUnknown
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw)
}

// UnmarshalJSON не возвращает ошибок: число становится своим текстом,
// остальные нестроковые значения - пустым типом.
func (t *EventType) UnmarshalJSON(data []byte) error {
	*t = ParseEventType(looseString(data))
	return nil
}

// Event - одно событие матча. Глобального ID нет, порядок - как пришло из источника.
// Отсутствующие и негодные поля декодируются в нулевые значения, событие не теряется.
type Event struct {
	MapNumber      int       `json:"mapNumber"`
	RoundNumber    int       `json:"roundNumber"`
	EventType      EventType `json:"eventType"`
	KillerName     string    `json:"killerName,omitempty"`
	VictimName     string    `json:"victimName,omitempty"`
	Weapon         string    `json:"weapon,omitempty"`
	LogText        string    `json:"logText,omitempty"`
	IsHeadshot     bool      `json:"isHeadshot"`
	IsWallbang     bool      `json:"isWallbang"`
	IsThroughSmoke bool      `json:"isThroughSmoke"`
	IsNoScope      bool      `json:"isNoScope"`
	IsBlindKill    bool      `json:"isBlindKill"`
}

// Round возвращает номер раунда; 0 и отрицательные значения означают "вне раунда".
func (e Event) Round() int {
	if e.RoundNumber < 0 {
		return 0
	}
	return e.RoundNumber
}

type rawEvent struct {
	MapNumber      json.RawMessage `json:"mapNumber"`
	RoundNumber    json.RawMessage `json:"roundNumber"`
	EventType      json.RawMessage `json:"eventType"`
	KillerName     json.RawMessage `json:"killerName"`
	VictimName     json.RawMessage `json:"victimName"`
	Weapon         json.RawMessage `json:"weapon"`
	LogText        json.RawMessage `json:"logText"`
	IsHeadshot     json.RawMessage `json:"isHeadshot"`
	IsWallbang     json.RawMessage `json:"isWallbang"`
	IsThroughSmoke json.RawMessage `json:"isThroughSmoke"`
	IsNoScope      json.RawMessage `json:"isNoScope"`
	IsBlindKill    json.RawMessage `json:"isBlindKill"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		// не объект (null, число, массив) - пустое событие
		*e = Event{}
		return nil
	}
	*e = Event{
		MapNumber:      looseInt(raw.MapNumber),
		RoundNumber:    looseInt(raw.RoundNumber),
		EventType:      ParseEventType(looseString(raw.EventType)),
		KillerName:     looseString(raw.KillerName),
		VictimName:     looseString(raw.VictimName),
		Weapon:         looseString(raw.Weapon),
		LogText:        looseString(raw.LogText),
		IsHeadshot:     looseBool(raw.IsHeadshot),
		IsWallbang:     looseBool(raw.IsWallbang),
		IsThroughSmoke: looseBool(raw.IsThroughSmoke),
		IsNoScope:      looseBool(raw.IsNoScope),
		IsBlindKill:    looseBool(raw.IsBlindKill),
	}
	return nil
}
