package services

import (
	"sort"
	"strconv"

	"github.com/Dosada05/kratos-viewer/models"
)

// Placeholder подставляется вместо отсутствующих имён, оружия и номера раунда.
const Placeholder = "—"

type RowKind string

const (
	RowRound RowKind = "round"
	RowEvent RowKind = "event"
)

// Modifier - бейдж модификатора убийства.
type Modifier struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

var (
	ModHeadshot     = Modifier{Code: "HS", Title: "Headshot"}
	ModWallbang     = Modifier{Code: "WB", Title: "Wallbang"}
	ModThroughSmoke = Modifier{Code: "S", Title: "Through smoke"}
	ModNoScope      = Modifier{Code: "NS", Title: "No scope"}
	ModBlindKill    = Modifier{Code: "F", Title: "Blind Kill"}
)

// EventRow - строка таблицы событий. Текстовые поля не экранированы.
type EventRow struct {
	Round      int        `json:"round"`
	RoundLabel string     `json:"round_label"`
	Type       string     `json:"type"`
	TypeLabel  string     `json:"type_label"`
	Actor      string     `json:"actor"`
	Target     string     `json:"target"`
	Weapon     string     `json:"weapon"`
	Modifiers  []Modifier `json:"modifiers"`
}

// DisplayRow - либо разделитель раунда, либо событие.
type DisplayRow struct {
	Kind  RowKind   `json:"kind"`
	Round int       `json:"round,omitempty"`
	Event *EventRow `json:"event,omitempty"`
}

// ResolveNames возвращает актора, цель и оружие с подстановкой Placeholder.
// Если все три поля пусты, оружием становится logText.
func ResolveNames(e models.Event) (actor, target, weapon string) {
	actor, target, weapon = e.KillerName, e.VictimName, e.Weapon
	if actor == "" && target == "" && weapon == "" {
		weapon = e.LogText
	}
	return orPlaceholder(actor), orPlaceholder(target), orPlaceholder(weapon)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func Modifiers(e models.Event) []Modifier {
	mods := make([]Modifier, 0)
	if e.IsHeadshot {
		mods = append(mods, ModHeadshot)
	}
	if e.IsWallbang {
		mods = append(mods, ModWallbang)
	}
	if e.IsThroughSmoke {
		mods = append(mods, ModThroughSmoke)
	}
	if e.IsNoScope {
		mods = append(mods, ModNoScope)
	}
	if e.IsBlindKill {
		mods = append(mods, ModBlindKill)
	}
	return mods
}

func NewEventRow(e models.Event) EventRow {
	actor, target, weapon := ResolveNames(e)
	round := e.Round()
	roundLabel := Placeholder
	if round > 0 {
		roundLabel = strconv.Itoa(round)
	}
	return EventRow{
		Round:      round,
		RoundLabel: roundLabel,
		Type:       e.EventType.Raw,
		TypeLabel:  e.EventType.Label(),
		Actor:      actor,
		Target:     target,
		Weapon:     weapon,
		Modifiers:  Modifiers(e),
	}
}

// SortForDisplay возвращает копию событий, упорядоченную по убыванию раунда;
// внутри раунда round_end идёт первым. Остальной порядок сохраняется.
func SortForDisplay(events []models.Event) []models.Event {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Round(), sorted[j].Round()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].EventType.Is(models.EventRoundEnd) && !sorted[j].EventType.Is(models.EventRoundEnd)
	})
	return sorted
}

// OrderForDisplay строит строки таблицы с разделителями раундов. Разделитель
// вставляется, когда номер раунда меняется и не равен 0.
func OrderForDisplay(events []models.Event) []DisplayRow {
	sorted := SortForDisplay(events)
	rows := make([]DisplayRow, 0, len(sorted))
	lastRound := -1
	for _, e := range sorted {
		round := e.Round()
		if round != lastRound && round > 0 {
			rows = append(rows, DisplayRow{Kind: RowRound, Round: round})
			lastRound = round
		}
		row := NewEventRow(e)
		rows = append(rows, DisplayRow{Kind: RowEvent, Round: round, Event: &row})
	}
	return rows
}
