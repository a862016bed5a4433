package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultTeam1Name = "Team 1"
	DefaultTeam2Name = "Team 2"
)

// MatchID - идентификатор матча. Источники отдают его то строкой, то числом,
// поэтому сравнение всегда идёт по строковому представлению.
type MatchID string

func (id *MatchID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = MatchID(s)
		return nil
	}
	if f, ok := looseNumber(data); ok {
		*id = MatchID(formatNumber(f))
		return nil
	}
	return fmt.Errorf("match id must be string or number, got: %s", string(data))
}

func (id MatchID) String() string {
	return string(id)
}

// Winner - кто выиграл карту.
type Winner string

const (
	WinnerTeam1 Winner = "team1"
	WinnerTeam2 Winner = "team2"
	WinnerNone  Winner = "none"
)

func (w *Winner) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("winner must be a string: %w", err)
	}
	if s == nil {
		*w = WinnerNone
		return nil
	}
	switch Winner(strings.ToLower(*s)) {
	case WinnerTeam1:
		*w = WinnerTeam1
	case WinnerTeam2:
		*w = WinnerTeam2
	default:
		*w = WinnerNone
	}
	return nil
}

// MapResult - результат одной карты серии.
type MapResult struct {
	MapNumber  int    `json:"mapNumber"`
	MapName    string `json:"mapName,omitempty"`
	Team1Score int    `json:"team1Score"`
	Team2Score int    `json:"team2Score"`
	Winner     Winner `json:"winner"`
}

// SeriesScore - счёт серии по картам.
type SeriesScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Match - снимок матча в том виде, в каком его отдаёт live или static источник.
type Match struct {
	ID     MatchID      `json:"id"`
	Team1  string       `json:"team1,omitempty"`
	Team2  string       `json:"team2,omitempty"`
	Status string       `json:"status,omitempty"`
	Score  *SeriesScore `json:"score,omitempty"`
	Maps   []MapResult  `json:"maps,omitempty"`
}

// IsLive сравнивает статус без учёта регистра.
func (m Match) IsLive() bool {
	return strings.EqualFold(m.Status, "live")
}

func (m Match) Team1Name() string {
	if m.Team1 == "" {
		return DefaultTeam1Name
	}
	return m.Team1
}

func (m Match) Team2Name() string {
	if m.Team2 == "" {
		return DefaultTeam2Name
	}
	return m.Team2
}

// MatchCard - представление матча для списка и шапки детальной страницы.
type MatchCard struct {
	ID     MatchID      `json:"id"`
	Team1  string       `json:"team1"`
	Team2  string       `json:"team2"`
	Status string       `json:"status"`
	IsLive bool         `json:"is_live"`
	Score  *SeriesScore `json:"score,omitempty"`
	Maps   []MapResult  `json:"maps,omitempty"`
}

func (m Match) Card() MatchCard {
	status := "finished"
	if m.IsLive() {
		status = "live"
	}
	return MatchCard{
		ID:     m.ID,
		Team1:  m.Team1Name(),
		Team2:  m.Team2Name(),
		Status: status,
		IsLive: m.IsLive(),
		Score:  m.Score,
		Maps:   m.Maps,
	}
}
