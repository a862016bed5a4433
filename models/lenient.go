package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Источники пишут поля событий как придётся: флаг бывает 0/1 или "true",
// номер раунда бывает строкой. Функции ниже приводят значение к нужному типу,
// а всё, что привести нельзя, превращают в нулевое значение.

// looseInt: число или числовая строка, дробная часть отбрасывается.
func looseInt(raw json.RawMessage) int {
	f, ok := looseNumber(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func looseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// looseBool: true/false, ненулевое число, строка "true"/"1"/"t".
func looseBool(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return string(raw) == "true"
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && b
	}
	f, ok := looseNumber(raw)
	return ok && f != 0
}

// looseString: строка как есть, число - своим текстом, остальное - пустая строка.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if f, ok := looseNumber(raw); ok {
		return formatNumber(f)
	}
	return ""
}

// formatNumber печатает число без экспоненты и лишних нулей: 7.0 -> "7", 1e1 -> "10".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
