package services

import "errors"

// Ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Матч не нашёлся ни в live, ни в static источнике
	ErrMatchNotFound = errors.New("match not found")

	// Невалидные параметры выбора (карта/тип)
	ErrInvalidSelection = errors.New("invalid view selection")

	// Ни один источник не настроен (live отключён и STATIC_SOURCE=none)
	ErrNoSourceConfigured = errors.New("no match source configured")
)
