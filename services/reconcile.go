package services

import "github.com/Dosada05/kratos-viewer/models"

// Reconcile объединяет live и static списки матчей.
//
// nil в live означает, что live-источник недоступен; результат тогда равен static.
// Иначе сначала идут все live-матчи в исходном порядке, затем те static-матчи,
// чьих ID (в строковом виде) нет среди live, тоже в исходном порядке.
// Функция чистая: входные срезы не меняются.
func Reconcile(live, static []models.Match) []models.Match {
	if live == nil {
		result := make([]models.Match, len(static))
		copy(result, static)
		return result
	}

	liveIDs := make(map[string]struct{}, len(live))
	for _, m := range live {
		liveIDs[m.ID.String()] = struct{}{}
	}

	result := make([]models.Match, 0, len(live)+len(static))
	result = append(result, live...)
	for _, m := range static {
		if _, ok := liveIDs[m.ID.String()]; ok {
			continue
		}
		result = append(result, m)
	}
	return result
}
