package services

import (
	"fmt"

	"github.com/Dosada05/kratos-viewer/models"
)

// SelectionParams - сырые параметры выбора из запроса. Пустая строка - параметр не задан.
type SelectionParams struct {
	Map  string
	Type string
}

// ResolveViewState применяет параметры к начальному состоянию матча так же,
// как это сделали бы последовательные действия пользователя: сначала выбор
// карты (со сбросом фильтра), затем выбор типа.
func ResolveViewState(events []models.Event, params SelectionParams) (models.ViewState, error) {
	state := models.NewViewState(AvailableMaps(events))

	if params.Map != "" {
		sel, err := models.ParseMapSelection(params.Map)
		if err != nil {
			return models.ViewState{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
		state = state.WithMap(sel)
	}
	if params.Type != "" {
		state = state.WithType(params.Type)
	}
	return state, nil
}
