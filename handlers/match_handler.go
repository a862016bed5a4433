package handlers

import (
	"net/http"

	"github.com/Dosada05/kratos-viewer/models"
	"github.com/Dosada05/kratos-viewer/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: ms,
	}
}

// ListMatches godoc
// @Summary Список матчей
// @Tags matches
// @Description Live-матчи в порядке live API, затем static-матчи, которых нет в live.
// @Produce json
// @Success 200 {object} map[string]interface{} "matches, count, sources"
// @Failure 503 {object} map[string]string "Ни один источник не настроен"
// @Router /api/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	list, err := h.matchService.ListMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	cards := make([]models.MatchCard, len(list.Matches))
	for i, m := range list.Matches {
		cards[i] = m.Card()
	}

	resp := jsonResponse{
		"matches": cards,
		"count":   len(cards),
		"sources": jsonResponse{"live": list.Live, "static": list.Static},
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatch godoc
// @Summary Матч с представлением событий
// @Tags matches
// @Description Карточка матча и производное представление: карты, счётчики типов, сводка, строки по раундам.
// @Produce json
// @Param matchID path string true "ID матча"
// @Param map query string false "Номер карты или all (по умолчанию первая карта)"
// @Param type query string false "Тип события или all"
// @Success 200 {object} map[string]interface{} "match, source, view"
// @Failure 400 {object} map[string]string "Невалидный параметр map"
// @Failure 404 {object} map[string]string "Матч не найден ни в одном источнике"
// @Failure 503 {object} map[string]string "Ни один источник не настроен"
// @Router /api/matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	detail, state, ok := h.loadDetail(w, r)
	if !ok {
		return
	}

	view := services.BuildEventView(detail.Events, state)
	resp := jsonResponse{
		"match":  detail.Match.Card(),
		"source": detail.Source,
		"view":   view,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchEvents godoc
// @Summary События матча
// @Tags matches
// @Description Плоский список событий после фильтров по карте и типу, в порядке источника.
// @Produce json
// @Param matchID path string true "ID матча"
// @Param map query string false "Номер карты или all"
// @Param type query string false "Тип события или all"
// @Success 200 {object} map[string]interface{} "events, state"
// @Failure 400 {object} map[string]string "Невалидный параметр map"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 503 {object} map[string]string "Ни один источник не настроен"
// @Router /api/matches/{matchID}/events [get]
func (h *MatchHandler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	detail, state, ok := h.loadDetail(w, r)
	if !ok {
		return
	}

	events := services.FilterByType(services.FilterByMap(detail.Events, state.Map), state.Type)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events, "state": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) loadDetail(w http.ResponseWriter, r *http.Request) (*services.MatchDetail, models.ViewState, bool) {
	id, err := getMatchIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return nil, models.ViewState{}, false
	}

	detail, err := h.matchService.GetMatchDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, models.ViewState{}, false
	}

	query := r.URL.Query()
	state, err := services.ResolveViewState(detail.Events, services.SelectionParams{
		Map:  query.Get("map"),
		Type: query.Get("type"),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, models.ViewState{}, false
	}
	return detail, state, true
}
