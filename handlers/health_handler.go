package handlers

import (
	"net/http"

	"github.com/Dosada05/kratos-viewer/services"
)

type HealthHandler struct {
	matchService   services.MatchService
	staticSource   string
	staticLocation string
}

// staticLocation - адрес статического экспорта для диагностики, может быть пустым.
func NewHealthHandler(ms services.MatchService, staticSource, staticLocation string) *HealthHandler {
	return &HealthHandler{matchService: ms, staticSource: staticSource, staticLocation: staticLocation}
}

// Health godoc
// @Summary Проверка живости
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	static := "none"
	if h.matchService.StaticEnabled() {
		static = h.staticSource
	}
	resp := jsonResponse{
		"status": "ok",
		"live":   h.matchService.LiveEnabled(),
		"static": static,
	}
	if h.staticLocation != "" {
		resp["static_location"] = h.staticLocation
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
