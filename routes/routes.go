package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/kratos-viewer/docs" // Регистрирует swagger-спецификацию
	"github.com/Dosada05/kratos-viewer/handlers"
	"github.com/Dosada05/kratos-viewer/middleware"
)

const requestTimeout = 30 * time.Second

func SetupRoutes(
	router *chi.Mux,
	logger *slog.Logger,
	allowedOrigins []string,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler.Health)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		// Таймаут только на JSON API: WebSocket-соединения живут дольше
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.ListMatches)
			r.Get("/{matchID}", matchHandler.GetMatch)
			r.Get("/{matchID}/events", matchHandler.ListMatchEvents)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/matches", webSocketHandler.ServeMatchesWs)
		r.Get("/matches/{matchID}", webSocketHandler.ServeMatchWs)
	})
}
