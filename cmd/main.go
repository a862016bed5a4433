package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/kratos-viewer/config"
	"github.com/Dosada05/kratos-viewer/db"
	"github.com/Dosada05/kratos-viewer/feed"
	"github.com/Dosada05/kratos-viewer/handlers"
	"github.com/Dosada05/kratos-viewer/repositories"
	api "github.com/Dosada05/kratos-viewer/routes"
	"github.com/Dosada05/kratos-viewer/services"
	"github.com/Dosada05/kratos-viewer/storage"
	"github.com/Dosada05/kratos-viewer/telemetry"
)

const serviceName = "kratos-viewer"

// @title Kratos Match Viewer API
// @version 1.0
// @description Reconciled live/static CS2 matches and derived event views.
// @BasePath /
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	level, _ := config.ParseLogLevel(cfg.LogLevel) // уровень уже провалидирован в Load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("static_source", cfg.StaticSource),
		slog.Bool("dev_mode", cfg.DevMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	// Live источник: адрес из окружения либо из удалённого config.json
	liveURL := cfg.LiveAPIURL
	if liveURL == "" && cfg.LiveConfigURL != "" {
		discovered, err := config.DiscoverLiveURL(ctx, nil, cfg.LiveConfigURL, cfg.LiveTimeout)
		if err != nil {
			logger.Warn("no live config found, live mode disabled", slog.String("url", cfg.LiveConfigURL), slog.Any("error", err))
		}
		liveURL = discovered
	}

	var liveRepo repositories.MatchRepository
	if liveURL != "" {
		liveRepo = repositories.NewLiveRepository(liveURL, cfg.LiveTimeout, cfg.TunnelBypass)
		logger.Info("live source enabled", slog.String("url", liveURL), slog.Duration("timeout", cfg.LiveTimeout))
	} else {
		logger.Info("live source disabled, static-only mode")
	}

	// Static источник
	staticRepo, staticLocation, archiveDB, err := buildStaticRepository(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize static source", slog.String("static_source", cfg.StaticSource), slog.Any("error", err))
		os.Exit(1)
	}
	if archiveDB != nil {
		defer func() {
			if err := archiveDB.Close(); err != nil {
				logger.Error("failed to close archive database connection", slog.Any("error", err))
			} else {
				logger.Info("archive database connection closed")
			}
		}()
	}
	if staticRepo != nil {
		logger.Info("static source enabled", slog.String("kind", cfg.StaticSource), slog.String("location", staticLocation))
	}

	// Инициализация сервисов
	matchService := services.NewMatchService(liveRepo, staticRepo, logger)

	// Инициализация WebSocket Hub и рефрешера live-фида
	wsHub := feed.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	refresher := services.NewRefresher(matchService, wsHub, cfg.RefreshInterval, logger)
	go refresher.Run(ctx)

	// Инициализация обработчиков HTTP
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, matchService, logger)
	healthHandler := handlers.NewHealthHandler(matchService, cfg.StaticSource, staticLocation)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, logger, cfg.CORSAllowedOrigins, matchHandler, webSocketHandler, healthHandler)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

// buildStaticRepository собирает static источник по STATIC_SOURCE.
// Для postgres дополнительно возвращает соединение, которое нужно закрыть.
func buildStaticRepository(ctx context.Context, cfg *config.Config) (repositories.MatchRepository, string, *sql.DB, error) {
	switch cfg.StaticSource {
	case config.StaticSourceHTTP:
		repo := repositories.NewStaticHTTPRepository(cfg.StaticAPIURL)
		return repo, repo.Location(), nil, nil

	case config.StaticSourceR2:
		store, err := storage.NewCloudflareR2Store(ctx, storage.CloudflareR2StoreConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
			Prefix:          cfg.R2.Prefix,
		})
		if err != nil {
			return nil, "", nil, err
		}
		repo := repositories.NewObjectRepository(store)
		return repo, repo.Location(), nil, nil

	case config.StaticSourcePostgres:
		dbConn, err := db.Connect(ctx, cfg.ArchiveDatabaseURL, 5*time.Second)
		if err != nil {
			return nil, "", nil, err
		}
		return repositories.NewPostgresRepository(dbConn), "postgres archive", dbConn, nil

	default:
		return nil, "", nil, nil
	}
}
