package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/kratos-viewer/models"
	"github.com/Dosada05/kratos-viewer/repositories"
)

// SourceStatus - итог обращения к источнику при последней загрузке.
type SourceStatus string

const (
	SourceOK          SourceStatus = "ok"
	SourceUnavailable SourceStatus = "unavailable"
	SourceDisabled    SourceStatus = "disabled"
)

// MatchList - сведённый список матчей и состояние источников.
type MatchList struct {
	Matches []models.Match
	Live    SourceStatus
	Static  SourceStatus
}

// MatchDetail - матч и его события из одного источника.
type MatchDetail struct {
	Match  models.Match
	Events []models.Event
	Source string
}

type MatchService interface {
	ListMatches(ctx context.Context) (*MatchList, error)
	GetMatchDetail(ctx context.Context, id models.MatchID) (*MatchDetail, error)
	LiveEnabled() bool
	StaticEnabled() bool
}

type matchService struct {
	live   repositories.MatchRepository // nil - live отключён
	static repositories.MatchRepository // nil - static отключён
	logger *slog.Logger
	tracer trace.Tracer
}

func NewMatchService(live, static repositories.MatchRepository, logger *slog.Logger) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		live:   live,
		static: static,
		logger: logger,
		tracer: otel.Tracer("github.com/Dosada05/kratos-viewer/services"),
	}
}

func (s *matchService) LiveEnabled() bool {
	return s.live != nil
}

func (s *matchService) StaticEnabled() bool {
	return s.static != nil
}

// ListMatches опрашивает оба источника параллельно (по одной попытке) и сводит
// результаты через Reconcile. Недоступность любого источника не является ошибкой.
func (s *matchService) ListMatches(ctx context.Context) (*MatchList, error) {
	if s.live == nil && s.static == nil {
		return nil, ErrNoSourceConfigured
	}

	ctx, span := s.tracer.Start(ctx, "services.ListMatches")
	defer span.End()

	var (
		liveMatches, staticMatches []models.Match
		liveStatus, staticStatus   = SourceDisabled, SourceDisabled
	)

	g, gCtx := errgroup.WithContext(ctx)

	if s.live != nil {
		g.Go(func() error {
			matches, err := s.live.ListMatches(gCtx)
			if err != nil {
				s.logger.Warn("live source unavailable, falling back to static",
					slog.String("source", s.live.Name()), slog.Any("error", err))
				liveStatus = SourceUnavailable
				return nil
			}
			liveMatches, liveStatus = matches, SourceOK
			s.logger.Debug("loaded matches", slog.String("source", s.live.Name()), slog.Int("count", len(matches)))
			return nil
		})
	}

	if s.static != nil {
		g.Go(func() error {
			matches, err := s.static.ListMatches(gCtx)
			if err != nil {
				s.logger.Warn("failed to load static matches",
					slog.String("source", s.static.Name()), slog.Any("error", err))
				staticStatus = SourceUnavailable
				return nil
			}
			staticMatches, staticStatus = matches, SourceOK
			s.logger.Debug("loaded matches", slog.String("source", s.static.Name()), slog.Int("count", len(matches)))
			return nil
		})
	}

	// Горутины не возвращают ошибок: все сбои источников мягкие.
	_ = g.Wait()

	merged := Reconcile(liveMatches, staticMatches)
	span.SetAttributes(
		attribute.Int("matches.count", len(merged)),
		attribute.String("source.live", string(liveStatus)),
		attribute.String("source.static", string(staticStatus)),
	)

	return &MatchList{Matches: merged, Live: liveStatus, Static: staticStatus}, nil
}

// GetMatchDetail берёт матч и события сначала из live, затем из static.
// Если матч не нашёлся нигде, возвращается ErrMatchNotFound.
func (s *matchService) GetMatchDetail(ctx context.Context, id models.MatchID) (*MatchDetail, error) {
	if s.live == nil && s.static == nil {
		return nil, ErrNoSourceConfigured
	}

	ctx, span := s.tracer.Start(ctx, "services.GetMatchDetail", trace.WithAttributes(attribute.String("match.id", id.String())))
	defer span.End()

	for _, repo := range []repositories.MatchRepository{s.live, s.static} {
		if repo == nil {
			continue
		}
		detail := s.fetchDetail(ctx, repo, id)
		if detail != nil {
			span.SetAttributes(attribute.String("match.source", detail.Source), attribute.Int("events.count", len(detail.Events)))
			return detail, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
}

// fetchDetail запрашивает матч и события одного источника параллельно.
// Возвращает nil, если сам матч получить не удалось или до событий не удалось
// достучаться (сеть, таймаут). Если источник ответил, но события пустые или
// негодные (404, не 2xx, битый JSON), матч остаётся с пустым списком.
func (s *matchService) fetchDetail(ctx context.Context, repo repositories.MatchRepository, id models.MatchID) *MatchDetail {
	var (
		match       *models.Match
		events      []models.Event
		unreachable bool
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := repo.GetMatch(gCtx, id)
		if err != nil {
			s.logger.Warn("failed to fetch match",
				slog.String("source", repo.Name()), slog.String("match_id", id.String()), slog.Any("error", err))
			return nil
		}
		match = m
		return nil
	})

	g.Go(func() error {
		ev, err := repo.ListEvents(gCtx, id)
		if err != nil {
			s.logger.Warn("failed to fetch match events",
				slog.String("source", repo.Name()), slog.String("match_id", id.String()), slog.Any("error", err))
			unreachable = repositories.IsTransportFailure(err)
			return nil
		}
		events = ev
		return nil
	})

	_ = g.Wait()

	if match == nil {
		return nil
	}
	if unreachable {
		s.logger.Warn("match source unreachable, trying next source",
			slog.String("source", repo.Name()), slog.String("match_id", id.String()))
		return nil
	}
	if events == nil {
		events = []models.Event{}
	}
	s.logger.Debug("loaded match", slog.String("source", repo.Name()),
		slog.String("match_id", id.String()), slog.Int("events", len(events)))

	return &MatchDetail{Match: *match, Events: events, Source: repo.Name()}
}
