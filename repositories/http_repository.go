package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dosada05/kratos-viewer/models"
)

const (
	// TunnelBypassHeader отключает промежуточную страницу туннеля перед live API.
	TunnelBypassHeader = "Bypass-Tunnel-Reminder"

	DefaultLiveTimeout = 5 * time.Second

	maxResponseBytes = 10 << 20
)

// HTTPRepository читает матчи по HTTP GET. Одна попытка на запрос, без ретраев.
type HTTPRepository struct {
	name        string
	baseURL     string
	layout      Layout
	client      *http.Client
	timeout     time.Duration
	header      http.Header
	requireJSON bool
	tracer      trace.Tracer
}

type HTTPOption func(*HTTPRepository)

// WithTimeout ограничивает каждый запрос; превышение трактуется как ErrSourceUnavailable.
func WithTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPRepository) { r.timeout = d }
}

func WithHeader(key, value string) HTTPOption {
	return func(r *HTTPRepository) { r.header.Set(key, value) }
}

// WithRequireJSON отбрасывает ответы с Content-Type, отличным от JSON
// (например, HTML-заглушки туннеля или прокси).
func WithRequireJSON() HTTPOption {
	return func(r *HTTPRepository) { r.requireJSON = true }
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPRepository) { r.client = c }
}

func NewHTTPRepository(name, baseURL string, layout Layout, opts ...HTTPOption) *HTTPRepository {
	r := &HTTPRepository{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		layout:  layout,
		client:  &http.Client{},
		header:  make(http.Header),
		tracer:  otel.Tracer("github.com/Dosada05/kratos-viewer/repositories"),
	}
	r.header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLiveRepository - live API: таймаут, проверка Content-Type и заголовок обхода туннеля.
func NewLiveRepository(baseURL string, timeout time.Duration, tunnelBypass bool) *HTTPRepository {
	if timeout <= 0 {
		timeout = DefaultLiveTimeout
	}
	opts := []HTTPOption{WithTimeout(timeout), WithRequireJSON()}
	if tunnelBypass {
		opts = append(opts, WithHeader(TunnelBypassHeader, "true"))
	}
	return NewHTTPRepository("live", baseURL, LiveLayout, opts...)
}

// NewStaticHTTPRepository - статический экспорт (matches.json и т.д.). Таймаута нет,
// запрос ограничен только контекстом вызывающего.
func NewStaticHTTPRepository(baseURL string) *HTTPRepository {
	return NewHTTPRepository("static", baseURL, StaticLayout)
}

func (r *HTTPRepository) Name() string {
	return r.name
}

func (r *HTTPRepository) Location() string {
	return r.baseURL
}

func (r *HTTPRepository) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := r.getJSON(ctx, r.layout.Matches(), &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.Match{}
	}
	return matches, nil
}

func (r *HTTPRepository) GetMatch(ctx context.Context, id models.MatchID) (*models.Match, error) {
	var match *models.Match
	if err := r.getJSON(ctx, r.layout.Match(id), &match); err != nil {
		return nil, err
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s returned null for match %s", ErrRecordNotFound, r.name, id)
	}
	return match, nil
}

func (r *HTTPRepository) ListEvents(ctx context.Context, id models.MatchID) ([]models.Event, error) {
	var events []models.Event
	if err := r.getJSON(ctx, r.layout.Events(id), &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (r *HTTPRepository) getJSON(ctx context.Context, path string, dst interface{}) (err error) {
	url := r.baseURL + path

	ctx, span := r.tracer.Start(ctx, "repositories.http.get", trace.WithAttributes(
		attribute.String("source", r.name),
		attribute.String("http.url", url),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request to %s: %w", url, err)
	}
	for key, values := range r.header {
		req.Header[key] = values
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s GET %s: %w", ErrSourceUnreachable, r.name, url, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s GET %s", ErrRecordNotFound, r.name, url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s GET %s returned status %d", ErrSourceUnavailable, r.name, url, resp.StatusCode)
	}

	if r.requireJSON && !isJSONContentType(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: %s GET %s returned content type %q", ErrSourceUnavailable, r.name, url, resp.Header.Get("Content-Type"))
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(dst); err != nil {
		// таймаут посреди чтения тела - это обрыв связи, а не битый ответ
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s GET %s: %w", ErrSourceUnreachable, r.name, url, ctx.Err())
		}
		return fmt.Errorf("%w: %s GET %s: badly-formed JSON: %w", ErrSourceUnavailable, r.name, url, err)
	}
	return nil
}

func isJSONContentType(value string) bool {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
