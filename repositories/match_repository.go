package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Dosada05/kratos-viewer/models"
)

var (
	// ErrSourceUnavailable - источник не ответил, ответил не 2xx, не JSON или за таймаут.
	ErrSourceUnavailable = errors.New("match source unavailable")
	// ErrRecordNotFound - источник доступен, но записи нет (404, нет объекта, нет строки).
	ErrRecordNotFound = errors.New("record not found in source")
	// ErrSourceUnreachable - до источника не дошли: сеть, таймаут, отказ соединения.
	// Частный случай ErrSourceUnavailable.
	ErrSourceUnreachable = fmt.Errorf("%w: transport failure", ErrSourceUnavailable)
)

// MatchRepository - источник матчей и событий. Реализации только читают.
type MatchRepository interface {
	// Name - короткое имя источника для логов и метаданных ответа.
	Name() string
	ListMatches(ctx context.Context) ([]models.Match, error)
	GetMatch(ctx context.Context, id models.MatchID) (*models.Match, error)
	ListEvents(ctx context.Context, id models.MatchID) ([]models.Event, error)
}

// Layout описывает, где в источнике лежат список, матч и его события.
type Layout struct {
	Matches func() string
	Match   func(id models.MatchID) string
	Events  func(id models.MatchID) string
}

// LiveLayout - REST-пути live API.
var LiveLayout = Layout{
	Matches: func() string { return "/matches" },
	Match:   func(id models.MatchID) string { return "/matches/" + url.PathEscape(id.String()) },
	Events:  func(id models.MatchID) string { return "/matches/" + url.PathEscape(id.String()) + "/events" },
}

// StaticLayout - имена файлов статического экспорта. Используется и как ключи объектов в R2.
var StaticLayout = Layout{
	Matches: func() string { return "/matches.json" },
	Match:   func(id models.MatchID) string { return "/matches/" + url.PathEscape(id.String()) + ".json" },
	Events:  func(id models.MatchID) string { return "/matches/" + url.PathEscape(id.String()) + "_events.json" },
}

// IsSoftFailure сообщает, можно ли перейти к следующему источнику.
// В этом сервисе таковы все ошибки чтения: ни одна не фатальна.
func IsSoftFailure(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// IsTransportFailure отличает обрыв связи с источником от ответа, который пришёл,
// но оказался пустым или негодным (404, не 2xx, битый JSON).
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrSourceUnreachable) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
