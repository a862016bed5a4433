package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Dosada05/kratos-viewer/models"
	"github.com/Dosada05/kratos-viewer/storage"
)

// ObjectRepository читает статический экспорт из объектного хранилища (R2).
// Ключи совпадают с путями StaticLayout.
type ObjectRepository struct {
	store storage.ObjectStore
}

func NewObjectRepository(store storage.ObjectStore) *ObjectRepository {
	return &ObjectRepository{store: store}
}

func (r *ObjectRepository) Name() string {
	return "static"
}

// Location - публичный адрес списка матчей, если он настроен.
func (r *ObjectRepository) Location() string {
	return r.store.GetPublicURL(StaticLayout.Matches())
}

func (r *ObjectRepository) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := r.readJSON(ctx, StaticLayout.Matches(), &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.Match{}
	}
	return matches, nil
}

func (r *ObjectRepository) GetMatch(ctx context.Context, id models.MatchID) (*models.Match, error) {
	var match *models.Match
	if err := r.readJSON(ctx, StaticLayout.Match(id), &match); err != nil {
		return nil, err
	}
	if match == nil {
		return nil, fmt.Errorf("%w: empty object for match %s", ErrRecordNotFound, id)
	}
	return match, nil
}

func (r *ObjectRepository) ListEvents(ctx context.Context, id models.MatchID) ([]models.Event, error) {
	var events []models.Event
	if err := r.readJSON(ctx, StaticLayout.Events(id), &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (r *ObjectRepository) readJSON(ctx context.Context, key string, dst interface{}) error {
	obj, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
		}
		return fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}
	defer obj.Body.Close()

	if err := json.NewDecoder(io.LimitReader(obj.Body, maxResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: object %s: badly-formed JSON: %w", ErrSourceUnavailable, obj.Key, err)
	}
	return nil
}
