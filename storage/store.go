package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound возвращается, если ключа нет в бакете.
var ErrObjectNotFound = errors.New("object not found")

// Object - открытый на чтение объект. Вызывающий закрывает Body.
type Object struct {
	Key         string
	ContentType string
	Body        io.ReadCloser
}

// ObjectStore - хранилище статического экспорта матчей (только чтение).
type ObjectStore interface {
	Get(ctx context.Context, key string) (*Object, error)

	GetPublicURL(key string) string
}
