package storage

import (
	"context"
	"io"
	"net/http"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound   = apperror.New(http.StatusNotFound, apperror.KindNotFound, "stored object not found")
	ErrInvalidKey = apperror.New(http.StatusBadRequest, apperror.KindValidation, "invalid storage key")
)

// Store persists uploaded blobs under relative keys.
type Store interface {
	Save(ctx context.Context, key string, content io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}
