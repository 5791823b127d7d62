package photo

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "photo not found")
	ErrNotAnImage       = apperror.New(http.StatusBadRequest, apperror.KindValidation, "uploaded file is not an image")
	ErrTooLarge         = apperror.New(http.StatusRequestEntityTooLarge, apperror.KindValidation, "uploaded file is too large")
	ErrThumbnailMissing = apperror.New(http.StatusNotFound, apperror.KindNotFound, "photo has no thumbnail")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, apperror.KindValidation, "permission denied")
)

// Photo is a gallery image attached to an escape room. The storage keys are
// internal; clients address photos through the URL helpers.
type Photo struct {
	ID           string
	RoomID       string
	Filename     string
	StorageKey   string
	ThumbnailKey *string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
}

// URL is the public path serving the full-size image.
func URL(id string) string {
	return "/api/v1/photos/" + id
}

// ThumbnailURL is the public path serving the fitted JPEG thumbnail.
func ThumbnailURL(id string) string {
	return "/api/v1/photos/" + id + "/thumbnail"
}
