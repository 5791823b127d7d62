package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/escape-room-backend/internal/organization"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/clock"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/storage"
	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

// MaxUploadBytes caps a single photo upload.
const MaxUploadBytes = 10 << 20

const (
	thumbWidth  = 400
	thumbHeight = 300
)

type Service interface {
	// Upload attaches an image to a room. Only members of the room's
	// organization may upload.
	Upload(ctx context.Context, roomID string, header *multipart.FileHeader, callerUserID string) (*Photo, error)
	ListByRoom(ctx context.Context, roomID string) ([]*Photo, error)

	// Serve streams the full-size image; ServeThumbnail streams the fitted
	// JPEG. Both are public.
	Serve(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	ServeThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)

	Delete(ctx context.Context, id, callerUserID string) error
}

type service struct {
	repo        Repository
	store       storage.Store
	roomService room.Service
	orgService  organization.Service
	clock       clock.Clock
	logger      zerolog.Logger
}

func NewService(
	repo Repository,
	store storage.Store,
	roomService room.Service,
	orgService organization.Service,
	clk clock.Clock,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:        repo,
		store:       store,
		roomService: roomService,
		orgService:  orgService,
		clock:       clk,
		logger:      logger,
	}
}

func (s *service) Upload(ctx context.Context, roomID string, header *multipart.FileHeader, callerUserID string) (*Photo, error) {
	rm, err := s.roomService.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, rm.OrganizationID, callerUserID); err != nil {
		return nil, err
	}

	if header.Size > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload failed: %w", err)
	}
	defer src.Close()

	// Buffered so the bytes can be read twice: once for the original, once
	// for the thumbnail. Uploads are size-capped above.
	content, err := io.ReadAll(io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}
	if len(content) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("photos/%s/%s%s", id[:2], id, ext)

	if err := s.store.Save(ctx, key, bytes.NewReader(content)); err != nil {
		return nil, err
	}

	var thumbKey *string
	if thumb, err := storage.Thumbnail(bytes.NewReader(content), thumbWidth, thumbHeight); err != nil {
		// A broken or exotic image still gets stored; it just has no
		// thumbnail.
		s.logger.Warn().Err(err).Str("photo_id", id).Msg("thumbnail generation failed")
	} else {
		k := fmt.Sprintf("photos/%s/%s_thumb.jpg", id[:2], id)
		if err := s.store.Save(ctx, k, thumb); err != nil {
			s.logger.Warn().Err(err).Str("photo_id", id).Msg("thumbnail save failed")
		} else {
			thumbKey = &k
		}
	}

	p := &Photo{
		ID:           id,
		RoomID:       rm.ID,
		Filename:     header.Filename,
		StorageKey:   key,
		ThumbnailKey: thumbKey,
		ContentType:  contentType,
		Size:         int64(len(content)),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		_ = s.store.Remove(ctx, key)
		if thumbKey != nil {
			_ = s.store.Remove(ctx, *thumbKey)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListByRoom(ctx context.Context, roomID string) ([]*Photo, error) {
	if _, err := s.roomService.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.repo.ListByRoom(ctx, roomID)
}

func (s *service) Serve(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.store.Open(ctx, p.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return stream, p, nil
}

func (s *service) ServeThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailKey == nil {
		return nil, nil, ErrThumbnailMissing
	}
	stream, err := s.store.Open(ctx, *p.ThumbnailKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrThumbnailMissing
		}
		return nil, nil, err
	}
	return stream, p, nil
}

func (s *service) Delete(ctx context.Context, id, callerUserID string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	rm, err := s.roomService.GetByID(ctx, p.RoomID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, rm.OrganizationID, callerUserID); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, p.StorageKey); err != nil {
		s.logger.Warn().Err(err).Str("photo_id", p.ID).Msg("blob removal failed")
	}
	if p.ThumbnailKey != nil {
		_ = s.store.Remove(ctx, *p.ThumbnailKey)
	}
	return s.repo.Delete(ctx, p.ID)
}

func (s *service) requireMember(ctx context.Context, orgID, userID string) error {
	member, err := s.orgService.IsMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrPermissionDenied
	}
	return nil
}
