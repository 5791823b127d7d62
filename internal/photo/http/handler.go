package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/escape-room-backend/internal/auth"
	"github.com/nekogravitycat/escape-room-backend/internal/photo"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/response"
)

type Handler struct {
	service photo.Service
}

func NewHandler(service photo.Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	return id, true
}

// Upload attaches a multipart image to a room.
func (h *Handler) Upload(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	p, err := h.service.Upload(c.Request.Context(), roomID, header, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPhotoResponse(p))
}

// List returns a room's photo metadata. Public.
func (h *Handler) List(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	photos, err := h.service.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = NewPhotoResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Serve streams the full-size image. Public.
func (h *Handler) Serve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stream, p, err := h.service.Serve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", p.ContentType)
	c.Header("Content-Disposition", `inline; filename="`+p.Filename+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}

// ServeThumbnail streams the fitted JPEG thumbnail. Public.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stream, _, err := h.service.ServeThumbnail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}

// Delete removes a photo and its blobs.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
