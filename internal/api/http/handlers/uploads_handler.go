package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/storage"
)

// UploadsHandler accepts multipart uploads and streams stored files back.
// Uploaded files are inert until bound to a ticket or message.
type UploadsHandler struct {
	files storage.Store
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(files storage.Store) *UploadsHandler {
	return &UploadsHandler{files: files}
}

// Upload POST /uploads. Expects a multipart form with a "file" part.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperr.NewValidationError("multipart file field required", map[string]any{"field": "file"})
	}
	src, err := header.Open()
	if err != nil {
		return apperr.NewInternalError(err)
	}
	defer src.Close()

	stored, err := h.files.Save(src, header.Filename)
	if err != nil {
		return apperr.NewInternalError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"storage_key": stored.Key,
		"file_name":   stored.FileName,
		"mime_type":   stored.MimeType,
		"size_bytes":  stored.SizeBytes,
	}})
}

// Download GET /uploads/:key.
func (h *UploadsHandler) Download(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	key := c.Params("key")
	stored, err := h.files.Stat(key)
	if err != nil {
		return apperr.NewNotFound("file")
	}
	reader, err := h.files.Open(key)
	if err != nil {
		return apperr.NewNotFound("file")
	}
	c.Set(fiber.HeaderContentType, stored.MimeType)
	return c.SendStream(reader)
}
