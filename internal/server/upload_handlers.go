package server

import (
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia accepts a multipart "file" part, stores it in the configured
// blob store, and returns the URL the entry should reference. The client
// swaps its local preview reference for this URL before saving the entry.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("multipart 'file' part is required"))
	}
	if fileHeader.Size > int64(s.config.MaxUploadBytes()) {
		return models.RespondWithError(c, fiber.StatusRequestEntityTooLarge,
			models.NewValidationError("file exceeds the upload size limit"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewUploadError(err))
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := s.store.Put(ctx, storage.ObjectName(fileHeader.Filename), f, fileHeader.Size, contentType)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUploadError(err))
	}

	middleware.UploadBytes.Observe(float64(fileHeader.Size))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
