package server

import (
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetEntries returns journal entries, newest first, narrowed by the optional
// user, feeling, location, tag, startDate and endDate query parameters.
func (s *Server) GetEntries(c *fiber.Ctx) error {
	ctx := c.UserContext()

	startDate, err := s.parseDateQuery(c, "startDate")
	if err != nil {
		return nil
	}
	endDate, err := s.parseDateQuery(c, "endDate")
	if err != nil {
		return nil
	}

	pagination := parsePagination(c, 50)
	filter := repository.EntryFilter{
		UserEmail: c.Query("user"),
		Feeling:   c.Query("feeling"),
		Location:  c.Query("location"),
		Tag:       c.Query("tag"),
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     pagination.Limit,
		Offset:    pagination.Offset,
	}

	entries, err := s.entryService.ListEntries(ctx, filter)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	return c.JSON(entries)
}

// GetEntry returns a single entry by ID
func (s *Server) GetEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	entry, err := s.entryService.GetEntry(ctx, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(entry)
}

// CreateEntry creates a new journal entry
func (s *Server) CreateEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var payload validation.EntryPayload
	if parseErr := c.BodyParser(&payload); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.CreateEntry(ctx, payload)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateEntry replaces an entry's fields with the request payload
func (s *Server) UpdateEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var payload validation.EntryPayload
	if parseErr := c.BodyParser(&payload); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.UpdateEntry(ctx, id, payload)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(entry)
}

// SetEntrySensitive toggles the sensitive flag without touching any other field
func (s *Server) SetEntrySensitive(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Sensitive bool `json:"sensitive"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.SetSensitive(ctx, id, req.Sensitive)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(entry)
}

// DeleteEntry removes an entry and all of its comments
func (s *Server) DeleteEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.entryService.DeleteEntry(ctx, id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
