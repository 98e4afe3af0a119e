package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// VerifyPassword checks the sensitive-entry gate password and returns an
// unlock token on success. The 401 body is identical for a wrong password
// and an unknown owner.
func (s *Server) VerifyPassword(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Password  string `json:"password"`
		UserEmail string `json:"userEmail"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserEmail == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("password and userEmail are required"))
	}

	token, err := s.gateService.VerifyPassword(ctx, req.UserEmail, req.Password)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// SetLockPassword sets or replaces the gate password for a journal owner
func (s *Server) SetLockPassword(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		UserEmail string `json:"userEmail"`
		Password  string `json:"password"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.gateService.SetLockPassword(ctx, req.UserEmail, req.Password); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
