package server

import (
	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on an entry
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var payload validation.CommentPayload
	if parseErr := c.BodyParser(&payload); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, entryID, payload)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns all comments for an entry, oldest first
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, entryID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// DeleteComment deletes a single comment scoped to its entry
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, entryID, commentID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
