package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	entryRepo   repository.EntryRepository
	schema      validation.CommentSchema
}

func NewCommentService(commentRepo repository.CommentRepository, entryRepo repository.EntryRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, entryRepo: entryRepo}
}

func (s *CommentService) CreateComment(ctx context.Context, entryID uint, p validation.CommentPayload) (*models.Comment, error) {
	if _, err := s.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	if err := s.schema.Validate(p).Err(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		EntryID:   entryID,
		Content:   p.Content,
		UserEmail: models.NormalizeEmail(p.UserEmail),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, entryID uint) ([]*models.Comment, error) {
	if _, err := s.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByEntry(ctx, entryID)
}

// DeleteComment removes a comment, but only through the entry it belongs
// to. A comment id reached via some other entry's path reads as not found.
func (s *CommentService) DeleteComment(ctx context.Context, entryID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.EntryID != entryID {
		return models.NewNotFoundError("Comment", commentID)
	}
	return s.commentRepo.Delete(ctx, commentID)
}
