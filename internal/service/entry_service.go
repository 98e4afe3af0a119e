// Package service holds the business rules between the HTTP layer and the
// repositories. Services validate input, normalize identity fields, and map
// persistence failures onto the application error taxonomy.
package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

type EntryService struct {
	entryRepo repository.EntryRepository
	schema    validation.EntrySchema
}

func NewEntryService(entryRepo repository.EntryRepository) *EntryService {
	return &EntryService{entryRepo: entryRepo}
}

func (s *EntryService) CreateEntry(ctx context.Context, p validation.EntryPayload) (*models.Entry, error) {
	if err := s.schema.Validate(p).Err(); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		Title:     *p.Title,
		Content:   *p.Content,
		MediaURLs: p.MediaURLs,
		Feeling:   p.Feeling,
		Location:  p.Location,
		Sensitive: p.Sensitive,
		UserEmail: models.NormalizeEmail(p.UserEmail),
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id uint) (*models.Entry, error) {
	return s.entryRepo.GetByID(ctx, id)
}

func (s *EntryService) ListEntries(ctx context.Context, filter repository.EntryFilter) ([]*models.Entry, error) {
	return s.entryRepo.List(ctx, filter)
}

// UpdateEntry replaces the mutable fields of an existing entry with the
// payload. The payload carries the full desired state, not a diff.
func (s *EntryService) UpdateEntry(ctx context.Context, id uint, p validation.EntryPayload) (*models.Entry, error) {
	if err := s.schema.Validate(p).Err(); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Title = *p.Title
	entry.Content = *p.Content
	entry.MediaURLs = p.MediaURLs
	entry.Feeling = p.Feeling
	entry.Location = p.Location
	entry.Sensitive = p.Sensitive
	entry.UserEmail = models.NormalizeEmail(p.UserEmail)

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EntryService) SetSensitive(ctx context.Context, id uint, sensitive bool) (*models.Entry, error) {
	if err := s.entryRepo.SetSensitive(ctx, id, sensitive); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByID(ctx, id)
}

func (s *EntryService) DeleteEntry(ctx context.Context, id uint) error {
	return s.entryRepo.Delete(ctx, id)
}
