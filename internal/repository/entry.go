// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// EntryFilter narrows List results. Zero-valued fields mean "no constraint",
// never "empty-string match".
type EntryFilter struct {
	UserEmail string // exact match, case-insensitive
	Feeling   string // substring on the mood/activity tag
	Location  string // substring
	Tag       string // substring on title or content
	StartDate *time.Time
	EndDate   *time.Time // inclusive date; rows up to the end of this day match
	Limit     int
	Offset    int
}

// EntryRepository defines the interface for entry data operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id uint) (*models.Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	SetSensitive(ctx context.Context, id uint, sensitive bool) error
	Delete(ctx context.Context, id uint) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	entry.UserEmail = models.NormalizeEmail(entry.UserEmail)
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	cache.InvalidateEntryLists(ctx)
	return nil
}

func (r *entryRepository) GetByID(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	key := cache.EntryKey(id)

	err := cache.Aside(ctx, key, &entry, cache.EntryTTL, func() error {
		if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Entry", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) List(ctx context.Context, filter EntryFilter) ([]*models.Entry, error) {
	// Only the plain owner page is cached; feeling/location/tag/date
	// filters and offset pages go straight to the database.
	if cacheableList(filter) {
		var entries []*models.Entry
		key := cache.EntryListKey(models.NormalizeEmail(filter.UserEmail), filter.Limit)
		err := cache.Aside(ctx, key, &entries, cache.EntryListTTL, func() error {
			var qerr error
			entries, qerr = r.list(ctx, filter)
			return qerr
		})
		return entries, err
	}
	return r.list(ctx, filter)
}

func cacheableList(filter EntryFilter) bool {
	return filter.UserEmail != "" &&
		filter.Feeling == "" &&
		filter.Location == "" &&
		filter.Tag == "" &&
		filter.StartDate == nil &&
		filter.EndDate == nil &&
		filter.Offset == 0
}

func (r *entryRepository) list(ctx context.Context, filter EntryFilter) ([]*models.Entry, error) {
	var entries []*models.Entry

	q := r.db.WithContext(ctx).Model(&models.Entry{})

	// LOWER(...) LIKE keeps the query portable across Postgres and the
	// sqlite test harness; user_email is stored lower-cased already.
	if filter.UserEmail != "" {
		q = q.Where("user_email = ?", models.NormalizeEmail(filter.UserEmail))
	}
	if filter.Feeling != "" {
		q = q.Where("LOWER(feeling) LIKE LOWER(?)", "%"+filter.Feeling+"%")
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE LOWER(?)", "%"+filter.Location+"%")
	}
	if filter.Tag != "" {
		like := "%" + filter.Tag + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", like, like)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// Inclusive end date: everything strictly before the following day.
		q = q.Where("created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	err := q.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *entryRepository) Update(ctx context.Context, entry *models.Entry) error {
	entry.UserEmail = models.NormalizeEmail(entry.UserEmail)
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return err
	}
	cache.InvalidateEntry(ctx, entry.ID)
	cache.InvalidateEntryLists(ctx)
	return nil
}

func (r *entryRepository) SetSensitive(ctx context.Context, id uint, sensitive bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("id = ?", id).
		Update("sensitive", sensitive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Entry", id)
	}
	cache.InvalidateEntry(ctx, id)
	cache.InvalidateEntryLists(ctx)
	return nil
}

// Delete removes an entry and every comment referencing it in one
// transaction, so a comment can never outlive its entry.
func (r *entryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Entry{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Entry", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateEntry(ctx, id)
	cache.InvalidateEntryLists(ctx)
	return nil
}
