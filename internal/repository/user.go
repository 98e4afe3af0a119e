package repository

import (
	"context"
	"errors"

	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for gate credentials.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertLockPassword(ctx context.Context, email, hash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpsertLockPassword(ctx context.Context, email, hash string) error {
	user := models.User{
		Email:            models.NormalizeEmail(email),
		LockPasswordHash: hash,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"lock_password_hash", "updated_at"}),
		}).
		Create(&user).Error
}
