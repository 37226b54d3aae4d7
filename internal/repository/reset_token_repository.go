package repository

import (
	"context"

	"gorm.io/gorm"

	"pixflow/internal/model"
)

// ResetTokenRepository defines reset token persistence operations.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.ResetToken) error
	FindByID(ctx context.Context, id uint) (*model.ResetToken, error)
	Delete(ctx context.Context, id uint) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository builds a GORM-backed repository.
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *model.ResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *resetTokenRepository) FindByID(ctx context.Context, id uint) (*model.ResetToken, error) {
	var token model.ResetToken
	if err := r.db.WithContext(ctx).First(&token, id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *resetTokenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ResetToken{}, id).Error
}
