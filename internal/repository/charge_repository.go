package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pixflow/internal/model"
)

// ChargeRepository defines charge persistence operations. Every read is
// scoped to an owner so a foreign id behaves exactly like a missing one.
type ChargeRepository interface {
	Create(ctx context.Context, charge *model.Charge) error
	Update(ctx context.Context, charge *model.Charge) error
	FindByIDForOwner(ctx context.Context, id, ownerID uint) (*model.Charge, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Charge, error)
	ListByOwnerStatusInRange(ctx context.Context, ownerID uint, statuses []model.ChargeStatus, from, to time.Time) ([]model.Charge, error)
}

type chargeRepository struct {
	db *gorm.DB
}

// NewChargeRepository builds a GORM-backed repository.
func NewChargeRepository(db *gorm.DB) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, charge *model.Charge) error {
	return r.db.WithContext(ctx).Create(charge).Error
}

func (r *chargeRepository) Update(ctx context.Context, charge *model.Charge) error {
	return r.db.WithContext(ctx).Save(charge).Error
}

func (r *chargeRepository) FindByIDForOwner(ctx context.Context, id, ownerID uint) (*model.Charge, error) {
	var charge model.Charge
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&charge).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *chargeRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Charge, error) {
	var charges []model.Charge
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

// ListByOwnerStatusInRange returns the owner's charges with one of the given
// statuses created within [from, to).
func (r *chargeRepository) ListByOwnerStatusInRange(ctx context.Context, ownerID uint, statuses []model.ChargeStatus, from, to time.Time) ([]model.Charge, error) {
	var charges []model.Charge
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND created_at >= ? AND created_at < ?", ownerID, statuses, from, to).
		Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}
