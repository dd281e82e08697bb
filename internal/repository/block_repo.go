package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type AvailabilityBlockRepository interface {
	ListForDate(ctx context.Context, resourceID int64, date string) ([]domain.AvailabilityBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error)
	Create(ctx context.Context, b *domain.AvailabilityBlock) error
	Delete(ctx context.Context, id int64) error
}

type availabilityBlockRepository struct {
	db *gorm.DB
}

func NewAvailabilityBlockRepository(db *gorm.DB) AvailabilityBlockRepository {
	return &availabilityBlockRepository{db: db}
}

func (r *availabilityBlockRepository) ListForDate(ctx context.Context, resourceID int64, date string) ([]domain.AvailabilityBlock, error) {
	var rows []domain.AvailabilityBlock
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND date = ?", resourceID, date).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *availabilityBlockRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
	var b domain.AvailabilityBlock
	err := r.db.WithContext(ctx).First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *availabilityBlockRepository) Create(ctx context.Context, b *domain.AvailabilityBlock) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *availabilityBlockRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.AvailabilityBlock{}, id).Error
}
