package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type HolidayRepository interface {
	// GetByDate returns the holiday falling on the "YYYY-MM-DD" date, or nil.
	GetByDate(ctx context.Context, date string) (*domain.Holiday, error)
}

type holidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) GetByDate(ctx context.Context, date string) (*domain.Holiday, error) {
	var h domain.Holiday
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}
