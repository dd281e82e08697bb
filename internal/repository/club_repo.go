package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
	GetHours(ctx context.Context, clubID int64) ([]domain.ClubHours, error)
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	var c domain.Club
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetHours returns the club's weekly schedule, falling back to the default
// schedule when the club has never configured one.
func (r *clubRepository) GetHours(ctx context.Context, clubID int64) ([]domain.ClubHours, error) {
	var rows []domain.ClubHours
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("day_of_week").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return domain.DefaultClubHours(clubID), nil
	}
	return rows, nil
}
