package pricing

import (
	"context"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type PricingRuleRepository interface {
	ListByResource(ctx context.Context, resourceID int64) ([]domain.PricingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.PricingRule, error)
	CreateChecked(ctx context.Context, rule *domain.PricingRule, check func(existing []domain.PricingRule) error) error
	UpdateChecked(ctx context.Context, rule *domain.PricingRule, check func(existing []domain.PricingRule) error) error
	Delete(ctx context.Context, id int64) error
}

type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
}

type HolidayRepository interface {
	GetByDate(ctx context.Context, date string) (*domain.Holiday, error)
}
