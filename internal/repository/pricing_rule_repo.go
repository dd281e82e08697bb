package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type PricingRuleRepository interface {
	ListByResource(ctx context.Context, resourceID int64) ([]domain.PricingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.PricingRule, error)
	// CreateChecked inserts the rule after running check against the
	// resource's existing rules, all inside one transaction with the
	// existing rows locked. check returning an error aborts the insert.
	CreateChecked(ctx context.Context, rule *domain.PricingRule, check func(existing []domain.PricingRule) error) error
	// UpdateChecked saves the rule under the same locked validation; the
	// rule's own previous row is included in existing and must be skipped
	// by the check.
	UpdateChecked(ctx context.Context, rule *domain.PricingRule, check func(existing []domain.PricingRule) error) error
	Delete(ctx context.Context, id int64) error
}

type pricingRuleRepository struct {
	db *gorm.DB
}

func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

func (r *pricingRuleRepository) ListByResource(ctx context.Context, resourceID int64) ([]domain.PricingRule, error) {
	var rules []domain.PricingRule
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("id").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *pricingRuleRepository) GetByID(ctx context.Context, id int64) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	err := r.db.WithContext(ctx).First(&rule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *pricingRuleRepository) CreateChecked(ctx context.Context, rule *domain.PricingRule, check func(existing []domain.PricingRule) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockRules(tx, rule.ResourceID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		return tx.Create(rule).Error
	})
}

func (r *pricingRuleRepository) UpdateChecked(ctx context.Context, rule *domain.PricingRule, check func(existing []domain.PricingRule) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockRules(tx, rule.ResourceID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		return tx.Save(rule).Error
	})
}

func (r *pricingRuleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.PricingRule{}, id).Error
}

// lockRules reads a resource's rules FOR UPDATE so concurrent rule edits on
// the same resource serialize against each other. SQLite has no row locks
// and serializes writers on its own, so the clause is Postgres-only.
func lockRules(tx *gorm.DB, resourceID int64) ([]domain.PricingRule, error) {
	q := tx.Where("resource_id = ?", resourceID)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var existing []domain.PricingRule
	if err := q.Find(&existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
