package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/timeutil"
)

type Service struct {
	rules     PricingRuleRepository
	resources ResourceRepository
	clubs     ClubRepository
	holidays  HolidayRepository
}

func NewService(rules PricingRuleRepository, resources ResourceRepository, clubs ClubRepository, holidays HolidayRepository) *Service {
	return &Service{
		rules:     rules,
		resources: resources,
		clubs:     clubs,
		holidays:  holidays,
	}
}

// DayQuote resolves prices for arbitrary sub-ranges of one calendar date on
// one resource, with the rule set loaded once. The availability generator
// uses it to price every slot of a day without refetching.
type DayQuote struct {
	defaultPriceCents int64
	rules             []domain.PricingRule
	day               dayContext
}

// PriceFor resolves the price of [startMin, endMin) minutes-of-day: among
// rules applicable to the date whose window contains the whole range, the
// highest-precedence one wins; with no match the resource default applies.
// Either way the hourly price scales linearly with duration.
func (q *DayQuote) PriceFor(startMin, endMin int) int64 {
	var best *domain.PricingRule
	for i := range q.rules {
		r := &q.rules[i]
		if !ruleApplies(*r, q.day) || !ruleCoversClock(*r, startMin, endMin) {
			continue
		}
		if best == nil || r.RuleType.Precedence() > best.RuleType.Precedence() {
			best = r
		}
	}

	price := q.defaultPriceCents
	if best != nil {
		price = best.PriceCents
	}
	return timeutil.ScalePricePerHour(price, endMin-startMin)
}

// QuoteDay loads everything needed to price ranges on the resource's local
// calendar date that `day` falls on. `day` must already be localized.
func (s *Service) QuoteDay(ctx context.Context, resourceID int64, day time.Time) (*DayQuote, error) {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}

	dateKey := timeutil.DateKey(day, day.Location())
	holiday, err := s.holidays.GetByDate(ctx, dateKey)
	if err != nil {
		return nil, err
	}
	var holidayID *int64
	if holiday != nil {
		holidayID = &holiday.ID
	}

	rules, err := s.rules.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	return &DayQuote{
		defaultPriceCents: resource.DefaultPriceCents,
		rules:             rules,
		day: dayContext{
			date:      dateKey,
			weekday:   day.Weekday(),
			holidayID: holidayID,
		},
	}, nil
}

// ResolvePrice computes the charge for [start, end) on the resource. The
// range must lie within one calendar date of the resource's timezone.
func (s *Service) ResolvePrice(ctx context.Context, resourceID int64, start, end time.Time) (int64, error) {
	loc, err := s.ResourceLocation(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	localStart := start.In(loc)
	localEnd := end.In(loc)
	if !localEnd.After(localStart) {
		return 0, ErrInvalidRange
	}

	startMin := timeutil.MinutesOfDay(localStart)
	endMin := timeutil.MinutesOfDay(localEnd)
	switch {
	case timeutil.SameDate(localStart, localEnd, loc):
	case endMin == 0 && timeutil.SameDate(localStart, localEnd.Add(-time.Minute), loc):
		// ending exactly at the next midnight still counts as one date
		endMin = timeutil.MinutesPerDay
	default:
		return 0, fmt.Errorf("%w: range spans multiple dates", ErrInvalidRange)
	}

	quote, err := s.QuoteDay(ctx, resourceID, localStart)
	if err != nil {
		return 0, err
	}
	return quote.PriceFor(startMin, endMin), nil
}

// ResourceLocation looks up the timezone the resource's calendar runs in,
// inherited from its owning club.
func (s *Service) ResourceLocation(ctx context.Context, resourceID int64) (*time.Location, error) {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}

	club, err := s.clubs.GetByID(ctx, resource.ClubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, ErrResourceNotFound
	}

	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		return nil, fmt.Errorf("club %d has invalid timezone %q: %w", club.ID, club.Timezone, err)
	}
	return loc, nil
}

// FindConflict scans the resource's rules for one whose applicability can
// share a date with the candidate and whose daily window overlaps it.
// excludeRuleID skips the candidate's own row on update.
func (s *Service) FindConflict(ctx context.Context, candidate domain.PricingRule, existing []domain.PricingRule, excludeRuleID int64) *domain.PricingRule {
	lookup := s.holidayLookup(ctx)
	for i := range existing {
		other := existing[i]
		if other.ID == excludeRuleID {
			continue
		}
		if applicabilityIntersects(candidate, other, lookup) && clockWindowsOverlap(candidate, other) {
			return &other
		}
	}
	return nil
}

func (s *Service) holidayLookup(ctx context.Context) holidayOnDate {
	return func(date string) *int64 {
		h, err := s.holidays.GetByDate(ctx, date)
		if err != nil || h == nil {
			return nil
		}
		return &h.ID
	}
}

// CreateRule validates the candidate and inserts it; the conflict scan runs
// inside the same transaction as the insert so concurrent rule edits cannot
// slip a conflicting pair past each other.
func (s *Service) CreateRule(ctx context.Context, rule *domain.PricingRule) error {
	if err := validateRule(*rule); err != nil {
		return err
	}
	if err := s.ensureResource(ctx, rule.ResourceID); err != nil {
		return err
	}

	return s.rules.CreateChecked(ctx, rule, func(existing []domain.PricingRule) error {
		if conflicting := s.FindConflict(ctx, *rule, existing, 0); conflicting != nil {
			return &RuleConflictError{Conflicting: *conflicting}
		}
		return nil
	})
}

// UpdateRule replaces an existing rule under the same transactional
// conflict check, excluding the rule's own previous version.
func (s *Service) UpdateRule(ctx context.Context, rule *domain.PricingRule) error {
	if err := validateRule(*rule); err != nil {
		return err
	}

	current, err := s.rules.GetByID(ctx, rule.ID)
	if err != nil {
		return err
	}
	if current == nil || current.ResourceID != rule.ResourceID {
		return ErrRuleNotFound
	}
	rule.CreatedAt = current.CreatedAt

	return s.rules.UpdateChecked(ctx, rule, func(existing []domain.PricingRule) error {
		if conflicting := s.FindConflict(ctx, *rule, existing, rule.ID); conflicting != nil {
			return &RuleConflictError{Conflicting: *conflicting}
		}
		return nil
	})
}

func (s *Service) DeleteRule(ctx context.Context, resourceID, ruleID int64) error {
	current, err := s.rules.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}
	if current == nil || current.ResourceID != resourceID {
		return ErrRuleNotFound
	}
	return s.rules.Delete(ctx, ruleID)
}

func (s *Service) ListRules(ctx context.Context, resourceID int64) ([]domain.PricingRule, error) {
	if err := s.ensureResource(ctx, resourceID); err != nil {
		return nil, err
	}
	return s.rules.ListByResource(ctx, resourceID)
}

func (s *Service) ensureResource(ctx context.Context, resourceID int64) error {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return err
	}
	if resource == nil {
		return ErrResourceNotFound
	}
	return nil
}
