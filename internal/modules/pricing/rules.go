package pricing

import (
	"fmt"
	"time"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/timeutil"
)

// dayContext pins down one calendar date in a resource's local timezone:
// everything a rule's applicability test needs.
type dayContext struct {
	date      string // "YYYY-MM-DD"
	weekday   time.Weekday
	holidayID *int64 // holiday falling on date, if any
}

// ruleApplies reports whether the rule's applicability matches the date.
func ruleApplies(r domain.PricingRule, d dayContext) bool {
	switch r.RuleType {
	case domain.RuleSpecificDate:
		return r.Date != nil && *r.Date == d.date
	case domain.RuleHoliday:
		return r.HolidayID != nil && d.holidayID != nil && *r.HolidayID == *d.holidayID
	case domain.RuleSpecificDay:
		return r.DayOfWeek != nil && *r.DayOfWeek == int(d.weekday)
	case domain.RuleWeekdays:
		return !timeutil.IsWeekend(d.weekday)
	case domain.RuleWeekends:
		return timeutil.IsWeekend(d.weekday)
	case domain.RuleAllDays:
		return true
	default:
		return false
	}
}

// ruleCoversClock reports whether the rule's daily window fully contains
// [startMin, endMin). Rules with unparseable stored times never match;
// validateRule keeps those out of the table in the first place.
func ruleCoversClock(r domain.PricingRule, startMin, endMin int) bool {
	rs, err := timeutil.ParseClock(r.StartTime)
	if err != nil {
		return false
	}
	re, err := timeutil.ParseClock(r.EndTime)
	if err != nil {
		return false
	}
	return timeutil.MinutesContain(rs, re, startMin, endMin)
}

// clockWindowsOverlap is the half-open overlap test on two rules' daily
// windows.
func clockWindowsOverlap(a, b domain.PricingRule) bool {
	as, err := timeutil.ParseClock(a.StartTime)
	if err != nil {
		return false
	}
	ae, err := timeutil.ParseClock(a.EndTime)
	if err != nil {
		return false
	}
	bs, err := timeutil.ParseClock(b.StartTime)
	if err != nil {
		return false
	}
	be, err := timeutil.ParseClock(b.EndTime)
	if err != nil {
		return false
	}
	return timeutil.MinutesOverlap(as, ae, bs, be)
}

// holidayOnDate resolves a "YYYY-MM-DD" date to the holiday falling on it,
// nil when the date is no holiday. Supplied by the service so the pure
// intersection logic stays free of storage concerns.
type holidayOnDate func(date string) *int64

// applicabilityIntersects reports whether two rules' applicability sets can
// both match at least one concrete calendar date. Precedence never excuses
// an intersection: a WEEKDAYS window overlapping a SPECIFIC_DAY(Monday)
// window conflicts even though resolution would rank them.
func applicabilityIntersects(a, b domain.PricingRule, holiday holidayOnDate) bool {
	// normalize so a is the more specific side
	if b.RuleType.Precedence() > a.RuleType.Precedence() {
		a, b = b, a
	}

	if a.RuleType == domain.RuleAllDays || b.RuleType == domain.RuleAllDays {
		return true
	}

	switch a.RuleType {
	case domain.RuleSpecificDate:
		if a.Date == nil {
			return false
		}
		d, err := timeutil.ParseDate(*a.Date, nil)
		if err != nil {
			return false
		}
		switch b.RuleType {
		case domain.RuleSpecificDate:
			return b.Date != nil && *a.Date == *b.Date
		case domain.RuleHoliday:
			id := holiday(*a.Date)
			return id != nil && b.HolidayID != nil && *id == *b.HolidayID
		case domain.RuleSpecificDay:
			return b.DayOfWeek != nil && *b.DayOfWeek == int(d.Weekday())
		case domain.RuleWeekdays:
			return !timeutil.IsWeekend(d.Weekday())
		case domain.RuleWeekends:
			return timeutil.IsWeekend(d.Weekday())
		}

	case domain.RuleHoliday:
		switch b.RuleType {
		case domain.RuleHoliday:
			return a.HolidayID != nil && b.HolidayID != nil && *a.HolidayID == *b.HolidayID
		default:
			// A holiday can fall on any weekday, so it can always share a
			// date with weekday-scoped rules.
			return true
		}

	case domain.RuleSpecificDay:
		if a.DayOfWeek == nil {
			return false
		}
		day := time.Weekday(*a.DayOfWeek)
		switch b.RuleType {
		case domain.RuleSpecificDay:
			return b.DayOfWeek != nil && *a.DayOfWeek == *b.DayOfWeek
		case domain.RuleWeekdays:
			return !timeutil.IsWeekend(day)
		case domain.RuleWeekends:
			return timeutil.IsWeekend(day)
		}

	case domain.RuleWeekdays:
		return b.RuleType == domain.RuleWeekdays

	case domain.RuleWeekends:
		return b.RuleType == domain.RuleWeekends
	}

	return false
}

// validateRule checks structural validity: a known type, the one
// applicability field that type requires, a well-formed non-inverted time
// window and a non-negative price.
func validateRule(r domain.PricingRule) error {
	if !r.RuleType.Valid() {
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidRule, r.RuleType)
	}
	if r.PriceCents < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidRule)
	}

	start, err := timeutil.ParseClock(r.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidRule, err)
	}
	end, err := timeutil.ParseClock(r.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrInvalidRule, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidRule)
	}

	wantDate := r.RuleType == domain.RuleSpecificDate
	wantHoliday := r.RuleType == domain.RuleHoliday
	wantDay := r.RuleType == domain.RuleSpecificDay

	if wantDate != (r.Date != nil) {
		return fmt.Errorf("%w: date must be set exactly for %s rules", ErrInvalidRule, domain.RuleSpecificDate)
	}
	if wantHoliday != (r.HolidayID != nil) {
		return fmt.Errorf("%w: holiday_id must be set exactly for %s rules", ErrInvalidRule, domain.RuleHoliday)
	}
	if wantDay != (r.DayOfWeek != nil) {
		return fmt.Errorf("%w: day_of_week must be set exactly for %s rules", ErrInvalidRule, domain.RuleSpecificDay)
	}

	if r.Date != nil {
		if _, err := timeutil.ParseDate(*r.Date, nil); err != nil {
			return fmt.Errorf("%w: date: %v", ErrInvalidRule, err)
		}
	}
	if r.DayOfWeek != nil && (*r.DayOfWeek < 0 || *r.DayOfWeek > 6) {
		return fmt.Errorf("%w: day_of_week must be 0..6", ErrInvalidRule)
	}
	return nil
}
