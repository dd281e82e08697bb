package domain

import "time"

type RuleType string

const (
	RuleSpecificDate RuleType = "specific_date"
	RuleHoliday      RuleType = "holiday"
	RuleSpecificDay  RuleType = "specific_day"
	RuleWeekdays     RuleType = "weekdays"
	RuleWeekends     RuleType = "weekends"
	RuleAllDays      RuleType = "all_days"
)

// Precedence is the total order among rule types used both for resolution
// and for conflict detection. Higher wins.
func (t RuleType) Precedence() int {
	switch t {
	case RuleSpecificDate:
		return 5
	case RuleHoliday:
		return 4
	case RuleSpecificDay:
		return 3
	case RuleWeekdays, RuleWeekends:
		return 2
	case RuleAllDays:
		return 1
	default:
		return 0
	}
}

func (t RuleType) Valid() bool {
	return t.Precedence() > 0
}

// PricingRule prices a recurring or one-off time window on one resource.
// Exactly one of Date, HolidayID, DayOfWeek is set, depending on RuleType;
// WEEKDAYS/WEEKENDS/ALL_DAYS rules set none of them. StartTime/EndTime are
// 24h "HH:MM" with StartTime < EndTime (no overnight wrap). PriceCents is
// the hourly price; partial durations scale linearly.
type PricingRule struct {
	ID         int64    `json:"id"`
	ResourceID int64    `json:"resource_id"`
	RuleType   RuleType `json:"rule_type"`

	Date      *string `json:"date,omitempty"`        // SPECIFIC_DATE, "YYYY-MM-DD"
	HolidayID *int64  `json:"holiday_id,omitempty"`  // HOLIDAY
	DayOfWeek *int    `json:"day_of_week,omitempty"` // SPECIFIC_DAY, 0=Sunday..6=Saturday

	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
