package pricing

import "github.com/ihor-metko/RSP-sub015/internal/domain"

type RuleRequest struct {
	RuleType   string  `json:"rule_type" binding:"required"`
	Date       *string `json:"date,omitempty"`
	HolidayID  *int64  `json:"holiday_id,omitempty"`
	DayOfWeek  *int    `json:"day_of_week,omitempty"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	PriceCents int64   `json:"price_cents"`
}

func (r RuleRequest) toDomain(resourceID int64) domain.PricingRule {
	return domain.PricingRule{
		ResourceID: resourceID,
		RuleType:   domain.RuleType(r.RuleType),
		Date:       r.Date,
		HolidayID:  r.HolidayID,
		DayOfWeek:  r.DayOfWeek,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		PriceCents: r.PriceCents,
	}
}

type conflictDetails struct {
	RuleID    int64  `json:"rule_id"`
	RuleType  string `json:"rule_type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
