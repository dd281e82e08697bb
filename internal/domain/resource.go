package domain

import "time"

type SportType string

const (
	SportTennis    SportType = "tennis"
	SportPadel     SportType = "padel"
	SportSquash    SportType = "squash"
	SportBadminton SportType = "badminton"
)

// Resource is a bookable court. DefaultPriceCents is the hourly fallback
// applied when no pricing rule matches a requested range.
type Resource struct {
	ID                int64     `json:"id"`
	ClubID            int64     `json:"club_id"`
	Name              string    `json:"name"`
	SportType         SportType `json:"sport_type"`
	DefaultPriceCents int64     `json:"default_price_cents"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Holiday is one row of the holiday calendar consulted by HOLIDAY pricing
// rules. Date is "YYYY-MM-DD" in the club's local calendar.
type Holiday struct {
	ID   int64  `json:"id"`
	Date string `json:"date" gorm:"index"`
	Name string `json:"name"`
}

// AvailabilityBlock is a manual maintenance block. It occupies court time
// exactly like an active reservation but carries no price. Times are
// "HH:MM" within Date, interpreted in the club's timezone.
type AvailabilityBlock struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resource_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Reason     string    `json:"reason,omitempty"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
