package domain

import "time"

type ReservationStatus string

const (
	ReservationReserved       ReservationStatus = "reserved"
	ReservationPendingPayment ReservationStatus = "pending_payment"
	ReservationPaid           ReservationStatus = "paid"
	ReservationCancelled      ReservationStatus = "cancelled"
	ReservationCompleted      ReservationStatus = "completed"
	ReservationNoShow         ReservationStatus = "no_show"
)

// ActiveReservationStatuses are the statuses that occupy court time. Only
// these participate in overlap checks and slot classification.
func ActiveReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationReserved,
		ReservationPendingPayment,
		ReservationPaid,
	}
}

// IsTerminal reports whether s admits no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCancelled || s == ReservationCompleted || s == ReservationNoShow
}

// Reservation occupies [StartTime, EndTime) on one resource. PriceCents is
// fixed at creation and never recomputed. ReservationExpiresAt is set only
// for pending_payment rows; the expiry sweep cancels them once it passes.
type Reservation struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resource_id"`
	UserID     int64     `json:"user_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	PriceCents int64     `json:"price_cents"`

	Status               ReservationStatus `json:"status"`
	ReservationExpiresAt *time.Time        `json:"reservation_expires_at,omitempty"`

	Notes              string     `json:"notes,omitempty" gorm:"type:text"`
	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
