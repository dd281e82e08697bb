package reservation

import (
	"time"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

type CreateRequest struct {
	ResourceID int64     `json:"resource_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Notes      string    `json:"notes"`
	// UserID is honored only for staff booking on a customer's behalf.
	UserID int64 `json:"user_id"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type ReservationResponse struct {
	ID                   int64      `json:"id"`
	ResourceID           int64      `json:"resource_id"`
	UserID               int64      `json:"user_id"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              time.Time  `json:"end_time"`
	PriceCents           int64      `json:"price_cents"`
	Status               string     `json:"status"`
	ReservationExpiresAt *time.Time `json:"reservation_expires_at,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	CancellationReason   string     `json:"cancellation_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func toResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:                   r.ID,
		ResourceID:           r.ResourceID,
		UserID:               r.UserID,
		StartTime:            r.StartTime,
		EndTime:              r.EndTime,
		PriceCents:           r.PriceCents,
		Status:               string(r.Status),
		ReservationExpiresAt: r.ReservationExpiresAt,
		Notes:                r.Notes,
		CancellationReason:   r.CancellationReason,
		CreatedAt:            r.CreatedAt,
	}
}

func toResponseList(rs []domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for i := range rs {
		out = append(out, toResponse(&rs[i]))
	}
	return out
}
