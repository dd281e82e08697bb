package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

// Routing keys for reservation lifecycle events.
const (
	KeyReservationCreated   = "reservation.created"
	KeyReservationCancelled = "reservation.cancelled"
	KeyReservationExpired   = "reservation.expired"
	KeyReservationCompleted = "reservation.completed"
	KeyReservationPaid      = "reservation.paid"
)

// Envelope is the wire shape every sink receives. EventID makes downstream
// consumers idempotent across redeliveries.
type Envelope struct {
	EventID    string    `json:"event_id"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type ReservationPayload struct {
	ReservationID int64     `json:"reservation_id"`
	ResourceID    int64     `json:"resource_id"`
	UserID        int64     `json:"user_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	PriceCents    int64     `json:"price_cents"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
}

func NewEnvelope(key string, payload any) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func ReservationEnvelope(key string, r *domain.Reservation, reason string) Envelope {
	return NewEnvelope(key, ReservationPayload{
		ReservationID: r.ID,
		ResourceID:    r.ResourceID,
		UserID:        r.UserID,
		Start:         r.StartTime,
		End:           r.EndTime,
		PriceCents:    r.PriceCents,
		Status:        string(r.Status),
		Reason:        reason,
	})
}
