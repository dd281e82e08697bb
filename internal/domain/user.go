package domain

import "time"

type UserRole string

const (
	RoleCustomer  UserRole = "customer"
	RoleClubAdmin UserRole = "club_admin"
	RoleAdmin     UserRole = "admin"
)

// User is the reservation requester. Account management (registration,
// credentials, profiles) lives outside this service; the engine only needs
// identity, role and the blocked flag.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
