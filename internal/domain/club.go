package domain

import "time"

// Club owns a set of bookable courts. Its timezone governs every calendar
// computation for the courts it owns; its hours rows define per-weekday
// operating windows.
type Club struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	City      string     `json:"city,omitempty"`
	Address   string     `json:"address,omitempty"`
	Timezone  string     `json:"timezone"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// ClubHours is one weekday's operating window, times as 24h "HH:MM".
// A missing row or IsClosed means the club does not open that day.
type ClubHours struct {
	ID        int64  `json:"id"`
	ClubID    int64  `json:"club_id"`
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

func (ClubHours) TableName() string { return "club_hours" }

// DefaultClubHours is the fallback schedule used when a club has no hours
// rows at all: open 08:00-22:00 every day.
func DefaultClubHours(clubID int64) []ClubHours {
	out := make([]ClubHours, 0, 7)
	for d := 0; d < 7; d++ {
		out = append(out, ClubHours{
			ClubID:    clubID,
			DayOfWeek: d,
			OpenTime:  "08:00",
			CloseTime: "22:00",
		})
	}
	return out
}
