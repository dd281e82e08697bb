package availability

import "github.com/ihor-metko/RSP-sub015/internal/domain"

type Slot struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	PriceCents int64  `json:"price_cents"`
}

type DayAvailability struct {
	ResourceID int64  `json:"resource_id"`
	Date       string `json:"date"`
	Slots      []Slot `json:"slots"`
}

type BlockRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

func (r *BlockRequest) toDomain(resourceID, createdBy int64) *domain.AvailabilityBlock {
	return &domain.AvailabilityBlock{
		ResourceID: resourceID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Reason:     r.Reason,
		CreatedBy:  createdBy,
	}
}
