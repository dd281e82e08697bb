package pricing

import (
	"errors"
	"fmt"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

var (
	ErrInvalidRange     = errors.New("invalid time range")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidRule      = errors.New("invalid pricing rule")
	ErrResourceNotFound = errors.New("resource not found")
	ErrRuleNotFound     = errors.New("pricing rule not found")
)

// RuleConflictError reports which existing rule blocked a create/update, so
// the API can return the conflicting rule's identity and window.
type RuleConflictError struct {
	Conflicting domain.PricingRule
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("pricing rule conflicts with rule %d (%s %s-%s)",
		e.Conflicting.ID, e.Conflicting.RuleType, e.Conflicting.StartTime, e.Conflicting.EndTime)
}
