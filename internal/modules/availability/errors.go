package availability

import "errors"

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidRange     = errors.New("invalid time range")
	ErrResourceNotFound = errors.New("resource not found")
	ErrBlockNotFound    = errors.New("availability block not found")
	ErrBlockConflict    = errors.New("block overlaps an active reservation")
)
